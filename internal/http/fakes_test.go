package httpx

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"time"

	domainauth "github.com/medexjob/medexjob-api/internal/domain/auth"
	"github.com/medexjob/medexjob-api/internal/domain/model"
	apperrors "github.com/medexjob/medexjob-api/internal/errors"
	"github.com/medexjob/medexjob-api/internal/service"
)

var errNotImplemented = errors.New("not implemented")

// fakeAuth is a test double for AuthServiceInterface. Tokens and session
// cookies of the form "<role>-token" resolve to a session of that role.
type fakeAuth struct {
	registerFunc      func(ctx context.Context, req model.RegisterRequest) (*model.AuthResponse, error)
	loginFunc         func(ctx context.Context, req model.LoginRequest) (*model.AuthResponse, error)
	beginLoginFunc    func(ctx context.Context, redirectURL string) (*service.BeginLoginResult, error)
	completeLoginFunc func(ctx context.Context, input service.CompleteLoginInput) (*service.CompleteLoginResult, error)
	meFunc            func(ctx context.Context, userID string) (*model.User, error)

	loggedOut []string
}

func sessionFor(token string) (*domainauth.Session, error) {
	role, ok := strings.CutSuffix(token, "-token")
	if !ok {
		return nil, apperrors.Unauthorized("invalid token")
	}
	return &domainauth.Session{
		ID:        "sess-" + role,
		UserID:    "user-" + role,
		Email:     role + "@example.com",
		Role:      domainauth.Role(role),
		ExpiresAt: time.Now().Add(time.Hour),
	}, nil
}

func (f *fakeAuth) Authenticate(_ context.Context, token string) (*domainauth.Session, error) {
	return sessionFor(token)
}

func (f *fakeAuth) GetSession(_ context.Context, sessionID string) (*domainauth.Session, error) {
	return sessionFor(sessionID)
}

func (f *fakeAuth) Register(ctx context.Context, req model.RegisterRequest) (*model.AuthResponse, error) {
	if f.registerFunc != nil {
		return f.registerFunc(ctx, req)
	}
	return nil, errNotImplemented
}

func (f *fakeAuth) Login(ctx context.Context, req model.LoginRequest) (*model.AuthResponse, error) {
	if f.loginFunc != nil {
		return f.loginFunc(ctx, req)
	}
	return nil, errNotImplemented
}

func (f *fakeAuth) Logout(_ context.Context, sessionID string) error {
	f.loggedOut = append(f.loggedOut, sessionID)
	return nil
}

func (f *fakeAuth) Refresh(_ context.Context, sess domainauth.Session) (*model.AuthResponse, error) {
	return &model.AuthResponse{
		Token:     "refreshed-" + sess.ID,
		ExpiresAt: sess.ExpiresAt,
		User:      model.User{ID: sess.UserID, Email: sess.Email, Role: sess.Role},
	}, nil
}

func (f *fakeAuth) Me(ctx context.Context, userID string) (*model.User, error) {
	if f.meFunc != nil {
		return f.meFunc(ctx, userID)
	}
	return &model.User{ID: userID, Email: "me@example.com"}, nil
}

func (f *fakeAuth) UpdateProfile(
	_ context.Context,
	userID string,
	req model.UpdateProfileRequest,
) (*model.User, error) {
	u := &model.User{ID: userID}
	if req.FirstName != nil {
		u.FirstName = *req.FirstName
	}
	return u, nil
}

func (f *fakeAuth) BeginLogin(ctx context.Context, redirectURL string) (*service.BeginLoginResult, error) {
	if f.beginLoginFunc != nil {
		return f.beginLoginFunc(ctx, redirectURL)
	}
	return &service.BeginLoginResult{
		AuthURL: "https://idp.example.com/auth?state=test-state&nonce=test-nonce",
		State:   "test-state",
		Nonce:   "test-nonce",
	}, nil
}

func (f *fakeAuth) CompleteLogin(
	ctx context.Context,
	input service.CompleteLoginInput,
) (*service.CompleteLoginResult, error) {
	if f.completeLoginFunc != nil {
		return f.completeLoginFunc(ctx, input)
	}
	return &service.CompleteLoginResult{
		Session: domainauth.Session{
			ID:        "sso-session",
			UserID:    "user-admin",
			Email:     "admin@example.com",
			Role:      domainauth.RoleAdmin,
			ExpiresAt: time.Now().Add(time.Hour),
		},
	}, nil
}

// withSession returns r carrying a session of role in its context, as
// RequireRole would leave it.
func withSession(r *http.Request, role domainauth.Role) *http.Request {
	sess, _ := sessionFor(string(role) + "-token")
	return r.WithContext(WithSession(r.Context(), sess))
}

// serve sends req through h and returns the recorder.
func serve(h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

// bearer returns a request authenticated as role.
func bearer(method, target string, role domainauth.Role, body string) *http.Request {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Authorization", "Bearer "+string(role)+"-token")
	return req
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func jsonBody(s string) io.Reader { return strings.NewReader(s) }
