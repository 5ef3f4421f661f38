package httpx

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/medexjob/medexjob-api/internal/domain/auth"
	"github.com/medexjob/medexjob-api/internal/domain/model"
	apperrors "github.com/medexjob/medexjob-api/internal/errors"
	"github.com/medexjob/medexjob-api/internal/service"
)

func TestAuthHandlers_Register_Created(t *testing.T) {
	var got model.RegisterRequest
	svc := &fakeAuth{registerFunc: func(_ context.Context, req model.RegisterRequest) (*model.AuthResponse, error) {
		got = req
		return &model.AuthResponse{Token: "tok", User: model.User{ID: "u1", Email: req.Email}}, nil
	}}
	h := &AuthHandlers{Svc: svc}

	req := httptest.NewRequest(http.MethodPost, "/api/auth/register", strings.NewReader(
		`{"email":"a@b.com","password":"secret123","first_name":"A","last_name":"B","role":"candidate"}`))
	w := serve(http.HandlerFunc(h.Register), req)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "candidate", got.Role)
	var resp model.AuthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "tok", resp.Token)
	assert.Equal(t, "a@b.com", resp.User.Email)
}

func TestAuthHandlers_Register_UnknownFieldRejected(t *testing.T) {
	h := &AuthHandlers{Svc: &fakeAuth{}}

	req := httptest.NewRequest(http.MethodPost, "/api/auth/register", strings.NewReader(`{"is_admin":true}`))
	w := serve(http.HandlerFunc(h.Register), req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "validation_failed")
}

func TestAuthHandlers_Login_Errors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"bad credentials", apperrors.Unauthorized("invalid email or password"), http.StatusUnauthorized, "unauthorized"},
		{
			"inactive",
			apperrors.Forbidden("account is deactivated").WithReason("account_inactive"),
			http.StatusForbidden, "account_inactive",
		},
		{"validation", apperrors.ValidationField("email", "email is required"), http.StatusBadRequest, "validation_failed"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := &AuthHandlers{Svc: &fakeAuth{loginFunc: func(context.Context, model.LoginRequest) (*model.AuthResponse, error) {
				return nil, tt.err
			}}}
			req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(`{"email":"x","password":"y"}`))
			w := serve(http.HandlerFunc(h.Login), req)

			assert.Equal(t, tt.wantStatus, w.Code)
			var body errorBody
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, tt.wantCode, body.Error)
		})
	}
}

func TestAuthHandlers_Logout_DeletesSessionAndClearsCookie(t *testing.T) {
	svc := &fakeAuth{}
	h := &AuthHandlers{Svc: svc}

	req := withSession(httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil), domainauth.RoleCandidate)
	w := serve(http.HandlerFunc(h.Logout), req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"sess-candidate"}, svc.loggedOut)
	resp := w.Result()
	defer resp.Body.Close()
	c := findCookie(resp, SessionCookieName)
	require.NotNil(t, c)
	assert.Equal(t, -1, c.MaxAge)
}

func TestAuthHandlers_Logout_Anonymous(t *testing.T) {
	svc := &fakeAuth{}
	h := &AuthHandlers{Svc: svc}

	w := serve(http.HandlerFunc(h.Logout), httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, svc.loggedOut)
}

func TestAuthHandlers_Refresh(t *testing.T) {
	h := &AuthHandlers{Svc: &fakeAuth{}}

	req := withSession(httptest.NewRequest(http.MethodPost, "/api/auth/refresh", nil), domainauth.RoleEmployer)
	w := serve(http.HandlerFunc(h.Refresh), req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "refreshed-sess-employer")
}

func TestAuthHandlers_Status(t *testing.T) {
	t.Run("authenticated", func(t *testing.T) {
		h := &AuthHandlers{Svc: &fakeAuth{}}
		req := withSession(httptest.NewRequest(http.MethodGet, "/api/auth/status", nil), domainauth.RoleCandidate)
		w := serve(http.HandlerFunc(h.Status), req)

		assert.Equal(t, http.StatusOK, w.Code)
		var body map[string]any
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, true, body["authenticated"])
		assert.NotNil(t, body["user"])
	})

	t.Run("anonymous", func(t *testing.T) {
		h := &AuthHandlers{Svc: &fakeAuth{}}
		w := serve(http.HandlerFunc(h.Status), httptest.NewRequest(http.MethodGet, "/api/auth/status", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"authenticated":false}`, w.Body.String())
	})

	t.Run("user gone", func(t *testing.T) {
		h := &AuthHandlers{Svc: &fakeAuth{meFunc: func(context.Context, string) (*model.User, error) {
			return nil, apperrors.NotFound("user not found")
		}}}
		req := withSession(httptest.NewRequest(http.MethodGet, "/api/auth/status", nil), domainauth.RoleCandidate)
		w := serve(http.HandlerFunc(h.Status), req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"authenticated":false}`, w.Body.String())
	})
}

func TestAuthHandlers_SSOLogin_SetsCookiesAndRedirects(t *testing.T) {
	var gotRedirect string
	h := &AuthHandlers{Svc: &fakeAuth{beginLoginFunc: func(_ context.Context, redirectURL string) (*service.BeginLoginResult, error) {
		gotRedirect = redirectURL
		return &service.BeginLoginResult{AuthURL: "https://idp.example.com/auth", State: "s", Nonce: "n"}, nil
	}}}

	w := serve(http.HandlerFunc(h.SSOLogin), httptest.NewRequest(http.MethodGet, "/auth/login?redirect_uri=/admin", nil))

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "https://idp.example.com/auth", w.Header().Get("Location"))
	assert.Equal(t, "/admin", gotRedirect)
	resp := w.Result()
	defer resp.Body.Close()
	assert.Len(t, resp.Cookies(), 3) // oauth_state, oauth_nonce, post_login_redirect
}

func TestAuthHandlers_SSOLogin_Disabled(t *testing.T) {
	h := &AuthHandlers{Svc: &fakeAuth{beginLoginFunc: func(context.Context, string) (*service.BeginLoginResult, error) {
		return nil, apperrors.NotFound("single sign-on is not configured").WithReason("sso_disabled")
	}}}

	w := serve(http.HandlerFunc(h.SSOLogin), httptest.NewRequest(http.MethodGet, "/auth/login", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "sso_disabled")
}

func TestAuthHandlers_SSOCallback_Success(t *testing.T) {
	var got service.CompleteLoginInput
	h := &AuthHandlers{
		Svc: &fakeAuth{completeLoginFunc: func(_ context.Context, in service.CompleteLoginInput) (*service.CompleteLoginResult, error) {
			got = in
			return (&fakeAuth{}).CompleteLogin(context.Background(), in)
		}},
		FrontendURL: "https://app.example.com",
	}

	req := httptest.NewRequest(http.MethodGet, "/auth/callback?code=c&state=test-state", nil)
	req.AddCookie(&http.Cookie{Name: "oauth_state", Value: "test-state"})
	req.AddCookie(&http.Cookie{Name: "oauth_nonce", Value: "test-nonce"})
	req.AddCookie(&http.Cookie{Name: "post_login_redirect", Value: "/admin/employers"})
	w := serve(http.HandlerFunc(h.SSOCallback), req)

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "https://app.example.com/admin/employers", w.Header().Get("Location"))
	assert.Equal(t, service.CompleteLoginInput{Code: "c", State: "test-state", Nonce: "test-nonce"}, got)

	resp := w.Result()
	defer resp.Body.Close()
	c := findCookie(resp, SessionCookieName)
	require.NotNil(t, c)
	assert.Equal(t, "sso-session", c.Value)
	assert.True(t, c.HttpOnly)
}

func TestAuthHandlers_SSOCallback_Rejections(t *testing.T) {
	tests := []struct {
		name     string
		target   string
		cookies  []*http.Cookie
		wantCode string
	}{
		{name: "missing code", target: "/auth/callback?state=s", wantCode: "missing_code"},
		{name: "missing state", target: "/auth/callback?code=c", wantCode: "missing_state"},
		{
			name:     "state mismatch",
			target:   "/auth/callback?code=c&state=s",
			cookies:  []*http.Cookie{{Name: "oauth_state", Value: "other"}},
			wantCode: "invalid_state",
		},
		{
			name:     "missing nonce",
			target:   "/auth/callback?code=c&state=s",
			cookies:  []*http.Cookie{{Name: "oauth_state", Value: "s"}},
			wantCode: "missing_nonce",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := &AuthHandlers{Svc: &fakeAuth{}}
			req := httptest.NewRequest(http.MethodGet, tt.target, nil)
			for _, c := range tt.cookies {
				req.AddCookie(c)
			}
			w := serve(http.HandlerFunc(h.SSOCallback), req)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Contains(t, w.Body.String(), tt.wantCode)
		})
	}
}

func TestSafeRedirectPath(t *testing.T) {
	tests := map[string]string{
		"":                         "/",
		"/dashboard":               "/dashboard",
		"/jobs?q=icu":              "/jobs?q=icu",
		"https://evil.example.com": "/",
		"//evil.example.com":       "/",
		"relative":                 "/",
		"://invalid":               "/",
		"/\\evil.example.com":      "/",
	}
	for in, want := range tests {
		assert.Equal(t, want, safeRedirectPath(in), "input %q", in)
	}
}
