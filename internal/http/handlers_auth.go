package httpx

import (
	"context"
	"crypto/subtle"
	"log/slog"
	"net/http"
	"time"

	domainauth "github.com/medexjob/medexjob-api/internal/domain/auth"
	"github.com/medexjob/medexjob-api/internal/domain/model"
	"github.com/medexjob/medexjob-api/internal/service"
)

// AuthServiceInterface defines the auth operations the handlers need.
type AuthServiceInterface interface {
	SessionAuthenticator
	Register(ctx context.Context, req model.RegisterRequest) (*model.AuthResponse, error)
	Login(ctx context.Context, req model.LoginRequest) (*model.AuthResponse, error)
	Logout(ctx context.Context, sessionID string) error
	Refresh(ctx context.Context, sess domainauth.Session) (*model.AuthResponse, error)
	Me(ctx context.Context, userID string) (*model.User, error)
	UpdateProfile(ctx context.Context, userID string, req model.UpdateProfileRequest) (*model.User, error)
	BeginLogin(ctx context.Context, redirectURL string) (*service.BeginLoginResult, error)
	CompleteLogin(ctx context.Context, input service.CompleteLoginInput) (*service.CompleteLoginResult, error)
}

// AuthHandlers provides HTTP handlers for authentication operations.
type AuthHandlers struct {
	Svc          AuthServiceInterface
	CookieDomain string
	// FrontendURL prefixes the post-login redirect of the SSO flow.
	FrontendURL string
	Logger      *slog.Logger
}

func (h *AuthHandlers) logger() *slog.Logger {
	if h != nil && h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

// Register creates a candidate or employer account and signs it in.
// POST /api/auth/register.
func (h *AuthHandlers) Register(w http.ResponseWriter, r *http.Request) {
	var req model.RegisterRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	resp, err := h.Svc.Register(r.Context(), req)
	if err != nil {
		WriteAppError(w, "register", err)
		return
	}
	WriteJSON(w, http.StatusCreated, resp)
}

// Login signs in with email and password.
// POST /api/auth/login.
func (h *AuthHandlers) Login(w http.ResponseWriter, r *http.Request) {
	var req model.LoginRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	resp, err := h.Svc.Login(r.Context(), req)
	if err != nil {
		WriteAppError(w, "login", err)
		return
	}
	WriteJSON(w, http.StatusOK, resp)
}

// Logout deletes the caller's session and clears the session cookie.
// POST /api/auth/logout.
func (h *AuthHandlers) Logout(w http.ResponseWriter, r *http.Request) {
	if sess, ok := SessionFrom(r.Context()); ok {
		if err := h.Svc.Logout(r.Context(), sess.ID); err != nil {
			h.logger().WarnContext(r.Context(), "logout failed", "error", err)
		}
	}
	newCookieWriter(w, r, h.CookieDomain).clear(SessionCookieName)
	WriteJSON(w, http.StatusOK, map[string]string{"status": "success"})
}

// Me returns the signed-in account.
// GET /api/auth/me.
func (h *AuthHandlers) Me(w http.ResponseWriter, r *http.Request) {
	user, err := h.Svc.Me(r.Context(), sessionOf(r).UserID)
	if err != nil {
		WriteAppError(w, "get_user", err)
		return
	}
	WriteJSON(w, http.StatusOK, user)
}

// UpdateMe edits the caller's own name and phone.
// PATCH /api/auth/me.
func (h *AuthHandlers) UpdateMe(w http.ResponseWriter, r *http.Request) {
	var req model.UpdateProfileRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	user, err := h.Svc.UpdateProfile(r.Context(), sessionOf(r).UserID, req)
	if err != nil {
		WriteAppError(w, "update_profile", err)
		return
	}
	WriteJSON(w, http.StatusOK, user)
}

// Refresh issues a new token for the current session.
// POST /api/auth/refresh.
func (h *AuthHandlers) Refresh(w http.ResponseWriter, r *http.Request) {
	resp, err := h.Svc.Refresh(r.Context(), sessionOf(r))
	if err != nil {
		WriteAppError(w, "refresh", err)
		return
	}
	WriteJSON(w, http.StatusOK, resp)
}

// Status reports whether the request is authenticated. It never returns 401.
// GET /api/auth/status.
func (h *AuthHandlers) Status(w http.ResponseWriter, r *http.Request) {
	sess, ok := SessionFrom(r.Context())
	if !ok {
		WriteJSON(w, http.StatusOK, map[string]any{"authenticated": false})
		return
	}
	user, err := h.Svc.Me(r.Context(), sess.UserID)
	if err != nil {
		WriteJSON(w, http.StatusOK, map[string]any{"authenticated": false})
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{
		"authenticated": true,
		"user":          user,
		"expires_at":    sess.ExpiresAt,
	})
}

// SSOLogin starts single sign-on. The state, nonce and return path ride in
// short-lived cookies until the callback.
// GET /auth/login?redirect_uri=<optional_redirect>.
func (h *AuthHandlers) SSOLogin(w http.ResponseWriter, r *http.Request) {
	returnTo := safeRedirectPath(r.URL.Query().Get("redirect_uri"))

	challenge, err := h.Svc.BeginLogin(r.Context(), returnTo)
	if err != nil {
		WriteAppError(w, "login", err)
		return
	}

	jar := newCookieWriter(w, r, h.CookieDomain)
	jar.set(oauthStateCookie, challenge.State, oauthCookieLifetime)
	jar.set(oauthNonceCookie, challenge.Nonce, oauthCookieLifetime)
	jar.set(postLoginCookie, returnTo, oauthCookieLifetime)
	http.Redirect(w, r, challenge.AuthURL, http.StatusFound)
}

// SSOCallback completes single sign-on, sets the session cookie and sends
// the browser back to the front end.
// GET /auth/callback?code=<code>&state=<state>.
func (h *AuthHandlers) SSOCallback(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	code, state := q.Get("code"), q.Get("state")
	nonce := cookieValue(r, oauthNonceCookie)

	switch {
	case code == "":
		writeError(w, http.StatusBadRequest, "missing_code", "authorization code is required")
		return
	case state == "":
		writeError(w, http.StatusBadRequest, "missing_state", "state parameter is required")
		return
	case subtle.ConstantTimeCompare([]byte(cookieValue(r, oauthStateCookie)), []byte(state)) != 1:
		writeError(w, http.StatusBadRequest, "invalid_state", "invalid or missing state parameter")
		return
	case nonce == "":
		writeError(w, http.StatusBadRequest, "missing_nonce", "missing nonce parameter")
		return
	}

	result, err := h.Svc.CompleteLogin(r.Context(), service.CompleteLoginInput{Code: code, State: state, Nonce: nonce})
	if err != nil {
		WriteAppError(w, "login_completion", err)
		return
	}

	returnTo := "/"
	if v := cookieValue(r, postLoginCookie); v != "" {
		returnTo = safeRedirectPath(v)
	}

	jar := newCookieWriter(w, r, h.CookieDomain)
	jar.set(SessionCookieName, result.Session.ID, time.Until(result.Session.ExpiresAt))
	jar.clear(oauthStateCookie, oauthNonceCookie, postLoginCookie)
	http.Redirect(w, r, h.FrontendURL+returnTo, http.StatusFound)
}
