package httpx

import (
	"context"
	"net/http"
	"strings"

	domainauth "github.com/medexjob/medexjob-api/internal/domain/auth"
)

// SessionCookieName is the cookie set by password and SSO logins.
const SessionCookieName = "session_id"

// SessionAuthenticator resolves request credentials into a live session.
type SessionAuthenticator interface {
	Authenticate(ctx context.Context, token string) (*domainauth.Session, error)
	GetSession(ctx context.Context, sessionID string) (*domainauth.Session, error)
}

// RequireAuth rejects anonymous requests with 401.
func RequireAuth(auth SessionAuthenticator) func(http.Handler) http.Handler {
	return RequireRole(auth)
}

// RequireRole admits sessions holding one of roles; admins hold them all.
// Other signed-in users get 403 and anonymous requests 401.
func RequireRole(auth SessionAuthenticator, roles ...domainauth.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess := resolveSession(r, auth)
			switch {
			case sess == nil:
				writeUnauthorized(w)
			case len(roles) > 0 && !sess.HasRole(roles...):
				writeForbidden(w)
			default:
				next.ServeHTTP(w, r.WithContext(WithSession(r.Context(), sess)))
			}
		})
	}
}

// OptionalAuth attaches the session when credentials check out and lets
// the request through either way.
func OptionalAuth(auth SessionAuthenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if sess := resolveSession(r, auth); sess != nil {
				r = r.WithContext(WithSession(r.Context(), sess))
			}
			next.ServeHTTP(w, r)
		})
	}
}

// resolveSession tries the Authorization header first. A request carrying
// any Authorization header is judged on it alone; the cookie is consulted
// only when the header is absent.
func resolveSession(r *http.Request, auth SessionAuthenticator) *domainauth.Session {
	var (
		sess *domainauth.Session
		err  error
	)
	if header := r.Header.Get("Authorization"); header != "" {
		scheme, token, _ := strings.Cut(header, " ")
		if !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
			return nil
		}
		sess, err = auth.Authenticate(r.Context(), strings.TrimSpace(token))
	} else {
		c, cerr := r.Cookie(SessionCookieName)
		if cerr != nil || c.Value == "" {
			return nil
		}
		sess, err = auth.GetSession(r.Context(), c.Value)
	}
	if err != nil {
		return nil
	}
	return sess
}
