package httpx

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"net/http"
	"strings"
	"time"
)

const (
	DefaultCSRFCookieName = "csrf_token"
	// DefaultCSRFHeaderName is in canonical form.
	DefaultCSRFHeaderName = "X-Csrf-Token"

	csrfTokenBytes = 32
	csrfCookieTTL  = 12 * time.Hour
)

// CSRFConfig names the double-submit cookie and header.
type CSRFConfig struct {
	CookieName   string
	HeaderName   string
	CookieDomain string
}

type csrfGuard struct {
	cookie, header, domain string
}

// CSRFProtection is a double-submit cookie check. Every response without a
// token gets a fresh, script-readable csrf_token cookie. Unsafe requests
// that authenticate with the session cookie must echo the token in the
// X-Csrf-Token header. Bearer-token and cookieless requests are exempt
// because browsers never attach those credentials unprompted.
func CSRFProtection(cfg CSRFConfig) func(http.Handler) http.Handler {
	g := csrfGuard{cookie: cfg.CookieName, header: cfg.HeaderName, domain: cfg.CookieDomain}
	if g.cookie == "" {
		g.cookie = DefaultCSRFCookieName
	}
	if g.header == "" {
		g.header = DefaultCSRFHeaderName
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := g.token(r)
			if token == "" {
				if err := g.issue(w, r); err != nil {
					writeError(w, http.StatusInternalServerError, "internal_error", "unable to generate CSRF token")
					return
				}
			}
			if g.applies(r) && !g.matches(r, token) {
				writeError(w, http.StatusForbidden, "csrf_failed", "CSRF token validation failed")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func (g csrfGuard) token(r *http.Request) string {
	if c, err := r.Cookie(g.cookie); err == nil {
		return c.Value
	}
	return ""
}

func (g csrfGuard) issue(w http.ResponseWriter, r *http.Request) error {
	b := make([]byte, csrfTokenBytes)
	if _, err := rand.Read(b); err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     g.cookie,
		Value:    base64.RawURLEncoding.EncodeToString(b),
		Path:     "/",
		Domain:   g.domain,
		Secure:   isSecureRequest(r),
		SameSite: http.SameSiteStrictMode,
		MaxAge:   int(csrfCookieTTL.Seconds()),
	})
	return nil
}

// applies reports whether r is unsafe and rides on the session cookie.
func (g csrfGuard) applies(r *http.Request) bool {
	switch r.Method {
	case http.MethodGet, http.MethodHead, http.MethodOptions, http.MethodTrace:
		return false
	}
	if r.Header.Get("Authorization") != "" {
		return false
	}
	c, err := r.Cookie(SessionCookieName)
	return err == nil && c.Value != ""
}

// matches compares in constant time. A token issued on this very request
// was never seen by the client, so an empty cookie token always fails.
func (g csrfGuard) matches(r *http.Request, cookieToken string) bool {
	header := r.Header.Get(g.header)
	if cookieToken == "" || header == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(header), []byte(cookieToken)) == 1
}

// isSecureRequest honours X-Forwarded-Proto from the TLS-terminating proxy.
func isSecureRequest(r *http.Request) bool {
	if r.TLS != nil {
		return true
	}
	for _, proto := range strings.Split(r.Header.Get("X-Forwarded-Proto"), ",") {
		if strings.EqualFold(strings.TrimSpace(proto), "https") {
			return true
		}
	}
	return false
}
