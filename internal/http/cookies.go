package httpx

import (
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	oauthStateCookie    = "oauth_state"
	oauthNonceCookie    = "oauth_nonce"
	postLoginCookie     = "post_login_redirect"
	oauthCookieLifetime = 10 * time.Minute
)

// cookieWriter sets HttpOnly, SameSite=Lax cookies scoped to one domain.
// Secure follows the request so local HTTP development keeps working.
type cookieWriter struct {
	w      http.ResponseWriter
	domain string
	secure bool
}

func newCookieWriter(w http.ResponseWriter, r *http.Request, domain string) cookieWriter {
	return cookieWriter{w: w, domain: domain, secure: isSecureRequest(r)}
}

func (c cookieWriter) set(name, value string, maxAge time.Duration) {
	http.SetCookie(c.w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		Domain:   c.domain,
		HttpOnly: true,
		Secure:   c.secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(maxAge / time.Second),
	})
}

// clear expires name with the attributes it was set with, or browsers keep it.
func (c cookieWriter) clear(names ...string) {
	for _, name := range names {
		http.SetCookie(c.w, &http.Cookie{
			Name:     name,
			Path:     "/",
			Domain:   c.domain,
			HttpOnly: true,
			Secure:   c.secure,
			SameSite: http.SameSiteLaxMode,
			MaxAge:   -1,
			Expires:  time.Unix(0, 0).UTC(),
		})
	}
}

func cookieValue(r *http.Request, name string) string {
	c, err := r.Cookie(name)
	if err != nil {
		return ""
	}
	return c.Value
}

// safeRedirectPath keeps only same-origin absolute paths; anything else,
// including scheme-relative and backslash tricks, becomes "/".
func safeRedirectPath(candidate string) string {
	if !strings.HasPrefix(candidate, "/") || strings.HasPrefix(candidate, "//") || strings.ContainsRune(candidate, '\\') {
		return "/"
	}
	u, err := url.Parse(candidate)
	if err != nil || u.IsAbs() || u.Host != "" {
		return "/"
	}
	return candidate
}
