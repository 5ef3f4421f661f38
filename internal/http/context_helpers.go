package httpx

import (
	"context"
	"net"
	"net/http"
	"strings"

	domainauth "github.com/medexjob/medexjob-api/internal/domain/auth"
)

type sessionKey struct{}

// WithSession attaches sess to ctx. A nil session leaves ctx as is.
func WithSession(ctx context.Context, sess *domainauth.Session) context.Context {
	if sess == nil {
		return ctx
	}
	return context.WithValue(ctx, sessionKey{}, sess)
}

// SessionFrom returns the session the auth middleware stored, if any.
func SessionFrom(ctx context.Context) (*domainauth.Session, bool) {
	sess, ok := ctx.Value(sessionKey{}).(*domainauth.Session)
	return sess, ok
}

// sessionOf is the zero session for anonymous requests.
func sessionOf(r *http.Request) domainauth.Session {
	if sess, ok := SessionFrom(r.Context()); ok {
		return *sess
	}
	return domainauth.Session{}
}

// clientKey identifies an anonymous visitor: the first X-Forwarded-For hop
// when present, else the peer address.
func clientKey(r *http.Request) string {
	first, _, _ := strings.Cut(r.Header.Get("X-Forwarded-For"), ",")
	if ip := strings.TrimSpace(first); ip != "" {
		return ip
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
