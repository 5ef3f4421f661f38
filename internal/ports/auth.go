// Package ports declares the behaviour services need from adapters. Adapters
// live under internal/adapters; the services in internal/service consume
// these interfaces.
package ports

import (
	"context"
	"time"

	domainauth "github.com/medexjob/medexjob-api/internal/domain/auth"
)

// LoginChallenge is what the browser is sent off with. State and Nonce are
// stored server-side and checked again on the callback.
type LoginChallenge struct {
	AuthURL string
	State   string
	Nonce   string
}

// ExchangeInput is the callback's code plus the stored state and nonce.
type ExchangeInput struct {
	Code  string
	State string
	Nonce string
}

type AuthProvider interface {
	Begin(ctx context.Context) (LoginChallenge, error)
	// Exchange redeems the code. Providers that issue ID tokens must reject
	// one whose nonce differs from in.Nonce.
	Exchange(ctx context.Context, in ExchangeInput) (domainauth.Identity, error)
}

// SessionStore implementations return domainauth.ErrSessionNotFound for
// unknown or lapsed ids.
type SessionStore interface {
	Save(ctx context.Context, sess domainauth.Session) error
	Get(ctx context.Context, id string) (domainauth.Session, error)
	Delete(ctx context.Context, id string) error
	DeleteByUser(ctx context.Context, userID string) (removed int, err error)
}

type RoleMapper interface {
	Map(groups []string) domainauth.Role
}

// TokenIssuer mints bearer tokens that name a session.
type TokenIssuer interface {
	Issue(sess domainauth.Session) (token string, expiresAt time.Time, err error)
	Verify(token string) (domainauth.TokenClaims, error)
}

type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) error
}
