// Package devauth is a stand-in SSO provider for local development. It skips
// the identity provider round trip and signs in a fixed staff identity.
package devauth

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"net/url"
	"strings"
	"time"

	domainauth "github.com/medexjob/medexjob-api/internal/domain/auth"
	"github.com/medexjob/medexjob-api/internal/ports"
)

const (
	// Code is the authorization code the provider hands to its own callback.
	Code = "dev"

	defaultCallbackPath = "/auth/callback"
	defaultTokenTTL     = 8 * time.Hour
)

// ErrInvalidCode is returned by Exchange for any code other than Code.
var ErrInvalidCode = errors.New("devauth: unknown authorization code")

// Config describes the identity handed out on every login.
type Config struct {
	UserID    string
	Email     string
	FirstName string
	LastName  string
	Groups    []string
	// TokenTTL stands in for the IdP token lifetime. Defaults to 8h.
	TokenTTL time.Duration
	// CallbackPath receives the simulated redirect. Defaults to /auth/callback.
	CallbackPath string
	Now          func() time.Time
}

// Provider satisfies ports.AuthProvider without leaving the process.
type Provider struct {
	identity     domainauth.Identity
	ttl          time.Duration
	callbackPath string
	now          func() time.Time
}

// NewProvider validates cfg. Without a name the identity is "Dev Admin".
func NewProvider(cfg Config) (*Provider, error) {
	userID := strings.TrimSpace(cfg.UserID)
	email := strings.TrimSpace(cfg.Email)
	switch {
	case userID == "":
		return nil, errors.New("devauth: user id is required")
	case email == "":
		return nil, errors.New("devauth: email is required")
	}

	p := &Provider{
		identity: domainauth.Identity{
			UserID:    userID,
			Email:     email,
			FirstName: cfg.FirstName,
			LastName:  cfg.LastName,
			Groups:    append([]string(nil), cfg.Groups...),
		},
		ttl:          cfg.TokenTTL,
		callbackPath: cfg.CallbackPath,
		now:          cfg.Now,
	}
	if p.identity.FirstName == "" && p.identity.LastName == "" {
		p.identity.FirstName, p.identity.LastName = "Dev", "Admin"
	}
	if p.ttl <= 0 {
		p.ttl = defaultTokenTTL
	}
	if p.callbackPath == "" {
		p.callbackPath = defaultCallbackPath
	}
	if p.now == nil {
		p.now = time.Now
	}
	return p, nil
}

// Begin points the browser straight back at the callback with a fresh state.
func (p *Provider) Begin(context.Context) (ports.LoginChallenge, error) {
	state, err := token()
	if err != nil {
		return ports.LoginChallenge{}, err
	}
	nonce, err := token()
	if err != nil {
		return ports.LoginChallenge{}, err
	}
	q := url.Values{"code": {Code}, "state": {state}}
	return ports.LoginChallenge{AuthURL: p.callbackPath + "?" + q.Encode(), State: state, Nonce: nonce}, nil
}

// Exchange accepts only Code. State and nonce are checked by the caller.
func (p *Provider) Exchange(_ context.Context, in ports.ExchangeInput) (domainauth.Identity, error) {
	if subtle.ConstantTimeCompare([]byte(in.Code), []byte(Code)) != 1 {
		return domainauth.Identity{}, ErrInvalidCode
	}
	id := p.identity
	id.Groups = append([]string(nil), p.identity.Groups...)
	id.ExpiresAt = p.now().Add(p.ttl)
	return id, nil
}

func token() (string, error) {
	b := make([]byte, 18)
	if _, err := rand.Read(b); err != nil {
		return "", errors.Join(errors.New("devauth: read random"), err)
	}
	return hex.EncodeToString(b), nil
}
