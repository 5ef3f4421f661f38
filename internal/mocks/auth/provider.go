// Package auth holds in-memory fakes for the auth and notification ports,
// for tests that want real behavior without Redis, Kafka or an IdP.
package auth

import (
	"context"
	"strconv"
	"sync"
	"time"

	domainauth "github.com/medexjob/medexjob-api/internal/domain/auth"
	"github.com/medexjob/medexjob-api/internal/ports"
)

var (
	_ ports.AuthProvider   = (*FakeProvider)(nil)
	_ ports.SessionStore   = (*MemorySessionStore)(nil)
	_ ports.EventPublisher = (*RecordingPublisher)(nil)
	_ ports.AdminAlerter   = (*RecordingAlerter)(nil)
)

// FakeProvider is an IdP that numbers its states and nonces ("state-1",
// "nonce-1", ...) and signs in Identity on every exchange. The Func fields
// override either step.
type FakeProvider struct {
	AuthURL  string
	Identity domainauth.Identity

	BeginFunc    func(context.Context) (ports.LoginChallenge, error)
	ExchangeFunc func(context.Context, ports.ExchangeInput) (domainauth.Identity, error)

	mu        sync.Mutex
	begins    int
	Exchanges []ports.ExchangeInput
}

// NewFakeProvider signs in mock.user@example.com with no groups.
func NewFakeProvider() *FakeProvider {
	return &FakeProvider{
		AuthURL: "https://mock-idp/auth",
		Identity: domainauth.Identity{
			UserID:    "mock-user-1",
			FirstName: "Mock",
			LastName:  "User",
			Email:     "mock.user@example.com",
		},
	}
}

func (p *FakeProvider) Begin(ctx context.Context) (ports.LoginChallenge, error) {
	if p.BeginFunc != nil {
		return p.BeginFunc(ctx)
	}
	p.mu.Lock()
	p.begins++
	n := strconv.Itoa(p.begins)
	p.mu.Unlock()
	return ports.LoginChallenge{AuthURL: p.AuthURL, State: "state-" + n, Nonce: "nonce-" + n}, nil
}

func (p *FakeProvider) Exchange(ctx context.Context, in ports.ExchangeInput) (domainauth.Identity, error) {
	p.mu.Lock()
	p.Exchanges = append(p.Exchanges, in)
	p.mu.Unlock()
	if p.ExchangeFunc != nil {
		return p.ExchangeFunc(ctx, in)
	}
	id := p.Identity
	id.Groups = append([]string(nil), p.Identity.Groups...)
	if id.ExpiresAt.IsZero() {
		id.ExpiresAt = time.Now().Add(time.Hour)
	}
	return id, nil
}
