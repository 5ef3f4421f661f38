// Package oidc signs staff in through an OpenID Connect identity provider.
package oidc

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"slices"
	"strings"
	"time"

	gooidc "github.com/coreos/go-oidc/v3/oidc"
	"golang.org/x/oauth2"

	domainauth "github.com/medexjob/medexjob-api/internal/domain/auth"
	"github.com/medexjob/medexjob-api/internal/ports"
)

const (
	discoveryTimeout = 10 * time.Second
	fallbackTokenTTL = time.Hour
	wellKnownSuffix  = "/.well-known/openid-configuration"
)

// ProviderConfig locates the IdP and identifies this client to it.
type ProviderConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
	// Scope is space separated. Without "openid" the identity comes from
	// the userinfo endpoint alone.
	Scope string
	// DiscoveryURL is the issuer URL, with or without the well-known suffix.
	DiscoveryURL string
	HTTPClient   *http.Client
}

// Provider runs the authorization code flow and verifies ID tokens.
type Provider struct {
	oauth    oauth2.Config
	idp      *gooidc.Provider
	verifier *gooidc.IDTokenVerifier
	client   *http.Client
	openID   bool
}

// NewProvider fetches the discovery document and builds the client.
func NewProvider(cfg ProviderConfig) (*Provider, error) {
	var missing []string
	for _, f := range []struct{ name, val string }{
		{"client ID", cfg.ClientID},
		{"client secret", cfg.ClientSecret},
		{"redirect URL", cfg.RedirectURL},
		{"discovery URL", cfg.DiscoveryURL},
	} {
		if strings.TrimSpace(f.val) == "" {
			missing = append(missing, f.name)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("oidc: %s is required", strings.Join(missing, ", "))
	}

	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	ctx, cancel := context.WithTimeout(context.Background(), discoveryTimeout)
	defer cancel()

	idp, err := gooidc.NewProvider(gooidc.ClientContext(ctx, client), issuerFromDiscovery(cfg.DiscoveryURL))
	if err != nil {
		return nil, fmt.Errorf("oidc discovery: %w", err)
	}

	scopes := strings.Fields(cfg.Scope)
	return &Provider{
		oauth: oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes:       scopes,
			Endpoint:     idp.Endpoint(),
		},
		idp:      idp,
		verifier: idp.Verifier(&gooidc.Config{ClientID: cfg.ClientID}),
		client:   client,
		openID:   slices.Contains(scopes, gooidc.ScopeOpenID),
	}, nil
}

func issuerFromDiscovery(raw string) string {
	u := strings.TrimRight(strings.TrimSpace(raw), "/")
	return strings.TrimRight(strings.TrimSuffix(u, wellKnownSuffix), "/")
}

// Begin returns the IdP consent URL with fresh state and nonce. The
// redirect URI is always the configured one so it matches the client
// registration.
func (p *Provider) Begin(context.Context) (ports.LoginChallenge, error) {
	state, err := randomHex(24)
	if err != nil {
		return ports.LoginChallenge{}, err
	}
	nonce, err := randomHex(24)
	if err != nil {
		return ports.LoginChallenge{}, err
	}
	return ports.LoginChallenge{
		AuthURL: p.oauth.AuthCodeURL(state,
			gooidc.Nonce(nonce),
			oauth2.SetAuthURLParam("prompt", "select_account"),
		),
		State: state,
		Nonce: nonce,
	}, nil
}

// Exchange trades the code for tokens, verifies the ID token against the
// nonce and fills gaps from userinfo. An identity without an email is
// rejected because accounts are matched by email.
func (p *Provider) Exchange(ctx context.Context, in ports.ExchangeInput) (domainauth.Identity, error) {
	switch {
	case in.Code == "":
		return domainauth.Identity{}, errors.New("oidc: authorization code is required")
	case in.State == "":
		return domainauth.Identity{}, errors.New("oidc: state is required")
	case in.Nonce == "":
		return domainauth.Identity{}, errors.New("oidc: nonce is required")
	}

	ctx = gooidc.ClientContext(ctx, p.client)
	tok, err := p.oauth.Exchange(ctx, in.Code)
	if err != nil {
		return domainauth.Identity{}, fmt.Errorf("oidc: exchange code: %w", err)
	}

	var c claims
	if p.openID {
		if c, err = p.idTokenClaims(ctx, tok, in.Nonce); err != nil {
			return domainauth.Identity{}, err
		}
	}
	if c.Subject == "" || c.Email == "" {
		info, err := p.idp.UserInfo(ctx, oauth2.StaticTokenSource(tok))
		if err != nil {
			return domainauth.Identity{}, fmt.Errorf("oidc: userinfo: %w", err)
		}
		var extra claims
		if err := info.Claims(&extra); err != nil {
			return domainauth.Identity{}, fmt.Errorf("oidc: decode userinfo: %w", err)
		}
		c = c.fill(extra)
	}

	id := c.identity()
	if id.Email == "" {
		return domainauth.Identity{}, errors.New("oidc: identity provider returned no email")
	}
	id.ExpiresAt = tok.Expiry
	if id.ExpiresAt.IsZero() {
		id.ExpiresAt = time.Now().Add(fallbackTokenTTL)
	}
	return id, nil
}

func (p *Provider) idTokenClaims(ctx context.Context, tok *oauth2.Token, nonce string) (claims, error) {
	raw, _ := tok.Extra("id_token").(string)
	if raw == "" {
		return claims{}, errors.New("oidc: token response has no id_token")
	}
	idTok, err := p.verifier.Verify(ctx, raw)
	if err != nil {
		return claims{}, fmt.Errorf("oidc: verify id_token: %w", err)
	}
	if idTok.Nonce != nonce {
		return claims{}, errors.New("oidc: id_token nonce mismatch")
	}
	var c claims
	if err := idTok.Claims(&c); err != nil {
		return claims{}, fmt.Errorf("oidc: decode id_token: %w", err)
	}
	return c, nil
}

// claims are the standard profile claims shared by ID tokens and userinfo.
type claims struct {
	Subject    string   `json:"sub"`
	Email      string   `json:"email"`
	GivenName  string   `json:"given_name"`
	FamilyName string   `json:"family_name"`
	Name       string   `json:"name"`
	Groups     []string `json:"groups"`
}

// fill copies fields from other that c lacks.
func (c claims) fill(other claims) claims {
	if c.Subject == "" {
		c.Subject = other.Subject
	}
	if c.Email == "" {
		c.Email = other.Email
	}
	if c.GivenName == "" && c.FamilyName == "" && c.Name == "" {
		c.GivenName, c.FamilyName, c.Name = other.GivenName, other.FamilyName, other.Name
	}
	if len(c.Groups) == 0 {
		c.Groups = other.Groups
	}
	return c
}

func (c claims) identity() domainauth.Identity {
	first, last := c.GivenName, c.FamilyName
	if first == "" && last == "" {
		first, last = splitName(c.Name)
	}
	return domainauth.Identity{
		UserID:    c.Subject,
		Email:     strings.ToLower(strings.TrimSpace(c.Email)),
		FirstName: first,
		LastName:  last,
		Groups:    c.Groups,
	}
}

// splitName treats the first word as the given name.
func splitName(name string) (string, string) {
	first, rest, _ := strings.Cut(strings.TrimSpace(name), " ")
	return first, strings.TrimSpace(rest)
}

func randomHex(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("oidc: read random: %w", err)
	}
	return hex.EncodeToString(b), nil
}
