package config

import (
	"fmt"
	"strings"
	"time"
)

// AuthMode represents the SSO mode for staff logins.
type AuthMode string

const (
	// AuthModeOAuth uses OAuth/OIDC for staff SSO.
	AuthModeOAuth AuthMode = "oauth"
	// AuthModeMock uses mock/dev SSO (for development only).
	AuthModeMock AuthMode = "mock"
	// AuthModeLocal disables SSO; only email/password logins are available.
	AuthModeLocal AuthMode = "local"
)

// UnmarshalText implements encoding.TextUnmarshaler for AuthMode.
func (a *AuthMode) UnmarshalText(text []byte) error {
	v := strings.ToLower(string(text))
	switch v {
	case "oauth", "mock", "local":
		*a = AuthMode(v)
		return nil
	default:
		return fmt.Errorf("invalid AuthMode: %q (valid options: oauth, mock, local)", v)
	}
}

// OAuthConfig contains OAuth/OIDC configuration.
type OAuthConfig struct {
	ClientID     string `env:"CLIENT_ID"     envDefault:"medexjob"`
	ClientSecret string `env:"CLIENT_SECRET" envDefault:"medexjob"`
	RedirectURL  string `env:"REDIRECT_URL"  envDefault:"http://localhost:8080/auth/callback"`
	Scope        string `env:"SCOPE"         envDefault:"openid profile email groups"`
	DiscoveryURL string `env:"DISCOVERY_URL"`
}

// DevAuthConfig controls mock/dev SSO identity.
// Used when AUTH_MODE=mock for development and testing.
type DevAuthConfig struct {
	UserID string   `env:"USER_ID" envDefault:"dev-admin"`
	Email  string   `env:"EMAIL"   envDefault:"admin@medexjob.local"`
	Groups []string `env:"GROUPS"  envDefault:"medexjob-admins"    envSeparator:";"`
}

// JWTConfig controls bearer token issuance.
type JWTConfig struct {
	// Secret signs HS256 tokens. Required outside dev mode.
	Secret string `env:"SECRET"`
	Issuer string `env:"ISSUER" envDefault:"medexjob"`
}

// AuthConfig groups all authentication-related configuration.
type AuthConfig struct {
	// Mode determines which SSO provider to use for staff logins.
	Mode AuthMode `env:"AUTH_MODE" envDefault:"local"`

	// OAuth configuration (used when Mode=oauth).
	OAuth OAuthConfig `envPrefix:"OAUTH_"`

	// DevAuth configuration (used when Mode=mock).
	DevAuth DevAuthConfig `envPrefix:"DEV_AUTH_"`

	// JWT configuration for bearer tokens.
	JWT JWTConfig `envPrefix:"JWT_"`

	// SessionTTL is how long a login stays valid.
	SessionTTL time.Duration `env:"AUTH_SESSION_TTL" envDefault:"24h"`

	// AdminGroup is the IdP group granting the admin role on SSO login.
	AdminGroup string `env:"ADMIN_GROUP" envDefault:"medexjob-admins"`

	// EmployerGroup is the IdP group granting the employer role on SSO login.
	EmployerGroup string `env:"EMPLOYER_GROUP" envDefault:"medexjob-employers"`

	// BcryptCost is the password hashing cost.
	BcryptCost int `env:"AUTH_BCRYPT_COST" envDefault:"12"`
}

// Sanitize applies guardrails to auth configuration values.
func (a *AuthConfig) Sanitize() {
	if a.SessionTTL < 5*time.Minute {
		a.SessionTTL = 5 * time.Minute
	}
	if a.SessionTTL > 30*24*time.Hour {
		a.SessionTTL = 30 * 24 * time.Hour
	}
	// bcrypt accepts 4..31; anything above 14 makes logins noticeably slow.
	if a.BcryptCost < 4 {
		a.BcryptCost = 4
	}
	if a.BcryptCost > 14 {
		a.BcryptCost = 14
	}
	a.JWT.Secret = strings.TrimSpace(a.JWT.Secret)
	if a.JWT.Issuer = strings.TrimSpace(a.JWT.Issuer); a.JWT.Issuer == "" {
		a.JWT.Issuer = "medexjob"
	}
}
