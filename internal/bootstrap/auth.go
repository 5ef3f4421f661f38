package bootstrap

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/medexjob/medexjob-api/config"
	"github.com/medexjob/medexjob-api/internal/adapters/authroles"
	"github.com/medexjob/medexjob-api/internal/adapters/devauth"
	"github.com/medexjob/medexjob-api/internal/adapters/jwtauth"
	"github.com/medexjob/medexjob-api/internal/adapters/oidc"
	"github.com/medexjob/medexjob-api/internal/adapters/password"
	redisadapter "github.com/medexjob/medexjob-api/internal/adapters/redis"
	"github.com/medexjob/medexjob-api/internal/core"
	"github.com/medexjob/medexjob-api/internal/ports"
	"github.com/medexjob/medexjob-api/internal/service"
)

// SessionKeyPrefix namespaces session keys in the shared Redis.
const SessionKeyPrefix = "session:"

// AuthConfig contains configuration for auth service.
type AuthConfig struct {
	Auth        config.AuthConfig
	IsDev       bool
	Users       core.UserRepository
	RedisClient redis.UniversalClient
	Logger      *slog.Logger
}

// BuildAuthService wires password logins, JWT bearer tokens, Redis sessions
// and, depending on AUTH_MODE, an SSO provider.
// A misconfigured SSO provider disables SSO but keeps password logins working.
func BuildAuthService(cfg AuthConfig) (*service.AuthService, error) {
	if cfg.RedisClient == nil {
		return nil, errors.New("auth service requires a redis client")
	}
	if cfg.Users == nil {
		return nil, errors.New("auth service requires a user repository")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	tokens, err := buildTokenIssuer(cfg, logger)
	if err != nil {
		return nil, err
	}

	authPorts := service.AuthPorts{
		Sessions:  redisadapter.NewSessionStoreWithPrefix(cfg.RedisClient, SessionKeyPrefix),
		Tokens:    tokens,
		Passwords: password.NewBcryptHasher(cfg.Auth.BcryptCost),
	}
	if provider := buildSSOProvider(cfg.Auth, logger); provider != nil {
		authPorts.Provider = provider
		authPorts.Roles = authroles.StaticRoleMapper{
			AdminGroup:    cfg.Auth.AdminGroup,
			EmployerGroup: cfg.Auth.EmployerGroup,
		}
	}

	return service.NewAuthService(service.AuthServiceOptions{
		Users: cfg.Users,
		Ports: authPorts,
		Settings: service.AuthSettings{
			SessionTTL: cfg.Auth.SessionTTL,
			Logger:     logger,
		},
	}), nil
}

func buildTokenIssuer(cfg AuthConfig, logger *slog.Logger) (*jwtauth.Issuer, error) {
	secret := cfg.Auth.JWT.Secret
	if secret == "" {
		if !cfg.IsDev {
			return nil, errors.New("JWT secret is required")
		}
		buf := make([]byte, 32)
		if _, err := rand.Read(buf); err != nil {
			return nil, fmt.Errorf("generate dev jwt secret: %w", err)
		}
		secret = hex.EncodeToString(buf)
		logger.Warn("JWT_SECRET not set; using a random secret, tokens will not survive a restart")
	}

	issuer, err := jwtauth.NewIssuer(jwtauth.Config{Secret: secret, Issuer: cfg.Auth.JWT.Issuer})
	if err != nil {
		return nil, fmt.Errorf("create jwt issuer: %w", err)
	}
	return issuer, nil
}

//nolint:ireturn // Provider implementation is chosen by AUTH_MODE.
func buildSSOProvider(cfg config.AuthConfig, logger *slog.Logger) ports.AuthProvider {
	switch cfg.Mode {
	case config.AuthModeMock:
		return buildDevAuthProvider(cfg, logger)
	case config.AuthModeOAuth:
		return buildOAuthProvider(cfg, logger)
	default:
		return nil
	}
}

func buildDevAuthProvider(cfg config.AuthConfig, logger *slog.Logger) ports.AuthProvider {
	prov, err := devauth.NewProvider(devauth.Config{
		UserID: cfg.DevAuth.UserID,
		Email:  cfg.DevAuth.Email,
		Groups: cfg.DevAuth.Groups,
	})
	if err != nil {
		logger.Warn("failed to create dev auth provider, SSO disabled", "error", err)
		return nil
	}
	return prov
}

func buildOAuthProvider(cfg config.AuthConfig, logger *slog.Logger) ports.AuthProvider {
	// Only enable when fully configured
	oauth := cfg.OAuth
	if oauth.DiscoveryURL == "" || oauth.ClientID == "" || oauth.ClientSecret == "" {
		logger.Warn("AuthModeOAuth selected but required config missing; SSO disabled",
			"discovery_url_empty", oauth.DiscoveryURL == "",
			"client_id_empty", oauth.ClientID == "",
			"client_secret_empty", oauth.ClientSecret == "",
		)
		return nil
	}

	prov, err := oidc.NewProvider(oidc.ProviderConfig{
		ClientID:     oauth.ClientID,
		ClientSecret: oauth.ClientSecret,
		RedirectURL:  oauth.RedirectURL,
		Scope:        oauth.Scope,
		DiscoveryURL: oauth.DiscoveryURL,
	})
	if err != nil {
		logger.Warn("failed to create OIDC provider, SSO disabled", "error", err)
		return nil
	}
	return prov
}
