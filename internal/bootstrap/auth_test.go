package bootstrap

import (
	"io"
	"log/slog"
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/medexjob/medexjob-api/config"
	"github.com/medexjob/medexjob-api/internal/adapters/devauth"
	"github.com/medexjob/medexjob-api/internal/mocks"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// unreachableRedis builds a client without dialing; nothing here issues commands.
func unreachableRedis(t *testing.T) redis.UniversalClient {
	t.Helper()
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1"})
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestBuildAuthService_RequiresDependencies(t *testing.T) {
	ctrl := gomock.NewController(t)
	users := mocks.NewMockUserRepository(ctrl)

	_, err := BuildAuthService(AuthConfig{Users: users, Logger: discardLogger()})
	require.Error(t, err)

	_, err = BuildAuthService(AuthConfig{RedisClient: unreachableRedis(t), Logger: discardLogger()})
	require.Error(t, err)
}

func TestBuildAuthService_JWTSecret(t *testing.T) {
	ctrl := gomock.NewController(t)
	users := mocks.NewMockUserRepository(ctrl)
	auth := config.AuthConfig{Mode: config.AuthModeLocal, BcryptCost: 4}

	_, err := BuildAuthService(AuthConfig{Auth: auth, Users: users, RedisClient: unreachableRedis(t), Logger: discardLogger()})
	require.Error(t, err, "production requires an explicit secret")

	svc, err := BuildAuthService(AuthConfig{
		Auth:        auth,
		IsDev:       true,
		Users:       users,
		RedisClient: unreachableRedis(t),
		Logger:      discardLogger(),
	})
	require.NoError(t, err)
	assert.False(t, svc.SSOEnabled())
}

func TestBuildSSOProvider(t *testing.T) {
	logger := discardLogger()

	tests := []struct {
		name    string
		auth    config.AuthConfig
		wantNil bool
	}{
		{name: "local mode", auth: config.AuthConfig{Mode: config.AuthModeLocal}, wantNil: true},
		{
			name: "mock mode",
			auth: config.AuthConfig{
				Mode: config.AuthModeMock,
				DevAuth: config.DevAuthConfig{
					UserID: "dev",
					Email:  "dev@example.com",
					Groups: []string{"medexjob-admins"},
				},
			},
		},
		{
			name:    "oauth without discovery",
			auth:    config.AuthConfig{Mode: config.AuthModeOAuth, OAuth: config.OAuthConfig{ClientID: "id", ClientSecret: "s"}},
			wantNil: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := buildSSOProvider(tt.auth, logger)
			if tt.wantNil {
				assert.Nil(t, got)
				return
			}
			assert.IsType(t, &devauth.Provider{}, got)
		})
	}
}
