package bootstrap

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medexjob/medexjob-api/config"
	"github.com/medexjob/medexjob-api/internal/adapters/events"
	"github.com/medexjob/medexjob-api/internal/data/cryptoutil"
	"github.com/medexjob/medexjob-api/internal/ports"
)

func TestComponents(t *testing.T) {
	orch := func(modes ...config.ServiceMode) *ServiceOrchestrationConfig {
		return &ServiceOrchestrationConfig{
			Config:   &config.AppConfig{Services: config.ServiceSet(modes)},
			Services: &ServiceContainer{},
		}
	}

	comps, err := components(orch())
	require.NoError(t, err)
	assert.Empty(t, comps)

	_, err = components(orch(config.ServiceModeReaper))
	require.ErrorContains(t, err, "database connection")

	cfg := orch(config.ServiceModeReaper)
	cfg.DB = &sql.DB{}
	_, err = components(cfg)
	require.ErrorContains(t, err, "file store")
}

func TestValidateServiceConfig(t *testing.T) {
	prod := func() *config.AppConfig {
		cfg := &config.AppConfig{Services: config.ServiceSet{config.ServiceModeHTTP}, KYCEncryptionKey: "key"}
		cfg.Auth.Mode = config.AuthModeLocal
		cfg.Auth.JWT.Secret = "secret"
		return cfg
	}

	tests := []struct {
		name    string
		mutate  func(*config.AppConfig)
		wantErr string
	}{
		{name: "valid production config"},
		{name: "no services", mutate: func(c *config.AppConfig) { c.Services = nil }, wantErr: "no services enabled"},
		{name: "missing jwt secret", mutate: func(c *config.AppConfig) { c.Auth.JWT.Secret = "" }, wantErr: "JWT_SECRET"},
		{
			name:   "reaper does not need jwt secret",
			mutate: func(c *config.AppConfig) { c.Services = config.ServiceSet{config.ServiceModeReaper}; c.Auth.JWT.Secret = "" },
		},
		{name: "missing kyc key", mutate: func(c *config.AppConfig) { c.KYCEncryptionKey = "" }, wantErr: "KYC_ENCRYPTION_KEY"},
		{name: "mock auth", mutate: func(c *config.AppConfig) { c.Auth.Mode = config.AuthModeMock }, wantErr: "AUTH_MODE=mock"},
		{
			name: "dev skips secrets",
			mutate: func(c *config.AppConfig) {
				c.IsDev = true
				c.Auth.JWT.Secret = ""
				c.KYCEncryptionKey = ""
				c.Auth.Mode = config.AuthModeMock
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := prod()
			if tt.mutate != nil {
				tt.mutate(cfg)
			}
			err := ValidateServiceConfig(cfg)
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestNewLogger_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, config.LoggingConfig{Level: "warn", Format: "json"})

	logger.Info("hidden")
	logger.Warn("shown", "component", "test")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "shown", entry["msg"])
	assert.Equal(t, "test", entry["component"])
}

func TestNewLogger_Text(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, config.LoggingConfig{Level: "debug", Format: "text"})

	logger.Debug("console line")
	assert.Contains(t, buf.String(), "console line")
}

func TestBuildObservability_Disabled(t *testing.T) {
	obs, closers := buildObservability(discardLogger(), config.ObservabilityConfig{})

	assert.Nil(t, obs.MetricsSink)
	assert.Empty(t, closers)
	require.NotNil(t, obs.Alerts)
	assert.Equal(t, 0, obs.Alerts.Len())
	assert.IsType(t, events.NoopPublisher{}, obs.Events)
	require.NoError(t, obs.Events.Publish(context.Background(), ports.Event{Entity: "job", Action: "created"}))
}

func TestBuildAdminAlerts(t *testing.T) {
	cfg := config.ObservabilityNotificationsConfig{
		Enabled:    true,
		Timeout:    time.Second,
		RetryLimit: 1,
		Slack: config.SlackNotificationConfig{
			Enabled:    true,
			WebhookURL: "https://hooks.slack.test/services/x",
		},
		PagerDuty: config.PagerDutyNotificationConfig{
			Enabled:     true,
			RoutingKey:  "routing",
			MinSeverity: "critical",
		},
	}

	fanout := buildAdminAlerts(discardLogger(), cfg)
	assert.Equal(t, 2, fanout.Len())

	cfg.Slack.WebhookURL = ""
	fanout = buildAdminAlerts(discardLogger(), cfg)
	assert.Equal(t, 1, fanout.Len(), "misconfigured slack sink is skipped")
}

func TestRunServicesWithShutdown_RequiresConfig(t *testing.T) {
	ctx := context.Background()
	require.Error(t, RunServicesWithShutdown(ctx, nil))
	require.Error(t, RunServicesWithShutdown(ctx, &ServiceOrchestrationConfig{}))
	require.Error(t, RunServicesWithShutdown(ctx, &ServiceOrchestrationConfig{Config: &config.AppConfig{}}))

	err := RunServicesWithShutdown(ctx, &ServiceOrchestrationConfig{
		Config:   &config.AppConfig{},
		Services: &ServiceContainer{},
	})
	require.EqualError(t, err, "no services enabled")
}

func TestServiceContainerClose_Idempotent(t *testing.T) {
	c := &ServiceContainer{}
	require.NoError(t, c.Close())
	require.NoError(t, c.Close())
}

func TestCreateEncryptor(t *testing.T) {
	assert.IsType(t, cryptoutil.PlainEncryptor{}, CreateEncryptor("", discardLogger()))

	for _, secret := range []string{strings.Repeat("k", 32), "short dev secret"} {
		enc := CreateEncryptor(secret, discardLogger())
		require.IsType(t, &cryptoutil.GCMEncryptor{}, enc, secret)

		ct, err := enc.Encrypt("pan", "ABCDE1234F")
		require.NoError(t, err)
		pt, err := enc.Decrypt("pan", ct)
		require.NoError(t, err)
		assert.Equal(t, "ABCDE1234F", pt)
	}
}

func TestLoadConfig_EnvFiles(t *testing.T) {
	dir := t.TempDir()
	first := filepath.Join(dir, "base.env")
	second := filepath.Join(dir, "local.env")
	require.NoError(t, os.WriteFile(first, []byte("SERVICES=reaper\nLOG_LEVEL=debug\n"), 0o600))
	require.NoError(t, os.WriteFile(second, []byte("SERVICES=http\nLOG_FORMAT=text\n"), 0o600))

	t.Setenv("ENV_FILE", first+", "+second+", "+filepath.Join(dir, "missing.env"))
	// godotenv.Load never overrides, so these keys are cleared for the test.
	for _, k := range []string{"SERVICES", "LOG_LEVEL", "LOG_FORMAT"} {
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, config.ServiceSet{config.ServiceModeReaper}, cfg.Services, "first file wins")
	assert.Equal(t, "debug", cfg.Observability.Logging.Level)
	assert.Equal(t, "text", cfg.Observability.Logging.Format)
}
