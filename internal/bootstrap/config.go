package bootstrap

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	"github.com/MatusOllah/slogcolor"
	"github.com/caarlos0/env/v11"
	"github.com/fatih/color"
	"github.com/joho/godotenv"

	"github.com/medexjob/medexjob-api/config"
)

// InitLogger installs the process logger before the full config is
// loaded. Only the logging section is parsed here.
func InitLogger() *slog.Logger {
	cfg, err := env.ParseAs[config.LoggingConfig]()
	cfg.Sanitize()
	logger := NewLogger(os.Stdout, cfg)
	if err != nil {
		logger.Warn("logging config ignored", "error", err)
	}
	slog.SetDefault(logger)
	return logger
}

// NewLogger returns a JSON handler, or slogcolor console output for text.
func NewLogger(w io.Writer, cfg config.LoggingConfig) *slog.Logger {
	level := cfg.SlogLevel()
	if cfg.Format != "text" {
		return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}))
	}
	opts := slogcolor.DefaultOptions
	opts.Level = level
	opts.MsgColor = color.New(color.FgMagenta)
	opts.SrcFileMode = slogcolor.Nop
	return slog.New(slogcolor.NewHandler(w, opts))
}

// LoadConfig reads the environment after merging dotenv files. ENV_FILE
// names them (comma separated); the default is ".env". Missing files are
// skipped and variables already set win.
func LoadConfig() (config.AppConfig, error) {
	files := []string{".env"}
	if v := strings.TrimSpace(os.Getenv("ENV_FILE")); v != "" {
		files = strings.Split(v, ",")
	}
	for _, f := range files {
		if err := godotenv.Load(strings.TrimSpace(f)); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return config.AppConfig{}, fmt.Errorf("load %s: %w", f, err)
		}
	}

	cfg, err := env.ParseAs[config.AppConfig]()
	if err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}
	cfg.Sanitize()
	return cfg, nil
}

// ValidateServiceConfig checks the secrets production deployments must set.
func ValidateServiceConfig(cfg *config.AppConfig) error {
	if cfg == nil {
		return errors.New("service config is required")
	}
	if len(cfg.Services) == 0 {
		return errors.New("no services enabled")
	}
	if cfg.IsDev {
		return nil
	}

	var missing []error
	if cfg.Services.Has(config.ServiceModeHTTP) && cfg.Auth.JWT.Secret == "" {
		missing = append(missing, errors.New("JWT_SECRET is required outside development"))
	}
	if cfg.KYCEncryptionKey == "" {
		missing = append(missing, errors.New("KYC_ENCRYPTION_KEY is required outside development"))
	}
	if cfg.Auth.Mode == config.AuthModeMock {
		missing = append(missing, errors.New("AUTH_MODE=mock is only allowed in development"))
	}
	return errors.Join(missing...)
}
