package config

import (
	"os"
	"strings"
)

// AppConfig is everything the API server and the admin CLI read from the
// environment, parsed by caarlos0/env. Each section lives in its own file.
type AppConfig struct {
	// IsDev relaxes secret requirements and enables mock auth. APP_ENV=dev
	// or development also turns it on.
	IsDev bool `env:"DEV" envDefault:"false"`

	// KYCEncryptionKey seals Aadhaar and PAN numbers at rest.
	KYCEncryptionKey string `env:"KYC_ENCRYPTION_KEY"`

	Services ServiceSet `env:"SERVICES" envDefault:"http"`

	Auth     AuthConfig
	Postgres DBConfig    `envPrefix:"DB_"`
	Redis    RedisConfig `envPrefix:"REDIS_"`
	Cache    CacheConfig
	HTTP     HTTPConfig
	Files    FilesConfig `envPrefix:"FILES_"`
	Jobs     JobsConfig  `envPrefix:"JOBS_"`
	Reaper   ReaperConfig

	Observability ObservabilityConfig
}

// Sanitize clamps out-of-range values after parsing.
func (c *AppConfig) Sanitize() {
	for _, section := range []interface{ Sanitize() }{
		&c.HTTP, &c.Postgres, &c.Auth, &c.Files, &c.Jobs, &c.Cache, &c.Reaper, &c.Observability,
	} {
		section.Sanitize()
	}
	if !c.IsDev {
		switch strings.ToLower(os.Getenv("APP_ENV")) {
		case "dev", "development":
			c.IsDev = true
		}
	}
}
