package testutil

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"fmt"
	"net"
	"net/url"
	"os"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/caarlos0/env/v11"
	_ "github.com/jackc/pgx/v5/stdlib" // registers the "pgx" database/sql driver

	"github.com/medexjob/medexjob-api/internal/migrate"
)

// DBConfig locates the integration-test Postgres. The default port matches
// the test profile of the local compose file; CI sets TEST_DB_PORT=5432.
type DBConfig struct {
	Host     string `env:"HOST"     envDefault:"localhost"`
	Port     string `env:"PORT"     envDefault:"55432"`
	User     string `env:"USER"     envDefault:"medexjob"`
	Password string `env:"PASSWORD" envDefault:"medexjob"`
	Name     string `env:"NAME"     envDefault:"medexjob_test"`
	SSLMode  string `env:"SSL_MODE" envDefault:"disable"`
}

// LoadDBConfig reads TEST_DB_* variables.
func LoadDBConfig() (DBConfig, error) {
	var cfg DBConfig
	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: "TEST_DB_"}); err != nil {
		return DBConfig{}, fmt.Errorf("parse test db config: %w", err)
	}
	return cfg, nil
}

// DSN renders a pgx URL. A non-empty searchPath is appended as a runtime
// parameter.
func (c DBConfig) DSN(searchPath string) string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(c.User, c.Password),
		Host:   net.JoinHostPort(c.Host, c.Port),
		Path:   "/" + c.Name,
	}
	q := url.Values{"sslmode": {c.SSLMode}}
	if searchPath != "" {
		q.Set("search_path", searchPath)
	}
	u.RawQuery = q.Encode()
	return u.String()
}

var (
	probeOnce sync.Once
	probeErr  error
)

// SkipIfNoTestDB skips t when Postgres is unreachable. With TEST_REQUIRE_DB
// or TEST_REQUIRE_INFRA set it fails instead. The probe runs once per binary.
func SkipIfNoTestDB(t testing.TB) {
	t.Helper()
	probeOnce.Do(func() {
		cfg, err := LoadDBConfig()
		if err != nil {
			probeErr = err
			return
		}
		db, err := sql.Open("pgx", cfg.DSN(""))
		if err != nil {
			probeErr = err
			return
		}
		defer db.Close() //nolint:errcheck // probe handle

		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if probeErr = db.PingContext(ctx); probeErr != nil {
			return
		}
		// Pin pgcrypto to public so per-test schemas never own it.
		_, _ = db.ExecContext(ctx, "CREATE EXTENSION IF NOT EXISTS pgcrypto WITH SCHEMA public")
	})
	if probeErr == nil {
		return
	}
	if envTrue("TEST_REQUIRE_DB") || envTrue("TEST_REQUIRE_INFRA") {
		t.Fatalf("test database not available: %v", probeErr)
	}
	t.Skipf("test database not available: %v", probeErr)
}

// WithAutoDB runs fn against a freshly migrated schema private to t. The
// schema is dropped when t finishes, so tests may run in parallel.
func WithAutoDB(t testing.TB, fn func(*sql.DB)) {
	t.Helper()
	fn(NewSchemaDB(t))
}

// NewSchemaDB creates a throwaway schema, migrates it and returns a pool
// whose search_path starts with it.
func NewSchemaDB(t testing.TB) *sql.DB {
	t.Helper()
	SkipIfNoTestDB(t)

	cfg, err := LoadDBConfig()
	if err != nil {
		t.Fatal(err)
	}
	admin := mustOpen(t, cfg.DSN(""))
	schema := schemaName()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if _, err := admin.ExecContext(ctx, "CREATE SCHEMA "+schema); err != nil {
		_ = admin.Close()
		t.Fatalf("create schema %s: %v", schema, err)
	}
	db := mustOpen(t, cfg.DSN(schema+",public"))
	db.SetMaxOpenConns(10)

	t.Cleanup(func() {
		_ = db.Close()
		dropCtx, dropCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer dropCancel()
		if _, err := admin.ExecContext(dropCtx, "DROP SCHEMA IF EXISTS "+schema+" CASCADE"); err != nil {
			t.Logf("drop schema %s: %v", schema, err)
		}
		_ = admin.Close()
	})

	if err := migrate.Run(ctx, db); err != nil {
		t.Fatalf("migrate schema %s: %v", schema, err)
	}
	return db
}

func mustOpen(t testing.TB, dsn string) *sql.DB {
	t.Helper()
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		t.Fatalf("ping test db: %v", err)
	}
	return db
}

// schemaName returns t_<8 hex chars>, safe to splice into DDL unquoted.
func schemaName() string {
	b := make([]byte, 4)
	if _, err := rand.Read(b); err != nil {
		return "t_" + strconv.FormatInt(time.Now().UnixNano(), 36)
	}
	return "t_" + hex.EncodeToString(b)
}

func envTrue(key string) bool {
	v, err := strconv.ParseBool(os.Getenv(key))
	return err == nil && v
}
