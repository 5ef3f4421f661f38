// Command medexjob serves the MedExJob API and runs background housekeeping.
// SERVICES selects the modes: http, reaper or both.
package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/medexjob/medexjob-api/config"
	"github.com/medexjob/medexjob-api/internal/bootstrap"
)

func main() {
	logger := bootstrap.InitLogger()

	// Signals cancel startup too, so a stuck migration can be interrupted.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err := run(ctx, logger)
	stop()
	if err != nil {
		logger.Error("medexjob exited", "error", err)
		os.Exit(1) //nolint:forbidigo // process exit code
	}
}

func run(ctx context.Context, logger *slog.Logger) error {
	cfg, err := bootstrap.LoadConfig()
	if err != nil {
		return err
	}
	if err := bootstrap.ValidateServiceConfig(&cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	logger.InfoContext(ctx, "starting medexjob",
		"services", cfg.Services.String(),
		"auth_mode", cfg.Auth.Mode,
		"dev", cfg.IsDev,
		"db", fmt.Sprintf("%s/%s", cfg.Postgres.Host, cfg.Postgres.Name))

	stores := bootstrap.DatabaseConfig{DBConfig: cfg.Postgres, RedisConfig: cfg.Redis, Logger: logger}
	db, err := bootstrap.ConnectDB(ctx, stores)
	if err != nil {
		return fmt.Errorf("connect db: %w", err)
	}
	defer closeQuietly(logger, "postgres", db.Close)

	// Sessions live in Redis, so every mode connects.
	rdb, err := bootstrap.ConnectRedis(ctx, stores)
	if err != nil {
		return fmt.Errorf("connect redis: %w", err)
	}
	defer closeQuietly(logger, "redis", rdb.Close)

	if err := migrateOnStart(ctx, cfg.Postgres, db, logger); err != nil {
		return err
	}

	services, err := bootstrap.NewServices(&bootstrap.ServiceDeps{Config: &cfg, DB: db, RedisClient: rdb, Logger: logger})
	if err != nil {
		return fmt.Errorf("build services: %w", err)
	}
	return bootstrap.RunServicesWithShutdown(ctx, &bootstrap.ServiceOrchestrationConfig{
		Config:      &cfg,
		Services:    &services,
		DB:          db,
		RedisClient: rdb,
		Logger:      logger,
	})
}

func migrateOnStart(ctx context.Context, pg config.DBConfig, db *sql.DB, logger *slog.Logger) error {
	if !pg.RunMigrationsOnStart {
		logger.InfoContext(ctx, "migrations skipped", "hint", "set DB_RUN_MIGRATIONS_ON_START=true or run medexjob-admin migrate")
		return nil
	}
	return bootstrap.RunMigrations(ctx, db, logger)
}

func closeQuietly(logger *slog.Logger, name string, closeFn func() error) {
	if err := closeFn(); err != nil {
		logger.Warn("close failed", "resource", name, "error", err)
	}
}
