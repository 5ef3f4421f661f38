package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // registers the "pgx" database/sql driver
	"github.com/redis/go-redis/v9"

	"github.com/medexjob/medexjob-api/config"
	"github.com/medexjob/medexjob-api/internal/migrate"
)

const connectTimeout = 5 * time.Second

// DatabaseConfig carries the connection settings for Postgres and Redis.
type DatabaseConfig struct {
	DBConfig    config.DBConfig
	RedisConfig config.RedisConfig
	Logger      *slog.Logger
}

// ConnectDB opens the pool and pings it. A failed ping closes the pool.
func ConnectDB(ctx context.Context, cfg DatabaseConfig) (*sql.DB, error) {
	pg := cfg.DBConfig
	pg.Sanitize()

	db, err := sql.Open("pgx", pg.DSN())
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	db.SetMaxOpenConns(pg.MaxOpenConns)
	db.SetMaxIdleConns(pg.MaxIdleConns)
	db.SetConnMaxLifetime(pg.ConnMaxLifetime)

	if err := ping(ctx, db.PingContext, db.Close); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}

	logInfo(ctx, cfg.Logger, "database connected",
		"host", pg.Host, "port", pg.Port, "database", pg.Name, "max_open_conns", pg.MaxOpenConns)
	return db, nil
}

// ConnectRedis builds a single-node, sentinel or cluster client from cfg
// and pings it.
//
//nolint:ireturn // callers need the topology-agnostic client
func ConnectRedis(ctx context.Context, cfg DatabaseConfig) (redis.UniversalClient, error) {
	opts, desc, err := redisOptions(cfg.RedisConfig)
	if err != nil {
		return nil, err
	}

	var client redis.UniversalClient
	switch {
	case cfg.RedisConfig.UseCluster:
		client = redis.NewClusterClient(opts.Cluster())
	case cfg.RedisConfig.UseSentinel:
		client = redis.NewFailoverClient(opts.Failover())
	default:
		client = redis.NewClient(opts.Simple())
	}

	pingRedis := func(ctx context.Context) error { return client.Ping(ctx).Err() }
	if err := ping(ctx, pingRedis, client.Close); err != nil {
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	logInfo(ctx, cfg.Logger, "redis connected", "addr", desc)
	return client, nil
}

// redisOptions maps RedisConfig onto go-redis universal options. The
// returned description names the target without credentials.
func redisOptions(cfg config.RedisConfig) (*redis.UniversalOptions, string, error) {
	uri := strings.TrimSpace(cfg.URI)
	opts := &redis.UniversalOptions{Password: cfg.Password}

	switch {
	case cfg.UseSentinel:
		nodes := compact(cfg.SentinelNodes)
		if len(nodes) == 0 {
			return nil, "", errors.New("redis sentinel mode needs REDIS_SENTINEL_NODES")
		}
		opts.Addrs = nodes
		opts.MasterName = cfg.SentinelMasterName
		opts.SentinelPassword = cfg.SentinelPassword
		return opts, "sentinel:" + cfg.SentinelMasterName, nil

	case cfg.UseCluster:
		nodes := compact(cfg.ClusterNodes)
		if len(nodes) == 0 && uri != "" {
			if err := mergeURL(opts, uri); err != nil {
				return nil, "", fmt.Errorf("parse redis cluster url: %w", err)
			}
			nodes = opts.Addrs
		}
		if len(nodes) == 0 {
			return nil, "", errors.New("redis cluster mode needs REDIS_CLUSTER_NODES or REDIS_URI")
		}
		opts.Addrs = nodes
		return opts, "cluster:" + strings.Join(nodes, ","), nil
	}

	if uri == "" {
		return nil, "", errors.New("redis needs REDIS_URI")
	}
	if err := mergeURL(opts, uri); err != nil {
		return nil, "", fmt.Errorf("parse redis url: %w", err)
	}
	return opts, opts.Addrs[0], nil
}

// mergeURL accepts either redis[s]://user:pass@host/db or a bare host:port.
func mergeURL(opts *redis.UniversalOptions, uri string) error {
	if !strings.HasPrefix(uri, "redis://") && !strings.HasPrefix(uri, "rediss://") {
		opts.Addrs = []string{uri}
		return nil
	}
	parsed, err := redis.ParseURL(uri)
	if err != nil {
		return err
	}
	opts.Addrs = []string{parsed.Addr}
	opts.Username = parsed.Username
	opts.DB = parsed.DB
	opts.TLSConfig = parsed.TLSConfig
	if parsed.Password != "" {
		opts.Password = parsed.Password
	}
	return nil
}

func compact(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func ping(ctx context.Context, probe func(context.Context) error, closeFn func() error) error {
	pingCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	err := probe(pingCtx)
	if err == nil {
		return nil
	}
	if cerr := closeFn(); cerr != nil {
		err = errors.Join(err, fmt.Errorf("close after failed ping: %w", cerr))
	}
	return err
}

func logInfo(ctx context.Context, logger *slog.Logger, msg string, args ...any) {
	if logger != nil {
		logger.InfoContext(ctx, msg, args...)
	}
}

// RunMigrations applies pending schema migrations.
func RunMigrations(ctx context.Context, db *sql.DB, logger *slog.Logger) error {
	if err := migrate.Run(ctx, db); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	logInfo(ctx, logger, "database migrations completed")
	return nil
}
