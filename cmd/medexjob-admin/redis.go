package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/redis/go-redis/v9"

	redisadapter "github.com/medexjob/medexjob-api/internal/adapters/redis"
	"github.com/medexjob/medexjob-api/internal/bootstrap"
	"github.com/medexjob/medexjob-api/internal/core"
	"github.com/medexjob/medexjob-api/internal/data"
)

type revokeSessionsOptions struct {
	UserID string
}

func runRevokeSessions(cmdCtx *commandContext, args []string) error {
	opts, err := parseRevokeSessionsFlags(args)
	if err != nil {
		return err
	}

	return withRedis(cmdCtx, func(ctx context.Context, client redis.UniversalClient) error {
		store := redisadapter.NewSessionStoreWithPrefix(client, bootstrap.SessionKeyPrefix)
		removed, revokeErr := store.DeleteByUser(ctx, opts.UserID)
		if revokeErr != nil {
			return revokeErr
		}
		cmdCtx.Logger.InfoContext(ctx, "sessions revoked", "user_id", opts.UserID, "count", removed)
		return writef(os.Stdout, "Revoked %d session(s) for user %s\n", removed, opts.UserID)
	})
}

func parseRevokeSessionsFlags(args []string) (revokeSessionsOptions, error) {
	fs := flag.NewFlagSet("revoke-sessions", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	var opts revokeSessionsOptions
	fs.StringVar(&opts.UserID, "user-id", "", "User whose sessions are deleted (required)")
	if err := fs.Parse(args); err != nil {
		return revokeSessionsOptions{}, err
	}
	opts.UserID = strings.TrimSpace(opts.UserID)
	if opts.UserID == "" {
		return revokeSessionsOptions{}, errors.New("--user-id is required")
	}
	return opts, nil
}

func runClearPlanCache(cmdCtx *commandContext, _ []string) error {
	return withRedis(cmdCtx, func(ctx context.Context, client redis.UniversalClient) error {
		cache := core.NewPlanCatalogCache(data.NewRedisCacheRepo(client, bootstrap.CacheKeyPrefix), 0)
		if err := cache.Invalidate(ctx); err != nil {
			return fmt.Errorf("invalidate plan cache: %w", err)
		}
		return writeln(os.Stdout, "Plan catalog cache cleared.")
	})
}

func withRedis(cmdCtx *commandContext, f func(context.Context, redis.UniversalClient) error) error {
	ctx, cancel := context.WithTimeout(cmdCtx.Ctx, defaultCommandTimeout)
	defer cancel()

	client, err := bootstrap.ConnectRedis(ctx, bootstrap.DatabaseConfig{
		RedisConfig: cmdCtx.Config.Redis,
		Logger:      cmdCtx.Logger,
	})
	if err != nil {
		return fmt.Errorf("connect redis: %w", err)
	}
	defer func() {
		if cerr := client.Close(); cerr != nil {
			cmdCtx.Logger.Warn("redis close failed", "error", cerr)
		}
	}()

	return f(ctx, client)
}
