package data

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

var errEmptyKey = errors.New("key cannot be empty")

// minLockTTL bounds SetIfNotExists so a marker key can never be immortal.
const minLockTTL = time.Second

// RedisCacheRepo is the Redis-backed core.CacheRepository. Every key is
// stored under prefix, letting API and admin processes share a server
// with other deployments.
type RedisCacheRepo struct {
	client redis.UniversalClient
	prefix string
}

func NewRedisCacheRepo(client redis.UniversalClient, prefix string) *RedisCacheRepo {
	return &RedisCacheRepo{client: client, prefix: prefix}
}

func (r *RedisCacheRepo) namespaced(key string) (string, error) {
	if key == "" {
		return "", errEmptyKey
	}
	return r.prefix + key, nil
}

func (r *RedisCacheRepo) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	k, err := r.namespaced(key)
	if err != nil {
		return err
	}
	if err := r.client.Set(ctx, k, value, ttl).Err(); err != nil {
		return fmt.Errorf("cache set %s: %w", key, err)
	}
	return nil
}

// Get reports a miss as (nil, nil).
func (r *RedisCacheRepo) Get(ctx context.Context, key string) ([]byte, error) {
	k, err := r.namespaced(key)
	if err != nil {
		return nil, err
	}
	raw, err := r.client.Get(ctx, k).Bytes()
	switch {
	case errors.Is(err, redis.Nil):
		return nil, nil
	case err != nil:
		return nil, fmt.Errorf("cache get %s: %w", key, err)
	}
	return raw, nil
}

func (r *RedisCacheRepo) Delete(ctx context.Context, key string) (bool, error) {
	k, err := r.namespaced(key)
	if err != nil {
		return false, err
	}
	removed, err := r.client.Unlink(ctx, k).Result()
	if err != nil {
		return false, fmt.Errorf("cache delete %s: %w", key, err)
	}
	return removed == 1, nil
}

// SetIfNotExists issues SET NX with the expiry in the same command.
func (r *RedisCacheRepo) SetIfNotExists(ctx context.Context, key string, value []byte, ttl time.Duration) (bool, error) {
	k, err := r.namespaced(key)
	if err != nil {
		return false, err
	}
	stored, err := r.client.SetNX(ctx, k, value, max(ttl, minLockTTL)).Result()
	if err != nil {
		return false, fmt.Errorf("cache setnx %s: %w", key, err)
	}
	return stored, nil
}

func (r *RedisCacheRepo) Health(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}
