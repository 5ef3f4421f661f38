package data

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medexjob/medexjob-api/internal/testutil"
)

func TestRedisCacheRepo(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	client := testutil.SetupTestRedis(t)
	defer client.Close()

	repo := NewRedisCacheRepo(client, "test:")
	ctx := context.Background()

	t.Run("set and get with prefix", func(t *testing.T) {
		require.NoError(t, repo.Set(ctx, "plans:active", []byte(`[]`), time.Minute))

		got, err := repo.Get(ctx, "plans:active")
		require.NoError(t, err)
		assert.Equal(t, []byte(`[]`), got)

		raw, err := client.Get(ctx, "test:plans:active").Result()
		require.NoError(t, err)
		assert.Equal(t, "[]", raw)

		ttl := client.TTL(ctx, "test:plans:active").Val()
		assert.True(t, ttl > 0 && ttl <= time.Minute)
	})

	t.Run("miss returns nil", func(t *testing.T) {
		got, err := repo.Get(ctx, "absent")
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("delete reports existence", func(t *testing.T) {
		require.NoError(t, repo.Set(ctx, "gone", []byte("x"), time.Minute))
		deleted, err := repo.Delete(ctx, "gone")
		require.NoError(t, err)
		assert.True(t, deleted)

		deleted, err = repo.Delete(ctx, "gone")
		require.NoError(t, err)
		assert.False(t, deleted)
	})

	t.Run("set if not exists", func(t *testing.T) {
		ok, err := repo.SetIfNotExists(ctx, "job:view:1:u", []byte("1"), time.Minute)
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = repo.SetIfNotExists(ctx, "job:view:1:u", []byte("1"), time.Minute)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("set if not exists never creates an immortal key", func(t *testing.T) {
		ok, err := repo.SetIfNotExists(ctx, "job:view:2:u", []byte("1"), 0)
		require.NoError(t, err)
		require.True(t, ok)

		ttl := client.TTL(ctx, "test:job:view:2:u").Val()
		assert.True(t, ttl > 0 && ttl <= minLockTTL, "ttl %s", ttl)
	})

	t.Run("health", func(t *testing.T) {
		require.NoError(t, repo.Health(ctx))
	})
}

func TestRedisCacheRepo_EmptyKey(t *testing.T) {
	repo := NewRedisCacheRepo(nil, "")
	ctx := context.Background()

	require.ErrorIs(t, repo.Set(ctx, "", nil, time.Second), errEmptyKey)
	_, err := repo.Get(ctx, "")
	require.ErrorIs(t, err, errEmptyKey)
	_, err = repo.Delete(ctx, "")
	require.ErrorIs(t, err, errEmptyKey)
	_, err = repo.SetIfNotExists(ctx, "", nil, time.Second)
	require.ErrorIs(t, err, errEmptyKey)
}
