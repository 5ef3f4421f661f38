package testutil

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	defaultTestRedisAddr = "localhost:56379"
	redisLockTTL         = 30 * time.Minute
	// DB 0 holds reservations; tests get 1..15 and may flush freely.
	maxRedisDB = 15
)

// SetupTestRedis returns a client on an otherwise unused logical database,
// flushed and reserved for t. It skips when Redis is unreachable unless
// TEST_REQUIRE_REDIS or TEST_REQUIRE_INFRA is set.
func SetupTestRedis(t testing.TB) *redis.Client {
	t.Helper()

	addr := firstNonEmpty(os.Getenv("TEST_REDIS_ADDR"), os.Getenv("REDIS_ADDR"), defaultTestRedisAddr)
	meta := redis.NewClient(&redis.Options{Addr: addr})
	t.Cleanup(func() { _ = meta.Close() })

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := meta.Ping(ctx).Err(); err != nil {
		if envTrue("TEST_REQUIRE_REDIS") || envTrue("TEST_REQUIRE_INFRA") {
			t.Fatalf("redis not available at %s: %v", addr, err)
		}
		t.Skipf("redis not available at %s: %v", addr, err)
	}

	db := reserveRedisDB(ctx, t, meta)
	client := redis.NewClient(&redis.Options{Addr: addr, DB: db})
	t.Cleanup(func() { _ = client.Close() })

	if err := client.FlushDB(ctx).Err(); err != nil {
		t.Fatalf("flush redis db %d: %v", db, err)
	}
	return client
}

// reserveRedisDB claims a logical DB with SETNX in DB 0. TEST_REDIS_DB
// overrides the search; when every slot is taken DB 1 is shared.
func reserveRedisDB(ctx context.Context, t testing.TB, meta *redis.Client) int {
	if v := os.Getenv("TEST_REDIS_DB"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			return n
		}
		t.Logf("ignoring invalid TEST_REDIS_DB=%q", v)
	}

	owner := fmt.Sprintf("%d:%d", os.Getpid(), time.Now().UnixNano())
	for db := 1; db <= maxRedisDB; db++ {
		key := fmt.Sprintf("medexjob:testutil:redis_db:%d", db)
		ok, err := meta.SetNX(ctx, key, owner, redisLockTTL).Result()
		if err != nil || !ok {
			continue
		}
		t.Cleanup(func() {
			releaseCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			if err := meta.Del(releaseCtx, key).Err(); err != nil {
				t.Logf("release redis db %d: %v", db, err)
			}
		})
		return db
	}
	t.Logf("all redis test databases reserved; sharing DB 1")
	return 1
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
