package testutil

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// redisCandidates lists addresses probed when REDIS_ADDR is unset.
var redisCandidates = []string{"localhost:56379", "redis:6379", "localhost:6379"}

// SetupTestRedis returns a client on an empty Redis DB reserved for the
// calling test. The client is closed when the test ends.
func SetupTestRedis(t TestingTB) *redis.Client {
	t.Helper()

	addr, ok := findRedis()
	if !ok {
		if requireRedis() {
			t.Fatal("redis not available for testing")
		}
		t.Skip("redis not available for testing")
	}

	client := redis.NewClient(&redis.Options{Addr: addr, DB: reserveRedisDB(t, addr)})
	t.Cleanup(func() { _ = client.Close() })

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.FlushDB(ctx).Err(); err != nil {
		t.Fatalf("flush test redis db: %v", err)
	}
	return client
}

func findRedis() (string, bool) {
	candidates := redisCandidates
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		candidates = []string{addr}
	}
	for _, addr := range candidates {
		c := redis.NewClient(&redis.Options{Addr: addr})
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		err := c.Ping(ctx).Err()
		cancel()
		_ = c.Close()
		if err == nil {
			return addr, true
		}
	}
	return "", false
}

// reserveRedisDB picks a DB index in 1..15 by taking a lock key in DB 0 so
// parallel test packages never flush each other's data. TEST_REDIS_DB overrides.
func reserveRedisDB(t TestingTB, addr string) int {
	if v := os.Getenv("TEST_REDIS_DB"); v != "" {
		if i, err := strconv.Atoi(v); err == nil && i >= 0 {
			return i
		}
	}

	meta := redis.NewClient(&redis.Options{Addr: addr})
	for i := 1; i <= 15; i++ {
		key := fmt.Sprintf("runconsole:testutil:db_lock:%d", i)
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		ok, err := meta.SetNX(ctx, key, os.Getpid(), 30*time.Minute).Result()
		cancel()
		if err != nil || !ok {
			continue
		}
		t.Cleanup(func() {
			ctx, cancel := context.WithTimeout(context.Background(), time.Second)
			defer cancel()
			_ = meta.Del(ctx, key).Err()
			_ = meta.Close()
		})
		return i
	}
	_ = meta.Close()
	t.Logf("no free redis db lock, falling back to DB=1")
	return 1
}
