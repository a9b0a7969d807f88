package data

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrEmptyCacheKey is returned for operations on the empty key.
var ErrEmptyCacheKey = errors.New("cache key cannot be empty")

// RedisCacheRepo is the shared cache tier. Entries live under
// "<prefix>cache:" next to the session keys.
type RedisCacheRepo struct {
	client    redis.UniversalClient
	namespace string
}

func NewRedisCacheRepo(client redis.UniversalClient, prefix string) *RedisCacheRepo {
	return &RedisCacheRepo{client: client, namespace: prefix + "cache:"}
}

func (r *RedisCacheRepo) redisKey(key string) (string, error) {
	if key == "" {
		return "", ErrEmptyCacheKey
	}
	return r.namespace + key, nil
}

func (r *RedisCacheRepo) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	k, err := r.redisKey(key)
	if err != nil {
		return err
	}
	if err = r.client.Set(ctx, k, value, ttl).Err(); err != nil {
		return fmt.Errorf("cache set %q: %w", key, err)
	}
	return nil
}

// Get maps redis.Nil to a nil value so callers see a plain miss.
func (r *RedisCacheRepo) Get(ctx context.Context, key string) ([]byte, error) {
	k, err := r.redisKey(key)
	if err != nil {
		return nil, err
	}
	val, err := r.client.Get(ctx, k).Bytes()
	switch {
	case errors.Is(err, redis.Nil):
		return nil, nil
	case err != nil:
		return nil, fmt.Errorf("cache get %q: %w", key, err)
	}
	return val, nil
}

func (r *RedisCacheRepo) Delete(ctx context.Context, key string) (bool, error) {
	k, err := r.redisKey(key)
	if err != nil {
		return false, err
	}
	removed, err := r.client.Del(ctx, k).Result()
	if err != nil {
		return false, fmt.Errorf("cache delete %q: %w", key, err)
	}
	return removed > 0, nil
}

func (r *RedisCacheRepo) Health(ctx context.Context) error {
	if err := r.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("cache ping: %w", err)
	}
	return nil
}
