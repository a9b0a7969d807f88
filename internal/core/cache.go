// Package core holds the repository contracts the service layer depends on.
package core

import (
	"context"
	"time"
)

// CacheRepository is a byte-oriented key/value cache. The console keeps
// role lists and finished runs in it. Redis backs it in production, with an
// optional in-process tier in front.
type CacheRepository interface {
	// Set stores value under key. A zero ttl keeps the entry until it is
	// deleted or evicted.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	// Get returns nil, nil on a miss.
	Get(ctx context.Context, key string) ([]byte, error)
	// Delete reports whether key was present.
	Delete(ctx context.Context, key string) (bool, error)
	Health(ctx context.Context) error
}
