package data

import (
	"context"
	"errors"
	"slices"
	"time"

	"github.com/target/runconsole/internal/core"
)

// TieredCacheRepoOptions configures a TieredCacheRepo.
type TieredCacheRepoOptions struct {
	Shared   core.CacheRepository // Required: the cache every replica sees
	Capacity int                  // Entries held in process; <= 0 returns Shared unwrapped
	LocalTTL time.Duration        // Upper bound on how long a local copy is served
	Now      func() time.Time     // Optional: clock for tests
}

// TieredCacheRepo serves reads from a small in-process LRU before falling back
// to a shared cache. Local copies never outlive their shared entry's TTL or
// LocalTTL, whichever is shorter.
type TieredCacheRepo struct {
	local    *localLRU
	shared   core.CacheRepository
	localTTL time.Duration
}

// NewTieredCacheRepo wraps opts.Shared with a local tier. When the local tier is
// disabled the shared cache is returned as is.
//
//nolint:ireturn // callers only need the cache contract.
func NewTieredCacheRepo(opts TieredCacheRepoOptions) (core.CacheRepository, error) {
	if opts.Shared == nil {
		return nil, errors.New("shared cache is required")
	}
	if opts.Capacity <= 0 {
		return opts.Shared, nil
	}
	return &TieredCacheRepo{
		local:    newLocalLRU(opts.Capacity, opts.Now),
		shared:   opts.Shared,
		localTTL: opts.LocalTTL,
	}, nil
}

// Set writes through to the shared cache and then refreshes the local copy.
func (r *TieredCacheRepo) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := r.shared.Set(ctx, key, value, ttl); err != nil {
		r.local.delete(key)
		return err
	}
	r.local.set(key, slices.Clone(value), r.boundTTL(ttl))
	return nil
}

// Get returns the local copy when present, else the shared value, which is
// then kept locally.
func (r *TieredCacheRepo) Get(ctx context.Context, key string) ([]byte, error) {
	if v, ok := r.local.get(key); ok {
		return slices.Clone(v), nil
	}
	v, err := r.shared.Get(ctx, key)
	if err != nil || v == nil {
		return v, err
	}
	r.local.set(key, slices.Clone(v), r.localTTL)
	return v, nil
}

// Delete removes the key from both tiers.
func (r *TieredCacheRepo) Delete(ctx context.Context, key string) (bool, error) {
	r.local.delete(key)
	return r.shared.Delete(ctx, key)
}

// Health reports the shared cache's health.
func (r *TieredCacheRepo) Health(ctx context.Context) error {
	return r.shared.Health(ctx)
}

func (r *TieredCacheRepo) boundTTL(ttl time.Duration) time.Duration {
	switch {
	case r.localTTL <= 0:
		return ttl
	case ttl <= 0 || ttl > r.localTTL:
		return r.localTTL
	default:
		return ttl
	}
}
