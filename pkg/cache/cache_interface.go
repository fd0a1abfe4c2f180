package cache

import (
	"context"
	"time"
)

// Cache is the contract for the cache layer. Implementations may be
// Redis-backed (production) or in-memory (tests).
type Cache interface {
	// Get fetches a value and unmarshals it into dest.
	// found=false means a cache miss; dest is left untouched.
	Get(ctx context.Context, key string, dest interface{}) (bool, error)

	// Set stores a value with the given TTL.
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error

	// Delete removes keys from the cache.
	Delete(ctx context.Context, keys ...string) error

	// DeletePattern removes all keys matching a glob pattern.
	DeletePattern(ctx context.Context, pattern string) error

	// Ping verifies connectivity.
	Ping(ctx context.Context) error
}
