// Package cache provides the response cache used by the public content
// endpoints. Two backends are available, in-memory and Redis, selected
// by configuration.
package cache

import (
	"context"
	"time"
)

// Cacher is the interface both backends implement. All implementations
// must be safe for concurrent use. Values are []byte so the same
// interface serves both backends.
type Cacher interface {
	// Get retrieves a value. Returns ErrCacheMiss when the key is
	// absent or expired.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores a value with the specified TTL. A zero TTL uses the
	// backend default.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes a key from the cache.
	Delete(ctx context.Context, key string) error

	// DeleteByPrefix removes every key starting with the given prefix.
	// Collection writes use this to invalidate the related lists.
	DeleteByPrefix(ctx context.Context, prefix string) error

	// Clear removes all entries from the cache.
	Clear(ctx context.Context) error

	// Close releases any resources held by the cache.
	Close() error
}

// Error represents an error type for cache operations.
type Error string

func (e Error) Error() string {
	return string(e)
}

const (
	// ErrCacheMiss indicates the key was not found or has expired.
	ErrCacheMiss Error = "cache miss"

	// ErrCacheClosed indicates the cache has been closed.
	ErrCacheClosed Error = "cache closed"
)
