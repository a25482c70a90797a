// Package cache stores computed layouts between runs.
//
// A [Cache] holds opaque byte payloads under string keys with an optional
// TTL. Three backends are provided: [NullCache] for disabled caching,
// [FileCache] for the CLI and [RedisCache] for servers sharing one cache.
// Keys are built by a [Keyer] so that every input affecting the result is
// part of the key.
package cache

import (
	"context"
	"time"
)

// Default TTLs per payload kind.
const (
	TTLLayout  = 24 * time.Hour
	TTLColumns = 7 * 24 * time.Hour
)

// Cache is a byte store with expiring entries.
type Cache interface {
	// Get returns the payload for key. A miss is reported by ok == false and
	// a nil error.
	Get(ctx context.Context, key string) (data []byte, ok bool, err error)
	// Set stores data under key. A zero ttl never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// Close releases the backend.
	Close() error
}

// Clearer is implemented by backends that can drop all entries at once.
type Clearer interface {
	Clear(ctx context.Context) (int, error)
}

var (
	_ Cache   = (*NullCache)(nil)
	_ Clearer = (*FileCache)(nil)
	_ Clearer = (*RedisCache)(nil)
)
