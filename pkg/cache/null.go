package cache

import (
	"context"
	"time"
)

// NullCache stores nothing. Runners fall back to it for --no-cache, a
// "none" backend, or an unreachable Redis, so every lookup recomputes the
// layout. It does not implement [Clearer].
type NullCache struct{}

// NewNullCache returns a cache that always misses.
func NewNullCache() Cache {
	return &NullCache{}
}

func (c *NullCache) Get(context.Context, string) ([]byte, bool, error) { return nil, false, nil }

func (c *NullCache) Set(context.Context, string, []byte, time.Duration) error { return nil }

func (c *NullCache) Delete(context.Context, string) error { return nil }

func (c *NullCache) Close() error { return nil }
