package cache

import (
	"context"
	"time"
)

// NullCache stands in for a real backend when caching is off. Every Get
// misses and every write is dropped. Reason records why caching is off, for
// display.
type NullCache struct {
	Reason string
}

// NewNullCache returns a NullCache with no reason attached.
func NewNullCache() Cache {
	return &NullCache{}
}

// Disabled returns a NullCache that explains why caching is off, e.g.
// "redis unavailable".
func Disabled(reason string) *NullCache {
	return &NullCache{Reason: reason}
}

func (c *NullCache) Get(context.Context, string) ([]byte, bool, error) { return nil, false, nil }
func (c *NullCache) Set(context.Context, string, []byte, time.Duration) error { return nil }
func (c *NullCache) Delete(context.Context, string) error { return nil }
func (c *NullCache) Close() error { return nil }

var _ Cache = (*NullCache)(nil)
