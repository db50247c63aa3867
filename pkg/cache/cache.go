// Package cache stores encoded posters so that identical render requests
// are served without compositing again.
//
// A [Cache] is a plain byte store with per-entry TTLs. Three backends are
// provided: [FileCache] for the CLI, [RedisCache] for shared deployments and
// [NullCache] when caching is disabled. Keys are built by a [Keyer] from a
// hash of every render input, so a change to the artwork, logo, metadata or
// options always produces a new key.
package cache

import (
	"context"
	"time"
)

// DefaultTTL is how long rendered posters are kept when no TTL is configured.
const DefaultTTL = 7 * 24 * time.Hour

// Cache is a byte store keyed by string.
//
// Get reports a miss with ok == false and a nil error. Implementations must
// be safe for concurrent use.
type Cache interface {
	Get(ctx context.Context, key string) (data []byte, ok bool, err error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Clearer is implemented by caches that can drop every entry they own.
type Clearer interface {
	Clear(ctx context.Context) error
}

// Keyer builds cache keys.
type Keyer interface {
	// PosterKey returns the key for an encoded poster. inputHash identifies
	// the source images and metadata; opts carries the render options that
	// change the output.
	PosterKey(inputHash string, opts PosterKeyOpts) string
}

// PosterKeyOpts are the render options that take part in a poster key.
type PosterKeyOpts struct {
	Background  string `json:"background"`
	Wrap        string `json:"wrap"`
	TargetWidth int    `json:"target_width"`
	Position    string `json:"position"`
	Label       string `json:"label"`
	Badge       string `json:"badge"`
	Quality     int    `json:"quality"`

	// SettingsHash identifies the layout settings and loaded assets.
	SettingsHash string `json:"settings,omitempty"`
}

// DefaultKeyer builds unprefixed keys of the form "poster:<sha256>".
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// PosterKey implements Keyer.
func (DefaultKeyer) PosterKey(inputHash string, opts PosterKeyOpts) string {
	return hashKey("poster", inputHash, opts)
}
