package cache

// ScopedKeyer wraps a Keyer with a prefix so that several installations can
// share one Redis database without seeing each other's posters.
//
// Example usage:
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "marquee:living-room:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// The prefix is prepended to all generated keys.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// Prefix returns the namespace prepended to every key.
func (k *ScopedKeyer) Prefix() string {
	return k.prefix
}

// PosterKey generates a prefixed key for poster caching.
func (k *ScopedKeyer) PosterKey(inputHash string, opts PosterKeyOpts) string {
	return k.prefix + k.inner.PosterKey(inputHash, opts)
}
