package cache

import (
	"context"
	"time"
)

// Scoped wraps a Cache so every key carries a fixed prefix, isolating the
// namespaces of different data sources that share one backend (for
// example "github:" and "registry:" entries in the same redis instance).
type Scoped struct {
	inner  Cache
	prefix string
}

// NewScoped creates a prefixed view of inner. Scopes may be nested; the
// prefixes concatenate.
func NewScoped(inner Cache, prefix string) Cache {
	return &Scoped{inner: inner, prefix: prefix}
}

func (s *Scoped) Get(ctx context.Context, key string) ([]byte, bool, error) {
	return s.inner.Get(ctx, s.prefix+key)
}

func (s *Scoped) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	return s.inner.Set(ctx, s.prefix+key, data, ttl)
}

func (s *Scoped) Delete(ctx context.Context, key string) error {
	return s.inner.Delete(ctx, s.prefix+key)
}

// Close closes the underlying backend.
func (s *Scoped) Close() error { return s.inner.Close() }

var _ Cache = (*Scoped)(nil)
