package httputil

import (
	"context"
	"encoding/json"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"

	"github.com/nodedex/nodedex/pkg/cache"
)

// Cache provides typed caching of JSON-marshalable HTTP responses on top
// of a [cache.Cache] backend. The backend decides where entries live
// (file tree, redis, nowhere); this layer owns serialization and TTL
// policy. A TTL of 0 never expires.
//
// Use [Cache.Namespace] to scope keys per data source:
//
//	gh := c.Namespace("github:")
//	reg := c.Namespace("registry:")
type Cache struct {
	store cache.Cache
	ttl   time.Duration
}

// NewCache creates a Cache over a file backend in dir with the given TTL.
// An empty dir selects the default location under the user cache
// directory. Directory creation is the only failure mode.
func NewCache(dir string, ttl time.Duration) (*Cache, error) {
	if dir == "" {
		dir = filepath.Join(xdg.CacheHome, "nodedex")
	}
	store, err := cache.NewFileCache(dir)
	if err != nil {
		return nil, err
	}
	return &Cache{store: store, ttl: ttl}, nil
}

// NewCacheWithStore creates a Cache over an explicit backend, typically
// selected by configuration (file or redis).
func NewCacheWithStore(store cache.Cache, ttl time.Duration) *Cache {
	return &Cache{store: store, ttl: ttl}
}

// TTL returns the time-to-live for cache entries; 0 means no expiration.
func (c *Cache) TTL() time.Duration { return c.ttl }

// Get retrieves a cached value by key and unmarshals it into v.
// It returns true only on a hit with a decodable entry; backend errors
// read as misses with the error attached. Get never mutates the cache;
// reads do not refresh the TTL.
func (c *Cache) Get(ctx context.Context, key string, v any) (bool, error) {
	data, ok, err := c.store.Get(ctx, key)
	if err != nil || !ok {
		return false, err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return false, err
	}
	return true, nil
}

// Set stores v under key, overwriting any existing entry and resetting
// its TTL. v must be JSON-marshalable.
func (c *Cache) Set(ctx context.Context, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return c.store.Set(ctx, key, data, c.ttl)
}

// Namespace returns a view of the cache that prefixes every key, keeping
// data sources from colliding. Namespaces share the parent's backend and
// TTL and may be chained.
func (c *Cache) Namespace(prefix string) *Cache {
	return &Cache{
		store: cache.NewScoped(c.store, prefix),
		ttl:   c.ttl,
	}
}
