// Package cache provides the durable stores the pipeline relies on across
// runs: a generic byte-oriented Cache with file, redis, and null backends,
// and the two document caches (README text, summaries) that memoize remote
// work. An entry's presence in a document cache, even with an explicit
// empty marker, means "already attempted" and suppresses redundant remote
// calls on later runs.
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key-value store with per-entry TTL.
type Cache interface {
	// Get retrieves a value. ok is false on a miss or expired entry.
	Get(ctx context.Context, key string) (data []byte, ok bool, err error)

	// Set stores a value. A ttl of 0 means no expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value; deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}
