package cache

import "errors"

// Sentinel errors for cache operations.
var (
	// ErrCacheMiss is returned by helpers that treat a miss as an error.
	ErrCacheMiss = errors.New("cache miss")

	// ErrCorrupt is returned when a persisted cache file cannot be parsed.
	ErrCorrupt = errors.New("corrupt cache file")
)
