package integrations

import (
	"errors"
	"net/http"
	"time"

	"github.com/nodedex/nodedex/pkg/httputil"
)

const httpTimeout = 30 * time.Second

// UserAgent identifies the pipeline to upstream APIs.
const UserAgent = "nodedex/2.0"

var (
	// ErrNotFound is returned when a resource doesn't exist upstream.
	ErrNotFound = errors.New("resource not found")

	// ErrNetwork is returned for HTTP failures (timeouts, connection errors, 5xx responses).
	ErrNetwork = errors.New("network error")

	// ErrRateLimited is returned on a 429 response after retries are exhausted.
	ErrRateLimited = errors.New("rate limited")

	// ErrUnauthorized is returned on a 401 response. Callers treat it as
	// fatal since retrying with the same token cannot succeed.
	ErrUnauthorized = errors.New("unauthorized")
)

// NewHTTPClient creates an HTTP client with a standard timeout for API requests.
func NewHTTPClient() *http.Client {
	return &http.Client{Timeout: httpTimeout}
}

// NewCache creates a file-based response cache with the given TTL in the
// default cache directory. See [httputil.NewCache] for cache location details.
func NewCache(ttl time.Duration) (*httputil.Cache, error) {
	return httputil.NewCache("", ttl)
}
