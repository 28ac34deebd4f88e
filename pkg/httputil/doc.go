// Package httputil provides HTTP infrastructure shared by the API clients:
// typed response caching and retry with backoff.
//
// [Cache] stores JSON-encoded responses in a cache backend with a TTL so
// repeated runs do not re-fetch data the remote has not changed; keys
// should be namespaced per data source ("github:", "registry:") to avoid
// collisions.
//
// [Retry] re-attempts transient failures (wrapped in [RetryableError])
// with exponential backoff, and honors explicit rate-limit signals
// ([RateLimitError]) with a single longer-cooldown retry instead.
package httputil
