package httputil

import (
	"context"
	"errors"
	"time"
)

// RetryableError wraps an error to indicate it should trigger a retry.
// Wrap transient failures (network timeouts, 5xx responses) with this type
// so that [Retry] knows to attempt the operation again.
type RetryableError struct{ Err error }

func (e *RetryableError) Error() string { return e.Err.Error() }
func (e *RetryableError) Unwrap() error { return e.Err }

// RateLimitError marks an explicit rate-limit signal from the remote
// (HTTP 429). [Retry] treats it differently from generic transient
// failures: one bounded retry after the longer Cooldown, not exponential
// backoff.
type RateLimitError struct {
	Cooldown time.Duration
	Err      error
}

func (e *RateLimitError) Error() string { return e.Err.Error() }
func (e *RateLimitError) Unwrap() error { return e.Err }

// Retry executes fn up to attempts times with exponential backoff.
// Only errors wrapped with [RetryableError] trigger the backoff path;
// a [RateLimitError] triggers exactly one extra attempt after its
// cooldown, and any other error is returned immediately.
// Returns the last error if all attempts fail, or ctx.Err() if cancelled.
func Retry(ctx context.Context, attempts int, delay time.Duration, fn func() error) error {
	attempts = max(attempts, 1)
	var lastErr error
	retriedLimit := false

	for i := 0; i < attempts; i++ {
		err := fn()
		if err == nil {
			return nil
		}
		lastErr = err

		var rl *RateLimitError
		if errors.As(err, &rl) {
			if retriedLimit {
				return err
			}
			retriedLimit = true
			if err := sleep(ctx, rl.Cooldown); err != nil {
				return err
			}
			i-- // rate-limit retry does not consume an attempt
			continue
		}

		if !isRetryable(err) {
			return err
		}
		if i < attempts-1 {
			if err := sleep(ctx, delay); err != nil {
				return err
			}
			delay *= 2
		}
	}
	return lastErr
}

// RetryWithBackoff is a convenience wrapper around [Retry] with sensible
// defaults: 3 attempts with 1 second initial delay (doubling each retry).
func RetryWithBackoff(ctx context.Context, fn func() error) error {
	return Retry(ctx, 3, time.Second, fn)
}

func sleep(ctx context.Context, d time.Duration) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}

func isRetryable(err error) bool {
	return errors.As(err, new(*RetryableError))
}
