package httputil

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestRetry_SucceedsFirstTry(t *testing.T) {
	calls := 0
	err := Retry(context.Background(), 3, time.Millisecond, func() error {
		calls++
		return nil
	})
	if err != nil {
		t.Fatalf("Retry() error: %v", err)
	}
	if calls != 1 {
		t.Errorf("got %d calls, want 1", calls)
	}
}

func TestRetry_RetryableEventuallySucceeds(t *testing.T) {
	calls := 0
	err := Retry(context.Background(), 3, time.Millisecond, func() error {
		calls++
		if calls < 3 {
			return &RetryableError{Err: errors.New("transient")}
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Retry() error: %v", err)
	}
	if calls != 3 {
		t.Errorf("got %d calls, want 3", calls)
	}
}

func TestRetry_NonRetryableStopsImmediately(t *testing.T) {
	calls := 0
	permanent := errors.New("permanent")
	err := Retry(context.Background(), 3, time.Millisecond, func() error {
		calls++
		return permanent
	})
	if !errors.Is(err, permanent) {
		t.Fatalf("got error %v, want %v", err, permanent)
	}
	if calls != 1 {
		t.Errorf("got %d calls, want 1", calls)
	}
}

func TestRetry_RateLimitRetriesOnce(t *testing.T) {
	calls := 0
	limited := &RateLimitError{Cooldown: time.Millisecond, Err: errors.New("429")}
	err := Retry(context.Background(), 1, time.Millisecond, func() error {
		calls++
		return limited
	})
	if !errors.As(err, new(*RateLimitError)) {
		t.Fatalf("got error %v, want RateLimitError", err)
	}
	// One original attempt plus exactly one post-cooldown retry.
	if calls != 2 {
		t.Errorf("got %d calls, want 2", calls)
	}
}

func TestRetry_RateLimitThenSuccess(t *testing.T) {
	calls := 0
	err := Retry(context.Background(), 1, time.Millisecond, func() error {
		calls++
		if calls == 1 {
			return &RateLimitError{Cooldown: time.Millisecond, Err: errors.New("429")}
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Retry() error: %v", err)
	}
	if calls != 2 {
		t.Errorf("got %d calls, want 2", calls)
	}
}

func TestRetry_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := Retry(ctx, 3, time.Minute, func() error {
		return &RetryableError{Err: errors.New("transient")}
	})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("got error %v, want context.Canceled", err)
	}
}
