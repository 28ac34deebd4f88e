package cli

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/nodedex/nodedex/pkg/config"
	"github.com/nodedex/nodedex/pkg/errors"
)

func TestRootCommand(t *testing.T) {
	c := New(io.Discard, LogInfo)
	root := c.RootCommand()

	if root.Use != "nodedex" {
		t.Errorf("got Use = %q, want %q", root.Use, "nodedex")
	}

	want := []string{"sync", "registry", "readmes", "summarize", "serve", "cache", "completion"}
	have := make(map[string]bool)
	for _, sub := range root.Commands() {
		have[sub.Name()] = true
	}
	for _, name := range want {
		if !have[name] {
			t.Errorf("subcommand %q not registered", name)
		}
	}
}

func TestTokenFromEnv(t *testing.T) {
	tok, err := tokenFromEnv("GITHUB_TOKEN", "ghp_abc123")
	if err != nil || tok != "ghp_abc123" {
		t.Fatalf("tokenFromEnv() = %q, %v; want token, nil", tok, err)
	}

	_, err = tokenFromEnv("GITHUB_TOKEN", "")
	if errors.GetCode(err) != errors.ErrCodeMissingToken {
		t.Errorf("got code %q, want %q", errors.GetCode(err), errors.ErrCodeMissingToken)
	}
}

func TestNewResponseCache(t *testing.T) {
	ctx := context.Background()

	t.Run("file backend", func(t *testing.T) {
		cfg := config.Default()
		cfg.CacheDir = t.TempDir()

		rc, err := newResponseCache(ctx, cfg, false)
		if err != nil {
			t.Fatalf("newResponseCache() failed: %v", err)
		}
		if err := rc.Set(ctx, "key", "value"); err != nil {
			t.Fatalf("Set() failed: %v", err)
		}
		var got string
		if ok, _ := rc.Get(ctx, "key", &got); !ok || got != "value" {
			t.Errorf("Get() = %v, %q; want hit with %q", ok, got, "value")
		}
	})

	t.Run("no-cache always misses", func(t *testing.T) {
		cfg := config.Default()
		cfg.CacheDir = t.TempDir()

		rc, err := newResponseCache(ctx, cfg, true)
		if err != nil {
			t.Fatalf("newResponseCache() failed: %v", err)
		}
		if err := rc.Set(ctx, "key", "value"); err != nil {
			t.Fatalf("Set() failed: %v", err)
		}
		var got string
		if ok, _ := rc.Get(ctx, "key", &got); ok {
			t.Error("null backend returned a hit")
		}
	})
}

func TestRunContextLogger(t *testing.T) {
	c := New(io.Discard, LogDebug)
	ctx := c.runContext(context.Background())

	if loggerFromContext(ctx) == nil {
		t.Fatal("no logger attached to run context")
	}
}

func TestSleepCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := sleep(ctx, time.Hour); err == nil {
		t.Error("sleep() on cancelled context should return an error")
	}
}
