package cache

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestNullCache(t *testing.T) {
	ctx := context.Background()
	c := NewNullCache()
	defer c.Close()

	data, hit, err := c.Get(ctx, "key")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if hit {
		t.Error("NullCache.Get should always return miss")
	}
	if data != nil {
		t.Error("NullCache.Get should return nil data")
	}

	if err := c.Set(ctx, "key", []byte("value"), time.Hour); err != nil {
		t.Errorf("Set error: %v", err)
	}
	if _, hit, _ = c.Get(ctx, "key"); hit {
		t.Error("NullCache should not store data")
	}
	if err := c.Delete(ctx, "key"); err != nil {
		t.Errorf("Delete error: %v", err)
	}
}

func TestFileCache(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache() failed: %v", err)
	}
	defer c.Close()

	if err := c.Set(ctx, "github:foo/bar", []byte("data"), time.Hour); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	data, hit, err := c.Get(ctx, "github:foo/bar")
	if err != nil || !hit {
		t.Fatalf("Get = %v, %v; want hit", hit, err)
	}
	if string(data) != "data" {
		t.Errorf("got %q, want %q", data, "data")
	}

	if _, hit, _ := c.Get(ctx, "missing"); hit {
		t.Error("unexpected hit for missing key")
	}

	if err := c.Delete(ctx, "github:foo/bar"); err != nil {
		t.Errorf("Delete error: %v", err)
	}
	if _, hit, _ := c.Get(ctx, "github:foo/bar"); hit {
		t.Error("key still present after Delete")
	}
	if err := c.Delete(ctx, "missing"); err != nil {
		t.Errorf("Delete of missing key should be nil, got %v", err)
	}
}

func TestFileCacheExpiration(t *testing.T) {
	ctx := context.Background()
	c, _ := NewFileCache(t.TempDir())

	if err := c.Set(ctx, "key", []byte("v"), 10*time.Millisecond); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	time.Sleep(20 * time.Millisecond)
	if _, hit, _ := c.Get(ctx, "key"); hit {
		t.Error("expired entry should be a miss")
	}
}

func TestScoped(t *testing.T) {
	ctx := context.Background()
	backend, _ := NewFileCache(t.TempDir())
	gh := NewScoped(backend, "github:")
	reg := NewScoped(backend, "registry:")

	if err := gh.Set(ctx, "foo/bar", []byte("gh"), 0); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	if err := reg.Set(ctx, "foo/bar", []byte("reg"), 0); err != nil {
		t.Fatalf("Set error: %v", err)
	}

	data, hit, _ := gh.Get(ctx, "foo/bar")
	if !hit || string(data) != "gh" {
		t.Errorf("scoped get = %q, %v; want %q", data, hit, "gh")
	}
	data, hit, _ = backend.Get(ctx, "registry:foo/bar")
	if !hit || string(data) != "reg" {
		t.Errorf("backend get = %q, %v; want %q", data, hit, "reg")
	}
}

func TestHash(t *testing.T) {
	h1 := Hash([]byte("hello"))
	h2 := Hash([]byte("hello"))
	if h1 != h2 {
		t.Error("Hash should be deterministic")
	}
	if h1 == Hash([]byte("world")) {
		t.Error("different inputs should produce different hashes")
	}
	if len(h1) != 64 {
		t.Errorf("Hash length should be 64, got %d", len(h1))
	}
}

func TestReadmeCacheStates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "readmes_cache.json")
	c, err := LoadReadmeCache(path)
	if err != nil {
		t.Fatalf("LoadReadmeCache() failed: %v", err)
	}

	if _, state := c.Get("foo/bar"); state != ReadmeNotAttempted {
		t.Errorf("new key state = %v, want ReadmeNotAttempted", state)
	}

	c.SetText("foo/bar", "clean text")
	if text, state := c.Get("foo/bar"); state != ReadmeValid || text != "clean text" {
		t.Errorf("Get = %q, %v; want text and ReadmeValid", text, state)
	}

	c.SetEmpty("baz/qux")
	if _, state := c.Get("baz/qux"); state != ReadmeAttemptedEmpty {
		t.Errorf("empty key state = %v, want ReadmeAttemptedEmpty", state)
	}

	if c.Len() != 2 || c.ValidCount() != 1 {
		t.Errorf("Len = %d, ValidCount = %d; want 2, 1", c.Len(), c.ValidCount())
	}
}

func TestReadmeCacheRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "readmes_cache.json")

	c, _ := LoadReadmeCache(path)
	c.SetText("foo/bar", "text")
	c.SetEmpty("baz/qux")
	if err := c.Flush(); err != nil {
		t.Fatalf("Flush() failed: %v", err)
	}

	re, err := LoadReadmeCache(path)
	if err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if text, state := re.Get("foo/bar"); state != ReadmeValid || text != "text" {
		t.Errorf("reloaded Get = %q, %v", text, state)
	}
	if _, state := re.Get("baz/qux"); state != ReadmeAttemptedEmpty {
		t.Errorf("reloaded empty state = %v, want ReadmeAttemptedEmpty", state)
	}
}

func TestReadmeCacheCorrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "readmes_cache.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadReadmeCache(path); err == nil {
		t.Fatal("expected error for corrupt file")
	}
}

func TestSummaryCacheStates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "summaries_cache.json")

	// Seed a file mixing all three persisted shapes.
	seed := `{
		"a/valid": {"categories": ["image", "video"], "summary": "Does things."},
		"b/legacy": "old plain-string summary",
		"c/failed": null
	}`
	if err := os.WriteFile(path, []byte(seed), 0o644); err != nil {
		t.Fatal(err)
	}

	c, err := LoadSummaryCache(path)
	if err != nil {
		t.Fatalf("LoadSummaryCache() failed: %v", err)
	}

	s, state := c.Get("a/valid")
	if state != SummaryValid {
		t.Fatalf("valid entry state = %v", state)
	}
	if len(s.Categories) != 2 || s.Categories[0] != "image" || s.Summary != "Does things." {
		t.Errorf("unexpected summary: %+v", s)
	}
	if _, state := c.Get("b/legacy"); state != SummaryLegacy {
		t.Errorf("legacy entry state = %v, want SummaryLegacy", state)
	}
	if _, state := c.Get("c/failed"); state != SummaryAttemptedEmpty {
		t.Errorf("null entry state = %v, want SummaryAttemptedEmpty", state)
	}
	if _, state := c.Get("d/missing"); state != SummaryNotAttempted {
		t.Errorf("missing entry state = %v, want SummaryNotAttempted", state)
	}
}

func TestSummaryCacheRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "summaries_cache.json")

	c, _ := LoadSummaryCache(path)
	c.Set("a/b", Summary{Categories: []string{"workflow"}, Summary: "Schedules jobs."})
	c.SetFailed("c/d")
	if err := c.Flush(); err != nil {
		t.Fatalf("Flush() failed: %v", err)
	}

	re, err := LoadSummaryCache(path)
	if err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	s, state := re.Get("a/b")
	if state != SummaryValid || s.Summary != "Schedules jobs." {
		t.Errorf("reloaded Get = %+v, %v", s, state)
	}
	if _, state := re.Get("c/d"); state != SummaryAttemptedEmpty {
		t.Errorf("reloaded failed state = %v", state)
	}
	if re.ValidCount() != 1 || re.Len() != 2 {
		t.Errorf("ValidCount = %d, Len = %d; want 1, 2", re.ValidCount(), re.Len())
	}
}
