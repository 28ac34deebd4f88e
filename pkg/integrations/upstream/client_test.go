package upstream

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

const listJSON = `{
	"custom_nodes": [
		{
			"author": "alice",
			"title": "Alpha Pack",
			"reference": "https://github.com/alice/alpha",
			"description": "First.",
			"id": "alpha"
		},
		{
			"title": "No Author",
			"reference": "https://github.com/bob/beta"
		}
	]
}`

func TestClient_FetchList(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(listJSON))
	}))
	defer server.Close()

	fallback := filepath.Join(t.TempDir(), "list.json")
	c := NewClient(server.URL, fallback)

	list, fromFallback, err := c.FetchList(context.Background())
	if err != nil {
		t.Fatalf("FetchList failed: %v", err)
	}
	if fromFallback {
		t.Error("fresh fetch should not be marked as fallback")
	}
	if len(list) != 2 {
		t.Fatalf("got %d nodes, want 2", len(list))
	}
	if list[0].Author != "alice" || list[0].Title != "Alpha Pack" {
		t.Errorf("unexpected first node: %+v", list[0])
	}
	if list[1].Author != "Unknown" {
		t.Errorf("missing author should default to Unknown, got %q", list[1].Author)
	}

	if _, err := os.Stat(fallback); err != nil {
		t.Errorf("fallback file not mirrored: %v", err)
	}
}

func TestClient_FetchList_Fallback(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	fallback := filepath.Join(t.TempDir(), "list.json")
	if err := os.WriteFile(fallback, []byte(listJSON), 0o644); err != nil {
		t.Fatal(err)
	}

	c := NewClient(server.URL, fallback)
	list, fromFallback, err := c.FetchList(context.Background())
	if err != nil {
		t.Fatalf("FetchList failed: %v", err)
	}
	if !fromFallback {
		t.Error("expected result to come from fallback")
	}
	if len(list) != 2 {
		t.Errorf("got %d nodes, want 2", len(list))
	}
}

func TestClient_FetchList_NoFallback(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	c := NewClient(server.URL, filepath.Join(t.TempDir(), "absent.json"))
	if _, _, err := c.FetchList(context.Background()); err == nil {
		t.Fatal("expected error when fetch fails and no fallback exists")
	}
}
