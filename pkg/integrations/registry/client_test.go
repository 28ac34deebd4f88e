package registry

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func testClient(url string) *Client {
	c := NewClient(url, nil)
	c.PageDelay = 0
	return c
}

func TestClient_FetchAll(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("limit"); got != "100" {
			t.Errorf("limit = %q, want 100", got)
		}

		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Query().Get("page") {
		case "1":
			json.NewEncoder(w).Encode(map[string]any{
				"totalPages": 2,
				"nodes": []map[string]any{
					{
						"publisher":    map[string]string{"name": "Acme"},
						"name":         "acme-pack",
						"repository":   "https://github.com/acme/pack",
						"description":  "Things.",
						"id":           "acme-pack",
						"downloads":    1234,
						"github_stars": 56,
						"created_at":   "2023-03-01T00:00:00Z",
					},
				},
			})
		case "2":
			json.NewEncoder(w).Encode(map[string]any{
				"totalPages": 2,
				"nodes": []map[string]any{
					{
						// No publisher object: author field is the fallback.
						"author":    "solo-dev",
						"name":      "solo-pack",
						"downloads": 9,
					},
				},
			})
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	all, err := testClient(server.URL).FetchAll(context.Background(), false)
	if err != nil {
		t.Fatalf("FetchAll failed: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("got %d nodes, want 2", len(all))
	}

	first := all[0]
	if first.Publisher != "Acme" || first.Downloads != 1234 || first.GithubStars != 56 {
		t.Errorf("unexpected first node: %+v", first)
	}
	if first.CreatedAt.IsZero() {
		t.Error("created_at not parsed")
	}

	second := all[1]
	if second.Publisher != "solo-dev" {
		t.Errorf("publisher fallback = %q, want author name", second.Publisher)
	}
	if !second.CreatedAt.IsZero() {
		t.Error("missing created_at should stay zero")
	}
}

func TestClient_FetchAll_PartialOnFailure(t *testing.T) {
	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls > 1 {
			w.WriteHeader(http.StatusTeapot) // non-retryable
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"totalPages": 3,
			"nodes": []map[string]any{
				{"name": "only-page", "downloads": 1},
			},
		})
	}))
	defer server.Close()

	all, err := testClient(server.URL).FetchAll(context.Background(), false)
	if err == nil {
		t.Fatal("expected error from failed page")
	}
	if len(all) != 1 {
		t.Fatalf("got %d nodes, want the 1 from the successful page", len(all))
	}
}
