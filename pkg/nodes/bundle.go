package nodes

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// Bundle is the persisted output document consumed by the static frontend:
// the full record set, precomputed sort permutations, and the generation
// date. It is written both as plain JSON and as a JavaScript assignment
// embedding the same payload.
type Bundle struct {
	Nodes         []Node           `json:"nodes"`
	SortedIndices map[string][]int `json:"sortedIndices"`
	GeneratedAt   string           `json:"generatedAt"`
}

// NewBundle builds a bundle from the record set, computing the sorted
// indices and stamping the generation date.
func NewBundle(ns []Node, now time.Time) *Bundle {
	return &Bundle{
		Nodes:         ns,
		SortedIndices: BuildIndices(ns),
		GeneratedAt:   now.Format("2006-01-02"),
	}
}

// LoadBundle reads a previously written bundle. A missing file is not an
// error for callers that treat it as a first run; test with os.IsNotExist.
func LoadBundle(path string) (*Bundle, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var b Bundle
	if err := json.Unmarshal(data, &b); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &b, nil
}

// WriteJSON writes the bundle as minified JSON.
func (b *Bundle) WriteJSON(path string) error {
	data, err := json.Marshal(b)
	if err != nil {
		return fmt.Errorf("encode bundle: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// WriteJS writes the bundle as a script-embeddable assignment so the
// frontend can load it without a fetch.
func (b *Bundle) WriteJS(path string) error {
	data, err := json.Marshal(b)
	if err != nil {
		return fmt.Errorf("encode bundle: %w", err)
	}
	out := append([]byte("window.NODEDEX_DATA = "), data...)
	out = append(out, ';')
	if err := os.WriteFile(path, out, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
