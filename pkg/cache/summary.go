package cache

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
)

// Summary is the structured classification for one repository.
type Summary struct {
	Categories []string `json:"categories"`
	Summary    string   `json:"summary"`
}

// SummaryState tags a summary cache entry. Legacy entries are raw strings
// written by an earlier format; they signal "needs reprocessing" and are
// re-submitted to the classifier on the next run.
type SummaryState int

const (
	// SummaryNotAttempted means no classification has been tried.
	SummaryNotAttempted SummaryState = iota
	// SummaryAttemptedEmpty means classification was tried and failed.
	SummaryAttemptedEmpty
	// SummaryLegacy means a raw-string entry from the old format is
	// present and the repo needs reprocessing.
	SummaryLegacy
	// SummaryValid means a structured summary is present.
	SummaryValid
)

type summaryEntry struct {
	state  SummaryState
	legacy string
	value  Summary
}

// SummaryCache holds classification results keyed by lowercase
// "owner/name". Like the README cache it is fully loaded at start and
// flushed incrementally; the persisted form keeps each entry's original
// JSON shape (object, string, or null) so old cache files keep working.
type SummaryCache struct {
	path    string
	entries map[string]summaryEntry
}

// LoadSummaryCache reads the cache file at path; a missing file yields an
// empty cache.
func LoadSummaryCache(path string) (*SummaryCache, error) {
	c := &SummaryCache{path: path, entries: make(map[string]summaryEntry)}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return c, nil
	}
	if err != nil {
		return nil, err
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrCorrupt, path, err)
	}
	for k, msg := range raw {
		c.entries[k] = decodeSummaryEntry(msg)
	}
	return c, nil
}

// decodeSummaryEntry derives the tagged state from the stored JSON shape:
// null means attempted-and-failed, a string is the legacy format, and an
// object is a valid structured summary.
func decodeSummaryEntry(msg json.RawMessage) summaryEntry {
	trimmed := bytes.TrimSpace(msg)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return summaryEntry{state: SummaryAttemptedEmpty}
	}
	if trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err == nil {
			return summaryEntry{state: SummaryLegacy, legacy: s}
		}
	}
	var v Summary
	if err := json.Unmarshal(trimmed, &v); err == nil {
		return summaryEntry{state: SummaryValid, value: v}
	}
	return summaryEntry{state: SummaryAttemptedEmpty}
}

// Get returns the entry state and, for SummaryValid, the summary.
func (c *SummaryCache) Get(key string) (Summary, SummaryState) {
	e, ok := c.entries[key]
	if !ok {
		return Summary{}, SummaryNotAttempted
	}
	return e.value, e.state
}

// Set records a structured summary for key.
func (c *SummaryCache) Set(key string, s Summary) {
	c.entries[key] = summaryEntry{state: SummaryValid, value: s}
}

// SetFailed marks key as attempted without a usable result.
func (c *SummaryCache) SetFailed(key string) {
	c.entries[key] = summaryEntry{state: SummaryAttemptedEmpty}
}

// Len returns the number of attempted entries.
func (c *SummaryCache) Len() int { return len(c.entries) }

// ValidCount returns how many entries hold structured summaries.
func (c *SummaryCache) ValidCount() int {
	n := 0
	for _, e := range c.entries {
		if e.state == SummaryValid {
			n++
		}
	}
	return n
}

// Flush writes the cache to its backing file, preserving legacy and empty
// entry shapes.
func (c *SummaryCache) Flush() error {
	raw := make(map[string]json.RawMessage, len(c.entries))
	for k, e := range c.entries {
		var (
			msg []byte
			err error
		)
		switch e.state {
		case SummaryValid:
			msg, err = json.Marshal(e.value)
		case SummaryLegacy:
			msg, err = json.Marshal(e.legacy)
		default:
			msg = []byte("null")
		}
		if err != nil {
			return err
		}
		raw[k] = msg
	}
	data, err := json.MarshalIndent(raw, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(c.path, data, 0o644)
}
