package cache

import (
	"encoding/json"
	"fmt"
	"os"
)

// ReadmeState tags a README cache entry. The distinction between "not
// attempted" (no key) and "attempted, nothing usable" (explicit empty
// marker) is what lets repeated runs skip repositories that have already
// been fetched, whatever the outcome was.
type ReadmeState int

const (
	// ReadmeNotAttempted means no fetch has been tried for this repo.
	ReadmeNotAttempted ReadmeState = iota
	// ReadmeAttemptedEmpty means a fetch was tried and yielded no usable
	// text (no README file, or too short after sanitizing).
	ReadmeAttemptedEmpty
	// ReadmeValid means sanitized README text is present.
	ReadmeValid
)

// ReadmeCache holds sanitized README text keyed by lowercase "owner/name".
// The whole cache is loaded at start, mutated in memory, and flushed
// periodically; interruption loses at most the work since the last flush.
//
// The persisted form is a flat JSON object whose values are either a
// string (valid text) or null (attempted, empty), matching the cache files
// earlier runs produced.
type ReadmeCache struct {
	path    string
	entries map[string]*string
}

// LoadReadmeCache reads the cache file at path. A missing file yields an
// empty cache; a present but unparseable file is an error so a corrupted
// cache never silently triggers a full re-fetch.
func LoadReadmeCache(path string) (*ReadmeCache, error) {
	c := &ReadmeCache{path: path, entries: make(map[string]*string)}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return c, nil
	}
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(data, &c.entries); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrCorrupt, path, err)
	}
	return c, nil
}

// Get returns the entry state and, for ReadmeValid, the sanitized text.
func (c *ReadmeCache) Get(key string) (string, ReadmeState) {
	v, ok := c.entries[key]
	switch {
	case !ok:
		return "", ReadmeNotAttempted
	case v == nil:
		return "", ReadmeAttemptedEmpty
	default:
		return *v, ReadmeValid
	}
}

// SetText records sanitized README text for key.
func (c *ReadmeCache) SetText(key, text string) {
	c.entries[key] = &text
}

// SetEmpty marks key as attempted with no usable text.
func (c *ReadmeCache) SetEmpty(key string) {
	c.entries[key] = nil
}

// Len returns the number of attempted entries.
func (c *ReadmeCache) Len() int { return len(c.entries) }

// ValidCount returns how many entries hold usable text.
func (c *ReadmeCache) ValidCount() int {
	n := 0
	for _, v := range c.entries {
		if v != nil {
			n++
		}
	}
	return n
}

// Valid returns every key with usable text and its sanitized content.
func (c *ReadmeCache) Valid() map[string]string {
	out := make(map[string]string, len(c.entries))
	for k, v := range c.entries {
		if v != nil {
			out[k] = *v
		}
	}
	return out
}

// Flush writes the cache to its backing file.
func (c *ReadmeCache) Flush() error {
	data, err := json.Marshal(c.entries)
	if err != nil {
		return err
	}
	return os.WriteFile(c.path, data, 0o644)
}
