package deduplication

import (
	"strings"

	"newsdash/normalizer"
	"newsdash/types"
)

// DeduplicationResult describes how one record was handled
type DeduplicationResult struct {
	IsDuplicate bool   `json:"is_duplicate"`
	Key         string `json:"key"`
	// MatchingIndex is the position of the first record with the same key
	MatchingIndex int `json:"matching_index"`
}

// Deduplicator keeps the first record seen for each normalized URL.
// It is not safe for concurrent use.
type Deduplicator struct {
	seen map[string]int
	kept []types.Record
}

// NewDeduplicator creates an empty deduplicator
func NewDeduplicator() *Deduplicator {
	return &Deduplicator{seen: make(map[string]int)}
}

// Key returns the identity key for a URL. URLs that fail normalization
// fall back to their trimmed lowercase form.
func Key(rawURL string) string {
	if u, err := normalizer.NormalizeURL(rawURL); err == nil {
		return u
	}
	return strings.ToLower(strings.TrimSpace(rawURL))
}

// ProcessRecord keeps the record if its key is new. Later duplicates are dropped, never merged.
func (d *Deduplicator) ProcessRecord(r types.Record) DeduplicationResult {
	key := Key(r.URL)
	if idx, ok := d.seen[key]; ok {
		return DeduplicationResult{IsDuplicate: true, Key: key, MatchingIndex: idx}
	}
	idx := len(d.kept)
	d.seen[key] = idx
	d.kept = append(d.kept, r)
	return DeduplicationResult{Key: key, MatchingIndex: idx}
}

// Records returns the kept records in first-seen order
func (d *Deduplicator) Records() []types.Record {
	return d.kept
}

// Count returns the number of distinct records kept
func (d *Deduplicator) Count() int {
	return len(d.kept)
}

// Deduplicate removes records whose normalized URL was already seen, preserving
// the position of each first occurrence. It returns the kept records and the
// number dropped.
func Deduplicate(records []types.Record) ([]types.Record, int) {
	d := NewDeduplicator()
	dropped := 0
	for _, r := range records {
		if d.ProcessRecord(r).IsDuplicate {
			dropped++
		}
	}
	return d.Records(), dropped
}
