package types

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Record is one normalized search/news result
type Record struct {
	Title       string     `json:"title"`
	URL         string     `json:"url"`
	Source      string     `json:"source"`
	Publisher   string     `json:"publisher,omitempty"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
	Snippet     string     `json:"snippet,omitempty"`
	Body        string     `json:"body,omitempty"`
	Summary     string     `json:"summary,omitempty"`
	Keywords    []string   `json:"keywords,omitempty"`
}

// HasBody reports whether the fetch stage populated the record
func (r Record) HasBody() bool {
	return r.Body != ""
}

// HasSummary reports whether the summarize stage populated the record
func (r Record) HasSummary() bool {
	return r.Summary != ""
}

// GenerateID creates a short, stable ID from a normalized URL
func GenerateID(url string) string {
	hash := sha256.Sum256([]byte(url))
	return hex.EncodeToString(hash[:])[:16]
}
