// Package filter applies date-range and domain criteria to records.
package filter

import (
	"fmt"
	"strings"
	"time"

	"newsdash/normalizer"
	"newsdash/types"
)

// dayLayouts are accepted by ParseDay, tried in order
var dayLayouts = []string{"2006-01-02", "20060102", "060102", "2006.01.02", "2006/01/02"}

// Criteria selects which records pass. The zero value passes everything.
type Criteria struct {
	// Start and End are calendar days; only their year, month and day are used.
	// Either may be nil for an open bound.
	Start *time.Time
	End   *time.Time

	// Domains, when non-empty, restricts records to these hosts (www. stripped).
	Domains map[string]struct{}

	// Publishers, when non-empty, also admits records whose publisher name matches.
	Publishers map[string]struct{}

	// Location decides where a calendar day begins and ends. Defaults to UTC.
	Location *time.Location
}

// ParseDay parses a calendar day such as 2024-03-05, 20240305 or 240305.
func ParseDay(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dayLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q: want YYYY-MM-DD, YYYYMMDD or YYMMDD", s)
}

// NewSet builds a lookup set from domains or publisher names.
// Entries are lowercased; URL-like entries are reduced to their host.
func NewSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		v = strings.ToLower(strings.TrimSpace(v))
		if v == "" {
			continue
		}
		if strings.Contains(v, "/") {
			if d := normalizer.Domain(ensureScheme(v)); d != "" {
				v = d
			}
		}
		set[strings.TrimPrefix(v, "www.")] = struct{}{}
	}
	return set
}

func ensureScheme(v string) string {
	if strings.Contains(v, "://") {
		return v
	}
	return "https://" + v
}

// Bounds returns the inclusive instant range for the criteria. Reversed days are swapped.
func (c Criteria) Bounds() (lo, hi *time.Time) {
	loc := c.Location
	if loc == nil {
		loc = time.UTC
	}
	start, end := c.Start, c.End
	if start != nil && end != nil && dayOf(*start, loc).After(dayOf(*end, loc)) {
		start, end = end, start
	}
	if start != nil {
		t := dayOf(*start, loc)
		lo = &t
	}
	if end != nil {
		t := dayOf(*end, loc).AddDate(0, 0, 1).Add(-time.Nanosecond)
		hi = &t
	}
	return lo, hi
}

// dayOf returns midnight in loc of the calendar day written in t
func dayOf(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

// Match reports whether one record passes. Records without a date always pass the date test.
func (c Criteria) Match(r types.Record) bool {
	lo, hi := c.Bounds()
	return matchDate(r, lo, hi) && c.matchSource(r)
}

func matchDate(r types.Record, lo, hi *time.Time) bool {
	if r.PublishedAt == nil {
		return true
	}
	if lo != nil && r.PublishedAt.Before(*lo) {
		return false
	}
	if hi != nil && r.PublishedAt.After(*hi) {
		return false
	}
	return true
}

func (c Criteria) matchSource(r types.Record) bool {
	if len(c.Domains) == 0 && len(c.Publishers) == 0 {
		return true
	}
	if _, ok := c.Domains[normalizer.Domain(r.URL)]; ok {
		return true
	}
	if r.Publisher != "" {
		if _, ok := c.Publishers[strings.ToLower(strings.TrimSpace(r.Publisher))]; ok {
			return true
		}
	}
	return false
}

// Apply returns the records that pass, in input order.
func Apply(records []types.Record, c Criteria) []types.Record {
	lo, hi := c.Bounds()
	out := make([]types.Record, 0, len(records))
	for _, r := range records {
		if matchDate(r, lo, hi) && c.matchSource(r) {
			out = append(out, r)
		}
	}
	return out
}
