// Package export renders pipeline records for people and ships them to sinks.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"newsdash/types"
)

// Columns is the CSV header, in order
var Columns = []string{"title", "url", "source", "published_at", "snippet", "summary", "keywords"}

// utf8BOM marks the file as UTF-8 for spreadsheet apps
const utf8BOM = "\ufeff"

// KeywordSep joins keywords in a single CSV cell
const KeywordSep = ", "

// CSVOptions tune WriteCSV
type CSVOptions struct {
	BOM bool
}

// WriteCSV writes one row per record under the Columns header
func WriteCSV(w io.Writer, records []types.Record, opts CSVOptions) error {
	if opts.BOM {
		if _, err := io.WriteString(w, utf8BOM); err != nil {
			return fmt.Errorf("failed to write BOM: %w", err)
		}
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(Columns); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for _, r := range records {
		if err := cw.Write(Row(r)); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// Row returns the CSV cells for one record
func Row(r types.Record) []string {
	return []string{
		r.Title,
		r.URL,
		r.Source,
		FormatDate(r.PublishedAt),
		r.Snippet,
		r.Summary,
		strings.Join(r.Keywords, KeywordSep),
	}
}

// FormatDate renders an optional timestamp as RFC 3339 UTC, or empty when absent
func FormatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
