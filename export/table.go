package export

import (
	"fmt"
	"io"
	"strings"

	"newsdash/types"

	"github.com/mattn/go-runewidth"
)

// TableOptions tune WriteTable
type TableOptions struct {
	// MaxWidth caps each column's display width. Zero selects 48.
	MaxWidth int
	// Summary adds the summary column
	Summary bool
}

// WriteTable renders records as an aligned terminal table. Widths are
// measured in terminal cells so wide CJK text lines up.
func WriteTable(w io.Writer, records []types.Record, opts TableOptions) error {
	maxWidth := opts.MaxWidth
	if maxWidth <= 0 {
		maxWidth = 48
	}

	header := []string{"#", "published", "source", "title", "url"}
	if opts.Summary {
		header = append(header, "summary")
	}

	rows := make([][]string, 0, len(records))
	for i, r := range records {
		date := ""
		if r.PublishedAt != nil {
			date = r.PublishedAt.Format("2006-01-02 15:04")
		}
		row := []string{fmt.Sprint(i + 1), date, r.Publisher, r.Title, r.URL}
		if opts.Summary {
			row = append(row, r.Summary)
		}
		for j := range row {
			row[j] = runewidth.Truncate(oneLine(row[j]), maxWidth, "…")
		}
		rows = append(rows, row)
	}

	widths := make([]int, len(header))
	for j, h := range header {
		widths[j] = runewidth.StringWidth(h)
	}
	for _, row := range rows {
		for j, cell := range row {
			widths[j] = max(widths[j], runewidth.StringWidth(cell))
		}
	}

	if err := writeTableRow(w, header, widths); err != nil {
		return err
	}
	sep := make([]string, len(widths))
	for j, n := range widths {
		sep[j] = strings.Repeat("-", n)
	}
	if err := writeTableRow(w, sep, widths); err != nil {
		return err
	}
	for _, row := range rows {
		if err := writeTableRow(w, row, widths); err != nil {
			return err
		}
	}
	return nil
}

func writeTableRow(w io.Writer, cells []string, widths []int) error {
	padded := make([]string, len(cells))
	for j, cell := range cells {
		if j == len(cells)-1 {
			padded[j] = cell
			continue
		}
		padded[j] = runewidth.FillRight(cell, widths[j])
	}
	_, err := fmt.Fprintln(w, strings.Join(padded, "  "))
	return err
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
