// Package tui is an interactive terminal browser for search results.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"newsdash/export"
	"newsdash/orchestrator"
	"newsdash/search"
	"newsdash/types"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// Searcher runs one query through the pipeline
type Searcher interface {
	Search(ctx context.Context, q search.Query, opts orchestrator.Options) (orchestrator.Result, error)
}

// State represents the application state machine
type State string

const (
	StateIdle      State = "idle"
	StateSearching State = "searching"
	StateComplete  State = "complete"
	StateError     State = "error"
)

// focus selects which widget receives keys
type focus int

const (
	focusInput focus = iota
	focusTable
	focusDetail
)

// maxLogs bounds the activity log
const maxLogs = 5

// Model represents the TUI state
type Model struct {
	searcher Searcher
	query    search.Query
	options  orchestrator.Options

	input textinput.Model
	table table.Model
	focus focus

	State   State
	Result  orchestrator.Result
	Keyword string
	Logs    []string
	Status  string
	Err     error

	width  int
	height int
}

// NewModel creates a new TUI model. query and opts carry the configured defaults.
func NewModel(s Searcher, query search.Query, opts orchestrator.Options) Model {
	ti := textinput.New()
	ti.Placeholder = "keyword"
	ti.Prompt = "🔎 "
	ti.CharLimit = 200
	ti.SetValue(query.Keyword)
	ti.Focus()

	t := table.New(
		table.WithColumns(columns(100)),
		table.WithFocused(false),
		table.WithHeight(12),
	)
	styles := table.DefaultStyles()
	styles.Header = styles.Header.Bold(true)
	styles.Selected = HighlightStyle
	t.SetStyles(styles)

	return Model{
		searcher: s,
		query:    query,
		options:  opts,
		input:    ti,
		table:    t,
		focus:    focusInput,
		State:    StateIdle,
		width:    100,
		height:   30,
	}
}

// Init implements tea.Model interface
func (m Model) Init() tea.Cmd {
	if strings.TrimSpace(m.query.Keyword) != "" {
		return m.startSearch()
	}
	return textinput.Blink
}

// AddLog appends an activity line, keeping the most recent few
func (m Model) AddLog(msg string) Model {
	line := fmt.Sprintf("%s %s", time.Now().Format("15:04:05"), msg)
	m.Logs = append(m.Logs, line)
	if len(m.Logs) > maxLogs {
		m.Logs = m.Logs[len(m.Logs)-maxLogs:]
	}
	return m
}

// startSearch returns the command for the current input
func (m Model) startSearch() tea.Cmd {
	q := m.query
	q.Keyword = strings.TrimSpace(m.input.Value())
	return runSearch(m.searcher, q, m.options)
}

// Selected returns the record under the table cursor
func (m Model) Selected() (types.Record, bool) {
	i := m.table.Cursor()
	if i < 0 || i >= len(m.Result.Records) {
		return types.Record{}, false
	}
	return m.Result.Records[i], true
}

// columns sizes the table to the terminal width
func columns(width int) []table.Column {
	fixed := 3 + 16 + 14
	rest := max(width-fixed-10, 30)
	title := rest * 2 / 3
	return []table.Column{
		{Title: "#", Width: 3},
		{Title: "Published", Width: 16},
		{Title: "Publisher", Width: 14},
		{Title: "Title", Width: title},
		{Title: "Summary", Width: rest - title},
	}
}

// rows converts records for the table
func rows(records []types.Record) []table.Row {
	out := make([]table.Row, len(records))
	for i, r := range records {
		date := "-"
		if r.PublishedAt != nil {
			date = r.PublishedAt.Format("2006-01-02 15:04")
		}
		summary := r.Summary
		if summary == "" {
			summary = r.Snippet
		}
		out[i] = table.Row{fmt.Sprint(i + 1), date, r.Publisher, r.Title, summary}
	}
	return out
}

// getStateText returns the appropriate state message
func (m Model) getStateText() string {
	switch m.State {
	case StateIdle:
		return InfoStyle.Render(TextSearchInstruction)
	case StateSearching:
		return StatusStyle.Render(TextSearching)
	case StateComplete:
		if m.Result.Empty() {
			return ErrorStyle.Render(fmt.Sprintf("No results for %q (%s)", m.Keyword, m.Result.EmptyReason))
		}
		return HighlightStyle.Render(fmt.Sprintf("✅ %d results for %q", len(m.Result.Records), m.Keyword))
	case StateError:
		errMsg := "Unknown error"
		if m.Err != nil {
			errMsg = m.Err.Error()
		}
		return ErrorStyle.Render(fmt.Sprintf("❌ Error: %v", errMsg))
	default:
		return ""
	}
}

// flagsText shows the per-run switches
func (m Model) flagsText() string {
	onOff := func(b bool) string {
		if b {
			return "on"
		}
		return "off"
	}
	return fmt.Sprintf("fetch: %s | summarize: %s | newest first: %s",
		onOff(m.options.EnableFetch), onOff(m.options.EnableSummarize), onOff(m.options.SortNewest))
}

// formatDetail renders one record for the detail pane
func formatDetail(r types.Record) string {
	var b strings.Builder

	b.WriteString(HighlightStyle.Render(r.Title))
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "URL:       %s\n", r.URL)
	fmt.Fprintf(&b, "Source:    %s\n", r.Source)
	fmt.Fprintf(&b, "Publisher: %s\n", r.Publisher)
	if d := export.FormatDate(r.PublishedAt); d != "" {
		fmt.Fprintf(&b, "Published: %s\n", d)
	}

	if r.Snippet != "" {
		b.WriteString("\nSnippet:\n")
		b.WriteString(InfoStyle.Render(r.Snippet))
		b.WriteString("\n")
	}
	if r.HasSummary() {
		b.WriteString("\nSummary:\n")
		b.WriteString(StatusStyle.Render(r.Summary))
		b.WriteString("\n")
	} else {
		b.WriteString("\n")
		b.WriteString(InfoStyle.Render("Summary unavailable"))
		b.WriteString("\n")
	}
	if len(r.Keywords) > 0 {
		fmt.Fprintf(&b, "\nKeywords: %s\n", strings.Join(r.Keywords, export.KeywordSep))
	}
	return b.String()
}
