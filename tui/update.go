package tui

import (
	"fmt"
	"strings"

	"newsdash/types"

	tea "github.com/charmbracelet/bubbletea"
)

// Update implements tea.Model interface
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.table.SetColumns(columns(msg.Width))
		m.table.SetHeight(max(msg.Height-14, 5))
		return m, nil
	case tea.KeyMsg:
		return m.handleKeyPress(msg)
	case SearchCompleteMsg:
		return m.handleSearchComplete(msg)
	case SelectedURLMsg:
		m.Status = msg.URL
		return m, nil
	}
	return m, nil
}

// handleKeyPress processes keyboard input
func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	switch m.focus {
	case focusInput:
		return m.handleInputKey(msg)
	case focusDetail:
		switch msg.String() {
		case "q":
			return m, tea.Quit
		case "enter", "esc":
			m.focus = focusTable
		}
		return m, nil
	}
	return m.handleTableKey(msg)
}

func (m Model) handleInputKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		return m, tea.Quit
	case "tab":
		if len(m.Result.Records) > 0 {
			m.focusTable()
		}
		return m, nil
	case "enter":
		keyword := strings.TrimSpace(m.input.Value())
		if keyword == "" || m.State == StateSearching {
			return m, nil
		}
		m.State = StateSearching
		m.Keyword = keyword
		m.Err = nil
		m = m.AddLog(fmt.Sprintf("Searching %q", keyword))
		return m, m.startSearch()
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) handleTableKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "esc":
		return m, tea.Quit
	case "/":
		m.focus = focusInput
		m.table.Blur()
		return m, m.input.Focus()
	case "enter":
		if _, ok := m.Selected(); ok {
			m.focus = focusDetail
		}
		return m, nil
	case "f":
		m.options.EnableFetch = !m.options.EnableFetch
		return m.AddLog(m.flagsText()), nil
	case "s":
		m.options.EnableSummarize = !m.options.EnableSummarize
		return m.AddLog(m.flagsText()), nil
	case "n":
		m.options.SortNewest = !m.options.SortNewest
		return m.AddLog(m.flagsText()), nil
	case "o":
		if r, ok := m.Selected(); ok {
			return m, showURL(r.URL)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// handleSearchComplete processes pipeline completion
func (m Model) handleSearchComplete(msg SearchCompleteMsg) (tea.Model, tea.Cmd) {
	m.Keyword = msg.Keyword
	if msg.Err != nil {
		m.State = StateError
		m.Err = msg.Err
		m = m.AddLog(fmt.Sprintf("Search failed: %v", msg.Err))
		return m, nil
	}

	m.State = StateComplete
	m.Result = msg.Result
	m.table.SetRows(rows(msg.Result.Records))
	m.table.SetCursor(0)

	c := msg.Result.Counts
	m = m.AddLog(fmt.Sprintf("%d raw, %d duplicates, %d kept", c.Input, c.Duplicates, len(msg.Result.Records)))
	for _, p := range msg.Result.Providers {
		if !p.Available() {
			m = m.AddLog(fmt.Sprintf("%s unavailable", p.Name))
		}
	}

	if len(msg.Result.Records) > 0 {
		m.focusTable()
	}
	return m, nil
}

func (m *Model) focusTable() {
	m.focus = focusTable
	m.input.Blur()
	m.table.Focus()
}

// countUnavailable returns how many records lack a body or summary
func countUnavailable(records []types.Record, summarize bool) int {
	n := 0
	for _, r := range records {
		if !r.HasBody() || (summarize && !r.HasSummary()) {
			n++
		}
	}
	return n
}
