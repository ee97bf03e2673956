package tui

import (
	"context"

	"newsdash/orchestrator"
	"newsdash/search"

	tea "github.com/charmbracelet/bubbletea"
)

// runSearch creates a command that runs the full pipeline for one query
func runSearch(s Searcher, q search.Query, opts orchestrator.Options) tea.Cmd {
	return func() tea.Msg {
		res, err := s.Search(context.Background(), q, opts)
		return SearchCompleteMsg{Keyword: q.Keyword, Result: res, Err: err}
	}
}

// showURL creates a command that surfaces the selected URL in the status line
func showURL(url string) tea.Cmd {
	return func() tea.Msg {
		return SelectedURLMsg{URL: url}
	}
}
