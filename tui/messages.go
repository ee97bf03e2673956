package tui

import "newsdash/orchestrator"

// Messages for the tea program

// SearchCompleteMsg is sent when the pipeline returns
type SearchCompleteMsg struct {
	Keyword string
	Result  orchestrator.Result
	Err     error
}

// SelectedURLMsg carries the URL picked in the table
type SelectedURLMsg struct {
	URL string
}
