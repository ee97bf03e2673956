package tui

import (
	"fmt"
	"strings"
)

// View implements tea.Model interface
func (m Model) View() string {
	var b strings.Builder

	// Title
	b.WriteString(TitleStyle.Render(TextTitle))
	b.WriteString("\n")

	b.WriteString(m.input.View())
	b.WriteString("\n\n")

	// Current state
	b.WriteString(m.getStateText())
	b.WriteString("\n")
	b.WriteString(InfoStyle.Render(m.flagsText()))
	b.WriteString("\n\n")

	// Results
	if m.State == StateComplete && len(m.Result.Records) > 0 {
		if m.focus == focusDetail {
			if r, ok := m.Selected(); ok {
				b.WriteString(BoxStyle.Width(max(m.width-6, 40)).Render(formatDetail(r)))
			}
		} else {
			b.WriteString(m.table.View())
		}
		b.WriteString("\n")

		// Statistics
		c := m.Result.Counts
		stats := fmt.Sprintf("📊 fetched: %d | summarized: %d", c.Fetched, c.Summarized)
		if m.options.EnableFetch {
			stats += fmt.Sprintf(" | unavailable: %d", countUnavailable(m.Result.Records, m.options.EnableSummarize))
		}
		b.WriteString(InfoStyle.Render(stats))
		b.WriteString("\n")
	}

	if m.Status != "" {
		b.WriteString(StatusStyle.Render("🔗 " + m.Status))
		b.WriteString("\n")
	}

	// Logs
	if len(m.Logs) > 0 {
		b.WriteString("\n")
		for _, logMsg := range m.Logs {
			b.WriteString(InfoStyle.Render("   " + logMsg))
			b.WriteString("\n")
		}
	}

	// Help text
	b.WriteString("\n")
	switch m.focus {
	case focusInput:
		b.WriteString(InfoStyle.Render(TextFooterInput))
	case focusDetail:
		b.WriteString(InfoStyle.Render(TextFooterDetail))
	default:
		b.WriteString(InfoStyle.Render(TextFooterTable))
	}

	return b.String()
}
