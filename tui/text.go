package tui

// UI Text Constants
const (
	TextTitle = "📰 newsdash"

	// Instructions
	TextSearchInstruction = "Type a keyword and press Enter to search"
	TextSearching         = "⏳ Searching providers..."

	// Footer
	TextFooterInput  = "Enter search | Tab to results | Esc/Ctrl+C quit"
	TextFooterTable  = "↑/↓ move | Enter details | / new search | f fetch | s summarize | n newest | o open URL | q quit"
	TextFooterDetail = "Enter/Esc back to table | q quit"
)
