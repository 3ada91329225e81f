package bubbletea

import "github.com/fwojciec/sophia"

// Placeholder texts exported for testing.
const (
	NoSelectionText = noSelectionText
	EmptyLogText    = emptyLogText
	SidebarWidth    = sidebarWidth
)

// RenderContent exports renderContent for testing.
func RenderContent(m Model) string {
	return m.renderContent()
}

// StatusLine exports statusLine for testing.
func StatusLine(m Model) string {
	return m.statusLine()
}

// BlockCount returns how many message blocks the model holds.
func BlockCount(m Model) int {
	return len(m.blocks)
}

// RenderSidebar exports renderSidebar for testing.
func RenderSidebar(username string, convs []sophia.Conversation, selected string, height int, styles Styles) string {
	return renderSidebar(username, convs, selected, height, styles)
}
