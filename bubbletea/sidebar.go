package bubbletea

import (
	"strings"

	"github.com/fwojciec/sophia"
	"github.com/mattn/go-runewidth"
)

// sidebarWidth is the total width of the sidebar including its border.
const sidebarWidth = 26

// renderSidebar lists conversations in creation order, marking the
// selected one. Titles are truncated to fit and the list scrolls to keep
// the selection visible.
func renderSidebar(username string, convs []sophia.Conversation, selected string, height int, styles Styles) string {
	inner := sidebarWidth - 2 // border and right padding
	var b strings.Builder
	b.WriteString(styles.Accent.Render(runewidth.Truncate("@"+username, inner, "…")))
	b.WriteString("\n\n")
	if len(convs) == 0 {
		b.WriteString(styles.Muted.Render(runewidth.Truncate("Ctrl+N: new chat", inner, "…")))
	}

	rows := max(height-2, 1)
	start := 0
	for i, c := range convs {
		if c.ID == selected && i >= rows {
			start = i - rows + 1
		}
	}
	end := min(start+rows, len(convs))
	for i, c := range convs[start:end] {
		if i > 0 {
			b.WriteString("\n")
		}
		title := runewidth.Truncate(c.Title, inner-2, "…")
		if c.ID == selected {
			b.WriteString(styles.Selected.Render("▸ " + title))
			continue
		}
		b.WriteString("  " + title)
	}
	return styles.Sidebar.Width(sidebarWidth - 1).Height(max(height, 1)).Render(b.String())
}
