// Package goldmark renders the markdown of assistant replies to ANSI-styled
// terminal output using goldmark for parsing and lipgloss for styling.
package goldmark

import "github.com/fwojciec/sophia"

const defaultWidth = 80

// Render parses markdown source and returns ANSI-styled terminal output
// wrapped to width. Code blocks keep their lines as written.
func Render(source string, width int, theme sophia.Theme) string {
	if source == "" {
		return ""
	}
	if width <= 0 {
		width = defaultWidth
	}
	return newRenderer(theme, []byte(source)).render(width)
}
