package bubbletea

import (
	"github.com/fwojciec/sophia"
	"github.com/fwojciec/sophia/goldmark"
)

var _ MessageBlock = (*AssistantBlock)(nil)

// AssistantBlock renders a reply as markdown. Replies never change once
// received, so each rendering is cached per width.
type AssistantBlock struct {
	text    string
	theme   sophia.Theme
	byWidth map[int]string
}

// NewAssistantBlock creates an AssistantBlock.
func NewAssistantBlock(text string, theme sophia.Theme) *AssistantBlock {
	return &AssistantBlock{text: text, theme: theme, byWidth: make(map[int]string)}
}

func (b *AssistantBlock) View(width int) string {
	if width <= 0 {
		return ""
	}
	if cached, ok := b.byWidth[width]; ok {
		return cached
	}
	rendered := goldmark.Render(b.text, width, b.theme)
	b.byWidth[width] = rendered
	return rendered
}
