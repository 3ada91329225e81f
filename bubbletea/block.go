package bubbletea

import "github.com/fwojciec/sophia"

// MessageBlock is a renderable element of the conversation. View takes a
// width so the root model controls layout and blocks are testable in
// isolation.
type MessageBlock interface {
	View(width int) string
}

// newBlock returns the block that renders msg.
func newBlock(msg sophia.Message, theme sophia.Theme, styles Styles) MessageBlock {
	if msg.Role() == sophia.RoleAssistant {
		return NewAssistantBlock(msg.Text(), theme)
	}
	return NewUserMessageBlock(msg.Text(), styles)
}
