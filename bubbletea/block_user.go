package bubbletea

var _ MessageBlock = (*UserMessageBlock)(nil)

// UserMessageBlock renders a user message behind a colored left bar.
type UserMessageBlock struct {
	text   string
	styles Styles
}

// NewUserMessageBlock creates a UserMessageBlock.
func NewUserMessageBlock(text string, styles Styles) *UserMessageBlock {
	return &UserMessageBlock{text: text, styles: styles}
}

func (b *UserMessageBlock) View(width int) string {
	// Width excludes the border column.
	return b.styles.UserBlock.Width(max(width-1, 1)).Render(b.text)
}
