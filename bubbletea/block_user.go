package bubbletea

import "github.com/charmbracelet/x/ansi"

var _ MessageBlock = (*UserMessageBlock)(nil)

// UserMessageBlock renders a user message behind an accent bar.
type UserMessageBlock struct {
	text   string
	styles Styles
}

// NewUserMessageBlock creates a UserMessageBlock.
func NewUserMessageBlock(text string, styles Styles) *UserMessageBlock {
	return &UserMessageBlock{text: ansi.Strip(text), styles: styles}
}

func (b *UserMessageBlock) View(width int) string {
	// The left border sits outside the styled width.
	return b.styles.UserBg.Width(max(width-1, 1)).Render(b.text)
}
