package bubbletea

// RenderContent exports renderContent for testing.
func RenderContent(m Model) string {
	return m.renderContent()
}

// Blocks exports the rendered blocks for testing.
func Blocks(m Model) []MessageBlock {
	return m.blocks
}

// Inline exports inline for testing.
func Inline(markup string, s Styles) string {
	return inline(markup, s)
}

// SetRunning puts the model in a running state with a reply block and the
// given cancel function.
func SetRunning(m Model, cancel func()) Model {
	m.running = true
	m.cancel = cancel
	m.reply = NewReplyBlock(m.styles)
	m.blocks = append(m.blocks, m.reply)
	return m
}
