package bubbletea

import "github.com/fwojciec/workflow"

var _ MessageBlock = (*ReplyBlock)(nil)

// ReplyBlock renders a model reply from its node sequence. Each update
// replaces the whole sequence; rendered output is cached per width until
// the next update.
type ReplyBlock struct {
	nodes   []workflow.Node
	styles  Styles
	byWidth map[int]string
}

// NewReplyBlock creates an empty ReplyBlock.
func NewReplyBlock(styles Styles) *ReplyBlock {
	return &ReplyBlock{styles: styles, byWidth: make(map[int]string)}
}

// SetNodes replaces the rendered reply.
func (b *ReplyBlock) SetNodes(nodes []workflow.Node) {
	b.nodes = nodes
	clear(b.byWidth)
}

// Empty reports whether no reply content has arrived.
func (b *ReplyBlock) Empty() bool { return len(b.nodes) == 0 }

func (b *ReplyBlock) View(width int) string {
	if width <= 0 || len(b.nodes) == 0 {
		return ""
	}
	if cached, ok := b.byWidth[width]; ok {
		return cached
	}
	out := RenderNodes(b.nodes, width, b.styles)
	b.byWidth[width] = out
	return out
}
