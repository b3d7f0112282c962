package workflow

// Node is a sealed interface for one rendered block of a model reply.
// Nodes are recomputed from the whole message on every render and are never
// mutated after construction.
type Node interface {
	node()
}

// CodeBlock is the literal content of a fenced code block. Code is never
// inline-formatted; renderers must escape it as plain text.
type CodeBlock struct {
	Code string
	Lang string // optional fence info string, informational only
}

func (CodeBlock) node() {}

// Paragraph holds inline-formatted markup of one or more joined lines.
type Paragraph struct {
	HTML string
}

func (Paragraph) node() {}

// Blockquote holds inline-formatted markup with source lines joined by <br>.
type Blockquote struct {
	HTML string
}

func (Blockquote) node() {}

// List is a run of list items sharing one marker style.
type List struct {
	Ordered bool
	Items   []ListItem
}

func (List) node() {}

// ListItem holds the inline-formatted markup of a single list line.
type ListItem struct {
	HTML string
}

// Segment is a sealed interface for the output of code fence segmentation.
type Segment interface {
	segment()
}

// CodeSegment is the trimmed content of a completed fenced block.
type CodeSegment struct {
	Content string
	Lang    string
}

func (CodeSegment) segment() {}

// TextSegment is prose between (or around) completed fences, unchanged.
type TextSegment struct {
	Content string
}

func (TextSegment) segment() {}

// Interface compliance checks.
var (
	_ Node    = CodeBlock{}
	_ Node    = Paragraph{}
	_ Node    = Blockquote{}
	_ Node    = List{}
	_ Segment = CodeSegment{}
	_ Segment = TextSegment{}
)
