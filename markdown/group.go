package markdown

import (
	"regexp"
	"strings"

	"github.com/fwojciec/workflow"
)

// LineKind is the block classification of a single source line.
type LineKind int

const (
	LineBlank LineKind = iota
	LineParagraph
	LineQuote
	LineUnordered
	LineOrdered
)

// space also matches Unicode space separators such as U+00A0, which RE2's
// \s leaves out.
const space = `[\s\p{Zs}\x{FEFF}]`

var (
	quotePrefix   = regexp.MustCompile(`^>` + space + `?`)
	unorderedItem = regexp.MustCompile(`^` + space + `*[-*]` + space)
	orderedItem   = regexp.MustCompile(`^` + space + `*\d+\.` + space)
	listMarker    = regexp.MustCompile(`^` + space + `*([-*]|\d+\.)` + space + `*`)
)

// Classify returns the kind of line. Quote wins over list, list over
// paragraph.
func Classify(line string) LineKind {
	switch {
	case strings.TrimSpace(line) == "":
		return LineBlank
	case quotePrefix.MatchString(line):
		return LineQuote
	case unorderedItem.MatchString(line):
		return LineUnordered
	case orderedItem.MatchString(line):
		return LineOrdered
	default:
		return LineParagraph
	}
}

type group struct {
	kind  LineKind
	lines []string
}

// Group converts one text segment into block nodes. Consecutive lines of the
// same kind merge; a change of kind or a blank line closes the group.
func Group(text string) []workflow.Node {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	var (
		nodes   []workflow.Node
		pending *group
	)
	flush := func() {
		if pending != nil {
			nodes = append(nodes, pending.node())
			pending = nil
		}
	}
	for _, line := range strings.Split(text, "\n") {
		kind := Classify(line)
		switch {
		case kind == LineBlank:
			flush()
		case pending != nil && pending.kind == kind:
			pending.lines = append(pending.lines, line)
		default:
			flush()
			pending = &group{kind: kind, lines: []string{line}}
		}
	}
	flush()
	return nodes
}

func (g *group) node() workflow.Node {
	switch g.kind {
	case LineQuote:
		parts := make([]string, len(g.lines))
		for i, l := range g.lines {
			parts[i] = FormatInline(quotePrefix.ReplaceAllString(l, ""))
		}
		return workflow.Blockquote{HTML: strings.Join(parts, "<br>")}
	case LineUnordered, LineOrdered:
		items := make([]workflow.ListItem, len(g.lines))
		for i, l := range g.lines {
			items[i] = workflow.ListItem{HTML: FormatInline(listMarker.ReplaceAllString(l, ""))}
		}
		return workflow.List{Ordered: g.kind == LineOrdered, Items: items}
	default:
		return workflow.Paragraph{HTML: FormatInline(strings.Join(g.lines, " "))}
	}
}
