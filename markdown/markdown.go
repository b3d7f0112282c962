// Package markdown renders streamed model replies into [workflow.Node]
// blocks using a deliberately small markdown subset: paragraphs, bold,
// italic, blockquotes, flat lists, and fenced code blocks.
//
// Rendering is pure and total. Callers re-render the whole reply on every
// streamed chunk and replace their previous output; incomplete syntax such as
// an unterminated fence degrades to plain paragraphs until it is closed.
package markdown

import (
	"strings"

	"github.com/fwojciec/workflow"
)

// Render splits source into code and text segments and returns the nodes of
// both in source order. CRLF line endings are normalized first.
func Render(source string) []workflow.Node {
	if source == "" {
		return nil
	}
	source = strings.ReplaceAll(source, "\r\n", "\n")

	var nodes []workflow.Node
	for _, seg := range Segment(source) {
		switch s := seg.(type) {
		case workflow.CodeSegment:
			nodes = append(nodes, workflow.CodeBlock{Code: s.Content, Lang: s.Lang})
		case workflow.TextSegment:
			nodes = append(nodes, Group(s.Content)...)
		}
	}
	return nodes
}
