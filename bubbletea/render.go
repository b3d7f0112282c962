package bubbletea

import (
	"fmt"
	"html"
	"regexp"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	chromastyles "github.com/alecthomas/chroma/v2/styles"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/fwojciec/workflow"
)

const (
	codeStyle     = "monokai"
	codeFormatter = "terminal256"
)

// inlineTag matches the only markup inline formatting produces. Literal
// angle brackets in model text arrive escaped, so they never match.
var inlineTag = regexp.MustCompile(`</?(?:strong|em)>|<br>`)

// RenderNodes renders reply nodes as styled terminal text wrapped to width.
// Nodes are separated by a blank line.
func RenderNodes(nodes []workflow.Node, width int, styles Styles) string {
	width = max(width, 10)
	parts := make([]string, 0, len(nodes))
	for _, n := range nodes {
		parts = append(parts, renderNode(n, width, styles))
	}
	return strings.Join(parts, "\n\n")
}

func renderNode(n workflow.Node, width int, s Styles) string {
	switch n := n.(type) {
	case workflow.Paragraph:
		return ansi.Wrap(inline(n.HTML, s), width, "")
	case workflow.Blockquote:
		return quoteStyle(s).Width(width - 1).Render(inline(n.HTML, s))
	case workflow.List:
		return renderList(n, width, s)
	case workflow.CodeBlock:
		return renderCode(n, width, s)
	default:
		return ""
	}
}

func quoteStyle(s Styles) lipgloss.Style {
	return s.Quote.
		BorderStyle(lipgloss.ThickBorder()).
		BorderLeft(true).
		BorderForeground(s.Quote.GetForeground()).
		PaddingLeft(1)
}

func renderList(l workflow.List, width int, s Styles) string {
	markers := make([]string, len(l.Items))
	markerWidth := 0
	for i := range l.Items {
		m := "•"
		if l.Ordered {
			m = fmt.Sprintf("%d.", i+1)
		}
		markers[i] = m
		markerWidth = max(markerWidth, lipgloss.Width(m))
	}
	// Two columns of indent, the marker, and one space.
	bodyWidth := max(width-markerWidth-3, 1)
	cell := lipgloss.NewStyle().PaddingLeft(2).Width(markerWidth + 3)

	rows := make([]string, len(l.Items))
	for i, item := range l.Items {
		body := ansi.Wrap(inline(item.HTML, s), bodyWidth, "")
		rows[i] = lipgloss.JoinHorizontal(lipgloss.Top, cell.Render(s.Marker.Render(markers[i])), body)
	}
	return strings.Join(rows, "\n")
}

func renderCode(c workflow.CodeBlock, width int, s Styles) string {
	code := highlight(ansi.Strip(c.Code), c.Lang)
	lines := strings.Split(code, "\n")
	for i, line := range lines {
		lines[i] = ansi.Truncate(line, width-2, "…")
	}
	body := s.Code.Render(strings.Join(lines, "\n"))
	if c.Lang == "" {
		return body
	}
	return s.CodeLabel.Render(ansi.Strip(c.Lang)) + "\n" + body
}

// highlight colors code for a 256-color terminal, guessing the language
// when lang is empty or unknown. It returns code unchanged on failure.
func highlight(code, lang string) string {
	var lexer chroma.Lexer
	if lang != "" {
		lexer = lexers.Get(lang)
	}
	if lexer == nil {
		lexer = lexers.Analyse(code)
	}
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	style := chromastyles.Get(codeStyle)
	if style == nil {
		style = chromastyles.Fallback
	}
	formatter := formatters.Get(codeFormatter)
	if formatter == nil {
		formatter = formatters.Fallback
	}

	it, err := lexer.Tokenise(nil, code)
	if err != nil {
		return code
	}
	var b strings.Builder
	if err := formatter.Format(&b, style, it); err != nil {
		return code
	}
	return strings.TrimRight(b.String(), "\n")
}

// inline converts inline markup to styled text. Entities are decoded and
// escape sequences in the decoded text are removed.
func inline(markup string, s Styles) string {
	var b strings.Builder
	var bold, italic bool
	write := func(text string) {
		text = ansi.Strip(html.UnescapeString(text))
		if text == "" {
			return
		}
		switch {
		case bold && italic:
			b.WriteString(s.Strong.Italic(true).Render(text))
		case bold:
			b.WriteString(s.Strong.Render(text))
		case italic:
			b.WriteString(lipgloss.NewStyle().Italic(true).Render(text))
		default:
			b.WriteString(text)
		}
	}

	last := 0
	for _, loc := range inlineTag.FindAllStringIndex(markup, -1) {
		write(markup[last:loc[0]])
		switch markup[loc[0]:loc[1]] {
		case "<strong>":
			bold = true
		case "</strong>":
			bold = false
		case "<em>":
			italic = true
		case "</em>":
			italic = false
		case "<br>":
			b.WriteString("\n")
		}
		last = loc[1]
	}
	write(markup[last:])
	return b.String()
}
