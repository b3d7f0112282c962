package markdown

import (
	"strings"

	"github.com/fwojciec/workflow"
	"github.com/yuin/goldmark/util"
)

// HTML renders nodes to markup. Lists are wrapped in a blockquote so they
// share the quote styling; code is escaped and emitted verbatim.
func HTML(nodes []workflow.Node) string {
	var b strings.Builder
	for i, n := range nodes {
		if i > 0 {
			b.WriteByte('\n')
		}
		writeNode(&b, n)
	}
	return b.String()
}

func writeNode(b *strings.Builder, n workflow.Node) {
	switch n := n.(type) {
	case workflow.Paragraph:
		b.WriteString("<p>")
		b.WriteString(n.HTML)
		b.WriteString("</p>")
	case workflow.Blockquote:
		b.WriteString("<blockquote>")
		b.WriteString(n.HTML)
		b.WriteString("</blockquote>")
	case workflow.List:
		tag := "ul"
		if n.Ordered {
			tag = "ol"
		}
		b.WriteString("<blockquote><" + tag + ">")
		for _, it := range n.Items {
			b.WriteString("<li>")
			b.WriteString(it.HTML)
			b.WriteString("</li>")
		}
		b.WriteString("</" + tag + "></blockquote>")
	case workflow.CodeBlock:
		b.WriteString("<pre><code")
		if n.Lang != "" {
			b.WriteString(` class="language-`)
			b.Write(util.EscapeHTML([]byte(n.Lang)))
			b.WriteString(`"`)
		}
		b.WriteString(">")
		b.Write(util.EscapeHTML([]byte(n.Code)))
		b.WriteString("</code></pre>")
	}
}
