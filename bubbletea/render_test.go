package bubbletea_test

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/fwojciec/workflow"
	bt "github.com/fwojciec/workflow/bubbletea"
	"github.com/fwojciec/workflow/markdown"
	"github.com/stretchr/testify/assert"
)

func TestRenderNodes(t *testing.T) {
	t.Parallel()

	styles := bt.NewStyles(workflow.DefaultTheme())
	render := func(src string, width int) string {
		return ansi.Strip(bt.RenderNodes(markdown.Render(src), width, styles))
	}

	t.Run("paragraph decodes entities", func(t *testing.T) {
		t.Parallel()
		out := render(`a < b & "c"`, 80)
		assert.Contains(t, out, `a < b & "c"`)
		assert.NotContains(t, out, "&lt;")
	})

	t.Run("literal tags stay text", func(t *testing.T) {
		t.Parallel()
		assert.Contains(t, render("use <strong> here", 80), "use <strong> here")
	})

	t.Run("bold and italic markers are consumed", func(t *testing.T) {
		t.Parallel()
		out := render("**bold** and *soft*", 80)
		assert.Contains(t, out, "bold and soft")
		assert.NotContains(t, out, "*")
	})

	t.Run("blockquote lines keep breaks behind a bar", func(t *testing.T) {
		t.Parallel()
		lines := strings.Split(render("> one\n> two", 80), "\n")
		if assert.Len(t, lines, 2) {
			assert.Contains(t, lines[0], "one")
			assert.Contains(t, lines[1], "two")
			assert.True(t, strings.HasPrefix(lines[0], "┃"))
		}
	})

	t.Run("unordered list uses bullets", func(t *testing.T) {
		t.Parallel()
		out := render("- a\n- b", 80)
		assert.Contains(t, out, "• a")
		assert.Contains(t, out, "• b")
	})

	t.Run("ordered list renumbers from one", func(t *testing.T) {
		t.Parallel()
		out := render("3. a\n7. b", 80)
		assert.Contains(t, out, "1. a")
		assert.Contains(t, out, "2. b")
	})

	t.Run("code block keeps literal text and label", func(t *testing.T) {
		t.Parallel()
		out := render("```go\nx := **y**\n```", 80)
		assert.Contains(t, out, "go")
		assert.Contains(t, out, "x := **y**")
	})

	t.Run("code strips embedded escape sequences", func(t *testing.T) {
		t.Parallel()
		raw := bt.RenderNodes([]workflow.Node{workflow.CodeBlock{Code: "echo \x1b]0;title\x07hi"}}, 80, styles)
		assert.NotContains(t, raw, "\x1b]0;")
		assert.Contains(t, ansi.Strip(raw), "hi")
	})

	t.Run("nodes separated by blank line", func(t *testing.T) {
		t.Parallel()
		assert.Contains(t, render("first\n\nsecond", 80), "first\n\nsecond")
	})

	t.Run("lines fit width", func(t *testing.T) {
		t.Parallel()
		src := strings.Repeat("long words wrap ", 10) + "\n\n- " + strings.Repeat("item ", 15) + "\n\n```\n" + strings.Repeat("x", 60) + "\n```"
		out := bt.RenderNodes(markdown.Render(src), 30, styles)
		for _, line := range strings.Split(out, "\n") {
			assert.LessOrEqual(t, lipgloss.Width(line), 30, "line exceeds width: %q", line)
		}
	})
}

func TestInline(t *testing.T) {
	t.Parallel()

	styles := bt.NewStyles(workflow.DefaultTheme())

	assert.Equal(t, "a\nb", bt.Inline("a<br>b", styles))
	assert.Equal(t, "x & y", bt.Inline("x &amp; y", styles))
	assert.Equal(t, "it's", bt.Inline("it's", styles))
	assert.Equal(t, "plain", ansi.Strip(bt.Inline("<strong><em>plain</em></strong>", styles)))
}

func TestReplyBlock(t *testing.T) {
	t.Parallel()

	block := bt.NewReplyBlock(bt.NewStyles(workflow.DefaultTheme()))
	assert.True(t, block.Empty())
	assert.Empty(t, block.View(80))

	block.SetNodes(markdown.Render("one"))
	assert.Contains(t, block.View(80), "one")

	block.SetNodes(markdown.Render("two"))
	assert.False(t, block.Empty())
	assert.Contains(t, block.View(80), "two")
	assert.NotContains(t, block.View(80), "one")
}
