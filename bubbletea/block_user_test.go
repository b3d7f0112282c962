package bubbletea_test

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/fwojciec/workflow"
	bt "github.com/fwojciec/workflow/bubbletea"
	"github.com/stretchr/testify/assert"
)

func TestUserMessageBlock_View(t *testing.T) {
	t.Parallel()

	t.Run("renders text", func(t *testing.T) {
		t.Parallel()
		block := bt.NewUserMessageBlock("hello world", bt.NewStyles(workflow.DefaultTheme()))
		assert.Contains(t, block.View(80), "hello world")
	})

	t.Run("fills the width", func(t *testing.T) {
		t.Parallel()
		block := bt.NewUserMessageBlock("test", bt.NewStyles(workflow.DefaultTheme()))
		for _, line := range strings.Split(block.View(40), "\n") {
			assert.Equal(t, 40, lipgloss.Width(line))
		}
	})

	t.Run("wraps long text", func(t *testing.T) {
		t.Parallel()
		block := bt.NewUserMessageBlock(strings.Repeat("word ", 20), bt.NewStyles(workflow.DefaultTheme()))
		assert.Greater(t, len(strings.Split(block.View(30), "\n")), 1)
	})

	t.Run("strips escape sequences", func(t *testing.T) {
		t.Parallel()
		block := bt.NewUserMessageBlock("\x1b[31mred\x1b[0m", bt.NewStyles(workflow.DefaultTheme()))
		view := block.View(40)
		assert.Contains(t, view, "red")
		assert.NotContains(t, view, "\x1b[31m")
	})
}
