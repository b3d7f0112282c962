package bubbletea_test

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fwojciec/workflow"
	bt "github.com/fwojciec/workflow/bubbletea"
	"github.com/fwojciec/workflow/chat"
	"github.com/stretchr/testify/require"
)

// initModel creates a model and sends a WindowSizeMsg to initialize the viewport.
func initModel(t *testing.T, send bt.TurnFunc, opts ...bt.Option) bt.Model {
	t.Helper()
	return initModelWithSize(t, send, 80, 24, opts...)
}

// initModelWithSize creates a model with a custom terminal size.
func initModelWithSize(t *testing.T, send bt.TurnFunc, width, height int, opts ...bt.Option) bt.Model {
	t.Helper()
	m := bt.New(send, workflow.DefaultTheme(), opts...)
	updated, _ := m.Update(tea.WindowSizeMsg{Width: width, Height: height})
	model, ok := updated.(bt.Model)
	require.True(t, ok)
	return model
}

// updateModel sends a message and returns the updated Model.
func updateModel(t *testing.T, m bt.Model, msg tea.Msg) bt.Model {
	t.Helper()
	updated, _ := m.Update(msg)
	model, ok := updated.(bt.Model)
	require.True(t, ok)
	return model
}

// drain runs cmd and every command it produces, feeding messages back into
// the model, until the turn completes. The cursor blink command issued on
// completion is not run.
func drain(t *testing.T, m bt.Model, cmd tea.Cmd) bt.Model {
	t.Helper()
	queue := []tea.Cmd{cmd}
	for len(queue) > 0 {
		c := queue[0]
		queue = queue[1:]
		if c == nil {
			continue
		}
		switch msg := c().(type) {
		case nil:
		case tea.BatchMsg:
			queue = append(queue, msg...)
		case bt.ReplyMsg:
			updated, next := m.Update(msg)
			m = updated.(bt.Model)
			queue = append(queue, next)
		case bt.TurnDoneMsg:
			return updateModel(t, m, msg)
		}
	}
	return m
}

func nopTurn(context.Context, string, chat.UpdateFunc) error {
	return nil
}
