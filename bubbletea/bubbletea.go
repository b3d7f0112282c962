// Package bubbletea provides a Bubble Tea terminal view of one chat
// conversation.
package bubbletea

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fwojciec/workflow"
	"github.com/fwojciec/workflow/chat"
)

// TurnFunc sends text as the next user message and streams the reply
// through onUpdate. It blocks until the turn completes or ctx is cancelled.
type TurnFunc func(ctx context.Context, text string, onUpdate chat.UpdateFunc) error

// RunnerTurn adapts a chat runner conversation to a TurnFunc.
func RunnerTurn(r *chat.Runner, conv workflow.Conversation) TurnFunc {
	return func(ctx context.Context, text string, onUpdate chat.UpdateFunc) error {
		_, err := r.Send(ctx, conv, text, onUpdate)
		return err
	}
}

// Run creates and runs the Bubble Tea program. It blocks until the program
// exits. Cancelling ctx quits the program.
func Run(ctx context.Context, m Model) error {
	p := tea.NewProgram(m, tea.WithAltScreen())
	go func() {
		<-ctx.Done()
		p.Quit()
	}()
	_, err := p.Run()
	return err
}

// ReplyMsg carries the reply text accumulated so far and its rendered nodes.
type ReplyMsg struct {
	Text  string
	Nodes []workflow.Node
}

// TurnDoneMsg signals that the running turn has completed.
type TurnDoneMsg struct {
	Err error
}
