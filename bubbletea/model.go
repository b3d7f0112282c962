package bubbletea

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"
	"github.com/fwojciec/workflow"
	"github.com/fwojciec/workflow/markdown"
	"github.com/mattn/go-runewidth"
)

var _ tea.Model = Model{}

// Model is the Bubble Tea model for a single conversation.
type Model struct {
	// Input is the text input component. Exported for test access.
	Input textinput.Model
	// Viewport is the scrollable output area. Exported for test access.
	Viewport viewport.Model

	send    TurnFunc
	title   string
	history []workflow.Message
	seed    string
	styles  Styles

	blocks []MessageBlock
	reply  *ReplyBlock // reply of the running turn

	width   int
	running bool
	cancel  context.CancelFunc
	replyCh chan ReplyMsg
	doneCh  chan error
	err     error
	ready   bool
}

// Option configures a Model.
type Option func(*Model)

// WithTitle sets the header line.
func WithTitle(title string) Option {
	return func(m *Model) { m.title = title }
}

// WithHistory sets the messages shown before the first turn.
func WithHistory(msgs []workflow.Message) Option {
	return func(m *Model) { m.history = msgs }
}

// WithSeed sets a message sent automatically when the history is empty.
func WithSeed(text string) Option {
	return func(m *Model) { m.seed = text }
}

// New creates a Model that runs turns with send.
func New(send TurnFunc, theme workflow.Theme, opts ...Option) Model {
	ti := textinput.New()
	ti.Placeholder = "Type a message..."
	ti.Prompt = ""
	ti.Focus()
	ti.CharLimit = 0

	m := Model{
		Input:  ti,
		send:   send,
		styles: NewStyles(theme),
	}
	for _, opt := range opts {
		opt(&m)
	}
	return m
}

// Running returns whether a turn is in flight.
func (m Model) Running() bool { return m.running }

// Err returns the error of the last turn, if any.
func (m Model) Err() error { return m.err }

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.handleWindowSize(msg)

	case tea.KeyMsg:
		return m.handleKey(msg)

	case ReplyMsg:
		if m.reply != nil {
			m.reply.SetNodes(msg.Nodes)
			m = m.refresh()
		}
		if m.replyCh != nil {
			return m, listenForReply(m.replyCh, m.doneCh)
		}
		return m, nil

	case TurnDoneMsg:
		m = m.finishTurn(msg.Err)
		cmd := m.Input.Focus()
		cmds = append(cmds, cmd)
		return m, tea.Batch(cmds...)
	}

	var cmd tea.Cmd
	m.Viewport, cmd = m.Viewport.Update(msg)
	cmds = append(cmds, cmd)

	if !m.running {
		m.Input, cmd = m.Input.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}

	var b strings.Builder
	b.WriteString(m.header())
	b.WriteString("\n")
	b.WriteString(m.Viewport.View())
	b.WriteString("\n")
	b.WriteString(m.statusLine())
	b.WriteString("\n")
	b.WriteString(m.Input.View())
	return b.String()
}

func (m Model) handleWindowSize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	headerHeight := 1
	inputHeight := 1
	statusHeight := 1
	borderHeight := 2
	vpHeight := max(msg.Height-headerHeight-inputHeight-statusHeight-borderHeight, 1)

	m.width = msg.Width
	m.Input.Width = max(msg.Width-1, 1)

	if m.ready {
		m.Viewport.Width = msg.Width
		m.Viewport.Height = vpHeight
		m.Viewport.SetContent(m.renderContent())
		return m, nil
	}

	m.Viewport = viewport.New(msg.Width, vpHeight)
	m = m.renderHistory()
	m.ready = true
	m = m.refresh()

	if len(m.history) == 0 && m.seed != "" {
		return m.startTurn(m.seed)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		if m.running {
			if m.cancel != nil {
				m.cancel()
			}
			return m, nil
		}
		return m, tea.Quit

	case tea.KeyEnter:
		if m.running {
			return m, nil
		}
		text := strings.TrimSpace(m.Input.Value())
		if text == "" {
			return m, nil
		}
		m.Input.SetValue("")
		return m.startTurn(text)
	}

	// Character keys go to the input only; 'j' and 'k' would otherwise
	// scroll the viewport while typing.
	if !m.running {
		var cmd tea.Cmd
		var cmds []tea.Cmd

		if msg.Type != tea.KeyRunes {
			m.Viewport, cmd = m.Viewport.Update(msg)
			cmds = append(cmds, cmd)
		}

		m.Input, cmd = m.Input.Update(msg)
		cmds = append(cmds, cmd)

		return m, tea.Batch(cmds...)
	}

	return m, nil
}

func (m Model) startTurn(text string) (tea.Model, tea.Cmd) {
	m.err = nil
	m.blocks = append(m.blocks, NewUserMessageBlock(text, m.styles))
	m.reply = NewReplyBlock(m.styles)
	m.blocks = append(m.blocks, m.reply)
	m = m.refresh()

	ctx, cancel := context.WithCancel(context.Background())
	m.cancel = cancel
	m.replyCh = make(chan ReplyMsg, 256)
	m.doneCh = make(chan error, 1)
	m.running = true
	m.Input.Blur()

	return m, tea.Batch(
		runTurn(ctx, m.send, text, m.replyCh, m.doneCh),
		listenForReply(m.replyCh, m.doneCh),
	)
}

// finishTurn settles the reply block of the completed turn. A cancelled
// reply is discarded, matching what the conversation keeps.
func (m Model) finishTurn(err error) Model {
	if m.cancel != nil {
		m.cancel()
	}
	m.running = false
	m.cancel = nil
	m.replyCh = nil
	m.doneCh = nil

	switch {
	case errors.Is(err, context.Canceled):
		m = m.dropReply()
	case err != nil:
		m.err = err
		if m.reply != nil && m.reply.Empty() {
			m = m.dropReply()
			m.blocks = append(m.blocks, NewErrorBlock(err, m.styles))
		}
	}
	m.reply = nil
	return m.refresh()
}

func (m Model) dropReply() Model {
	if m.reply == nil {
		return m
	}
	blocks := make([]MessageBlock, 0, len(m.blocks))
	for _, b := range m.blocks {
		if b != MessageBlock(m.reply) {
			blocks = append(blocks, b)
		}
	}
	m.blocks = blocks
	return m
}

// renderHistory creates blocks from the stored conversation.
func (m Model) renderHistory() Model {
	for _, msg := range m.history {
		switch msg.Role {
		case workflow.RoleUser:
			m.blocks = append(m.blocks, NewUserMessageBlock(msg.Text, m.styles))
		case workflow.RoleModel:
			b := NewReplyBlock(m.styles)
			b.SetNodes(markdown.Render(msg.Text))
			m.blocks = append(m.blocks, b)
		}
	}
	return m
}

func (m Model) refresh() Model {
	if !m.ready {
		return m
	}
	m.Viewport.SetContent(m.renderContent())
	m.Viewport.GotoBottom()
	return m
}

func (m Model) renderContent() string {
	var views []string
	for _, block := range m.blocks {
		if v := block.View(m.Viewport.Width); v != "" {
			views = append(views, v)
		}
	}
	return strings.Join(views, "\n\n")
}

func (m Model) header() string {
	title := m.title
	if title == "" {
		title = "Chat"
	}
	return m.styles.Accent.Render(runewidth.Truncate(title, max(m.width, 1), "…"))
}

func (m Model) statusLine() string {
	var line string
	switch {
	case m.err != nil:
		line = m.styles.Error.Render(fmt.Sprintf("Error: %v", m.err))
	case m.running:
		line = m.styles.Muted.Render("Generating... Ctrl+C to cancel")
	default:
		line = m.styles.Muted.Render("Enter to send, Ctrl+C to quit")
	}
	return ansi.Truncate(line, max(m.width, 1), "…")
}

// runTurn runs send in a goroutine and signals completion by closing
// replyCh after queuing the error on doneCh.
func runTurn(ctx context.Context, send TurnFunc, text string, replyCh chan<- ReplyMsg, doneCh chan<- error) tea.Cmd {
	return func() tea.Msg {
		err := send(ctx, text, func(reply string, nodes []workflow.Node) {
			select {
			case replyCh <- ReplyMsg{Text: reply, Nodes: nodes}:
			case <-ctx.Done():
			}
		})
		doneCh <- err
		close(replyCh)
		return nil
	}
}

// listenForReply waits for the next reply update. When the channel closes it
// reads the turn error from doneCh and returns TurnDoneMsg.
func listenForReply(ch <-chan ReplyMsg, doneCh <-chan error) tea.Cmd {
	return func() tea.Msg {
		msg, ok := <-ch
		if !ok {
			return TurnDoneMsg{Err: <-doneCh}
		}
		return msg
	}
}
