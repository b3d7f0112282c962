package workflow

import "context"

// StreamState indicates the current state of a Stream.
type StreamState int

const (
	StreamStateNew       StreamState = iota // Before Next() is ever called.
	StreamStateStreaming                    // Mid-stream, receiving deltas.
	StreamStateComplete                     // Next() returned io.EOF.
	StreamStateError                        // Next() returned non-EOF error.
	StreamStateClosed                       // Close() called before terminal state.
)

// Stream uses a pull-based iterator pattern. Cancellation flows through the
// context passed to Provider.Stream().
//
// Text() returns the reply assembled from every delta received so far. It is
// complete once State() is StreamStateComplete and partial otherwise.
type Stream interface {
	Next() (Event, error)
	State() StreamState
	Text() string
	Close() error
}

// Provider is a strategy pattern interface for chat model backends.
type Provider interface {
	Stream(ctx context.Context, req Request) (Stream, error)
}

// Suggester returns a single non-streamed completion for a prompt.
type Suggester interface {
	Suggest(ctx context.Context, prompt string) (string, error)
}

// Request carries the conversation sent to a Provider.
// History is prior context; Prompt is the new user message.
type Request struct {
	Model        string // model ID, provider-specific; empty = provider default
	SystemPrompt string
	History      []Message
	Prompt       string
}
