// Package chat runs conversation turns between a Provider and a HistoryStore.
//
// Each turn streams the model reply and re-renders the whole reply text with
// [markdown.Render] after every chunk, handing the fresh node sequence to the
// caller. Nodes are never patched in place.
package chat

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strings"
	"sync"

	"github.com/fwojciec/workflow"
	"github.com/fwojciec/workflow/markdown"
)

// UpdateFunc receives the reply text accumulated so far and its rendered
// nodes. It is called synchronously from the goroutine running the turn.
type UpdateFunc func(text string, nodes []workflow.Node)

// Runner executes chat turns and persists the resulting histories. At most
// one turn runs per conversation key.
type Runner struct {
	provider  workflow.Provider
	histories workflow.HistoryStore
	logger    *slog.Logger
	model     string

	mu     sync.Mutex
	active map[string]struct{}
}

// Option configures a [Runner].
type Option func(*Runner)

// WithModel sets the model ID sent with every request.
// Empty string means the provider uses its default model.
func WithModel(model string) Option {
	return func(r *Runner) { r.model = model }
}

// WithLogger sets the logger. Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// New creates a Runner.
func New(provider workflow.Provider, histories workflow.HistoryStore, opts ...Option) *Runner {
	r := &Runner{
		provider:  provider,
		histories: histories,
		logger:    slog.Default(),
		active:    make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// History returns the stored messages of a conversation.
func (r *Runner) History(ctx context.Context, key string) ([]workflow.Message, error) {
	msgs, err := r.histories.LoadHistory(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("chat: %w", err)
	}
	return msgs, nil
}

// Busy reports whether a turn is running for key.
func (r *Runner) Busy(key string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.active[key]
	return ok
}

// Start opens a conversation. When no history is stored the seed message is
// sent as the first user turn; otherwise the stored history is returned
// unchanged and onUpdate is never called.
func (r *Runner) Start(ctx context.Context, conv workflow.Conversation, seed string, onUpdate UpdateFunc) ([]workflow.Message, error) {
	msgs, err := r.History(ctx, conv.Key)
	if err != nil {
		return nil, err
	}
	if len(msgs) > 0 {
		return msgs, nil
	}
	return r.Send(ctx, conv, seed, onUpdate)
}

// Send appends a user message to the conversation, streams the model reply,
// and saves the updated history. It returns the full history.
//
// Upstream failures do not return an error: the reply becomes
// [workflow.ErrorText] of the failure. If ctx is cancelled mid-stream the
// partial reply is discarded, only the user message is kept, and ctx.Err()
// is returned.
func (r *Runner) Send(ctx context.Context, conv workflow.Conversation, text string, onUpdate UpdateFunc) ([]workflow.Message, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("chat: empty message: %w", workflow.ErrValidation)
	}
	if !r.acquire(conv.Key) {
		return nil, fmt.Errorf("chat: turn already running for %q: %w", conv.Key, workflow.ErrValidation)
	}
	defer r.release(conv.Key)

	prior, err := r.History(ctx, conv.Key)
	if err != nil {
		return nil, err
	}
	msgs := append(slices.Clone(prior), workflow.UserMessage(text))

	reply, err := r.turn(ctx, conv, prior, text, onUpdate)
	if err == nil {
		msgs = append(msgs, workflow.ModelMessage(reply))
	}

	// The history is saved even when ctx was cancelled so the user message survives.
	if saveErr := r.histories.SaveHistory(context.WithoutCancel(ctx), conv.Key, msgs); saveErr != nil {
		r.logger.Warn("save chat history", "key", conv.Key, "error", saveErr)
	}
	return msgs, err
}

// turn streams one model reply. It returns a non-nil error only when ctx was
// cancelled.
func (r *Runner) turn(ctx context.Context, conv workflow.Conversation, prior []workflow.Message, prompt string, onUpdate UpdateFunc) (string, error) {
	emit := func(text string) {
		if onUpdate != nil && ctx.Err() == nil {
			onUpdate(text, markdown.Render(text))
		}
	}
	fail := func(err error) (string, error) {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", ctxErr
		}
		r.logger.Error("chat turn failed", "key", conv.Key, "error", err)
		text := workflow.ErrorText(err)
		emit(text)
		return text, nil
	}

	req := workflow.Request{
		Model:        r.model,
		SystemPrompt: conv.SystemPrompt,
		History:      nonEmpty(prior),
		Prompt:       prompt,
	}
	stream, err := r.provider.Stream(ctx, req)
	if err != nil {
		return fail(err)
	}
	defer stream.Close()

	var b strings.Builder
	for {
		evt, err := stream.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fail(err)
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", ctxErr
		}
		if d, ok := evt.(workflow.EventTextDelta); ok {
			b.WriteString(d.Delta)
			emit(b.String())
		}
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return "", ctxErr
	}
	return b.String(), nil
}

func (r *Runner) acquire(key string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.active[key]; ok {
		return false
	}
	r.active[key] = struct{}{}
	return true
}

func (r *Runner) release(key string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.active, key)
}

func nonEmpty(msgs []workflow.Message) []workflow.Message {
	var out []workflow.Message
	for _, m := range msgs {
		if strings.TrimSpace(m.Text) != "" {
			out = append(out, m)
		}
	}
	return out
}
