package gemini_test

import (
	"context"
	"io"
	"testing"

	"github.com/fwojciec/workflow"
	"github.com/fwojciec/workflow/gemini"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

// mockChunks returns a genai-style streaming iterator from pre-built chunks.
func mockChunks(chunks []*genai.GenerateContentResponse) func(func(*genai.GenerateContentResponse, error) bool) {
	return func(yield func(*genai.GenerateContentResponse, error) bool) {
		for _, c := range chunks {
			if !yield(c, nil) {
				return
			}
		}
	}
}

func textChunk(parts ...*genai.Part) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{Content: &genai.Content{Parts: parts}}},
	}
}

func collectStreamEvents(t *testing.T, s workflow.Stream) []workflow.Event {
	t.Helper()
	var events []workflow.Event
	for {
		evt, err := s.Next()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		events = append(events, evt)
	}
	return events
}

func TestStream_TextDelta(t *testing.T) {
	t.Parallel()
	chunks := []*genai.GenerateContentResponse{
		textChunk(&genai.Part{Text: "Hello"}),
		textChunk(&genai.Part{Text: " world"}),
	}

	s := gemini.NewStreamFromIter(context.Background(), mockChunks(chunks))
	events := collectStreamEvents(t, s)

	require.Len(t, events, 2)
	assert.Equal(t, workflow.EventTextDelta{Delta: "Hello"}, events[0])
	assert.Equal(t, workflow.EventTextDelta{Delta: " world"}, events[1])
	assert.Equal(t, "Hello world", s.Text())
	assert.Equal(t, workflow.StreamStateComplete, s.State())
}

func TestStream_MultiPartChunk(t *testing.T) {
	t.Parallel()
	chunks := []*genai.GenerateContentResponse{
		textChunk(&genai.Part{Text: "a"}, &genai.Part{Text: "b"}),
	}

	s := gemini.NewStreamFromIter(context.Background(), mockChunks(chunks))
	events := collectStreamEvents(t, s)

	require.Len(t, events, 1)
	assert.Equal(t, workflow.EventTextDelta{Delta: "ab"}, events[0])
}

func TestStream_ThoughtPartsSkipped(t *testing.T) {
	t.Parallel()
	chunks := []*genai.GenerateContentResponse{
		textChunk(&genai.Part{Text: "pondering", Thought: true}),
		textChunk(&genai.Part{Text: "Answer"}),
	}

	s := gemini.NewStreamFromIter(context.Background(), mockChunks(chunks))
	events := collectStreamEvents(t, s)

	require.Len(t, events, 1)
	assert.Equal(t, workflow.EventTextDelta{Delta: "Answer"}, events[0])
	assert.Equal(t, "Answer", s.Text())
}

func TestStream_NilAndEmptyChunksSkipped(t *testing.T) {
	t.Parallel()
	chunks := []*genai.GenerateContentResponse{
		nil,
		{},
		{Candidates: []*genai.Candidate{{}}},
		textChunk(&genai.Part{Text: "ok"}),
	}

	s := gemini.NewStreamFromIter(context.Background(), mockChunks(chunks))
	events := collectStreamEvents(t, s)

	require.Len(t, events, 1)
	assert.Equal(t, workflow.EventTextDelta{Delta: "ok"}, events[0])
}

func TestStream_ContextCancelled(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s := gemini.NewStreamFromIter(ctx, mockChunks([]*genai.GenerateContentResponse{textChunk(&genai.Part{Text: "late"})}))
	_, err := s.Next()
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, workflow.StreamStateError, s.State())
	assert.Empty(t, s.Text())
}

func TestStream_IteratorError(t *testing.T) {
	t.Parallel()
	errIter := func(yield func(*genai.GenerateContentResponse, error) bool) {
		if !yield(textChunk(&genai.Part{Text: "partial"}), nil) {
			return
		}
		yield(nil, assert.AnError)
	}

	s := gemini.NewStreamFromIter(context.Background(), errIter)
	_, err := s.Next()
	require.NoError(t, err)

	_, err = s.Next()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "gemini:")
	assert.ErrorIs(t, err, assert.AnError)
	assert.Equal(t, workflow.StreamStateError, s.State())
	assert.Equal(t, "partial", s.Text())

	// Terminal error is sticky.
	_, again := s.Next()
	assert.Equal(t, err, again)
}

func TestStream_QuotaErrorIsClassified(t *testing.T) {
	t.Parallel()
	errIter := func(yield func(*genai.GenerateContentResponse, error) bool) {
		yield(nil, genai.APIError{Code: 429, Status: "RESOURCE_EXHAUSTED", Message: "quota"})
	}

	s := gemini.NewStreamFromIter(context.Background(), errIter)
	_, err := s.Next()
	assert.ErrorIs(t, err, workflow.ErrQuotaExhausted)
	assert.Equal(t, workflow.ErrorTextQuota, workflow.ErrorText(err))
}

func TestStream_PromptBlocked(t *testing.T) {
	t.Parallel()
	chunks := []*genai.GenerateContentResponse{
		{
			PromptFeedback: &genai.GenerateContentResponsePromptFeedback{
				BlockReason: genai.BlockedReasonSafety,
			},
		},
	}

	s := gemini.NewStreamFromIter(context.Background(), mockChunks(chunks))
	_, err := s.Next()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "prompt blocked: SAFETY")
	assert.Equal(t, workflow.StreamStateError, s.State())
}

func TestStream_State(t *testing.T) {
	t.Parallel()

	chunks := []*genai.GenerateContentResponse{textChunk(&genai.Part{Text: "x"})}
	s := gemini.NewStreamFromIter(context.Background(), mockChunks(chunks))
	assert.Equal(t, workflow.StreamStateNew, s.State())

	_, err := s.Next()
	require.NoError(t, err)
	assert.Equal(t, workflow.StreamStateStreaming, s.State())

	_, err = s.Next()
	assert.Equal(t, io.EOF, err)
	assert.Equal(t, workflow.StreamStateComplete, s.State())

	_, err = s.Next()
	assert.Equal(t, io.EOF, err)
}

func TestStream_CloseBeforeComplete(t *testing.T) {
	t.Parallel()

	chunks := []*genai.GenerateContentResponse{
		textChunk(&genai.Part{Text: "one"}),
		textChunk(&genai.Part{Text: "two"}),
	}
	s := gemini.NewStreamFromIter(context.Background(), mockChunks(chunks))
	_, err := s.Next()
	require.NoError(t, err)

	require.NoError(t, s.Close())
	assert.Equal(t, workflow.StreamStateClosed, s.State())

	_, err = s.Next()
	assert.ErrorIs(t, err, workflow.ErrStreamClosed)
	assert.Equal(t, "one", s.Text())
}

func TestStream_ClosePreservesTerminalState(t *testing.T) {
	t.Parallel()

	s := gemini.NewStreamFromIter(context.Background(), mockChunks(nil))
	_, err := s.Next()
	assert.Equal(t, io.EOF, err)

	require.NoError(t, s.Close())
	assert.Equal(t, workflow.StreamStateComplete, s.State())
}
