package gemini

import (
	"context"
	"fmt"
	"io"
	"iter"
	"strings"

	"github.com/fwojciec/workflow"
	"google.golang.org/genai"
)

// stream implements [workflow.Stream] by wrapping the genai SDK's streaming
// iterator. Each chunk with text becomes one EventTextDelta; chunks without
// text are skipped.
type stream struct {
	ctx   context.Context
	pull  func() (*genai.GenerateContentResponse, error, bool)
	stop  func()
	state workflow.StreamState
	text  strings.Builder
	err   error
}

// Interface compliance check.
var _ workflow.Stream = (*stream)(nil)

func newStream(ctx context.Context, iterFn iter.Seq2[*genai.GenerateContentResponse, error]) *stream {
	next, stop := iter.Pull2(iterFn)
	return &stream{
		ctx:   ctx,
		pull:  next,
		stop:  stop,
		state: workflow.StreamStateNew,
	}
}

func (s *stream) Next() (workflow.Event, error) {
	switch s.state {
	case workflow.StreamStateComplete:
		return nil, io.EOF
	case workflow.StreamStateError:
		return nil, s.err
	case workflow.StreamStateClosed:
		return nil, fmt.Errorf("gemini: %w", workflow.ErrStreamClosed)
	}
	for {
		if err := s.ctx.Err(); err != nil {
			return nil, s.fail(err)
		}
		resp, err, ok := s.pull()
		if !ok {
			s.state = workflow.StreamStateComplete
			return nil, io.EOF
		}
		if err != nil {
			if ctxErr := s.ctx.Err(); ctxErr != nil {
				return nil, s.fail(ctxErr)
			}
			return nil, s.fail(convertError(err))
		}
		if blocked := blockReason(resp); blocked != "" {
			return nil, s.fail(fmt.Errorf("prompt blocked: %s", blocked))
		}
		delta := responseText(resp)
		if delta == "" {
			continue
		}
		s.text.WriteString(delta)
		s.state = workflow.StreamStateStreaming
		return workflow.EventTextDelta{Delta: delta}, nil
	}
}

func (s *stream) fail(err error) error {
	s.state = workflow.StreamStateError
	s.err = fmt.Errorf("gemini: %w", err)
	return s.err
}

func (s *stream) State() workflow.StreamState {
	return s.state
}

func (s *stream) Text() string {
	return s.text.String()
}

func (s *stream) Close() error {
	if s.state != workflow.StreamStateComplete && s.state != workflow.StreamStateError {
		s.state = workflow.StreamStateClosed
	}
	s.stop()
	return nil
}
