package mock

import (
	"io"
	"strings"

	"github.com/fwojciec/workflow"
)

// Interface compliance check.
var _ workflow.Stream = (*Stream)(nil)

// Stream is a test double for workflow.Stream.
// Set the function fields for the methods you need. NextFn panics when nil
// to catch missing setup. CloseFn, StateFn, and TextFn are nil-safe because
// test code commonly calls defer stream.Close() and these methods rarely
// need custom behavior.
type Stream struct {
	NextFn  func() (workflow.Event, error)
	StateFn func() workflow.StreamState
	TextFn  func() string
	CloseFn func() error
}

// Next delegates to NextFn.
func (s *Stream) Next() (workflow.Event, error) {
	return s.NextFn()
}

// State delegates to StateFn. Returns StreamStateNew when StateFn is nil.
func (s *Stream) State() workflow.StreamState {
	if s.StateFn == nil {
		return workflow.StreamStateNew
	}
	return s.StateFn()
}

// Text delegates to TextFn. Returns "" when TextFn is nil.
func (s *Stream) Text() string {
	if s.TextFn == nil {
		return ""
	}
	return s.TextFn()
}

// Close delegates to CloseFn. Returns nil when CloseFn is not set.
func (s *Stream) Close() error {
	if s.CloseFn == nil {
		return nil
	}
	return s.CloseFn()
}

// TextStream returns a Stream that yields each chunk as an EventTextDelta,
// then returns err, or io.EOF when err is nil.
func TextStream(err error, chunks ...string) *Stream {
	var (
		i     int
		b     strings.Builder
		state = workflow.StreamStateNew
	)
	return &Stream{
		NextFn: func() (workflow.Event, error) {
			if i < len(chunks) {
				b.WriteString(chunks[i])
				i++
				state = workflow.StreamStateStreaming
				return workflow.EventTextDelta{Delta: chunks[i-1]}, nil
			}
			if err != nil {
				state = workflow.StreamStateError
				return nil, err
			}
			state = workflow.StreamStateComplete
			return nil, io.EOF
		},
		StateFn: func() workflow.StreamState { return state },
		TextFn:  b.String,
	}
}
