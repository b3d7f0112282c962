// Package mock provides test doubles for workflow interfaces using function fields.
package mock

import (
	"context"

	"github.com/fwojciec/workflow"
)

// Interface compliance checks.
var (
	_ workflow.Provider  = (*Provider)(nil)
	_ workflow.Suggester = (*Suggester)(nil)
)

// Provider is a test double for workflow.Provider.
// Set StreamFn before calling Stream.
type Provider struct {
	StreamFn func(ctx context.Context, req workflow.Request) (workflow.Stream, error)
}

// Stream delegates to StreamFn.
func (p *Provider) Stream(ctx context.Context, req workflow.Request) (workflow.Stream, error) {
	return p.StreamFn(ctx, req)
}

// Suggester is a test double for workflow.Suggester.
type Suggester struct {
	SuggestFn func(ctx context.Context, prompt string) (string, error)
}

// Suggest delegates to SuggestFn.
func (s *Suggester) Suggest(ctx context.Context, prompt string) (string, error) {
	return s.SuggestFn(ctx, prompt)
}
