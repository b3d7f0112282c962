package mock

import (
	"context"

	"github.com/fwojciec/workflow"
)

// Interface compliance checks.
var (
	_ workflow.ImageGenerator = (*ImageGenerator)(nil)
	_ workflow.Speaker        = (*Speaker)(nil)
)

// ImageGenerator is a test double for workflow.ImageGenerator.
type ImageGenerator struct {
	GenerateImageFn func(ctx context.Context, prompt string) (*workflow.Image, error)
}

// GenerateImage delegates to GenerateImageFn.
func (g *ImageGenerator) GenerateImage(ctx context.Context, prompt string) (*workflow.Image, error) {
	return g.GenerateImageFn(ctx, prompt)
}

// Speaker is a test double for workflow.Speaker. StopFn is nil-safe.
type Speaker struct {
	SpeakFn func(text string, voice workflow.Gender, onEnd func()) error
	StopFn  func()
}

// Speak delegates to SpeakFn.
func (s *Speaker) Speak(text string, voice workflow.Gender, onEnd func()) error {
	return s.SpeakFn(text, voice, onEnd)
}

// Stop delegates to StopFn.
func (s *Speaker) Stop() {
	if s.StopFn != nil {
		s.StopFn()
	}
}
