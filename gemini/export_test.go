package gemini

import (
	"context"
	"iter"

	"github.com/fwojciec/workflow"
	"google.golang.org/genai"
)

// NewStreamFromIter exposes newStream for testing.
func NewStreamFromIter(ctx context.Context, it iter.Seq2[*genai.GenerateContentResponse, error]) workflow.Stream {
	return newStream(ctx, it)
}

// ConvertError exposes convertError for testing.
func ConvertError(err error) error {
	return convertError(err)
}

// BuildConfig exposes buildConfig for testing.
func BuildConfig(req workflow.Request) *genai.GenerateContentConfig {
	return buildConfig(req)
}
