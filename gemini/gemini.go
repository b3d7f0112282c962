// Package gemini implements [workflow.Provider], [workflow.Suggester], and
// [workflow.ImageGenerator] for the Google Gemini API.
//
// It wraps the google.golang.org/genai SDK, translating between workflow's
// domain types and the Gemini API types. Streaming uses the SDK's iter.Seq2
// iterator, wrapped into the pull-based [workflow.Stream] interface.
package gemini

const (
	defaultModel      = "gemini-2.5-flash"
	defaultImageModel = "imagen-3.0-generate-002"
	imageMIMEType     = "image/jpeg"
	imageAspectRatio  = "1:1"
)
