package workflow

import (
	"errors"
	"fmt"
)

// Sentinel errors for common failure modes.
var (
	// ErrValidation indicates a request, item, or message failed validation.
	ErrValidation = errors.New("validation error")

	// ErrNotFound indicates a key, item, or agent does not exist.
	ErrNotFound = errors.New("not found")

	// ErrStreamClosed indicates an operation on a closed stream.
	ErrStreamClosed = errors.New("stream closed")

	// ErrMissingCredential indicates the model API key was not configured.
	ErrMissingCredential = errors.New("API key not set")

	// ErrQuotaExhausted indicates the upstream API rejected the call for quota.
	ErrQuotaExhausted = errors.New("quota exhausted")
)

// APIError is a structured error reported by the upstream model API.
type APIError struct {
	Code    int    // HTTP status code, 0 if unknown
	Status  string // e.g. "RESOURCE_EXHAUSTED"
	Message string
}

func (e *APIError) Error() string {
	if e.Status != "" {
		return fmt.Sprintf("api error %d %s: %s", e.Code, e.Status, e.Message)
	}
	return fmt.Sprintf("api error %d: %s", e.Code, e.Message)
}

// Is reports quota errors as ErrQuotaExhausted.
func (e *APIError) Is(target error) bool {
	return target == ErrQuotaExhausted && (e.Code == 429 || e.Status == "RESOURCE_EXHAUSTED")
}

// User-facing error texts.
const (
	ErrorTextDefault           = "Sorry, an unexpected error occurred. Please check the logs and try again."
	ErrorTextMissingCredential = "The Gemini API key is missing. Please ensure the API_KEY environment variable is set."
	ErrorTextQuota             = "You've exceeded your current API quota. Please check your plan and billing details. For more information, please visit: https://ai.google.dev/gemini-api/docs/rate-limits"
)

// ErrorText converts an upstream failure into the single message shown to
// the user in place of a model reply.
func ErrorText(err error) string {
	if err == nil {
		return ErrorTextDefault
	}
	if errors.Is(err, ErrMissingCredential) {
		return ErrorTextMissingCredential
	}
	if errors.Is(err, ErrQuotaExhausted) {
		return ErrorTextQuota
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return "An API error occurred: " + apiErr.Message
	}
	if msg := err.Error(); msg != "" {
		return "An error occurred: " + msg
	}
	return ErrorTextDefault
}
