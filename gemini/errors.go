package gemini

import (
	"errors"

	"github.com/fwojciec/workflow"
	"google.golang.org/genai"
)

// convertError maps SDK API errors to [workflow.APIError] so callers can
// classify them without importing genai. Other errors pass through.
func convertError(err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return &workflow.APIError{Code: apiErr.Code, Status: apiErr.Status, Message: apiErr.Message}
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) && apiErrPtr != nil {
		return &workflow.APIError{Code: apiErrPtr.Code, Status: apiErrPtr.Status, Message: apiErrPtr.Message}
	}
	return err
}
