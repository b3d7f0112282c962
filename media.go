package workflow

import (
	"context"
	"encoding/base64"
)

// Image is a generated picture.
type Image struct {
	Data     []byte
	MIMEType string
}

// DataURL encodes the image as a base64 data URL.
func (img Image) DataURL() string {
	return "data:" + img.MIMEType + ";base64," + base64.StdEncoding.EncodeToString(img.Data)
}

// ImageGenerator produces one image for a text prompt.
type ImageGenerator interface {
	GenerateImage(ctx context.Context, prompt string) (*Image, error)
}

// Speaker reads text aloud. At most one utterance plays at a time: Speak
// cancels whatever is playing before starting. onEnd fires exactly once when
// the utterance finishes, fails, or is cancelled.
type Speaker interface {
	Speak(text string, voice Gender, onEnd func()) error
	Stop()
}
