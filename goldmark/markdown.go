// Package goldmark converts markdown written by the model into the HTML
// stored in item descriptions, using goldmark with raw HTML disabled.
package goldmark

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

var converter = goldmark.New(
	goldmark.WithExtensions(extension.Strikethrough, extension.Linkify),
	goldmark.WithRendererOptions(html.WithXHTML()),
)

// HTML renders markdown source to an HTML fragment. Raw HTML in the source
// is omitted from the output.
func HTML(source string) (string, error) {
	if strings.TrimSpace(source) == "" {
		return "", nil
	}
	var buf bytes.Buffer
	if err := converter.Convert([]byte(source), &buf); err != nil {
		return "", fmt.Errorf("goldmark: %w", err)
	}
	return strings.TrimSpace(buf.String()), nil
}
