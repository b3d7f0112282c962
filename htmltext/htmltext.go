// Package htmltext extracts readable plain text from the HTML descriptions
// produced by the rich text editor.
package htmltext

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// blocks are elements whose boundaries separate words.
const blocks = "p, div, br, li, ul, ol, blockquote, pre, h1, h2, h3, h4, h5, h6, tr, td, th"

// Text returns the text content of an HTML fragment with block boundaries
// turned into spaces and runs of whitespace collapsed.
func Text(html string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", fmt.Errorf("htmltext: could not parse: %w", err)
	}
	doc.Find(blocks).Each(func(_ int, s *goquery.Selection) {
		s.AfterHtml(" ")
	})
	return strings.Join(strings.Fields(doc.Text()), " "), nil
}

// MustText is like Text but returns the input unchanged when it cannot be
// parsed.
func MustText(html string) string {
	text, err := Text(html)
	if err != nil {
		return html
	}
	return text
}
