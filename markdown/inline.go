package markdown

import (
	"regexp"

	"github.com/yuin/goldmark/util"
)

var (
	strong   = regexp.MustCompile(`\*\*(.*?)\*\*`)
	emphasis = regexp.MustCompile(`\*(.*?)\*`)
)

// FormatInline escapes HTML-significant characters (& < > ") and then
// applies bold and italic, in that order. Apostrophes pass through. Unmatched
// asterisks stay literal.
func FormatInline(s string) string {
	s = string(util.EscapeHTML([]byte(s)))
	s = strong.ReplaceAllString(s, "<strong>${1}</strong>")
	return emphasis.ReplaceAllString(s, "<em>${1}</em>")
}
