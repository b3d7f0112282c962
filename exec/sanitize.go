package exec

import (
	"strings"

	"github.com/charmbracelet/x/ansi"
)

// maxErrLines bounds how much command stderr ends up in an error.
const maxErrLines = 5

// sanitize strips ANSI escape codes and control characters from command
// output, keeping tabs and newlines. CRLF is normalized to LF.
func sanitize(s string) string {
	s = ansi.Strip(s)
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.Map(func(r rune) rune {
		if r == '\t' || r == '\n' || r > 0x1F {
			return r
		}
		return -1
	}, s)
}

// tailLines returns the last n non-empty lines of s joined by "; ".
func tailLines(s string, n int) string {
	var lines []string
	for _, l := range strings.Split(s, "\n") {
		if l = strings.TrimSpace(l); l != "" {
			lines = append(lines, l)
		}
	}
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return strings.Join(lines, "; ")
}
