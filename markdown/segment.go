package markdown

import (
	"regexp"
	"strings"

	"github.com/fwojciec/workflow"
)

var (
	// fenceSpan pairs triple backticks left to right.
	fenceSpan = regexp.MustCompile("(?s)```.*?```")
	// fenceBody matches a paired span that is a fenced block. The info
	// string must sit on the opening line.
	fenceBody = regexp.MustCompile("(?s)^```([^`\n]*)\n(.*)```$")
)

// Segment splits raw into alternating text and code segments in source
// order. Fences pair up in order of appearance; a pair with no newline after
// the opening fence stays in the surrounding text. Empty spans and fences
// with blank content produce no segment. An unterminated fence is left
// inside the surrounding text segment.
func Segment(raw string) []workflow.Segment {
	var segs []workflow.Segment
	last := 0
	for _, span := range fenceSpan.FindAllStringIndex(raw, -1) {
		m := fenceBody.FindStringSubmatch(raw[span[0]:span[1]])
		if m == nil {
			continue
		}
		if span[0] > last {
			segs = append(segs, workflow.TextSegment{Content: raw[last:span[0]]})
		}
		if code := strings.TrimSpace(m[2]); code != "" {
			segs = append(segs, workflow.CodeSegment{
				Content: code,
				Lang:    strings.TrimSpace(m[1]),
			})
		}
		last = span[1]
	}
	if last < len(raw) {
		segs = append(segs, workflow.TextSegment{Content: raw[last:]})
	}
	return segs
}
