package htmltext_test

import (
	"testing"

	"github.com/fwojciec/workflow/htmltext"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestText(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "empty", in: "", want: ""},
		{name: "plain", in: "Initialize a repository.", want: "Initialize a repository."},
		{name: "inline markup", in: "Use <strong>git</strong> and <em>npm</em>.", want: "Use git and npm."},
		{name: "paragraphs", in: "<p>One.</p><p>Two.</p>", want: "One. Two."},
		{name: "line breaks", in: "a<br>b", want: "a b"},
		{name: "list", in: "<ul><li>x</li><li>y</li></ul>", want: "x y"},
		{name: "entities", in: "Tom &amp; Jerry &lt;3", want: "Tom & Jerry <3"},
		{name: "whitespace collapsed", in: "<p>  lots\n\n of   space </p>", want: "lots of space"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := htmltext.Text(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMustText(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Hello world", htmltext.MustText("<p>Hello <b>world</b></p>"))
}
