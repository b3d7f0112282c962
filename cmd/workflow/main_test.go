package main

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fwojciec/workflow"
	wfjson "github.com/fwojciec/workflow/json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testEnv isolates config and data directories under a temp dir.
func testEnv(t *testing.T) map[string]string {
	t.Helper()
	dir := t.TempDir()
	return map[string]string{
		"HOME":            dir,
		"XDG_CONFIG_HOME": filepath.Join(dir, "config"),
		"XDG_DATA_HOME":   filepath.Join(dir, "data"),
	}
}

func execute(t *testing.T, env map[string]string, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd(mapEnv(env))
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestRender(t *testing.T) {
	t.Parallel()

	t.Run("html from stdin", func(t *testing.T) {
		t.Parallel()
		out, err := execute(t, testEnv(t), "Hello **world**\n\n> quoted", "render")
		require.NoError(t, err)
		assert.Equal(t, "<p>Hello <strong>world</strong></p>\n<blockquote>quoted</blockquote>\n", out)
	})

	t.Run("json from file", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(t.TempDir(), "reply.md")
		require.NoError(t, os.WriteFile(path, []byte("```go\nx := 1\n```"), 0o600))

		out, err := execute(t, testEnv(t), "", "render", path, "--format", "json")
		require.NoError(t, err)
		assert.JSONEq(t, `[{"type":"code","code":"x := 1","lang":"go"}]`, out)
	})

	t.Run("terminal", func(t *testing.T) {
		t.Parallel()
		out, err := execute(t, testEnv(t), "- a\n- b", "render", "-f", "terminal")
		require.NoError(t, err)
		assert.Contains(t, out, "• a")
	})

	t.Run("unknown format", func(t *testing.T) {
		t.Parallel()
		_, err := execute(t, testEnv(t), "x", "render", "--format", "pdf")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unknown format")
	})

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()
		_, err := execute(t, testEnv(t), "", "render", filepath.Join(t.TempDir(), "nope.md"))
		require.Error(t, err)
	})
}

func TestItems(t *testing.T) {
	t.Parallel()

	out, err := execute(t, testEnv(t), "", "items")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, len(workflow.DefaultItems())+1)
	assert.Contains(t, lines[0], "TITLE")
	assert.Contains(t, lines[2], "Version Control Setup")
	assert.Contains(t, lines[2], "never")
}

func TestItems_Bookmarked(t *testing.T) {
	t.Parallel()

	out, err := execute(t, testEnv(t), "", "items", "--bookmarked")
	require.NoError(t, err)
	assert.Equal(t, 1, len(strings.Split(strings.TrimSpace(out), "\n")))
}

func TestHistory(t *testing.T) {
	t.Parallel()

	env := testEnv(t)
	dir := t.TempDir()
	in := filepath.Join(dir, "in.json")
	require.NoError(t, wfjson.Save(in, workflow.History{
		Key: "agent-Lyra",
		Messages: []workflow.Message{
			workflow.UserMessage("hi"),
			workflow.ModelMessage("hello"),
		},
	}))

	out, err := execute(t, env, "", "history", "import", in)
	require.NoError(t, err)
	assert.Equal(t, "imported agent-Lyra (2 messages)\n", out)

	out, err = execute(t, env, "", "history", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "agent-Lyra")

	out, err = execute(t, env, "", "history", "export", "agent-Lyra")
	require.NoError(t, err)
	h, err := wfjson.UnmarshalHistory([]byte(out))
	require.NoError(t, err)
	assert.Equal(t, "agent-Lyra", h.Key)
	assert.Len(t, h.Messages, 2)

	exported := filepath.Join(dir, "out", "lyra.json")
	_, err = execute(t, env, "", "history", "export", "agent-Lyra", "-o", exported)
	require.NoError(t, err)
	fromFile, err := wfjson.Load(exported)
	require.NoError(t, err)
	assert.Equal(t, h.Messages, fromFile.Messages)

	_, err = execute(t, env, "", "history", "clear", "agent-Lyra")
	require.NoError(t, err)

	out, err = execute(t, env, "", "history", "export", "agent-Lyra")
	require.NoError(t, err)
	h, err = wfjson.UnmarshalHistory([]byte(out))
	require.NoError(t, err)
	assert.Empty(t, h.Messages)
}

func TestHistory_ImportRequiresKey(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "h.json")
	require.NoError(t, wfjson.Save(path, workflow.History{}))

	_, err := execute(t, testEnv(t), "", "history", "import", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no key")
}

func TestChat_RequiresOneTarget(t *testing.T) {
	t.Parallel()

	_, err := execute(t, testEnv(t), "", "chat")
	require.Error(t, err)

	_, err = execute(t, testEnv(t), "", "chat", "--item", "1", "--agent", "Lyra")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exactly one")
}

func TestRoot_BadLogLevel(t *testing.T) {
	t.Parallel()

	_, err := execute(t, testEnv(t), "x", "render", "--log-level", "loud")
	require.Error(t, err)
}
