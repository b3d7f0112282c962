package http_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"testing"

	"github.com/fwojciec/workflow"
	"github.com/fwojciec/workflow/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sseEvent struct {
	Name string
	Data map[string]string
}

func parseSSE(t *testing.T, body string) []sseEvent {
	t.Helper()
	var events []sseEvent
	for _, frame := range strings.Split(strings.TrimSpace(body), "\n\n") {
		var evt sseEvent
		for _, line := range strings.Split(frame, "\n") {
			switch {
			case strings.HasPrefix(line, "event: "):
				evt.Name = strings.TrimPrefix(line, "event: ")
			case strings.HasPrefix(line, "data: "):
				require.NoError(t, json.Unmarshal([]byte(strings.TrimPrefix(line, "data: ")), &evt.Data))
			}
		}
		events = append(events, evt)
	}
	return events
}

func chunkProvider(captured *workflow.Request, chunks ...string) *mock.Provider {
	return &mock.Provider{StreamFn: func(_ context.Context, req workflow.Request) (workflow.Stream, error) {
		if captured != nil {
			*captured = req
		}
		return mock.TextStream(nil, chunks...), nil
	}}
}

func TestSend_StreamsRenderEvents(t *testing.T) {
	t.Parallel()

	var req workflow.Request
	f := newFixture(t, chunkProvider(&req, "Run:\n```sh\ngit init", "\n```\nDone **now**."), nil)

	rec := f.do(t, http.MethodPost, "/chat/workflow-2/messages", url.Values{"text": {"How do I start?"}})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/event-stream", rec.Header().Get("Content-Type"))

	events := parseSSE(t, rec.Body.String())
	require.Len(t, events, 3)
	assert.Equal(t, "render", events[0].Name)
	assert.Equal(t, "<p>Run: ```sh git init</p>", events[0].Data["html"])
	assert.Equal(t, "render", events[1].Name)
	assert.Equal(t,
		"<p>Run:</p>\n<pre><code class=\"language-sh\">git init</code></pre>\n<p>Done <strong>now</strong>.</p>",
		events[1].Data["html"])
	assert.Equal(t, "done", events[2].Name)
	assert.Equal(t, events[1].Data["html"], events[2].Data["html"])

	assert.Equal(t, "How do I start?", req.Prompt)
	assert.Contains(t, req.SystemPrompt, `"Version Control Setup"`)

	h, err := f.histories.Load(context.Background(), "workflow-2")
	require.NoError(t, err)
	require.Len(t, h.Messages, 2)
	assert.Equal(t, workflow.ModelMessage("Run:\n```sh\ngit init\n```\nDone **now**."), h.Messages[1])
}

func TestSend_EscapesModelMarkup(t *testing.T) {
	t.Parallel()

	f := newFixture(t, chunkProvider(nil, `<img src=x onerror=alert(1)> *hi*`), nil)
	rec := f.do(t, http.MethodPost, "/chat/agent-Lyra/messages", url.Values{"text": {"hey"}})
	require.Equal(t, http.StatusOK, rec.Code)

	events := parseSSE(t, rec.Body.String())
	require.NotEmpty(t, events)
	assert.Equal(t, "<p>&lt;img src=x onerror=alert(1)&gt; <em>hi</em></p>", events[0].Data["html"])
}

func TestSend_UsesAgentPrompt(t *testing.T) {
	t.Parallel()

	var req workflow.Request
	f := newFixture(t, chunkProvider(&req, "hi"), nil)
	rec := f.do(t, http.MethodPost, "/chat/agent-Lyra/messages", url.Values{"text": {"hello"}})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "You are Lyra.", req.SystemPrompt)
}

func TestSend_ErrorTextReplacesReply(t *testing.T) {
	t.Parallel()

	provider := &mock.Provider{StreamFn: func(context.Context, workflow.Request) (workflow.Stream, error) {
		return nil, workflow.ErrMissingCredential
	}}
	f := newFixture(t, provider, nil)
	rec := f.do(t, http.MethodPost, "/chat/agent-Lyra/messages", url.Values{"text": {"hello"}})
	require.Equal(t, http.StatusOK, rec.Code)

	events := parseSSE(t, rec.Body.String())
	require.Len(t, events, 2)
	assert.Contains(t, events[0].Data["html"], "The Gemini API key is missing.")
	assert.Equal(t, "done", events[1].Name)
}

func TestSend_Rejects(t *testing.T) {
	t.Parallel()

	f := newFixture(t, nil, nil)

	rec := f.do(t, http.MethodPost, "/chat/agent-Lyra/messages", url.Values{"text": {"  "}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = f.do(t, http.MethodPost, "/chat/agent-Nobody/messages", url.Values{"text": {"hi"}})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = f.do(t, http.MethodPost, "/chat/workflow-99/messages", url.Values{"text": {"hi"}})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = f.do(t, http.MethodPost, "/chat/other/messages", url.Values{"text": {"hi"}})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestItemChat(t *testing.T) {
	t.Parallel()

	var req workflow.Request
	f := newFixture(t, chunkProvider(&req, "Here is a **plan**."), nil)

	page := f.do(t, http.MethodGet, "/items/1/chat", nil)
	require.Equal(t, http.StatusOK, page.Code)
	assert.Contains(t, page.Body.String(), `data-start="/items/1/chat/start"`)

	rec := f.do(t, http.MethodPost, "/items/1/chat/start", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	events := parseSSE(t, rec.Body.String())
	require.Len(t, events, 2)
	assert.Equal(t, "<p>Here is a <strong>plan</strong>.</p>", events[0].Data["html"])
	assert.Contains(t, req.Prompt, `I'm looking at the topic "Requirement Definition & Scope Freezing: Start with a clear understanding`)

	// A second start does not generate again.
	rec = f.do(t, http.MethodPost, "/items/1/chat/start", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	events = parseSSE(t, rec.Body.String())
	require.Len(t, events, 1)
	assert.Equal(t, "done", events[0].Name)

	page = f.do(t, http.MethodGet, "/items/1/chat", nil)
	body := page.Body.String()
	assert.NotContains(t, body, `/items/1/chat/start`)
	assert.Contains(t, body, "Here is a <strong>plan</strong>.")
}

func TestAgentChatPage(t *testing.T) {
	t.Parallel()

	f := newFixture(t, nil, nil)
	require.NoError(t, f.histories.SaveHistory(context.Background(), "agent-Lyra", []workflow.Message{
		workflow.UserMessage("<b>hi</b>"),
		workflow.ModelMessage("> calm"),
	}))

	rec := f.do(t, http.MethodGet, "/agents/Lyra/chat", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "&lt;b&gt;hi&lt;/b&gt;")
	assert.Contains(t, body, "<blockquote>calm</blockquote>")

	rec = f.do(t, http.MethodGet, "/agents/Nobody/chat", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestClearChat(t *testing.T) {
	t.Parallel()

	f := newFixture(t, nil, nil)
	ctx := context.Background()
	require.NoError(t, f.histories.SaveHistory(ctx, "workflow-3", []workflow.Message{workflow.UserMessage("x")}))

	rec := f.do(t, http.MethodDelete, "/chat/workflow-3", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	msgs, err := f.histories.LoadHistory(ctx, "workflow-3")
	require.NoError(t, err)
	assert.Empty(t, msgs)

	rec = f.do(t, http.MethodDelete, "/chat/bogus", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
