package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/fwojciec/workflow"
	"github.com/fwojciec/workflow/htmltext"
)

type chatPage struct {
	Title    string
	Key      string
	StartURL string
	Messages []messageView
}

type agentView struct {
	workflow.Agent
	LastChat string
}

type agentsPage struct {
	Title  string
	Agents []agentView
}

func (s *Server) handleItemChat(w http.ResponseWriter, r *http.Request) {
	id, ok := itemID(w, r)
	if !ok {
		return
	}
	it, err := s.cfg.Items.Get(r.Context(), id)
	if err != nil {
		s.fail(w, err)
		return
	}
	conv := workflow.WorkflowConversation(it)
	msgs, err := s.cfg.Runner.History(r.Context(), conv.Key)
	if err != nil {
		s.fail(w, err)
		return
	}
	page := chatPage{Title: it.Title, Key: conv.Key, Messages: s.messageViews(msgs)}
	if len(msgs) == 0 {
		page.StartURL = fmt.Sprintf("/items/%d/chat/start", id)
	}
	s.renderPage(w, "chat", page)
}

// handleItemChatStart streams the seeded first turn of an item chat. When
// the chat already has history nothing is generated.
func (s *Server) handleItemChatStart(w http.ResponseWriter, r *http.Request) {
	id, ok := itemID(w, r)
	if !ok {
		return
	}
	it, err := s.cfg.Items.Get(r.Context(), id)
	if err != nil {
		s.fail(w, err)
		return
	}
	conv := workflow.WorkflowConversation(it)
	seed := workflow.InitialMessage(it.Title, htmltext.MustText(it.Description))
	s.streamTurn(w, r, conv, func(ctx context.Context, onUpdate func(string, []workflow.Node)) ([]workflow.Message, error) {
		return s.cfg.Runner.Start(ctx, conv, seed, onUpdate)
	})
}

func (s *Server) handleAgents(w http.ResponseWriter, r *http.Request) {
	agents, err := s.agents(r.Context())
	if err != nil {
		s.fail(w, err)
		return
	}
	page := agentsPage{Title: "Agents"}
	for _, a := range agents {
		v := agentView{Agent: a}
		h, err := s.cfg.Histories.Load(r.Context(), workflow.AgentChatKey(a.Name))
		if err == nil && len(h.Messages) > 0 && !h.UpdatedAt.IsZero() {
			v.LastChat = humanize.Time(h.UpdatedAt)
		}
		page.Agents = append(page.Agents, v)
	}
	s.renderPage(w, "agents", page)
}

func (s *Server) handleAgentChat(w http.ResponseWriter, r *http.Request) {
	a, err := s.agent(r.Context(), r.PathValue("name"))
	if err != nil {
		s.fail(w, err)
		return
	}
	conv := a.Conversation()
	msgs, err := s.cfg.Runner.History(r.Context(), conv.Key)
	if err != nil {
		s.fail(w, err)
		return
	}
	s.renderPage(w, "chat", chatPage{
		Title:    a.Name + " · " + a.Role,
		Key:      conv.Key,
		Messages: s.messageViews(msgs),
	})
}

func (s *Server) handleSend(w http.ResponseWriter, r *http.Request) {
	conv, err := s.conversation(r.Context(), r.PathValue("key"))
	if err != nil {
		s.fail(w, err)
		return
	}
	text := strings.TrimSpace(r.FormValue("text"))
	if text == "" {
		writeError(w, http.StatusBadRequest, "message must not be empty")
		return
	}
	s.streamTurn(w, r, conv, func(ctx context.Context, onUpdate func(string, []workflow.Node)) ([]workflow.Message, error) {
		return s.cfg.Runner.Send(ctx, conv, text, onUpdate)
	})
}

func (s *Server) handleClearChat(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("key")
	if _, err := s.conversation(r.Context(), key); err != nil {
		s.fail(w, err)
		return
	}
	if s.cfg.Runner.Busy(key) {
		writeError(w, http.StatusConflict, "a reply is still being generated")
		return
	}
	if err := s.cfg.Histories.ClearHistory(r.Context(), key); err != nil {
		s.fail(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type turnFunc func(ctx context.Context, onUpdate func(string, []workflow.Node)) ([]workflow.Message, error)

// streamTurn runs a chat turn and writes one "render" event per update and
// a final "done" event. A client disconnect cancels the turn.
func (s *Server) streamTurn(w http.ResponseWriter, r *http.Request, conv workflow.Conversation, run turnFunc) {
	if s.cfg.Runner.Busy(conv.Key) {
		writeError(w, http.StatusConflict, "a reply is still being generated")
		return
	}
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "streaming not supported")
		return
	}

	started := false
	start := func() {
		if !started {
			setSSEHeaders(w)
			w.WriteHeader(http.StatusOK)
			started = true
		}
	}
	var last string
	_, err := run(r.Context(), func(_ string, nodes []workflow.Node) {
		start()
		last = s.replyHTML(nodes)
		if err := writeSSEEvent(w, "render", map[string]string{"html": last}); err != nil {
			s.logger.Debug("write render event", "key", conv.Key, "error", err)
			return
		}
		flusher.Flush()
	})
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return
		}
		if !started {
			if errors.Is(err, workflow.ErrValidation) {
				writeError(w, http.StatusConflict, err.Error())
				return
			}
			s.fail(w, err)
			return
		}
		s.logger.Error("chat turn", "key", conv.Key, "error", err)
	}
	start()
	_ = writeSSEEvent(w, "done", map[string]string{"html": last})
	flusher.Flush()
}

// conversation resolves a history key to its chat framing.
func (s *Server) conversation(ctx context.Context, key string) (workflow.Conversation, error) {
	switch {
	case strings.HasPrefix(key, "workflow-"):
		id, err := strconv.Atoi(strings.TrimPrefix(key, "workflow-"))
		if err != nil {
			return workflow.Conversation{}, fmt.Errorf("chat %q: %w", key, workflow.ErrNotFound)
		}
		it, err := s.cfg.Items.Get(ctx, id)
		if err != nil {
			return workflow.Conversation{}, err
		}
		return workflow.WorkflowConversation(it), nil
	case strings.HasPrefix(key, "agent-"):
		a, err := s.agent(ctx, strings.TrimPrefix(key, "agent-"))
		if err != nil {
			return workflow.Conversation{}, err
		}
		return a.Conversation(), nil
	default:
		return workflow.Conversation{}, fmt.Errorf("chat %q: %w", key, workflow.ErrNotFound)
	}
}

func (s *Server) agents(ctx context.Context) ([]workflow.Agent, error) {
	if s.cfg.Agents == nil {
		return nil, nil
	}
	return s.cfg.Agents.Agents(ctx)
}

func (s *Server) agent(ctx context.Context, name string) (workflow.Agent, error) {
	agents, err := s.agents(ctx)
	if err != nil {
		return workflow.Agent{}, err
	}
	for _, a := range agents {
		if a.Name == name {
			return a, nil
		}
	}
	return workflow.Agent{}, fmt.Errorf("agent %q: %w", name, workflow.ErrNotFound)
}
