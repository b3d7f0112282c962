// Package http serves the browser interface: the task list, item edits,
// AI suggestions and portraits, read aloud, and streamed chats.
//
// Chat replies are pushed as Server-Sent Events. Every event carries the
// HTML of the whole reply so far; the page replaces what it shows.
package http

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"math/rand/v2"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/fwojciec/workflow"
	"github.com/fwojciec/workflow/chat"
	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/time/rate"
)

// ItemService is the item state the server reads and edits.
type ItemService interface {
	LoadItems(ctx context.Context) ([]workflow.Item, error)
	Get(ctx context.Context, id int) (workflow.Item, error)
	SetStatus(ctx context.Context, id int, status workflow.Status) (workflow.Item, error)
	SetDescription(ctx context.Context, id int, html string) (workflow.Item, error)
	ToggleBookmark(ctx context.Context, id int) (workflow.Item, error)
	Refine(ctx context.Context, id int, title, description string) (workflow.Item, error)
	SetImage(ctx context.Context, id int, url string, g workflow.Gender) (workflow.Item, error)
}

// HistoryService reads full history records and clears them.
type HistoryService interface {
	Load(ctx context.Context, key string) (workflow.History, error)
	ClearHistory(ctx context.Context, key string) error
}

// Config holds the dependencies of a [Server].
type Config struct {
	Items     ItemService
	Histories HistoryService
	Runner    *chat.Runner
	Agents    workflow.AgentSource
	Suggester workflow.Suggester
	Images    workflow.ImageGenerator
	Speaker   workflow.Speaker
	Logger    *slog.Logger

	// RateLimit is the sustained rate of AI-backed requests per second.
	// Zero disables limiting.
	RateLimit float64
	Burst     int

	// PickGender chooses the portrait gender. Default is a coin flip.
	PickGender func() workflow.Gender
}

// Server is the web front end. It owns the read-aloud state: the item
// currently being spoken, if any.
type Server struct {
	cfg     Config
	logger  *slog.Logger
	limiter *rate.Limiter
	pages   map[string]*template.Template
	mux     *http.ServeMux
	handler http.Handler
	server  *http.Server

	descriptionPolicy *bluemonday.Policy
	replyPolicy       *bluemonday.Policy

	mu           sync.Mutex
	speakingItem int // 0 when nothing is being read
}

// New creates a Server and registers its routes.
func New(cfg Config) (*Server, error) {
	if cfg.Items == nil || cfg.Histories == nil || cfg.Runner == nil {
		return nil, fmt.Errorf("http: items, histories and runner are required: %w", workflow.ErrValidation)
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.PickGender == nil {
		cfg.PickGender = randomGender
	}
	pages, err := parsePages()
	if err != nil {
		return nil, err
	}
	s := &Server{
		cfg:               cfg,
		logger:            cfg.Logger,
		pages:             pages,
		mux:               http.NewServeMux(),
		descriptionPolicy: bluemonday.UGCPolicy(),
		replyPolicy:       newReplyPolicy(),
	}
	if cfg.RateLimit > 0 {
		burst := cfg.Burst
		if burst < 1 {
			burst = 1
		}
		s.limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), burst)
	}
	s.routes()
	s.handler = chain(s.recoverer, s.requestLogger)(s.mux)
	return s, nil
}

func (s *Server) routes() {
	s.mux.HandleFunc("GET /{$}", s.handleIndex)
	s.mux.HandleFunc("GET /healthz", s.handleHealth)

	s.mux.HandleFunc("POST /items/{id}/status", s.handleStatus)
	s.mux.HandleFunc("POST /items/{id}/bookmark", s.handleBookmark)
	s.mux.HandleFunc("POST /items/{id}/description", s.handleDescription)
	s.mux.HandleFunc("POST /items/{id}/refine", s.handleRefine)
	s.mux.HandleFunc("POST /items/{id}/suggest/{field}", s.limit(s.handleSuggest))
	s.mux.HandleFunc("POST /items/{id}/image", s.limit(s.handleImage))
	s.mux.HandleFunc("POST /items/{id}/speak", s.handleSpeak)

	s.mux.HandleFunc("GET /items/{id}/chat", s.handleItemChat)
	s.mux.HandleFunc("POST /items/{id}/chat/start", s.limit(s.handleItemChatStart))
	s.mux.HandleFunc("GET /agents", s.handleAgents)
	s.mux.HandleFunc("GET /agents/{name}/chat", s.handleAgentChat)
	s.mux.HandleFunc("POST /chat/{key}/messages", s.limit(s.handleSend))
	s.mux.HandleFunc("DELETE /chat/{key}", s.handleClearChat)
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

// ListenAndServe serves on addr until Shutdown is called.
func (s *Server) ListenAndServe(addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("http: listen: %w", err)
	}
	return s.Serve(ln)
}

// Serve accepts connections on ln until Shutdown is called.
func (s *Server) Serve(ln net.Listener) error {
	s.mu.Lock()
	s.server = &http.Server{
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	srv := s.server
	s.mu.Unlock()

	s.logger.Info("serving", "addr", ln.Addr().String())
	if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http: serve: %w", err)
	}
	return nil
}

// Shutdown stops accepting requests, waits for in-flight ones, and stops
// any speech in progress.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.cfg.Speaker != nil {
		s.cfg.Speaker.Stop()
	}
	s.mu.Lock()
	srv := s.server
	s.mu.Unlock()
	if srv == nil {
		return nil
	}
	return srv.Shutdown(ctx)
}

// SpeakingItem returns the ID of the item being read aloud, or 0.
func (s *Server) SpeakingItem() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.speakingItem
}

func randomGender() workflow.Gender {
	if rand.IntN(2) == 0 {
		return workflow.GenderMale
	}
	return workflow.GenderFemale
}
