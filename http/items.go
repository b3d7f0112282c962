package http

import (
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"strconv"
	"strings"

	"github.com/fwojciec/workflow"
	"github.com/fwojciec/workflow/goldmark"
	"github.com/fwojciec/workflow/htmltext"
)

type itemView struct {
	ID          int
	Title       string
	Description template.HTML
	Status      workflow.Status
	Options     []workflow.Status
	ImageURL    template.URL
	ImageGender workflow.Gender
	Bookmarked  bool
	Speaking    bool
}

type indexPage struct {
	Title      string
	Bookmarked bool
	Items      []itemView
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	items, err := s.cfg.Items.LoadItems(r.Context())
	if err != nil {
		s.fail(w, err)
		return
	}
	bookmarked := r.URL.Query().Get("bookmarked") == "1"
	if bookmarked {
		items = workflow.FilterBookmarked(items)
	}
	speaking := s.SpeakingItem()

	page := indexPage{Title: "Tasks", Bookmarked: bookmarked}
	for _, it := range items {
		page.Items = append(page.Items, itemView{
			ID:          it.ID,
			Title:       it.Title,
			Description: template.HTML(s.descriptionPolicy.Sanitize(it.Description)),
			Status:      it.Status,
			Options:     it.Status.Options(),
			ImageURL:    imageURL(it.ImageURL),
			ImageGender: it.ImageGender,
			Bookmarked:  it.Bookmarked,
			Speaking:    it.ID == speaking,
		})
	}
	s.renderPage(w, "index", page)
}

// imageURL trusts only the data URLs the server itself stores.
func imageURL(u string) template.URL {
	if strings.HasPrefix(u, "data:image/") {
		return template.URL(u)
	}
	return ""
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := itemID(w, r)
	if !ok {
		return
	}
	status := workflow.Status(r.FormValue("status"))
	if _, err := s.cfg.Items.SetStatus(r.Context(), id, status); err != nil {
		s.fail(w, err)
		return
	}
	redirectToItem(w, r, id)
}

func (s *Server) handleBookmark(w http.ResponseWriter, r *http.Request) {
	id, ok := itemID(w, r)
	if !ok {
		return
	}
	if _, err := s.cfg.Items.ToggleBookmark(r.Context(), id); err != nil {
		s.fail(w, err)
		return
	}
	redirectToItem(w, r, id)
}

func (s *Server) handleDescription(w http.ResponseWriter, r *http.Request) {
	id, ok := itemID(w, r)
	if !ok {
		return
	}
	html := s.descriptionPolicy.Sanitize(r.FormValue("description"))
	if _, err := s.cfg.Items.SetDescription(r.Context(), id, html); err != nil {
		s.fail(w, err)
		return
	}
	redirectToItem(w, r, id)
}

func (s *Server) handleRefine(w http.ResponseWriter, r *http.Request) {
	id, ok := itemID(w, r)
	if !ok {
		return
	}
	title := strings.TrimSpace(r.FormValue("title"))
	html := s.descriptionPolicy.Sanitize(r.FormValue("description"))
	if _, err := s.cfg.Items.Refine(r.Context(), id, title, html); err != nil {
		s.fail(w, err)
		return
	}
	redirectToItem(w, r, id)
}

// handleSuggest asks the model for a better title or description. The form
// may carry the values being edited; stored values are used otherwise.
func (s *Server) handleSuggest(w http.ResponseWriter, r *http.Request) {
	id, ok := itemID(w, r)
	if !ok {
		return
	}
	if s.cfg.Suggester == nil {
		writeError(w, http.StatusNotImplemented, "Suggestions are not configured.")
		return
	}
	it, err := s.cfg.Items.Get(r.Context(), id)
	if err != nil {
		s.fail(w, err)
		return
	}
	title, description := it.Title, it.Description
	if v := r.FormValue("title"); v != "" {
		title = v
	}
	if v := r.FormValue("description"); v != "" {
		description = v
	}
	plain := htmltext.MustText(description)

	var prompt string
	switch field := r.PathValue("field"); field {
	case "title":
		prompt = workflow.TitleSuggestionPrompt(title, plain)
	case "description":
		prompt = workflow.DescriptionSuggestionPrompt(title, plain)
	default:
		writeError(w, http.StatusNotFound, fmt.Sprintf("unknown field %q", field))
		return
	}

	out, err := s.cfg.Suggester.Suggest(r.Context(), prompt)
	if err != nil {
		s.logger.Error("suggest", "item", id, "field", r.PathValue("field"), "error", err)
		writeError(w, http.StatusBadGateway, workflow.ErrorText(err))
		return
	}
	if r.PathValue("field") == "title" {
		writeJSON(w, http.StatusOK, map[string]string{"text": workflow.CleanTitle(out)})
		return
	}
	text := strings.TrimSpace(out)
	html, err := goldmark.HTML(text)
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"text": text,
		"html": s.descriptionPolicy.Sanitize(html),
	})
}

func (s *Server) handleImage(w http.ResponseWriter, r *http.Request) {
	id, ok := itemID(w, r)
	if !ok {
		return
	}
	if s.cfg.Images == nil {
		writeError(w, http.StatusNotImplemented, "Image generation is not configured.")
		return
	}
	if _, err := s.cfg.Items.Get(r.Context(), id); err != nil {
		s.fail(w, err)
		return
	}
	g := s.cfg.PickGender()
	img, err := s.cfg.Images.GenerateImage(r.Context(), workflow.PortraitPrompt(g))
	if err != nil {
		s.logger.Error("generate portrait", "item", id, "error", err)
		writeError(w, http.StatusBadGateway, workflow.ErrorText(err))
		return
	}
	if _, err := s.cfg.Items.SetImage(r.Context(), id, img.DataURL(), g); err != nil {
		s.fail(w, err)
		return
	}
	redirectToItem(w, r, id)
}

// handleSpeak toggles reading an item aloud. Reading the item that is
// currently speaking stops it; any other item replaces the current one.
func (s *Server) handleSpeak(w http.ResponseWriter, r *http.Request) {
	id, ok := itemID(w, r)
	if !ok {
		return
	}
	if s.cfg.Speaker == nil {
		writeError(w, http.StatusNotImplemented, "Read aloud is not configured.")
		return
	}
	it, err := s.cfg.Items.Get(r.Context(), id)
	if err != nil {
		s.fail(w, err)
		return
	}

	s.mu.Lock()
	if s.speakingItem == id {
		s.speakingItem = 0
		s.mu.Unlock()
		s.cfg.Speaker.Stop()
		writeJSON(w, http.StatusOK, map[string]bool{"speaking": false})
		return
	}
	s.speakingItem = id
	s.mu.Unlock()

	// Speaker callbacks take s.mu, so it must not be held across Speak.
	text := workflow.ReadAloudText(it.Title, htmltext.MustText(it.Description))
	err = s.cfg.Speaker.Speak(text, it.ImageGender, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.speakingItem == id {
			s.speakingItem = 0
		}
	})
	if err != nil {
		s.logger.Warn("read aloud", "item", id, "error", err)
	}
	writeJSON(w, http.StatusOK, map[string]bool{"speaking": s.SpeakingItem() == id})
}

func itemID(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil || id <= 0 {
		writeError(w, http.StatusNotFound, "item not found")
		return 0, false
	}
	return id, true
}

func redirectToItem(w http.ResponseWriter, r *http.Request, id int) {
	http.Redirect(w, r, fmt.Sprintf("/#item-%d", id), http.StatusSeeOther)
}

// fail maps domain errors to HTTP statuses.
func (s *Server) fail(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, workflow.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, workflow.ErrValidation):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		s.logger.Error("request failed", "error", err)
		writeError(w, http.StatusInternalServerError, workflow.ErrorTextDefault)
	}
}
