package http

import (
	"embed"
	"encoding/json"
	"fmt"
	"html/template"
	"io"
	"net/http"
	"regexp"

	"github.com/fwojciec/workflow"
	"github.com/fwojciec/workflow/markdown"
	"github.com/microcosm-cc/bluemonday"
)

//go:embed templates/*.html
var templateFS embed.FS

var pageNames = []string{"index", "chat", "agents"}

func parsePages() (map[string]*template.Template, error) {
	pages := make(map[string]*template.Template, len(pageNames))
	for _, name := range pageNames {
		t, err := template.ParseFS(templateFS, "templates/layout.html", "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("http: parse %s template: %w", name, err)
		}
		pages[name] = t
	}
	return pages, nil
}

func (s *Server) renderPage(w http.ResponseWriter, name string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.pages[name].ExecuteTemplate(w, "layout", data); err != nil {
		s.logger.Error("render page", "page", name, "error", err)
	}
}

// newReplyPolicy allows exactly the markup markdown.HTML produces.
func newReplyPolicy() *bluemonday.Policy {
	p := bluemonday.NewPolicy()
	p.AllowElements("p", "blockquote", "ul", "ol", "li", "pre", "code", "strong", "em", "br")
	p.AllowAttrs("class").Matching(regexp.MustCompile(`^language-[\w#+.-]+$`)).OnElements("code")
	return p
}

// replyHTML renders a model reply for the page.
func (s *Server) replyHTML(nodes []workflow.Node) string {
	return s.replyPolicy.Sanitize(markdown.HTML(nodes))
}

type messageView struct {
	Role string
	HTML template.HTML
}

func (s *Server) messageViews(msgs []workflow.Message) []messageView {
	views := make([]messageView, 0, len(msgs))
	for _, m := range msgs {
		var html string
		if m.Role == workflow.RoleModel {
			html = s.replyHTML(markdown.Render(m.Text))
		} else {
			html = template.HTMLEscapeString(m.Text)
		}
		views = append(views, messageView{Role: string(m.Role), HTML: template.HTML(html)})
	}
	return views
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

func setSSEHeaders(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
}

func writeSSEEvent(w io.Writer, event string, payload any) error {
	b, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "event: %s\n", event); err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "data: %s\n\n", b)
	return err
}
