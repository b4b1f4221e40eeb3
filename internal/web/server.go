// Package web serves the questionnaire to a browser on the local machine.
// Each browser gets its own session controller, tracked by cookie.
package web

import (
	"embed"
	"fmt"
	"html/template"
	"net/http"

	"go.uber.org/zap"

	"github.com/mesh-intelligence/procs/internal/instrument"
	"github.com/mesh-intelligence/procs/internal/session"
	"github.com/mesh-intelligence/procs/pkg/types"
)

//go:embed templates/*.html
var templateFS embed.FS

// Config wires a Server.
type Config struct {
	Store       session.Recorder
	Picker      types.DirectoryPicker
	Instruments *instrument.Catalog

	// DefaultFolder pre-fills the folder field on the start page.
	DefaultFolder string

	Logger *zap.Logger
}

// Server is the questionnaire's HTTP front end.
type Server struct {
	cfg      Config
	log      *zap.Logger
	sessions *registry
	pages    map[string]*template.Template
}

// NewServer returns the HTTP handler for the questionnaire.
func NewServer(cfg Config) (http.Handler, error) {
	s, err := newServer(cfg)
	if err != nil {
		return nil, err
	}
	return s.routes(), nil
}

func newServer(cfg Config) (*Server, error) {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}
	pages, err := parsePages()
	if err != nil {
		return nil, err
	}
	s := &Server{cfg: cfg, log: log, pages: pages}
	s.sessions = newRegistry(func(onComplete func(string)) *session.Controller {
		return session.New(session.Config{
			Store:       cfg.Store,
			Picker:      cfg.Picker,
			Instruments: cfg.Instruments,
			OnComplete:  onComplete,
			Logger:      log,
		})
	})
	return s, nil
}

func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleStart)
	mux.HandleFunc("POST /start", s.handleBegin)
	mux.HandleFunc("POST /directory", s.handleDirectory)
	mux.HandleFunc("GET /questionnaire", s.handleQuestionnaire)
	mux.HandleFunc("POST /submit", s.handleSubmit)
	mux.HandleFunc("GET /done", s.handleDone)
	mux.HandleFunc("POST /restart", s.handleRestart)
	return chainMiddlewares(mux, withLogging(s.log), withNoStore)
}

var pageFuncs = template.FuncMap{
	"message": types.Message,
}

// parsePages builds one template set per page, each sharing the layout.
func parsePages() (map[string]*template.Template, error) {
	pages := make(map[string]*template.Template)
	for _, name := range []string{"start", "questionnaire", "done"} {
		t, err := template.New(name).Funcs(pageFuncs).ParseFS(templateFS,
			"templates/layout.html", "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("parsing %s template: %w", name, err)
		}
		pages[name] = t
	}
	return pages, nil
}

func (s *Server) render(w http.ResponseWriter, page string, status int, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := s.pages[page].ExecuteTemplate(w, "layout", data); err != nil {
		s.log.Error("render failed", zap.String("page", page), zap.Error(err))
	}
}

func redirect(w http.ResponseWriter, r *http.Request, path string) {
	http.Redirect(w, r, path, http.StatusSeeOther)
}

// pageFor returns the path that shows the controller's current state.
func pageFor(ctrl *session.Controller) string {
	switch st := ctrl.State(); {
	case st.Complete():
		return "/done"
	case st == session.Collecting || st == session.Submitting:
		return "/questionnaire"
	default:
		return "/"
	}
}
