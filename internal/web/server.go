// Package web serves the browser front-end: a server-rendered page driven by
// form posts, plus JSON endpoints exposing the server actions.
package web

import (
	"context"
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/karolswdev/gamescout/internal/actions"
	"github.com/karolswdev/gamescout/internal/metrics"
	"github.com/karolswdev/gamescout/internal/session"
)

//go:embed templates/*.html
var templateFS embed.FS

// ActionRunner is implemented by actions.Actions.
type ActionRunner interface {
	GetGameRecommendations(ctx context.Context, query string) actions.Result
	FindSimilarGames(ctx context.Context, req actions.FindSimilarRequest) actions.Result
	SummarizeReviewTrend(ctx context.Context, trend string) actions.SummaryResult
}

// Server holds the handlers' dependencies.
type Server struct {
	actions  ActionRunner
	sessions *session.Store
	page     *template.Template
	lang     string
	secure   bool
}

// Options tunes the Server.
type Options struct {
	// Language is the page's lang attribute and UI text language.
	Language string
	// SecureCookies marks the session cookie Secure.
	SecureCookies bool
}

// NewServer parses the embedded templates and returns a Server.
func NewServer(act ActionRunner, sessions *session.Store, opts Options) (*Server, error) {
	page, err := template.New("page.html").Funcs(templateFuncs).ParseFS(templateFS, "templates/page.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse page template: %w", err)
	}
	lang := opts.Language
	if lang == "" {
		lang = actions.DefaultLanguage
	}
	return &Server{
		actions:  act,
		sessions: sessions,
		page:     page,
		lang:     lang,
		secure:   opts.SecureCookies,
	}, nil
}

// Router builds the chi router with all routes and middleware.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(accessLog)
	r.Use(middleware.Recoverer)

	r.Get("/", s.handleIndex)
	r.Post("/search", s.handleSearch)
	r.Route("/branches/{level}", func(r chi.Router) {
		r.Post("/select", s.handleSelect)
		r.Post("/refine", s.handleRefine)
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.AllowContentType("application/json"))
		r.Post("/recommendations", s.handleAPIRecommendations)
		r.Post("/similar", s.handleAPISimilar)
		r.Post("/review-summary", s.handleAPIReviewSummary)
	})
	r.Get("/api/session", s.handleAPISession)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok"))
	})
	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	return r
}

// HTTPServer wraps Router in an http.Server. WriteTimeout must cover a full
// LLM round trip.
func (s *Server) HTTPServer(addr string) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      3 * time.Minute,
		IdleTimeout:       2 * time.Minute,
	}
}
