package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/rishabhsai/linkscope/internal/analyzer"
	"github.com/rishabhsai/linkscope/internal/config"
	"github.com/rishabhsai/linkscope/internal/http/handler"
	mw "github.com/rishabhsai/linkscope/internal/http/middleware"
	"github.com/rishabhsai/linkscope/internal/link"
	"github.com/rishabhsai/linkscope/internal/logger"
	"github.com/rishabhsai/linkscope/internal/workers"
)

func NewRouter(cfg config.Config, svc *link.Service, ai *analyzer.Client, tracker *workers.AccessTracker, log logger.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(mw.Log(log))

	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(mw.CORS(cfg.CORSAllowedOrigins, cfg.CORSAllowCredentials))
	}

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	lh := &handler.LinksHandler{Svc: svc, AI: ai, Tracker: tracker, Log: log}

	r.Route("/links", func(r chi.Router) {
		r.Use(mw.RequireUsername)

		r.Get("/", lh.List)
		r.Post("/", lh.Create)

		r.Post("/reorder", lh.Reorder)
		r.Get("/search", lh.Search)
		r.Get("/export", lh.Export)

		r.Patch("/{id}", lh.Update)
		r.Delete("/{id}", lh.Delete)
		r.Post("/{id}/access", lh.Access)
	})

	ah := &handler.AnalyzeHandler{AI: ai, Log: log}
	r.Post("/api/analyze-link", ah.Analyze)

	return r
}
