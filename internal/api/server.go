package api

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"

	"github.com/MikeSquared-Agency/nexus/internal/dedup"
	"github.com/MikeSquared-Agency/nexus/internal/processor"
	"github.com/MikeSquared-Agency/nexus/internal/talent"
)

// Status is the static part of the status endpoint.
type Status struct {
	LexiconVersion string `json:"lexicon_version"`
	Model          string `json:"model"`
	Storage        string `json:"storage"` // "postgres", "file" or "memory"
}

// Options configures the HTTP surface.
type Options struct {
	Port        int
	APIToken    string   // bearer token for write routes; empty disables auth
	CORSOrigins []string // allowed browser origins; empty disables CORS
}

type Server struct {
	router *chi.Mux
	port   int
	proc   *processor.Processor
	repo   talent.Repository
	dedup  *dedup.Deduplicator
	status Status
	logger *slog.Logger
	http   *http.Server
}

func NewServer(opts Options, proc *processor.Processor, repo talent.Repository, dd *dedup.Deduplicator, status Status, logger *slog.Logger) *Server {
	router := chi.NewRouter()
	if len(opts.CORSOrigins) > 0 {
		router.Use(cors.New(cors.Options{
			AllowedOrigins: opts.CORSOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete},
			AllowedHeaders: []string{"Authorization", "Content-Type", "Accept"},
		}).Handler)
	}
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)

	s := &Server{
		router: router,
		port:   opts.Port,
		proc:   proc,
		repo:   repo,
		dedup:  dd,
		status: status,
		logger: logger,
	}

	router.Get("/health", s.health)

	// Stored profiles carry raw notes and phone numbers, so reads sit behind
	// the token too.
	router.Route("/api/v1", func(r chi.Router) {
		r.Use(BearerAuthMiddleware(opts.APIToken))

		r.Get("/nexus/status", s.statusHandler)

		r.Post("/profiles/tag", s.tagProfile)
		r.Post("/profiles/resolve", s.resolveField)

		r.Get("/talents", s.listTalents)
		r.Post("/talents", s.appendTalent)
		r.Get("/talents/export", s.exportTalents)
		r.Post("/talents/import", s.importTalents)
		r.Get("/talents/duplicates", s.findDuplicates)
		r.Post("/talents/dedup", s.executeDedup)
		r.Get("/talents/{index}", s.getTalent)
		r.Delete("/talents/{index}", s.removeTalent)
	})

	return s
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.port)
	s.http = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.logger.Info("API server starting", "addr", addr)
	return s.http.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.http == nil {
		return nil
	}
	return s.http.Shutdown(ctx)
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) statusHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"agent":           "nexus",
		"lexicon_version": s.status.LexiconVersion,
		"model":           s.status.Model,
		"storage":         s.status.Storage,
		"pending_reviews": s.proc.Pending(),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
