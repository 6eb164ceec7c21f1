package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/lazypower/monologue/internal/engine"
	"github.com/lazypower/monologue/internal/store"
	"github.com/lazypower/monologue/internal/transcript"
)

// Request body limits.
const (
	maxLogBytes  = 32 << 20 // 32MB, a whole chat export
	maxTextBytes = 1 << 20  // 1MB, one message
)

// Server is the monologue HTTP API server.
type Server struct {
	engine  *engine.Engine
	db      *store.DB // nil when the archive is disabled
	corpus  CorpusSource
	router  chi.Router
	version string
	started time.Time
}

// CorpusSource names the transcript served by /api/corpus.
type CorpusSource struct {
	Path   string
	Format transcript.Format
}

// New creates a new Server. db may be nil.
func New(eng *engine.Engine, db *store.DB, corpus CorpusSource, version string) *Server {
	s := &Server{
		engine:  eng,
		db:      db,
		corpus:  corpus,
		version: version,
		started: time.Now(),
	}
	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", s.handleHealth)

		r.Post("/extract", s.handleExtract)
		r.Post("/normalize", s.handleNormalize)
		r.Get("/corpus", s.handleCorpus)

		r.Get("/runs", s.handleListRuns)
		r.Get("/runs/{runID}", s.handleGetRun)
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	archiveOK := false
	if s.db != nil {
		archiveOK = s.db.Ping() == nil
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"version": s.version,
		"uptime":  time.Since(s.started).Seconds(),
		"archive": archiveOK,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// decodeBody reads a JSON request body of at most limit bytes. On failure it
// writes the error response and returns false.
func decodeBody(w http.ResponseWriter, r *http.Request, limit int64, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, limit)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "request body too large")
			return false
		}
		writeError(w, http.StatusBadRequest, "invalid json")
		return false
	}
	return true
}
