package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/obrienmichael/personal-crm/internal/crmerr"
	"github.com/obrienmichael/personal-crm/internal/engine"
	"github.com/obrienmichael/personal-crm/internal/store"
)

// Server is the personal-crm HTTP API server.
type Server struct {
	db      *store.DB
	engine  *engine.Engine
	router  chi.Router
	version string
	started time.Time
}

// New creates a Server over the given database and version string.
func New(db *store.DB, version string) *Server {
	s := &Server{
		db:      db,
		engine:  engine.New(db),
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

		r.Get("/contacts", s.handleListContacts)
		r.Get("/contacts/{contactID}", s.handleContactDetails)
		r.Post("/contacts/{contactID}", s.handleUpdateContact)
		r.Delete("/contacts/{contactID}", s.handleDeleteContact)
		r.Get("/contacts/{contactID}/stats", s.handleContactStats)
		r.Get("/contacts/{contactID}/goals", s.handleListGoals)
		r.Post("/contacts/{contactID}/goals", s.handleCreateGoal)

		r.Get("/overdue", s.handleListOverdue)

		r.Post("/interactions", s.handleRecordInteraction)
		r.Get("/interactions/recent", s.handleRecentInteractions)
		r.Get("/interactions/types", s.handleListTypes)

		r.Delete("/goals/{goalID}", s.handleDeleteGoal)
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	dbOK := true
	if err := s.db.Ping(); err != nil {
		dbOK = false
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"version": s.version,
		"uptime":  time.Since(s.started).Seconds(),
		"db":      dbOK,
		"db_path": s.db.Path,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError maps the crmerr taxonomy onto HTTP statuses. Untyped errors
// read as store trouble: nothing in the core panics or retries.
func writeError(w http.ResponseWriter, err error) {
	code := crmerr.CodeOf(err)
	status := http.StatusInternalServerError
	switch code {
	case crmerr.InvalidArgument, crmerr.UnknownInteractionType:
		status = http.StatusBadRequest
	case crmerr.NotFound:
		status = http.StatusNotFound
	case crmerr.ConstraintViolation:
		status = http.StatusConflict
	case crmerr.StoreUnavailable:
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, map[string]string{
		"error": err.Error(),
		"code":  string(code),
	})
}
