// Package status serves liveness and last-run information over HTTP.
package status

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"trendarr/internal/application/usecase"
)

// Tracker records the outcome of reconciliation passes.
type Tracker struct {
	mu            sync.Mutex
	startedAt     time.Time
	lastRunAt     time.Time
	lastRunError  string
	lastAnnounced int
	ignoredCount  int
}

// NewTracker creates a tracker stamped with the process start time.
func NewTracker() *Tracker {
	return &Tracker{startedAt: time.Now()}
}

// RecordPass stores the outcome of one pass.
func (t *Tracker) RecordPass(result usecase.PassResult, err error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.lastRunAt = time.Now()
	t.lastAnnounced = result.Announced
	t.ignoredCount = result.Ignored
	t.lastRunError = ""
	if err != nil {
		t.lastRunError = err.Error()
	}
}

type snapshot struct {
	StartedAt     time.Time  `json:"started_at"`
	LastRunAt     *time.Time `json:"last_run_at,omitempty"`
	LastRunError  string     `json:"last_run_error,omitempty"`
	LastAnnounced int        `json:"last_announced"`
	IgnoredCount  int        `json:"ignored_count"`
}

func (t *Tracker) snapshot() snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()

	s := snapshot{
		StartedAt:     t.startedAt,
		LastRunError:  t.lastRunError,
		LastAnnounced: t.lastAnnounced,
		IgnoredCount:  t.ignoredCount,
	}
	if !t.lastRunAt.IsZero() {
		runAt := t.lastRunAt
		s.LastRunAt = &runAt
	}
	return s
}

// Server is the status HTTP server.
type Server struct {
	tracker *Tracker
	router  chi.Router
}

// NewServer creates the server around a tracker.
func NewServer(tracker *Tracker) *Server {
	s := &Server{tracker: tracker}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Get("/healthz", s.handleHealth)
	r.Get("/api/status", s.handleStatus)
	s.router = r

	return s
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start blocks serving on addr.
func (s *Server) Start(addr string) error {
	return http.ListenAndServe(addr, s.router)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleStatus(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(s.tracker.snapshot())
}
