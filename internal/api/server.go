// Package api exposes the optimizer over HTTP: submit a project
// description, poll its progress, and fetch the final schedule.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/stunsched/stunsched/internal/config"
	"github.com/stunsched/stunsched/internal/predict"
	"github.com/stunsched/stunsched/internal/store"
	"github.com/stunsched/stunsched/internal/stun"
	"github.com/stunsched/stunsched/internal/stunevents"
)

// Server is the HTTP front-end over predict.Driver.
type Server struct {
	driver *predict.Driver
	db     *store.DB // optional; nil disables persistence-backed endpoints
	tuning stun.Tuning

	mu   sync.Mutex
	runs map[string]*run
}

type run struct {
	future *predict.Future
	bus    *stunevents.Bus
}

// NewServer builds a Server driving numJobs parallel STUN trajectories
// per run, with the given tuning applied to every run it starts. db
// may be nil.
func NewServer(numJobs int, tuning stun.Tuning, db *store.DB) *Server {
	return &Server{
		driver: predict.NewDriver(numJobs),
		db:     db,
		tuning: tuning,
		runs:   make(map[string]*run),
	}
}

// Handler returns the chi router with all routes mounted.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(5 * time.Minute))

	r.Get("/health", func(w http.ResponseWriter, req *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/v1", func(r chi.Router) {
		r.Post("/runs", s.handleCreateRun)
		r.Get("/runs/{id}", s.handleGetRun)
		r.Get("/runs/{id}/events", s.handleRunEvents)
	})

	r.Handle("/metrics", promhttp.Handler())

	return r
}

// handleCreateRun parses a YAML project body, starts an optimization
// run, and returns its id immediately (202 Accepted). The run is
// detached from the request's cancellation, so it keeps going after the
// response is sent.
func (s *Server) handleCreateRun(w http.ResponseWriter, req *http.Request) {
	project, err := config.Load(req.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	tuning := s.tuning
	future, err := s.driver.StartScheduleOptimization(context.WithoutCancel(req.Context()), project, tuning)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	s.mu.Lock()
	s.runs[future.RunID] = &run{future: future, bus: future.Bus}
	s.mu.Unlock()

	if s.db != nil {
		if err := s.db.InsertRun(future.RunID, "", tuning); err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		go s.persistWhenDone(future)
	}

	writeJSON(w, http.StatusAccepted, map[string]string{"id": future.RunID})
}

// persistWhenDone waits for f to finish (bounded only by the context
// the run itself was started with, not by any HTTP request deadline)
// and writes the result to the database.
func (s *Server) persistWhenDone(f *predict.Future) {
	result, ok := f.Wait(context.Background())
	if !ok {
		return
	}
	s.db.CompleteRun(f.RunID, result.Schedule.MakespanSeconds, result.Schedule)
}

// handleGetRun returns the run's final OptimizedSchedule once
// Finished has been observed, or 409 while still running.
func (s *Server) handleGetRun(w http.ResponseWriter, req *http.Request) {
	id := chi.URLParam(req, "id")
	s.mu.Lock()
	r, ok := s.runs[id]
	s.mu.Unlock()
	if !ok {
		writeError(w, http.StatusNotFound, "no such run")
		return
	}

	if result, ok := r.future.Peek(); ok {
		writeJSON(w, http.StatusOK, result.Schedule)
		return
	}
	writeError(w, http.StatusConflict, "run still in progress")
}

// handleRunEvents drains the run's event bus for up to ~900ms (nine
// poll intervals) and returns whatever events were observed, mirroring
// stunevents.Bus's own 100ms poll semantics at the HTTP layer so a
// long-polling client gets a prompt reply either way.
func (s *Server) handleRunEvents(w http.ResponseWriter, req *http.Request) {
	id := chi.URLParam(req, "id")
	s.mu.Lock()
	r, ok := s.runs[id]
	s.mu.Unlock()
	if !ok {
		writeError(w, http.StatusNotFound, "no such run")
		return
	}

	deadline := time.Now().Add(900 * time.Millisecond)
	var events []eventJSON
	for time.Now().Before(deadline) {
		ev, ok := r.bus.Next()
		if !ok {
			continue
		}
		events = append(events, toEventJSON(ev))
		if ev.Simple != nil && ev.Simple.Kind == stunevents.Finished {
			break
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{"events": events})
}

type eventJSON struct {
	Kind            string  `json:"kind,omitempty"`
	Progress        float32 `json:"progress,omitempty"`
	MakespanSeconds int64   `json:"makespan_seconds,omitempty"`
	Epoch           int32   `json:"epoch,omitempty"`
}

func toEventJSON(ev stunevents.Event) eventJSON {
	switch {
	case ev.Simple != nil:
		return eventJSON{Kind: ev.Simple.Kind.String()}
	case ev.Progress != nil:
		return eventJSON{
			Kind:            "progress",
			Progress:        ev.Progress.Progress,
			MakespanSeconds: ev.Progress.MakespanSeconds,
			Epoch:           ev.Progress.Epoch,
		}
	case ev.Complete != nil:
		return eventJSON{Kind: "complete", MakespanSeconds: ev.Complete.MakespanSeconds}
	default:
		return eventJSON{}
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]any{
		"error": map[string]any{"message": msg},
	})
}
