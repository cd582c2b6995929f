package main

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/loregraph/loregraph/engine/graph"
	"github.com/loregraph/loregraph/engine/resolver"
	"github.com/loregraph/loregraph/engine/session"
	"github.com/loregraph/loregraph/pkg/metrics"
	"github.com/loregraph/loregraph/pkg/repo"
)

// entityLister is the slice of the entity repository the server uses.
type entityLister interface {
	List(ctx context.Context, opts repo.ListOpts) ([]graph.Entity, error)
}

// serverDeps are the collaborators the HTTP server wires together.
type serverDeps struct {
	store     *graph.Store
	entities  entityLister
	queries   session.QueryResolver
	interpret session.Interpreter
	events    session.EventSink
	registry  *metrics.Registry
	logger    *slog.Logger
}

type server struct {
	deps     serverDeps
	sessions *sessionManager
}

func newServer(deps serverDeps) *server {
	return &server{
		deps: deps,
		sessions: newSessionManager(deps.queries, deps.store, deps.interpret,
			deps.events, deps.registry, deps.logger),
	}
}

// routes builds the API mux.
func (s *server) routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/health", s.handleHealth)
	mux.HandleFunc("GET /api/questions", s.handleQuestions)
	mux.HandleFunc("GET /api/graph/sample", s.handleSample)
	mux.HandleFunc("GET /api/graph/stats", s.handleStats)
	mux.HandleFunc("GET /api/entities", s.handleEntities)
	mux.HandleFunc("POST /api/sessions", s.handleCreateSession)
	mux.HandleFunc("GET /api/sessions/{id}", s.handleGetSession)
	mux.HandleFunc("DELETE /api/sessions/{id}", s.handleDeleteSession)
	mux.HandleFunc("POST /api/sessions/{id}/question", s.handleQuestion)
	mux.HandleFunc("POST /api/sessions/{id}/select", s.handleSelect)
	mux.HandleFunc("POST /api/sessions/{id}/run", s.handleRun)
	mux.HandleFunc("POST /api/sessions/{id}/clear", s.handleClear)
	mux.Handle("GET /metrics", s.deps.registry.Handler())
	return mux
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func (s *server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *server) handleQuestions(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"questions": resolver.SuggestedQuestions})
}

func (s *server) handleSample(w http.ResponseWriter, r *http.Request) {
	limit := graph.DefaultSampleLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = n
	}
	rows, err := s.deps.store.Sample(r.Context(), limit)
	if err != nil {
		s.deps.logger.Error("sample failed", "err", err)
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

func (s *server) handleStats(w http.ResponseWriter, r *http.Request) {
	nodes, err := s.deps.store.NodeCount(r.Context())
	if err != nil {
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	rels, err := s.deps.store.RelationshipCounts(r.Context())
	if err != nil {
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"entities":      nodes,
		"relationships": rels,
	})
}

func (s *server) handleEntities(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = n
	}
	items, err := s.deps.entities.List(r.Context(), repo.ListOpts{Limit: limit})
	if err != nil {
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"entities": items})
}

func (s *server) handleCreateSession(w http.ResponseWriter, _ *http.Request) {
	ctrl := s.sessions.create()
	writeJSON(w, http.StatusCreated, ctrl.Snapshot())
}

func (s *server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	ctrl, ok := s.sessions.get(r.PathValue("id"))
	if !ok {
		writeError(w, http.StatusNotFound, "session not found")
		return
	}
	writeJSON(w, http.StatusOK, ctrl.Snapshot())
}

func (s *server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	if !s.sessions.remove(r.PathValue("id")) {
		writeError(w, http.StatusNotFound, "session not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *server) handleQuestion(w http.ResponseWriter, r *http.Request) {
	ctrl, ok := s.sessions.get(r.PathValue("id"))
	if !ok {
		writeError(w, http.StatusNotFound, "session not found")
		return
	}
	var body struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	writeJSON(w, http.StatusOK, ctrl.SetQuestionText(body.Text))
}

func (s *server) handleSelect(w http.ResponseWriter, r *http.Request) {
	ctrl, ok := s.sessions.get(r.PathValue("id"))
	if !ok {
		writeError(w, http.StatusNotFound, "session not found")
		return
	}
	var body struct {
		Question string `json:"question"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	writeJSON(w, http.StatusOK, ctrl.SelectQuestion(body.Question))
}

func (s *server) handleRun(w http.ResponseWriter, r *http.Request) {
	ctrl, ok := s.sessions.get(r.PathValue("id"))
	if !ok {
		writeError(w, http.StatusNotFound, "session not found")
		return
	}
	snap := ctrl.Run(r.Context())
	status := http.StatusOK
	if snap.State == session.StateFailed {
		status = http.StatusUnprocessableEntity
	}
	writeJSON(w, status, snap)
}

func (s *server) handleClear(w http.ResponseWriter, r *http.Request) {
	ctrl, ok := s.sessions.get(r.PathValue("id"))
	if !ok {
		writeError(w, http.StatusNotFound, "session not found")
		return
	}
	writeJSON(w, http.StatusOK, ctrl.Clear())
}
