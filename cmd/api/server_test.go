package main

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/loregraph/loregraph/engine/domain"
	"github.com/loregraph/loregraph/engine/graph"
	"github.com/loregraph/loregraph/engine/session"
	"github.com/loregraph/loregraph/pkg/metrics"
	"github.com/loregraph/loregraph/pkg/repo"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

// --- Fakes ---

type fakeResult struct {
	records []*neo4j.Record
	idx     int
}

func (r *fakeResult) Next(_ context.Context) bool {
	if r.idx < len(r.records) {
		r.idx++
		return true
	}
	return false
}

func (r *fakeResult) Record() *neo4j.Record { return r.records[r.idx-1] }
func (r *fakeResult) Err() error            { return nil }

type fakeSession struct {
	records []*neo4j.Record
	err     error
}

func (s *fakeSession) Run(_ context.Context, _ string, _ map[string]any) (graph.CypherResult, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &fakeResult{records: s.records}, nil
}

func (s *fakeSession) ExecuteWrite(_ context.Context, work func(tx graph.CypherRunner) (any, error)) (any, error) {
	return nil, errors.New("read only")
}

func (s *fakeSession) Close(_ context.Context) error { return nil }

type fakeOpener struct {
	session *fakeSession
}

func (o *fakeOpener) OpenSession(_ context.Context) graph.CypherSession { return o.session }

type fakeQueries struct {
	err error
}

func (f *fakeQueries) Resolve(_ context.Context, question string) (domain.StructuredQuery, error) {
	if f.err != nil {
		return domain.StructuredQuery{}, &domain.ResolutionError{Question: question, Err: f.err}
	}
	return domain.StructuredQuery{Text: "MATCH (n:Entity)-[r]->(m:Entity) RETURN n.id AS source, type(r) AS relation, m.id AS target", Provenance: domain.ProvenanceCurated}, nil
}

type fakeLister struct {
	entities []graph.Entity
	err      error
}

func (f *fakeLister) List(_ context.Context, _ repo.ListOpts) ([]graph.Entity, error) {
	return f.entities, f.err
}

func tripleRecord(source, relation, target string) *neo4j.Record {
	return &neo4j.Record{
		Keys:   []string{"source", "relation", "target"},
		Values: []any{source, relation, target},
	}
}

func testServer(sess *fakeSession, queries session.QueryResolver) *server {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := graph.NewWithOpener(&fakeOpener{session: sess}, graph.WithLogger(logger))
	return newServer(serverDeps{
		store:    store,
		entities: &fakeLister{entities: []graph.Entity{{ID: "Gwyn"}}},
		queries:  queries,
		registry: metrics.New(),
		logger:   logger,
	})
}

func doJSON(t *testing.T, h http.Handler, method, path, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var decoded map[string]any
	if rec.Body.Len() > 0 {
		if err := json.Unmarshal(rec.Body.Bytes(), &decoded); err != nil {
			t.Fatalf("decode %s %s response: %v\n%s", method, path, err, rec.Body.String())
		}
	}
	return rec, decoded
}

// --- Handlers ---

func TestHealth(t *testing.T) {
	srv := testServer(&fakeSession{}, &fakeQueries{})
	rec, body := doJSON(t, srv.routes(), http.MethodGet, "/api/health", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if body["status"] != "ok" {
		t.Errorf("body = %v", body)
	}
}

func TestQuestions(t *testing.T) {
	srv := testServer(&fakeSession{}, &fakeQueries{})
	rec, body := doJSON(t, srv.routes(), http.MethodGet, "/api/questions", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	questions, ok := body["questions"].([]any)
	if !ok || len(questions) != 5 {
		t.Fatalf("questions = %v", body["questions"])
	}
}

func TestSample(t *testing.T) {
	sess := &fakeSession{records: []*neo4j.Record{
		tripleRecord("Black Knights", "wield", "Black Knight Sword"),
	}}
	srv := testServer(sess, &fakeQueries{})

	rec, body := doJSON(t, srv.routes(), http.MethodGet, "/api/graph/sample?limit=50", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %v", rec.Code, body)
	}
	rows, ok := body["rows"].([]any)
	if !ok || len(rows) != 1 {
		t.Fatalf("rows = %v", body["rows"])
	}
}

func TestSample_InvalidLimit(t *testing.T) {
	srv := testServer(&fakeSession{}, &fakeQueries{})
	rec, _ := doJSON(t, srv.routes(), http.MethodGet, "/api/graph/sample?limit=abc", "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestSample_StoreError(t *testing.T) {
	srv := testServer(&fakeSession{err: errors.New("connection refused")}, &fakeQueries{})
	rec, _ := doJSON(t, srv.routes(), http.MethodGet, "/api/graph/sample", "")
	if rec.Code != http.StatusBadGateway {
		t.Fatalf("status = %d, want 502", rec.Code)
	}
}

func TestEntities(t *testing.T) {
	srv := testServer(&fakeSession{}, &fakeQueries{})
	rec, body := doJSON(t, srv.routes(), http.MethodGet, "/api/entities", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	entities, ok := body["entities"].([]any)
	if !ok || len(entities) != 1 {
		t.Fatalf("entities = %v", body["entities"])
	}
}

func TestEntities_InvalidLimit(t *testing.T) {
	srv := testServer(&fakeSession{}, &fakeQueries{})
	rec, _ := doJSON(t, srv.routes(), http.MethodGet, "/api/entities?limit=abc", "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

// --- Session lifecycle ---

func createSession(t *testing.T, h http.Handler) string {
	t.Helper()
	rec, body := doJSON(t, h, http.MethodPost, "/api/sessions", "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("create session status = %d", rec.Code)
	}
	id, _ := body["id"].(string)
	if id == "" {
		t.Fatalf("session id missing: %v", body)
	}
	return id
}

func TestSessionLifecycle(t *testing.T) {
	sess := &fakeSession{records: []*neo4j.Record{
		tripleRecord("Black Knights", "wield", "Black Knight Sword"),
	}}
	srv := testServer(sess, &fakeQueries{})
	mux := srv.routes()

	id := createSession(t, mux)

	rec, body := doJSON(t, mux, http.MethodPost, "/api/sessions/"+id+"/question",
		`{"text":"Where is Gwyn?"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("question status = %d", rec.Code)
	}
	if body["state"] != string(session.StateDrafting) {
		t.Fatalf("state = %v, want drafting", body["state"])
	}

	rec, body = doJSON(t, mux, http.MethodPost, "/api/sessions/"+id+"/run", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("run status = %d: %v", rec.Code, body)
	}
	if body["state"] != string(session.StateResolved) {
		t.Fatalf("state = %v, want resolved", body["state"])
	}
	if body["graph"] == nil {
		t.Fatal("graph missing from run response")
	}

	rec, body = doJSON(t, mux, http.MethodPost, "/api/sessions/"+id+"/clear", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("clear status = %d", rec.Code)
	}
	if body["state"] != string(session.StateIdle) {
		t.Fatalf("state = %v, want idle", body["state"])
	}
}

func TestRun_FailureReturns422(t *testing.T) {
	srv := testServer(&fakeSession{}, &fakeQueries{err: errors.New("cannot translate")})
	mux := srv.routes()

	id := createSession(t, mux)
	doJSON(t, mux, http.MethodPost, "/api/sessions/"+id+"/question", `{"text":"weird question"}`)

	rec, body := doJSON(t, mux, http.MethodPost, "/api/sessions/"+id+"/run", "")
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422: %v", rec.Code, body)
	}
	if body["state"] != string(session.StateFailed) {
		t.Fatalf("state = %v, want failed", body["state"])
	}
}

func TestDeleteSession(t *testing.T) {
	srv := testServer(&fakeSession{}, &fakeQueries{})
	mux := srv.routes()
	id := createSession(t, mux)

	req := httptest.NewRequest(http.MethodDelete, "/api/sessions/"+id, nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("delete status = %d, want 204", rec.Code)
	}

	if getRec, _ := doJSON(t, mux, http.MethodGet, "/api/sessions/"+id, ""); getRec.Code != http.StatusNotFound {
		t.Fatalf("get after delete status = %d, want 404", getRec.Code)
	}

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/sessions/"+id, nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("second delete status = %d, want 404", rec.Code)
	}

	if !strings.Contains(srv.deps.registry.Render(), "sessions_active 0") {
		t.Errorf("gauge should drop back to zero:\n%s", srv.deps.registry.Render())
	}
}

func TestSession_NotFound(t *testing.T) {
	srv := testServer(&fakeSession{}, &fakeQueries{})
	rec, _ := doJSON(t, srv.routes(), http.MethodGet, "/api/sessions/nope", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestQuestion_BadBody(t *testing.T) {
	srv := testServer(&fakeSession{}, &fakeQueries{})
	mux := srv.routes()
	id := createSession(t, mux)

	rec, _ := doJSON(t, mux, http.MethodPost, "/api/sessions/"+id+"/question", "{broken")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestSelectQuestion(t *testing.T) {
	srv := testServer(&fakeSession{}, &fakeQueries{})
	mux := srv.routes()
	id := createSession(t, mux)

	rec, body := doJSON(t, mux, http.MethodPost, "/api/sessions/"+id+"/select",
		`{"question":"1. Which weapons are wielded by Black Knights?"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if body["question"] != "Which weapons are wielded by Black Knights?" {
		t.Fatalf("question = %v, want normalized form", body["question"])
	}
}

func TestMetricsEndpoint(t *testing.T) {
	srv := testServer(&fakeSession{}, &fakeQueries{})
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	srv.routes().ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "sessions_active") {
		t.Errorf("metrics output missing sessions gauge:\n%s", rec.Body.String())
	}
}
