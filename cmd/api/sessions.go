package main

import (
	"context"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"github.com/loregraph/loregraph/engine/session"
	"github.com/loregraph/loregraph/pkg/metrics"
	"github.com/loregraph/loregraph/pkg/natsutil"
	"github.com/nats-io/nats.go"
)

// runEventsSubject carries one RunEvent per completed pipeline run.
const runEventsSubject = "loregraph.runs"

// sessionManager owns the live session controllers, keyed by id.
type sessionManager struct {
	queries   session.QueryResolver
	executor  session.Executor
	interpret session.Interpreter
	events    session.EventSink
	registry  *metrics.Registry
	logger    *slog.Logger

	active *metrics.Gauge

	mu       sync.RWMutex
	sessions map[string]*session.Controller
}

func newSessionManager(queries session.QueryResolver, executor session.Executor,
	interpret session.Interpreter, events session.EventSink,
	registry *metrics.Registry, logger *slog.Logger) *sessionManager {
	return &sessionManager{
		queries:   queries,
		executor:  executor,
		interpret: interpret,
		events:    events,
		registry:  registry,
		logger:    logger,
		active:    registry.Gauge("sessions_active", "Live explorer sessions"),
		sessions:  make(map[string]*session.Controller),
	}
}

// create builds a new controller with a fresh id and registers it.
func (m *sessionManager) create() *session.Controller {
	id := uuid.NewString()
	opts := []session.Option{
		session.WithID(id),
		session.WithLogger(m.logger),
		session.WithMetrics(m.registry),
	}
	if m.events != nil {
		opts = append(opts, session.WithEvents(m.events))
	}
	ctrl := session.New(m.queries, m.executor, m.interpret, opts...)

	m.mu.Lock()
	m.sessions[id] = ctrl
	m.active.Set(int64(len(m.sessions)))
	m.mu.Unlock()

	m.logger.Info("session created", "session", id)
	return ctrl
}

func (m *sessionManager) get(id string) (*session.Controller, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ctrl, ok := m.sessions[id]
	return ctrl, ok
}

// remove drops a session. Reports whether the id was known.
func (m *sessionManager) remove(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sessions[id]; !ok {
		return false
	}
	delete(m.sessions, id)
	m.active.Set(int64(len(m.sessions)))
	m.logger.Info("session removed", "session", id)
	return true
}

// natsSink publishes run events to NATS. Publish failures are logged and
// swallowed so a broker outage never fails a run.
type natsSink struct {
	nc     *nats.Conn
	logger *slog.Logger
}

func (s *natsSink) RunCompleted(ctx context.Context, ev session.RunEvent) {
	if err := natsutil.Publish(ctx, s.nc, runEventsSubject, ev); err != nil {
		s.logger.Warn("run event publish failed", "session", ev.SessionID, "err", err)
	}
}
