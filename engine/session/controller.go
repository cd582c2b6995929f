// Package session coordinates one user's explorer session: the current
// question, the run/clear actions, and the lifetime of the structured
// query, result set, graph model and interpretation they produce.
package session

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/loregraph/loregraph/engine/domain"
	"github.com/loregraph/loregraph/engine/viz"
	"github.com/loregraph/loregraph/pkg/fn"
	"github.com/loregraph/loregraph/pkg/metrics"
)

// State of the session workflow.
type State string

const (
	StateIdle     State = "idle"     // no question
	StateDrafting State = "drafting" // question present, nothing run
	StateRunning  State = "running"  // a run is in flight
	StateResolved State = "resolved" // query + result available
	StateFailed   State = "failed"   // last run errored
)

// emptyQuestionWarning is reported when a run fires without a question.
const emptyQuestionWarning = "please enter or select a question"

// QueryResolver maps a question to a structured query.
type QueryResolver interface {
	Resolve(ctx context.Context, question string) (domain.StructuredQuery, error)
}

// Executor runs a structured query against the graph store.
type Executor interface {
	Execute(ctx context.Context, q domain.StructuredQuery) (domain.ResultSet, error)
}

// Interpreter produces prose explaining a result set.
type Interpreter interface {
	Interpret(ctx context.Context, question string, rows domain.ResultSet) (domain.Interpretation, error)
}

// Snapshot is an immutable view of the session for display.
type Snapshot struct {
	ID             string                  `json:"id"`
	State          State                   `json:"state"`
	Question       string                  `json:"question"`
	Query          *domain.StructuredQuery `json:"query,omitempty"`
	Result         *domain.ResultSet       `json:"result,omitempty"`
	Graph          *viz.Model              `json:"graph,omitempty"`
	Interpretation *domain.Interpretation  `json:"interpretation,omitempty"`
	Error          string                  `json:"error,omitempty"`
	Warning        string                  `json:"warning,omitempty"`
}

// Controller is the session workflow state machine. All methods are safe
// for concurrent use; runs are serialized per controller and duplicate
// run actions while one is in flight are ignored.
type Controller struct {
	id        string
	resolver  QueryResolver
	executor  Executor
	interpret Interpreter
	events    EventSink
	logger    *slog.Logger

	runs        *metrics.Counter
	runsFailed  *metrics.Counter
	runDuration *metrics.Histogram

	mu      sync.Mutex
	state   State
	typed   string
	picked  string
	query   *domain.StructuredQuery
	result  *domain.ResultSet
	graph   *viz.Model
	interp  *domain.Interpretation
	errMsg  string
	running bool
}

// Option configures a Controller.
type Option func(*Controller)

// WithID sets the session identifier carried in snapshots and events.
func WithID(id string) Option {
	return func(c *Controller) { c.id = id }
}

// WithLogger sets the controller logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Controller) { c.logger = l }
}

// WithEvents sets the sink notified after every completed run.
func WithEvents(sink EventSink) Option {
	return func(c *Controller) { c.events = sink }
}

// WithMetrics registers run counters and duration on reg.
func WithMetrics(reg *metrics.Registry) Option {
	return func(c *Controller) {
		c.runs = reg.Counter("session_runs_total", "Pipeline runs started")
		c.runsFailed = reg.Counter("session_runs_failed_total", "Pipeline runs ending in failure")
		c.runDuration = reg.Histogram("session_run_duration_seconds", "End-to-end pipeline run duration", nil)
	}
}

// New creates a Controller in the Idle state.
func New(resolver QueryResolver, executor Executor, interpret Interpreter, opts ...Option) *Controller {
	c := &Controller{
		resolver:  resolver,
		executor:  executor,
		interpret: interpret,
		logger:    slog.Default(),
		state:     StateIdle,
	}
	for _, o := range opts {
		o(c)
	}
	if c.runs == nil {
		reg := metrics.New()
		c.runs = reg.Counter("session_runs_total", "")
		c.runsFailed = reg.Counter("session_runs_failed_total", "")
		c.runDuration = reg.Histogram("session_run_duration_seconds", "", nil)
	}
	return c
}

// SetQuestionText records typed input. Typing clears any picked question;
// the two inputs are mutually exclusive, last writer wins.
func (c *Controller) SetQuestionText(text string) Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.typed = text
	if domain.NormalizeQuestion(text) != "" {
		c.picked = ""
	}
	c.reviseDraftState()
	return c.snapshotLocked()
}

// SelectQuestion records a picklist choice, clearing typed input.
func (c *Controller) SelectQuestion(question string) Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.picked = question
	if domain.NormalizeQuestion(question) != "" {
		c.typed = ""
	}
	c.reviseDraftState()
	return c.snapshotLocked()
}

// reviseDraftState moves Idle<->Drafting according to the current
// question slot. Resolved/Failed/Running are left alone. Must hold mu.
func (c *Controller) reviseDraftState() {
	if c.state != StateIdle && c.state != StateDrafting {
		return
	}
	if c.questionLocked() == "" {
		c.state = StateIdle
	} else {
		c.state = StateDrafting
	}
}

// questionLocked returns the current final question. Must hold mu.
func (c *Controller) questionLocked() string {
	if q := domain.NormalizeQuestion(c.typed); q != "" {
		return q
	}
	return domain.NormalizeQuestion(c.picked)
}

// Question returns the current final question.
func (c *Controller) Question() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.questionLocked()
}

// Clear resets the session to Idle, dropping the question, query, result
// and interpretation atomically. A clear while a run is in flight is
// ignored with a warning.
func (c *Controller) Clear() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.running {
		s := c.snapshotLocked()
		s.Warning = "a run is in progress"
		return s
	}
	c.typed = ""
	c.picked = ""
	c.query = nil
	c.result = nil
	c.graph = nil
	c.interp = nil
	c.errMsg = ""
	c.state = StateIdle
	return c.snapshotLocked()
}

// Run executes the pipeline for the current question: resolve, execute,
// project, interpret. On success the query, result, graph and
// interpretation are replaced together; resolver or executor failure
// moves the session to Failed. A failed interpretation alone does not
// block Resolved. Duplicate runs while one is in flight return the
// current snapshot unchanged.
func (c *Controller) Run(ctx context.Context) Snapshot {
	c.mu.Lock()
	if c.running {
		c.logger.Info("run ignored, already in flight", "session", c.id)
		s := c.snapshotLocked()
		c.mu.Unlock()
		return s
	}
	question := c.questionLocked()
	if question == "" {
		c.logger.Info("run rejected, empty question", "session", c.id)
		s := c.snapshotLocked()
		s.Warning = emptyQuestionWarning
		c.mu.Unlock()
		return s
	}
	c.running = true
	c.state = StateRunning
	c.mu.Unlock()

	c.runs.Inc()
	start := time.Now()
	snap := c.run(ctx, question)
	c.runDuration.Since(start)

	c.publish(ctx, question, snap, time.Since(start))
	return snap
}

// run executes the pipeline outside the lock and commits the outcome.
func (c *Controller) run(ctx context.Context, question string) Snapshot {
	var resolved *domain.StructuredQuery

	pipeline := fn.Then(
		fn.Then(
			fn.TracedStage("session.resolve", func(ctx context.Context, q string) fn.Result[domain.StructuredQuery] {
				return fn.FromPair(c.resolver.Resolve(ctx, q))
			}),
			fn.TapStage(func(_ context.Context, sq domain.StructuredQuery) {
				resolved = &sq
			}),
		),
		fn.TracedStage("session.execute", func(ctx context.Context, sq domain.StructuredQuery) fn.Result[domain.ResultSet] {
			return fn.FromPair(c.executor.Execute(ctx, sq))
		}),
	)

	rows, err := pipeline(ctx, question).Unwrap()
	if err != nil {
		c.runsFailed.Inc()
		c.logger.Error("run failed", "session", c.id, "err", err)
		return c.commitFailure(resolved, err)
	}

	model := viz.Project(rows)

	var interp *domain.Interpretation
	if c.interpret != nil {
		if v, err := c.interpret.Interpret(ctx, question, rows); err != nil {
			// Interpretation is auxiliary; show rows without prose.
			c.logger.Warn("interpretation failed, continuing without", "session", c.id, "err", err)
		} else {
			interp = &v
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.query = resolved
	c.result = &rows
	c.graph = &model
	c.interp = interp
	c.errMsg = ""
	c.state = StateResolved
	c.running = false
	return c.snapshotLocked()
}

// commitFailure records a resolver or executor failure. The offending
// query text, if resolution got that far, stays visible for diagnosis;
// otherwise the prior query text is left in place.
func (c *Controller) commitFailure(resolved *domain.StructuredQuery, err error) Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	if resolved != nil {
		c.query = resolved
	}
	c.result = nil
	c.graph = nil
	c.interp = nil
	c.errMsg = err.Error()
	c.state = StateFailed
	c.running = false
	return c.snapshotLocked()
}

// Snapshot returns the current view of the session.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

func (c *Controller) snapshotLocked() Snapshot {
	return Snapshot{
		ID:             c.id,
		State:          c.state,
		Question:       c.questionLocked(),
		Query:          c.query,
		Result:         c.result,
		Graph:          c.graph,
		Interpretation: c.interp,
		Error:          c.errMsg,
	}
}
