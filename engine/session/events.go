package session

import (
	"context"
	"time"

	"github.com/loregraph/loregraph/engine/domain"
)

// RunEvent describes one completed pipeline run.
type RunEvent struct {
	SessionID  string            `json:"session_id"`
	Question   string            `json:"question"`
	Query      string            `json:"query,omitempty"`
	Provenance domain.Provenance `json:"provenance,omitempty"`
	State      State             `json:"state"`
	Rows       int               `json:"rows"`
	Error      string            `json:"error,omitempty"`
	DurationMS int64             `json:"duration_ms"`
}

// EventSink receives run events. Implementations must not block for long;
// publish failures are the sink's problem, not the controller's.
type EventSink interface {
	RunCompleted(ctx context.Context, ev RunEvent)
}

// publish notifies the event sink, if any, after a run.
func (c *Controller) publish(ctx context.Context, question string, snap Snapshot, took time.Duration) {
	if c.events == nil {
		return
	}
	ev := RunEvent{
		SessionID:  c.id,
		Question:   question,
		State:      snap.State,
		Error:      snap.Error,
		DurationMS: took.Milliseconds(),
	}
	if snap.Query != nil {
		ev.Query = snap.Query.Text
		ev.Provenance = snap.Query.Provenance
	}
	if snap.Result != nil {
		ev.Rows = len(snap.Result.Rows)
	}
	c.events.RunCompleted(ctx, ev)
}
