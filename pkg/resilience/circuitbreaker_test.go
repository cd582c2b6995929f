package resilience

import (
	"context"
	"errors"
	"testing"
	"time"
)

func failing(_ context.Context) error { return errors.New("fail") }
func succeeding(_ context.Context) error { return nil }

func TestBreaker_StaysClosedOnSuccess(t *testing.T) {
	b := NewBreaker(BreakerOpts{FailThreshold: 2, Timeout: time.Minute})
	for i := 0; i < 10; i++ {
		if err := b.Call(context.Background(), succeeding); err != nil {
			t.Fatalf("call %d: %v", i, err)
		}
	}
	if b.State() != StateClosed {
		t.Fatalf("state = %v, want closed", b.State())
	}
}

func TestBreaker_TripsAfterThreshold(t *testing.T) {
	b := NewBreaker(BreakerOpts{FailThreshold: 3, Timeout: time.Minute})
	for i := 0; i < 3; i++ {
		b.Call(context.Background(), failing)
	}
	if b.State() != StateOpen {
		t.Fatalf("state = %v, want open", b.State())
	}
	if err := b.Call(context.Background(), succeeding); !errors.Is(err, ErrCircuitOpen) {
		t.Fatalf("open breaker should reject, got %v", err)
	}
}

func TestBreaker_SuccessResetsFailureCount(t *testing.T) {
	b := NewBreaker(BreakerOpts{FailThreshold: 3, Timeout: time.Minute})
	b.Call(context.Background(), failing)
	b.Call(context.Background(), failing)
	b.Call(context.Background(), succeeding)
	b.Call(context.Background(), failing)
	b.Call(context.Background(), failing)
	if b.State() != StateClosed {
		t.Fatalf("state = %v, want closed after reset", b.State())
	}
}

func TestBreaker_HalfOpenAfterTimeout(t *testing.T) {
	now := time.Now()
	b := NewBreaker(BreakerOpts{FailThreshold: 1, Timeout: 30 * time.Second})
	b.now = func() time.Time { return now }

	b.Call(context.Background(), failing)
	if b.State() != StateOpen {
		t.Fatalf("state = %v, want open", b.State())
	}

	now = now.Add(31 * time.Second)
	if b.State() != StateHalfOpen {
		t.Fatalf("state = %v, want half-open after timeout", b.State())
	}

	// A successful probe closes the breaker.
	if err := b.Call(context.Background(), succeeding); err != nil {
		t.Fatalf("probe: %v", err)
	}
	if b.State() != StateClosed {
		t.Fatalf("state = %v, want closed after probe", b.State())
	}
}

func TestBreaker_HalfOpenProbeFailureReopens(t *testing.T) {
	now := time.Now()
	b := NewBreaker(BreakerOpts{FailThreshold: 1, Timeout: 30 * time.Second})
	b.now = func() time.Time { return now }

	b.Call(context.Background(), failing)
	now = now.Add(31 * time.Second)

	if err := b.Call(context.Background(), failing); err == nil {
		t.Fatal("probe should return its error")
	}
	if b.State() != StateOpen {
		t.Fatalf("state = %v, want open after failed probe", b.State())
	}
}

func TestBreaker_HalfOpenLimitsProbes(t *testing.T) {
	now := time.Now()
	b := NewBreaker(BreakerOpts{FailThreshold: 1, Timeout: 30 * time.Second, HalfOpenMax: 1})
	b.now = func() time.Time { return now }

	b.Call(context.Background(), failing)
	now = now.Add(31 * time.Second)

	blocked := make(chan struct{})
	release := make(chan struct{})
	go b.Call(context.Background(), func(_ context.Context) error {
		close(blocked)
		<-release
		return nil
	})
	<-blocked

	if err := b.Call(context.Background(), succeeding); !errors.Is(err, ErrCircuitOpen) {
		t.Fatalf("second probe should be rejected, got %v", err)
	}
	close(release)
}

func TestStateString(t *testing.T) {
	tests := []struct {
		state State
		want  string
	}{
		{StateClosed, "closed"},
		{StateOpen, "open"},
		{StateHalfOpen, "half-open"},
		{State(99), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.state.String(); got != tt.want {
			t.Errorf("State(%d).String() = %q, want %q", tt.state, got, tt.want)
		}
	}
}
