package metrics

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestCounter(t *testing.T) {
	r := New()
	c := r.Counter("runs_total", "Total runs")
	c.Inc()
	c.Add(2)
	if c.Value() != 3 {
		t.Fatalf("value = %d, want 3", c.Value())
	}
	if again := r.Counter("runs_total", ""); again != c {
		t.Fatal("same name should return the same counter")
	}
}

func TestGauge(t *testing.T) {
	r := New()
	g := r.Gauge("active", "")
	g.Set(5)
	g.Inc()
	g.Dec()
	g.Dec()
	if g.Value() != 4 {
		t.Fatalf("value = %d, want 4", g.Value())
	}
}

func TestHistogramObserve(t *testing.T) {
	r := New()
	h := r.Histogram("latency_seconds", "", []float64{0.1, 1, 10})
	h.Observe(0.05)
	h.Observe(0.5)
	h.Observe(100)

	out := r.Render()
	if !strings.Contains(out, `latency_seconds_bucket{le="0.1"} 1`) {
		t.Errorf("missing first bucket:\n%s", out)
	}
	if !strings.Contains(out, `latency_seconds_bucket{le="1"} 2`) {
		t.Errorf("buckets should be cumulative:\n%s", out)
	}
	if !strings.Contains(out, `latency_seconds_bucket{le="+Inf"} 3`) {
		t.Errorf("missing +Inf bucket:\n%s", out)
	}
	if !strings.Contains(out, "latency_seconds_count 3") {
		t.Errorf("missing count:\n%s", out)
	}
}

func TestRender(t *testing.T) {
	r := New()
	r.Counter("queries_total", "Queries executed").Inc()
	r.Gauge("sessions_active", "Live sessions").Set(2)

	out := r.Render()
	for _, want := range []string{
		"# HELP queries_total Queries executed",
		"# TYPE queries_total counter",
		"queries_total 1",
		"# TYPE sessions_active gauge",
		"sessions_active 2",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("render missing %q:\n%s", want, out)
		}
	}
}

func TestWithLabels(t *testing.T) {
	tests := []struct {
		name string
		kvs  []string
		want string
	}{
		{"x", []string{"k", "v"}, `x{k="v"}`},
		{"x", []string{"a", "1", "b", "2"}, `x{a="1",b="2"}`},
		{"x", nil, "x"},
		{"x", []string{"odd"}, "x"},
	}
	for _, tt := range tests {
		if got := WithLabels(tt.name, tt.kvs...); got != tt.want {
			t.Errorf("WithLabels(%q, %v) = %q, want %q", tt.name, tt.kvs, got, tt.want)
		}
	}
}

func TestLabeledSeriesShareBase(t *testing.T) {
	r := New()
	r.Counter(WithLabels("hits_total", "kind", "curated"), "Hits").Inc()
	r.Counter(WithLabels("hits_total", "kind", "generated"), "").Add(2)

	out := r.Render()
	if strings.Count(out, "# TYPE hits_total counter") != 1 {
		t.Errorf("labeled series must share one TYPE line:\n%s", out)
	}
	if !strings.Contains(out, `hits_total{kind="curated"} 1`) ||
		!strings.Contains(out, `hits_total{kind="generated"} 2`) {
		t.Errorf("missing labeled series:\n%s", out)
	}
}

func TestHandler(t *testing.T) {
	r := New()
	r.Counter("up", "").Inc()

	srv := httptest.NewServer(r.Handler())
	defer srv.Close()

	resp, err := srv.Client().Get(srv.URL)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "text/plain") {
		t.Errorf("content type = %q", ct)
	}
	if !strings.Contains(string(body), "up 1") {
		t.Errorf("body = %s", body)
	}
}
