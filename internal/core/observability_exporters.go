package core

import (
	"context"
	"encoding/json"
	"errors"
	"expvar"
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"time"
)

var expvarSeq uint64

// OperationStats aggregates one allocation operation's expvar-exported
// timings. MaxMS tracks the slowest observed call so contended booking
// transactions stand out without a histogram.
type OperationStats struct {
	Calls   int64   `json:"calls"`
	Errors  int64   `json:"errors"`
	TotalMS float64 `json:"total_ms"`
	MaxMS   float64 `json:"max_ms"`
}

// ExpvarMetricsRecorder publishes per-operation aggregates via expvar, for
// deployments that want process-local metrics without a scrape endpoint.
type ExpvarMetricsRecorder struct {
	name  string
	mu    sync.Mutex
	stats map[string]OperationStats
}

// NewExpvarMetricsRecorder constructs an expvar-backed recorder published
// under the supplied name. An empty name gets a generated identifier.
func NewExpvarMetricsRecorder(name string) *ExpvarMetricsRecorder {
	if name == "" {
		name = fmt.Sprintf("allocation_service_metrics_%d", atomic.AddUint64(&expvarSeq, 1))
	}
	rec := &ExpvarMetricsRecorder{
		name:  name,
		stats: make(map[string]OperationStats),
	}
	expvar.Publish(name, expvar.Func(func() any {
		return rec.Snapshot()
	}))
	return rec
}

// Name returns the expvar export name associated with the recorder.
func (r *ExpvarMetricsRecorder) Name() string {
	return r.name
}

// Snapshot returns a copy of the per-operation aggregates.
func (r *ExpvarMetricsRecorder) Snapshot() map[string]OperationStats {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[string]OperationStats, len(r.stats))
	for operation, stats := range r.stats {
		out[operation] = stats
	}
	return out
}

// Observe records a service operation outcome.
func (r *ExpvarMetricsRecorder) Observe(_ context.Context, operation string, success bool, duration time.Duration) {
	if operation == "" {
		return
	}
	ms := float64(duration) / float64(time.Millisecond)

	r.mu.Lock()
	stats := r.stats[operation]
	stats.Calls++
	if !success {
		stats.Errors++
	}
	stats.TotalMS += ms
	if ms > stats.MaxMS {
		stats.MaxMS = ms
	}
	r.stats[operation] = stats
	r.mu.Unlock()
}

// JSONTraceEntry is one operation span in the JSON-lines trace. Conflict
// carries the domain conflict kind when the operation failed with one, so a
// contested booking reads differently from a hard error.
type JSONTraceEntry struct {
	Seq        uint64    `json:"seq"`
	Operation  string    `json:"operation"`
	Status     string    `json:"status"`
	Conflict   string    `json:"conflict,omitempty"`
	DurationMS float64   `json:"duration_ms"`
	Error      string    `json:"error,omitempty"`
	StartedAt  time.Time `json:"started_at"`
	EndedAt    time.Time `json:"ended_at"`
}

// JSONTraceTracer serializes spans to a writer as JSON lines and retains
// them for inspection. Entries are numbered in completion order.
type JSONTraceTracer struct {
	mu      sync.Mutex
	seq     uint64
	entries []JSONTraceEntry
	enc     *json.Encoder
}

// NewJSONTracer constructs a tracer writing spans to w. A nil writer keeps
// spans in memory only.
func NewJSONTracer(w io.Writer) *JSONTraceTracer {
	var enc *json.Encoder
	if w != nil {
		enc = json.NewEncoder(w)
	}
	return &JSONTraceTracer{enc: enc}
}

// Entries returns a copy of all recorded spans.
func (t *JSONTraceTracer) Entries() []JSONTraceEntry {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]JSONTraceEntry, len(t.entries))
	copy(out, t.entries)
	return out
}

// Start implements the Tracer interface.
func (t *JSONTraceTracer) Start(ctx context.Context, operation string) (context.Context, TraceSpan) {
	return ctx, &jsonTraceSpan{
		tracer:    t,
		operation: operation,
		started:   time.Now().UTC(),
	}
}

type jsonTraceSpan struct {
	tracer    *JSONTraceTracer
	operation string
	started   time.Time
}

func (s *jsonTraceSpan) End(err error) {
	status := "success"
	var errMsg, conflict string
	if err != nil {
		status = "error"
		errMsg = err.Error()
		var conflictErr *ConflictError
		if errors.As(err, &conflictErr) {
			conflict = string(conflictErr.Kind)
		}
	}
	ended := time.Now().UTC()
	entry := JSONTraceEntry{
		Operation:  s.operation,
		Status:     status,
		Conflict:   conflict,
		DurationMS: float64(ended.Sub(s.started)) / float64(time.Millisecond),
		Error:      errMsg,
		StartedAt:  s.started,
		EndedAt:    ended,
	}

	s.tracer.mu.Lock()
	s.tracer.seq++
	entry.Seq = s.tracer.seq
	s.tracer.entries = append(s.tracer.entries, entry)
	if s.tracer.enc != nil {
		_ = s.tracer.enc.Encode(entry)
	}
	s.tracer.mu.Unlock()
}
