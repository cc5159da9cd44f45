package core

import (
	"btocore/internal/blob"
	"context"
	"log/slog"
	"time"
)

// Logger receives structured key-value log events from the service.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// NewSlogLogger adapts a slog.Logger to the service Logger interface. A nil
// argument uses slog.Default.
func NewSlogLogger(logger *slog.Logger) Logger {
	if logger == nil {
		logger = slog.Default()
	}
	return slogLogger{logger: logger}
}

type slogLogger struct {
	logger *slog.Logger
}

func (l slogLogger) Debug(msg string, args ...any) { l.logger.Debug(msg, args...) }
func (l slogLogger) Info(msg string, args ...any)  { l.logger.Info(msg, args...) }
func (l slogLogger) Warn(msg string, args ...any)  { l.logger.Warn(msg, args...) }
func (l slogLogger) Error(msg string, args ...any) { l.logger.Error(msg, args...) }

// Clock supplies the current time for window and eligibility checks.
type Clock interface {
	Now() time.Time
}

// ClockFunc adapts a function to the Clock interface.
type ClockFunc func() time.Time

// Now implements Clock.
func (f ClockFunc) Now() time.Time { return f() }

// MetricsRecorder observes service operation outcomes.
type MetricsRecorder interface {
	Observe(ctx context.Context, operation string, success bool, duration time.Duration)
}

// Tracer starts spans around service operations.
type Tracer interface {
	Start(ctx context.Context, operation string) (context.Context, TraceSpan)
}

// TraceSpan ends a traced operation, recording its error if any.
type TraceSpan interface {
	End(err error)
}

// AuditStatus records whether an audited operation succeeded.
type AuditStatus string

// Audit statuses.
const (
	AuditStatusSuccess AuditStatus = "success"
	AuditStatusError   AuditStatus = "error"
)

// AuditEntry describes one audited service operation.
type AuditEntry struct {
	Operation string      `json:"operation"`
	Entity    EntityType  `json:"entity,omitempty"`
	EntityID  string      `json:"entity_id,omitempty"`
	Status    AuditStatus `json:"status"`
	Detail    string      `json:"detail,omitempty"`
	At        time.Time   `json:"at"`
}

// AuditRecorder receives audit entries for every service operation.
type AuditRecorder interface {
	Record(ctx context.Context, entry AuditEntry)
}

// Option configures a Service at construction.
type Option func(*Service)

// WithLogger installs a structured logger.
func WithLogger(logger Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithClock overrides the service time source.
func WithClock(clock Clock) Option {
	return func(s *Service) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// WithMetricsRecorder installs a metrics recorder.
func WithMetricsRecorder(recorder MetricsRecorder) Option {
	return func(s *Service) {
		if recorder != nil {
			s.metrics = recorder
		}
	}
}

// WithTracer installs a tracer.
func WithTracer(tracer Tracer) Option {
	return func(s *Service) {
		if tracer != nil {
			s.tracer = tracer
		}
	}
}

// WithAuditRecorder installs an audit recorder.
func WithAuditRecorder(recorder AuditRecorder) Option {
	return func(s *Service) {
		if recorder != nil {
			s.audit = recorder
		}
	}
}

// WithReceiptArchive installs a blob store for booking receipts. Archiving is
// best-effort: a failed write logs a warning and never fails the booking.
func WithReceiptArchive(store blob.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.receipts = store
		}
	}
}
