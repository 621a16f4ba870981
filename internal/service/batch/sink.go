package batch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/heartmarshall/ntmanager-backend/internal/domain"
)

// Sink delivers notifications somewhere: a message broker, connected
// websocket clients, the log.
type Sink interface {
	Notify(ctx context.Context, n domain.Notification) error
}

// Fanout delivers each notification to every sink. A failing sink does not
// stop delivery to the others.
type Fanout struct {
	sinks []Sink
}

// NewFanout creates a Fanout over the non-nil sinks.
func NewFanout(sinks ...Sink) *Fanout {
	f := &Fanout{}
	for _, s := range sinks {
		if s != nil {
			f.sinks = append(f.sinks, s)
		}
	}
	return f
}

// Notify implements Sink.
func (f *Fanout) Notify(ctx context.Context, n domain.Notification) error {
	var errs []error
	for _, s := range f.sinks {
		if err := s.Notify(ctx, n); err != nil {
			errs = append(errs, fmt.Errorf("%T: %w", s, err))
		}
	}
	return errors.Join(errs...)
}

// LogSink writes notifications to the structured log.
type LogSink struct {
	log *slog.Logger
}

// NewLogSink creates a LogSink.
func NewLogSink(log *slog.Logger) *LogSink {
	return &LogSink{log: log.With("sink", "log")}
}

// Notify implements Sink.
func (s *LogSink) Notify(ctx context.Context, n domain.Notification) error {
	s.log.InfoContext(ctx, "notification",
		slog.String("operation_id", n.OperationID),
		slog.String("kind", string(n.Kind)),
		slog.String("target_id", n.TargetID),
		slog.Int("count", n.Count),
		slog.String("message", n.Message),
	)
	return nil
}
