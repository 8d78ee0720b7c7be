package shareresolver

import (
	"context"
	"log/slog"
)

// NoopEventSink is a no-operation implementation of EventSink
type NoopEventSink struct{}

// NewNoopEventSink creates a new no-operation event sink
func NewNoopEventSink() EventSink {
	return &NoopEventSink{}
}

func (n *NoopEventSink) ShareIgnored(ctx context.Context, outcome Outcome) error   { return nil }
func (n *NoopEventSink) ShareResolved(ctx context.Context, outcome Outcome) error  { return nil }
func (n *NoopEventSink) ShareFailed(ctx context.Context, outcome Outcome) error    { return nil }
func (n *NoopEventSink) ShareDelivered(ctx context.Context, outcome Outcome) error { return nil }

// LoggingEventSink writes every event to a structured logger.
// Useful for development and debugging
type LoggingEventSink struct {
	logger *slog.Logger
}

// NewLoggingEventSink creates a new logging event sink
func NewLoggingEventSink(logger *slog.Logger) EventSink {
	if logger == nil {
		logger = slog.Default()
	}
	return &LoggingEventSink{logger: logger}
}

func (l *LoggingEventSink) ShareIgnored(ctx context.Context, o Outcome) error {
	l.logger.InfoContext(ctx, "share ignored", "event_id", o.EventID, "uri", o.URI)
	return nil
}

func (l *LoggingEventSink) ShareResolved(ctx context.Context, o Outcome) error {
	l.logger.InfoContext(ctx, "share resolved", "event_id", o.EventID, "uri", o.URI, "path", o.Path)
	return nil
}

func (l *LoggingEventSink) ShareFailed(ctx context.Context, o Outcome) error {
	l.logger.WarnContext(ctx, "share failed", "event_id", o.EventID, "uri", o.URI, "error", o.Err)
	return nil
}

func (l *LoggingEventSink) ShareDelivered(ctx context.Context, o Outcome) error {
	l.logger.InfoContext(ctx, "share delivered", "event_id", o.EventID, "path", o.Path)
	return nil
}
