package hub

import (
	"context"
	"time"

	"github.com/aalemi-dev/reqscope/event"
	"github.com/aalemi-dev/reqscope/scope"
)

// Client is the telemetry client a hub submits captured events to. The
// client package provides the concrete implementation.
type Client interface {
	// CaptureEvent applies sc to ev and queues it. It returns the event ID,
	// or "" when the event was dropped.
	CaptureEvent(ev *event.Event, sc *scope.Scope) string
	CaptureException(err error, sc *scope.Scope) string
	CaptureMessage(msg string, level event.Level, sc *scope.Scope) string

	// Flush blocks until queued events are delivered or timeout elapses. It
	// reports whether everything was delivered.
	Flush(timeout time.Duration) bool

	TracingEnabled() bool
	// SampleTransaction decides whether a new transaction is sampled.
	SampleTransaction() bool
}

// Logger is the subset of logger.Logger the hub reports through.
type Logger interface {
	InfoWithContext(ctx context.Context, msg string, err error, fields ...map[string]interface{})
	WarnWithContext(ctx context.Context, msg string, err error, fields ...map[string]interface{})
	ErrorWithContext(ctx context.Context, msg string, err error, fields ...map[string]interface{})
}
