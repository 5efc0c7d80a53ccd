package transport

import (
	"context"

	"github.com/aalemi-dev/reqscope/event"
)

// Log writes a summary line per event to a Logger. It is the default
// deliverer for local runs.
type Log struct {
	logger Logger
}

func NewLog(l Logger) *Log {
	return &Log{logger: l}
}

func (d *Log) Deliver(ctx context.Context, events []*event.Event) error {
	for _, ev := range events {
		fields := map[string]interface{}{
			"event_id": ev.ID,
		}
		if ev.Transaction != "" {
			fields["transaction"] = ev.Transaction
		}
		if ev.Trace != nil {
			fields["trace_id"] = ev.Trace.TraceID
			fields["span_id"] = ev.Trace.SpanID
		}

		switch {
		case ev.IsTransaction():
			fields["spans"] = len(ev.Spans)
			fields["duration_ms"] = ev.Timestamp.Sub(ev.StartTimestamp).Milliseconds()
			if ev.Trace != nil {
				fields["status"] = ev.Trace.Status
			}
			d.logger.InfoWithContext(ctx, "transaction", nil, fields)
		case len(ev.Exceptions) > 0:
			exc := ev.Exceptions[len(ev.Exceptions)-1]
			fields["exception_type"] = exc.Type
			if exc.Mechanism != nil && exc.Mechanism.Handled != nil {
				fields["handled"] = *exc.Mechanism.Handled
			}
			d.logger.ErrorWithContext(ctx, exc.Value, nil, fields)
		default:
			fields["level"] = string(ev.Level)
			d.logger.InfoWithContext(ctx, ev.Message, nil, fields)
		}
	}
	return nil
}
