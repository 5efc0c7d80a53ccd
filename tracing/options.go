package tracing

import "time"

// SpanOption configures a span when it is started.
type SpanOption func(*Span)

// WithOp sets the span operation, e.g. "http.server" or "db".
func WithOp(op string) SpanOption {
	return func(s *Span) { s.op = op }
}

func WithDescription(description string) SpanOption {
	return func(s *Span) { s.description = description }
}

// WithSampled sets the sampling decision. It only matters for transactions;
// children inherit the transaction's decision.
func WithSampled(sampled bool) SpanOption {
	return func(s *Span) { s.sampled = sampled }
}

func WithStartTime(t time.Time) SpanOption {
	return func(s *Span) { s.start = t.UTC() }
}

func WithTag(key, value string) SpanOption {
	return func(s *Span) { s.tags[key] = value }
}

// WithLinkage continues the upstream trace described by l. A nil linkage is
// ignored, so the span starts a fresh trace.
func WithLinkage(l *TraceLinkage) SpanOption {
	return func(s *Span) {
		if l == nil {
			return
		}
		if l.TraceID != "" {
			s.traceID = l.TraceID
		}
		s.parentSpanID = l.ParentSpanID
		if l.Sampled != nil {
			s.sampled = *l.Sampled
		}
	}
}

// WithOnFinish registers fn to run once when the span finishes. The client
// uses it to submit the transaction event.
func WithOnFinish(fn func(*Span)) SpanOption {
	return func(s *Span) { s.onFinish = fn }
}
