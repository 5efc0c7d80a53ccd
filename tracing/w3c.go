package tracing

import (
	"context"
	"net/http"

	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

var w3c = propagation.TraceContext{}

// ExtractW3C reads linkage from a W3C traceparent header, for callers
// instrumented with OpenTelemetry rather than sentry-trace. It returns nil
// when the header is missing or invalid.
func ExtractW3C(header http.Header) *TraceLinkage {
	if header == nil {
		return nil
	}
	sc := trace.SpanContextFromContext(w3c.Extract(context.Background(), propagation.HeaderCarrier(header)))
	if !sc.IsValid() {
		return nil
	}
	sampled := sc.IsSampled()
	return &TraceLinkage{
		TraceID:      sc.TraceID().String(),
		ParentSpanID: sc.SpanID().String(),
		Sampled:      &sampled,
	}
}

// InjectW3C writes s into header as a W3C traceparent. It reports false when
// s continues a trace whose IDs are not W3C sized.
func (s *Span) InjectW3C(header http.Header) bool {
	traceID, err := trace.TraceIDFromHex(s.traceID)
	if err != nil {
		return false
	}
	spanID, err := trace.SpanIDFromHex(s.spanID)
	if err != nil {
		return false
	}
	var flags trace.TraceFlags
	if s.Sampled() {
		flags = trace.FlagsSampled
	}
	sc := trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    traceID,
		SpanID:     spanID,
		TraceFlags: flags,
		Remote:     true,
	})
	w3c.Inject(trace.ContextWithSpanContext(context.Background(), sc), propagation.HeaderCarrier(header))
	return true
}
