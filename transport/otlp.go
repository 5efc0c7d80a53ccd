package transport

import (
	"context"
	"fmt"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	semconv "go.opentelemetry.io/otel/semconv/v1.17.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/aalemi-dev/reqscope/event"
	"github.com/aalemi-dev/reqscope/tracing"
)

// OTLP converts transaction events and their child spans into OpenTelemetry
// spans and exports them. Error and message events are skipped.
type OTLP struct {
	exporter sdktrace.SpanExporter
	resource *resource.Resource
}

// NewOTLP exports over OTLP/HTTP.
func NewOTLP(ctx context.Context, cfg OTLPConfig) (*OTLP, error) {
	var opts []otlptracehttp.Option
	if cfg.Endpoint != "" {
		opts = append(opts, otlptracehttp.WithEndpoint(cfg.Endpoint))
	}
	if cfg.Insecure {
		opts = append(opts, otlptracehttp.WithInsecure())
	}
	exporter, err := otlptrace.New(ctx, otlptracehttp.NewClient(opts...))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize OTLP exporter: %w", err)
	}
	return NewOTLPWithExporter(exporter, cfg), nil
}

// NewOTLPWithExporter exports through any span exporter.
func NewOTLPWithExporter(exporter sdktrace.SpanExporter, cfg OTLPConfig) *OTLP {
	return &OTLP{
		exporter: exporter,
		resource: resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceName(cfg.ServiceName),
			semconv.DeploymentEnvironment(cfg.Environment),
		),
	}
}

func (o *OTLP) Deliver(ctx context.Context, events []*event.Event) error {
	var spans tracetest.SpanStubs
	for _, ev := range events {
		if !ev.IsTransaction() || ev.Trace == nil {
			continue
		}
		spans = append(spans, o.transactionStub(ev))
		for _, child := range ev.Spans {
			spans = append(spans, o.childStub(child))
		}
	}
	if len(spans) == 0 {
		return nil
	}
	return o.exporter.ExportSpans(ctx, spans.Snapshots())
}

func (o *OTLP) Shutdown(ctx context.Context) error {
	return o.exporter.Shutdown(ctx)
}

func (o *OTLP) transactionStub(ev *event.Event) tracetest.SpanStub {
	attrs := []attribute.KeyValue{
		attribute.String("reqscope.op", ev.Trace.Op),
		attribute.String("reqscope.status", ev.Trace.Status),
	}
	attrs = append(attrs, tagAttributes(ev.Tags)...)

	stub := tracetest.SpanStub{
		Name:        ev.Transaction,
		SpanContext: spanContext(ev.Trace.TraceID, ev.Trace.SpanID, false),
		SpanKind:    trace.SpanKindServer,
		StartTime:   ev.StartTimestamp,
		EndTime:     ev.Timestamp,
		Attributes:  attrs,
		Status:      spanStatus(ev.Trace.Status),
		Resource:    o.resource,
	}
	if ev.Trace.ParentSpanID != "" {
		stub.Parent = spanContext(ev.Trace.TraceID, ev.Trace.ParentSpanID, true)
	}
	return stub
}

func (o *OTLP) childStub(s event.Span) tracetest.SpanStub {
	name := s.Op
	if s.Description != "" {
		name = s.Description
	}
	attrs := []attribute.KeyValue{attribute.String("reqscope.op", s.Op)}
	attrs = append(attrs, tagAttributes(s.Tags)...)

	return tracetest.SpanStub{
		Name:        name,
		SpanContext: spanContext(s.TraceID, s.SpanID, false),
		Parent:      spanContext(s.TraceID, s.ParentSpanID, false),
		SpanKind:    trace.SpanKindInternal,
		StartTime:   s.StartTimestamp,
		EndTime:     s.Timestamp,
		Attributes:  attrs,
		Status:      spanStatus(s.Status),
		Resource:    o.resource,
	}
}

func tagAttributes(tags map[string]string) []attribute.KeyValue {
	out := make([]attribute.KeyValue, 0, len(tags))
	for k, v := range tags {
		out = append(out, attribute.String(k, v))
	}
	return out
}

func spanStatus(status string) sdktrace.Status {
	if tracing.Status(status).IsError() {
		return sdktrace.Status{Code: codes.Error, Description: status}
	}
	return sdktrace.Status{Code: codes.Ok}
}

func spanContext(traceID, spanID string, remote bool) trace.SpanContext {
	tid, _ := trace.TraceIDFromHex(fitHex(traceID, 32))
	sid, _ := trace.SpanIDFromHex(fitHex(spanID, 16))
	return trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    tid,
		SpanID:     sid,
		TraceFlags: trace.FlagsSampled,
		Remote:     remote,
	})
}

// fitHex left-pads or truncates an id to n hex characters. Upstream ids of
// any length are accepted by the trace header parser.
func fitHex(id string, n int) string {
	id = strings.ToLower(id)
	if len(id) >= n {
		return id[len(id)-n:]
	}
	return strings.Repeat("0", n-len(id)) + id
}
