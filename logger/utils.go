package logger

import (
	"context"
	"sort"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/aalemi-dev/reqscope/tracing"
)

// extractTracingFields returns trace correlation fields for ctx. The request
// span placed on the context by the instrument package takes precedence; an
// OpenTelemetry span is used when there is none.
func (l *LoggerClient) extractTracingFields(ctx context.Context) []zap.Field {
	if !l.tracingEnabled || ctx == nil {
		return nil
	}

	if span := tracing.SpanFromContext(ctx); span != nil {
		fields := []zap.Field{
			zap.String("trace_id", span.TraceID()),
			zap.String("span_id", span.SpanID()),
		}
		if name := span.Transaction().Name(); name != "" {
			fields = append(fields, zap.String("transaction", name))
		}
		return fields
	}

	otelSpan := trace.SpanFromContext(ctx)
	if !otelSpan.IsRecording() {
		return nil
	}
	spanContext := otelSpan.SpanContext()
	if !spanContext.IsValid() {
		return nil
	}
	return []zap.Field{
		zap.String("trace_id", spanContext.TraceID().String()),
		zap.String("span_id", spanContext.SpanID().String()),
	}
}

// convertToZapFields turns err and the field maps into zap fields. Keys of
// each map are emitted in sorted order; later maps win on duplicate keys in
// the encoded output.
func (l *LoggerClient) convertToZapFields(err error, fields ...map[string]interface{}) []zap.Field {
	var zapFields []zap.Field
	if err != nil {
		zapFields = append(zapFields, zap.Error(err))
	}

	for _, fieldMap := range fields {
		keys := make([]string, 0, len(fieldMap))
		for key := range fieldMap {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		for _, key := range keys {
			zapFields = append(zapFields, zap.Any(key, fieldMap[key]))
		}
	}
	return zapFields
}

func (l *LoggerClient) Info(msg string, err error, fields ...map[string]interface{}) {
	l.Zap.Info(msg, l.convertToZapFields(err, fields...)...)
}

func (l *LoggerClient) Debug(msg string, err error, fields ...map[string]interface{}) {
	l.Zap.Debug(msg, l.convertToZapFields(err, fields...)...)
}

func (l *LoggerClient) Warn(msg string, err error, fields ...map[string]interface{}) {
	l.Zap.Warn(msg, l.convertToZapFields(err, fields...)...)
}

func (l *LoggerClient) Error(msg string, err error, fields ...map[string]interface{}) {
	l.Zap.Error(msg, l.convertToZapFields(err, fields...)...)
}

// Fatal logs at fatal level and calls os.Exit(1).
func (l *LoggerClient) Fatal(msg string, err error, fields ...map[string]interface{}) {
	l.Zap.Fatal(msg, l.convertToZapFields(err, fields...)...)
}

func (l *LoggerClient) withContext(ctx context.Context, err error, fields []map[string]interface{}) []zap.Field {
	return append(l.convertToZapFields(err, fields...), l.extractTracingFields(ctx)...)
}

// InfoWithContext logs at info level with the trace fields of ctx.
//
//	log.InfoWithContext(r.Context(), "order created", nil, map[string]interface{}{
//	    "order_id": id,
//	})
func (l *LoggerClient) InfoWithContext(ctx context.Context, msg string, err error, fields ...map[string]interface{}) {
	l.Zap.Info(msg, l.withContext(ctx, err, fields)...)
}

func (l *LoggerClient) DebugWithContext(ctx context.Context, msg string, err error, fields ...map[string]interface{}) {
	l.Zap.Debug(msg, l.withContext(ctx, err, fields)...)
}

func (l *LoggerClient) WarnWithContext(ctx context.Context, msg string, err error, fields ...map[string]interface{}) {
	l.Zap.Warn(msg, l.withContext(ctx, err, fields)...)
}

func (l *LoggerClient) ErrorWithContext(ctx context.Context, msg string, err error, fields ...map[string]interface{}) {
	l.Zap.Error(msg, l.withContext(ctx, err, fields)...)
}

// FatalWithContext logs at fatal level with the trace fields of ctx and calls
// os.Exit(1).
func (l *LoggerClient) FatalWithContext(ctx context.Context, msg string, err error, fields ...map[string]interface{}) {
	l.Zap.Fatal(msg, l.withContext(ctx, err, fields)...)
}
