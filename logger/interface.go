package logger

import (
	"context"
)

// Logger is the structured logging API shared by reqscope packages and
// applications. Packages that only need to report problems declare a smaller
// interface with the ...WithContext methods they use.
//
// This interface is implemented by *LoggerClient.
type Logger interface {
	Debug(msg string, err error, fields ...map[string]interface{})
	Info(msg string, err error, fields ...map[string]interface{})
	Warn(msg string, err error, fields ...map[string]interface{})
	Error(msg string, err error, fields ...map[string]interface{})
	// Fatal logs and terminates the process.
	Fatal(msg string, err error, fields ...map[string]interface{})

	// Context-aware variants add trace_id, span_id and transaction when
	// tracing is enabled and ctx carries a span.
	DebugWithContext(ctx context.Context, msg string, err error, fields ...map[string]interface{})
	InfoWithContext(ctx context.Context, msg string, err error, fields ...map[string]interface{})
	WarnWithContext(ctx context.Context, msg string, err error, fields ...map[string]interface{})
	ErrorWithContext(ctx context.Context, msg string, err error, fields ...map[string]interface{})
	FatalWithContext(ctx context.Context, msg string, err error, fields ...map[string]interface{})
}
