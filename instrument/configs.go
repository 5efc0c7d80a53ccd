package instrument

import (
	"context"
	"time"

	"github.com/aalemi-dev/reqscope/tracing"
)

// FinalizeMode selects when finalization runs relative to the platform's
// end-of-response signal.
type FinalizeMode string

const (
	// Blocking finalizes before ServeHTTP returns, so the server holds the
	// request open until the trace is finished and telemetry is flushed.
	// Added latency is bounded by FlushTimeout.
	Blocking FinalizeMode = "blocking"

	// Detached finalizes in a goroutine after ServeHTTP returns. Telemetry
	// can be lost if the process is torn down right after the response,
	// e.g. on serverless platforms that freeze the instance.
	Detached FinalizeMode = "detached"
)

const DefaultFlushTimeout = 2 * time.Second

// Config controls the request wrapper.
type Config struct {
	// FlushTimeout bounds the telemetry flush during finalization.
	FlushTimeout time.Duration `yaml:"flush_timeout" envconfig:"FLUSH_TIMEOUT"`

	// FinalizeMode is "blocking" (default) or "detached".
	FinalizeMode FinalizeMode `yaml:"finalize_mode" envconfig:"FINALIZE_MODE"`

	// TraceHeader is the inbound header carrying traceId-spanId-sampled.
	TraceHeader string `yaml:"trace_header" envconfig:"TRACE_HEADER"`
}

func (c Config) withDefaults() Config {
	if c.FlushTimeout <= 0 {
		c.FlushTimeout = DefaultFlushTimeout
	}
	if c.FinalizeMode != Detached {
		c.FinalizeMode = Blocking
	}
	if c.TraceHeader == "" {
		c.TraceHeader = tracing.DefaultTraceHeader
	}
	return c
}

// Logger is the logging API the wrapper reports through.
type Logger interface {
	InfoWithContext(ctx context.Context, msg string, err error, fields ...map[string]interface{})
	WarnWithContext(ctx context.Context, msg string, err error, fields ...map[string]interface{})
	ErrorWithContext(ctx context.Context, msg string, err error, fields ...map[string]interface{})
}
