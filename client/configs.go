package client

import "context"

// Config is the telemetry client configuration.
type Config struct {
	// Environment, Release and ServerName are stamped on every event that
	// does not carry its own.
	Environment string `yaml:"environment" envconfig:"ENVIRONMENT"`
	Release     string `yaml:"release" envconfig:"RELEASE"`
	ServerName  string `yaml:"server_name" envconfig:"SERVER_NAME"`

	// EnableTracing turns on transactions. Without it requests are still
	// isolated and failures captured, but no spans are recorded.
	EnableTracing bool `yaml:"enable_tracing" envconfig:"ENABLE_TRACING"`

	// TracesSampleRate is the share of new traces that are recorded, in
	// [0, 1]. Unset means 1; 0 records no new traces. Values outside the
	// range are clamped. Upstream sampling decisions always win.
	TracesSampleRate *float64 `yaml:"traces_sample_rate" envconfig:"TRACES_SAMPLE_RATE"`
}

// SampleRate returns a pointer to rate for Config.TracesSampleRate.
func SampleRate(rate float64) *float64 {
	return &rate
}

func (c Config) sampleRate() float64 {
	if c.TracesSampleRate == nil {
		return 1
	}
	switch rate := *c.TracesSampleRate; {
	case rate < 0:
		return 0
	case rate > 1:
		return 1
	default:
		return rate
	}
}

// Logger is the logging API the client reports through.
type Logger interface {
	InfoWithContext(ctx context.Context, msg string, err error, fields ...map[string]interface{})
	WarnWithContext(ctx context.Context, msg string, err error, fields ...map[string]interface{})
	ErrorWithContext(ctx context.Context, msg string, err error, fields ...map[string]interface{})
}
