package logger

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LoggerClient wraps a zap.Logger with the map-based field API used across
// reqscope and optional request trace correlation.
//
// LoggerClient implements the Logger interface.
type LoggerClient struct {
	// Zap is exposed for zap-specific functionality. Most logging should go
	// through the wrapper methods.
	Zap *zap.Logger

	tracingEnabled bool
}

// NewLoggerClient builds a logger from cfg.
//
// Entries are written to stderr with ISO8601 timestamps, capital level names,
// caller information and the process ID and service name as initial fields.
//
//	log, err := logger.NewLoggerClient(logger.Config{
//	    Level:       logger.Info,
//	    ServiceName: "orders",
//	})
func NewLoggerClient(cfg Config) (*LoggerClient, error) {
	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.TimeKey = "timestamp"
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderCfg.EncodeLevel = zapcore.CapitalLevelEncoder
	encoderCfg.EncodeCaller = zapcore.FullCallerEncoder
	encoderCfg.EncodeDuration = zapcore.MillisDurationEncoder

	encoding := cfg.Encoding
	if encoding != "console" {
		encoding = "json"
	}

	config := zap.Config{
		Level:            zap.NewAtomicLevelAt(parseLevel(cfg.Level)),
		Encoding:         encoding,
		EncoderConfig:    encoderCfg,
		OutputPaths:      []string{"stderr"},
		ErrorOutputPaths: []string{"stderr"},
		InitialFields: map[string]interface{}{
			"pid":     os.Getpid(),
			"service": cfg.ServiceName,
		},
	}

	callerSkip := cfg.CallerSkip
	if callerSkip <= 0 {
		callerSkip = 1
	}

	z, err := config.Build(zap.AddCaller(), zap.AddCallerSkip(callerSkip))
	if err != nil {
		return nil, fmt.Errorf("build zap logger: %w", err)
	}

	return &LoggerClient{
		Zap:            z,
		tracingEnabled: cfg.EnableTracing,
	}, nil
}

// NewWithZap wraps an existing zap logger, e.g. one backed by
// zaptest/observer in tests.
func NewWithZap(z *zap.Logger, tracingEnabled bool) *LoggerClient {
	if z == nil {
		z = zap.NewNop()
	}
	return &LoggerClient{Zap: z, tracingEnabled: tracingEnabled}
}

// NewNop returns a logger that discards everything.
func NewNop() *LoggerClient {
	return NewWithZap(zap.NewNop(), false)
}

func parseLevel(level string) zapcore.Level {
	switch level {
	case Debug:
		return zap.DebugLevel
	case Warning:
		return zap.WarnLevel
	case Error:
		return zap.ErrorLevel
	default:
		return zap.InfoLevel
	}
}
