package logger

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx"
	"go.uber.org/fx/fxtest"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/aalemi-dev/reqscope/tracing"
)

func newObservedLogger(level zapcore.Level, tracingEnabled bool) (*LoggerClient, *observer.ObservedLogs) {
	core, logs := observer.New(level)
	return NewWithZap(zap.New(core), tracingEnabled), logs
}

func TestNewLoggerClient_Levels(t *testing.T) {
	t.Parallel()
	cases := []struct {
		level    string
		expected zapcore.Level
	}{
		{Debug, zapcore.DebugLevel},
		{Info, zapcore.InfoLevel},
		{Warning, zapcore.WarnLevel},
		{Error, zapcore.ErrorLevel},
		{"unknown", zapcore.InfoLevel},
	}

	for _, tc := range cases {
		t.Run(tc.level, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.expected, parseLevel(tc.level))

			l, err := NewLoggerClient(Config{Level: tc.level, ServiceName: "test"})
			require.NoError(t, err)
			require.NotNil(t, l.Zap)
			assert.True(t, l.Zap.Core().Enabled(tc.expected))
		})
	}
}

func TestNewLoggerClient_ConsoleEncoding(t *testing.T) {
	t.Parallel()
	l, err := NewLoggerClient(Config{Level: Info, Encoding: "console", EnableTracing: true})
	require.NoError(t, err)
	assert.True(t, l.tracingEnabled)
}

func TestNewNop(t *testing.T) {
	t.Parallel()
	assert.NotPanics(t, func() {
		NewNop().ErrorWithContext(context.Background(), "dropped", errors.New("x"))
	})
	assert.NotNil(t, NewWithZap(nil, false).Zap)
}

func TestConvertToZapFields(t *testing.T) {
	t.Parallel()
	l, _ := newObservedLogger(zapcore.DebugLevel, false)

	assert.Empty(t, l.convertToZapFields(nil))

	fields := l.convertToZapFields(errors.New("oops"),
		map[string]interface{}{"b": 2, "a": "1"},
		map[string]interface{}{"c": true},
	)
	require.Len(t, fields, 4)
	assert.Equal(t, "error", fields[0].Key)
	assert.Equal(t, "a", fields[1].Key)
	assert.Equal(t, "b", fields[2].Key)
	assert.Equal(t, "c", fields[3].Key)
}

func TestBasicLevels(t *testing.T) {
	t.Parallel()
	l, logs := newObservedLogger(zapcore.DebugLevel, false)

	l.Debug("d", nil)
	l.Info("i", nil, map[string]interface{}{"k": "v"})
	l.Warn("w", nil)
	l.Error("e", errors.New("boom"))

	entries := logs.All()
	require.Len(t, entries, 4)
	assert.Equal(t, zapcore.DebugLevel, entries[0].Level)
	assert.Equal(t, "v", entries[1].ContextMap()["k"])
	assert.Equal(t, zapcore.WarnLevel, entries[2].Level)
	assert.Equal(t, "boom", entries[3].ContextMap()["error"])
}

func TestDebug_SuppressedAtInfoLevel(t *testing.T) {
	t.Parallel()
	l, logs := newObservedLogger(zapcore.InfoLevel, false)
	l.Debug("should not appear", nil)
	l.DebugWithContext(context.Background(), "nor this", nil)
	assert.Equal(t, 0, logs.Len())
}

func TestWithContext_RequestSpan(t *testing.T) {
	t.Parallel()
	l, logs := newObservedLogger(zapcore.DebugLevel, true)
	tx := tracing.StartTransaction("GET /users/[id]")
	child := tx.StartChild("db")
	ctx := tracing.ContextWithSpan(context.Background(), child)

	l.WarnWithContext(ctx, "slow query", nil, map[string]interface{}{"ms": 1200})

	require.Equal(t, 1, logs.Len())
	fields := logs.All()[0].ContextMap()
	assert.Equal(t, tx.TraceID(), fields["trace_id"])
	assert.Equal(t, child.SpanID(), fields["span_id"])
	assert.Equal(t, "GET /users/[id]", fields["transaction"])
	assert.EqualValues(t, 1200, fields["ms"])
}

func TestWithContext_TracingDisabled(t *testing.T) {
	t.Parallel()
	l, logs := newObservedLogger(zapcore.DebugLevel, false)
	ctx := tracing.ContextWithSpan(context.Background(), tracing.StartTransaction("GET /"))

	l.InfoWithContext(ctx, "no correlation", nil)
	l.ErrorWithContext(ctx, "still none", errors.New("x"))

	for _, entry := range logs.All() {
		_, ok := entry.ContextMap()["trace_id"]
		assert.False(t, ok)
	}
}

func TestExtractTracingFields_NoSpan(t *testing.T) {
	t.Parallel()
	l, _ := newObservedLogger(zapcore.DebugLevel, true)

	assert.Empty(t, l.extractTracingFields(context.Background()))
	//nolint:staticcheck // nil context is guarded
	assert.Empty(t, l.extractTracingFields(nil))
}

func TestFXModule(t *testing.T) {
	t.Parallel()
	var log Logger
	app := fxtest.New(t,
		fx.Supply(Config{Level: Info, ServiceName: "fx-test"}),
		FXModule,
		fx.Populate(&log),
	)
	app.RequireStart()
	require.NotNil(t, log)
	app.RequireStop()
}
