package client

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx"
	"go.uber.org/fx/fxtest"

	"github.com/aalemi-dev/reqscope/event"
	"github.com/aalemi-dev/reqscope/hub"
	"github.com/aalemi-dev/reqscope/observability"
	"github.com/aalemi-dev/reqscope/scope"
	"github.com/aalemi-dev/reqscope/tracing"
	"github.com/aalemi-dev/reqscope/transport"
)

func newMemoryClient(t *testing.T, cfg Config, opts ...Option) (*Client, *transport.Memory) {
	t.Helper()
	mem := transport.NewMemory()
	tr := transport.NewAsync(mem, transport.KindMemory, transport.Config{})
	t.Cleanup(func() { _ = tr.Close(context.Background()) })
	c, err := NewClient(cfg, tr, opts...)
	require.NoError(t, err)
	return c, mem
}

func TestNewClient_RequiresTransport(t *testing.T) {
	t.Parallel()
	_, err := NewClient(Config{}, nil)
	assert.ErrorIs(t, err, ErrNilTransport)
}

func TestCaptureException_UnwrapsChain(t *testing.T) {
	t.Parallel()
	c, mem := newMemoryClient(t, Config{Environment: "test", Release: "1.2.3"})
	sc := scope.New()
	sc.SetTag("route", "/orders")

	root := errors.New("connection reset")
	id := c.CaptureException(fmt.Errorf("load order: %w", root), sc)

	require.NotEmpty(t, id)
	require.True(t, c.Flush(time.Second))
	events := mem.Events()
	require.Len(t, events, 1)
	ev := events[0]
	assert.Equal(t, id, ev.ID)
	assert.Equal(t, event.LevelError, ev.Level)
	assert.Equal(t, "test", ev.Environment)
	assert.Equal(t, "1.2.3", ev.Release)
	assert.Equal(t, "/orders", ev.Tags["route"])
	require.Len(t, ev.Exceptions, 2)
	assert.Equal(t, "connection reset", ev.Exceptions[0].Value)
	assert.Equal(t, "load order: connection reset", ev.Exceptions[1].Value)
}

func TestCaptureException_Nil(t *testing.T) {
	t.Parallel()
	c, _ := newMemoryClient(t, Config{})
	assert.Empty(t, c.CaptureException(nil, nil))
}

func TestCaptureMessage_DefaultLevel(t *testing.T) {
	t.Parallel()
	c, mem := newMemoryClient(t, Config{})

	c.CaptureMessage("cache warmed", "", nil)

	require.True(t, c.Flush(time.Second))
	require.Len(t, mem.Events(), 1)
	assert.Equal(t, event.LevelInfo, mem.Events()[0].Level)
}

func TestBeforeSend(t *testing.T) {
	t.Parallel()
	c, mem := newMemoryClient(t, Config{EnableTracing: true}, WithBeforeSend(func(ev *event.Event) *event.Event {
		if ev.Message == "drop me" {
			return nil
		}
		ev.Tags["scrubbed"] = "true"
		return ev
	}))

	assert.Empty(t, c.CaptureMessage("drop me", event.LevelInfo, nil))
	c.CaptureMessage("keep me", event.LevelInfo, nil)
	tx := tracing.StartTransaction("GET /")
	tx.Finish()
	c.CaptureEvent(tx.ToEvent(), nil)

	require.True(t, c.Flush(time.Second))
	events := mem.Events()
	require.Len(t, events, 2)
	assert.Equal(t, "true", events[0].Tags["scrubbed"])
	_, scrubbed := events[1].Tags["scrubbed"]
	assert.False(t, scrubbed)
}

func TestCaptureEvent_ScopeProcessorDrops(t *testing.T) {
	t.Parallel()
	c, mem := newMemoryClient(t, Config{})
	sc := scope.New()
	sc.AddEventProcessor(func(*event.Event) *event.Event { return nil })

	assert.Empty(t, c.CaptureMessage("x", event.LevelInfo, sc))
	require.True(t, c.Flush(time.Second))
	assert.Empty(t, mem.Events())
}

func TestTransactionsRequireTracing(t *testing.T) {
	t.Parallel()
	c, mem := newMemoryClient(t, Config{EnableTracing: false})
	tx := tracing.StartTransaction("GET /")
	tx.Finish()

	assert.Empty(t, c.CaptureEvent(tx.ToEvent(), nil))
	assert.False(t, c.TracingEnabled())
	assert.False(t, c.SampleTransaction())
	require.True(t, c.Flush(time.Second))
	assert.Empty(t, mem.Events())
}

func TestCaptureTransaction(t *testing.T) {
	t.Parallel()
	c, mem := newMemoryClient(t, Config{EnableTracing: true})

	open := tracing.StartTransaction("GET /pending")
	assert.Empty(t, c.CaptureTransaction(open, nil))
	unsampled := tracing.StartTransaction("GET /skip", tracing.WithSampled(false))
	unsampled.Finish()
	assert.Empty(t, c.CaptureTransaction(unsampled, nil))

	tx := tracing.StartTransaction("GET /done")
	tx.Finish()
	id := c.CaptureTransaction(tx, nil)

	require.NotEmpty(t, id)
	require.True(t, c.Flush(time.Second))
	txs := mem.Transactions()
	require.Len(t, txs, 1)
	assert.Equal(t, "GET /done", txs[0].Transaction)
}

func TestSampleTransaction_DefaultRate(t *testing.T) {
	t.Parallel()
	c, _ := newMemoryClient(t, Config{EnableTracing: true})
	for i := 0; i < 100; i++ {
		require.True(t, c.SampleTransaction())
	}
}

func TestSampleTransaction_ExplicitRates(t *testing.T) {
	t.Parallel()
	cases := []struct {
		name string
		rate float64
		want bool
	}{
		{"zero samples nothing", 0, false},
		{"negative clamps to zero", -0.5, false},
		{"one samples everything", 1, true},
		{"above one clamps to one", 3, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			c, _ := newMemoryClient(t, Config{EnableTracing: true, TracesSampleRate: SampleRate(tc.rate)})
			for i := 0; i < 100; i++ {
				require.Equal(t, tc.want, c.SampleTransaction())
			}
		})
	}
}

func TestFlush_ObservesTimeout(t *testing.T) {
	t.Parallel()
	release := make(chan struct{})
	stuck := transport.DelivererFunc(func(context.Context, []*event.Event) error {
		<-release
		return nil
	})
	tr := transport.NewAsync(stuck, "stuck", transport.Config{})
	var ops []observability.OperationContext
	c, err := NewClient(Config{}, tr, WithObserver(observability.ObserverFunc(func(op observability.OperationContext) {
		ops = append(ops, op)
	})))
	require.NoError(t, err)
	c.CaptureMessage("x", event.LevelInfo, nil)

	assert.False(t, c.Flush(20*time.Millisecond))

	close(release)
	require.NoError(t, c.Close(context.Background()))
	require.Len(t, ops, 2)
	assert.Equal(t, "capture", ops[0].Operation)
	assert.Equal(t, "flush", ops[1].Operation)
	assert.ErrorIs(t, ops[1].Error, context.DeadlineExceeded)
}

func TestClient_ImplementsHubClient(t *testing.T) {
	t.Parallel()
	c, mem := newMemoryClient(t, Config{EnableTracing: true})
	var hc hub.Client = c

	h := hub.New(hc, nil)
	tx := h.StartTransaction("GET /health")
	tx.Finish()

	require.True(t, h.Flush(time.Second))
	assert.Len(t, mem.Transactions(), 1)
}

func TestFXModule(t *testing.T) {
	t.Parallel()
	var hc hub.Client
	app := fxtest.New(t,
		fx.Supply(Config{EnableTracing: true}),
		fx.Provide(func() transport.Transport {
			return transport.NewAsync(transport.NewMemory(), transport.KindMemory, transport.Config{})
		}),
		FXModule,
		fx.Populate(&hc),
	)
	app.RequireStart()
	require.NotNil(t, hc)
	assert.True(t, hc.TracingEnabled())
	app.RequireStop()
}
