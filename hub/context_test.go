package hub

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx"
	"go.uber.org/fx/fxtest"

	"github.com/aalemi-dev/reqscope/event"
	"github.com/aalemi-dev/reqscope/tracing"
)

func TestFromContext_FallsBackToDefault(t *testing.T) {
	t.Parallel()
	assert.Same(t, Default(), FromContext(context.Background()))
	//nolint:staticcheck // nil context is guarded
	assert.Same(t, Default(), FromContext(nil))
	assert.False(t, HasHubOnContext(context.Background()))
}

func TestIsolate(t *testing.T) {
	t.Parallel()
	root := New(nil, nil)
	root.Scope().SetTag("service", "orders")
	ctx := SetOnContext(context.Background(), root)

	isolated, h := Isolate(ctx)
	h.Scope().SetTag("request", "1")

	assert.True(t, HasHubOnContext(isolated))
	assert.Same(t, h, FromContext(isolated))
	assert.Same(t, root, FromContext(ctx))
	v, _ := h.Scope().Tag("service")
	assert.Equal(t, "orders", v)
	_, ok := root.Scope().Tag("request")
	assert.False(t, ok)
}

// Interleaved isolated units of work each see only their own scope data.
func TestRunIsolated_ConcurrentUnitsDoNotLeak(t *testing.T) {
	t.Parallel()
	c := &fakeClient{}
	root := New(c, nil)
	ctx := SetOnContext(context.Background(), root)

	const units = 50
	start := make(chan struct{})
	var wg sync.WaitGroup
	for i := 0; i < units; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			RunIsolated(ctx, func(ctx context.Context) struct{} {
				h := FromContext(ctx)
				h.PushScope()
				h.Scope().SetTag("unit", fmt.Sprint(i))
				h.Scope().SetExtra(fmt.Sprintf("only-%d", i), i)
				<-start
				time.Sleep(time.Millisecond)
				h.CaptureMessage(fmt.Sprint(i), event.LevelInfo)
				h.PopScope()
				return struct{}{}
			})
		}(i)
	}
	close(start)
	wg.Wait()

	events := c.Events()
	require.Len(t, events, units)
	for _, ev := range events {
		assert.Equal(t, ev.Message, ev.Tags["unit"])
		assert.Len(t, ev.Extra, 1)
		assert.Contains(t, ev.Extra, "only-"+ev.Message)
	}
	assert.Empty(t, root.Scope().Tags())
}

func TestRunIsolated_ReturnsResult(t *testing.T) {
	t.Parallel()
	got := RunIsolated(context.Background(), func(ctx context.Context) int {
		assert.True(t, HasHubOnContext(ctx))
		return 42
	})
	assert.Equal(t, 42, got)
}

func TestTrace(t *testing.T) {
	t.Parallel()
	tx := tracing.StartTransaction("GET /orders")
	ctx := tracing.ContextWithSpan(context.Background(), tx)

	var inner *tracing.Span
	err := Trace(ctx, "db", "SELECT 1", func(ctx context.Context) error {
		inner = tracing.SpanFromContext(ctx)
		return errors.New("timeout")
	})

	assert.EqualError(t, err, "timeout")
	require.NotNil(t, inner)
	assert.Equal(t, tx.SpanID(), inner.ParentSpanID())
	assert.Equal(t, "SELECT 1", inner.Description())
	assert.True(t, inner.Finished())
	assert.Equal(t, tracing.StatusInternalError, inner.Status())
}

func TestTrace_UsesScopeSpan(t *testing.T) {
	t.Parallel()
	h := New(nil, nil)
	tx := tracing.StartTransaction("GET /")
	h.Scope().SetSpan(tx)
	ctx := SetOnContext(context.Background(), h)

	require.NoError(t, Trace(ctx, "http.client", "GET upstream", func(context.Context) error { return nil }))

	require.Len(t, tx.Children(), 1)
	assert.Equal(t, tracing.StatusOK, tx.Children()[0].Status())
}

func TestTrace_NoParentRunsUntraced(t *testing.T) {
	t.Parallel()
	ctx := SetOnContext(context.Background(), New(nil, nil))
	called := false

	err := Trace(ctx, "db", "", func(ctx context.Context) error {
		called = true
		assert.Nil(t, tracing.SpanFromContext(ctx))
		return nil
	})

	assert.NoError(t, err)
	assert.True(t, called)
}

func TestFXModule(t *testing.T) {
	c := &fakeClient{}
	var h *Hub
	previous := Default()
	t.Cleanup(func() { SetDefault(previous) })

	app := fxtest.New(t,
		fx.Provide(func() Client { return c }),
		FXModule,
		fx.Populate(&h),
	)
	app.RequireStart()
	defer app.RequireStop()

	assert.Same(t, h, Default())
	assert.Same(t, c, h.Client())
}
