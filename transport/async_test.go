package transport

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aalemi-dev/reqscope/event"
	"github.com/aalemi-dev/reqscope/observability"
)

type recordingObserver struct {
	mu  sync.Mutex
	ops []observability.OperationContext
}

func (r *recordingObserver) ObserveOperation(ctx observability.OperationContext) {
	r.mu.Lock()
	r.ops = append(r.ops, ctx)
	r.mu.Unlock()
}

func (r *recordingObserver) count(operation string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, op := range r.ops {
		if op.Operation == operation {
			n++
		}
	}
	return n
}

func TestAsync_FlushDeliversEverythingSent(t *testing.T) {
	t.Parallel()
	mem := NewMemory()
	a := NewAsync(mem, KindMemory, Config{BatchSize: 3})
	defer a.Close(context.Background())

	for i := 0; i < 10; i++ {
		require.NoError(t, a.Send(event.New()))
	}

	assert.True(t, a.Flush(time.Second))
	assert.Len(t, mem.Events(), 10)
	assert.Equal(t, int64(10), a.Delivered())
}

func TestAsync_SendNilIsIgnored(t *testing.T) {
	t.Parallel()
	mem := NewMemory()
	a := NewAsync(mem, KindMemory, Config{})
	defer a.Close(context.Background())

	assert.NoError(t, a.Send(nil))
	assert.True(t, a.Flush(time.Second))
	assert.Empty(t, mem.Events())
}

func TestAsync_FullQueueDrops(t *testing.T) {
	t.Parallel()
	release := make(chan struct{})
	started := make(chan struct{}, 1)
	blocking := DelivererFunc(func(ctx context.Context, events []*event.Event) error {
		select {
		case started <- struct{}{}:
		default:
		}
		<-release
		return nil
	})
	obs := &recordingObserver{}
	a := NewAsync(blocking, "blocking", Config{QueueSize: 1, BatchSize: 1}, WithObserver(obs))

	require.NoError(t, a.Send(event.New()))
	<-started
	require.NoError(t, a.Send(event.New()))

	err := a.Send(event.New())

	assert.ErrorIs(t, err, ErrQueueFull)
	assert.Equal(t, int64(1), a.Dropped())
	assert.Equal(t, 1, obs.count("drop"))

	close(release)
	require.NoError(t, a.Close(context.Background()))
}

func TestAsync_FlushTimesOut(t *testing.T) {
	t.Parallel()
	release := make(chan struct{})
	stuck := DelivererFunc(func(ctx context.Context, events []*event.Event) error {
		<-release
		return nil
	})
	a := NewAsync(stuck, "stuck", Config{})
	require.NoError(t, a.Send(event.New()))

	start := time.Now()
	ok := a.Flush(50 * time.Millisecond)

	assert.False(t, ok)
	assert.Less(t, time.Since(start), time.Second)

	close(release)
	require.NoError(t, a.Close(context.Background()))
}

func TestAsync_SendAfterClose(t *testing.T) {
	t.Parallel()
	mem := NewMemory()
	a := NewAsync(mem, KindMemory, Config{})
	require.NoError(t, a.Send(event.New()))

	require.NoError(t, a.Close(context.Background()))
	require.NoError(t, a.Close(context.Background()))

	assert.ErrorIs(t, a.Send(event.New()), ErrClosed)
	assert.Len(t, mem.Events(), 1)
	assert.True(t, a.Flush(10*time.Millisecond))
}

func TestAsync_DeliveryErrorIsObserved(t *testing.T) {
	t.Parallel()
	obs := &recordingObserver{}
	failing := DelivererFunc(func(context.Context, []*event.Event) error { return errors.New("refused") })
	a := NewAsync(failing, "failing", Config{}, WithObserver(obs))

	require.NoError(t, a.Send(event.New()))
	assert.True(t, a.Flush(time.Second))
	require.NoError(t, a.Close(context.Background()))

	assert.Equal(t, 1, obs.count("deliver"))
	assert.Equal(t, int64(0), a.Delivered())
	obs.mu.Lock()
	defer obs.mu.Unlock()
	assert.EqualError(t, obs.ops[0].Error, "refused")
	assert.Equal(t, "failing", obs.ops[0].Resource)
}

type closingDeliverer struct {
	Memory
	closed bool
}

func (c *closingDeliverer) Close() error {
	c.closed = true
	return nil
}

func TestAsync_CloseClosesDeliverer(t *testing.T) {
	t.Parallel()
	d := &closingDeliverer{}
	a := NewAsync(d, "closing", Config{})

	require.NoError(t, a.Close(context.Background()))

	assert.True(t, d.closed)
}
