package transport

import (
	"context"
	"time"

	"github.com/aalemi-dev/reqscope/event"
)

// Deliverer ships a batch of events to a backend. It is called from a single
// worker goroutine and must honour ctx.
type Deliverer interface {
	Deliver(ctx context.Context, events []*event.Event) error
}

// Transport accepts events without blocking the caller and delivers them in
// the background.
type Transport interface {
	// Send queues ev. It never blocks; a full queue drops ev and returns
	// ErrQueueFull.
	Send(ev *event.Event) error

	// Flush waits until every event sent before the call was handed to the
	// deliverer, or timeout elapses. It reports whether it finished in time.
	Flush(timeout time.Duration) bool

	// Close drains the queue and releases the deliverer.
	Close(ctx context.Context) error
}

// DelivererFunc adapts a function to Deliverer.
type DelivererFunc func(ctx context.Context, events []*event.Event) error

func (f DelivererFunc) Deliver(ctx context.Context, events []*event.Event) error {
	return f(ctx, events)
}
