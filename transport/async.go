package transport

import (
	"context"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/aalemi-dev/reqscope/event"
	"github.com/aalemi-dev/reqscope/observability"
)

type item struct {
	ev *event.Event
	// flushed is closed by the worker once everything queued before it has
	// been delivered. Set only on flush markers.
	flushed chan struct{}
}

// Async is a Transport backed by a bounded queue drained by one worker
// goroutine.
type Async struct {
	deliverer      Deliverer
	kind           string
	batchSize      int
	deliverTimeout time.Duration

	mu     sync.RWMutex
	closed bool
	queue  chan item
	done   chan struct{}

	dropped   atomic.Int64
	delivered atomic.Int64

	logger   Logger
	observer observability.Observer
}

type options struct {
	logger   Logger
	observer observability.Observer
}

// Option configures an Async transport.
type Option func(*options)

func WithLogger(l Logger) Option {
	return func(o *options) { o.logger = l }
}

func WithObserver(obs observability.Observer) Option {
	return func(o *options) { o.observer = obs }
}

func applyOptions(opts []Option) options {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// NewAsync starts a worker delivering through d. kind names the deliverer in
// logs and metrics.
func NewAsync(d Deliverer, kind string, cfg Config, opts ...Option) *Async {
	cfg = cfg.withDefaults()
	o := applyOptions(opts)
	a := &Async{
		deliverer:      d,
		kind:           kind,
		batchSize:      cfg.BatchSize,
		deliverTimeout: cfg.DeliverTimeout,
		queue:          make(chan item, cfg.QueueSize),
		done:           make(chan struct{}),
		logger:         o.logger,
		observer:       o.observer,
	}
	go a.run()
	return a
}

func (a *Async) Send(ev *event.Event) error {
	if ev == nil {
		return nil
	}
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.closed {
		return ErrClosed
	}
	select {
	case a.queue <- item{ev: ev}:
		return nil
	default:
		a.dropped.Add(1)
		a.observe("drop", 1, 0, ErrQueueFull)
		if a.logger != nil {
			a.logger.WarnWithContext(context.Background(), "telemetry queue full, dropping event", ErrQueueFull, map[string]interface{}{
				"event_id":  ev.ID,
				"deliverer": a.kind,
			})
		}
		return ErrQueueFull
	}
}

func (a *Async) Flush(timeout time.Duration) bool {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	a.mu.RLock()
	if a.closed {
		a.mu.RUnlock()
		select {
		case <-a.done:
			return true
		case <-timer.C:
			return false
		}
	}
	marker := make(chan struct{})
	select {
	case a.queue <- item{flushed: marker}:
	case <-timer.C:
		a.mu.RUnlock()
		return false
	}
	a.mu.RUnlock()

	select {
	case <-marker:
		return true
	case <-timer.C:
		return false
	}
}

// Close stops accepting events, waits for the queue to drain and then closes
// the deliverer if it is an io.Closer or has a Shutdown(ctx) method.
func (a *Async) Close(ctx context.Context) error {
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return nil
	}
	a.closed = true
	close(a.queue)
	a.mu.Unlock()

	select {
	case <-a.done:
	case <-ctx.Done():
		return ctx.Err()
	}

	switch d := a.deliverer.(type) {
	case interface{ Shutdown(context.Context) error }:
		return d.Shutdown(ctx)
	case io.Closer:
		return d.Close()
	}
	return nil
}

// Dropped returns how many events were discarded because the queue was full.
func (a *Async) Dropped() int64 { return a.dropped.Load() }

// Delivered returns how many events were handed to the deliverer without error.
func (a *Async) Delivered() int64 { return a.delivered.Load() }

func (a *Async) run() {
	defer close(a.done)
	batch := make([]*event.Event, 0, a.batchSize)
	for it := range a.queue {
		if it.flushed != nil {
			a.deliver(batch)
			batch = batch[:0]
			close(it.flushed)
			continue
		}
		batch = append(batch, it.ev)
		if len(batch) >= a.batchSize || len(a.queue) == 0 {
			a.deliver(batch)
			batch = batch[:0]
		}
	}
	a.deliver(batch)
}

func (a *Async) deliver(batch []*event.Event) {
	if len(batch) == 0 {
		return
	}
	events := make([]*event.Event, len(batch))
	copy(events, batch)

	ctx, cancel := context.WithTimeout(context.Background(), a.deliverTimeout)
	defer cancel()

	start := time.Now()
	err := a.deliverer.Deliver(ctx, events)
	a.observe("deliver", int64(len(events)), time.Since(start), err)
	if err != nil {
		if a.logger != nil {
			a.logger.ErrorWithContext(ctx, "failed to deliver telemetry events", err, map[string]interface{}{
				"deliverer": a.kind,
				"events":    len(events),
			})
		}
		return
	}
	a.delivered.Add(int64(len(events)))
}

func (a *Async) observe(operation string, size int64, duration time.Duration, err error) {
	if a.observer == nil {
		return
	}
	a.observer.ObserveOperation(observability.OperationContext{
		Component: "transport",
		Operation: operation,
		Resource:  a.kind,
		Duration:  duration,
		Error:     err,
		Size:      size,
	})
}
