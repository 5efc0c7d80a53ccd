package client

import (
	"context"
	"math/rand/v2"
	"time"

	"github.com/aalemi-dev/reqscope/event"
	"github.com/aalemi-dev/reqscope/observability"
	"github.com/aalemi-dev/reqscope/scope"
	"github.com/aalemi-dev/reqscope/tracing"
	"github.com/aalemi-dev/reqscope/transport"
)

// BeforeSendFunc may modify an error or message event before it is queued.
// Returning nil drops it. Transactions bypass it.
type BeforeSendFunc func(ev *event.Event) *event.Event

// Client turns errors, messages and finished transactions into events and
// queues them on a transport. It is safe for concurrent use.
type Client struct {
	cfg        Config
	sampleRate float64
	transport  transport.Transport
	beforeSend BeforeSendFunc
	logger     Logger
	observer   observability.Observer
}

// Option configures a Client.
type Option func(*Client)

func WithBeforeSend(fn BeforeSendFunc) Option {
	return func(c *Client) { c.beforeSend = fn }
}

func WithLogger(l Logger) Option {
	return func(c *Client) { c.logger = l }
}

func WithObserver(o observability.Observer) Option {
	return func(c *Client) { c.observer = o }
}

// NewClient returns a client sending through t.
func NewClient(cfg Config, t transport.Transport, opts ...Option) (*Client, error) {
	if t == nil {
		return nil, ErrNilTransport
	}
	c := &Client{cfg: cfg, transport: t, sampleRate: cfg.sampleRate()}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// CaptureEvent applies sc to ev, stamps the client metadata and queues it.
// It returns the event ID, or "" when the event was dropped.
func (c *Client) CaptureEvent(ev *event.Event, sc *scope.Scope) string {
	if ev == nil {
		return ""
	}
	start := time.Now()
	if sc != nil {
		if ev = sc.ApplyToEvent(ev); ev == nil {
			return ""
		}
	}
	if ev.IsTransaction() && !c.cfg.EnableTracing {
		return ""
	}

	if ev.Environment == "" {
		ev.Environment = c.cfg.Environment
	}
	if ev.Release == "" {
		ev.Release = c.cfg.Release
	}
	if ev.ServerName == "" {
		ev.ServerName = c.cfg.ServerName
	}

	if !ev.IsTransaction() && c.beforeSend != nil {
		if ev = c.beforeSend(ev); ev == nil {
			return ""
		}
	}

	err := c.transport.Send(ev)
	c.observe("capture", operationResource(ev), time.Since(start), err)
	if err != nil {
		if c.logger != nil {
			c.logger.WarnWithContext(context.Background(), "event not queued", err, map[string]interface{}{
				"event_id": ev.ID,
			})
		}
		return ""
	}
	return ev.ID
}

// CaptureException captures err and the errors it wraps as one error event.
func (c *Client) CaptureException(err error, sc *scope.Scope) string {
	if err == nil {
		return ""
	}
	ev := event.New()
	ev.Level = event.LevelError
	ev.Exceptions = event.ExceptionsFromError(err)
	return c.CaptureEvent(ev, sc)
}

func (c *Client) CaptureMessage(msg string, level event.Level, sc *scope.Scope) string {
	ev := event.New()
	ev.Message = msg
	ev.Level = level
	if ev.Level == "" {
		ev.Level = event.LevelInfo
	}
	return c.CaptureEvent(ev, sc)
}

// CaptureTransaction captures a finished, sampled transaction. Unfinished
// and unsampled transactions, and child spans, are ignored.
func (c *Client) CaptureTransaction(tx *tracing.Span, sc *scope.Scope) string {
	if tx == nil || !tx.IsTransaction() || !tx.Finished() || !tx.Sampled() {
		return ""
	}
	return c.CaptureEvent(tx.ToEvent(), sc)
}

// Flush waits up to timeout for queued events to be delivered.
func (c *Client) Flush(timeout time.Duration) bool {
	start := time.Now()
	ok := c.transport.Flush(timeout)
	var err error
	if !ok {
		err = context.DeadlineExceeded
	}
	c.observe("flush", "", time.Since(start), err)
	return ok
}

// Close flushes and releases the transport.
func (c *Client) Close(ctx context.Context) error {
	return c.transport.Close(ctx)
}

func (c *Client) TracingEnabled() bool {
	return c.cfg.EnableTracing
}

// SampleTransaction draws the sampling decision for a new trace.
func (c *Client) SampleTransaction() bool {
	if !c.cfg.EnableTracing {
		return false
	}
	switch {
	case c.sampleRate >= 1:
		return true
	case c.sampleRate <= 0:
		return false
	}
	return rand.Float64() < c.sampleRate
}

func (c *Client) observe(operation, resource string, duration time.Duration, err error) {
	if c.observer == nil {
		return
	}
	c.observer.ObserveOperation(observability.OperationContext{
		Component: "client",
		Operation: operation,
		Resource:  resource,
		Duration:  duration,
		Error:     err,
	})
}

func operationResource(ev *event.Event) string {
	switch {
	case ev.IsTransaction():
		return "transaction"
	case len(ev.Exceptions) > 0:
		return "exception"
	default:
		return "message"
	}
}
