package instrument

import (
	"sync"
	"testing"
	"time"

	"github.com/aalemi-dev/reqscope/event"
	"github.com/aalemi-dev/reqscope/hub"
	"github.com/aalemi-dev/reqscope/observability"
	"github.com/aalemi-dev/reqscope/scope"
)

type fakeClient struct {
	mu      sync.Mutex
	events  []*event.Event
	tracing bool
	flushes int

	// flushBlock, when set, makes Flush hang until it is closed.
	flushBlock chan struct{}
}

func newFakeClient() *fakeClient {
	return &fakeClient{tracing: true}
}

func (c *fakeClient) CaptureEvent(ev *event.Event, sc *scope.Scope) string {
	if sc != nil {
		ev = sc.ApplyToEvent(ev)
	}
	if ev == nil {
		return ""
	}
	c.mu.Lock()
	c.events = append(c.events, ev)
	c.mu.Unlock()
	return ev.ID
}

func (c *fakeClient) CaptureException(err error, sc *scope.Scope) string {
	ev := event.New()
	ev.Level = event.LevelError
	ev.Exceptions = event.ExceptionsFromError(err)
	return c.CaptureEvent(ev, sc)
}

func (c *fakeClient) CaptureMessage(msg string, level event.Level, sc *scope.Scope) string {
	ev := event.New()
	ev.Message = msg
	ev.Level = level
	return c.CaptureEvent(ev, sc)
}

func (c *fakeClient) Flush(time.Duration) bool {
	c.mu.Lock()
	c.flushes++
	block := c.flushBlock
	c.mu.Unlock()
	if block != nil {
		<-block
	}
	return true
}

func (c *fakeClient) TracingEnabled() bool    { return c.tracing }
func (c *fakeClient) SampleTransaction() bool { return true }

func (c *fakeClient) Transactions() []*event.Event {
	return c.filter(func(ev *event.Event) bool { return ev.IsTransaction() })
}

func (c *fakeClient) Errors() []*event.Event {
	return c.filter(func(ev *event.Event) bool { return len(ev.Exceptions) > 0 })
}

func (c *fakeClient) Messages() []*event.Event {
	return c.filter(func(ev *event.Event) bool { return ev.Message != "" })
}

func (c *fakeClient) Flushes() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.flushes
}

func (c *fakeClient) filter(keep func(*event.Event) bool) []*event.Event {
	c.mu.Lock()
	defer c.mu.Unlock()
	var out []*event.Event
	for _, ev := range c.events {
		if keep(ev) {
			out = append(out, ev)
		}
	}
	return out
}

type recordingObserver struct {
	mu  sync.Mutex
	ops []observability.OperationContext
}

func (r *recordingObserver) ObserveOperation(ctx observability.OperationContext) {
	r.mu.Lock()
	r.ops = append(r.ops, ctx)
	r.mu.Unlock()
}

func (r *recordingObserver) Named(operation string) []observability.OperationContext {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []observability.OperationContext
	for _, op := range r.ops {
		if op.Operation == operation {
			out = append(out, op)
		}
	}
	return out
}

// newTestWrapper returns a wrapper bound to a fresh hub over client.
func newTestWrapper(t *testing.T, client *fakeClient, cfg Config, opts ...Option) (*Wrapper, *hub.Hub) {
	t.Helper()
	base := hub.New(client, scope.New())
	return NewWrapper(cfg, append([]Option{WithHub(base)}, opts...)...), base
}
