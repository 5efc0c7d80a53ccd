package hub

import (
	"context"
	"sync"
	"time"

	"github.com/aalemi-dev/reqscope/event"
	"github.com/aalemi-dev/reqscope/observability"
	"github.com/aalemi-dev/reqscope/scope"
	"github.com/aalemi-dev/reqscope/tracing"
)

type layer struct {
	client Client
	scope  *scope.Scope
}

// Hub owns a stack of scopes and the client that captured events go to.
// Each request works on its own hub cloned from the default one, so scope
// mutations never leak between requests.
type Hub struct {
	mu          sync.RWMutex
	stack       []*layer
	lastEventID string

	logger   Logger
	observer observability.Observer
}

// Option configures a Hub.
type Option func(*Hub)

func WithLogger(l Logger) Option {
	return func(h *Hub) { h.logger = l }
}

func WithObserver(o observability.Observer) Option {
	return func(h *Hub) { h.observer = o }
}

// New returns a hub with client (which may be nil) and sc as its bottom
// scope. A nil scope is replaced by an empty one.
func New(client Client, sc *scope.Scope, opts ...Option) *Hub {
	if sc == nil {
		sc = scope.New()
	}
	h := &Hub{stack: []*layer{{client: client, scope: sc}}}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Clone returns a hub sharing the client, logger and observer of h whose
// single scope is a child of h's current scope.
func (h *Hub) Clone() *Hub {
	top := h.top()
	return &Hub{
		stack:    []*layer{{client: top.client, scope: top.scope.Clone()}},
		logger:   h.logger,
		observer: h.observer,
	}
}

func (h *Hub) top() *layer {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.stack[len(h.stack)-1]
}

// Scope returns the current scope.
func (h *Hub) Scope() *scope.Scope {
	return h.top().scope
}

func (h *Hub) Client() Client {
	return h.top().client
}

// BindClient replaces the client of the current layer.
func (h *Hub) BindClient(c Client) {
	h.mu.Lock()
	h.stack[len(h.stack)-1].client = c
	h.mu.Unlock()
}

// PushScope makes a child of the current scope current and returns it.
func (h *Hub) PushScope() *scope.Scope {
	h.mu.Lock()
	defer h.mu.Unlock()
	top := h.stack[len(h.stack)-1]
	sc := top.scope.Clone()
	h.stack = append(h.stack, &layer{client: top.client, scope: sc})
	return sc
}

// PopScope drops the current scope. The bottom scope is never popped; the
// call reports whether anything was removed.
func (h *Hub) PopScope() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.stack) <= 1 {
		return false
	}
	h.stack[len(h.stack)-1] = nil
	h.stack = h.stack[:len(h.stack)-1]
	return true
}

// PopScopeExpecting pops the current scope only if it was pushed from parent.
// Otherwise the stack is left untouched, a warning is logged and
// ErrScopeMismatch is reported to the observer. It never fails the caller.
func (h *Hub) PopScopeExpecting(ctx context.Context, parent *scope.Scope) bool {
	start := time.Now()
	h.mu.Lock()
	top := h.stack[len(h.stack)-1].scope
	ok := len(h.stack) > 1 && top.Parent() == parent
	if ok {
		h.stack[len(h.stack)-1] = nil
		h.stack = h.stack[:len(h.stack)-1]
	}
	depth := len(h.stack)
	h.mu.Unlock()

	var err error
	if !ok {
		err = ErrScopeMismatch
		if h.logger != nil {
			h.logger.WarnWithContext(ctx, "scope on top of the stack was not pushed by this request, leaving it in place", err, map[string]interface{}{
				"stack_depth": depth,
			})
		}
	}
	h.observe("scope_pop", "", time.Since(start), err)
	return ok
}

// StackDepth returns the number of scopes on the stack.
func (h *Hub) StackDepth() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.stack)
}

// WithScope runs fn with a freshly pushed scope and pops it on every exit
// path, including a panic in fn.
func (h *Hub) WithScope(fn func(sc *scope.Scope)) {
	sc := h.PushScope()
	defer h.PopScope()
	fn(sc)
}

// ConfigureScope runs fn against the current scope.
func (h *Hub) ConfigureScope(fn func(sc *scope.Scope)) {
	fn(h.Scope())
}

// CaptureEvent submits ev with the current scope applied.
func (h *Hub) CaptureEvent(ev *event.Event) string {
	top := h.top()
	if top.client == nil {
		return ""
	}
	return h.remember(top.client.CaptureEvent(ev, top.scope))
}

// CaptureException captures err with the current scope. Returns the event ID
// or "" if there is no client or the event was dropped.
func (h *Hub) CaptureException(err error) string {
	top := h.top()
	if top.client == nil || err == nil {
		return ""
	}
	return h.remember(top.client.CaptureException(err, top.scope))
}

// CaptureExceptionWithScope captures err with sc instead of the current
// scope. sc need not be on the stack any more.
func (h *Hub) CaptureExceptionWithScope(err error, sc *scope.Scope) string {
	c := h.Client()
	if c == nil || err == nil {
		return ""
	}
	if sc == nil {
		sc = h.Scope()
	}
	return h.remember(c.CaptureException(err, sc))
}

func (h *Hub) CaptureMessage(msg string, level event.Level) string {
	top := h.top()
	if top.client == nil {
		return ""
	}
	return h.remember(top.client.CaptureMessage(msg, level, top.scope))
}

func (h *Hub) remember(id string) string {
	if id != "" {
		h.mu.Lock()
		h.lastEventID = id
		h.mu.Unlock()
	}
	return id
}

// LastEventID returns the ID of the last event captured through h.
func (h *Hub) LastEventID() string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.lastEventID
}

// Flush waits up to timeout for the client to deliver queued events. A hub
// without a client has nothing to flush.
func (h *Hub) Flush(timeout time.Duration) bool {
	c := h.Client()
	if c == nil {
		return true
	}
	return c.Flush(timeout)
}

// TracingEnabled reports whether the bound client records transactions.
func (h *Hub) TracingEnabled() bool {
	c := h.Client()
	return c != nil && c.TracingEnabled()
}

// StartTransaction starts a transaction whose finished event is captured
// through h with the scope current at finish time. Unsampled transactions are
// dropped on finish.
func (h *Hub) StartTransaction(name string, opts ...tracing.SpanOption) *tracing.Span {
	c := h.Client()
	sampled := c != nil && c.SampleTransaction()

	all := make([]tracing.SpanOption, 0, len(opts)+2)
	all = append(all, tracing.WithSampled(sampled))
	all = append(all, opts...)
	all = append(all, tracing.WithOnFinish(func(tx *tracing.Span) {
		if !tx.Sampled() {
			return
		}
		h.CaptureEvent(tx.ToEvent())
	}))
	return tracing.StartTransaction(name, all...)
}

func (h *Hub) observe(operation, resource string, duration time.Duration, err error) {
	if h.observer == nil {
		return
	}
	h.observer.ObserveOperation(observability.OperationContext{
		Component: "hub",
		Operation: operation,
		Resource:  resource,
		Duration:  duration,
		Error:     err,
	})
}
