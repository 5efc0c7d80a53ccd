package instrument

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/aalemi-dev/reqscope/event"
	"github.com/aalemi-dev/reqscope/hub"
	"github.com/aalemi-dev/reqscope/observability"
	"github.com/aalemi-dev/reqscope/scope"
	"github.com/aalemi-dev/reqscope/tracing"
)

// MechanismType marks exceptions captured by the wrapper.
const MechanismType = "instrument"

type trackerKey struct{}

// RequestInfo describes an inbound request.
type RequestInfo struct {
	Method      string
	Path        string
	Params      map[string]string
	TraceHeader string
	// Linkage is used when TraceHeader is empty or malformed.
	Linkage  *tracing.TraceLinkage
	Snapshot *event.Request
}

// Tracker drives one request through its lifecycle:
//
//	Idle -> ScopeEstablished -> [TraceStarted] -> HandlerRunning
//	     -> HandlerSucceeded | HandlerFailed -> Finalizing -> Done
//
// Finalization runs at most once however many completion signals arrive.
type Tracker struct {
	w     *Wrapper
	ctx   context.Context
	info  RequestInfo
	hub   *hub.Hub
	base  *scope.Scope
	scope *scope.Scope
	tx    *tracing.Span

	mu   sync.Mutex
	name string
	hook ResponseHook

	state      atomic.Int32
	failed     atomic.Bool
	completing atomic.Bool
	unhandled  sync.Once
	once       sync.Once
	done       chan struct{}
}

// Begin isolates a hub for the request, pushes the request scope and, when
// tracing is enabled, starts the transaction continuing info.TraceHeader.
// The returned context carries the hub, the transaction and the tracker.
func (w *Wrapper) Begin(ctx context.Context, info RequestInfo) (context.Context, *Tracker) {
	if w.hub != nil && !hub.HasHubOnContext(ctx) {
		ctx = hub.SetOnContext(ctx, w.hub)
	}
	ctx, h := hub.Isolate(ctx)

	t := &Tracker{
		w:    w,
		info: info,
		hub:  h,
		base: h.Scope(),
		name: TransactionName(info.Method, info.Path, info.Params),
		done: make(chan struct{}),
	}
	t.scope = h.PushScope()
	t.scope.SetTransactionName(t.name)
	if info.Snapshot != nil {
		t.scope.SetRequest(info.Snapshot)
	}
	t.state.Store(int32(ScopeEstablished))

	if h.TracingEnabled() {
		linkage := tracing.ExtractTraceData(info.TraceHeader)
		if linkage == nil {
			linkage = info.Linkage
		}
		t.tx = h.StartTransaction(t.name,
			tracing.WithOp("http.server"),
			tracing.WithLinkage(linkage),
		)
		t.scope.SetSpan(t.tx)
		ctx = tracing.ContextWithSpan(ctx, t.tx)
		t.state.Store(int32(TraceStarted))
	}

	ctx = context.WithValue(ctx, trackerKey{}, t)
	t.ctx = ctx
	return ctx, t
}

func (t *Tracker) Context() context.Context   { return t.ctx }
func (t *Tracker) Hub() *hub.Hub              { return t.hub }
func (t *Tracker) Scope() *scope.Scope        { return t.scope }
func (t *Tracker) Transaction() *tracing.Span { return t.tx }
func (t *Tracker) State() State               { return State(t.state.Load()) }

// Done is closed once finalization has finished.
func (t *Tracker) Done() <-chan struct{} { return t.done }

// Name returns the current transaction name.
func (t *Tracker) Name() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.name
}

// advance moves the state forward to s. Backward moves are ignored.
func (t *Tracker) advance(s State) bool {
	for {
		cur := t.state.Load()
		if cur >= int32(s) {
			return false
		}
		if t.state.CompareAndSwap(cur, int32(s)) {
			return true
		}
	}
}

// Running marks the handler as invoked.
func (t *Tracker) Running() {
	t.advance(HandlerRunning)
}

// Succeed marks the handler as returned without error.
func (t *Tracker) Succeed() {
	if !t.failed.Load() {
		t.advance(HandlerSucceeded)
	}
}

// Fail marks exceptions captured from now on through the request scope as
// unhandled and captures err with that scope, even when the request was
// already finalized and its scope popped. A late capture is flushed within
// FlushTimeout. The caller is expected to propagate err (or re-panic)
// afterwards.
func (t *Tracker) Fail(err error) {
	if err == nil {
		return
	}
	late := t.completing.Load()
	t.markFailed()

	start := time.Now()
	t.unhandled.Do(func() {
		t.scope.AddEventProcessor(markUnhandled)
	})
	id := t.hub.CaptureExceptionWithScope(err, t.scope)

	name := t.Name()
	if late {
		t.flush(name)
	}
	if t.w.logger != nil {
		t.w.logger.ErrorWithContext(t.ctx, "request handler failed", err, map[string]interface{}{
			"transaction": name,
			"event_id":    id,
		})
	}
	t.w.observe(observability.OperationContext{
		Operation: "capture",
		Resource:  name,
		Duration:  time.Since(start),
		Metadata:  map[string]interface{}{"event_id": id},
	})
}

func markUnhandled(ev *event.Event) *event.Event {
	event.AddExceptionMechanism(ev, event.Mechanism{Type: MechanismType, Handled: event.Bool(false)})
	return ev
}

func (t *Tracker) markFailed() {
	t.failed.Store(true)
	t.advance(HandlerFailed)
}

// SetParams renames the transaction using route parameters that became
// known after Begin, e.g. once a router nested under the wrapper matched.
func (t *Tracker) SetParams(params map[string]string) {
	if len(params) == 0 || t.State() >= Finalizing {
		return
	}
	name := TransactionName(t.info.Method, t.info.Path, params)

	t.mu.Lock()
	changed := name != t.name
	t.name = name
	t.mu.Unlock()
	if !changed {
		return
	}
	t.scope.SetTransactionName(name)
	if t.tx != nil {
		t.tx.SetName(name)
	}
}

// Attach subscribes the tracker to hook: when the response completes the
// request is finalized with the hook's status code.
func (t *Tracker) Attach(hook ResponseHook) {
	t.mu.Lock()
	t.hook = hook
	t.mu.Unlock()
	hook.OnResponseComplete(func() {
		t.Complete(hook.StatusCode())
	})
}

// Complete starts finalization according to the configured mode. Only the
// first call counts.
func (t *Tracker) Complete(status int) {
	if !t.completing.CompareAndSwap(false, true) {
		return
	}
	if t.w.cfg.FinalizeMode == Detached {
		go t.Finalize(status)
		return
	}
	t.Finalize(status)
}

func (t *Tracker) completeFromHook() {
	t.mu.Lock()
	hook := t.hook
	t.mu.Unlock()

	status := 0
	if hook != nil {
		status = hook.StatusCode()
	}
	t.Complete(status)
}

// Finalize finishes the transaction with status, flushes telemetry within
// the configured timeout and pops the request scope. A status of 0 means
// nothing was written: 500 if the handler failed, 200 otherwise. Only the
// first call has an effect; concurrent callers wait for it.
func (t *Tracker) Finalize(status int) {
	t.once.Do(func() {
		t.finalize(status)
	})
}

func (t *Tracker) finalize(status int) {
	start := time.Now()
	t.state.Store(int32(Finalizing))

	if status == 0 {
		status = http.StatusOK
		if t.failed.Load() {
			status = http.StatusInternalServerError
		}
	}
	name := t.Name()

	if t.tx != nil {
		t.tx.SetHTTPStatus(status)
		t.tx.Finish()
	}
	t.flush(name)
	t.hub.PopScopeExpecting(t.ctx, t.base)

	t.state.Store(int32(Done))
	close(t.done)

	t.w.observe(observability.OperationContext{
		Operation:   "finalize",
		Resource:    name,
		SubResource: strconv.Itoa(status),
		Duration:    time.Since(start),
	})
}

// flush waits for the hub to drain, but never longer than FlushTimeout. A
// client whose Flush does not honor its deadline is abandoned in the
// background.
func (t *Tracker) flush(name string) {
	timeout := t.w.cfg.FlushTimeout
	start := time.Now()

	result := make(chan bool, 1)
	go func() {
		result <- t.hub.Flush(timeout)
	}()

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	var err error
	select {
	case ok := <-result:
		if !ok {
			err = ErrFlushTimeout
		}
	case <-timer.C:
		err = ErrFlushTimeout
	}

	if err != nil && t.w.logger != nil {
		t.w.logger.WarnWithContext(t.ctx, "telemetry flush did not finish", err, map[string]interface{}{
			"transaction": name,
			"timeout_ms":  timeout.Milliseconds(),
		})
	}
	t.w.observe(observability.OperationContext{
		Operation: "flush",
		Resource:  name,
		Duration:  time.Since(start),
		Error:     err,
	})
}

// TrackerFromContext returns the tracker of the request ctx belongs to.
func TrackerFromContext(ctx context.Context) *Tracker {
	if ctx == nil {
		return nil
	}
	t, _ := ctx.Value(trackerKey{}).(*Tracker)
	return t
}

// Complete finalizes the request ctx belongs to without waiting for the
// handler to return, e.g. once a streamed body has been fully written. It
// reports whether ctx belongs to a wrapped request.
func Complete(ctx context.Context) bool {
	t := TrackerFromContext(ctx)
	if t == nil {
		return false
	}
	t.completeFromHook()
	return true
}

// CurrentState returns the lifecycle state of the request ctx belongs to,
// or Idle outside a wrapped request.
func CurrentState(ctx context.Context) State {
	if t := TrackerFromContext(ctx); t != nil {
		return t.State()
	}
	return Idle
}
