package instrument

import (
	"errors"
	"net/http"

	"github.com/aalemi-dev/reqscope/hub"
	"github.com/aalemi-dev/reqscope/observability"
	"github.com/aalemi-dev/reqscope/tracing"
)

// HandlerFunc is an HTTP handler that reports failure by returning an error.
type HandlerFunc func(w http.ResponseWriter, r *http.Request) error

// ServeHTTP calls f and discards its error.
func (f HandlerFunc) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	_ = f(w, r)
}

// Wrapper instruments HTTP handlers. It is safe for concurrent use and is
// usually built once per process.
type Wrapper struct {
	cfg      Config
	hub      *hub.Hub
	params   ParamsFunc
	logger   Logger
	observer observability.Observer
}

// Option configures a Wrapper.
type Option func(*Wrapper)

// WithHub sets the hub request hubs are cloned from. Without it the hub on
// the request context, or the default hub, is used.
func WithHub(h *hub.Hub) Option {
	return func(w *Wrapper) { w.hub = h }
}

// WithParams sets how route parameters are read for transaction names.
func WithParams(fn ParamsFunc) Option {
	return func(w *Wrapper) { w.params = fn }
}

func WithLogger(l Logger) Option {
	return func(w *Wrapper) { w.logger = l }
}

func WithObserver(o observability.Observer) Option {
	return func(w *Wrapper) { w.observer = o }
}

func NewWrapper(cfg Config, opts ...Option) *Wrapper {
	w := &Wrapper{cfg: cfg.withDefaults()}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Config returns the effective configuration, defaults applied.
func (w *Wrapper) Config() Config {
	return w.cfg
}

// Wrap instruments next. Panics are captured as unhandled exceptions and
// re-raised after finalization; http.ErrAbortHandler is re-raised without
// being captured.
func (w *Wrapper) Wrap(next http.Handler) http.Handler {
	if next == nil {
		panic(ErrNilHandler)
	}
	return http.HandlerFunc(func(rw http.ResponseWriter, r *http.Request) {
		_ = w.serve(rw, r, func(rw http.ResponseWriter, r *http.Request) error {
			next.ServeHTTP(rw, r)
			return nil
		})
	})
}

// WrapFunc instruments fn. A returned error is captured and then returned
// unchanged.
func (w *Wrapper) WrapFunc(fn HandlerFunc) HandlerFunc {
	if fn == nil {
		panic(ErrNilHandler)
	}
	return func(rw http.ResponseWriter, r *http.Request) error {
		return w.serve(rw, r, fn)
	}
}

// Middleware returns Wrap in the shape routers accept.
func (w *Wrapper) Middleware() func(http.Handler) http.Handler {
	return w.Wrap
}

func (w *Wrapper) serve(rw http.ResponseWriter, r *http.Request, fn HandlerFunc) (err error) {
	ctx, t := w.Begin(r.Context(), w.requestInfo(r))
	r = r.WithContext(ctx)

	hook := newResponseHook(rw)
	t.Attach(hook)

	defer func() {
		if v := recover(); v != nil {
			if perr, ok := v.(error); ok && errors.Is(perr, http.ErrAbortHandler) {
				t.markFailed()
			} else {
				t.Fail(AsError(v))
			}
			t.SetParams(w.routeParams(r))
			hook.complete()
			panic(v)
		}

		if err != nil {
			t.Fail(err)
		} else {
			t.Succeed()
		}
		t.SetParams(w.routeParams(r))
		hook.complete()
	}()

	t.Running()
	return fn(hook.writer, r)
}

func (w *Wrapper) requestInfo(r *http.Request) RequestInfo {
	return RequestInfo{
		Method:      r.Method,
		Path:        r.URL.Path,
		Params:      w.routeParams(r),
		TraceHeader: r.Header.Get(w.cfg.TraceHeader),
		Linkage:     tracing.ExtractW3C(r.Header),
		Snapshot:    RequestSnapshot(r),
	}
}

func (w *Wrapper) routeParams(r *http.Request) map[string]string {
	if w.params == nil {
		return nil
	}
	return w.params(r)
}

func (w *Wrapper) observe(op observability.OperationContext) {
	if w.observer == nil {
		return
	}
	op.Component = "instrument"
	w.observer.ObserveOperation(op)
}
