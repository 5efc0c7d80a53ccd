package hub

import (
	"context"
	"sync/atomic"

	"github.com/aalemi-dev/reqscope/tracing"
)

type hubKey struct{}

var defaultHub atomic.Pointer[Hub]

func init() {
	defaultHub.Store(New(nil, nil))
}

// Default returns the process-wide hub. It is the template request hubs are
// cloned from; request code should use FromContext.
func Default() *Hub {
	return defaultHub.Load()
}

// SetDefault replaces the process-wide hub. A nil hub is ignored.
func SetDefault(h *Hub) {
	if h != nil {
		defaultHub.Store(h)
	}
}

// SetOnContext returns a copy of ctx carrying h.
func SetOnContext(ctx context.Context, h *Hub) context.Context {
	return context.WithValue(ctx, hubKey{}, h)
}

// HasHubOnContext reports whether ctx carries a hub of its own.
func HasHubOnContext(ctx context.Context) bool {
	if ctx == nil {
		return false
	}
	_, ok := ctx.Value(hubKey{}).(*Hub)
	return ok
}

// FromContext returns the hub carried by ctx, or the default hub.
func FromContext(ctx context.Context) *Hub {
	if ctx != nil {
		if h, ok := ctx.Value(hubKey{}).(*Hub); ok && h != nil {
			return h
		}
	}
	return Default()
}

// Isolate clones the hub visible from ctx and returns a derived context
// carrying the clone. Scope changes made through the clone are invisible to
// ctx and to every other isolated context.
func Isolate(ctx context.Context) (context.Context, *Hub) {
	h := FromContext(ctx).Clone()
	return SetOnContext(ctx, h), h
}

// RunIsolated runs work on an isolated hub and returns its result.
//
//	status := hub.RunIsolated(ctx, func(ctx context.Context) int {
//	    hub.FromContext(ctx).Scope().SetTag("tenant", tenant)
//	    return serve(ctx)
//	})
func RunIsolated[T any](ctx context.Context, work func(ctx context.Context) T) T {
	ctx, _ = Isolate(ctx)
	return work(ctx)
}

// Trace runs fn inside a child span of the span active on ctx (or, failing
// that, of the current scope's span). Without a parent span fn runs untraced.
// The span's status is internal_error when fn fails.
func Trace(ctx context.Context, op, description string, fn func(ctx context.Context) error) error {
	parent := tracing.SpanFromContext(ctx)
	if parent == nil {
		parent = FromContext(ctx).Scope().Span()
	}
	if parent == nil {
		return fn(ctx)
	}

	child := parent.StartChild(op, tracing.WithDescription(description))
	defer child.Finish()

	err := fn(tracing.ContextWithSpan(ctx, child))
	if err != nil {
		child.SetStatus(tracing.StatusInternalError)
		child.SetData("error", err.Error())
	}
	return err
}
