package transport

import (
	"context"

	"go.uber.org/fx"

	"github.com/aalemi-dev/reqscope/observability"
)

// FXModule provides *Async and the Transport interface from a Config, and
// drains the queue on shutdown.
var FXModule = fx.Module("transport",
	fx.Provide(
		NewWithDI,
		func(a *Async) Transport { return a },
	),
	fx.Invoke(RegisterTransportLifecycle),
)

// TransportParams are the dependencies of NewWithDI.
type TransportParams struct {
	fx.In

	Config   Config
	Logger   Logger                 `optional:"true"`
	Observer observability.Observer `optional:"true"`
}

func NewWithDI(p TransportParams) (*Async, error) {
	var opts []Option
	if p.Logger != nil {
		opts = append(opts, WithLogger(p.Logger))
	}
	if p.Observer != nil {
		opts = append(opts, WithObserver(p.Observer))
	}
	return New(context.Background(), p.Config, opts...)
}

// RegisterTransportLifecycle closes the transport when the application
// stops, delivering whatever is still queued.
func RegisterTransportLifecycle(lc fx.Lifecycle, a *Async) {
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return a.Close(ctx)
		},
	})
}
