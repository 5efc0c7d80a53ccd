package hub

import (
	"go.uber.org/fx"

	"github.com/aalemi-dev/reqscope/observability"
	"github.com/aalemi-dev/reqscope/scope"
)

// Params are the optional dependencies of the hub.
type Params struct {
	fx.In

	Client   Client                 `optional:"true"`
	Logger   Logger                 `optional:"true"`
	Observer observability.Observer `optional:"true"`
}

// NewFromParams builds the process-wide hub from the container.
func NewFromParams(p Params) *Hub {
	return New(p.Client, scope.New(), WithLogger(p.Logger), WithObserver(p.Observer))
}

// FXModule provides *Hub and installs it as the default hub.
var FXModule = fx.Module("hub",
	fx.Provide(NewFromParams),
	fx.Invoke(SetDefault),
)
