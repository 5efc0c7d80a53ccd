package instrument

import (
	"go.uber.org/fx"

	"github.com/aalemi-dev/reqscope/hub"
	"github.com/aalemi-dev/reqscope/observability"
)

// FXModule provides *Wrapper.
var FXModule = fx.Module("instrument",
	fx.Provide(NewWrapperWithDI),
)

// WrapperParams are the dependencies of NewWrapperWithDI.
type WrapperParams struct {
	fx.In

	Config   Config
	Hub      *hub.Hub               `optional:"true"`
	Params   ParamsFunc             `optional:"true"`
	Logger   Logger                 `optional:"true"`
	Observer observability.Observer `optional:"true"`
}

func NewWrapperWithDI(p WrapperParams) *Wrapper {
	return NewWrapper(p.Config,
		WithHub(p.Hub),
		WithParams(p.Params),
		WithLogger(p.Logger),
		WithObserver(p.Observer),
	)
}
