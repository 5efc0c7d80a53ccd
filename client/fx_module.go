package client

import (
	"context"
	"time"

	"go.uber.org/fx"

	"github.com/aalemi-dev/reqscope/hub"
	"github.com/aalemi-dev/reqscope/observability"
	"github.com/aalemi-dev/reqscope/transport"
)

const defaultShutdownFlush = 5 * time.Second

// FXModule provides *Client and binds it as the hub.Client.
var FXModule = fx.Module("client",
	fx.Provide(
		NewClientWithDI,
		func(c *Client) hub.Client { return c },
	),
	fx.Invoke(RegisterClientLifecycle),
)

// ClientParams are the dependencies of NewClientWithDI.
type ClientParams struct {
	fx.In

	Config     Config
	Transport  transport.Transport
	BeforeSend BeforeSendFunc         `optional:"true"`
	Logger     Logger                 `optional:"true"`
	Observer   observability.Observer `optional:"true"`
}

func NewClientWithDI(p ClientParams) (*Client, error) {
	opts := []Option{WithBeforeSend(p.BeforeSend)}
	if p.Logger != nil {
		opts = append(opts, WithLogger(p.Logger))
	}
	if p.Observer != nil {
		opts = append(opts, WithObserver(p.Observer))
	}
	return NewClient(p.Config, p.Transport, opts...)
}

// RegisterClientLifecycle flushes pending events on shutdown. The transport
// module closes the queue itself.
func RegisterClientLifecycle(lc fx.Lifecycle, c *Client) {
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			timeout := defaultShutdownFlush
			if deadline, ok := ctx.Deadline(); ok {
				timeout = time.Until(deadline)
			}
			c.Flush(timeout)
			return nil
		},
	})
}
