// Command demo serves a small chi API with every request isolated, traced
// and finalized by reqscope. Events go to the transport selected by
// REQSCOPE_TRANSPORT_KIND (the log deliverer by default).
package main

import (
	"go.uber.org/fx"

	"github.com/aalemi-dev/reqscope/client"
	"github.com/aalemi-dev/reqscope/config"
	"github.com/aalemi-dev/reqscope/hub"
	"github.com/aalemi-dev/reqscope/instrument"
	"github.com/aalemi-dev/reqscope/logger"
	"github.com/aalemi-dev/reqscope/metrics"
	"github.com/aalemi-dev/reqscope/transport"
)

func main() {
	fx.New(
		config.FXModule,
		logger.FXModule,
		metrics.FXModule,
		transport.FXModule,
		client.FXModule,
		hub.FXModule,
		instrument.FXModule,
		fx.Provide(
			func(l *logger.LoggerClient) transport.Logger { return l },
			func(l *logger.LoggerClient) client.Logger { return l },
			func(l *logger.LoggerClient) hub.Logger { return l },
			func(l *logger.LoggerClient) instrument.Logger { return l },
			func() instrument.ParamsFunc { return instrument.ChiParams },
			loadServerConfig,
			newRouter,
		),
		fx.Invoke(registerServer),
	).Run()
}
