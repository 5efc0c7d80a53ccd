package metrics

import (
	"context"
	"errors"
	"net/http"

	"go.uber.org/fx"

	"github.com/aalemi-dev/reqscope/logger"
	"github.com/aalemi-dev/reqscope/observability"
)

// FXModule provides *Metrics, the MetricsCollector interface, and a
// *Recorder exposed as the application's observability.Observer. The
// metrics servers run for the lifetime of the application.
var FXModule = fx.Module("metrics",
	fx.Provide(
		NewMetrics,
		func(m *Metrics) MetricsCollector { return m },
		NewRecorder,
		func(r *Recorder) observability.Observer { return r },
	),
	fx.Invoke(RegisterMetricsLifecycle),
)

// RegisterMetricsLifecycle starts and stops the metrics servers.
func RegisterMetricsLifecycle(lc fx.Lifecycle, m *Metrics, log *logger.LoggerClient) {
	servers := map[string]*http.Server{
		"system":      m.SystemServer,
		"application": m.ApplicationServer,
	}
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			for name, srv := range servers {
				if srv == nil {
					continue
				}
				go func(name string, srv *http.Server) {
					log.Info("starting metrics server", nil, map[string]interface{}{
						"endpoint": name,
						"address":  srv.Addr,
					})
					if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
						log.Error("metrics server failed", err, map[string]interface{}{"endpoint": name})
					}
				}(name, srv)
			}
			return nil
		},
		OnStop: func(ctx context.Context) error {
			for name, srv := range servers {
				if srv == nil {
					continue
				}
				if err := srv.Shutdown(ctx); err != nil {
					log.Error("metrics server shutdown failed", err, map[string]interface{}{"endpoint": name})
				}
			}
			return nil
		},
	})
}
