package metrics

import (
	"context"
	"errors"
	"net/http"

	"go.uber.org/fx"

	"github.com/Aleph-Alpha/sqlshim/v1/logger"
	"github.com/Aleph-Alpha/sqlshim/v1/observability"
)

// FXModule provides *Metrics, MetricsCollector and observability.Observer, so
// database.FXModule and the snapshot store modules report into Prometheus
// without further wiring. The /metrics server runs for the app's lifetime.
//
//	app := fx.New(
//	    logger.FXModule,
//	    metrics.FXModule,
//	    database.FXModule,
//	    fx.Supply(metrics.Config{Address: ":9090", ServiceName: "billing"}),
//	    fx.Supply(database.Config{...}),
//	)
var FXModule = fx.Module("metrics",
	fx.Provide(
		NewMetrics,
		func(m *Metrics) MetricsCollector { return m },
		func(m *Metrics) observability.Observer { return m },
	),
	fx.Invoke(RegisterMetricsLifecycle),
)

// MetricsLifecycleParams groups the dependencies needed for lifecycle management.
type MetricsLifecycleParams struct {
	fx.In

	Lifecycle fx.Lifecycle
	Metrics   *Metrics
	Logger    *logger.Logger `optional:"true"`
}

// RegisterMetricsLifecycle starts the metrics HTTP server in the background on
// start and shuts it down gracefully on stop.
func RegisterMetricsLifecycle(params MetricsLifecycleParams) {
	m := params.Metrics
	log := params.Logger
	if log == nil {
		log = logger.NewNop()
	}

	params.Lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				log.Info("Starting Prometheus metrics server", nil, map[string]interface{}{
					"address": m.Server.Addr,
				})

				if err := m.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Error("Error starting Prometheus metrics server", err, nil)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info("Shutting down Prometheus metrics server", nil, nil)
			return m.Server.Shutdown(ctx)
		},
	})
}
