package tracer

import (
	"context"

	"go.uber.org/fx"
)

// FXModule provides *Tracer from a tracer.Config and a Logger in the container
// and shuts the provider down, flushing pending spans, when the app stops.
//
//	app := fx.New(
//	    logger.FXModule,
//	    tracer.FXModule,
//	    fx.Supply(tracer.Config{ServiceName: "orders"}),
//	)
var FXModule = fx.Module("tracer",
	fx.Provide(
		NewClient,
	),
	fx.Invoke(RegisterTracerLifecycle),
)

// RegisterTracerLifecycle registers the provider shutdown.
func RegisterTracerLifecycle(lc fx.Lifecycle, tracer *Tracer) {
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			tracer.logger.Info("Shutting down tracer", nil, nil)
			return tracer.Shutdown(ctx)
		},
	})
}
