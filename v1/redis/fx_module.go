package redis

import (
	"context"

	"go.uber.org/fx"

	"github.com/Aleph-Alpha/sqlshim/v1/logger"
	"github.com/Aleph-Alpha/sqlshim/v1/observability"
	"github.com/Aleph-Alpha/sqlshim/v1/snapshot"
)

// FXModule provides *RedisClient and snapshot.Store. With database.FXModule in
// the same app the schema snapshot is kept in Redis. Only one snapshot backend
// module may be installed per app.
var FXModule = fx.Module("redis",
	fx.Provide(
		NewClientWithDI,
		func(r *RedisClient) snapshot.Store { return r },
	),
	fx.Invoke(RegisterRedisLifecycle),
)

// RedisParams groups the dependencies needed to create a RedisClient.
type RedisParams struct {
	fx.In

	Config   Config
	Logger   *logger.Logger         `optional:"true"`
	Observer observability.Observer `optional:"true"`
}

// NewClientWithDI creates a RedisClient and attaches the optional logger and observer.
func NewClientWithDI(params RedisParams) (*RedisClient, error) {
	r, err := NewClient(params.Config)
	if err != nil {
		return nil, err
	}
	if params.Logger != nil {
		r.WithLogger(params.Logger)
	}
	if params.Observer != nil {
		r.WithObserver(params.Observer)
	}
	return r, nil
}

// RedisLifecycleParams groups the dependencies needed for lifecycle management.
type RedisLifecycleParams struct {
	fx.In

	Lifecycle fx.Lifecycle
	Client    *RedisClient
}

// RegisterRedisLifecycle pings on start and closes the client on stop.
func RegisterRedisLifecycle(params RedisLifecycleParams) {
	params.Lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := params.Client.Ping(ctx); err != nil {
				params.Client.logWarn("Failed to ping Redis on startup", err, nil)
				return err
			}
			params.Client.logInfo("Redis client started and healthy", nil)
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return params.Client.Close()
		},
	})
}
