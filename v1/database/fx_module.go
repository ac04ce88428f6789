package database

import (
	"context"

	"go.uber.org/fx"

	"github.com/Aleph-Alpha/sqlshim/v1/logger"
	"github.com/Aleph-Alpha/sqlshim/v1/observability"
	"github.com/Aleph-Alpha/sqlshim/v1/snapshot"
	"github.com/Aleph-Alpha/sqlshim/v1/tracer"
)

// FXModule provides *DB and Client from a database.Config. A *logger.Logger,
// an observability.Observer, a *tracer.Tracer and a snapshot.Store are picked up
// when present in the container. The connection is closed when the app stops.
//
//	app := fx.New(
//	    logger.FXModule,
//	    database.FXModule,
//	    fx.Supply(database.Config{...}),
//	    fx.Invoke(func(db database.Client) { ... }),
//	)
var FXModule = fx.Module("database",
	fx.Provide(
		NewClientWithDI,
		func(db *DB) Client { return db },
	),
	fx.Invoke(RegisterDatabaseLifecycle),
)

// DatabaseParams groups the dependencies needed to create a DB.
type DatabaseParams struct {
	fx.In

	Config   Config
	Logger   *logger.Logger         `optional:"true"`
	Observer observability.Observer `optional:"true"`
	Tracer   *tracer.Tracer         `optional:"true"`
	Store    snapshot.Store         `optional:"true"`
}

// DatabaseLifecycleParams groups the dependencies needed for lifecycle management.
type DatabaseLifecycleParams struct {
	fx.In

	Lifecycle fx.Lifecycle
	DB        *DB
	Logger    *logger.Logger `optional:"true"`
}

// NewClientWithDI opens the DB with the gorm driver for Config.Dialect.
func NewClientWithDI(params DatabaseParams) (*DB, error) {
	return Open(context.Background(), params.Config, params.options()...)
}

func (p DatabaseParams) options() []Option {
	var opts []Option
	if p.Logger != nil {
		opts = append(opts, WithLogger(p.Logger))
	}
	if p.Observer != nil {
		opts = append(opts, WithObserver(p.Observer))
	}
	if p.Tracer != nil {
		opts = append(opts, WithTracer(p.Tracer))
	}
	if p.Store != nil {
		opts = append(opts, WithSnapshotStore(p.Store))
	}
	return opts
}

// RegisterDatabaseLifecycle closes the connection on stop.
func RegisterDatabaseLifecycle(params DatabaseLifecycleParams) {
	params.Lifecycle.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			if params.Logger != nil {
				params.Logger.Info("Closing database connection", nil, nil)
			}
			return params.DB.Close()
		},
	})
}
