package minio

import (
	"context"

	"go.uber.org/fx"
	"golang.org/x/sync/errgroup"

	"github.com/Aleph-Alpha/sqlshim/v1/logger"
	"github.com/Aleph-Alpha/sqlshim/v1/observability"
	"github.com/Aleph-Alpha/sqlshim/v1/snapshot"
)

// FXModule provides *Store, Client and snapshot.Store. With database.FXModule in
// the same app the schema snapshot moves into the bucket. Only one snapshot
// backend module may be installed per app.
var FXModule = fx.Module("minio",
	fx.Provide(
		NewClientWithDI,
		func(s *Store) Client { return s },
		func(s *Store) snapshot.Store { return s },
	),
	fx.Invoke(RegisterLifecycle),
)

// MinioParams groups the dependencies needed to create a Store.
type MinioParams struct {
	fx.In

	Config   Config
	Logger   *logger.Logger         `optional:"true"`
	Observer observability.Observer `optional:"true"`
}

// NewClientWithDI creates a Store and attaches the optional logger and observer.
func NewClientWithDI(params MinioParams) (*Store, error) {
	s, err := NewClient(params.Config)
	if err != nil {
		return nil, err
	}
	if params.Logger != nil {
		s.WithLogger(params.Logger)
	}
	if params.Observer != nil {
		s.WithObserver(params.Observer)
	}
	return s, nil
}

// RegisterLifecycle runs the connection monitor while the app is up.
func RegisterLifecycle(lc fx.Lifecycle, s *Store) {
	var g errgroup.Group
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			// The start context ends when OnStart returns.
			runCtx := context.WithoutCancel(ctx)
			g.Go(func() error {
				s.monitorConnection(runCtx)
				return nil
			})
			g.Go(func() error {
				s.retryConnection(runCtx)
				return nil
			})
			return nil
		},
		OnStop: func(ctx context.Context) error {
			s.logInfo(ctx, "closing minio client...", nil)
			s.GracefulShutdown()
			return g.Wait()
		},
	})
}
