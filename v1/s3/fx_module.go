package s3

import (
	"context"

	"go.uber.org/fx"

	"github.com/Aleph-Alpha/sqlshim/v1/logger"
	"github.com/Aleph-Alpha/sqlshim/v1/observability"
	"github.com/Aleph-Alpha/sqlshim/v1/snapshot"
)

// FXModule provides *Store and snapshot.Store. Only one snapshot backend module
// may be installed per app.
var FXModule = fx.Module("s3",
	fx.Provide(
		NewClientWithDI,
		func(s *Store) snapshot.Store { return s },
	),
)

// S3Params groups the dependencies needed to create a Store.
type S3Params struct {
	fx.In

	Config   Config
	Logger   *logger.Logger         `optional:"true"`
	Observer observability.Observer `optional:"true"`
}

// NewClientWithDI creates a Store and attaches the optional logger and observer.
func NewClientWithDI(params S3Params) (*Store, error) {
	s, err := NewClient(context.Background(), params.Config)
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
