package database

import (
	"context"

	"go.opentelemetry.io/otel/trace"

	"github.com/Aleph-Alpha/sqlshim/v1/builder"
	"github.com/Aleph-Alpha/sqlshim/v1/driver"
)

// Client is the public surface of DB.
type Client interface {
	Insert(ctx context.Context, table string, fields builder.Fields) (*Cycle, error)
	Update(ctx context.Context, table string, assignments, filters builder.Fields) (*Cycle, error)
	Delete(ctx context.Context, table string, filters builder.Fields) (*Cycle, error)

	Query(ctx context.Context, text string, expectRows bool) (*Cycle, error)
	GetRow(ctx context.Context, text string) (driver.Row, error)
	GetResults(ctx context.Context, text string) ([]driver.Row, error)

	LastInsertID(ctx context.Context) (int64, error)
	HasError() (Errors, bool)
	LastQueryText() string

	LoadSchema(ctx context.Context, force bool) error
	State() ConnectionState
	Close() error
}

// Logger is the subset of logger.Logger the client uses.
//
//go:generate mockgen -destination=mock_logger.go -package=database . Logger
type Logger interface {
	Info(msg string, err error, fields ...map[string]interface{})
	Warn(msg string, err error, fields ...map[string]interface{})
	Error(msg string, err error, fields ...map[string]interface{})
}

// Tracer is the subset of tracer.Tracer the client uses.
type Tracer interface {
	StartSpan(ctx context.Context, name string) (context.Context, trace.Span)
	RecordErrorOnSpan(span trace.Span, err error)
}

var _ Client = (*DB)(nil)
