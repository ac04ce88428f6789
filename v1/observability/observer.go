// Package observability defines the hook through which sqlshim components report
// the operations they perform.
//
// Components never depend on a concrete metrics or tracing backend. They accept an
// optional Observer and call ObserveOperation once per operation; a nil Observer
// disables reporting. The metrics package ships a Prometheus-backed implementation.
package observability

import "time"

// OperationContext describes a single completed operation.
type OperationContext struct {
	// Component is the reporting package, e.g. "database", "minio", "redis".
	Component string

	// Operation is the operation name, e.g. "query", "connect", "schema_load", "put".
	Operation string

	// Resource is the primary target of the operation (table, bucket, key prefix).
	Resource string

	// SubResource adds detail below Resource (object key, column, statement kind).
	SubResource string

	// Duration is the wall-clock time the operation took.
	Duration time.Duration

	// Error is the error the operation ended with, nil on success.
	Error error

	// Size is a component-specific magnitude (bytes written, rows returned).
	Size int64

	// Metadata carries optional extra labels.
	Metadata map[string]interface{}
}

// Observer receives OperationContext values. Implementations must be safe for
// concurrent use because several components may share one observer.
type Observer interface {
	ObserveOperation(ctx OperationContext)
}

// ObserverFunc adapts a plain function to the Observer interface.
type ObserverFunc func(ctx OperationContext)

// ObserveOperation calls f(ctx).
func (f ObserverFunc) ObserveOperation(ctx OperationContext) {
	f(ctx)
}
