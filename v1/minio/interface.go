package minio

import (
	"context"

	"github.com/Aleph-Alpha/sqlshim/v1/snapshot"
)

// Logger is the subset of *logger.Logger the store uses.
type Logger interface {
	InfoWithContext(ctx context.Context, msg string, err error, fields ...map[string]interface{})
	WarnWithContext(ctx context.Context, msg string, err error, fields ...map[string]interface{})
	ErrorWithContext(ctx context.Context, msg string, err error, fields ...map[string]interface{})
}

// Client is a snapshot.Store backed by a MinIO bucket.
//
// This interface is implemented by the concrete *Store type.
type Client interface {
	snapshot.Store

	// Delete removes the snapshot stored under key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// GracefulShutdown stops the connection monitor.
	GracefulShutdown()
}

var _ Client = (*Store)(nil)
