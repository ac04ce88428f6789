package minio

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"time"

	"github.com/minio/minio-go/v7"

	"github.com/Aleph-Alpha/sqlshim/v1/observability"
	"github.com/Aleph-Alpha/sqlshim/v1/snapshot"
)

const contentType = "application/json"

func (s *Store) objectKey(key string) string {
	return s.cfg.Prefix + key
}

// Load returns the snapshot stored under key, or snapshot.ErrNotFound.
func (s *Store) Load(ctx context.Context, key string) (data []byte, err error) {
	start := time.Now()
	object := s.objectKey(key)
	defer func() {
		s.observeOperation("get", object, time.Since(start), err, int64(len(data)))
	}()

	c := s.client.Load()
	if c == nil {
		return nil, ErrConnectionFailed
	}

	reader, err := c.GetObject(ctx, s.cfg.Connection.BucketName, object, minio.GetObjectOptions{})
	if err != nil {
		return nil, s.translate(object, err)
	}
	defer func() {
		if cerr := reader.Close(); cerr != nil {
			s.logWarn(ctx, "failed to close object reader", cerr, map[string]interface{}{"key": object})
		}
	}()

	// GetObject is lazy; a missing key surfaces on the first read.
	data, err = io.ReadAll(reader)
	if err != nil {
		return nil, s.translate(object, err)
	}
	return data, nil
}

// Save replaces the snapshot stored under key.
func (s *Store) Save(ctx context.Context, key string, data []byte) (err error) {
	start := time.Now()
	object := s.objectKey(key)
	defer func() {
		s.observeOperation("put", object, time.Since(start), err, int64(len(data)))
	}()

	c := s.client.Load()
	if c == nil {
		return ErrConnectionFailed
	}

	_, err = c.PutObject(ctx, s.cfg.Connection.BucketName, object, bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return fmt.Errorf("minio: put %s: %w", object, err)
	}
	return nil
}

// Delete removes the snapshot stored under key.
func (s *Store) Delete(ctx context.Context, key string) (err error) {
	start := time.Now()
	object := s.objectKey(key)
	defer func() {
		s.observeOperation("delete", object, time.Since(start), err, 0)
	}()

	c := s.client.Load()
	if c == nil {
		return ErrConnectionFailed
	}
	if err := c.RemoveObject(ctx, s.cfg.Connection.BucketName, object, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("minio: delete %s: %w", object, err)
	}
	return nil
}

func (s *Store) translate(object string, err error) error {
	if isNotFound(err) {
		return fmt.Errorf("%w: %s", snapshot.ErrNotFound, object)
	}
	return fmt.Errorf("minio: get %s: %w", object, err)
}

func (s *Store) observeOperation(operation, object string, duration time.Duration, err error, size int64) {
	if s.observer == nil {
		return
	}
	s.observer.ObserveOperation(observability.OperationContext{
		Component:   "minio",
		Operation:   operation,
		Resource:    s.cfg.Connection.BucketName,
		SubResource: object,
		Duration:    duration,
		Error:       err,
		Size:        size,
	})
}
