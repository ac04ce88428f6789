package s3

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"

	"github.com/Aleph-Alpha/sqlshim/v1/observability"
	"github.com/Aleph-Alpha/sqlshim/v1/snapshot"
)

var _ snapshot.Store = (*Store)(nil)

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

	resp, err := s.api.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.cfg.Bucket),
		Key:    aws.String(object),
	})
	if err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("%w: s3://%s/%s", snapshot.ErrNotFound, s.cfg.Bucket, object)
		}
		return nil, fmt.Errorf("s3: get s3://%s/%s: %w", s.cfg.Bucket, object, err)
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil && s.logger != nil {
			s.logger.Warn("failed to close object body", cerr, map[string]interface{}{"key": object})
		}
	}()

	data, err = io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("s3: read s3://%s/%s: %w", s.cfg.Bucket, object, err)
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

	_, err = s.api.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.cfg.Bucket),
		Key:         aws.String(object),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return fmt.Errorf("s3: put s3://%s/%s: %w", s.cfg.Bucket, object, err)
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

	_, err = s.api.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.cfg.Bucket),
		Key:    aws.String(object),
	})
	if err != nil {
		return fmt.Errorf("s3: delete s3://%s/%s: %w", s.cfg.Bucket, object, err)
	}
	return nil
}

// isNotFound matches the typed NoSuchKey error and the bare 404 some
// S3-compatible services answer with.
func isNotFound(err error) bool {
	var noSuchKey *types.NoSuchKey
	if errors.As(err, &noSuchKey) {
		return true
	}
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NoSuchKey", "NotFound":
			return true
		}
	}
	return false
}

func (s *Store) observeOperation(operation, object string, duration time.Duration, err error, size int64) {
	if s.observer == nil {
		return
	}
	s.observer.ObserveOperation(observability.OperationContext{
		Component:   "s3",
		Operation:   operation,
		Resource:    s.cfg.Bucket,
		SubResource: object,
		Duration:    duration,
		Error:       err,
		Size:        size,
	})
}
