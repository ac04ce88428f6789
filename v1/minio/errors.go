package minio

import (
	"errors"
	"net/http"

	"github.com/minio/minio-go/v7"
)

var (
	// ErrConnectionFailed is returned when no client is available.
	ErrConnectionFailed = errors.New("minio: connection failed")

	// ErrBucketMissing is returned when the bucket does not exist and creation is disabled.
	ErrBucketMissing = errors.New("minio: bucket does not exist")
)

func isNotFound(err error) bool {
	resp := minio.ToErrorResponse(err)
	return resp.Code == "NoSuchKey" || resp.StatusCode == http.StatusNotFound
}
