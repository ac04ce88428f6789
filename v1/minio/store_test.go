package minio

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Aleph-Alpha/sqlshim/v1/observability"
	"github.com/Aleph-Alpha/sqlshim/v1/snapshot"
)

func TestTranslateMapsMissingObjectsToNotFound(t *testing.T) {
	s := &Store{cfg: Config{Prefix: "billing/"}}

	err := s.translate("billing/db-schema.json", minio.ErrorResponse{Code: "NoSuchKey", StatusCode: http.StatusNotFound})
	assert.ErrorIs(t, err, snapshot.ErrNotFound)

	err = s.translate("billing/db-schema.json", minio.ErrorResponse{Code: "AccessDenied", StatusCode: http.StatusForbidden})
	assert.NotErrorIs(t, err, snapshot.ErrNotFound)
	assert.Contains(t, err.Error(), "billing/db-schema.json")
}

func TestObjectKeyAppliesPrefix(t *testing.T) {
	assert.Equal(t, "db-schema.json", (&Store{}).objectKey("db-schema.json"))
	assert.Equal(t, "billing/db-schema.json", (&Store{cfg: Config{Prefix: "billing/"}}).objectKey("db-schema.json"))
}

func TestStoreWithoutClientFails(t *testing.T) {
	var ops []observability.OperationContext
	s := (&Store{cfg: Config{Connection: ConnectionConfig{BucketName: "schemas"}}}).
		WithObserver(observability.ObserverFunc(func(op observability.OperationContext) { ops = append(ops, op) }))

	_, err := s.Load(context.Background(), "k")
	assert.ErrorIs(t, err, ErrConnectionFailed)
	assert.ErrorIs(t, s.Save(context.Background(), "k", []byte("{}")), ErrConnectionFailed)

	require.Len(t, ops, 2)
	assert.Equal(t, "get", ops[0].Operation)
	assert.Equal(t, "put", ops[1].Operation)
	assert.Equal(t, "schemas", ops[1].Resource)
	assert.True(t, errors.Is(ops[1].Error, ErrConnectionFailed))
}

func TestNewClientRequiresEndpoint(t *testing.T) {
	_, err := NewClient(Config{})
	assert.Error(t, err)
}
