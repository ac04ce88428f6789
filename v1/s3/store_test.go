package s3

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Aleph-Alpha/sqlshim/v1/observability"
	"github.com/Aleph-Alpha/sqlshim/v1/snapshot"
)

// fakeAPI keeps objects in memory, keyed by bucket/key.
type fakeAPI struct {
	objects map[string][]byte
	getErr  error
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{objects: map[string][]byte{}}
}

func (f *fakeAPI) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	data, ok := f.objects[aws.ToString(in.Bucket)+"/"+aws.ToString(in.Key)]
	if !ok {
		return nil, &types.NoSuchKey{Message: aws.String("The specified key does not exist.")}
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(data))}, nil
}

func (f *fakeAPI) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	data, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.objects[aws.ToString(in.Bucket)+"/"+aws.ToString(in.Key)] = data
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeAPI) DeleteObject(_ context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	delete(f.objects, aws.ToString(in.Bucket)+"/"+aws.ToString(in.Key))
	return &s3.DeleteObjectOutput{}, nil
}

func TestStoreRoundTrip(t *testing.T) {
	api := newFakeAPI()
	var ops []observability.OperationContext
	s := (&Store{api: api, cfg: Config{Bucket: "schemas", Prefix: "billing/"}}).
		WithObserver(observability.ObserverFunc(func(op observability.OperationContext) { ops = append(ops, op) }))
	ctx := context.Background()

	_, err := s.Load(ctx, snapshot.DefaultKey)
	require.ErrorIs(t, err, snapshot.ErrNotFound)

	require.NoError(t, s.Save(ctx, snapshot.DefaultKey, []byte(`{"users":{}}`)))
	assert.Contains(t, api.objects, "schemas/billing/"+snapshot.DefaultKey)

	data, err := s.Load(ctx, snapshot.DefaultKey)
	require.NoError(t, err)
	assert.Equal(t, `{"users":{}}`, string(data))

	require.NoError(t, s.Delete(ctx, snapshot.DefaultKey))
	_, err = s.Load(ctx, snapshot.DefaultKey)
	assert.ErrorIs(t, err, snapshot.ErrNotFound)

	require.Len(t, ops, 5)
	assert.Equal(t, "s3", ops[1].Component)
	assert.Equal(t, "put", ops[1].Operation)
	assert.Equal(t, "billing/"+snapshot.DefaultKey, ops[1].SubResource)
	assert.Equal(t, int64(12), ops[2].Size)
}

func TestLoadTranslatesErrors(t *testing.T) {
	api := newFakeAPI()
	s := &Store{api: api, cfg: Config{Bucket: "schemas"}}

	api.getErr = &smithy.GenericAPIError{Code: "NotFound", Message: "Not Found"}
	_, err := s.Load(context.Background(), "k")
	assert.ErrorIs(t, err, snapshot.ErrNotFound)

	denied := &smithy.GenericAPIError{Code: "AccessDenied", Message: "Access Denied"}
	api.getErr = denied
	_, err = s.Load(context.Background(), "k")
	assert.NotErrorIs(t, err, snapshot.ErrNotFound)
	var apiErr smithy.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "AccessDenied", apiErr.ErrorCode())
}

func TestNewClientRequiresBucket(t *testing.T) {
	_, err := NewClient(context.Background(), Config{})
	assert.Error(t, err)
}

func TestNewClientWithStaticCredentials(t *testing.T) {
	s, err := NewClient(context.Background(), Config{
		Bucket:    "schemas",
		Region:    "us-east-1",
		AccessKey: "AKIAEXAMPLE",
		SecretKey: "secret",
		Endpoint:  "http://localhost:9000",
	})
	require.NoError(t, err)
	assert.IsType(t, &s3.Client{}, s.api)
}
