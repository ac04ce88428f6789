package s3

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/Aleph-Alpha/sqlshim/v1/observability"
)

// objectAPI is the part of *s3.Client the store calls.
type objectAPI interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// Logger is the logging interface the store uses; *logger.Logger satisfies it.
type Logger interface {
	Warn(msg string, err error, fields ...map[string]interface{})
}

// Store keeps schema snapshots as objects in an S3 bucket.
type Store struct {
	api      objectAPI
	cfg      Config
	observer observability.Observer
	logger   Logger
}

// NewClient loads the AWS configuration and builds the S3 client.
func NewClient(ctx context.Context, cfg Config) (*Store, error) {
	if cfg.Bucket == "" {
		return nil, errors.New("s3: bucket name is empty")
	}

	var opts []func(*config.LoadOptions) error
	if cfg.Region != "" {
		opts = append(opts, config.WithRegion(cfg.Region))
	}
	if cfg.AccessKey != "" && cfg.SecretKey != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("s3: load AWS config: %w", err)
	}

	var clientOpts []func(*s3.Options)
	if cfg.Endpoint != "" {
		clientOpts = append(clientOpts, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		})
	}
	return &Store{api: s3.NewFromConfig(awsCfg, clientOpts...), cfg: cfg}, nil
}

// WithObserver attaches an observer that receives one event per Load, Save and Delete.
func (s *Store) WithObserver(observer observability.Observer) *Store {
	s.observer = observer
	return s
}

// WithLogger attaches a logger.
func (s *Store) WithLogger(logger Logger) *Store {
	s.logger = logger
	return s
}
