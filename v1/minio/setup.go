package minio

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/Aleph-Alpha/sqlshim/v1/observability"
)

// Store keeps schema snapshots as objects in a MinIO bucket.
type Store struct {
	// client is swapped during reconnection without racing concurrent operations.
	client atomic.Pointer[minio.Client]

	cfg      Config
	observer observability.Observer
	logger   Logger

	shutdownSignal    chan struct{}
	reconnectSignal   chan error
	closeShutdownOnce sync.Once
}

// NewClient connects to MinIO, validates the connection and makes sure the
// bucket exists, creating it when AccessBucketCreation is set.
func NewClient(cfg Config) (*Store, error) {
	client, err := connectToMinio(cfg)
	if err != nil {
		return nil, err
	}

	s := &Store{
		cfg:             cfg,
		shutdownSignal:  make(chan struct{}),
		reconnectSignal: make(chan error, 1),
	}
	s.client.Store(client)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := s.ensureBucketExists(ctx); err != nil {
		return nil, err
	}
	return s, nil
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

// GracefulShutdown stops the connection monitor and the reconnect loop. It is
// safe to call more than once.
func (s *Store) GracefulShutdown() {
	s.closeShutdownOnce.Do(func() {
		close(s.shutdownSignal)
	})
}

func connectToMinio(cfg Config) (*minio.Client, error) {
	if cfg.Connection.Endpoint == "" {
		return nil, fmt.Errorf("minio endpoint cannot be empty")
	}
	return minio.New(cfg.Connection.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.Connection.AccessKeyID, cfg.Connection.SecretAccessKey, ""),
		Secure: cfg.Connection.UseSSL,
		Region: cfg.Connection.Region,
	})
}

func (s *Store) ensureBucketExists(ctx context.Context) error {
	bucket := s.cfg.Connection.BucketName
	if bucket == "" {
		return fmt.Errorf("bucket name is empty")
	}

	c := s.client.Load()
	if c == nil {
		return ErrConnectionFailed
	}

	exists, err := c.BucketExists(ctx, bucket)
	if err != nil {
		return fmt.Errorf("failed to check if bucket exists, bucket: %v, err: %w", bucket, err)
	}
	if exists {
		return nil
	}
	if !s.cfg.Connection.AccessBucketCreation {
		return fmt.Errorf("%w: %s", ErrBucketMissing, bucket)
	}

	s.logInfo(ctx, "Bucket does not exist, creating it", map[string]interface{}{
		"bucket": bucket,
		"region": s.cfg.Connection.Region,
	})
	if err := c.MakeBucket(ctx, bucket, minio.MakeBucketOptions{Region: s.cfg.Connection.Region}); err != nil {
		return err
	}
	s.logInfo(ctx, "Successfully created bucket", map[string]interface{}{"bucket": bucket})
	return nil
}

// monitorConnection probes the bucket periodically and signals the reconnect
// loop when the probe fails.
func (s *Store) monitorConnection(ctx context.Context) {
	ticker := time.NewTicker(connectionHealthCheckInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			checkCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
			_, err := s.client.Load().BucketExists(checkCtx, s.cfg.Connection.BucketName)
			cancel()
			if err != nil {
				s.logError(ctx, "MinIO connection health check failed", err, map[string]interface{}{
					"endpoint": s.cfg.Connection.Endpoint,
				})
				select {
				case s.reconnectSignal <- err:
				default:
				}
			}
		case <-s.shutdownSignal:
			return
		case <-ctx.Done():
			return
		}
	}
}

// retryConnection replaces the client after a failed health check, retrying
// every second until a new client can see the bucket.
func (s *Store) retryConnection(ctx context.Context) {
	for {
		select {
		case <-s.shutdownSignal:
			s.logInfo(ctx, "Stopping MinIO connection retry loop due to shutdown signal", nil)
			return
		case <-ctx.Done():
			return
		case err := <-s.reconnectSignal:
			s.logWarn(ctx, "MinIO connection issue detected, attempting reconnection", err, map[string]interface{}{
				"endpoint": s.cfg.Connection.Endpoint,
			})
			if !s.reconnect(ctx) {
				return
			}
		}
	}
}

func (s *Store) reconnect(ctx context.Context) bool {
	for {
		select {
		case <-s.shutdownSignal:
			return false
		case <-ctx.Done():
			return false
		default:
		}

		client, err := connectToMinio(s.cfg)
		if err == nil {
			checkCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			_, err = client.BucketExists(checkCtx, s.cfg.Connection.BucketName)
			cancel()
		}
		if err != nil {
			s.logError(ctx, "MinIO reconnection failed", err, map[string]interface{}{
				"endpoint":      s.cfg.Connection.Endpoint,
				"will_retry_in": reconnectBackoff.String(),
			})
			time.Sleep(reconnectBackoff)
			continue
		}

		s.client.Store(client)
		s.logInfo(ctx, "Successfully reconnected to MinIO", map[string]interface{}{
			"endpoint": s.cfg.Connection.Endpoint,
			"bucket":   s.cfg.Connection.BucketName,
		})
		return true
	}
}

func (s *Store) logInfo(ctx context.Context, msg string, fields map[string]interface{}) {
	if s.logger != nil {
		s.logger.InfoWithContext(ctx, msg, nil, fields)
	}
}

func (s *Store) logWarn(ctx context.Context, msg string, err error, fields map[string]interface{}) {
	if s.logger != nil {
		s.logger.WarnWithContext(ctx, msg, err, fields)
	}
}

func (s *Store) logError(ctx context.Context, msg string, err error, fields map[string]interface{}) {
	if s.logger != nil {
		s.logger.ErrorWithContext(ctx, msg, err, fields)
	}
}
