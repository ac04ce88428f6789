package redis

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"os"
	"sync"

	"github.com/redis/go-redis/v9"

	"github.com/Aleph-Alpha/sqlshim/v1/observability"
)

// RedisClient keeps schema snapshots as Redis string values.
type RedisClient struct {
	client   redis.UniversalClient
	cfg      Config
	logger   Logger
	observer observability.Observer

	mu     sync.RWMutex
	closed bool
}

// NewClient creates a RedisClient. The connection is established lazily by the
// first command; FXModule pings on start.
func NewClient(cfg Config) (*RedisClient, error) {
	cfg = cfg.withDefaults()

	var tlsConfig *tls.Config
	if cfg.TLS.Enabled {
		var err error
		if tlsConfig, err = createTLSConfig(cfg.TLS, cfg.Host); err != nil {
			return nil, fmt.Errorf("failed to create TLS config: %w", err)
		}
	}

	client := redis.NewClient(&redis.Options{
		Addr:            fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Username:        cfg.Username,
		Password:        cfg.Password,
		DB:              cfg.DB,
		PoolSize:        cfg.PoolSize,
		MaxRetries:      cfg.MaxRetries,
		MinRetryBackoff: cfg.MinRetryBackoff,
		MaxRetryBackoff: cfg.MaxRetryBackoff,
		DialTimeout:     cfg.DialTimeout,
		ReadTimeout:     cfg.ReadTimeout,
		WriteTimeout:    cfg.WriteTimeout,
		TLSConfig:       tlsConfig,
	})
	return newWithClient(client, cfg), nil
}

func newWithClient(client redis.UniversalClient, cfg Config) *RedisClient {
	return &RedisClient{client: client, cfg: cfg.withDefaults()}
}

func createTLSConfig(cfg TLSConfig, defaultServerName string) (*tls.Config, error) {
	tlsConfig := &tls.Config{
		InsecureSkipVerify: cfg.InsecureSkipVerify,
		ServerName:         defaultServerName,
	}
	if cfg.ServerName != "" {
		tlsConfig.ServerName = cfg.ServerName
	}

	if cfg.CACertPath != "" {
		caCert, err := os.ReadFile(cfg.CACertPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read CA cert: %w", err)
		}
		pool := x509.NewCertPool()
		if !pool.AppendCertsFromPEM(caCert) {
			return nil, fmt.Errorf("failed to parse CA cert")
		}
		tlsConfig.RootCAs = pool
	}

	if cfg.ClientCertPath != "" && cfg.ClientKeyPath != "" {
		cert, err := tls.LoadX509KeyPair(cfg.ClientCertPath, cfg.ClientKeyPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load client cert: %w", err)
		}
		tlsConfig.Certificates = []tls.Certificate{cert}
	}
	return tlsConfig, nil
}

// Ping checks the connection.
func (r *RedisClient) Ping(ctx context.Context) error {
	c, err := r.get()
	if err != nil {
		return err
	}
	return c.Ping(ctx).Err()
}

// Close closes the underlying client. Later calls return nil.
func (r *RedisClient) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return nil
	}
	r.closed = true
	r.logInfo("Closing Redis client", nil)
	if err := r.client.Close(); err != nil {
		r.logWarn("Failed to close Redis client", err, nil)
		return err
	}
	return nil
}

func (r *RedisClient) get() (redis.UniversalClient, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.closed {
		return nil, ErrClosed
	}
	return r.client, nil
}

// WithObserver attaches an observer that receives one event per Load, Save and Delete.
func (r *RedisClient) WithObserver(observer observability.Observer) *RedisClient {
	r.observer = observer
	return r
}

// WithLogger attaches a logger.
func (r *RedisClient) WithLogger(logger Logger) *RedisClient {
	r.logger = logger
	return r
}

func (r *RedisClient) logInfo(msg string, fields map[string]interface{}) {
	if r.logger != nil {
		r.logger.Info(msg, nil, fields)
	}
}

func (r *RedisClient) logWarn(msg string, err error, fields map[string]interface{}) {
	if r.logger != nil {
		r.logger.Warn(msg, err, fields)
	}
}
