package redis

import "time"

// Config holds the settings of the Redis snapshot store.
type Config struct {
	// Default: "localhost"
	Host string `yaml:"host" envconfig:"REDIS_HOST"`

	// Default: 6379
	Port int `yaml:"port" envconfig:"REDIS_PORT"`

	Username string `yaml:"username" envconfig:"REDIS_USERNAME"`
	Password string `yaml:"password" envconfig:"REDIS_PASSWORD"`

	// Default: 0
	DB int `yaml:"db" envconfig:"REDIS_DB"`

	// KeyPrefix is prepended to every snapshot key.
	// Default: "sqlshim:schema:"
	KeyPrefix string `yaml:"key_prefix" envconfig:"REDIS_KEY_PREFIX"`

	// TTL expires snapshots so a stale schema is rebuilt eventually.
	// Default: 0 (never expire)
	TTL time.Duration `yaml:"ttl" envconfig:"REDIS_SNAPSHOT_TTL"`

	// Default: 10 per CPU
	PoolSize int `yaml:"pool_size" envconfig:"REDIS_POOL_SIZE"`

	// Default: 3
	MaxRetries int `yaml:"max_retries" envconfig:"REDIS_MAX_RETRIES"`

	// Default: 8 milliseconds
	MinRetryBackoff time.Duration `yaml:"min_retry_backoff" envconfig:"REDIS_MIN_RETRY_BACKOFF"`

	// Default: 512 milliseconds
	MaxRetryBackoff time.Duration `yaml:"max_retry_backoff" envconfig:"REDIS_MAX_RETRY_BACKOFF"`

	// Default: 5 seconds
	DialTimeout time.Duration `yaml:"dial_timeout" envconfig:"REDIS_DIAL_TIMEOUT"`

	// Default: 3 seconds
	ReadTimeout time.Duration `yaml:"read_timeout" envconfig:"REDIS_READ_TIMEOUT"`

	// Default: ReadTimeout
	WriteTimeout time.Duration `yaml:"write_timeout" envconfig:"REDIS_WRITE_TIMEOUT"`

	TLS TLSConfig `yaml:"tls"`
}

// TLSConfig enables TLS towards the server.
type TLSConfig struct {
	Enabled            bool   `yaml:"enabled" envconfig:"REDIS_TLS_ENABLED"`
	CACertPath         string `yaml:"ca_cert_path" envconfig:"REDIS_TLS_CA_CERT"`
	ClientCertPath     string `yaml:"client_cert_path" envconfig:"REDIS_TLS_CLIENT_CERT"`
	ClientKeyPath      string `yaml:"client_key_path" envconfig:"REDIS_TLS_CLIENT_KEY"`
	InsecureSkipVerify bool   `yaml:"insecure_skip_verify" envconfig:"REDIS_TLS_INSECURE_SKIP_VERIFY"`
	ServerName         string `yaml:"server_name" envconfig:"REDIS_TLS_SERVER_NAME"`
}

// Logger is the logging interface the store uses; *logger.Logger satisfies it.
type Logger interface {
	Error(msg string, err error, fields ...map[string]interface{})
	Info(msg string, err error, fields ...map[string]interface{})
	Warn(msg string, err error, fields ...map[string]interface{})
}

// Default values for configuration
const (
	DefaultHost            = "localhost"
	DefaultPort            = 6379
	DefaultKeyPrefix       = "sqlshim:schema:"
	DefaultMaxRetries      = 3
	DefaultMinRetryBackoff = 8 * time.Millisecond
	DefaultMaxRetryBackoff = 512 * time.Millisecond
	DefaultDialTimeout     = 5 * time.Second
	DefaultReadTimeout     = 3 * time.Second
)

func (c Config) withDefaults() Config {
	if c.Host == "" {
		c.Host = DefaultHost
	}
	if c.Port == 0 {
		c.Port = DefaultPort
	}
	if c.KeyPrefix == "" {
		c.KeyPrefix = DefaultKeyPrefix
	}
	if c.MaxRetries == 0 {
		c.MaxRetries = DefaultMaxRetries
	}
	if c.MinRetryBackoff == 0 {
		c.MinRetryBackoff = DefaultMinRetryBackoff
	}
	if c.MaxRetryBackoff == 0 {
		c.MaxRetryBackoff = DefaultMaxRetryBackoff
	}
	if c.DialTimeout == 0 {
		c.DialTimeout = DefaultDialTimeout
	}
	if c.ReadTimeout == 0 {
		c.ReadTimeout = DefaultReadTimeout
	}
	return c
}
