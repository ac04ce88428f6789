package database

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/Aleph-Alpha/sqlshim/v1/coerce"
	"github.com/Aleph-Alpha/sqlshim/v1/driver"
	"github.com/Aleph-Alpha/sqlshim/v1/snapshot"
)

// Schema caching modes.
const (
	SchemaCachingOff     = "off"
	SchemaCachingDefault = "default"
	SchemaCachingPath    = "path"
)

// Config configures a DB.
type Config struct {
	// Dialect is one of sqlserver (default), postgres or mysql.
	Dialect string `yaml:"dialect" envconfig:"DB_DIALECT"`

	Connection        Connection        `yaml:"connection"`
	ConnectionDetails ConnectionDetails `yaml:"connection_details"`
	SchemaCaching     SchemaCaching     `yaml:"schema_caching"`
	Coercion          Coercion          `yaml:"coercion"`

	// StrictHasRows makes statements run without expecting rows report
	// has-rows from the actual result instead of always true.
	StrictHasRows bool `yaml:"strict_has_rows" envconfig:"DB_STRICT_HAS_ROWS"`
}

// Connection addresses the server.
type Connection struct {
	Host string `yaml:"host" envconfig:"DB_HOST"`

	// Port defaults to the dialect's port (1433 for sqlserver).
	Port     int    `yaml:"port" envconfig:"DB_PORT"`
	User     string `yaml:"user" envconfig:"DB_USER"`
	Password string `yaml:"password" envconfig:"DB_PASSWORD"`
	DbName   string `yaml:"db_name" envconfig:"DB_NAME"`
	SSLMode  string `yaml:"ssl_mode" envconfig:"DB_SSL_MODE"`
}

// ConnectionDetails tunes the connection.
type ConnectionDetails struct {
	ConnectTimeout  time.Duration `yaml:"connect_timeout" envconfig:"DB_CONNECT_TIMEOUT"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime" envconfig:"DB_CONN_MAX_LIFETIME"`
}

// SchemaCaching selects where the schema snapshot lives.
type SchemaCaching struct {
	// Mode is off (default), default or path.
	Mode string `yaml:"mode" envconfig:"DB_SCHEMA_CACHING"`

	// Path is the snapshot file for mode path.
	Path string `yaml:"path" envconfig:"DB_SCHEMA_PATH"`

	// Key names the snapshot for mode default and for injected stores.
	Key string `yaml:"key" envconfig:"DB_SCHEMA_KEY"`
}

// Coercion configures literal rendering.
type Coercion struct {
	// EncodingPolicy is passthrough (default), narrow or reject.
	EncodingPolicy string `yaml:"encoding_policy" envconfig:"DB_ENCODING_POLICY"`

	// Charset is iso-8859-1 (default) or windows-1252.
	Charset string `yaml:"charset" envconfig:"DB_CHARSET"`

	// QuoteStyle overrides the dialect's style: backslash or doubling.
	QuoteStyle string `yaml:"quote_style" envconfig:"DB_QUOTE_STYLE"`
}

func (c Config) target(d driver.Dialect) driver.Target {
	port := c.Connection.Port
	if port == 0 {
		port = d.DefaultPort()
	}
	return driver.Target{
		Host:           c.Connection.Host,
		Port:           port,
		Database:       c.Connection.DbName,
		User:           c.Connection.User,
		Password:       c.Connection.Password,
		SSLMode:        c.Connection.SSLMode,
		ConnectTimeout: c.ConnectionDetails.ConnectTimeout,
	}
}

func (c Config) coercer(d driver.Dialect) (*coerce.Coercer, error) {
	policy, err := coerce.ParsePolicy(c.Coercion.EncodingPolicy)
	if err != nil {
		return nil, err
	}
	style := d.QuoteStyle()
	if c.Coercion.QuoteStyle != "" {
		if style, err = coerce.ParseQuoteStyle(c.Coercion.QuoteStyle); err != nil {
			return nil, err
		}
	}
	charset := coerce.Charset(c.Coercion.Charset)
	if charset == "" {
		charset = coerce.CharsetLatin1
	}
	if _, err := coerce.Normalize("é", coerce.PolicyNarrow, charset); err != nil {
		return nil, err
	}
	return &coerce.Coercer{
		Style:        style,
		Policy:       policy,
		Charset:      charset,
		NumericTypes: d.NumericTypes(),
	}, nil
}

// snapshotLocation resolves the store and key for the caching mode. A nil store
// means caching is off. injected replaces the file store when caching is on.
func (c Config) snapshotLocation(injected snapshot.Store) (snapshot.Store, string, error) {
	key := c.SchemaCaching.Key
	if key == "" {
		key = snapshot.DefaultKey
	}

	switch strings.ToLower(strings.TrimSpace(c.SchemaCaching.Mode)) {
	case "", SchemaCachingOff:
		return nil, "", nil
	case SchemaCachingDefault:
		if injected != nil {
			return injected, key, nil
		}
		return snapshot.NewFileStore(snapshot.DefaultDir()), key, nil
	case SchemaCachingPath:
		if injected != nil {
			return injected, key, nil
		}
		if c.SchemaCaching.Path == "" {
			return nil, "", fmt.Errorf("database: schema caching mode %q requires a path", SchemaCachingPath)
		}
		return snapshot.NewFileStore(filepath.Dir(c.SchemaCaching.Path)), filepath.Base(c.SchemaCaching.Path), nil
	default:
		return nil, "", fmt.Errorf("database: unknown schema caching mode %q", c.SchemaCaching.Mode)
	}
}
