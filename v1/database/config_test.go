package database

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Aleph-Alpha/sqlshim/v1/coerce"
	"github.com/Aleph-Alpha/sqlshim/v1/driver"
	"github.com/Aleph-Alpha/sqlshim/v1/snapshot"
)

func dialect(t *testing.T, name string) driver.Dialect {
	d, err := driver.LookupDialect(name)
	require.NoError(t, err)
	return d
}

func TestTargetDefaultsPortPerDialect(t *testing.T) {
	cfg := Config{
		Connection:        Connection{Host: "db", DbName: "shop", User: "app", SSLMode: "require"},
		ConnectionDetails: ConnectionDetails{ConnectTimeout: 5 * time.Second},
	}

	assert.Equal(t, 1433, cfg.target(dialect(t, driver.SQLServer)).Port)
	assert.Equal(t, 5432, cfg.target(dialect(t, driver.Postgres)).Port)
	assert.Equal(t, 3306, cfg.target(dialect(t, driver.MySQL)).Port)

	cfg.Connection.Port = 14330
	target := cfg.target(dialect(t, driver.SQLServer))
	assert.Equal(t, driver.Target{
		Host: "db", Port: 14330, Database: "shop", User: "app", SSLMode: "require", ConnectTimeout: 5 * time.Second,
	}, target)
}

func TestCoercerFollowsDialectUnlessOverridden(t *testing.T) {
	c, err := Config{}.coercer(dialect(t, driver.SQLServer))
	require.NoError(t, err)
	assert.Equal(t, coerce.QuoteDoubling, c.Style)
	assert.Equal(t, coerce.PolicyPassthrough, c.Policy)
	assert.Equal(t, coerce.CharsetLatin1, c.Charset)

	c, err = Config{}.coercer(dialect(t, driver.MySQL))
	require.NoError(t, err)
	assert.Equal(t, coerce.QuoteBackslash, c.Style)

	c, err = Config{Coercion: Coercion{QuoteStyle: "backslash", EncodingPolicy: "reject"}}.coercer(dialect(t, driver.SQLServer))
	require.NoError(t, err)
	assert.Equal(t, coerce.QuoteBackslash, c.Style)
	assert.Equal(t, coerce.PolicyReject, c.Policy)
}

func TestCoercerRejectsInvalidSettings(t *testing.T) {
	d := dialect(t, driver.SQLServer)
	for name, cfg := range map[string]Config{
		"policy":  {Coercion: Coercion{EncodingPolicy: "transliterate"}},
		"style":   {Coercion: Coercion{QuoteStyle: "dollar"}},
		"charset": {Coercion: Coercion{Charset: "ebcdic"}},
	} {
		t.Run(name, func(t *testing.T) {
			_, err := cfg.coercer(d)
			assert.Error(t, err)
		})
	}
}

func TestSnapshotLocation(t *testing.T) {
	injected := snapshot.NewMemory()

	t.Run("off", func(t *testing.T) {
		for _, mode := range []string{"", "off", " OFF "} {
			store, _, err := Config{SchemaCaching: SchemaCaching{Mode: mode}}.snapshotLocation(injected)
			require.NoError(t, err)
			assert.Nil(t, store)
		}
	})

	t.Run("default uses the file store and default key", func(t *testing.T) {
		store, key, err := Config{SchemaCaching: SchemaCaching{Mode: "default"}}.snapshotLocation(nil)
		require.NoError(t, err)
		assert.IsType(t, &snapshot.FileStore{}, store)
		assert.Equal(t, snapshot.DefaultKey, key)
	})

	t.Run("injected store wins", func(t *testing.T) {
		store, key, err := Config{SchemaCaching: SchemaCaching{Mode: "path", Path: "/tmp/x.json", Key: "k"}}.snapshotLocation(injected)
		require.NoError(t, err)
		assert.Same(t, injected, store)
		assert.Equal(t, "k", key)
	})

	t.Run("path splits directory and file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "schema.json")
		store, key, err := Config{SchemaCaching: SchemaCaching{Mode: "path", Path: path}}.snapshotLocation(nil)
		require.NoError(t, err)
		assert.IsType(t, &snapshot.FileStore{}, store)
		assert.Equal(t, "schema.json", key)
	})

	t.Run("path requires a path", func(t *testing.T) {
		_, _, err := Config{SchemaCaching: SchemaCaching{Mode: "path"}}.snapshotLocation(nil)
		assert.Error(t, err)
	})

	t.Run("unknown mode", func(t *testing.T) {
		_, _, err := Config{SchemaCaching: SchemaCaching{Mode: "redis"}}.snapshotLocation(nil)
		assert.Error(t, err)
	})
}
