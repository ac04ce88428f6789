package schema

import (
	"context"
	"errors"
	"fmt"

	"github.com/Aleph-Alpha/sqlshim/v1/snapshot"
)

// ErrSchemaLoad marks every failure of Loader.Load. Callers treat it as
// "schema caching disabled", never as fatal.
var ErrSchemaLoad = errors.New("schema: load failed")

// Introspector runs the catalog queries a Loader needs.
//
//go:generate mockgen -source=load.go -destination=mock_introspector.go -package=schema
type Introspector interface {
	// Tables lists the base tables of catalog.
	Tables(ctx context.Context, catalog string) ([]string, error)

	// Columns returns one field map per column of table. Each map carries at
	// least COLUMN_NAME, TYPE_NAME and NULLABLE.
	Columns(ctx context.Context, table string) ([]map[string]interface{}, error)
}

// Logger is the subset of logger.Logger the loader uses.
type Logger interface {
	Info(msg string, err error, fields ...map[string]interface{})
	Warn(msg string, err error, fields ...map[string]interface{})
}

// Loader restores or builds a Cache.
type Loader struct {
	Introspector Introspector

	// Store persists snapshots. With a nil Store the cache is always introspected
	// and never persisted.
	Store snapshot.Store

	// Key is the snapshot key, snapshot.DefaultKey when empty.
	Key string

	Logger Logger
}

func (l *Loader) key() string {
	if l.Key == "" {
		return snapshot.DefaultKey
	}
	return l.Key
}

// Load returns the persisted snapshot when one exists and force is false, without
// touching the database. Otherwise it introspects catalog, persists the result and
// returns it. The returned cache is complete or absent, never partial.
func (l *Loader) Load(ctx context.Context, catalog string, force bool) (*Cache, error) {
	if l.Store != nil && !force {
		cache, err := l.restore(ctx)
		if err == nil {
			l.info("Schema cache restored from snapshot", map[string]interface{}{
				"key":    l.key(),
				"tables": len(cache.tables),
			})
			return cache, nil
		}
		if !errors.Is(err, snapshot.ErrNotFound) {
			l.warn("Ignoring unusable schema snapshot", err, map[string]interface{}{"key": l.key()})
		}
	}

	if l.Introspector == nil {
		return nil, fmt.Errorf("%w: no introspector configured", ErrSchemaLoad)
	}

	tables, err := l.Introspector.Tables(ctx, catalog)
	if err != nil {
		return nil, fmt.Errorf("%w: list tables of %q: %w", ErrSchemaLoad, catalog, err)
	}

	assembled := make(map[string]map[string]ColumnDescriptor, len(tables))
	for _, table := range tables {
		rows, err := l.Introspector.Columns(ctx, table)
		if err != nil {
			return nil, fmt.Errorf("%w: list columns of %q: %w", ErrSchemaLoad, table, err)
		}
		columns := make(map[string]ColumnDescriptor, len(rows))
		for _, row := range rows {
			name, ok := asString(row[FieldColumnName])
			if !ok || name == "" {
				return nil, fmt.Errorf("%w: column row of %q without %s", ErrSchemaLoad, table, FieldColumnName)
			}
			desc, err := DescriptorFromFields(row)
			if err != nil {
				return nil, fmt.Errorf("%w: %s.%s: %w", ErrSchemaLoad, table, name, err)
			}
			columns[name] = desc
		}
		assembled[table] = columns
	}

	cache := New(assembled, SourceIntrospection)

	if l.Store != nil {
		data, err := Encode(cache)
		if err != nil {
			return nil, fmt.Errorf("%w: encode snapshot: %w", ErrSchemaLoad, err)
		}
		if err := l.Store.Save(ctx, l.key(), data); err != nil {
			return nil, fmt.Errorf("%w: persist snapshot %q: %w", ErrSchemaLoad, l.key(), err)
		}
	}

	l.info("Schema cache built from introspection", map[string]interface{}{
		"catalog": catalog,
		"tables":  len(assembled),
		"forced":  force,
	})
	return cache, nil
}

// Restore returns the persisted snapshot and never introspects. The error wraps
// snapshot.ErrNotFound when nothing has been persisted yet.
func (l *Loader) Restore(ctx context.Context) (*Cache, error) {
	if l.Store == nil {
		return nil, fmt.Errorf("%w: no snapshot store configured", ErrSchemaLoad)
	}
	cache, err := l.restore(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: restore snapshot %q: %w", ErrSchemaLoad, l.key(), err)
	}
	l.info("Schema cache restored from snapshot", map[string]interface{}{
		"key":    l.key(),
		"tables": len(cache.tables),
	})
	return cache, nil
}

func (l *Loader) restore(ctx context.Context) (*Cache, error) {
	data, err := l.Store.Load(ctx, l.key())
	if err != nil {
		return nil, err
	}
	return Decode(data)
}

func (l *Loader) info(msg string, fields map[string]interface{}) {
	if l.Logger != nil {
		l.Logger.Info(msg, nil, fields)
	}
}

func (l *Loader) warn(msg string, err error, fields map[string]interface{}) {
	if l.Logger != nil {
		l.Logger.Warn(msg, err, fields)
	}
}
