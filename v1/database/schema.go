package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Aleph-Alpha/sqlshim/v1/driver"
	"github.com/Aleph-Alpha/sqlshim/v1/observability"
	"github.com/Aleph-Alpha/sqlshim/v1/schema"
	"github.com/Aleph-Alpha/sqlshim/v1/snapshot"
)

var errCachingDisabled = fmt.Errorf("%w: schema caching is disabled", schema.ErrSchemaLoad)

// LoadSchema restores or rebuilds the schema cache. With force the snapshot is
// ignored and the catalog introspected again. On failure the previous cache, if
// any, stays in use and coercion of unknown columns stays heuristic.
func (db *DB) LoadSchema(ctx context.Context, force bool) error {
	if db.loader == nil {
		return errCachingDisabled
	}

	ctx, span := startSpan(ctx, db.tracer, "database.schema_load")
	defer span.End()

	start := time.Now()
	cache, err := db.loader.Load(ctx, db.cfg.Connection.DbName, force)
	if db.observer != nil {
		var tables int64
		if cache != nil {
			tables = int64(len(cache.Tables()))
		}
		db.observer.ObserveOperation(observability.OperationContext{
			Component: component,
			Operation: "schema_load",
			Resource:  db.cfg.Connection.DbName,
			Duration:  time.Since(start),
			Error:     err,
			Size:      tables,
			Metadata:  map[string]interface{}{"forced": force},
		})
	}
	if err != nil {
		recordSpanError(db.tracer, span, err)
		db.log.Warn("Schema cache unavailable; coercion stays heuristic for unknown columns", err, map[string]interface{}{
			"database": db.cfg.Connection.DbName,
			"forced":   force,
		})
		return err
	}
	db.schema = cache
	return nil
}

// restoreSchema installs a persisted snapshot without touching the connection.
// A missing snapshot is not worth a warning; the next LoadSchema builds one.
func (db *DB) restoreSchema(ctx context.Context) {
	if db.loader == nil {
		return
	}
	cache, err := db.loader.Restore(ctx)
	if err != nil {
		if !errors.Is(err, snapshot.ErrNotFound) {
			db.log.Warn("Schema cache unavailable; coercion stays heuristic for unknown columns", err, map[string]interface{}{
				"database": db.cfg.Connection.DbName,
			})
		}
		return
	}
	db.schema = cache
}

// introspector runs catalog queries on the client's connection without
// touching the request cycle.
type introspector struct {
	db *DB
}

func (i *introspector) exec(ctx context.Context, text string) (*driver.Result, error) {
	conn, errs := i.db.conn.ensure(ctx)
	if errs != nil {
		return nil, errs
	}
	res, err := conn.Execute(ctx, text, true)
	if err != nil {
		if driver.IsConnectionLost(err) {
			i.db.conn.drop(err)
		}
		return nil, err
	}
	return res, nil
}

func (i *introspector) Tables(ctx context.Context, catalog string) ([]string, error) {
	res, err := i.exec(ctx, i.db.dialect.TablesQuery(catalog))
	if err != nil {
		return nil, err
	}
	var tables []string
	for _, row := range res.Remaining() {
		v, _ := row.Get(schema.FieldTableName)
		if name, ok := v.(string); ok && name != "" {
			tables = append(tables, name)
		}
	}
	return tables, nil
}

func (i *introspector) Columns(ctx context.Context, table string) ([]map[string]interface{}, error) {
	res, err := i.exec(ctx, i.db.dialect.ColumnsQuery(table))
	if err != nil {
		return nil, err
	}
	rows := res.Remaining()
	out := make([]map[string]interface{}, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.Map())
	}
	return out, nil
}
