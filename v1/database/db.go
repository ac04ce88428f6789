package database

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/Aleph-Alpha/sqlshim/v1/builder"
	"github.com/Aleph-Alpha/sqlshim/v1/coerce"
	"github.com/Aleph-Alpha/sqlshim/v1/driver"
	"github.com/Aleph-Alpha/sqlshim/v1/logger"
	"github.com/Aleph-Alpha/sqlshim/v1/observability"
	"github.com/Aleph-Alpha/sqlshim/v1/schema"
	"github.com/Aleph-Alpha/sqlshim/v1/snapshot"
)

const component = "database"

// DB is a single-connection SQL client. It is not safe for concurrent use;
// give each worker its own DB or serialize access.
type DB struct {
	cfg     Config
	dialect driver.Dialect
	conn    *connManager
	coercer *coerce.Coercer
	schema  *schema.Cache
	loader  *schema.Loader
	cycle   *Cycle

	log      Logger
	observer observability.Observer
	tracer   Tracer
	store    snapshot.Store
}

// Option customizes a DB.
type Option func(*DB)

// WithLogger sets the logger. The default discards everything.
func WithLogger(l Logger) Option {
	return func(db *DB) {
		if l != nil {
			db.log = l
		}
	}
}

// WithObserver reports connects, statements and schema loads to o.
func WithObserver(o observability.Observer) Option {
	return func(db *DB) { db.observer = o }
}

// WithTracer wraps connects, statements and schema loads in spans.
func WithTracer(t Tracer) Option {
	return func(db *DB) { db.tracer = t }
}

// WithSnapshotStore persists the schema snapshot in s instead of a file. It only
// takes effect when schema caching is enabled.
func WithSnapshotStore(s snapshot.Store) Option {
	return func(db *DB) { db.store = s }
}

// New builds a client over drv and connects once. A failed connect is recorded
// (see HasError) and retried by the next statement; it does not fail New. When
// schema caching is enabled the schema cache is loaded after a successful
// connect. After a failed one only a persisted snapshot is restored; without
// one the client stays heuristic until LoadSchema is called once the server is
// reachable. Only invalid configuration makes New fail.
func New(ctx context.Context, cfg Config, drv driver.Driver, opts ...Option) (*DB, error) {
	dialect := drv.Dialect()
	coercer, err := cfg.coercer(dialect)
	if err != nil {
		return nil, fmt.Errorf("database: %w", err)
	}

	db := &DB{
		cfg:     cfg,
		dialect: dialect,
		coercer: coercer,
		log:     logger.NewNop(),
	}
	for _, opt := range opts {
		opt(db)
	}

	store, key, err := cfg.snapshotLocation(db.store)
	if err != nil {
		return nil, err
	}
	if store != nil {
		db.loader = &schema.Loader{
			Introspector: &introspector{db: db},
			Store:        store,
			Key:          key,
			Logger:       db.log,
		}
	}

	db.conn = &connManager{
		drv:      drv,
		target:   cfg.target(dialect),
		log:      db.log,
		observer: db.observer,
		tracer:   db.tracer,
	}

	if _, errs := db.conn.ensure(ctx); errs != nil {
		db.cycle = &Cycle{errs: errs}
		db.restoreSchema(ctx)
		return db, nil
	}
	if db.loader != nil {
		_ = db.LoadSchema(ctx, false)
	}
	return db, nil
}

// Open selects the gorm driver for cfg.Dialect and calls New.
func Open(ctx context.Context, cfg Config, opts ...Option) (*DB, error) {
	drv, err := driver.NewGormDriver(cfg.Dialect)
	if err != nil {
		return nil, err
	}
	drv.ConnMaxLifetime = cfg.ConnectionDetails.ConnMaxLifetime
	return New(ctx, cfg, drv, opts...)
}

// State reports whether the client currently holds a connection.
func (db *DB) State() ConnectionState {
	return db.conn.state()
}

// Schema returns the loaded schema cache, nil when none is loaded.
func (db *DB) Schema() *schema.Cache {
	return db.schema
}

// Close releases the connection. A later statement reconnects.
func (db *DB) Close() error {
	return db.conn.close()
}

func (db *DB) builder() *builder.Builder {
	c := *db.coercer
	c.Schema = db.schema
	return builder.New(&c)
}

func startSpan(ctx context.Context, t Tracer, name string) (context.Context, trace.Span) {
	if t == nil {
		return ctx, noop.Span{}
	}
	return t.StartSpan(ctx, name)
}

func recordSpanError(t Tracer, span trace.Span, err error) {
	if t != nil && err != nil {
		t.RecordErrorOnSpan(span, err)
	}
}
