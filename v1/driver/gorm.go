package driver

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// GormDriver opens connections through gorm dialectors.
type GormDriver struct {
	dialect Dialect

	// ConnMaxLifetime bounds the pinned connection's lifetime in the pool. Zero
	// keeps it open until Close.
	ConnMaxLifetime time.Duration
}

// NewGormDriver returns a driver for the named dialect.
func NewGormDriver(dialect string) (*GormDriver, error) {
	d, err := LookupDialect(dialect)
	if err != nil {
		return nil, err
	}
	return &GormDriver{dialect: d}, nil
}

// Dialect implements Driver.
func (g *GormDriver) Dialect() Dialect {
	return g.dialect
}

// Connect opens the database with a single-connection pool, pins that
// connection and pings it. The ping is bounded by t.ConnectTimeout.
func (g *GormDriver) Connect(ctx context.Context, t Target) (Conn, error) {
	if t.Port == 0 {
		t.Port = g.dialect.DefaultPort()
	}
	if t.ConnectTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, t.ConnectTimeout)
		defer cancel()
	}

	db, err := gorm.Open(g.dialect.Dialector(t), &gorm.Config{
		Logger:                 gormlogger.Default.LogMode(gormlogger.Silent),
		SkipDefaultTransaction: true,
		DisableAutomaticPing:   true,
	})
	if err != nil {
		return nil, fmt.Errorf("open %s database %s: %w", g.dialect.Name(), t.Address(), err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get %s database instance: %w", g.dialect.Name(), err)
	}
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)
	sqlDB.SetConnMaxLifetime(g.ConnMaxLifetime)

	conn, err := sqlDB.Conn(ctx)
	if err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("connect to %s: %w", t.Address(), err)
	}
	if err := conn.PingContext(ctx); err != nil {
		_ = conn.Close()
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping %s: %w", t.Address(), err)
	}

	return &gormConn{db: db, sqlDB: sqlDB, conn: conn, dialect: g.dialect}, nil
}

type gormConn struct {
	db      *gorm.DB
	sqlDB   *sql.DB
	conn    *sql.Conn
	dialect Dialect
}

// session routes statements through the pinned connection.
func (c *gormConn) session(ctx context.Context) *gorm.DB {
	tx := c.db.Session(&gorm.Session{NewDB: true, Context: ctx})
	tx.Statement.ConnPool = c.conn
	return tx
}

func (c *gormConn) Execute(ctx context.Context, text string, wantRows bool) (*Result, error) {
	if !wantRows {
		res := c.session(ctx).Exec(text)
		if res.Error != nil {
			return nil, res.Error
		}
		return NewExecResult(res.RowsAffected), nil
	}

	rows, err := c.session(ctx).Raw(text).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return bufferRows(rows)
}

func (c *gormConn) WarningsAsErrors(ctx context.Context) error {
	for _, stmt := range c.dialect.SessionSetup() {
		if err := c.session(ctx).Exec(stmt).Error; err != nil {
			return fmt.Errorf("apply session setting %q: %w", stmt, err)
		}
	}
	return nil
}

func (c *gormConn) Close() error {
	connErr := c.conn.Close()
	dbErr := c.sqlDB.Close()
	if connErr != nil {
		return connErr
	}
	return dbErr
}

// rowScanner is the part of *sql.Rows bufferRows needs.
type rowScanner interface {
	Columns() ([]string, error)
	Next() bool
	Scan(dest ...interface{}) error
	Err() error
}

func bufferRows(rows rowScanner) (*Result, error) {
	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	var buffered [][]interface{}
	for rows.Next() {
		values := make([]interface{}, len(columns))
		ptrs := make([]interface{}, len(columns))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}
		for i, v := range values {
			if b, ok := v.([]byte); ok {
				values[i] = string(b)
			}
		}
		buffered = append(buffered, values)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return NewRowsResult(columns, buffered), nil
}
