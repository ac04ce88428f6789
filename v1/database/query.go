package database

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/Aleph-Alpha/sqlshim/v1/driver"
	"github.com/Aleph-Alpha/sqlshim/v1/observability"
)

// Query runs text verbatim. The connection is (re)established first; if that
// fails the previous cycle keeps its query text and statement errors, its connect
// errors are replaced by the new ones, and nothing is executed. Otherwise a new Cycle replaces the previous one.
//
// With expectRows the statement is run as a query and HasRows reflects the
// result. Without it the statement is executed for its affected row count and
// HasRows is true, or false under StrictHasRows.
func (db *DB) Query(ctx context.Context, text string, expectRows bool) (*Cycle, error) {
	return db.run(ctx, text, expectRows, "query")
}

func (db *DB) run(ctx context.Context, text string, expectRows bool, kind string) (*Cycle, error) {
	conn, errs := db.conn.ensure(ctx)
	if errs != nil {
		if db.cycle == nil {
			db.cycle = &Cycle{}
		}
		db.cycle.recordConnect(errs)
		return nil, errs
	}

	cycle := &Cycle{query: text}
	db.cycle = cycle

	ctx, span := startSpan(ctx, db.tracer, "database."+kind)
	defer span.End()
	span.SetAttributes(
		attribute.String("db.system", db.dialect.Name()),
		attribute.String("db.statement", text),
	)

	start := time.Now()
	res, err := conn.Execute(ctx, text, expectRows)
	if err != nil {
		recordSpanError(db.tracer, span, err)
		cycle.record(db.statementErrors(text, err)...)
		if driver.IsConnectionLost(err) {
			db.conn.drop(err)
		}
		db.observe(kind, start, cycle.errs, 0)
		return nil, cycle.errs
	}

	cycle.result = res
	cycle.rowCount = res.RowCount()
	cycle.hasRows = true
	if expectRows || db.cfg.StrictHasRows {
		cycle.hasRows = res.HasRows()
	}
	span.SetAttributes(attribute.Int("db.row_count", cycle.rowCount))
	db.observe(kind, start, nil, cycle.rowCount)
	return cycle, nil
}

func (db *DB) statementErrors(text string, err error) Errors {
	diags := driver.Diagnostics(err)
	recs := make(Errors, 0, len(diags))
	for _, d := range diags {
		r := ErrorRecord{
			Kind:     KindStatement,
			SQLState: d.SQLState,
			Code:     d.Code,
			Severity: d.Severity,
			Message:  d.Message,
			Query:    text,
		}
		db.log.Error("Database statement failed", r, r.fields())
		recs = append(recs, r)
	}
	return recs
}

func (db *DB) observe(kind string, start time.Time, errs Errors, rows int) {
	if db.observer == nil {
		return
	}
	var err error
	if len(errs) > 0 {
		err = errs
	}
	db.observer.ObserveOperation(observability.OperationContext{
		Component:   component,
		Operation:   "execute",
		Resource:    db.cfg.Connection.DbName,
		SubResource: kind,
		Duration:    time.Since(start),
		Error:       err,
		Size:        int64(rows),
		Metadata:    map[string]interface{}{"dialect": db.dialect.Name()},
	})
}

// GetRow runs text and returns its first row, or ErrNoRows.
func (db *DB) GetRow(ctx context.Context, text string) (driver.Row, error) {
	cycle, err := db.Query(ctx, text, true)
	if err != nil {
		return driver.Row{}, err
	}
	row, ok := cycle.Next()
	if !ok {
		return driver.Row{}, ErrNoRows
	}
	return row, nil
}

// GetResults runs text and returns all rows. No rows is an empty slice.
func (db *DB) GetResults(ctx context.Context, text string) ([]driver.Row, error) {
	cycle, err := db.Query(ctx, text, true)
	if err != nil {
		return nil, err
	}
	return cycle.Rows(), nil
}

// HasError returns the current cycle's errors, or false when there are none.
// While the server stays unreachable it holds the errors of the last executed
// statement followed by those of the latest connect attempt only.
func (db *DB) HasError() (Errors, bool) {
	if db.cycle == nil || len(db.cycle.errs) == 0 {
		return nil, false
	}
	return db.cycle.errs, true
}

// LastQueryText returns the text of the latest statement.
func (db *DB) LastQueryText() string {
	if db.cycle == nil {
		return ""
	}
	return db.cycle.query
}

// LastInsertID returns the identity generated by the latest statement. The
// lookup runs on the statement's session the first time it is asked for and
// is cached in the cycle; it does not start a new cycle.
func (db *DB) LastInsertID(ctx context.Context) (int64, error) {
	cycle := db.cycle
	if cycle == nil || cycle.query == "" {
		return 0, ErrNoActiveQuery
	}
	if len(cycle.errs) > 0 {
		return 0, fmt.Errorf("%w: %w", ErrNoActiveQuery, cycle.errs)
	}

	if !cycle.identityResolved {
		if db.conn.state() != Connected {
			return 0, fmt.Errorf("%w: connection lost since the last statement", ErrNoActiveQuery)
		}
		text := db.dialect.IdentityQuery()

		ctx, span := startSpan(ctx, db.tracer, "database.identity")
		start := time.Now()
		res, err := db.conn.conn.Execute(ctx, text, true)
		if err != nil {
			recordSpanError(db.tracer, span, err)
			span.End()
			recs := db.statementErrors(text, err)
			cycle.record(recs...)
			if driver.IsConnectionLost(err) {
				db.conn.drop(err)
			}
			db.observe("identity", start, recs, 0)
			return 0, recs
		}
		span.End()
		db.observe("identity", start, nil, res.RowCount())

		if row, ok := res.Next(); ok {
			cycle.identity, _ = row.Get(driver.IdentityColumn)
		}
		cycle.identityResolved = true
	}

	return identityValue(cycle.identity)
}

func identityValue(v interface{}) (int64, error) {
	switch t := v.(type) {
	case nil:
		return 0, ErrNoRows
	case int64:
		return t, nil
	case int32:
		return int64(t), nil
	case int:
		return int64(t), nil
	case uint64:
		return int64(t), nil
	case float64:
		return int64(t), nil
	case string:
		s := strings.TrimSpace(t)
		if i := strings.IndexByte(s, '.'); i >= 0 && strings.Trim(s[i+1:], "0") == "" {
			s = s[:i]
		}
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("database: identity %q is not an integer: %w", t, err)
		}
		return n, nil
	default:
		return 0, fmt.Errorf("database: identity has unexpected type %T", v)
	}
}
