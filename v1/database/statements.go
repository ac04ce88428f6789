package database

import (
	"context"

	"github.com/Aleph-Alpha/sqlshim/v1/builder"
)

// Insert renders and executes an INSERT. A value the coercer cannot render
// fails the call before anything is executed or recorded.
func (db *DB) Insert(ctx context.Context, table string, fields builder.Fields) (*Cycle, error) {
	text, err := db.builder().Insert(table, fields)
	if err != nil {
		return nil, err
	}
	return db.run(ctx, text, false, "insert")
}

// Update renders and executes an UPDATE. Empty filters update every row.
func (db *DB) Update(ctx context.Context, table string, assignments, filters builder.Fields) (*Cycle, error) {
	text, err := db.builder().Update(table, assignments, filters)
	if err != nil {
		return nil, err
	}
	if len(filters) == 0 {
		db.log.Warn("UPDATE without filters affects every row", nil, map[string]interface{}{"table": table})
	}
	return db.run(ctx, text, false, "update")
}

// Delete renders and executes a DELETE. Empty filters delete every row.
func (db *DB) Delete(ctx context.Context, table string, filters builder.Fields) (*Cycle, error) {
	text, err := db.builder().Delete(table, filters)
	if err != nil {
		return nil, err
	}
	if len(filters) == 0 {
		db.log.Warn("DELETE without filters affects every row", nil, map[string]interface{}{"table": table})
	}
	return db.run(ctx, text, false, "delete")
}
