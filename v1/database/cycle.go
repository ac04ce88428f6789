package database

import "github.com/Aleph-Alpha/sqlshim/v1/driver"

// Cycle is the state of one top-level statement: its text, the errors it
// produced, the row metadata and the buffered rows. Every Query starts a new
// Cycle; the client keeps only the latest.
type Cycle struct {
	query    string
	errs     Errors
	rowCount int
	hasRows  bool
	result   *driver.Result

	identity         interface{}
	identityResolved bool
}

// Query returns the statement text.
func (c *Cycle) Query() string {
	return c.query
}

// Errors returns the recorded errors, nil when there are none.
func (c *Cycle) Errors() Errors {
	if len(c.errs) == 0 {
		return nil
	}
	return c.errs
}

// RowCount is the number of rows returned, or affected for statements run
// without a result set.
func (c *Cycle) RowCount() int {
	return c.rowCount
}

// HasRows reports the has-rows flag. Statements run without expecting rows
// report true unless the client was configured with StrictHasRows.
func (c *Cycle) HasRows() bool {
	return c.hasRows
}

// Next returns the next unread row.
func (c *Cycle) Next() (driver.Row, bool) {
	if c.result == nil {
		return driver.Row{}, false
	}
	return c.result.Next()
}

// Rows returns every unread row.
func (c *Cycle) Rows() []driver.Row {
	if c.result == nil {
		return nil
	}
	return c.result.Remaining()
}

func (c *Cycle) record(recs ...ErrorRecord) {
	c.errs = append(c.errs, recs...)
}

// recordConnect replaces the connect records of an earlier failed reconnect, so
// repeated attempts against an unreachable server keep only the latest.
func (c *Cycle) recordConnect(recs Errors) {
	kept := make(Errors, 0, len(c.errs)+len(recs))
	for _, r := range c.errs {
		if r.Kind != KindConnect {
			kept = append(kept, r)
		}
	}
	c.errs = append(kept, recs...)
}
