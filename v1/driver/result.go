package driver

// Row is one fetched row. Values are aligned with Columns; []byte values are
// converted to string when the row is read.
type Row struct {
	Columns []string
	Values  []interface{}
}

// Map returns the row keyed by column name. Later duplicates win.
func (r Row) Map() map[string]interface{} {
	m := make(map[string]interface{}, len(r.Columns))
	for i, c := range r.Columns {
		if i < len(r.Values) {
			m[c] = r.Values[i]
		}
	}
	return m
}

// Get returns the value of column and whether the row has it.
func (r Row) Get(column string) (interface{}, bool) {
	for i, c := range r.Columns {
		if c == column && i < len(r.Values) {
			return r.Values[i], true
		}
	}
	return nil, false
}

// Result is a fully buffered statement outcome.
type Result struct {
	columns  []string
	rows     [][]interface{}
	affected int64
	hasSet   bool
	pos      int
}

// NewRowsResult builds the Result of a query.
func NewRowsResult(columns []string, rows [][]interface{}) *Result {
	return &Result{columns: columns, rows: rows, hasSet: true}
}

// NewExecResult builds the Result of a statement run without a result set.
func NewExecResult(affected int64) *Result {
	return &Result{affected: affected}
}

// Columns returns the result set's column names.
func (r *Result) Columns() []string {
	return r.columns
}

// RowCount is the number of rows in the result set, or the affected row count
// for statements run without one.
func (r *Result) RowCount() int {
	if r.hasSet {
		return len(r.rows)
	}
	return int(r.affected)
}

// HasRows reports whether the result set holds at least one row.
func (r *Result) HasRows() bool {
	return len(r.rows) > 0
}

// Next returns the next unread row.
func (r *Result) Next() (Row, bool) {
	if r.pos >= len(r.rows) {
		return Row{}, false
	}
	row := Row{Columns: r.columns, Values: r.rows[r.pos]}
	r.pos++
	return row, true
}

// Remaining returns all unread rows.
func (r *Result) Remaining() []Row {
	out := make([]Row, 0, len(r.rows)-r.pos)
	for {
		row, ok := r.Next()
		if !ok {
			return out
		}
		out = append(out, row)
	}
}
