// Package builder assembles INSERT, UPDATE and DELETE text from column/value pairs.
//
// Assignment values go through coerce.Coercer.Literal and therefore honour the
// schema cache. Filter values never do: they are rendered by the shape heuristic,
// and a nil filter value becomes "IS NULL". Empty filters are legal and match
// every row.
package builder

import (
	"sort"
	"strings"

	"github.com/Aleph-Alpha/sqlshim/v1/coerce"
)

// Field is one column/value pair.
type Field struct {
	Column string
	Value  interface{}
}

// F is shorthand for Field{Column: column, Value: value}.
func F(column string, value interface{}) Field {
	return Field{Column: column, Value: value}
}

// Fields keeps columns in the order they are rendered.
type Fields []Field

// FieldsFromMap returns the pairs of m ordered by column name.
func FieldsFromMap(m map[string]interface{}) Fields {
	out := make(Fields, 0, len(m))
	for column, value := range m {
		out = append(out, Field{Column: column, Value: value})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Column < out[j].Column })
	return out
}

// Columns returns the trimmed column names in order.
func (f Fields) Columns() []string {
	out := make([]string, len(f))
	for i, field := range f {
		out[i] = strings.TrimSpace(field.Column)
	}
	return out
}

// Builder renders statements with its Coercer. A nil Coercer means heuristic
// coercion with default quoting.
type Builder struct {
	Coercer *coerce.Coercer
}

// New returns a Builder using c.
func New(c *coerce.Coercer) *Builder {
	return &Builder{Coercer: c}
}

func (b *Builder) coercer() *coerce.Coercer {
	if b == nil || b.Coercer == nil {
		return &coerce.Coercer{}
	}
	return b.Coercer
}

// Insert renders INSERT INTO table (table.c1, ...) VALUES (l1, ...).
func (b *Builder) Insert(table string, fields Fields) (string, error) {
	table = strings.TrimSpace(table)
	c := b.coercer()

	columns := make([]string, len(fields))
	literals := make([]string, len(fields))
	for i, field := range fields {
		column := strings.TrimSpace(field.Column)
		lit, err := literal(c, table, column, field.Value)
		if err != nil {
			return "", err
		}
		columns[i] = table + "." + column
		literals[i] = lit
	}

	var sb strings.Builder
	sb.WriteString("INSERT INTO ")
	sb.WriteString(table)
	sb.WriteString(" (")
	sb.WriteString(strings.Join(columns, ", "))
	sb.WriteString(") VALUES (")
	sb.WriteString(strings.Join(literals, ", "))
	sb.WriteString(")")
	return sb.String(), nil
}

// Update renders UPDATE table SET table.c = l, ... WHERE 1=1 AND table.f = v ...
// With no filters every row is updated.
func (b *Builder) Update(table string, assignments, filters Fields) (string, error) {
	table = strings.TrimSpace(table)
	c := b.coercer()

	sets := make([]string, len(assignments))
	for i, field := range assignments {
		column := strings.TrimSpace(field.Column)
		lit, err := literal(c, table, column, field.Value)
		if err != nil {
			return "", err
		}
		sets[i] = table + "." + column + " = " + lit
	}

	where, err := whereClause(c, table, filters)
	if err != nil {
		return "", err
	}
	return "UPDATE " + table + " SET " + strings.Join(sets, ", ") + where, nil
}

// Delete renders DELETE FROM table WHERE 1=1 AND table.f = v ...
// With no filters every row is deleted.
func (b *Builder) Delete(table string, filters Fields) (string, error) {
	table = strings.TrimSpace(table)
	where, err := whereClause(b.coercer(), table, filters)
	if err != nil {
		return "", err
	}
	return "DELETE FROM " + table + where, nil
}

func literal(c *coerce.Coercer, table, column string, v interface{}) (string, error) {
	trimmed, err := coerce.Trimmed(v)
	if err != nil {
		return "", err
	}
	return c.Literal(table, column, trimmed)
}

func whereClause(c *coerce.Coercer, table string, filters Fields) (string, error) {
	var sb strings.Builder
	sb.WriteString(" WHERE 1=1")
	for _, field := range filters {
		column := strings.TrimSpace(field.Column)
		sb.WriteString(" AND ")
		sb.WriteString(table)
		sb.WriteString(".")
		sb.WriteString(column)

		trimmed, err := coerce.Trimmed(field.Value)
		if err != nil {
			return "", err
		}
		if trimmed == nil {
			sb.WriteString(" IS NULL")
			continue
		}
		lit, err := c.Heuristic(trimmed)
		if err != nil {
			return "", err
		}
		sb.WriteString(" = ")
		sb.WriteString(lit)
	}
	return sb.String(), nil
}
