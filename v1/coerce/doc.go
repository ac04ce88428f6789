// Package coerce renders loosely typed Go values as SQL literal text.
//
// A Coercer works in one of two modes per column. When a schema.Cache is attached
// and holds a descriptor for the table and column, the column's declared type and
// nullability decide the literal:
//
//	numeric column, nil or ""          -> NULL when nullable, 0 otherwise
//	numeric column, anything else      -> the value, unquoted
//	other column, nil, "" or "0"       -> NULL when nullable, '' otherwise
//	other column, anything else        -> quoted literal
//
// Without a descriptor the value's own shape decides (see Classify): nil is NULL,
// numeric-looking text is emitted unquoted, everything else is quoted.
//
// Quoting escapes according to a QuoteStyle and, before escaping, applies the
// configured encoding Policy to non-ASCII text.
//
// Basic usage:
//
//	c := coerce.Coercer{Schema: cache, Style: coerce.QuoteDoubling}
//	lit, err := c.Literal("users", "age", nil) // "NULL" when users.age is nullable
package coerce
