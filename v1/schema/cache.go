package schema

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Introspection field names. They follow sp_columns; other dialects alias their
// INFORMATION_SCHEMA columns to the same names.
const (
	FieldTableName  = "TABLE_NAME"
	FieldColumnName = "COLUMN_NAME"
	FieldTypeName   = "TYPE_NAME"
	FieldNullable   = "NULLABLE"
)

// Source tells where a Cache came from.
type Source string

const (
	SourceSnapshot      Source = "snapshot"
	SourceIntrospection Source = "introspection"
)

// ColumnDescriptor is the cached metadata of one column.
type ColumnDescriptor struct {
	TypeName string
	Nullable bool

	// Fields holds every introspection field as returned by the server,
	// including TYPE_NAME and NULLABLE. It is persisted verbatim.
	Fields map[string]interface{}
}

// BaseType returns the lower-cased first word of TypeName, so "int identity"
// and "INT" both yield "int".
func (d ColumnDescriptor) BaseType() string {
	fields := strings.Fields(strings.ToLower(d.TypeName))
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

// Cache maps table -> column -> descriptor. The zero value and a nil *Cache are
// both valid and report every lookup as missing.
type Cache struct {
	tables map[string]map[string]ColumnDescriptor
	source Source
}

// New builds a Cache from an already assembled mapping. The mapping is copied.
func New(tables map[string]map[string]ColumnDescriptor, source Source) *Cache {
	c := &Cache{
		tables: make(map[string]map[string]ColumnDescriptor, len(tables)),
		source: source,
	}
	for table, columns := range tables {
		cols := make(map[string]ColumnDescriptor, len(columns))
		for name, desc := range columns {
			cols[name] = desc
		}
		c.tables[table] = cols
	}
	return c
}

// Loaded reports whether the cache holds schema data.
func (c *Cache) Loaded() bool {
	return c != nil && c.tables != nil
}

// Source reports whether the cache was restored from a snapshot or introspected.
func (c *Cache) Source() Source {
	if c == nil {
		return ""
	}
	return c.source
}

// Lookup returns the descriptor for table.column.
func (c *Cache) Lookup(table, column string) (ColumnDescriptor, bool) {
	if c == nil {
		return ColumnDescriptor{}, false
	}
	columns, ok := c.tables[table]
	if !ok {
		return ColumnDescriptor{}, false
	}
	desc, ok := columns[column]
	return desc, ok
}

// Tables returns the cached table names in sorted order.
func (c *Cache) Tables() []string {
	if c == nil {
		return nil
	}
	names := make([]string, 0, len(c.tables))
	for name := range c.tables {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Columns returns the column names cached for table in sorted order.
func (c *Cache) Columns(table string) []string {
	if c == nil {
		return nil
	}
	columns := c.tables[table]
	names := make([]string, 0, len(columns))
	for name := range columns {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DescriptorFromFields builds a ColumnDescriptor from one introspection row.
// TYPE_NAME must be present; NULLABLE may be numeric, boolean or a numeric string.
func DescriptorFromFields(fields map[string]interface{}) (ColumnDescriptor, error) {
	rawType, ok := fields[FieldTypeName]
	if !ok {
		return ColumnDescriptor{}, fmt.Errorf("missing %s", FieldTypeName)
	}
	typeName, ok := asString(rawType)
	if !ok {
		return ColumnDescriptor{}, fmt.Errorf("%s has unexpected type %T", FieldTypeName, rawType)
	}

	nullable, err := asBool(fields[FieldNullable])
	if err != nil {
		return ColumnDescriptor{}, fmt.Errorf("%s: %w", FieldNullable, err)
	}

	copied := make(map[string]interface{}, len(fields))
	for k, v := range fields {
		copied[k] = v
	}
	return ColumnDescriptor{TypeName: typeName, Nullable: nullable, Fields: copied}, nil
}

func asString(v interface{}) (string, bool) {
	switch t := v.(type) {
	case string:
		return t, true
	case []byte:
		return string(t), true
	default:
		return "", false
	}
}

func asBool(v interface{}) (bool, error) {
	switch t := v.(type) {
	case nil:
		return false, nil
	case bool:
		return t, nil
	case int:
		return t == 1, nil
	case int16:
		return t == 1, nil
	case int32:
		return t == 1, nil
	case int64:
		return t == 1, nil
	case uint8:
		return t == 1, nil
	case float64:
		return t == 1, nil
	case string, []byte:
		s, _ := asString(t)
		s = strings.TrimSpace(s)
		switch strings.ToUpper(s) {
		case "YES", "TRUE":
			return true, nil
		case "NO", "FALSE", "":
			return false, nil
		}
		n, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return false, fmt.Errorf("unparseable value %q", s)
		}
		return n == 1, nil
	default:
		return false, fmt.Errorf("unexpected type %T", v)
	}
}
