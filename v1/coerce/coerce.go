package coerce

import (
	"database/sql/driver"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/Aleph-Alpha/sqlshim/v1/schema"
)

// DefaultNumericTypes are the base type names treated as numeric when a Coercer
// has no NumericTypes of its own.
var DefaultNumericTypes = []string{"int", "decimal", "money"}

// TimeLayout is used to render time.Time values.
const TimeLayout = "2006-01-02 15:04:05.999999999"

// Coercer turns values into SQL literals. The zero value works in heuristic mode
// with backslash quoting and no encoding conversion.
type Coercer struct {
	// Schema enables schema-driven mode for the columns it describes.
	Schema *schema.Cache

	Style   QuoteStyle
	Policy  Policy
	Charset Charset

	// NumericTypes lists lower-case base type names treated as numeric.
	NumericTypes []string
}

// Literal renders v as the literal for table.column.
func (c *Coercer) Literal(table, column string, v interface{}) (string, error) {
	desc, ok := c.Schema.Lookup(table, column)
	if !ok {
		return c.Heuristic(v)
	}

	text, isNull, err := Text(v)
	if err != nil {
		return "", err
	}

	if c.isNumeric(desc) {
		if isNull || text == "" {
			if desc.Nullable {
				return "NULL", nil
			}
			return "0", nil
		}
		return text, nil
	}

	if isNull || text == "" || text == "0" {
		if desc.Nullable {
			return "NULL", nil
		}
		return "''", nil
	}
	return c.quote(text)
}

// Heuristic renders v from its shape alone, ignoring any schema.
func (c *Coercer) Heuristic(v interface{}) (string, error) {
	text, isNull, err := Text(v)
	if err != nil {
		return "", err
	}
	if isNull {
		return "NULL", nil
	}
	if Classify(text).Numeric() {
		return text, nil
	}
	return c.quote(text)
}

// Quote escapes text as a string literal after applying the encoding policy.
func (c *Coercer) Quote(text string) (string, error) {
	return c.quote(text)
}

func (c *Coercer) quote(text string) (string, error) {
	normalized, err := Normalize(text, c.Policy, c.Charset)
	if err != nil {
		return "", err
	}
	return Quote(normalized, c.Style), nil
}

func (c *Coercer) isNumeric(desc schema.ColumnDescriptor) bool {
	types := c.NumericTypes
	if types == nil {
		types = DefaultNumericTypes
	}
	base := desc.BaseType()
	for _, t := range types {
		if t == base {
			return true
		}
	}
	return false
}

// Text converts v to the text a literal is built from. isNull is true for nil,
// nil pointers and driver.Valuer values that yield nil. Booleans become "1" and "0".
// Pointers are followed to the value they point at.
func Text(v interface{}) (text string, isNull bool, err error) {
	v, isNull = deref(v)
	if isNull {
		return "", true, nil
	}

	switch t := v.(type) {
	case string:
		return t, false, nil
	case []byte:
		if t == nil {
			return "", true, nil
		}
		return string(t), false, nil
	case bool:
		if t {
			return "1", false, nil
		}
		return "0", false, nil
	case int:
		return strconv.FormatInt(int64(t), 10), false, nil
	case int8:
		return strconv.FormatInt(int64(t), 10), false, nil
	case int16:
		return strconv.FormatInt(int64(t), 10), false, nil
	case int32:
		return strconv.FormatInt(int64(t), 10), false, nil
	case int64:
		return strconv.FormatInt(t, 10), false, nil
	case uint:
		return strconv.FormatUint(uint64(t), 10), false, nil
	case uint8:
		return strconv.FormatUint(uint64(t), 10), false, nil
	case uint16:
		return strconv.FormatUint(uint64(t), 10), false, nil
	case uint32:
		return strconv.FormatUint(uint64(t), 10), false, nil
	case uint64:
		return strconv.FormatUint(t, 10), false, nil
	case float32:
		return strconv.FormatFloat(float64(t), 'f', -1, 32), false, nil
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), false, nil
	case time.Time:
		return t.Format(TimeLayout), false, nil
	case driver.Valuer:
		inner, err := t.Value()
		if err != nil {
			return "", false, fmt.Errorf("coerce: %T value: %w", v, err)
		}
		inner, isNull = deref(inner)
		if isNull {
			return "", true, nil
		}
		if _, nested := inner.(driver.Valuer); nested {
			return "", false, fmt.Errorf("coerce: %T returned another Valuer", v)
		}
		return Text(inner)
	case fmt.Stringer:
		return t.String(), false, nil
	default:
		return fmt.Sprint(v), false, nil
	}
}

var (
	valuerType   = reflect.TypeOf((*driver.Valuer)(nil)).Elem()
	stringerType = reflect.TypeOf((*fmt.Stringer)(nil)).Elem()
)

// deref follows pointers until it reaches a non-pointer value or a pointer whose
// Value or String method is declared on the pointer receiver. A nil pointer on
// the way reports null.
func deref(v interface{}) (interface{}, bool) {
	if v == nil {
		return nil, true
	}
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return nil, true
		}
		if pointerMethod(rv.Type(), valuerType) || pointerMethod(rv.Type(), stringerType) {
			return rv.Interface(), false
		}
		rv = rv.Elem()
	}
	return rv.Interface(), false
}

func pointerMethod(ptr, iface reflect.Type) bool {
	return ptr.Implements(iface) && !ptr.Elem().Implements(iface)
}

// Trimmed is Text with surrounding whitespace removed from non-null values.
func Trimmed(v interface{}) (interface{}, error) {
	text, isNull, err := Text(v)
	if err != nil {
		return nil, err
	}
	if isNull {
		return nil, nil
	}
	return strings.TrimSpace(text), nil
}
