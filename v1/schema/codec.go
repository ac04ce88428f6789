package schema

import (
	"encoding/json"
	"fmt"
)

// Encode serializes the cache as table -> column -> introspection fields.
// TYPE_NAME and NULLABLE are always present in the output.
func Encode(c *Cache) ([]byte, error) {
	out := make(map[string]map[string]map[string]interface{})
	if c != nil {
		for table, columns := range c.tables {
			cols := make(map[string]map[string]interface{}, len(columns))
			for name, desc := range columns {
				fields := make(map[string]interface{}, len(desc.Fields)+2)
				for k, v := range desc.Fields {
					if b, ok := v.([]byte); ok {
						v = string(b)
					}
					fields[k] = v
				}
				fields[FieldTypeName] = desc.TypeName
				if desc.Nullable {
					fields[FieldNullable] = 1
				} else {
					fields[FieldNullable] = 0
				}
				cols[name] = fields
			}
			out[table] = cols
		}
	}
	return json.Marshal(out)
}

// Decode restores a cache written by Encode.
func Decode(data []byte) (*Cache, error) {
	var raw map[string]map[string]map[string]interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode schema snapshot: %w", err)
	}
	if raw == nil {
		return nil, fmt.Errorf("decode schema snapshot: empty document")
	}

	tables := make(map[string]map[string]ColumnDescriptor, len(raw))
	for table, columns := range raw {
		cols := make(map[string]ColumnDescriptor, len(columns))
		for name, fields := range columns {
			desc, err := DescriptorFromFields(fields)
			if err != nil {
				return nil, fmt.Errorf("decode schema snapshot: %s.%s: %w", table, name, err)
			}
			cols[name] = desc
		}
		tables[table] = cols
	}
	return New(tables, SourceSnapshot), nil
}
