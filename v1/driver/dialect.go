package driver

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"gorm.io/gorm"

	"github.com/Aleph-Alpha/sqlshim/v1/coerce"
)

// ErrUnknownDialect is returned by LookupDialect for unregistered names.
var ErrUnknownDialect = errors.New("driver: unknown dialect")

// IdentityColumn is the column alias of every dialect's identity query.
const IdentityColumn = "id"

// Dialect captures the per-engine differences.
type Dialect interface {
	Name() string
	DefaultPort() int

	// Dialector returns the gorm dialector for t.
	Dialector(t Target) gorm.Dialector

	// SessionSetup lists the statements that make warnings fail statements.
	SessionSetup() []string

	// TablesQuery lists the base tables of catalog, one TABLE_NAME per row.
	TablesQuery(catalog string) string

	// ColumnsQuery lists the columns of table with at least COLUMN_NAME,
	// TYPE_NAME and NULLABLE.
	ColumnsQuery(table string) string

	// IdentityQuery returns the last generated identity of the session in a
	// column named IdentityColumn.
	IdentityQuery() string

	// NumericTypes are the lower-case base type names rendered unquoted.
	NumericTypes() []string

	QuoteStyle() coerce.QuoteStyle
}

// Dialect names.
const (
	SQLServer = "sqlserver"
	Postgres  = "postgres"
	MySQL     = "mysql"
)

var dialects = map[string]Dialect{
	SQLServer: sqlServerDialect{},
	Postgres:  postgresDialect{},
	MySQL:     mysqlDialect{},
}

var dialectAliases = map[string]string{
	"":           SQLServer,
	"mssql":      SQLServer,
	"postgresql": Postgres,
	"pgx":        Postgres,
	"mariadb":    MySQL,
}

// LookupDialect returns the dialect registered under name. The empty name
// selects SQL Server.
func LookupDialect(name string) (Dialect, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if alias, ok := dialectAliases[key]; ok {
		key = alias
	}
	d, ok := dialects[key]
	if !ok {
		return nil, fmt.Errorf("%w: %q (known: %s)", ErrUnknownDialect, name, strings.Join(DialectNames(), ", "))
	}
	return d, nil
}

// DialectNames lists the registered dialect names.
func DialectNames() []string {
	names := make([]string, 0, len(dialects))
	for name := range dialects {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// literal quotes an identifier value embedded in an introspection query.
func literal(d Dialect, s string) string {
	return coerce.Quote(s, d.QuoteStyle())
}
