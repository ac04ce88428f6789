package driver

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/Aleph-Alpha/sqlshim/v1/coerce"
)

type postgresDialect struct{}

func (postgresDialect) Name() string     { return Postgres }
func (postgresDialect) DefaultPort() int { return 5432 }

func (postgresDialect) Dialector(t Target) gorm.Dialector {
	sslMode := t.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}
	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		t.Host, t.Port, t.User, t.Password, t.Database, sslMode)
	if t.ConnectTimeout > 0 {
		dsn += fmt.Sprintf(" connect_timeout=%d", int(t.ConnectTimeout.Seconds()))
	}
	return postgres.New(postgres.Config{DSN: dsn})
}

// SessionSetup is empty: PostgreSQL already fails statements on the conditions
// other engines only warn about.
func (postgresDialect) SessionSetup() []string {
	return nil
}

func (d postgresDialect) TablesQuery(catalog string) string {
	return `SELECT table_name AS "TABLE_NAME" FROM information_schema.tables` +
		` WHERE table_type = 'BASE TABLE' AND table_catalog = ` + literal(d, catalog) +
		` AND table_schema NOT IN ('pg_catalog', 'information_schema')`
}

func (d postgresDialect) ColumnsQuery(table string) string {
	return `SELECT table_name AS "TABLE_NAME", column_name AS "COLUMN_NAME", data_type AS "TYPE_NAME",` +
		` CASE WHEN is_nullable = 'YES' THEN 1 ELSE 0 END AS "NULLABLE",` +
		` ordinal_position AS "ORDINAL_POSITION", column_default AS "COLUMN_DEF"` +
		` FROM information_schema.columns WHERE table_catalog = current_database() AND table_name = ` + literal(d, table) +
		` ORDER BY ordinal_position`
}

func (postgresDialect) IdentityQuery() string {
	return "SELECT lastval() AS " + IdentityColumn
}

func (postgresDialect) NumericTypes() []string {
	return []string{"int", "integer", "smallint", "bigint", "decimal", "numeric", "money", "real", "double"}
}

func (postgresDialect) QuoteStyle() coerce.QuoteStyle { return coerce.QuoteDoubling }
