package driver

import (
	"net/url"
	"strconv"

	"gorm.io/driver/sqlserver"
	"gorm.io/gorm"

	"github.com/Aleph-Alpha/sqlshim/v1/coerce"
)

type sqlServerDialect struct{}

func (sqlServerDialect) Name() string     { return SQLServer }
func (sqlServerDialect) DefaultPort() int { return 1433 }

// Dialector builds a sqlserver:// URL understood by go-mssqldb.
func (sqlServerDialect) Dialector(t Target) gorm.Dialector {
	q := url.Values{}
	q.Set("database", t.Database)
	if t.ConnectTimeout > 0 {
		q.Set("dial timeout", strconv.Itoa(int(t.ConnectTimeout.Seconds())))
		q.Set("connection timeout", strconv.Itoa(int(t.ConnectTimeout.Seconds())))
	}
	if t.SSLMode != "" {
		q.Set("encrypt", t.SSLMode)
	}
	u := url.URL{
		Scheme:   "sqlserver",
		User:     url.UserPassword(t.User, t.Password),
		Host:     t.Address(),
		RawQuery: q.Encode(),
	}
	return sqlserver.Open(u.String())
}

func (sqlServerDialect) SessionSetup() []string {
	return []string{"SET ANSI_WARNINGS ON; SET ARITHABORT ON"}
}

func (d sqlServerDialect) TablesQuery(catalog string) string {
	return "SELECT TABLE_NAME FROM INFORMATION_SCHEMA.TABLES WHERE TABLE_TYPE = 'BASE TABLE' AND TABLE_CATALOG = " + literal(d, catalog)
}

func (d sqlServerDialect) ColumnsQuery(table string) string {
	return "EXEC sp_columns @table_name = " + literal(d, table)
}

// IdentityQuery uses @@IDENTITY: SCOPE_IDENTITY() is batch scoped and always
// NULL in a batch of its own. @@IDENTITY is session scoped, so after an INSERT
// that fires a trigger inserting into another identity table it returns the
// trigger's identity, not the one of the inserted row.
func (sqlServerDialect) IdentityQuery() string {
	return "SELECT @@IDENTITY AS " + IdentityColumn
}

func (sqlServerDialect) NumericTypes() []string {
	return []string{"int", "decimal", "money"}
}

func (sqlServerDialect) QuoteStyle() coerce.QuoteStyle { return coerce.QuoteDoubling }
