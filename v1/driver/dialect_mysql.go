package driver

import (
	mysqldrv "github.com/go-sql-driver/mysql"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"github.com/Aleph-Alpha/sqlshim/v1/coerce"
)

type mysqlDialect struct{}

func (mysqlDialect) Name() string     { return MySQL }
func (mysqlDialect) DefaultPort() int { return 3306 }

func (mysqlDialect) Dialector(t Target) gorm.Dialector {
	cfg := mysqldrv.NewConfig()
	cfg.User = t.User
	cfg.Passwd = t.Password
	cfg.Net = "tcp"
	cfg.Addr = t.Address()
	cfg.DBName = t.Database
	cfg.ParseTime = true
	cfg.Timeout = t.ConnectTimeout
	if t.SSLMode != "" {
		cfg.TLSConfig = t.SSLMode
	}
	return mysql.New(mysql.Config{DSN: cfg.FormatDSN()})
}

func (mysqlDialect) SessionSetup() []string {
	return []string{"SET SESSION sql_mode = 'STRICT_ALL_TABLES,ERROR_FOR_DIVISION_BY_ZERO,NO_ZERO_DATE,NO_ZERO_IN_DATE,NO_ENGINE_SUBSTITUTION'"}
}

// TablesQuery matches the schema: MySQL reports every table under catalog "def".
func (d mysqlDialect) TablesQuery(catalog string) string {
	return "SELECT TABLE_NAME FROM INFORMATION_SCHEMA.TABLES WHERE TABLE_TYPE = 'BASE TABLE' AND TABLE_SCHEMA = " + literal(d, catalog)
}

func (d mysqlDialect) ColumnsQuery(table string) string {
	return "SELECT TABLE_NAME, COLUMN_NAME, DATA_TYPE AS TYPE_NAME, IF(IS_NULLABLE = 'YES', 1, 0) AS NULLABLE," +
		" ORDINAL_POSITION, COLUMN_DEFAULT AS COLUMN_DEF FROM INFORMATION_SCHEMA.COLUMNS" +
		" WHERE TABLE_SCHEMA = DATABASE() AND TABLE_NAME = " + literal(d, table) + " ORDER BY ORDINAL_POSITION"
}

func (mysqlDialect) IdentityQuery() string {
	return "SELECT LAST_INSERT_ID() AS " + IdentityColumn
}

func (mysqlDialect) NumericTypes() []string {
	return []string{"int", "tinyint", "smallint", "mediumint", "bigint", "decimal", "numeric", "float", "double"}
}

func (mysqlDialect) QuoteStyle() coerce.QuoteStyle { return coerce.QuoteBackslash }
