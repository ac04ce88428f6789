package driver

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"io"
	"net"
	"strings"

	mysqldrv "github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	mssql "github.com/microsoft/go-mssqldb"
)

// Diagnostic is one server- or driver-reported problem.
//
// SQLState is only set by postgres and mysql. SQL Server reports no SQLSTATE;
// its errors carry the error number in Code and the severity class (1-25) in
// Severity instead.
type Diagnostic struct {
	SQLState string
	Code     int
	Severity int
	Message  string
}

// Diagnostics flattens err into the diagnostics the server reported. SQL Server
// errors expand to every message of the batch. Errors of unknown shape become a
// single diagnostic carrying err.Error().
func Diagnostics(err error) []Diagnostic {
	if err == nil {
		return nil
	}

	var msErr mssql.Error
	if errors.As(err, &msErr) {
		all := msErr.All
		if len(all) == 0 {
			all = []mssql.Error{msErr}
		}
		out := make([]Diagnostic, 0, len(all))
		for _, e := range all {
			out = append(out, Diagnostic{Code: int(e.Number), Severity: int(e.Class), Message: e.Message})
		}
		return out
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		msg := pgErr.Message
		if pgErr.Detail != "" {
			msg += ": " + pgErr.Detail
		}
		return []Diagnostic{{SQLState: pgErr.Code, Message: msg}}
	}

	var myErr *mysqldrv.MySQLError
	if errors.As(err, &myErr) {
		return []Diagnostic{{
			SQLState: strings.TrimRight(string(myErr.SQLState[:]), "\x00"),
			Code:     int(myErr.Number),
			Message:  myErr.Message,
		}}
	}

	return []Diagnostic{{Message: err.Error()}}
}

// IsConnectionLost reports whether err means the session is gone and the Conn
// must be replaced.
func IsConnectionLost(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	if errors.Is(err, driver.ErrBadConn) ||
		errors.Is(err, sql.ErrConnDone) ||
		errors.Is(err, io.EOF) ||
		errors.Is(err, io.ErrUnexpectedEOF) ||
		errors.Is(err, mysqldrv.ErrInvalidConn) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}
