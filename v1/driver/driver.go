package driver

import (
	"context"
	"strconv"
	"time"
)

// Target addresses one database.
type Target struct {
	Host     string
	Port     int
	Database string
	User     string
	Password string

	// SSLMode is passed to dialects that understand it. Empty means disabled.
	SSLMode string

	// ConnectTimeout bounds the dial and the initial ping.
	ConnectTimeout time.Duration
}

// Address returns host:port.
func (t Target) Address() string {
	return t.Host + ":" + strconv.Itoa(t.Port)
}

// Driver opens connections.
//
//go:generate mockgen -source=driver.go -destination=mock_driver.go -package=driver
type Driver interface {
	// Dialect describes the engine this driver talks to.
	Dialect() Dialect

	// Connect opens a connection to t.
	Connect(ctx context.Context, t Target) (Conn, error)
}

// Conn is one live server session. It is not safe for concurrent use.
type Conn interface {
	// Execute runs text. With wantRows the statement is run as a query and its
	// rows are buffered; otherwise it is executed and only the affected row count
	// is kept.
	Execute(ctx context.Context, text string, wantRows bool) (*Result, error)

	// WarningsAsErrors applies the dialect's session settings that turn server
	// warnings into statement errors.
	WarningsAsErrors(ctx context.Context) error

	// Close releases the session.
	Close() error
}
