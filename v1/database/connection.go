package database

import (
	"context"
	"time"

	"github.com/Aleph-Alpha/sqlshim/v1/driver"
	"github.com/Aleph-Alpha/sqlshim/v1/observability"
)

// ConnectionState is the connection manager's state.
type ConnectionState int

const (
	Disconnected ConnectionState = iota
	Connected
)

func (s ConnectionState) String() string {
	if s == Connected {
		return "connected"
	}
	return "disconnected"
}

// connManager owns the only driver.Conn. It never health-checks; it connects
// when asked for a connection while disconnected and forgets the connection
// when a statement reports it lost.
type connManager struct {
	drv    driver.Driver
	target driver.Target
	conn   driver.Conn

	log      Logger
	observer observability.Observer
	tracer   Tracer
}

func (m *connManager) state() ConnectionState {
	if m.conn != nil {
		return Connected
	}
	return Disconnected
}

// ensure returns the live connection, connecting first when disconnected. A
// failed connect yields the connect records and leaves the manager disconnected.
func (m *connManager) ensure(ctx context.Context) (driver.Conn, Errors) {
	if m.conn != nil {
		return m.conn, nil
	}

	ctx, span := startSpan(ctx, m.tracer, "database.connect")
	defer span.End()

	start := time.Now()
	conn, err := m.drv.Connect(ctx, m.target)
	if err != nil {
		recordSpanError(m.tracer, span, err)
		recs := make(Errors, 0, 1)
		for _, d := range driver.Diagnostics(err) {
			recs = append(recs, ErrorRecord{
				Kind:     KindConnect,
				SQLState: d.SQLState,
				Code:     d.Code,
				Severity: d.Severity,
				Message:  d.Message,
			})
		}
		for _, r := range recs {
			m.log.Error("Database connect failed", r, map[string]interface{}{
				"host":     m.target.Host,
				"port":     m.target.Port,
				"database": m.target.Database,
				"sqlstate": r.SQLState,
				"code":     r.Code,
				"severity": r.Severity,
			})
		}
		m.observe(start, recs)
		return nil, recs
	}

	if err := conn.WarningsAsErrors(ctx); err != nil {
		m.log.Warn("Could not make server warnings fail statements", err, map[string]interface{}{
			"dialect": m.drv.Dialect().Name(),
		})
	}

	m.conn = conn
	m.observe(start, nil)
	m.log.Info("Connected to database", nil, map[string]interface{}{
		"host":     m.target.Host,
		"port":     m.target.Port,
		"database": m.target.Database,
		"dialect":  m.drv.Dialect().Name(),
	})
	return conn, nil
}

// drop forgets the connection after the server went away.
func (m *connManager) drop(cause error) {
	if m.conn == nil {
		return
	}
	_ = m.conn.Close()
	m.conn = nil
	m.log.Warn("Database connection lost; reconnecting on next statement", cause, map[string]interface{}{
		"host": m.target.Host,
	})
}

func (m *connManager) close() error {
	if m.conn == nil {
		return nil
	}
	err := m.conn.Close()
	m.conn = nil
	return err
}

func (m *connManager) observe(start time.Time, errs Errors) {
	if m.observer == nil {
		return
	}
	var err error
	if len(errs) > 0 {
		err = errs
	}
	m.observer.ObserveOperation(observability.OperationContext{
		Component: component,
		Operation: "connect",
		Resource:  m.target.Database,
		Duration:  time.Since(start),
		Error:     err,
	})
}
