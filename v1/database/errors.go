package database

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrConnect matches Errors holding at least one connect failure.
	ErrConnect = errors.New("database: connect failed")

	// ErrStatement matches Errors holding at least one statement failure.
	ErrStatement = errors.New("database: statement failed")

	// ErrNoActiveQuery is returned when an identity is requested before any
	// statement ran or after the last one failed.
	ErrNoActiveQuery = errors.New("database: no successful statement")

	// ErrNoRows is returned by GetRow when the query matched nothing and by
	// LastInsertID when the session has no identity value.
	ErrNoRows = errors.New("database: no rows")
)

// Kind classifies an ErrorRecord.
type Kind int

const (
	KindConnect Kind = iota + 1
	KindStatement
)

func (k Kind) String() string {
	switch k {
	case KindConnect:
		return "connect"
	case KindStatement:
		return "statement"
	default:
		return "unknown"
	}
}

// ErrorRecord is one failure reported by the server or the driver. Query is
// empty for connect failures. SQLState stays empty on SQL Server, which reports
// a Severity class instead.
type ErrorRecord struct {
	Kind     Kind
	SQLState string
	Code     int
	Severity int
	Message  string
	Query    string
}

func (r ErrorRecord) Error() string {
	var b strings.Builder
	b.WriteString(r.Kind.String())
	b.WriteString(" error")
	if r.SQLState != "" {
		b.WriteString(" [")
		b.WriteString(r.SQLState)
		b.WriteString("]")
	}
	if r.Code != 0 {
		fmt.Fprintf(&b, " (%d)", r.Code)
	}
	b.WriteString(": ")
	b.WriteString(r.Message)
	return b.String()
}

func (r ErrorRecord) fields() map[string]interface{} {
	f := map[string]interface{}{
		"kind":     r.Kind.String(),
		"sqlstate": r.SQLState,
		"code":     r.Code,
	}
	if r.Severity != 0 {
		f["severity"] = r.Severity
	}
	if r.Query != "" {
		f["query"] = r.Query
	}
	return f
}

// Errors is the error list of one request cycle.
type Errors []ErrorRecord

func (e Errors) Error() string {
	switch len(e) {
	case 0:
		return "no errors"
	case 1:
		return e[0].Error()
	}
	msgs := make([]string, len(e))
	for i, r := range e {
		msgs[i] = r.Error()
	}
	return fmt.Sprintf("%d errors: %s", len(e), strings.Join(msgs, "; "))
}

// Is matches ErrConnect and ErrStatement by the kinds present.
func (e Errors) Is(target error) bool {
	var want Kind
	switch target {
	case ErrConnect:
		want = KindConnect
	case ErrStatement:
		want = KindStatement
	default:
		return false
	}
	for _, r := range e {
		if r.Kind == want {
			return true
		}
	}
	return false
}
