package coerce

import "strings"

// Class is the outcome of the numeric sniffing heuristic.
type Class int

const (
	NotNumeric Class = iota
	IntegerLike
	DecimalLike
)

func (c Class) String() string {
	switch c {
	case IntegerLike:
		return "integer-like"
	case DecimalLike:
		return "decimal-like"
	default:
		return "not-numeric"
	}
}

// Numeric reports whether the class may be emitted unquoted.
func (c Class) Numeric() bool {
	return c != NotNumeric
}

var signAndPoint = strings.NewReplacer(".", "", "-", "")

// Classify applies the digit rule: after removing every '.' and '-' the text must
// be a non-empty run of ASCII digits, and the original must hold at most one '.'.
// Minus signs are not positional, so "1-2" is IntegerLike and "1.2.3" is
// NotNumeric. Callers rely on both quirks.
func Classify(s string) Class {
	dots := strings.Count(s, ".")
	if dots > 1 {
		return NotNumeric
	}
	rest := signAndPoint.Replace(s)
	if rest == "" {
		return NotNumeric
	}
	for i := 0; i < len(rest); i++ {
		if rest[i] < '0' || rest[i] > '9' {
			return NotNumeric
		}
	}
	if dots == 1 {
		return DecimalLike
	}
	return IntegerLike
}
