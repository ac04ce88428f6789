package coerce

import (
	"errors"
	"fmt"
	"strings"
)

// QuoteStyle selects how characters inside a quoted literal are escaped.
type QuoteStyle int

const (
	// QuoteBackslash prefixes ', ", \ with a backslash and writes NUL, LF, CR and
	// SUB (0x1A) as \0, \n, \r and \Z. MySQL reads this natively.
	QuoteBackslash QuoteStyle = iota

	// QuoteDoubling writes ' as '' and leaves everything else untouched. This is
	// the standard SQL form understood by SQL Server and PostgreSQL.
	QuoteDoubling
)

// ParseQuoteStyle maps a configuration value to a QuoteStyle.
func ParseQuoteStyle(s string) (QuoteStyle, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "backslash":
		return QuoteBackslash, nil
	case "doubling", "double", "standard":
		return QuoteDoubling, nil
	default:
		return 0, fmt.Errorf("coerce: unknown quote style %q", s)
	}
}

func (q QuoteStyle) String() string {
	if q == QuoteDoubling {
		return "doubling"
	}
	return "backslash"
}

var backslashEscaper = strings.NewReplacer(
	`\`, `\\`,
	`'`, `\'`,
	`"`, `\"`,
	"\x00", `\0`,
	"\n", `\n`,
	"\r", `\r`,
	"\x1a", `\Z`,
)

var doublingEscaper = strings.NewReplacer(`'`, `''`)

// Quote returns s wrapped in single quotes and escaped in style q.
func Quote(s string, q QuoteStyle) string {
	if q == QuoteDoubling {
		return "'" + doublingEscaper.Replace(s) + "'"
	}
	return "'" + backslashEscaper.Replace(s) + "'"
}

var errMalformedLiteral = errors.New("coerce: malformed quoted literal")

// Unescape reverses Quote. The literal must include its surrounding quotes.
func Unescape(literal string, q QuoteStyle) (string, error) {
	if len(literal) < 2 || literal[0] != '\'' || literal[len(literal)-1] != '\'' {
		return "", errMalformedLiteral
	}
	body := literal[1 : len(literal)-1]

	var b strings.Builder
	b.Grow(len(body))
	for i := 0; i < len(body); i++ {
		c := body[i]
		switch {
		case q == QuoteDoubling && c == '\'':
			if i+1 >= len(body) || body[i+1] != '\'' {
				return "", fmt.Errorf("%w: lone quote at offset %d", errMalformedLiteral, i)
			}
			b.WriteByte('\'')
			i++
		case q == QuoteBackslash && c == '\\':
			if i+1 >= len(body) {
				return "", fmt.Errorf("%w: trailing backslash", errMalformedLiteral)
			}
			i++
			switch body[i] {
			case '0':
				b.WriteByte(0)
			case 'n':
				b.WriteByte('\n')
			case 'r':
				b.WriteByte('\r')
			case 'Z':
				b.WriteByte(0x1a)
			default:
				b.WriteByte(body[i])
			}
		case q == QuoteBackslash && c == '\'':
			return "", fmt.Errorf("%w: unescaped quote at offset %d", errMalformedLiteral, i)
		default:
			b.WriteByte(c)
		}
	}
	return b.String(), nil
}
