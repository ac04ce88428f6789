package coerce

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// ErrUnrepresentable is returned under PolicyReject when text holds a character the
// target charset cannot encode.
var ErrUnrepresentable = errors.New("coerce: character not representable in target charset")

// Policy decides what happens to non-ASCII text before it is quoted.
type Policy string

const (
	// PolicyPassthrough leaves text untouched. This is the default.
	PolicyPassthrough Policy = "passthrough"

	// PolicyNarrow replaces every character outside the charset with '?'. The
	// result stays valid UTF-8.
	PolicyNarrow Policy = "narrow"

	// PolicyReject fails with ErrUnrepresentable.
	PolicyReject Policy = "reject"
)

// Charset names a single-byte target encoding.
type Charset string

const (
	CharsetLatin1      Charset = "iso-8859-1"
	CharsetWindows1252 Charset = "windows-1252"
)

func (c Charset) charmap() (*charmap.Charmap, error) {
	switch Charset(strings.ToLower(string(c))) {
	case "", CharsetLatin1, "latin1":
		return charmap.ISO8859_1, nil
	case CharsetWindows1252, "cp1252":
		return charmap.Windows1252, nil
	default:
		return nil, fmt.Errorf("coerce: unsupported charset %q", string(c))
	}
}

// ParsePolicy maps a configuration value to a Policy.
func ParsePolicy(s string) (Policy, error) {
	switch p := Policy(strings.ToLower(strings.TrimSpace(s))); p {
	case "":
		return PolicyPassthrough, nil
	case PolicyPassthrough, PolicyNarrow, PolicyReject:
		return p, nil
	default:
		return "", fmt.Errorf("coerce: unknown encoding policy %q", s)
	}
}

// Normalize applies policy p for charset cs to s.
func Normalize(s string, p Policy, cs Charset) (string, error) {
	if p == "" || p == PolicyPassthrough || isASCII(s) {
		return s, nil
	}
	cm, err := cs.charmap()
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		representable := !(r == utf8.RuneError && size == 1)
		if representable {
			_, representable = cm.EncodeRune(r)
		}
		if !representable {
			if p == PolicyReject {
				return "", fmt.Errorf("%w: %q at byte %d (%s)", ErrUnrepresentable, r, i, cs)
			}
			r = '?'
		}
		b.WriteRune(r)
		i += size
	}
	return b.String(), nil
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			return false
		}
	}
	return true
}
