package coerce

import (
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		policy  Policy
		charset Charset
		want    string
		wantErr error
	}{
		{"passthrough keeps everything", "Zoë 日本 €", PolicyPassthrough, CharsetLatin1, "Zoë 日本 €", nil},
		{"empty policy is passthrough", "日本", "", CharsetLatin1, "日本", nil},
		{"narrow keeps latin1", "Zoë Müller", PolicyNarrow, CharsetLatin1, "Zoë Müller", nil},
		{"narrow replaces cjk", "a日b", PolicyNarrow, CharsetLatin1, "a?b", nil},
		{"narrow euro in latin1", "5€", PolicyNarrow, CharsetLatin1, "5?", nil},
		{"narrow euro in cp1252", "5€", PolicyNarrow, CharsetWindows1252, "5€", nil},
		{"narrow invalid utf8", "a\xffb", PolicyNarrow, CharsetLatin1, "a?b", nil},
		{"reject ascii ok", "plain", PolicyReject, CharsetLatin1, "plain", nil},
		{"reject latin1 ok", "café", PolicyReject, CharsetLatin1, "café", nil},
		{"reject cjk", "日本", PolicyReject, CharsetLatin1, "", ErrUnrepresentable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Normalize(tt.in, tt.policy, tt.charset)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			if tt.policy == PolicyNarrow {
				assert.True(t, utf8.ValidString(got))
			}
		})
	}
}

func TestNormalizeUnknownCharset(t *testing.T) {
	_, err := Normalize("é", PolicyNarrow, "koi8-r")
	assert.Error(t, err)

	got, err := Normalize("ascii only", PolicyNarrow, "koi8-r")
	require.NoError(t, err)
	assert.Equal(t, "ascii only", got)
}

func TestParsePolicy(t *testing.T) {
	p, err := ParsePolicy("")
	require.NoError(t, err)
	assert.Equal(t, PolicyPassthrough, p)

	p, err = ParsePolicy(" Reject ")
	require.NoError(t, err)
	assert.Equal(t, PolicyReject, p)

	_, err = ParsePolicy("transliterate")
	assert.Error(t, err)
}
