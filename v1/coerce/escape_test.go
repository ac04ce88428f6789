package coerce

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuote(t *testing.T) {
	tests := []struct {
		name  string
		in    string
		style QuoteStyle
		want  string
	}{
		{"backslash plain", "Jo", QuoteBackslash, "'Jo'"},
		{"backslash quote", "O'Brien", QuoteBackslash, `'O\'Brien'`},
		{"backslash double quote", `say "hi"`, QuoteBackslash, `'say \"hi\"'`},
		{"backslash backslash", `C:\tmp`, QuoteBackslash, `'C:\\tmp'`},
		{"backslash controls", "a\x00b\nc\rd\x1ae", QuoteBackslash, `'a\0b\nc\rd\Ze'`},
		{"doubling quote", "O'Brien", QuoteDoubling, "'O''Brien'"},
		{"doubling leaves backslash", `C:\tmp`, QuoteDoubling, `'C:\tmp'`},
		{"empty", "", QuoteDoubling, "''"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Quote(tt.in, tt.style))
		})
	}
}

func TestUnescapeReversesQuote(t *testing.T) {
	inputs := []string{
		"",
		"O'Brien",
		"''",
		`\'`,
		`back\slash\`,
		"line\nbreak\r\n",
		"nul\x00sub\x1a",
		`"quoted"`,
		"héllo wörld",
	}
	for _, style := range []QuoteStyle{QuoteBackslash, QuoteDoubling} {
		for _, in := range inputs {
			got, err := Unescape(Quote(in, style), style)
			require.NoError(t, err, "%s %q", style, in)
			assert.Equal(t, in, got, "%s %q", style, in)
		}
	}
}

func TestUnescapeRejectsMalformed(t *testing.T) {
	tests := []struct {
		literal string
		style   QuoteStyle
	}{
		{"abc", QuoteBackslash},
		{"'", QuoteBackslash},
		{`'abc\'`, QuoteBackslash},
		{"'a'b'", QuoteBackslash},
		{"'a'b'", QuoteDoubling},
	}
	for _, tt := range tests {
		_, err := Unescape(tt.literal, tt.style)
		assert.Error(t, err, tt.literal)
	}
}

func TestParseQuoteStyle(t *testing.T) {
	s, err := ParseQuoteStyle("")
	require.NoError(t, err)
	assert.Equal(t, QuoteBackslash, s)

	s, err = ParseQuoteStyle("Doubling")
	require.NoError(t, err)
	assert.Equal(t, QuoteDoubling, s)

	_, err = ParseQuoteStyle("html")
	assert.Error(t, err)
}
