package uritemplate

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPercentEncode(t *testing.T) {
	types := buildCharacterTypes()
	unreserved := types.mustLookup(unreservedType)
	reserved := unreserved.Or(types.mustLookup(reservedType))

	testCases := []struct {
		input       string
		keepEncoded bool
		safe        CharacterType
		expected    string
	}{
		{"value", false, unreserved, "value"},
		{"Hello World!", false, unreserved, "Hello%20World%21"},
		{"Hello World!", true, reserved, "Hello%20World!"},
		{"50%", false, unreserved, "50%25"},
		{"50%", true, reserved, "50%25"},
		{"%41%2f", false, unreserved, "%2541%252f"},
		{"%41%2f", true, unreserved, "%41%2f"},
		{"%4", true, unreserved, "%254"},
		{"%zz", true, reserved, "%25zz"},
		{"ü", false, unreserved, "%C3%BC"},
		{"😀", false, unreserved, "%F0%9F%98%80"},
		{"\x00\x7f", false, unreserved, "%00%7F"},
		{"a\xffb", false, unreserved, "a%FFb"},
		{"/foo/bar", false, unreserved, "%2Ffoo%2Fbar"},
		{"/foo/bar", true, reserved, "/foo/bar"},
		{"", false, unreserved, ""},
		{"ü", false, EmptyCharacterType(), "%C3%BC"},
		{"ab", false, EmptyCharacterType(), "%61%62"},
	}

	for _, tc := range testCases {
		assert.Equal(t, tc.expected, percentEncode(tc.input, tc.keepEncoded, tc.safe), "%q", tc.input)
	}
}

func TestPercentEncodeIsIdempotent(t *testing.T) {
	types := buildCharacterTypes()
	unreserved := types.mustLookup(unreservedType)
	reserved := unreserved.Or(types.mustLookup(reservedType))

	for _, safe := range []CharacterType{unreserved, reserved} {
		for _, input := range []string{"Hello World!", "50%", "%41%zz", "drücken/été", "a\xffb", "?x=1&y=2#frag"} {
			encoded := percentEncode(input, true, safe)
			assert.Equal(t, encoded, percentEncode(encoded, true, safe), "%q", input)
		}
	}
}

func TestTruncateEncoded(t *testing.T) {
	testCases := []struct {
		input    string
		n        int
		expected string
	}{
		{"value", 3, "val"},
		{"value", 30, "value"},
		{"value", 5, "value"},
		{"Hello%20World%21", 7, "Hello%20W"},
		{"Hello%20World%21", 6, "Hello%20"},
		{"%2Ffoo%2Fbar", 4, "%2Ffoo"},
		{"%C3%A9t%C3%A9", 1, "%C3%A9"},
		{"%C3%A9t%C3%A9", 2, "%C3%A9t"},
		{"%F0%9F%98%80x", 1, "%F0%9F%98%80"},
		// A lead byte without its continuation is a character on its own.
		{"%C3x", 1, "%C3"},
		{"%C3%41", 1, "%C3"},
		{"50%", 3, "50%"},
		{"", 3, ""},
	}

	for _, tc := range testCases {
		assert.Equal(t, tc.expected, truncateEncoded(tc.input, tc.n), "%q[:%d]", tc.input, tc.n)
	}
}
