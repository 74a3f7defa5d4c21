package uritemplate

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var partListOptions = cmp.Options{
	cmp.AllowUnexported(part{}, variable{}),
	cmp.Comparer(func(a, b *operator) bool {
		if a == nil || b == nil {
			return a == b
		}

		return a.symbol == b.symbol
	}),
}

func TestParseParts(t *testing.T) {
	p := NewParser()
	op := func(symbol string) *operator {
		o, err := p.operators.lookup(symbol)
		require.NoError(t, err)

		return o
	}

	testCases := []struct {
		input    string
		expected partList
	}{
		{"", nil},
		{"/static/path", partList{
			{pType: partLiteral, value: "/static/path"},
		}},
		{"café", partList{
			{pType: partLiteral, value: "caf%C3%A9"},
		}},
		{"{var}", partList{
			{pType: partExpression, operator: op(""), variables: []variable{{name: "var"}}},
		}},
		{"http://example.com/{+path}/here{?x,y:3,list*}", partList{
			{pType: partLiteral, value: "http://example.com/"},
			{pType: partExpression, operator: op("+"), variables: []variable{{name: "path"}}},
			{pType: partLiteral, value: "/here"},
			{pType: partExpression, operator: op("?"), variables: []variable{
				{name: "x"},
				{name: "y", modifier: modifierPrefix, maxLength: 3},
				{name: "list", modifier: modifierExplode},
			}},
		}},
		{"{#a.b,c%20d:9999}{;e}{&f}{/g}{.h}", partList{
			{pType: partExpression, operator: op("#"), variables: []variable{
				{name: "a.b"},
				{name: "c%20d", modifier: modifierPrefix, maxLength: 9999},
			}},
			{pType: partExpression, operator: op(";"), variables: []variable{{name: "e"}}},
			{pType: partExpression, operator: op("&"), variables: []variable{{name: "f"}}},
			{pType: partExpression, operator: op("/"), variables: []variable{{name: "g"}}},
			{pType: partExpression, operator: op("."), variables: []variable{{name: "h"}}},
		}},
	}

	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			template, err := p.Parse(tc.input)
			require.NoError(t, err)

			if diff := cmp.Diff(tc.expected, template.parts, partListOptions); diff != "" {
				t.Errorf("Parse(%q) mismatch (-want +got):\n%s", tc.input, diff)
			}
		})
	}
}

func TestParseErrors(t *testing.T) {
	testCases := []struct {
		input  string
		offset int
		cause  error
	}{
		{"{var", 0, ExpectedExpressionError},
		{"/a/{var", 3, ExpectedExpressionError},
		{"{x,$y}", 0, ExpectedExpressionError},
		{"/bad/encoded/%ZF/here", 13, ExpectedLiteralError},
		{"/bad/char/\"", 10, ExpectedLiteralError},
		{"été/{x}/ x", 8, ExpectedLiteralError},
		{"{=var}", 0, ExpectedExpressionError},
		{"{@var}", 0, ExpectedExpressionError},
		{"{var:0}", 0, ExpectedExpressionError},
		{"{var}}", 5, ExpectedLiteralError},
		{"x\xff", 1, ExpectedLiteralError},
	}

	p := NewParser()
	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			template, err := p.Parse(tc.input)
			require.Error(t, err)
			assert.Nil(t, template)

			assert.ErrorIs(t, err, MalformedTemplateError)
			assert.ErrorIs(t, err, tc.cause)

			var parseErr *ParseError
			require.True(t, errors.As(err, &parseErr))
			assert.Equal(t, tc.offset, parseErr.Offset)
			assert.Equal(t, tc.input, parseErr.Template)
			assert.Contains(t, parseErr.Error(), "malformed template")
		})
	}
}

func TestUnknownOperator(t *testing.T) {
	p := NewParser()
	// Simulate a table out of sync with the operator character type.
	delete(p.operators, "&")

	_, err := p.Parse("{&x}")
	assert.ErrorIs(t, err, MalformedTemplateError)
	assert.ErrorIs(t, err, UnknownOperatorError)
}

func TestParseVarSpec(t *testing.T) {
	v, err := parseVarSpec("list*")
	require.NoError(t, err)
	assert.Equal(t, variable{name: "list", modifier: modifierExplode}, v)

	v, err = parseVarSpec("var:30")
	require.NoError(t, err)
	assert.Equal(t, variable{name: "var", modifier: modifierPrefix, maxLength: 30}, v)

	v, err = parseVarSpec("var")
	require.NoError(t, err)
	assert.Equal(t, variable{name: "var"}, v)

	_, err = parseVarSpec("var:10000")
	assert.ErrorIs(t, err, ExpectedExpressionError)
}

func TestLiteralExpansionOnlyEscapesUnsafeCharacters(t *testing.T) {
	p := NewParser()

	for input, expected := range map[string]string{
		"http://example.com/a;b=c?d=e&f#g": "http://example.com/a;b=c?d=e&f#g",
		"/%7Euser/%41":                     "/%7Euser/%41",
		"/über/\U000F0000":                 "/%C3%BCber/%F3%B0%80%80",
	} {
		template, err := p.Parse(input)
		require.NoError(t, err)

		result, err := template.Expand(nil)
		require.NoError(t, err)
		assert.Equal(t, expected, result)
	}
}
