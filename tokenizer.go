package uritemplate

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"golang.org/x/exp/utf8string"
)

// https://www.rfc-editor.org/rfc/rfc6570#section-2
//
// tokenizer splits a template into parts. It alternates between literal runs
// and expressions depending on the next code point, matching one regular
// expression per step, and never backtracks.
type tokenizer struct {
	input    *utf8string.String
	parser   *Parser
	partList partList
	// index is the position of the next code point to consume.
	index int
}

func (p *Parser) tokenize(input string) (partList, error) {
	t := tokenizer{
		input:  utf8string.NewString(input),
		parser: p,
	}

	length := t.input.RuneCount()

	for t.index < length {
		var (
			consumed int
			err      error
		)

		if t.input.At(t.index) == '{' {
			consumed, err = t.consumeExpression()
		} else {
			consumed, err = t.consumeLiteral()
		}

		if err != nil {
			return nil, &ParseError{Offset: t.index, Template: input, Err: err}
		}

		if consumed <= 0 {
			panic(fmt.Sprintf("uritemplate: empty match at offset %d in %q", t.index, input))
		}

		t.index += consumed
	}

	return t.partList, nil
}

func (t *tokenizer) remaining() string {
	return t.input.Slice(t.index, t.input.RuneCount())
}

// https://www.rfc-editor.org/rfc/rfc6570#section-2.1
func (t *tokenizer) consumeLiteral() (int, error) {
	remaining := t.remaining()

	loc := t.parser.literalRegexp.FindStringIndex(remaining)
	if loc == nil || loc[1] == 0 {
		return 0, ExpectedLiteralError
	}

	literal := remaining[:loc[1]]
	t.partList = append(t.partList, part{
		pType: partLiteral,
		value: percentEncode(literal, true, t.parser.literalSafe),
	})

	return utf8.RuneCountInString(literal), nil
}

// https://www.rfc-editor.org/rfc/rfc6570#section-2.2
func (t *tokenizer) consumeExpression() (int, error) {
	remaining := t.remaining()

	m := t.parser.expressionRegexp.FindStringSubmatch(remaining)
	if m == nil {
		return 0, ExpectedExpressionError
	}

	symbol, varList := m[1], m[2]

	// "=", ",", "!", "@" and "|" are reserved for future extensions.
	if r, _ := utf8.DecodeRuneInString(symbol); symbol != "" && t.parser.reservedOperators.Contains(r) {
		return 0, fmt.Errorf("%w: operator %q is reserved", ExpectedExpressionError, symbol)
	}

	op, err := t.parser.operators.lookup(symbol)
	if err != nil {
		return 0, err
	}

	specs := strings.Split(varList, ",")
	variables := make([]variable, 0, len(specs))
	for _, spec := range specs {
		v, err := parseVarSpec(spec)
		if err != nil {
			return 0, err
		}
		variables = append(variables, v)
	}

	t.partList = append(t.partList, part{
		pType:     partExpression,
		operator:  op,
		variables: variables,
	})

	return utf8.RuneCountInString(m[0]), nil
}

// https://www.rfc-editor.org/rfc/rfc6570#section-2.3
//
// parseVarSpec reads a variable specification already validated by the
// expression regexp.
func parseVarSpec(spec string) (variable, error) {
	if name, ok := strings.CutSuffix(spec, "*"); ok {
		return variable{name: name, modifier: modifierExplode}, nil
	}

	name, length, ok := strings.Cut(spec, ":")
	if !ok {
		return variable{name: spec, modifier: modifierNone}, nil
	}

	maxLength, err := strconv.Atoi(length)
	if err != nil || maxLength < 1 || maxLength > maxPrefixLength {
		return variable{}, fmt.Errorf("%w: invalid prefix length %q", ExpectedExpressionError, length)
	}

	return variable{name: name, modifier: modifierPrefix, maxLength: maxLength}, nil
}

// https://www.rfc-editor.org/rfc/rfc6570#section-2.1
func literalRegexp(types *CharacterTypes) *regexp.Regexp {
	literalChar := `[!#$&()*+,\-./0-9:;=?@A-Z\[\]_a-z~]` +
		"|" + types.mustLookup(ucscharType).group() +
		"|" + types.mustLookup(iprivateType).group() +
		"|" + percentEncodedRegexp(types)

	return regexp.MustCompile(`\A(?:` + literalChar + `)+`)
}

// https://www.rfc-editor.org/rfc/rfc6570#section-2.2
func expressionRegexp(types *CharacterTypes) *regexp.Regexp {
	varChar := `(?:[A-Za-z0-9_]|` + percentEncodedRegexp(types) + `)`
	varName := varChar + `(?:\.?` + varChar + `)*`
	level4Modifier := `:[1-9][0-9]{0,3}|\*`
	varSpec := varName + `(?:` + level4Modifier + `)?`

	return regexp.MustCompile(`\A\{(` + types.mustLookup(operatorType).group() + `)?(` +
		varSpec + `(?:,` + varSpec + `)*)\}`)
}

func percentEncodedRegexp(types *CharacterTypes) string {
	return `%` + types.mustLookup(hexDigitType).group() + `{2}`
}
