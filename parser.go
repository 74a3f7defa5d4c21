package uritemplate

import (
	"errors"
	"fmt"
	"regexp"
)

var (
	MalformedTemplateError  = errors.New("malformed template")
	ExpectedLiteralError    = errors.New("expected literal")
	ExpectedExpressionError = errors.New("expected expression")
	UnknownOperatorError    = errors.New("unknown operator")
)

// ParseError is returned by Parse for templates not conforming to the
// RFC 6570 grammar. It matches MalformedTemplateError with errors.Is and
// unwraps to the failure cause: ExpectedLiteralError,
// ExpectedExpressionError or UnknownOperatorError.
type ParseError struct {
	// Offset is the index, in code points, of the first character which
	// could not be parsed.
	Offset int
	// Template is the whole input.
	Template string
	Err      error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: %s at offset %d in %q", MalformedTemplateError, e.Err, e.Offset, e.Template)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

func (e *ParseError) Is(target error) bool {
	return target == MalformedTemplateError
}

// Parser parses URI templates. The character types, the operator table and
// the regular expressions derived from them are built by NewParser and never
// modified afterwards, so a Parser is safe for concurrent use.
type Parser struct {
	characterTypes    *CharacterTypes
	operators         operatorTable
	reservedOperators CharacterType
	literalSafe       CharacterType
	literalRegexp     *regexp.Regexp
	expressionRegexp  *regexp.Regexp
}

func NewParser() *Parser {
	types := buildCharacterTypes()

	return &Parser{
		characterTypes:    types,
		operators:         newOperatorTable(types),
		reservedOperators: types.mustLookup(opReserveType),
		literalSafe:       types.mustLookup(unreservedType).Or(types.mustLookup(reservedType)),
		literalRegexp:     literalRegexp(types),
		expressionRegexp:  expressionRegexp(types),
	}
}

// CharacterTypes returns the character types used by the parser.
func (p *Parser) CharacterTypes() *CharacterTypes {
	return p.characterTypes
}

// Parse parses a template. The whole input must conform to the grammar of
// RFC 6570 up to level 4, otherwise a *ParseError is returned.
func (p *Parser) Parse(template string) (*Template, error) {
	pl, err := p.tokenize(template)
	if err != nil {
		return nil, err
	}

	return &Template{raw: template, parts: pl}, nil
}
