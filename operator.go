package uritemplate

import (
	"fmt"
	"strings"
)

// https://www.rfc-editor.org/rfc/rfc6570#appendix-A
type operator struct {
	symbol    string
	prefix    string
	separator string
	// named expands variables as "name=value" pairs.
	named bool
	// formStyle keeps the "=" of named pairs with an empty value.
	formStyle bool
	// allowReserved lets reserved characters and existing percent-encoded
	// triplets through unescaped.
	allowReserved bool
	// safe is the set of characters left unescaped by encode.
	safe CharacterType
}

type operatorDefinition struct {
	symbol        string
	prefix        string
	separator     string
	named         bool
	formStyle     bool
	allowReserved bool
}

var operatorDefinitions = []operatorDefinition{
	// Simple string expansion.
	{symbol: "", prefix: "", separator: ","},
	// Reserved expansion.
	{symbol: "+", prefix: "", separator: ",", allowReserved: true},
	// Fragment expansion.
	{symbol: "#", prefix: "#", separator: ",", allowReserved: true},
	// Label expansion with dot-prefix.
	{symbol: ".", prefix: ".", separator: "."},
	// Path segment expansion.
	{symbol: "/", prefix: "/", separator: "/"},
	// Path-style parameter expansion.
	{symbol: ";", prefix: ";", separator: ";", named: true},
	// Form-style query expansion.
	{symbol: "?", prefix: "?", separator: "&", named: true, formStyle: true},
	// Form-style query continuation.
	{symbol: "&", prefix: "&", separator: "&", named: true, formStyle: true},
}

type operatorTable map[string]*operator

func newOperatorTable(types *CharacterTypes) operatorTable {
	unreserved := types.mustLookup(unreservedType)
	reserved := unreserved.Or(types.mustLookup(reservedType))

	table := make(operatorTable, len(operatorDefinitions))
	for _, d := range operatorDefinitions {
		op := &operator{
			symbol:        d.symbol,
			prefix:        d.prefix,
			separator:     d.separator,
			named:         d.named,
			formStyle:     d.formStyle,
			allowReserved: d.allowReserved,
			safe:          unreserved,
		}
		if d.allowReserved {
			op.safe = reserved
		}

		table[d.symbol] = op
	}

	return table
}

func (t operatorTable) lookup(symbol string) (*operator, error) {
	op, ok := t[symbol]
	if !ok {
		return nil, fmt.Errorf("%w: %q", UnknownOperatorError, symbol)
	}

	return op, nil
}

// defaultKey returns the key given to values which do not carry their own:
// the variable name for named operators, nothing otherwise.
func (op *operator) defaultKey(name string) (string, bool) {
	if op.named {
		return name, true
	}

	return "", false
}

// combineValues joins the expanded values of an expression. An expression
// without any value expands to the empty string, without prefix.
func (op *operator) combineValues(values []string) string {
	if len(values) == 0 {
		return ""
	}

	return op.prefix + strings.Join(values, op.separator)
}

// combineKeyWithValue renders one pair. The value is already encoded.
func (op *operator) combineKeyWithValue(p pair) string {
	if !p.hasKey {
		return p.value
	}

	if p.value != "" || op.formStyle {
		return op.encode(p.key) + "=" + p.value
	}

	return op.encode(p.key)
}

func (op *operator) encode(s string) string {
	return percentEncode(s, op.allowReserved, op.safe)
}
