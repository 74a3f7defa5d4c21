package uritemplate

import (
	"errors"
	"fmt"
	"sort"
	"strconv"

	"gopkg.in/yaml.v3"
)

var InvalidVariableValueError = errors.New("invalid variable value")

// Kind is the shape of a Value.
type Kind uint8

const (
	// UndefinedKind is a variable without value. It is the zero Kind.
	UndefinedKind Kind = iota
	// StringKind is a string value.
	StringKind
	// ListKind is an ordered list of values.
	ListKind
	// MapKind is an ordered list of name/value pairs (an associative array).
	MapKind
)

func (k Kind) String() string {
	switch k {
	case UndefinedKind:
		return "undefined"
	case StringKind:
		return "string"
	case ListKind:
		return "list"
	case MapKind:
		return "map"
	default:
		return "Kind(" + strconv.Itoa(int(k)) + ")"
	}
}

// Value is the value of a template variable.
//
// RFC 6570 only defines one level of nesting: the items of a list and the
// values of a map must be strings or undefined. Values breaking this rule
// can be built, but expanding them fails with InvalidVariableValueError.
//
// The zero Value is undefined.
type Value struct {
	kind  Kind
	str   string
	items []Value
	pairs []Pair
}

// Pair is an entry of a map value.
type Pair struct {
	Key   string
	Value Value
}

// Variables maps variable names to their values.
type Variables map[string]Value

// Undefined returns an undefined value.
func Undefined() Value {
	return Value{}
}

// String returns a string value.
func String(s string) Value {
	return Value{kind: StringKind, str: s}
}

// Strings returns a list of string values.
func Strings(ss ...string) Value {
	items := make([]Value, len(ss))
	for i, s := range ss {
		items[i] = String(s)
	}

	return Value{kind: ListKind, items: items}
}

// List returns a list value.
func List(items ...Value) Value {
	return Value{kind: ListKind, items: items}
}

// Map returns an associative value. Pairs are expanded in the given order.
func Map(pairs ...Pair) Value {
	return Value{kind: MapKind, pairs: pairs}
}

func (v Value) Kind() Kind {
	return v.kind
}

// Str returns the string of a StringKind value, "" otherwise.
func (v Value) Str() string {
	return v.str
}

// Items returns the items of a ListKind value.
func (v Value) Items() []Value {
	return v.items
}

// Pairs returns the entries of a MapKind value.
func (v Value) Pairs() []Pair {
	return v.pairs
}

func (v Value) IsDefined() bool {
	return v.kind != UndefinedKind
}

// isLeaf reports whether v can appear inside a list or a map.
func (v Value) isLeaf() bool {
	return v.kind == UndefinedKind || v.kind == StringKind
}

// ValueOf converts a native Go value to a Value.
//
// nil is undefined. Strings, booleans, numbers and fmt.Stringer are
// converted to strings. Slices become lists, and maps with string keys
// become associative values; since Go maps are unordered their keys are
// sorted. Use Map to control the order of the pairs.
func ValueOf(v any) (Value, error) {
	switch v := v.(type) {
	case nil:
		return Undefined(), nil
	case Value:
		return v, nil
	case *Value:
		if v == nil {
			return Undefined(), nil
		}

		return *v, nil
	case string:
		return String(v), nil
	case *string:
		if v == nil {
			return Undefined(), nil
		}

		return String(*v), nil
	case bool:
		return String(strconv.FormatBool(v)), nil
	case int:
		return String(strconv.FormatInt(int64(v), 10)), nil
	case int8:
		return String(strconv.FormatInt(int64(v), 10)), nil
	case int16:
		return String(strconv.FormatInt(int64(v), 10)), nil
	case int32:
		return String(strconv.FormatInt(int64(v), 10)), nil
	case int64:
		return String(strconv.FormatInt(v, 10)), nil
	case uint:
		return String(strconv.FormatUint(uint64(v), 10)), nil
	case uint8:
		return String(strconv.FormatUint(uint64(v), 10)), nil
	case uint16:
		return String(strconv.FormatUint(uint64(v), 10)), nil
	case uint32:
		return String(strconv.FormatUint(uint64(v), 10)), nil
	case uint64:
		return String(strconv.FormatUint(v, 10)), nil
	case float32:
		return String(strconv.FormatFloat(float64(v), 'f', -1, 32)), nil
	case float64:
		return String(strconv.FormatFloat(v, 'f', -1, 64)), nil
	case fmt.Stringer:
		return String(v.String()), nil
	case []string:
		return Strings(v...), nil
	case []Value:
		return List(v...), nil
	case []any:
		items := make([]Value, len(v))
		for i, item := range v {
			iv, err := ValueOf(item)
			if err != nil {
				return Value{}, err
			}
			items[i] = iv
		}

		return List(items...), nil
	case []Pair:
		return Map(v...), nil
	case map[string]string:
		pairs := make([]Pair, 0, len(v))
		for _, k := range sortedKeys(v) {
			pairs = append(pairs, Pair{Key: k, Value: String(v[k])})
		}

		return Map(pairs...), nil
	case map[string]Value:
		pairs := make([]Pair, 0, len(v))
		for _, k := range sortedKeys(v) {
			pairs = append(pairs, Pair{Key: k, Value: v[k]})
		}

		return Map(pairs...), nil
	case map[string]any:
		pairs := make([]Pair, 0, len(v))
		for _, k := range sortedKeys(v) {
			pv, err := ValueOf(v[k])
			if err != nil {
				return Value{}, err
			}
			pairs = append(pairs, Pair{Key: k, Value: pv})
		}

		return Map(pairs...), nil
	}

	return Value{}, fmt.Errorf("%w: unsupported type %T", InvalidVariableValueError, v)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	return keys
}

// NewVariables converts native Go values with ValueOf.
func NewVariables(m map[string]any) (Variables, error) {
	vars := make(Variables, len(m))
	for name, v := range m {
		value, err := ValueOf(v)
		if err != nil {
			return nil, fmt.Errorf("variable %q: %w", name, err)
		}
		vars[name] = value
	}

	return vars, nil
}

// UnmarshalYAML decodes a value from a YAML (or JSON) node. Null is
// undefined, other scalars are strings, sequences are lists and mappings
// are associative values keeping the document order.
func (v *Value) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.DocumentNode:
		if len(node.Content) == 0 {
			*v = Undefined()

			return nil
		}

		return v.UnmarshalYAML(node.Content[0])

	case yaml.AliasNode:
		return v.UnmarshalYAML(node.Alias)

	case yaml.ScalarNode:
		if node.ShortTag() == "!!null" {
			*v = Undefined()

			return nil
		}

		*v = String(node.Value)

		return nil

	case yaml.SequenceNode:
		items := make([]Value, len(node.Content))
		for i, n := range node.Content {
			if err := items[i].UnmarshalYAML(n); err != nil {
				return err
			}
		}
		*v = List(items...)

		return nil

	case yaml.MappingNode:
		pairs := make([]Pair, 0, len(node.Content)/2)
		for i := 0; i+1 < len(node.Content); i += 2 {
			key := node.Content[i]
			if key.Kind != yaml.ScalarNode {
				return fmt.Errorf("%w: line %d: map keys must be scalars", InvalidVariableValueError, key.Line)
			}

			var value Value
			if err := value.UnmarshalYAML(node.Content[i+1]); err != nil {
				return err
			}
			pairs = append(pairs, Pair{Key: key.Value, Value: value})
		}
		*v = Map(pairs...)

		return nil
	}

	return fmt.Errorf("%w: line %d: unexpected YAML node", InvalidVariableValueError, node.Line)
}
