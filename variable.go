package uritemplate

import (
	"fmt"
	"strings"
)

// https://www.rfc-editor.org/rfc/rfc6570#section-2.4
type modifier uint8

const (
	// modifierNone expands the value as a whole.
	modifierNone modifier = iota
	// modifierPrefix keeps the first maxLength characters of string values, indicated by ":" followed by the length.
	modifierPrefix
	// modifierExplode expands each item of lists and maps on its own, indicated by the U+002A (*) code point.
	modifierExplode
)

// maxPrefixLength is the largest prefix length allowed by the grammar.
const maxPrefixLength = 9999

// variable is a variable specification: a name and its modifier.
type variable struct {
	name     string
	modifier modifier
	// maxLength is only set for modifierPrefix, 1 to maxPrefixLength.
	maxLength int
}

// pair is a key and an encoded value, rendered by the operator.
type pair struct {
	key    string
	hasKey bool
	value  string
}

// expand returns the pairs the variable contributes to its expression.
// An undefined value, or a composite one without any defined item,
// contributes nothing.
func (v variable) expand(value Value, op *operator) ([]pair, error) {
	key, hasKey := op.defaultKey(v.name)

	switch value.kind {
	case UndefinedKind:
		return nil, nil

	case StringKind:
		encoded := op.encode(value.str)
		if v.modifier == modifierPrefix {
			encoded = truncateEncoded(encoded, v.maxLength)
		}

		return []pair{{key: key, hasKey: hasKey, value: encoded}}, nil

	case ListKind:
		if err := v.checkLeaves(value); err != nil {
			return nil, err
		}

		if v.modifier == modifierExplode {
			pairs := make([]pair, 0, len(value.items))
			for _, item := range value.items {
				if !item.IsDefined() {
					continue
				}
				pairs = append(pairs, pair{key: key, hasKey: hasKey, value: op.encode(item.str)})
			}

			return pairs, nil
		}

		parts := make([]string, 0, len(value.items))
		for _, item := range value.items {
			if !item.IsDefined() {
				continue
			}
			parts = append(parts, op.encode(item.str))
		}

		return joinedPair(key, hasKey, parts), nil

	case MapKind:
		if err := v.checkLeaves(value); err != nil {
			return nil, err
		}

		if v.modifier == modifierExplode {
			pairs := make([]pair, 0, len(value.pairs))
			for _, p := range value.pairs {
				if !p.Value.IsDefined() {
					continue
				}
				pairs = append(pairs, pair{key: p.Key, hasKey: true, value: op.encode(p.Value.str)})
			}

			return pairs, nil
		}

		parts := make([]string, 0, len(value.pairs))
		for _, p := range value.pairs {
			if !p.Value.IsDefined() {
				continue
			}
			parts = append(parts, op.encode(p.Key)+","+op.encode(p.Value.str))
		}

		return joinedPair(key, hasKey, parts), nil
	}

	return nil, fmt.Errorf("%w: variable %q has unknown kind %s", InvalidVariableValueError, v.name, value.kind)
}

// joinedPair returns the single pair of a composite value which is not
// exploded, or nothing when no item is defined.
func joinedPair(key string, hasKey bool, parts []string) []pair {
	if len(parts) == 0 {
		return nil
	}

	return []pair{{key: key, hasKey: hasKey, value: strings.Join(parts, ",")}}
}

func (v variable) checkLeaves(value Value) error {
	for i, item := range value.items {
		if !item.isLeaf() {
			return fmt.Errorf("%w: variable %q: item %d is a %s, only strings are allowed in lists", InvalidVariableValueError, v.name, i, item.kind)
		}
	}

	for _, p := range value.pairs {
		if !p.Value.isLeaf() {
			return fmt.Errorf("%w: variable %q: key %q holds a %s, only strings are allowed in maps", InvalidVariableValueError, v.name, p.Key, p.Value.kind)
		}
	}

	return nil
}
