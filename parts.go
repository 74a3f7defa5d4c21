package uritemplate

import (
	"strings"
)

type partType uint8

const (
	// partLiteral represents literal text, percent-encoded once at parse time.
	partLiteral partType = iota
	// partExpression represents a "{...}" expression: an operator and one or more variables.
	partExpression
)

type part struct {
	pType     partType
	value     string
	operator  *operator
	variables []variable
}

type partList []part

// https://www.rfc-editor.org/rfc/rfc6570#section-3
func (pl partList) expand(vars Variables) (string, error) {
	var result strings.Builder

	for _, p := range pl {
		if p.pType == partLiteral {
			result.WriteString(p.value)

			continue
		}

		expanded, err := p.expandExpression(vars)
		if err != nil {
			return "", err
		}

		result.WriteString(expanded)
	}

	return result.String(), nil
}

// https://www.rfc-editor.org/rfc/rfc6570#section-3.2.1
func (p part) expandExpression(vars Variables) (string, error) {
	values := make([]string, 0, len(p.variables))

	for _, v := range p.variables {
		pairs, err := v.expand(vars[v.name], p.operator)
		if err != nil {
			return "", err
		}

		for _, pr := range pairs {
			values = append(values, p.operator.combineKeyWithValue(pr))
		}
	}

	return p.operator.combineValues(values), nil
}

// names returns the variable names in order of first appearance.
func (pl partList) names() []string {
	var names []string
	seen := make(map[string]struct{})

	for _, p := range pl {
		for _, v := range p.variables {
			if _, ok := seen[v.name]; ok {
				continue
			}

			seen[v.name] = struct{}{}
			names = append(names, v.name)
		}
	}

	return names
}
