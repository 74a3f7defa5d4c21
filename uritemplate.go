// Package uritemplate implements URI Templates.
//
// The specification is available at https://www.rfc-editor.org/rfc/rfc6570.
// All four levels are supported: simple, reserved and fragment expansion,
// label, path segment, path-style parameter and form-style query expansion,
// and the prefix (":N") and explode ("*") modifiers.
package uritemplate

import "strconv"

// Template is a parsed URI template. It is immutable and safe for
// concurrent use.
type Template struct {
	raw   string
	parts partList
}

var defaultParser = NewParser()

// Parse parses a template with a shared Parser.
func Parse(template string) (*Template, error) {
	return defaultParser.Parse(template)
}

// MustParse is like Parse but panics if the template cannot be parsed.
func MustParse(template string) *Template {
	t, err := Parse(template)
	if err != nil {
		panic(`uritemplate: Parse(` + strconv.Quote(template) + `): ` + err.Error())
	}

	return t
}

// https://www.rfc-editor.org/rfc/rfc6570#section-3
//
// Expand substitutes the variables in the template. Variables missing from
// vars are undefined. The only error is InvalidVariableValueError, for lists
// or maps holding nested lists or maps.
func (t *Template) Expand(vars Variables) (string, error) {
	return t.parts.expand(vars)
}

// ExpandMap converts vars with ValueOf and expands the template.
func (t *Template) ExpandMap(vars map[string]any) (string, error) {
	v, err := NewVariables(vars)
	if err != nil {
		return "", err
	}

	return t.Expand(v)
}

// Names returns the names of the variables used by the template, in order
// of first appearance.
func (t *Template) Names() []string {
	return t.parts.names()
}

// String returns the template as it was parsed.
func (t *Template) String() string {
	return t.raw
}
