// Package checks turns constraint keywords into a JavaScript boolean
// expression used as a brand predicate.
package checks

import (
	"errors"
	"fmt"
	"strings"

	"github.com/reoring/schemats/jsonschema"
)

// ErrRegexp is returned for regexp keyword values that are neither a
// "/pattern/flags" string nor a {pattern, flags} object.
var ErrRegexp = errors.New("checks: unknown regexp format")

// Reporter receives warnings for constraints that contribute no check.
type Reporter func(message string)

type clause func(x string, schema *jsonschema.Value, report Reporter) (string, bool, error)

// order is fixed; generated predicates must not depend on member order.
var clauses = []clause{
	pattern,
	regexpClause,
	format,
	numeric("minLength", "string", ">="),
	numeric("maxLength", "string", "<="),
	numeric("minimum", "number", ">="),
	numeric("maximum", "number", "<="),
	multipleOf,
	integer,
	items("minItems", ">="),
	items("maxItems", "<="),
	uniqueItems,
}

// Synthesize joins one guarded clause per present constraint with " && ".
// Each clause is vacuously true for values of the wrong runtime kind. The
// result is "true" when no constraint applies.
func Synthesize(x string, schema *jsonschema.Value, report Reporter) (string, error) {
	if report == nil {
		report = func(string) {}
	}
	if !schema.IsObject() {
		return "true", nil
	}
	var out []string
	for _, c := range clauses {
		s, ok, err := c(x, schema, report)
		if err != nil {
			return "", err
		}
		if ok {
			out = append(out, s)
		}
	}
	if len(out) == 0 {
		return "true", nil
	}
	return strings.Join(out, " && "), nil
}

func pattern(x string, schema *jsonschema.Value, _ Reporter) (string, bool, error) {
	p, ok := schema.StringAt("pattern")
	if !ok {
		return "", false, nil
	}
	return fmt.Sprintf("( typeof %s !== 'string' || %s.match(RegExp(%s)) !== null )", x, x, jsonschema.Quote(p)), true, nil
}

func regexpClause(x string, schema *jsonschema.Value, _ Reporter) (string, bool, error) {
	v, ok := schema.Get("regexp")
	if !ok {
		return "", false, nil
	}
	p, flags, err := Regexp(v)
	if err != nil {
		return "", false, err
	}
	return fmt.Sprintf("( typeof %s !== 'string' || %s.match(RegExp(%s, %s)) !== null )", x, x, jsonschema.Quote(p), jsonschema.Quote(flags)), true, nil
}

// Regexp normalizes the two accepted forms of the regexp keyword.
func Regexp(v *jsonschema.Value) (pattern, flags string, err error) {
	switch {
	case v.IsString():
		s := v.Str()
		last := strings.LastIndex(s, "/")
		if !strings.HasPrefix(s, "/") || last == 0 {
			return "", "", fmt.Errorf("%w: %q", ErrRegexp, s)
		}
		return s[1:last], s[last+1:], nil
	case v.IsObject():
		p, ok := v.StringAt("pattern")
		if !ok {
			return "", "", fmt.Errorf("%w: object without string pattern", ErrRegexp)
		}
		f, _ := v.StringAt("flags")
		return p, f, nil
	}
	return "", "", fmt.Errorf("%w: %s", ErrRegexp, v.Kind())
}

const ipv4 = "( typeof %[1]s !== 'string' || ((octets) => octets.length === 4 && octets.map(Number).every((octet) => Number.isInteger(octet) && octet >= 0x00 && octet <= 0xff))(%[1]s.split('.')) )"

func format(x string, schema *jsonschema.Value, report Reporter) (string, bool, error) {
	f, ok := schema.StringAt("format")
	if !ok {
		return "", false, nil
	}
	if f == "ipv4" {
		return fmt.Sprintf(ipv4, x), true, nil
	}
	report(f + " format not supported")
	return "", false, nil
}

func numeric(key, kind, op string) clause {
	return func(x string, schema *jsonschema.Value, _ Reporter) (string, bool, error) {
		n := schema.Lookup(key)
		if !n.IsNumber() {
			return "", false, nil
		}
		if kind == "string" {
			return fmt.Sprintf("( typeof %s !== 'string' || %s.length %s %s )", x, x, op, n.NumberText()), true, nil
		}
		return fmt.Sprintf("( typeof %s !== 'number' || %s %s %s )", x, x, op, n.NumberText()), true, nil
	}
}

func multipleOf(x string, schema *jsonschema.Value, _ Reporter) (string, bool, error) {
	n := schema.Lookup("multipleOf")
	if !n.IsNumber() {
		return "", false, nil
	}
	return fmt.Sprintf("( typeof %s !== 'number' || %s %% %s === 0 )", x, x, n.NumberText()), true, nil
}

func integer(x string, schema *jsonschema.Value, _ Reporter) (string, bool, error) {
	if t, ok := schema.StringAt("type"); !ok || t != "integer" {
		return "", false, nil
	}
	return fmt.Sprintf("( Number.isInteger(%s) )", x), true, nil
}

func items(key, op string) clause {
	return func(x string, schema *jsonschema.Value, _ Reporter) (string, bool, error) {
		n := schema.Lookup(key)
		if !n.IsNumber() {
			return "", false, nil
		}
		return fmt.Sprintf("( Array.isArray(%s) === false || %s.length %s %s )", x, x, op, n.NumberText()), true, nil
	}
}

func uniqueItems(x string, schema *jsonschema.Value, _ Reporter) (string, bool, error) {
	if !schema.Lookup("uniqueItems").IsTrue() {
		return "", false, nil
	}
	return fmt.Sprintf("( Array.isArray(%s) === false || %s.length === [...new Set(%s)].length )", x, x, x), true, nil
}
