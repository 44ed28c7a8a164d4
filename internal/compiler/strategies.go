package compiler

import (
	"strconv"

	ir "github.com/reoring/schemats/internal/ir"
	"github.com/reoring/schemats/jsonschema"
)

// strategy contributes zero or more combinators for one group of keywords.
type strategy struct {
	name  string
	apply func(c *Context, schema *jsonschema.Value, at string) ([]ir.Node, error)
}

// strategies run in this order; their contributions are intersected.
var strategies []strategy

func init() {
	strategies = []strategy{
		{"type", fromType},
		{"object", fromObjectKeywords},
		{"array", fromArrayKeywords},
		{"enum", fromEnum},
		{"const", fromConst},
		{"allOf", fromAllOf},
		{"anyOf", fromAnyOf},
		{"oneOf", fromOneOf},
	}
}

func fromType(c *Context, schema *jsonschema.Value, at string) ([]ir.Node, error) {
	tv, ok := schema.Get("type")
	if !ok {
		return nil, nil
	}
	types := []*jsonschema.Value{tv}
	if tv.IsArray() {
		types = tv.Items()
	}
	var out []ir.Node
	for _, t := range types {
		switch t.Str() {
		case "string":
			out = append(out, ir.StringType)
		case "number", "integer":
			out = append(out, ir.NumberType)
		case "boolean":
			out = append(out, ir.BooleanType)
		case "null":
			out = append(out, c.null())
		case "array":
			// items decides the shape
			if it, ok := schema.Get("items"); ok && !it.IsTrue() {
				continue
			}
			out = append(out, ir.UnknownArrayType)
		case "object":
			// the property keywords decide the shape
			if hasObjectShape(schema) {
				continue
			}
			out = append(out, ir.UnknownRecordType)
		default:
			c.notImplemented(jsonschema.Encode(tv), "type")
			out = append(out, ir.UnknownType)
		}
	}
	return union(out), nil
}

// hasObjectShape reports whether the object keywords of schema contribute a
// node. additionalProperties false alone contributes none.
func hasObjectShape(schema *jsonschema.Value) bool {
	if schema.Has("properties") || schema.Has("patternProperties") || schema.Has("propertyNames") {
		return true
	}
	ap, ok := schema.Get("additionalProperties")
	return ok && !ap.IsFalse()
}

// requireType fails unless the type keyword is exactly want.
func requireType(schema *jsonschema.Value, keyword, want string, at string, err error) error {
	if t, ok := schema.StringAt("type"); ok && t == want {
		return nil
	}
	return fail(pointer(at, keyword), err, "%s", keyword)
}

func fromObjectKeywords(c *Context, schema *jsonschema.Value, at string) ([]ir.Node, error) {
	var rules []ir.Node
	for _, f := range []func(*Context, *jsonschema.Value, string) ([]ir.Node, error){
		fromProperties, fromPropertyNames, fromPatternProperties, fromAdditionalProperties,
	} {
		ns, err := f(c, schema, at)
		if err != nil {
			return nil, err
		}
		rules = append(rules, ns...)
	}
	req, err := fromRequired(c, schema, at)
	if err != nil {
		return nil, err
	}
	return append(intersection(rules), req...), nil
}

func objectMembers(schema *jsonschema.Value, keyword, at string) ([]jsonschema.Member, bool, error) {
	v, ok := schema.Get(keyword)
	if !ok {
		return nil, false, nil
	}
	if err := requireType(schema, keyword, "object", at, ErrObjectKeyword); err != nil {
		return nil, false, err
	}
	if !v.IsObject() {
		return nil, false, fail(pointer(at, keyword), ErrUnrepresentable, "%s must be an object", keyword)
	}
	return v.Members(), true, nil
}

func fromProperties(c *Context, schema *jsonschema.Value, at string) ([]ir.Node, error) {
	members, ok, err := objectMembers(schema, "properties", at)
	if !ok || err != nil {
		return nil, err
	}
	props := make([]ir.Property, 0, len(members))
	for _, m := range members {
		n, err := c.CompileAt(m.Value, false, pointer(at, "properties", m.Key))
		if err != nil {
			return nil, err
		}
		props = append(props, ir.NewProperty(m.Key, n))
	}
	partial := ir.PartialCombinator(props...)
	if schema.Lookup("additionalProperties").IsFalse() {
		return []ir.Node{ir.ExactCombinator(partial)}, nil
	}
	return []ir.Node{partial}, nil
}

func fromPropertyNames(c *Context, schema *jsonschema.Value, at string) ([]ir.Node, error) {
	names, ok := schema.Get("propertyNames")
	if !ok {
		return nil, nil
	}
	if err := requireType(schema, "propertyNames", "object", at, ErrObjectKeyword); err != nil {
		return nil, err
	}
	domain, err := c.CompileAt(names, false, pointer(at, "propertyNames"))
	if err != nil {
		return nil, err
	}
	return []ir.Node{ir.RecordCombinator(domain, ir.UnknownType)}, nil
}

func fromPatternProperties(c *Context, schema *jsonschema.Value, at string) ([]ir.Node, error) {
	patterns, ok, err := objectMembers(schema, "patternProperties", at)
	if !ok || err != nil {
		return nil, err
	}
	// the mapping from pattern to value type is lost
	c.Warning("patternProperty support has limitations")

	var values []ir.Node
	for _, m := range schema.Lookup("properties").Members() {
		n, err := c.CompileAt(m.Value, false, pointer(at, "properties", m.Key))
		if err != nil {
			return nil, err
		}
		values = append(values, n)
	}
	for _, m := range patterns {
		n, err := c.CompileAt(m.Value, false, pointer(at, "patternProperties", m.Key))
		if err != nil {
			return nil, err
		}
		values = append(values, n)
	}
	v := union(values)
	if len(v) == 0 {
		return nil, nil
	}
	return []ir.Node{ir.RecordCombinator(ir.StringType, v[0])}, nil
}

func fromAdditionalProperties(c *Context, schema *jsonschema.Value, at string) ([]ir.Node, error) {
	ap, ok := schema.Get("additionalProperties")
	if !ok {
		return nil, nil
	}
	if err := requireType(schema, "additionalProperties", "object", at, ErrObjectKeyword); err != nil {
		return nil, err
	}
	if ap.IsFalse() {
		// a record of never would reject the declared properties too
		return nil, nil
	}
	n, err := c.CompileAt(ap, false, pointer(at, "additionalProperties"))
	if err != nil {
		return nil, err
	}
	return []ir.Node{ir.RecordCombinator(ir.StringType, n)}, nil
}

func fromRequired(c *Context, schema *jsonschema.Value, at string) ([]ir.Node, error) {
	req, ok := schema.Get("required")
	if !ok {
		return nil, nil
	}
	if !req.IsArray() {
		return nil, fail(pointer(at, "required"), ErrUnrepresentable, "required must be an array of strings")
	}
	props := make([]ir.Property, 0, req.Len())
	for i, k := range req.Items() {
		if !k.IsString() {
			return nil, fail(pointer(at, "required", strconv.Itoa(i)), ErrUnrepresentable, "required must be an array of strings")
		}
		props = append(props, ir.NewProperty(k.Str(), c.defined()))
	}
	return []ir.Node{ir.InterfaceCombinator(props...)}, nil
}

func fromArrayKeywords(c *Context, schema *jsonschema.Value, at string) ([]ir.Node, error) {
	out, err := fromItems(c, schema, at)
	if err != nil {
		return nil, err
	}
	if schema.Has("contains") {
		c.Warning("contains field not supported")
	}
	return out, nil
}

func fromItems(c *Context, schema *jsonschema.Value, at string) ([]ir.Node, error) {
	items, ok := schema.Get("items")
	if !ok {
		return nil, nil
	}
	if err := requireType(schema, "items", "array", at, ErrArrayKeyword); err != nil {
		return nil, err
	}
	switch {
	case items.IsTrue():
		return nil, nil
	case items.IsFalse():
		return []ir.Node{ir.TupleCombinator()}, nil
	case items.IsArray():
		if !schema.Lookup("additionalItems").IsFalse() {
			return nil, fail(pointer(at, "items"), ErrOpenTuple, "")
		}
		types := make([]ir.Node, 0, items.Len())
		for i, it := range items.Items() {
			n, err := c.CompileAt(it, false, pointer(at, "items", strconv.Itoa(i)))
			if err != nil {
				return nil, err
			}
			types = append(types, n)
		}
		return []ir.Node{ir.TupleCombinator(types...)}, nil
	}
	n, err := c.CompileAt(items, false, pointer(at, "items"))
	if err != nil {
		return nil, err
	}
	return []ir.Node{ir.ArrayCombinator(n)}, nil
}

// literal maps a JSON scalar to a literal combinator.
func literal(v *jsonschema.Value) (ir.Node, bool) {
	switch v.Kind() {
	case jsonschema.KindString:
		return ir.LiteralCombinator(v.Str()), true
	case jsonschema.KindNumber:
		return ir.LiteralCombinator(ir.Number(v.NumberText())), true
	case jsonschema.KindBool:
		return ir.LiteralCombinator(v.Bool()), true
	}
	return nil, false
}

// jsType names the kind of v the way JavaScript's typeof does.
func jsType(v *jsonschema.Value) string {
	switch v.Kind() {
	case jsonschema.KindString:
		return "string"
	case jsonschema.KindNumber:
		return "number"
	case jsonschema.KindBool:
		return "boolean"
	}
	return "object"
}

func fromEnum(c *Context, schema *jsonschema.Value, at string) ([]ir.Node, error) {
	enum, ok := schema.Get("enum")
	if !ok {
		return nil, nil
	}
	if !enum.IsArray() {
		return nil, fail(pointer(at, "enum"), ErrLiteralKind, "enum must be an array")
	}
	out := make([]ir.Node, 0, enum.Len())
	for i, v := range enum.Items() {
		if v.IsNull() {
			out = append(out, c.null())
			continue
		}
		n, ok := literal(v)
		if !ok {
			return nil, fail(pointer(at, "enum", strconv.Itoa(i)), ErrLiteralKind, "%ss are not supported as part of ENUM", jsType(v))
		}
		out = append(out, n)
	}
	return union(out), nil
}

func fromConst(_ *Context, schema *jsonschema.Value, at string) ([]ir.Node, error) {
	v, ok := schema.Get("const")
	if !ok {
		return nil, nil
	}
	n, ok := literal(v)
	if !ok {
		return nil, fail(pointer(at, "const"), ErrLiteralKind, "%ss are not supported as part of CONST", jsType(v))
	}
	return []ir.Node{n}, nil
}

func compileAll(c *Context, schema *jsonschema.Value, keyword, at string) ([]ir.Node, error) {
	list, ok := schema.Get(keyword)
	if !ok {
		return nil, nil
	}
	if !list.IsArray() {
		return nil, fail(pointer(at, keyword), ErrUnrepresentable, "%s must be an array", keyword)
	}
	out := make([]ir.Node, 0, list.Len())
	for i, s := range list.Items() {
		n, err := c.CompileAt(s, false, pointer(at, keyword, strconv.Itoa(i)))
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, nil
}

func fromAllOf(c *Context, schema *jsonschema.Value, at string) ([]ir.Node, error) {
	ns, err := compileAll(c, schema, "allOf", at)
	if err != nil {
		return nil, err
	}
	return intersection(ns), nil
}

func fromAnyOf(c *Context, schema *jsonschema.Value, at string) ([]ir.Node, error) {
	ns, err := compileAll(c, schema, "anyOf", at)
	if err != nil {
		return nil, err
	}
	return union(ns), nil
}

// fromOneOf compiles to a union like anyOf; exclusivity is not enforced.
func fromOneOf(c *Context, schema *jsonschema.Value, at string) ([]ir.Node, error) {
	ns, err := compileAll(c, schema, "oneOf", at)
	if err != nil {
		return nil, err
	}
	return union(ns), nil
}
