package compiler

import (
	"slices"

	"github.com/reoring/schemats/internal/checks"
	ir "github.com/reoring/schemats/internal/ir"
	"github.com/reoring/schemats/jsonschema"
)

var (
	supportedEverywhere = []string{
		"$id", "$comment", "title", "description", "definitions", "type",
		"properties", "propertyNames", "patternProperties", "required",
		"additionalProperties", "allOf", "anyOf", "oneOf", "enum", "const",
		"items", "contains", "additionalItems",
	}
	supportedAtRoot = []string{
		"$schema", "minimum", "maximum", "multipleOf", "minLength", "maxLength",
		"pattern", "regexp", "format", "minItems", "maxItems", "uniqueItems",
		"default", "examples", "invalid", "links",
	}
	supportedBelowRoot = []string{"$ref"}

	// annotations carry no shape; a schema made only of them accepts anything.
	annotations = []string{
		"$id", "$schema", "$comment", "title", "description", "definitions",
		"default", "examples", "invalid", "links",
	}
)

func supported(key string, isRoot bool) bool {
	if slices.Contains(supportedEverywhere, key) {
		return true
	}
	if isRoot {
		return slices.Contains(supportedAtRoot, key)
	}
	return slices.Contains(supportedBelowRoot, key)
}

// notImplemented warns about an unsupported keyword or keyword value.
func (c *Context) notImplemented(item, kind string) {
	msg := item + " " + kind + " not supported"
	if slices.Contains(supportedAtRoot, item) {
		msg += " outside top-level definitions"
	}
	c.Warning(msg)
}

// Compile compiles schema. isRoot marks top-level definitions, where the
// refinement keywords are admissible.
func (c *Context) Compile(schema *jsonschema.Value, isRoot bool) (ir.Node, error) {
	return c.CompileAt(schema, isRoot, "")
}

// CompileAt is Compile for a schema found at the JSON Pointer at, which is
// used to locate hard failures.
func (c *Context) CompileAt(schema *jsonschema.Value, isRoot bool, at string) (ir.Node, error) {
	if schema.IsBool() {
		c.imports.Add(ImportIOTS)
		if schema.IsTrue() {
			return ir.UnknownType, nil
		}
		return ir.NeverType, nil
	}
	if !schema.IsObject() {
		return nil, fail(at, ErrUnrepresentable, "schema is a %s", schema.Kind())
	}
	if t, ok := schema.StringAt("type"); ok && !isRoot {
		switch t {
		case "string", "number", "integer":
			c.Info(`primitive type "` + t + `" used outside top-level definitions`)
		}
	}
	for _, key := range schema.Keys() {
		if !supported(key, isRoot) {
			c.notImplemented(key, "field")
		}
	}
	isRef, err := isRefObject(schema, at)
	if err != nil {
		return nil, err
	}
	if isRef {
		return c.fromRef(schema, at)
	}
	c.imports.Add(ImportIOTS)

	var nodes []ir.Node
	for _, s := range strategies {
		ns, err := s.apply(c, schema, at)
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, ns...)
	}
	switch len(nodes) {
	case 0:
		if silent, _ := checks.Synthesize("x", schema, nil); silent != "true" || annotationsOnly(schema) {
			return ir.UnknownType, nil
		}
		return nil, fail(at, ErrUnrepresentable, "%s", jsonschema.Encode(schema))
	case 1:
		return nodes[0], nil
	}
	return ir.IntersectionCombinator(nodes...), nil
}

func annotationsOnly(schema *jsonschema.Value) bool {
	for _, k := range schema.Keys() {
		if !slices.Contains(annotations, k) {
			return false
		}
	}
	return true
}

func isRefObject(schema *jsonschema.Value, at string) (bool, error) {
	ref, ok := schema.Get("$ref")
	if !ok {
		return false, nil
	}
	if !ref.IsString() {
		return false, fail(pointer(at, "$ref"), ErrBrokenRef, "")
	}
	return true, nil
}

// Checks synthesizes the refinement predicate of schema over x and reports
// constraints that cannot be checked.
func (c *Context) Checks(x string, schema *jsonschema.Value) (string, error) {
	return checks.Synthesize(x, schema, func(msg string) { c.Warning(msg) })
}

// Predicate is Checks parameterized over the value reference. Warnings are
// reported once, here.
func (c *Context) Predicate(schema *jsonschema.Value) (func(x string) string, error) {
	if _, err := c.Checks("x", schema); err != nil {
		return nil, err
	}
	return func(x string) string {
		s, _ := checks.Synthesize(x, schema, nil)
		return s
	}, nil
}

// Brand wraps node with the refinement predicate of schema under name.
func (c *Context) Brand(name string, node ir.Node, schema *jsonschema.Value) (ir.Node, error) {
	pred, err := c.Predicate(schema)
	if err != nil {
		return nil, err
	}
	return ir.BrandCombinator(node, pred, name), nil
}

func union(nodes []ir.Node) []ir.Node {
	switch len(nodes) {
	case 0:
		return nil
	case 1:
		return nodes
	}
	return []ir.Node{ir.UnionCombinator(nodes...)}
}

func intersection(nodes []ir.Node) []ir.Node {
	switch len(nodes) {
	case 0:
		return nil
	case 1:
		return nodes
	}
	return []ir.Node{ir.IntersectionCombinator(nodes...)}
}
