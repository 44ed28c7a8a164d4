package compiler

import (
	ir "github.com/reoring/schemats/internal/ir"
	"github.com/reoring/schemats/internal/refs"
	"github.com/reoring/schemats/jsonschema"
)

// fromRef compiles a $ref object into a custom combinator naming the target
// either locally or through a module import.
func (c *Context) fromRef(schema *jsonschema.Value, at string) (ir.Node, error) {
	ref, _ := schema.StringAt("$ref")
	for _, k := range schema.Keys() {
		if k != "$ref" && k != "$comment" {
			c.Warning("unexpected key in a $ref object")
			break
		}
	}
	r, err := refs.Parse(ref)
	if err != nil {
		return c.errorNode("Failed to parse reference", err), nil
	}
	if r.Local() {
		return ir.CustomCombinator(r.VariableName, r.VariableName, r.VariableName), nil
	}
	alias, err := c.resolver.ImportName(r.FilePath, ref)
	if err != nil {
		return nil, fail(pointer(at, "$ref"), err, "import name")
	}
	c.imports.Add("import * as " + alias + " from '" + c.resolver.ImportPath(r.FilePath) + "';")
	qualified := alias + "." + r.VariableName
	return ir.CustomCombinator(qualified, qualified, alias), nil
}
