package compiler

import (
	"errors"
	"fmt"

	ir "github.com/reoring/schemats/internal/ir"
	"github.com/reoring/schemats/jsonschema"
)

// Invalid is a negative example: the base64 encoding of a JavaScript source
// literal that must fail to decode.
type Invalid struct {
	Encoded     string
	Description string
}

// Meta is copied out of a schema when its definition is created. Absent
// values are nil.
type Meta struct {
	Title       *string
	Description *string
	Examples    []*jsonschema.Value
	Invalid     []Invalid
	Default     *jsonschema.Value
	Minimum     *jsonschema.Value
	Maximum     *jsonschema.Value
}

// Definition is one named unit of the generated module.
type Definition struct {
	Declaration ir.TypeDeclaration
	Meta        Meta
}

// ExtractMeta copies the documentation and example values of schema.
// Boolean schemas and $ref objects carry none.
func (c *Context) ExtractMeta(schema *jsonschema.Value) (Meta, error) {
	var m Meta
	if !schema.IsObject() || schema.Has("$ref") {
		return m, nil
	}
	for _, f := range []struct {
		key string
		dst **string
	}{{"title", &m.Title}, {"description", &m.Description}} {
		v, ok := schema.Get(f.key)
		if !ok {
			continue
		}
		if !v.IsString() {
			return Meta{}, fail("/"+f.key, ErrMeta, "Unexpected format of %s", f.key)
		}
		s := v.Str()
		*f.dst = &s
	}
	if ex, ok := schema.Get("examples"); ok {
		if !ex.IsArray() {
			return Meta{}, fail("/examples", ErrMeta, "Unexpected format of examples")
		}
		m.Examples = ex.Items()
	}
	if inv, ok := schema.Get("invalid"); ok {
		if !inv.IsObject() {
			return Meta{}, fail("/invalid", ErrMeta, "Unexpected format of invalid examples")
		}
		for _, e := range inv.Members() {
			if !e.Value.IsString() {
				return Meta{}, fail(pointer("/invalid", e.Key), ErrMeta, "Unexpected format of invalid example description")
			}
			m.Invalid = append(m.Invalid, Invalid{Encoded: e.Key, Description: e.Value.Str()})
		}
	}
	m.Default = schema.Lookup("default")
	m.Minimum = schema.Lookup("minimum")
	m.Maximum = schema.Lookup("maximum")
	return m, nil
}

// Define compiles a named top-level definition found at the JSON Pointer at.
// Boolean schemas and bare $ref objects skip constraint synthesis.
func (c *Context) Define(name string, schema *jsonschema.Value, at string) (Definition, error) {
	meta, err := c.ExtractMeta(schema)
	if err != nil {
		return Definition{}, PrefixPath(err, at)
	}
	var node ir.Node
	switch {
	case schema.IsBool():
		inner, _ := c.CompileAt(schema, true, at)
		verdict := fmt.Sprint(schema.IsTrue())
		node = ir.BrandCombinator(inner, func(string) string { return verdict }, name)
	case schema.IsObject() && schema.Has("$ref"):
		if _, err := isRefObject(schema, at); err != nil {
			return Definition{}, err
		}
		inner, err := c.fromRef(schema, at)
		if err != nil {
			return Definition{}, err
		}
		node = ir.BrandCombinator(inner, func(string) string { return "true" }, name)
	default:
		inner, err := c.CompileAt(schema, true, at)
		if err != nil {
			return Definition{}, err
		}
		node, err = c.Brand(name, inner, schema)
		if err != nil {
			return Definition{}, err
		}
	}
	c.logger.Debug().Str("definition", name).Str("kind", node.Kind().String()).Msg("compiled")
	return Definition{Declaration: ir.Declare(name, node), Meta: meta}, nil
}

// RootDescription replaces the description of the default export; the root
// schema's own title and description head the generated module.
const RootDescription = "The default export. More information at the top."

// DefineRoot compiles the root schema into the default export name. A root
// $ref object becomes an ERROR placeholder.
func (c *Context) DefineRoot(name string, schema *jsonschema.Value) (Definition, error) {
	meta, err := c.ExtractMeta(schema)
	if err != nil {
		return Definition{}, err
	}
	isRef, err := isRefObject(schema, "")
	if err != nil {
		return Definition{}, err
	}
	var inner ir.Node
	if isRef {
		inner = c.errorNode("schema root can not be a $ref object", nil)
	} else {
		inner, err = c.CompileAt(schema, true, "")
		if err != nil {
			return Definition{}, err
		}
	}
	node, err := c.Brand(name, inner, schema)
	if err != nil {
		return Definition{}, err
	}
	title, desc := name, RootDescription
	meta.Title, meta.Description = &title, &desc
	c.logger.Debug().Str("definition", name).Bool("root", true).Msg("compiled")
	return Definition{Declaration: ir.Declare(name, node), Meta: meta}, nil
}

// PrefixPath moves a located *Error below the JSON Pointer at. Other errors
// are returned unchanged.
func PrefixPath(err error, at string) error {
	var e *Error
	if errors.As(err, &e) {
		cp := *e
		cp.Path = at + e.Path
		return &cp
	}
	return err
}
