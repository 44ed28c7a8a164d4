package schemats

import (
	"bufio"
	"encoding/base64"
	"fmt"
	"io"
	"iter"

	"github.com/reoring/schemats/internal/compiler"
	"github.com/reoring/schemats/internal/gen"
	ir "github.com/reoring/schemats/internal/ir"
	"github.com/reoring/schemats/jsonschema"
)

const (
	generatedWarning = "!!! AUTO GENERATED BY SCHEMATS REFRAIN FROM MANUAL EDITING !!!"
	generatedBy      = "See https://github.com/reoring/schemats"
	mystery          = "The purpose of this remains a mystery"

	// SuccessMarker is the last line of every generated module.
	SuccessMarker = "// Success"
)

// Module is a generated TypeScript module.
type Module struct {
	title       string
	description string
	schemaID    string
	imports     []string
	helpers     []string
	exports     []string
	defs        []block
	issues      Issues
}

// negative is a decoded invalid example.
type negative struct {
	source      string
	description string
}

// block holds the rendered lines of one definition.
type block struct {
	name        string
	title       string
	description string
	static      string
	runtime     string
	examples    string // encoded array, "" when there are none
	negatives   []negative
	constants   []constant
}

// constant is a default or boundary value binding.
type constant struct {
	prefix string
	value  string
}

func newBlock(decl ir.TypeDeclaration, meta compiler.Meta) (block, error) {
	b := block{
		name:        decl.Name,
		title:       decl.Name,
		description: mystery,
		static:      gen.StaticDeclaration(decl),
		runtime:     gen.RuntimeDeclarations(decl),
	}
	if meta.Title != nil {
		b.title = *meta.Title
	}
	if meta.Description != nil {
		b.description = *meta.Description
	}
	if len(meta.Examples) > 0 {
		b.examples = jsonschema.Encode(jsonschema.Array(meta.Examples...))
	}
	for _, inv := range meta.Invalid {
		src, err := decodeNegative(inv.Encoded)
		if err != nil {
			return block{}, err
		}
		b.negatives = append(b.negatives, negative{source: src, description: inv.Description})
	}
	for _, c := range []struct {
		prefix string
		value  *jsonschema.Value
	}{
		{"default", meta.Default},
		{"minimum", meta.Minimum},
		{"maximum", meta.Maximum},
	} {
		if c.value != nil {
			b.constants = append(b.constants, constant{prefix: c.prefix, value: jsonschema.Encode(c.value)})
		}
	}
	return b, nil
}

// decodeNegative decodes a base64 JavaScript literal as 7-bit ASCII.
func decodeNegative(encoded string) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		raw, err = base64.RawStdEncoding.DecodeString(encoded)
	}
	if err != nil {
		return "", fmt.Errorf("%w: %q: %w", ErrNegativeExample, encoded, err)
	}
	for i := range raw {
		raw[i] &= 0x7f
	}
	return string(raw), nil
}

func validator(codec, call, name string) string {
	return "/** require('io-ts-validator').validator(" + codec + ")." + call + "(" + name + ") // => " + name + " */"
}

func (b block) lines(yield func(string) bool) bool {
	out := []string{
		"// " + b.title,
		"// " + b.description,
		b.static,
		b.runtime,
	}
	if b.examples != "" {
		name := "examples" + b.name
		out = append(out,
			validator("nonEmptyArray("+b.name+")", "decodeSync", name),
			"export const "+name+": NonEmptyArray<"+b.name+"> = "+b.examples+" as unknown as NonEmptyArray<"+b.name+">;",
		)
	}
	for _, n := range b.negatives {
		out = append(out,
			"// NEGATIVE Test Case: "+n.description,
			"/** require('io-ts-validator').validator("+b.name+").decodeEither("+n.source+")._tag // => 'Left' */",
		)
	}
	for _, c := range b.constants {
		name := c.prefix + b.name
		out = append(out,
			validator(b.name, "decodeSync", name),
			"export const "+name+": "+b.name+" = "+c.value+" as unknown as "+b.name+";",
		)
	}
	out = append(out, "")
	for _, l := range out {
		if !yield(l) {
			return false
		}
	}
	return true
}

// Lines yields the module text one line at a time, without line terminators.
// Generated text may itself contain newlines (multi-line declarations).
func (m *Module) Lines() iter.Seq[string] {
	return func(yield func(string) bool) {
		emit := func(ls ...string) bool {
			for _, l := range ls {
				if !yield(l) {
					return false
				}
			}
			return true
		}
		if !emit("/*", "", m.title, m.description, "", generatedWarning, generatedBy, "", "*/", "") {
			return
		}
		if !emit(m.imports...) || !emit("") || !emit(m.helpers...) || !emit("") {
			return
		}
		if !emit("export const schemaId = '"+m.schemaID+"';", "") {
			return
		}
		for _, b := range m.defs {
			if !b.lines(yield) {
				return
			}
		}
		if !emit(m.exports...) {
			return
		}
		emit("", SuccessMarker)
	}
}

// Names returns the declaration names in emission order.
func (m *Module) Names() []string {
	out := make([]string, 0, len(m.defs))
	for _, b := range m.defs {
		out = append(out, b.name)
	}
	return out
}

// Issues returns the diagnostics reported while generating m.
func (m *Module) Issues() Issues { return append(Issues(nil), m.issues...) }

// WriteTo writes every line of m followed by a newline.
func (m *Module) WriteTo(w io.Writer) (int64, error) {
	bw := bufio.NewWriter(w)
	var n int64
	for l := range m.Lines() {
		k, err := bw.WriteString(l + "\n")
		n += int64(k)
		if err != nil {
			return n, err
		}
	}
	return n, bw.Flush()
}
