package schemats

import (
	"fmt"
	"io"

	"github.com/rs/zerolog"

	"github.com/reoring/schemats/internal/compiler"
	"github.com/reoring/schemats/internal/diag"
	"github.com/reoring/schemats/internal/hyper"
	ir "github.com/reoring/schemats/internal/ir"
	"github.com/reoring/schemats/internal/naming"
	"github.com/reoring/schemats/internal/refs"
	"github.com/reoring/schemats/jsonschema"
)

// DefaultHashAlgorithm hashes import names when ImportHashLength is set and
// ImportHashAlgorithm is not.
const DefaultHashAlgorithm = "sha256"

// Options configure one generation pass.
type Options struct {
	// Import rewrites external $ref targets: each entry is "URI^location" and
	// a target starting with URI is imported from location instead.
	Import []string
	// DocumentURI is the resolved identity of the schema; relative import
	// paths are computed from its directory.
	DocumentURI string
	// InputFile names the schema in diagnostics and derives the default
	// export name.
	InputFile string
	// Base is the URI prefix under which targets are imported by relative path.
	Base string
	// ImportHashLength appends that many hex digits of a digest of the
	// target to import names; 0 disables hashing.
	ImportHashLength    int
	ImportHashAlgorithm string
	// Strict treats warnings as fatal.
	Strict bool
	// MaskNull distinguishes null from an absent value at the type level.
	MaskNull bool
	// Logger receives debug events; the zero value discards them.
	Logger zerolog.Logger
}

// Generate compiles schema into a module. Diagnostics are written to stderr
// (which may be nil). An ERROR diagnostic fails the pass with an error
// wrapping ErrErrors; a WARNING does so with ErrWarnings in strict mode. Hard
// failures are returned as soon as they are found; AsIssue locates them.
func Generate(schema *jsonschema.Value, opts Options, stderr io.Writer) (*Module, error) {
	mappings, err := refs.ParseMappings(opts.Import)
	if err != nil {
		return nil, err
	}
	alg := opts.ImportHashAlgorithm
	if alg == "" {
		alg = DefaultHashAlgorithm
	}
	tracker := diag.NewTracker(stderr, opts.InputFile, opts.Logger)
	resolver := &refs.Resolver{
		Base:          opts.Base,
		DocumentURI:   opts.DocumentURI,
		Imports:       mappings,
		HashLength:    opts.ImportHashLength,
		HashAlgorithm: alg,
	}
	c := compiler.NewContext(compiler.Options{MaskNull: opts.MaskNull}, tracker, resolver, opts.Logger)

	defs, err := collect(c, schema, naming.FromFilePath(opts.InputFile))
	if err != nil {
		return nil, err
	}
	m, err := assemble(c, schema, defs)
	if err != nil {
		return nil, err
	}
	m.issues = issuesOf(tracker.Entries())
	if err := tracker.Err(opts.Strict); err != nil {
		return nil, err
	}
	opts.Logger.Debug().Str("file", opts.InputFile).Int("definitions", len(m.defs)).Msg("generated")
	return m, nil
}

// collect compiles the named definitions, the root and the hyper-schema
// link of schema, in that order.
func collect(c *compiler.Context, schema *jsonschema.Value, defaultExport string) ([]compiler.Definition, error) {
	var defs []compiler.Definition
	if dv, ok := schema.Get("definitions"); ok {
		if !dv.IsObject() {
			return nil, &compiler.Error{Path: "/definitions", Message: "definitions must be an object", Err: ErrUnrepresentable}
		}
		for _, m := range dv.Members() {
			d, err := c.Define(naming.FromKebab(m.Key), m.Value, "/definitions/"+escapeToken(m.Key))
			if err != nil {
				return nil, err
			}
			defs = append(defs, d)
		}
	}
	for _, d := range defs {
		if d.Declaration.Name == defaultExport {
			c.Warning("naming clash, ignoring default export")
			return defs, nil
		}
	}

	if !schema.Has("$schema") {
		c.Warning("missing $schema declaration")
	}
	c.Imports().Add(compiler.ImportIOTS)
	c.Exports().Add("export default " + defaultExport + ";")
	root, err := c.DefineRoot(defaultExport, schema)
	if err != nil {
		return nil, err
	}
	defs = append(defs, root)

	links, err := hyper.Expand(c, schema)
	if err != nil {
		return nil, err
	}
	return append(defs, links...), nil
}

func escapeToken(s string) string {
	b := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '~':
			b = append(b, '~', '0')
		case '/':
			b = append(b, '~', '1')
		default:
			b = append(b, s[i])
		}
	}
	return string(b)
}

// assemble orders defs by dependency and renders each into its block.
func assemble(c *compiler.Context, schema *jsonschema.Value, defs []compiler.Definition) (*Module, error) {
	metas := make(map[string]compiler.Meta, len(defs))
	decls := make([]ir.TypeDeclaration, 0, len(defs))
	for _, d := range defs {
		metas[d.Declaration.Name] = d.Meta
		decls = append(decls, d.Declaration)
	}

	m := &Module{
		title:       headerText(schema, "title"),
		description: headerText(schema, "description"),
		schemaID:    headerText(schema, "$id"),
	}
	for _, decl := range ir.Sort(decls) {
		b, err := newBlock(decl, metas[decl.Name])
		if err != nil {
			return nil, fmt.Errorf("%s: %w", decl.Name, err)
		}
		if metas[decl.Name].Description == nil {
			c.Info("missing description")
		}
		if b.examples != "" {
			c.Imports().Add(compiler.ImportNonEmptyArray)
			c.Imports().Add(compiler.ImportNonEmptyCodec)
		}
		m.defs = append(m.defs, b)
	}
	m.imports = c.Imports().Values()
	m.helpers = c.Helpers().Values()
	m.exports = c.Exports().Values()
	return m, nil
}

// headerText renders a root member the way a template literal would,
// "undefined" when absent.
func headerText(schema *jsonschema.Value, key string) string {
	v, ok := schema.Get(key)
	switch {
	case !ok:
		return "undefined"
	case v.IsString():
		return v.Str()
	}
	return jsonschema.Encode(v)
}
