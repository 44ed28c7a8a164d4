// Package schemats generates io-ts TypeScript modules from JSON Schema.
//
// Every top-level definition of a schema document (the named definitions,
// the document root and the definitions derived from a hyper-schema
// implementation link) becomes:
//
//   - a static type declaration
//   - a runtime codec and the type alias of that codec
//   - example, default and boundary constants with doctest comments
//
// Unsupported keywords are reported as INFO, WARNING or ERROR diagnostics on
// a caller supplied writer. A pass that reports an ERROR, or a WARNING in
// strict mode, produces no module.
//
// Design policy:
//   - Keep only public APIs in the root package; put the compiler under internal/.
//   - Place the CLI under cmd/schemats.
//   - Prefer black-box testing against public APIs.
//
// Typical usage:
//
//	schema, err := jsonschema.Load("schemas/user.json")
//	mod, err := schemats.Generate(schema, schemats.Options{InputFile: "schemas/user.json"}, os.Stderr)
//	_, err = mod.WriteTo(f)
package schemats
