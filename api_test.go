package schemats_test

import (
	"bytes"
	"errors"
	"slices"
	"strings"
	"testing"

	"github.com/reoring/schemats"
	"github.com/reoring/schemats/jsonschema"
)

const draft07 = `"$schema": "http://json-schema.org/draft-07/schema#"`

func parse(t *testing.T, s string) *jsonschema.Value {
	t.Helper()
	v, err := jsonschema.Parse([]byte(s))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	return v
}

func generate(t *testing.T, s string, opts schemats.Options) (*schemats.Module, string) {
	t.Helper()
	var stderr bytes.Buffer
	m, err := schemats.Generate(parse(t, s), opts, &stderr)
	if err != nil {
		t.Fatalf("generate: %v\n%s", err, stderr.String())
	}
	return m, stderr.String()
}

func text(m *schemats.Module) string {
	var b strings.Builder
	if _, err := m.WriteTo(&b); err != nil {
		panic(err)
	}
	return b.String()
}

func TestGenerate_Layout(t *testing.T) {
	m, stderr := generate(t, `{
		`+draft07+`,
		"$id": "https://example.com/y.json",
		"title": "T",
		"description": "D",
		"type": "string"
	}`, schemats.Options{InputFile: "schemas/y.json"})
	if stderr != "" {
		t.Fatalf("unexpected diagnostics: %s", stderr)
	}
	want := strings.Join([]string{
		"/*",
		"",
		"T",
		"D",
		"",
		"!!! AUTO GENERATED BY SCHEMATS REFRAIN FROM MANUAL EDITING !!!",
		"See https://github.com/reoring/schemats",
		"",
		"*/",
		"",
		"import * as t from 'io-ts';",
		"",
		"",
		"export const schemaId = 'https://example.com/y.json';",
		"",
		"// Y",
		"// The default export. More information at the top.",
		"export type Y = t.Branded<string, YBrand>",
		"export type YC = t.BrandC<t.StringC, YBrand>",
		"export interface YBrand {",
		"  readonly Y: unique symbol",
		"}",
		"export const Y: YC = t.brand(",
		"  t.string,",
		"  (x): x is t.Branded<string, YBrand> => true,",
		"  'Y'",
		")",
		"",
		"export default Y;",
		"",
		"// Success",
		"",
	}, "\n")
	if got := text(m); got != want {
		t.Fatalf("module mismatch\n--- got ---\n%s\n--- want ---\n%s", got, want)
	}
}

func TestGenerate_HeaderUndefined(t *testing.T) {
	m, _ := generate(t, `{`+draft07+`, "type": "number"}`, schemats.Options{InputFile: "n.json"})
	lines := slices.Collect(m.Lines())
	if lines[2] != "undefined" || lines[3] != "undefined" {
		t.Fatalf("header = %q", lines[:5])
	}
	if !slices.Contains(lines, "export const schemaId = 'undefined';") {
		t.Fatalf("schemaId missing: %v", lines)
	}
}

func TestGenerate_Primitives(t *testing.T) {
	cases := []struct {
		typ, want string
	}{
		{`"string"`, "export type Root = t.Branded<string, RootBrand>"},
		{`"number"`, "export type Root = t.Branded<number, RootBrand>"},
		{`"integer"`, "export type Root = t.Branded<number, RootBrand>"},
		{`"boolean"`, "export type Root = t.Branded<boolean, RootBrand>"},
		{`"null"`, "export type Root = t.Branded<null, RootBrand>"},
	}
	for _, tc := range cases {
		m, _ := generate(t, `{`+draft07+`, "type": `+tc.typ+`}`, schemats.Options{InputFile: "root.json"})
		if !slices.Contains(slices.Collect(m.Lines()), tc.want) {
			t.Errorf("%s: %q not found in\n%s", tc.typ, tc.want, text(m))
		}
	}
}

func TestGenerate_MissingSchema(t *testing.T) {
	in := `{"type": "string"}`
	m, stderr := generate(t, in, schemats.Options{InputFile: "in.json"})
	if stderr != "WARNING: missing $schema declaration\n  in in.json\n" {
		t.Fatalf("stderr = %q", stderr)
	}
	lines := slices.Collect(m.Lines())
	if lines[len(lines)-1] != schemats.SuccessMarker {
		t.Fatalf("last line = %q", lines[len(lines)-1])
	}
	if n := m.Issues().Count(schemats.SeverityWarning); n != 1 {
		t.Fatalf("warnings = %d", n)
	}

	var buf bytes.Buffer
	m, err := schemats.Generate(parse(t, in), schemats.Options{InputFile: "in.json", Strict: true}, &buf)
	if !errors.Is(err, schemats.ErrWarnings) || m != nil {
		t.Fatalf("strict: got %v, %v", m, err)
	}
}

func TestGenerate_Constants(t *testing.T) {
	m, _ := generate(t, `{
		`+draft07+`,
		"definitions": {
			"price": {
				"description": "cents",
				"type": "integer",
				"minimum": 0,
				"maximum": 100,
				"default": 5,
				"examples": [1, 2],
				"invalid": {"LTE=": "negative"}
			}
		},
		"type": "object",
		"properties": {"price": {"$ref": "#/definitions/price"}}
	}`, schemats.Options{InputFile: "shop.json"})
	lines := slices.Collect(m.Lines())
	for _, want := range []string{
		"import { NonEmptyArray } from 'fp-ts/lib/NonEmptyArray';",
		"import { nonEmptyArray } from 'io-ts-types/lib/nonEmptyArray';",
		"/** require('io-ts-validator').validator(nonEmptyArray(Price)).decodeSync(examplesPrice) // => examplesPrice */",
		"export const examplesPrice: NonEmptyArray<Price> = [1,2] as unknown as NonEmptyArray<Price>;",
		"// NEGATIVE Test Case: negative",
		"/** require('io-ts-validator').validator(Price).decodeEither(-1)._tag // => 'Left' */",
		"/** require('io-ts-validator').validator(Price).decodeSync(defaultPrice) // => defaultPrice */",
		"export const defaultPrice: Price = 5 as unknown as Price;",
		"/** require('io-ts-validator').validator(Price).decodeSync(minimumPrice) // => minimumPrice */",
		"export const minimumPrice: Price = 0 as unknown as Price;",
		"/** require('io-ts-validator').validator(Price).decodeSync(maximumPrice) // => maximumPrice */",
		"export const maximumPrice: Price = 100 as unknown as Price;",
		"// Price",
		"// cents",
	} {
		if !slices.Contains(lines, want) {
			t.Errorf("missing line %q", want)
		}
	}
	// Price is declared before the root that refers to it.
	if got := m.Names(); !slices.Equal(got, []string{"Price", "Shop"}) {
		t.Fatalf("names = %v", got)
	}
}

func TestGenerate_ConstantsKeepHTMLCharacters(t *testing.T) {
	m, _ := generate(t, `{
		`+draft07+`,
		"description": "tag",
		"type": "string",
		"pattern": "^<[a-z]+>$",
		"examples": ["<b>"],
		"default": "<i>"
	}`, schemats.Options{InputFile: "tag.json"})
	out := text(m)
	for _, want := range []string{
		`export const examplesTag: NonEmptyArray<Tag> = ["<b>"] as unknown as NonEmptyArray<Tag>;`,
		`export const defaultTag: Tag = "<i>" as unknown as Tag;`,
		`RegExp("^<[a-z]+>$")`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in\n%s", want, out)
		}
	}
	if strings.Contains(out, `\u003c`) {
		t.Errorf("HTML characters escaped:\n%s", out)
	}
}

func TestGenerate_MissingDescriptionInfo(t *testing.T) {
	_, stderr := generate(t, `{`+draft07+`, "definitions": {"a": {"type": "string"}}, "type": "string"}`,
		schemats.Options{InputFile: "x.json"})
	if strings.Count(stderr, "INFO: missing description") != 1 {
		t.Fatalf("stderr = %q", stderr)
	}
}

func TestGenerate_DependencyOrder(t *testing.T) {
	m, _ := generate(t, `{
		`+draft07+`,
		"definitions": {
			"a": {"$ref": "#/definitions/b"},
			"b": {"type": "string"},
			"c": {"type": "array", "items": {"$ref": "#/definitions/a"}}
		},
		"type": "string"
	}`, schemats.Options{InputFile: "root.json"})
	if got := m.Names(); !slices.Equal(got, []string{"B", "A", "C", "Root"}) {
		t.Fatalf("names = %v", got)
	}
}

func TestGenerate_NamingClash(t *testing.T) {
	m, stderr := generate(t, `{`+draft07+`, "definitions": {"foo": {"type": "string"}}, "type": "number"}`,
		schemats.Options{InputFile: "foo.json"})
	if !strings.Contains(stderr, "WARNING: naming clash, ignoring default export") {
		t.Fatalf("stderr = %q", stderr)
	}
	out := text(m)
	if strings.Contains(out, "export default") || !slices.Equal(m.Names(), []string{"Foo"}) {
		t.Fatalf("default export emitted:\n%s", out)
	}
}

func TestGenerate_Refs(t *testing.T) {
	m, _ := generate(t, `{
		`+draft07+`,
		"type": "object",
		"properties": {
			"ext": {"$ref": "other.json#/definitions/Foo"},
			"loc": {"$ref": "#/definitions/bar"}
		},
		"definitions": {"bar": {"type": "boolean", "description": "b"}}
	}`, schemats.Options{InputFile: "root.json"})
	out := text(m)
	for _, want := range []string{
		"import * as Other_ from './other';",
		"  ext?: Other_.Foo,",
		"  loc?: Bar",
		"  ext: typeof Other_.Foo,",
		"  loc: typeof Bar",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in\n%s", want, out)
		}
	}
	if got := m.Names(); !slices.Equal(got, []string{"Bar", "Root"}) {
		t.Fatalf("names = %v", got)
	}
}

func TestGenerate_ImportMappingAndHash(t *testing.T) {
	m, _ := generate(t, `{`+draft07+`, "type": "object", "properties": {"p": {"$ref": "https://types.example.com/geo/point.json#/definitions/Point"}}}`,
		schemats.Options{
			InputFile:        "root.json",
			DocumentURI:      "https://api.example.com/v1/root.json",
			Base:             "https://api.example.com/",
			Import:           []string{"https://types.example.com/^@example/types/"},
			ImportHashLength: 4,
		})
	var imp string
	for l := range m.Lines() {
		if strings.HasPrefix(l, "import * as Point_") {
			imp = l
		}
	}
	if !strings.HasSuffix(imp, " from '@example/types/geo/point';") || len(strings.Fields(imp)[3]) != len("Point_")+5 {
		t.Fatalf("import = %q", imp)
	}
}

func TestGenerate_BadImportMapping(t *testing.T) {
	_, err := schemats.Generate(parse(t, `true`), schemats.Options{Import: []string{"no-separator"}}, nil)
	if !errors.Is(err, schemats.ErrImportMapping) {
		t.Fatalf("got %v", err)
	}
}

func TestGenerate_HardFailures(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want error
		path string
	}{
		{"open tuple", `{"definitions": {"pair": {"type": "array", "items": [{"type": "string"}, {"type": "number"}]}}}`,
			schemats.ErrOpenTuple, "/definitions/pair/items"},
		{"properties without type", `{"properties": {"a": {"type": "string"}}}`,
			schemats.ErrObjectKeyword, "/properties"},
		{"items without type", `{"definitions": {"l": {"items": {"type": "string"}}}}`,
			schemats.ErrArrayKeyword, "/definitions/l/items"},
		{"object enum", `{"enum": [{"a": 1}]}`, schemats.ErrLiteralKind, "/enum/0"},
		{"array const", `{"const": [1]}`, schemats.ErrLiteralKind, "/const"},
		{"unrepresentable", `{"not": {}}`, schemats.ErrUnrepresentable, ""},
		{"non-string title", `{"definitions": {"a": {"type": "string", "title": 5, "description": 7}}}`,
			schemats.ErrMeta, "/definitions/a/title"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var stderr bytes.Buffer
			m, err := schemats.Generate(parse(t, tc.in), schemats.Options{InputFile: "x.json"}, &stderr)
			if !errors.Is(err, tc.want) || m != nil {
				t.Fatalf("got %v, %v; want %v", m, err, tc.want)
			}
			iss, ok := schemats.AsIssue(err)
			if !ok || iss.Path != tc.path || iss.Severity != schemats.SeverityError {
				t.Fatalf("issue = %+v, %v", iss, ok)
			}
		})
	}
}

func TestGenerate_ClosedTuple(t *testing.T) {
	m, _ := generate(t, `{`+draft07+`, "type": "array", "items": [{"type": "string"}, {"type": "number"}], "additionalItems": false}`,
		schemats.Options{InputFile: "pair.json"})
	out := text(m)
	if !strings.Contains(out, "export type Pair = t.Branded<[\n  string,\n  number\n], PairBrand>") {
		t.Fatalf("tuple missing:\n%s", out)
	}
}

func TestGenerate_MalformedRef(t *testing.T) {
	var stderr bytes.Buffer
	m, err := schemats.Generate(parse(t, `{
		`+draft07+`,
		"definitions": {"a": {"$ref": "other.json#/definitions/Foo/bar"}, "b": {"$ref": "x#y#z"}}
	}`), schemats.Options{InputFile: "bad.json"}, &stderr)
	if m != nil || !errors.Is(err, schemats.ErrErrors) || !errors.Is(err, schemats.ErrMalformedRef) {
		t.Fatalf("got %v, %v", m, err)
	}
	if n := strings.Count(stderr.String(), "ERROR: Failed to parse reference\n  in bad.json\n"); n != 2 {
		t.Fatalf("stderr = %q", stderr.String())
	}
}

func TestGenerate_RootRef(t *testing.T) {
	var stderr bytes.Buffer
	_, err := schemats.Generate(parse(t, `{`+draft07+`, "$ref": "other.json"}`), schemats.Options{InputFile: "r.json"}, &stderr)
	if !errors.Is(err, schemats.ErrErrors) {
		t.Fatalf("got %v", err)
	}
	if !strings.Contains(stderr.String(), "ERROR: schema root can not be a $ref object") {
		t.Fatalf("stderr = %q", stderr.String())
	}
}

func TestGenerate_MaskNull(t *testing.T) {
	m, _ := generate(t, `{
		`+draft07+`,
		"definitions": {
			"a": {"description": "a", "enum": [null, "x"]},
			"b": {"description": "b", "enum": [null, 1]}
		},
		"type": "string"
	}`, schemats.Options{InputFile: "root.json", MaskNull: true})
	out := text(m)
	if n := strings.Count(out, "export const Null: NullC"); n != 1 {
		t.Fatalf("null helper emitted %d times:\n%s", n, out)
	}
	if strings.Contains(out, "t.null") {
		t.Fatalf("plain null emitted:\n%s", out)
	}
	if !strings.Contains(out, "t.union([\n    Null,\n    t.literal('x')\n  ])") {
		t.Fatalf("masked union missing:\n%s", out)
	}
}

func TestGenerate_HyperLinks(t *testing.T) {
	const link = `{
		"rel": "implementation",
		"href": "/users/{id}",
		"hrefSchema": {"type": "object", "properties": {"id": {"type": "string"}}},
		"headerSchema": {},
		"submissionSchema": true,
		"targetHints": {},
		"targetSchema": {"type": "string"}
	}`
	m, _ := generate(t, `{`+draft07+`, "type": "string", "links": [`+link+`]}`, schemats.Options{InputFile: "user.json"})
	want := []string{
		"User",
		"_links_implementation_Href",
		"_links_implementation_HrefSchema",
		"_links_implementation_HeaderSchema",
		"_links_implementation_SubmissionSchema",
		"_links_implementation_TargetHints",
		"_links_implementation_TargetSchema",
	}
	if got := m.Names(); !slices.Equal(got, want) {
		t.Fatalf("names = %v", got)
	}

	m, stderr := generate(t, `{`+draft07+`, "type": "string", "links": [`+link+`,`+link+`]}`, schemats.Options{InputFile: "user.json"})
	if got := m.Names(); !slices.Equal(got, []string{"User"}) {
		t.Fatalf("names = %v", got)
	}
	if !strings.Contains(stderr, `WARNING: found several links where rel="implementation"`) {
		t.Fatalf("stderr = %q", stderr)
	}
}

func TestGenerate_BadHref(t *testing.T) {
	_, err := schemats.Generate(parse(t, `{"links": [{"rel": "implementation", "href": "/u/{id"}]}`), schemats.Options{}, nil)
	if !errors.Is(err, schemats.ErrHrefTemplate) {
		t.Fatalf("got %v", err)
	}
}

func TestGenerate_BadNegativeExample(t *testing.T) {
	_, err := schemats.Generate(parse(t, `{"definitions": {"a": {"type": "string", "invalid": {"%%%": "x"}}}}`),
		schemats.Options{InputFile: "x.json"}, nil)
	if !errors.Is(err, schemats.ErrNegativeExample) {
		t.Fatalf("got %v", err)
	}
}

func TestModule_LinesStopEarly(t *testing.T) {
	m, _ := generate(t, `{`+draft07+`, "type": "string"}`, schemats.Options{InputFile: "s.json"})
	n := 0
	for range m.Lines() {
		n++
		if n == 3 {
			break
		}
	}
	if n != 3 {
		t.Fatalf("n = %d", n)
	}
}

func TestIssues_Error(t *testing.T) {
	iss := schemats.Issues{
		{Severity: schemats.SeverityWarning, Message: "a"},
		{Severity: schemats.SeverityError, Message: "b", Path: "/x"},
		{Severity: schemats.SeverityInfo, Message: "c"},
		{Severity: schemats.SeverityInfo, Message: "d"},
	}
	if got := iss.Error(); got != "WARNING: a; ERROR: b at /x; INFO: c; ... (total 4)" {
		t.Fatalf("got %q", got)
	}
	if iss.Count(schemats.SeverityInfo) != 2 {
		t.Fatalf("count = %d", iss.Count(schemats.SeverityInfo))
	}
}
