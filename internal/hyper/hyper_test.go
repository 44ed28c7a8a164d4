package hyper_test

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/reoring/schemats/internal/compiler"
	"github.com/reoring/schemats/internal/diag"
	"github.com/reoring/schemats/internal/hyper"
	ir "github.com/reoring/schemats/internal/ir"
	"github.com/reoring/schemats/jsonschema"
)

func newContext() (*compiler.Context, *bytes.Buffer) {
	var buf bytes.Buffer
	tr := diag.NewTracker(&buf, "api.json", zerolog.Nop())
	return compiler.NewContext(compiler.Options{}, tr, nil, zerolog.Nop()), &buf
}

func parse(t *testing.T, s string) *jsonschema.Value {
	t.Helper()
	v, err := jsonschema.Parse([]byte(s))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	return v
}

const link = `{
	"rel": "implementation",
	"href": "/items/{id}",
	"hrefSchema": {"type": "object", "properties": {"id": {"type": "string"}}, "required": ["id"]},
	"headerSchema": {"x-api-key": {"type": "string"}},
	"submissionSchema": {"type": "object", "description": "ignored"},
	"targetHints": {"allow": ["GET", "PUT"]},
	"targetSchema": {"type": "array", "items": {"type": "string"}}
}`

func names(defs []compiler.Definition) []string {
	out := make([]string, 0, len(defs))
	for _, d := range defs {
		out = append(out, d.Declaration.Name)
	}
	return out
}

func TestExpand_NoLinks(t *testing.T) {
	c, buf := newContext()
	defs, err := hyper.Expand(c, parse(t, `{"type":"string"}`))
	if err != nil || defs != nil {
		t.Fatalf("got %v, %v", defs, err)
	}
	if buf.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %s", buf.String())
	}
}

func TestExpand_Definitions(t *testing.T) {
	c, buf := newContext()
	defs, err := hyper.Expand(c, parse(t, `{"links":[`+link+`]}`))
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	want := []string{
		"_links_implementation_Href",
		"_links_implementation_HrefSchema",
		"_links_implementation_HeaderSchema",
		"_links_implementation_SubmissionSchema",
		"_links_implementation_TargetHints",
		"_links_implementation_TargetSchema",
	}
	if got := names(defs); strings.Join(got, ",") != strings.Join(want, ",") {
		t.Fatalf("names = %v", got)
	}
	for _, d := range defs {
		b, ok := d.Declaration.Type.(*ir.Brand)
		if !ok || b.Name != d.Declaration.Name || !d.Declaration.Exported {
			t.Fatalf("%s: not an exported brand: %+v", d.Declaration.Name, d.Declaration)
		}
	}
	if !c.Imports().Has(compiler.ImportIOTS) {
		t.Fatalf("io-ts import missing: %v", c.Imports().Values())
	}
	if strings.Contains(buf.String(), "WARNING") {
		t.Fatalf("unexpected warning: %s", buf.String())
	}
}

func TestExpand_Href(t *testing.T) {
	c, _ := newContext()
	defs, err := hyper.Expand(c, parse(t, `{"links":[`+link+`]}`))
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	href := defs[0]
	if *href.Meta.Title != "Href Template" || jsonschema.Encode(href.Meta.Default) != `"/items/{id}"` {
		t.Fatalf("meta = %+v", href.Meta)
	}
	inner := href.Declaration.Type.(*ir.Brand).Type
	l, ok := inner.(*ir.List)
	if !ok || l.Kind() != ir.NodeIntersection || len(l.Types) != 2 {
		t.Fatalf("inner = %#v", inner)
	}
	if lit, ok := l.Types[1].(*ir.Literal); !ok || lit.Value != "/items/{id}" {
		t.Fatalf("literal = %#v", l.Types[1])
	}
}

func TestExpand_MetaOverrides(t *testing.T) {
	c, _ := newContext()
	defs, err := hyper.Expand(c, parse(t, `{"links":[`+link+`]}`))
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	cases := []struct {
		i     int
		title string
		desc  string
	}{
		{1, "Href Variables", "Href variable format as described by hyper schema hrefSchema."},
		{2, "Request Headers", "Request headers format as described by hyper schema headerSchema."},
		{3, "Request Body", "Request body format as described by hyper schema submissionSchema."},
		{4, "Response Headers", "Response headers format as described by hyper schema targetHints."},
		{5, "Response Body", "Response body format as described by hyper schema targetschema."},
	}
	for _, tc := range cases {
		m := defs[tc.i].Meta
		if m.Title == nil || *m.Title != tc.title || m.Description == nil || *m.Description != tc.desc {
			t.Errorf("%d: title/description = %v/%v", tc.i, m.Title, m.Description)
		}
	}
}

func TestExpand_TargetHintsDefault(t *testing.T) {
	c, _ := newContext()
	defs, err := hyper.Expand(c, parse(t, `{"links":[`+link+`]}`))
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if got := jsonschema.Encode(defs[4].Meta.Default); got != `{"allow":"GET, PUT"}` {
		t.Fatalf("default = %s", got)
	}
	if !c.Helpers().Has(compiler.DefinedHelper) {
		t.Fatalf("required headers should use the Defined helper")
	}
}

func TestExpand_RelFiltering(t *testing.T) {
	t.Run("several implementations", func(t *testing.T) {
		c, buf := newContext()
		defs, err := hyper.Expand(c, parse(t, `{"links":[`+link+`,`+link+`]}`))
		if err != nil || defs != nil {
			t.Fatalf("got %v, %v", names(defs), err)
		}
		if !strings.Contains(buf.String(), `WARNING: found several links where rel="implementation"`) {
			t.Fatalf("diagnostics = %s", buf.String())
		}
	})
	t.Run("other rels", func(t *testing.T) {
		c, buf := newContext()
		defs, err := hyper.Expand(c, parse(t, `{"links":[{"rel":"self","href":"/"},`+link+`]}`))
		if err != nil || len(defs) != 6 {
			t.Fatalf("got %v, %v", names(defs), err)
		}
		if !strings.Contains(buf.String(), `only hyper schema links with rel="implementation" are supported at the moment`) {
			t.Fatalf("diagnostics = %s", buf.String())
		}
	})
	t.Run("no implementation", func(t *testing.T) {
		c, buf := newContext()
		defs, err := hyper.Expand(c, parse(t, `{"links":[{"rel":"self","href":"/"}]}`))
		if err != nil || defs != nil {
			t.Fatalf("got %v, %v", names(defs), err)
		}
		if c.Tracker().Level() != diag.LevelWarning || buf.Len() == 0 {
			t.Fatalf("level = %v", c.Tracker().Level())
		}
	})
}

func TestExpand_Errors(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want error
	}{
		{"bad template", `{"links":[{"rel":"implementation","href":"/items/{id"}]}`, hyper.ErrHrefTemplate},
		{"missing href", `{"links":[{"rel":"implementation"}]}`, hyper.ErrLinkMember},
		{"href not string", `{"links":[{"rel":"implementation","href":1}]}`, hyper.ErrLinkMember},
		{"links not array", `{"links":{}}`, hyper.ErrLinkMember},
		{"missing target schema", `{"links":[{"rel":"implementation","href":"/","hrefSchema":true,` +
			`"headerSchema":{},"submissionSchema":true,"targetHints":{}}]}`, hyper.ErrLinkMember},
		{"hint not array", `{"links":[{"rel":"implementation","href":"/","hrefSchema":true,` +
			`"headerSchema":{},"submissionSchema":true,"targetHints":{"allow":"GET"}}]}`, hyper.ErrLinkMember},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, _ := newContext()
			if _, err := hyper.Expand(c, parse(t, tc.in)); !errors.Is(err, tc.want) {
				t.Fatalf("got %v, want %v", err, tc.want)
			}
		})
	}
}

func TestExpand_MetaErrorLocated(t *testing.T) {
	c, _ := newContext()
	in := `{"links":[{"rel":"implementation","href":"/","hrefSchema":true,"headerSchema":{},` +
		`"submissionSchema":true,"targetHints":{},"targetSchema":{"type":"string","title":5}}]}`
	_, err := hyper.Expand(c, parse(t, in))
	if !errors.Is(err, compiler.ErrMeta) {
		t.Fatalf("got %v, want ErrMeta", err)
	}
	var ce *compiler.Error
	if !errors.As(err, &ce) || ce.Path != "/links/0/targetSchema/title" {
		t.Fatalf("path = %v, want /links/0/targetSchema/title", err)
	}
}
