// Package hyper expands the hyper-schema links of a root schema into extra
// top-level definitions describing one HTTP endpoint.
package hyper

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/yosida95/uritemplate/v3"

	"github.com/reoring/schemats/internal/compiler"
	ir "github.com/reoring/schemats/internal/ir"
	"github.com/reoring/schemats/jsonschema"
)

var (
	ErrHrefTemplate = errors.New("hyper: invalid href template")
	ErrLinkMember   = errors.New("hyper: missing or malformed link member")
)

// Capabilities is the part of the compiler the expander needs.
type Capabilities interface {
	CompileAt(schema *jsonschema.Value, isRoot bool, at string) (ir.Node, error)
	Predicate(schema *jsonschema.Value) (func(x string) string, error)
	ExtractMeta(schema *jsonschema.Value) (compiler.Meta, error)
	Imports() *compiler.Set
	Warning(message string)
}

// Rel is the only link relation that is expanded.
const Rel = "implementation"

// Expand returns the definitions of the single rel="implementation" link of
// root, or none when there is no such link or more than one.
func Expand(caps Capabilities, root *jsonschema.Value) ([]compiler.Definition, error) {
	lv, ok := root.Get("links")
	if !ok {
		return nil, nil
	}
	if !lv.IsArray() {
		return nil, fmt.Errorf("%w: links must be an array", ErrLinkMember)
	}
	links := lv.Items()
	first := -1
	n := 0
	for i, l := range links {
		if rel, _ := l.StringAt("rel"); rel == Rel {
			if first < 0 {
				first = i
			}
			n++
		}
	}
	if n > 1 {
		caps.Warning(`found several links where rel="implementation"`)
		return nil, nil
	}
	if n != len(links) {
		caps.Warning(`only hyper schema links with rel="implementation" are supported at the moment`)
	}
	if first < 0 {
		return nil, nil
	}
	caps.Imports().Add(compiler.ImportIOTS)
	x := &expander{caps: caps, link: links[first], at: "/links/" + strconv.Itoa(first)}
	return x.definitions()
}

type expander struct {
	caps Capabilities
	link *jsonschema.Value
	at   string
}

// section is one synthesized definition. A non-empty title replaces the
// title and description copied from the member schema.
type section struct {
	suffix string
	build  func() (*jsonschema.Value, error)
	title  string
	desc   string
}

func (x *expander) definitions() ([]compiler.Definition, error) {
	sections := []section{
		{suffix: "Href", build: x.href},
		{suffix: "HrefSchema", build: x.member("hrefSchema"), title: "Href Variables",
			desc: "Href variable format as described by hyper schema hrefSchema."},
		{suffix: "HeaderSchema", build: x.headerSchema},
		{suffix: "SubmissionSchema", build: x.member("submissionSchema"), title: "Request Body",
			desc: "Request body format as described by hyper schema submissionSchema."},
		{suffix: "TargetHints", build: x.targetHints},
		{suffix: "TargetSchema", build: x.member("targetSchema"), title: "Response Body",
			desc: "Response body format as described by hyper schema targetschema."},
	}
	out := make([]compiler.Definition, 0, len(sections))
	for _, s := range sections {
		schema, err := s.build()
		if err != nil {
			return nil, err
		}
		d, err := x.define("_links_"+Rel+"_"+s.suffix, schema, s.suffix)
		if err != nil {
			return nil, err
		}
		if s.title != "" {
			d.Meta.Title = &s.title
			d.Meta.Description = &s.desc
		}
		out = append(out, d)
	}
	return out, nil
}

func (x *expander) define(name string, schema *jsonschema.Value, suffix string) (compiler.Definition, error) {
	at := x.at + "/" + lowerFirst(suffix)
	meta, err := x.caps.ExtractMeta(schema)
	if err != nil {
		return compiler.Definition{}, compiler.PrefixPath(err, at)
	}
	node, err := x.caps.CompileAt(schema, true, at)
	if err != nil {
		return compiler.Definition{}, err
	}
	pred, err := x.caps.Predicate(schema)
	if err != nil {
		return compiler.Definition{}, err
	}
	return compiler.Definition{
		Declaration: ir.Declare(name, ir.BrandCombinator(node, pred, name)),
		Meta:        meta,
	}, nil
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}

func (x *expander) member(key string) func() (*jsonschema.Value, error) {
	return func() (*jsonschema.Value, error) {
		v, ok := x.link.Get(key)
		if !ok {
			return nil, fmt.Errorf("%w: %s/%s", ErrLinkMember, x.at, key)
		}
		return v, nil
	}
}

func (x *expander) objectMember(key string) ([]jsonschema.Member, error) {
	v, err := x.member(key)()
	if err != nil {
		return nil, err
	}
	if !v.IsObject() {
		return nil, fmt.Errorf("%w: %s/%s must be an object", ErrLinkMember, x.at, key)
	}
	return v.Members(), nil
}

func (x *expander) href() (*jsonschema.Value, error) {
	v, err := x.member("href")()
	if err != nil {
		return nil, err
	}
	if !v.IsString() {
		return nil, fmt.Errorf("%w: %s/href must be a string", ErrLinkMember, x.at)
	}
	if _, err := uritemplate.New(v.Str()); err != nil {
		return nil, fmt.Errorf("%w: %q: %w", ErrHrefTemplate, v.Str(), err)
	}
	return obj(
		"title", jsonschema.String("Href Template"),
		"description", jsonschema.String("Href body format as described by hyper schema href."),
		"type", jsonschema.String("string"),
		"const", v,
		"default", v,
	), nil
}

func (x *expander) headerSchema() (*jsonschema.Value, error) {
	props, err := x.objectMember("headerSchema")
	if err != nil {
		return nil, err
	}
	required := make([]*jsonschema.Value, 0, len(props))
	for _, p := range props {
		required = append(required, jsonschema.String(p.Key))
	}
	return headers(
		"Request Headers",
		"Request headers format as described by hyper schema headerSchema.",
		jsonschema.Object(props...),
		jsonschema.Array(required...),
	), nil
}

func (x *expander) targetHints() (*jsonschema.Value, error) {
	hints, err := x.objectMember("targetHints")
	if err != nil {
		return nil, err
	}
	props := make([]jsonschema.Member, 0, len(hints))
	values := make([]jsonschema.Member, 0, len(hints))
	required := make([]*jsonschema.Value, 0, len(hints))
	for _, h := range hints {
		if !h.Value.IsArray() {
			return nil, fmt.Errorf("%w: %s/targetHints/%s must be an array", ErrLinkMember, x.at, h.Key)
		}
		parts := make([]string, 0, h.Value.Len())
		for _, c := range h.Value.Items() {
			if c.IsString() {
				parts = append(parts, c.Str())
			} else {
				parts = append(parts, jsonschema.Encode(c))
			}
		}
		joined := jsonschema.String(strings.Join(parts, ", "))
		props = append(props, jsonschema.Member{Key: h.Key, Value: obj("type", jsonschema.String("string"), "const", joined)})
		values = append(values, jsonschema.Member{Key: h.Key, Value: joined})
		required = append(required, jsonschema.String(h.Key))
	}
	s := headers(
		"Response Headers",
		"Response headers format as described by hyper schema targetHints.",
		jsonschema.Object(props...),
		jsonschema.Array(required...),
	)
	return jsonschema.Object(append(s.Members(), jsonschema.Member{Key: "default", Value: jsonschema.Object(values...)})...), nil
}

// headers describes a string-valued header map that must contain the given
// properties.
func headers(title, description string, props, required *jsonschema.Value) *jsonschema.Value {
	return obj(
		"title", jsonschema.String(title),
		"description", jsonschema.String(description),
		"allOf", jsonschema.Array(
			obj(
				"type", jsonschema.String("object"),
				"additionalProperties", obj("type", jsonschema.String("string")),
			),
			obj(
				"type", jsonschema.String("object"),
				"properties", props,
				"required", required,
				"additionalProperties", jsonschema.Bool(true),
			),
		),
	)
}

// obj builds an object from alternating keys and values.
func obj(kv ...any) *jsonschema.Value {
	ms := make([]jsonschema.Member, 0, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		ms = append(ms, jsonschema.Member{Key: kv[i].(string), Value: kv[i+1].(*jsonschema.Value)})
	}
	return jsonschema.Object(ms...)
}
