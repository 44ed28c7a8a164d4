package gen

import (
	ir "github.com/reoring/schemats/internal/ir"
)

type templates = map[ir.NodeKind]func(n ir.Node) template

func constant(s string) func(ir.Node) template {
	return func(ir.Node) template { return leaf(s) }
}

// staticDialect prints TypeScript static types.
var staticDialect = &dialect{name: "static", templates: templates{
	ir.NodeString:        constant("string"),
	ir.NodeNumber:        constant("number"),
	ir.NodeBoolean:       constant("boolean"),
	ir.NodeNull:          constant("null"),
	ir.NodeUnknown:       constant("unknown"),
	ir.NodeNever:         constant("never"),
	ir.NodeUnknownArray:  constant("Array<unknown>"),
	ir.NodeUnknownRecord: constant("Record<string, unknown>"),
	ir.NodeLiteral: func(n ir.Node) template {
		return leaf(literalText(n.(*ir.Literal).Value))
	},
	ir.NodeInterface: func(n ir.Node) template {
		return fields("{", n.(*ir.Object).Properties, false, true, "}")
	},
	ir.NodePartial: func(n ir.Node) template {
		return fields("{", n.(*ir.Object).Properties, true, true, "}")
	},
	ir.NodeStrict: func(n ir.Node) template {
		return fields("{", n.(*ir.Object).Properties, false, true, "}")
	},
	ir.NodeExact: func(n ir.Node) template {
		return wrap("", n.(*ir.Wrapper).Type, "")
	},
	ir.NodeReadonly: func(n ir.Node) template {
		return wrap("Readonly<", n.(*ir.Wrapper).Type, ">")
	},
	ir.NodeArray: func(n ir.Node) template {
		return wrap("Array<", n.(*ir.Wrapper).Type, ">")
	},
	ir.NodeReadonlyArray: func(n ir.Node) template {
		return wrap("ReadonlyArray<", n.(*ir.Wrapper).Type, ">")
	},
	ir.NodeTuple: func(n ir.Node) template {
		return list("[", n.(*ir.List).Types, "", ",", "]")
	},
	ir.NodeRecord: func(n ir.Node) template {
		r := n.(*ir.Record)
		return pair("Record<", r.Domain, ", ", r.Codomain, ">")
	},
	ir.NodeUnion: func(n ir.Node) template {
		return list("(", n.(*ir.List).Types, "| ", "", ")")
	},
	ir.NodeTaggedUnion: func(n ir.Node) template {
		return list("(", n.(*ir.List).Types, "| ", "", ")")
	},
	ir.NodeIntersection: func(n ir.Node) template {
		return list("(", n.(*ir.List).Types, "& ", "", ")")
	},
	ir.NodeKeyof: func(n ir.Node) template {
		return keys("(", n.(*ir.Keyof).Values, func(k string) string { return "| " + escapeString(k) }, "", ")")
	},
	ir.NodeIdentifier: func(n ir.Node) template {
		return leaf(n.(*ir.Identifier).Name)
	},
	ir.NodeCustom: func(n ir.Node) template {
		return leaf(n.(*ir.Custom).Static)
	},
	ir.NodeBrand: func(n ir.Node) template {
		b := n.(*ir.Brand)
		return wrap("t.Branded<", b.Type, ", "+brandName(b)+">")
	},
}}

// decoderDialect prints the io-ts codec type of a runtime value (the "C"
// types). It must pick the same layout as staticDialect for every kind.
var decoderDialect = &dialect{name: "decoder", templates: templates{
	ir.NodeString:        constant("t.StringC"),
	ir.NodeNumber:        constant("t.NumberC"),
	ir.NodeBoolean:       constant("t.BooleanC"),
	ir.NodeNull:          constant("t.NullC"),
	ir.NodeUnknown:       constant("t.UnknownC"),
	ir.NodeNever:         constant("t.NeverC"),
	ir.NodeUnknownArray:  constant("t.UnknownArrayC"),
	ir.NodeUnknownRecord: constant("t.UnknownRecordC"),
	ir.NodeLiteral: func(n ir.Node) template {
		return leaf("t.LiteralC<" + literalText(n.(*ir.Literal).Value) + ">")
	},
	ir.NodeInterface: func(n ir.Node) template {
		return fields("t.TypeC<{", n.(*ir.Object).Properties, false, false, "}>")
	},
	ir.NodePartial: func(n ir.Node) template {
		return fields("t.PartialC<{", n.(*ir.Object).Properties, false, false, "}>")
	},
	ir.NodeStrict: func(n ir.Node) template {
		return fields("t.ExactC<t.TypeC<{", n.(*ir.Object).Properties, false, false, "}>>")
	},
	ir.NodeExact: func(n ir.Node) template {
		return wrap("t.ExactC<", n.(*ir.Wrapper).Type, ">")
	},
	ir.NodeReadonly: func(n ir.Node) template {
		return wrap("t.ReadonlyC<", n.(*ir.Wrapper).Type, ">")
	},
	ir.NodeArray: func(n ir.Node) template {
		return wrap("t.ArrayC<", n.(*ir.Wrapper).Type, ">")
	},
	ir.NodeReadonlyArray: func(n ir.Node) template {
		return wrap("t.ReadonlyArrayC<", n.(*ir.Wrapper).Type, ">")
	},
	ir.NodeTuple: func(n ir.Node) template {
		return list("t.TupleC<[", n.(*ir.List).Types, "", ",", "]>")
	},
	ir.NodeRecord: func(n ir.Node) template {
		r := n.(*ir.Record)
		return pair("t.RecordC<", r.Domain, ", ", r.Codomain, ">")
	},
	ir.NodeUnion: func(n ir.Node) template {
		return list("t.UnionC<[", n.(*ir.List).Types, "", ",", "]>")
	},
	ir.NodeTaggedUnion: func(n ir.Node) template {
		return list("t.UnionC<[", n.(*ir.List).Types, "", ",", "]>")
	},
	ir.NodeIntersection: func(n ir.Node) template {
		return list("t.IntersectionC<[", n.(*ir.List).Types, "", ",", "]>")
	},
	ir.NodeKeyof: func(n ir.Node) template {
		return keys("t.KeyofC<{", n.(*ir.Keyof).Values, func(k string) string { return escapePropertyKey(k) + ": unknown" }, ",", "}>")
	},
	ir.NodeIdentifier: func(n ir.Node) template {
		return leaf(n.(*ir.Identifier).Name + "C")
	},
	ir.NodeCustom: func(n ir.Node) template {
		return leaf("typeof " + n.(*ir.Custom).Runtime)
	},
	ir.NodeBrand: func(n ir.Node) template {
		b := n.(*ir.Brand)
		return wrap("t.BrandC<", b.Type, ", "+brandName(b)+">")
	},
}}

// runtimeDialect prints io-ts runtime values.
var runtimeDialect = &dialect{name: "runtime", templates: templates{
	ir.NodeString:        constant("t.string"),
	ir.NodeNumber:        constant("t.number"),
	ir.NodeBoolean:       constant("t.boolean"),
	ir.NodeNull:          constant("t.null"),
	ir.NodeUnknown:       constant("t.unknown"),
	ir.NodeNever:         constant("t.never"),
	ir.NodeUnknownArray:  constant("t.UnknownArray"),
	ir.NodeUnknownRecord: constant("t.UnknownRecord"),
	ir.NodeLiteral: func(n ir.Node) template {
		return leaf("t.literal(" + literalText(n.(*ir.Literal).Value) + ")")
	},
	ir.NodeInterface: func(n ir.Node) template {
		return fields("t.type({", n.(*ir.Object).Properties, false, false, "})")
	},
	ir.NodePartial: func(n ir.Node) template {
		return fields("t.partial({", n.(*ir.Object).Properties, false, false, "})")
	},
	ir.NodeStrict: func(n ir.Node) template {
		return fields("t.strict({", n.(*ir.Object).Properties, false, false, "})")
	},
	ir.NodeExact: func(n ir.Node) template {
		return wrap("t.exact(", n.(*ir.Wrapper).Type, ")")
	},
	ir.NodeReadonly: func(n ir.Node) template {
		return wrap("t.readonly(", n.(*ir.Wrapper).Type, ")")
	},
	ir.NodeArray: func(n ir.Node) template {
		return wrap("t.array(", n.(*ir.Wrapper).Type, ")")
	},
	ir.NodeReadonlyArray: func(n ir.Node) template {
		return wrap("t.readonlyArray(", n.(*ir.Wrapper).Type, ")")
	},
	ir.NodeTuple: func(n ir.Node) template {
		return list("t.tuple([", n.(*ir.List).Types, "", ",", "])")
	},
	ir.NodeRecord: func(n ir.Node) template {
		r := n.(*ir.Record)
		return pair("t.record(", r.Domain, ", ", r.Codomain, ")")
	},
	ir.NodeUnion: func(n ir.Node) template {
		return list("t.union([", n.(*ir.List).Types, "", ",", "])")
	},
	ir.NodeTaggedUnion: func(n ir.Node) template {
		return list("t.union([", n.(*ir.List).Types, "", ",", "])")
	},
	ir.NodeIntersection: func(n ir.Node) template {
		return list("t.intersection([", n.(*ir.List).Types, "", ",", "])")
	},
	ir.NodeKeyof: func(n ir.Node) template {
		return keys("t.keyof({", n.(*ir.Keyof).Values, func(k string) string { return escapePropertyKey(k) + ": null" }, ",", "})")
	},
	ir.NodeIdentifier: func(n ir.Node) template {
		return leaf(n.(*ir.Identifier).Name)
	},
	ir.NodeCustom: func(n ir.Node) template {
		return leaf(n.(*ir.Custom).Runtime)
	},
	ir.NodeBrand: func(n ir.Node) template {
		b := n.(*ir.Brand)
		predicate := func(i int) string {
			return "(x): x is t.Branded<" + staticDialect.print(b.Type, i) + ", " + brandName(b) + "> => " + b.Predicate("x")
		}
		name := escapeString(b.Name)
		return template{layout: layoutBlock, open: "t.brand(", close: ")", sep: ",", elements: []element{
			{node: b.Type},
			{text: predicate},
			{text: func(int) string { return name }},
		}}
	},
}}

// PrintStatic renders the static TypeScript type of n.
func PrintStatic(n ir.Node) string { return staticDialect.print(n, 0) }

// PrintRuntime renders the io-ts runtime value of n.
func PrintRuntime(n ir.Node) string { return runtimeDialect.print(n, 0) }

// PrintC renders the io-ts codec type of the runtime value of n.
func PrintC(n ir.Node) string { return decoderDialect.print(n, 0) }
