package gen

import (
	"strings"

	ir "github.com/reoring/schemats/internal/ir"
)

func exportPrefix(d ir.TypeDeclaration) string {
	if d.Exported {
		return "export "
	}
	return ""
}

// StaticDeclaration renders `type Name = ...` for d.
func StaticDeclaration(d ir.TypeDeclaration) string {
	s := staticDialect.print(d.Type, 0)
	if d.Readonly {
		s = "Readonly<" + s + ">"
	}
	return printDescription(d.Description, 0) + exportPrefix(d) + "type " + d.Name + " = " + s
}

// DecoderTypeDeclaration renders `type NameC = ...`, the compile-time type of
// the runtime value declared by RuntimeDeclaration. Declarations of custom
// combinators have no printable codec type and only get a marker comment.
func DecoderTypeDeclaration(d ir.TypeDeclaration) string {
	if d.Type.Kind() == ir.NodeCustom {
		return "// exists type " + d.Name + "C extends t.AnyC"
	}
	s := decoderDialect.print(d.Type, 0)
	if d.Readonly {
		s = "t.ReadonlyC<" + s + ">"
	}
	return printDescription(d.Description, 0) + exportPrefix(d) + "type " + d.Name + "C = " + s
}

// RuntimeDeclaration renders `const Name: NameC = ...` preceded by the brand
// interfaces the value refers to.
func RuntimeDeclaration(d ir.TypeDeclaration) string {
	var b strings.Builder
	for _, brand := range brands(d.Type) {
		b.WriteString(exportPrefix(d) + "interface " + brandName(brand) + " {\n")
		b.WriteString(indent(1) + "readonly " + brand.Name + ": unique symbol\n")
		b.WriteString("}\n")
	}
	s := runtimeDialect.print(d.Type, 0)
	if d.Readonly {
		s = "t.readonly(" + s + ")"
	}
	b.WriteString(exportPrefix(d) + "const " + d.Name)
	if d.Type.Kind() != ir.NodeCustom {
		b.WriteString(": " + d.Name + "C")
	}
	b.WriteString(" = " + s)
	return b.String()
}

// RuntimeDeclarations joins the codec type alias and the runtime value, the
// form emitted into generated modules.
func RuntimeDeclarations(d ir.TypeDeclaration) string {
	return DecoderTypeDeclaration(d) + "\n" + RuntimeDeclaration(d)
}

func brands(n ir.Node) []*ir.Brand {
	var out []*ir.Brand
	seen := map[string]struct{}{}
	var walk func(ir.Node)
	walk = func(n ir.Node) {
		if b, ok := n.(*ir.Brand); ok {
			if _, dup := seen[b.Name]; !dup {
				seen[b.Name] = struct{}{}
				out = append(out, b)
			}
		}
		for _, c := range ir.Children(n) {
			walk(c)
		}
	}
	walk(n)
	return out
}
