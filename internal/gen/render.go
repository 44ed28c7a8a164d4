package gen

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	ir "github.com/reoring/schemats/internal/ir"
)

// layout is the shape a node takes on the page. Every dialect picks a layout
// per node kind; the engine below is the only code that handles line breaks
// and indentation, so dialects sharing layouts always nest identically.
type layout int

const (
	layoutLeaf  layout = iota // text
	layoutWrap                // open child close
	layoutPair                // open child mid child close
	layoutBlock               // open NL (indent element sep NL)* indent close
)

// element is one child slot of a template.
type element struct {
	comment string
	prefix  string
	node    ir.Node
	text    func(indent int) string // used when node is nil
}

type template struct {
	layout   layout
	text     string
	open     string
	mid      string
	close    string
	sep      string
	elements []element
}

// dialect maps a node kind to its template.
type dialect struct {
	name      string
	templates map[ir.NodeKind]func(n ir.Node) template
}

func (d *dialect) template(n ir.Node) template {
	fn, ok := d.templates[n.Kind()]
	if !ok {
		panic(fmt.Sprintf("gen: %s dialect has no template for %s", d.name, n.Kind()))
	}
	return fn(n)
}

func (d *dialect) print(n ir.Node, i int) string {
	t := d.template(n)
	switch t.layout {
	case layoutLeaf:
		return t.text
	case layoutWrap:
		return t.open + d.printElement(t.elements[0], i) + t.close
	case layoutPair:
		return t.open + d.printElement(t.elements[0], i) + t.mid + d.printElement(t.elements[1], i) + t.close
	}
	if len(t.elements) == 0 {
		return t.open + t.close
	}
	var b strings.Builder
	b.WriteString(t.open)
	b.WriteByte('\n')
	for k, e := range t.elements {
		if k > 0 {
			b.WriteString(t.sep)
			b.WriteByte('\n')
		}
		if e.comment != "" {
			b.WriteString(printDescription(e.comment, i+1))
		}
		b.WriteString(indent(i + 1))
		b.WriteString(e.prefix)
		b.WriteString(d.printElement(e, i+1))
	}
	b.WriteByte('\n')
	b.WriteString(indent(i))
	b.WriteString(t.close)
	return b.String()
}

func (d *dialect) printElement(e element, i int) string {
	if e.node != nil {
		return d.print(e.node, i)
	}
	if e.text != nil {
		return e.text(i)
	}
	return ""
}

func leaf(s string) template { return template{layout: layoutLeaf, text: s} }

func wrap(open string, n ir.Node, close string) template {
	return template{layout: layoutWrap, open: open, close: close, elements: []element{{node: n}}}
}

func pair(open string, a ir.Node, mid string, b ir.Node, close string) template {
	return template{layout: layoutPair, open: open, mid: mid, close: close, elements: []element{{node: a}, {node: b}}}
}

func list(open string, types []ir.Node, prefix, sep, close string) template {
	es := make([]element, 0, len(types))
	for _, t := range types {
		es = append(es, element{prefix: prefix, node: t})
	}
	return template{layout: layoutBlock, open: open, close: close, sep: sep, elements: es}
}

// fields renders object properties; optional marks "?" after the key for
// properties flagged optional (or all of them when forceOptional is set).
func fields(open string, props []ir.Property, forceOptional, markOptional bool, close string) template {
	es := make([]element, 0, len(props))
	for _, p := range props {
		opt := ""
		if markOptional && (forceOptional || p.Optional) {
			opt = "?"
		}
		es = append(es, element{comment: p.Description, prefix: escapePropertyKey(p.Key) + opt + ": ", node: p.Type})
	}
	return template{layout: layoutBlock, open: open, close: close, sep: ",", elements: es}
}

func keys(open string, values []string, render func(string) string, sep, close string) template {
	es := make([]element, 0, len(values))
	for _, v := range values {
		s := render(v)
		es = append(es, element{text: func(int) string { return s }})
	}
	return template{layout: layoutBlock, open: open, close: close, sep: sep, elements: es}
}

func indent(n int) string { return strings.Repeat("  ", n) }

func printDescription(description string, i int) string {
	if description == "" {
		return ""
	}
	return indent(i) + "/** " + description + " */\n"
}

var invalidKey = regexp.MustCompile(`(^\d|\W)`)

func escapePropertyKey(key string) string {
	if key != "" && !invalidKey.MatchString(key) {
		return key
	}
	return escapeString(key)
}

func escapeString(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `'`, `\'`, "\n", `\n`, "\r", `\r`)
	return "'" + r.Replace(s) + "'"
}

func literalText(v any) string {
	switch t := v.(type) {
	case string:
		return escapeString(t)
	case ir.Number:
		return string(t)
	case bool:
		return strconv.FormatBool(t)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case float64:
		return strconv.FormatFloat(t, 'g', -1, 64)
	default:
		return fmt.Sprintf("%v", t)
	}
}

func brandName(b *ir.Brand) string { return b.Name + "Brand" }
