package ir

// Package ir defines the combinator tree the compiler emits. Nodes are built
// bottom-up and never mutated afterwards; printers live in internal/gen.

// NodeKind identifies an IR node type.
type NodeKind int

const (
	NodeString NodeKind = iota
	NodeNumber
	NodeBoolean
	NodeNull
	NodeUnknown
	NodeNever
	NodeUnknownArray
	NodeUnknownRecord
	NodeLiteral
	NodeInterface
	NodePartial
	NodeStrict
	NodeExact
	NodeReadonly
	NodeArray
	NodeReadonlyArray
	NodeTuple
	NodeRecord
	NodeUnion
	NodeTaggedUnion
	NodeIntersection
	NodeKeyof
	NodeIdentifier
	NodeCustom
	NodeBrand
)

var kindNames = [...]string{
	NodeString:        "string",
	NodeNumber:        "number",
	NodeBoolean:       "boolean",
	NodeNull:          "null",
	NodeUnknown:       "unknown",
	NodeNever:         "never",
	NodeUnknownArray:  "unknown-array",
	NodeUnknownRecord: "unknown-record",
	NodeLiteral:       "literal",
	NodeInterface:     "interface",
	NodePartial:       "partial",
	NodeStrict:        "strict",
	NodeExact:         "exact",
	NodeReadonly:      "readonly",
	NodeArray:         "array",
	NodeReadonlyArray: "readonly-array",
	NodeTuple:         "tuple",
	NodeRecord:        "record",
	NodeUnion:         "union",
	NodeTaggedUnion:   "tagged-union",
	NodeIntersection:  "intersection",
	NodeKeyof:         "keyof",
	NodeIdentifier:    "identifier",
	NodeCustom:        "custom",
	NodeBrand:         "brand",
}

func (k NodeKind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "invalid"
}

// Kinds lists every node kind.
func Kinds() []NodeKind {
	out := make([]NodeKind, 0, len(kindNames))
	for k := range kindNames {
		out = append(out, NodeKind(k))
	}
	return out
}

// Node is the root IR node interface.
type Node interface {
	Kind() NodeKind
}

// Primitive is a leaf type without parameters (string, never, unknown array...).
type Primitive struct {
	kind NodeKind
}

func (p *Primitive) Kind() NodeKind { return p.kind }

var (
	StringType        Node = &Primitive{kind: NodeString}
	NumberType        Node = &Primitive{kind: NodeNumber}
	BooleanType       Node = &Primitive{kind: NodeBoolean}
	NullType          Node = &Primitive{kind: NodeNull}
	UnknownType       Node = &Primitive{kind: NodeUnknown}
	NeverType         Node = &Primitive{kind: NodeNever}
	UnknownArrayType  Node = &Primitive{kind: NodeUnknownArray}
	UnknownRecordType Node = &Primitive{kind: NodeUnknownRecord}
)

// Number is the source text of a numeric literal.
type Number string

// Literal is a string, Number or bool constant.
type Literal struct {
	Value any
}

func (l *Literal) Kind() NodeKind { return NodeLiteral }

// LiteralCombinator accepts string, bool, Number and the Go integer/float
// types; anything else is rendered with fmt's %v.
func LiteralCombinator(v any) Node { return &Literal{Value: v} }

// Property is a named object field.
type Property struct {
	Key         string
	Type        Node
	Optional    bool
	Description string
}

// NewProperty returns a required property.
func NewProperty(key string, t Node) Property { return Property{Key: key, Type: t} }

// Object covers interface, partial and strict combinators.
type Object struct {
	kind       NodeKind
	Properties []Property
}

func (o *Object) Kind() NodeKind { return o.kind }

func InterfaceCombinator(props ...Property) Node {
	return &Object{kind: NodeInterface, Properties: props}
}

func PartialCombinator(props ...Property) Node {
	return &Object{kind: NodePartial, Properties: props}
}

func StrictCombinator(props ...Property) Node {
	return &Object{kind: NodeStrict, Properties: props}
}

// Wrapper is a single-child combinator (exact, readonly, array, readonly array).
type Wrapper struct {
	kind NodeKind
	Type Node
}

func (w *Wrapper) Kind() NodeKind { return w.kind }

func ExactCombinator(t Node) Node         { return &Wrapper{kind: NodeExact, Type: t} }
func ReadonlyCombinator(t Node) Node      { return &Wrapper{kind: NodeReadonly, Type: t} }
func ArrayCombinator(t Node) Node         { return &Wrapper{kind: NodeArray, Type: t} }
func ReadonlyArrayCombinator(t Node) Node { return &Wrapper{kind: NodeReadonlyArray, Type: t} }

// List is a combinator over an ordered list of members (tuple, union,
// tagged union, intersection).
type List struct {
	kind  NodeKind
	Types []Node
	Tag   string // tagged unions only
}

func (l *List) Kind() NodeKind { return l.kind }

func TupleCombinator(types ...Node) Node {
	return &List{kind: NodeTuple, Types: types}
}

func UnionCombinator(types ...Node) Node {
	return &List{kind: NodeUnion, Types: types}
}

func TaggedUnionCombinator(tag string, types ...Node) Node {
	return &List{kind: NodeTaggedUnion, Types: types, Tag: tag}
}

func IntersectionCombinator(types ...Node) Node {
	return &List{kind: NodeIntersection, Types: types}
}

// Record is a dictionary from Domain keys to Codomain values.
type Record struct {
	Domain   Node
	Codomain Node
}

func (r *Record) Kind() NodeKind { return NodeRecord }

func RecordCombinator(domain, codomain Node) Node {
	return &Record{Domain: domain, Codomain: codomain}
}

// Keyof is a union of string keys.
type Keyof struct {
	Values []string
}

func (k *Keyof) Kind() NodeKind { return NodeKeyof }

func KeyofCombinator(values ...string) Node { return &Keyof{Values: values} }

// Identifier refers to another declaration by name.
type Identifier struct {
	Name string
}

func (i *Identifier) Kind() NodeKind { return NodeIdentifier }

func IdentifierOf(name string) Node { return &Identifier{Name: name} }

// Custom carries verbatim static and runtime source text. Dependencies name
// the declarations (or import aliases) the text refers to.
type Custom struct {
	Static       string
	Runtime      string
	Dependencies []string
}

func (c *Custom) Kind() NodeKind { return NodeCustom }

func CustomCombinator(static, runtime string, deps ...string) Node {
	return &Custom{Static: static, Runtime: runtime, Dependencies: deps}
}

// Brand refines Type with a predicate and gives it a nominal name.
// Predicate receives the variable name to test and returns a boolean
// source expression.
type Brand struct {
	Type      Node
	Predicate func(x string) string
	Name      string
}

func (b *Brand) Kind() NodeKind { return NodeBrand }

func BrandCombinator(t Node, predicate func(x string) string, name string) Node {
	return &Brand{Type: t, Predicate: predicate, Name: name}
}

// TypeDeclaration names a node at the top level of the generated module.
type TypeDeclaration struct {
	Name        string
	Type        Node
	Exported    bool
	Readonly    bool
	Description string
}

// Declare returns an exported declaration.
func Declare(name string, t Node) TypeDeclaration {
	return TypeDeclaration{Name: name, Type: t, Exported: true}
}

// Children returns the direct child nodes of n in rendering order.
func Children(n Node) []Node {
	switch t := n.(type) {
	case *Object:
		out := make([]Node, 0, len(t.Properties))
		for _, p := range t.Properties {
			out = append(out, p.Type)
		}
		return out
	case *Wrapper:
		return []Node{t.Type}
	case *List:
		return t.Types
	case *Record:
		return []Node{t.Domain, t.Codomain}
	case *Brand:
		return []Node{t.Type}
	default:
		return nil
	}
}
