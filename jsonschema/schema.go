package jsonschema

// Value is an immutable JSON value as read from a schema document.
// Objects keep their members in source order because generated output
// (definitions, properties, invalid examples) follows document order.
// Numbers keep their source text so they can be re-emitted verbatim.
type Value struct {
	kind    Kind
	boolean bool
	text    string // string contents or number literal
	items   []*Value
	members []Member
	index   map[string]int
}

// Kind identifies a JSON value type.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindArray
	KindObject
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "boolean"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	default:
		return "unknown"
	}
}

// Member is a single key/value pair of an object.
type Member struct {
	Key   string
	Value *Value
}

// Null returns the JSON null value.
func Null() *Value { return &Value{kind: KindNull} }

// Bool returns a JSON boolean.
func Bool(b bool) *Value { return &Value{kind: KindBool, boolean: b} }

// Number returns a JSON number from its literal text (e.g. "1.5").
func Number(text string) *Value { return &Value{kind: KindNumber, text: text} }

// String returns a JSON string.
func String(s string) *Value { return &Value{kind: KindString, text: s} }

// Array returns a JSON array of the given items.
func Array(items ...*Value) *Value {
	return &Value{kind: KindArray, items: append([]*Value(nil), items...)}
}

// Object returns a JSON object. A repeated key replaces the earlier value but
// keeps its original position.
func Object(members ...Member) *Value {
	v := &Value{kind: KindObject, index: make(map[string]int, len(members))}
	for _, m := range members {
		if i, ok := v.index[m.Key]; ok {
			v.members[i].Value = m.Value
			continue
		}
		v.index[m.Key] = len(v.members)
		v.members = append(v.members, m)
	}
	return v
}

// Kind reports the type of v. A nil Value is reported as null.
func (v *Value) Kind() Kind {
	if v == nil {
		return KindNull
	}
	return v.kind
}

func (v *Value) IsNull() bool   { return v.Kind() == KindNull }
func (v *Value) IsBool() bool   { return v.Kind() == KindBool }
func (v *Value) IsNumber() bool { return v.Kind() == KindNumber }
func (v *Value) IsString() bool { return v.Kind() == KindString }
func (v *Value) IsArray() bool  { return v.Kind() == KindArray }
func (v *Value) IsObject() bool { return v.Kind() == KindObject }

// IsTrue reports whether v is the boolean true.
func (v *Value) IsTrue() bool { return v.IsBool() && v.boolean }

// IsFalse reports whether v is the boolean false.
func (v *Value) IsFalse() bool { return v.IsBool() && !v.boolean }

// Bool returns the boolean payload; false for non-booleans.
func (v *Value) Bool() bool { return v.IsBool() && v.boolean }

// Str returns the string payload; empty for non-strings.
func (v *Value) Str() string {
	if !v.IsString() {
		return ""
	}
	return v.text
}

// NumberText returns the literal text of a number; empty for non-numbers.
func (v *Value) NumberText() string {
	if !v.IsNumber() {
		return ""
	}
	return v.text
}

// Items returns the elements of an array.
func (v *Value) Items() []*Value {
	if !v.IsArray() {
		return nil
	}
	return v.items
}

// Members returns the members of an object in document order.
func (v *Value) Members() []Member {
	if !v.IsObject() {
		return nil
	}
	return v.members
}

// Keys returns the object keys in document order.
func (v *Value) Keys() []string {
	ms := v.Members()
	keys := make([]string, 0, len(ms))
	for _, m := range ms {
		keys = append(keys, m.Key)
	}
	return keys
}

// Len returns the number of array items or object members.
func (v *Value) Len() int {
	switch v.Kind() {
	case KindArray:
		return len(v.items)
	case KindObject:
		return len(v.members)
	default:
		return 0
	}
}

// Get looks up an object member.
func (v *Value) Get(key string) (*Value, bool) {
	if !v.IsObject() {
		return nil, false
	}
	i, ok := v.index[key]
	if !ok {
		return nil, false
	}
	return v.members[i].Value, true
}

// Has reports whether an object has the given key.
func (v *Value) Has(key string) bool {
	_, ok := v.Get(key)
	return ok
}

// Lookup returns the member value or nil when absent.
func (v *Value) Lookup(key string) *Value {
	m, _ := v.Get(key)
	return m
}

// StringAt returns the string member at key, if it is a string.
func (v *Value) StringAt(key string) (string, bool) {
	m, ok := v.Get(key)
	if !ok || !m.IsString() {
		return "", false
	}
	return m.text, true
}

// Without returns a copy of an object without the given keys.
func (v *Value) Without(keys ...string) *Value {
	drop := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		drop[k] = struct{}{}
	}
	var kept []Member
	for _, m := range v.Members() {
		if _, ok := drop[m.Key]; ok {
			continue
		}
		kept = append(kept, m)
	}
	return Object(kept...)
}
