package jsonschema

import (
	"bytes"
	"strings"

	j "github.com/goccy/go-json"
)

// Encode renders v as compact JSON text. Object members keep document order
// and HTML characters are left unescaped, so the output can be embedded in
// generated source as a literal.
func Encode(v *Value) string {
	var b strings.Builder
	encode(&b, v)
	return b.String()
}

// Quote renders s as a JSON string literal without HTML escaping.
func Quote(s string) string {
	var buf bytes.Buffer
	enc := j.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		// unreachable for strings
		return `"` + strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`).Replace(s) + `"`
	}
	return strings.TrimSuffix(buf.String(), "\n")
}

func encode(b *strings.Builder, v *Value) {
	switch v.Kind() {
	case KindNull:
		b.WriteString("null")
	case KindBool:
		if v.boolean {
			b.WriteString("true")
		} else {
			b.WriteString("false")
		}
	case KindNumber:
		b.WriteString(v.text)
	case KindString:
		b.WriteString(Quote(v.text))
	case KindArray:
		b.WriteByte('[')
		for i, it := range v.items {
			if i > 0 {
				b.WriteByte(',')
			}
			encode(b, it)
		}
		b.WriteByte(']')
	case KindObject:
		b.WriteByte('{')
		for i, m := range v.members {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteString(Quote(m.Key))
			b.WriteByte(':')
			encode(b, m.Value)
		}
		b.WriteByte('}')
	}
}
