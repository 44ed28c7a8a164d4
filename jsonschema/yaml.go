package jsonschema

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strconv"

	"gopkg.in/yaml.v3"
)

// ParseYAML decodes the first YAML document of data into a Value. Mapping keys
// keep their document order and duplicates are rejected with the position of
// both occurrences.
func ParseYAML(data []byte) (*Value, error) {
	var root yaml.Node
	if err := yaml.NewDecoder(bytes.NewReader(data)).Decode(&root); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, io.ErrUnexpectedEOF
		}
		return nil, err
	}
	return fromNode(&root)
}

func fromNode(n *yaml.Node) (*Value, error) {
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return Null(), nil
		}
		return fromNode(n.Content[0])
	case yaml.AliasNode:
		if n.Alias == nil {
			return Null(), nil
		}
		return fromNode(n.Alias)
	case yaml.MappingNode:
		v := &Value{kind: KindObject, index: make(map[string]int, len(n.Content)/2)}
		first := make(map[string][2]int, len(n.Content)/2)
		for i := 0; i+1 < len(n.Content); i += 2 {
			k, val := n.Content[i], n.Content[i+1]
			key := k.Value
			if pos, dup := first[key]; dup {
				return nil, &DuplicateKeyError{Key: key, FirstLine: pos[0], FirstCol: pos[1], Line: k.Line, Col: k.Column}
			}
			first[key] = [2]int{k.Line, k.Column}
			child, err := fromNode(val)
			if err != nil {
				return nil, err
			}
			v.index[key] = len(v.members)
			v.members = append(v.members, Member{Key: key, Value: child})
		}
		return v, nil
	case yaml.SequenceNode:
		v := &Value{kind: KindArray, items: make([]*Value, 0, len(n.Content))}
		for _, c := range n.Content {
			child, err := fromNode(c)
			if err != nil {
				return nil, err
			}
			v.items = append(v.items, child)
		}
		return v, nil
	case yaml.ScalarNode:
		return fromScalar(n)
	}
	return nil, fmt.Errorf("jsonschema: unsupported YAML node at %d:%d", n.Line, n.Column)
}

func fromScalar(n *yaml.Node) (*Value, error) {
	switch n.ShortTag() {
	case "!!null":
		return Null(), nil
	case "!!bool":
		var b bool
		if err := n.Decode(&b); err != nil {
			return nil, err
		}
		return Bool(b), nil
	case "!!int":
		i, err := strconv.ParseInt(n.Value, 0, 64)
		if err != nil {
			// out of int64 range or an exotic base; keep the text if JSON-compatible
			if _, ferr := strconv.ParseFloat(n.Value, 64); ferr != nil {
				return nil, fmt.Errorf("jsonschema: invalid integer %q at %d:%d", n.Value, n.Line, n.Column)
			}
			return Number(n.Value), nil
		}
		return Number(strconv.FormatInt(i, 10)), nil
	case "!!float":
		f, err := strconv.ParseFloat(n.Value, 64)
		if err != nil {
			return nil, fmt.Errorf("jsonschema: non-JSON float %q at %d:%d", n.Value, n.Line, n.Column)
		}
		return Number(strconv.FormatFloat(f, 'g', -1, 64)), nil
	default:
		return String(n.Value), nil
	}
}
