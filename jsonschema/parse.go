package jsonschema

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	j "github.com/goccy/go-json"
)

// DuplicateKeyError reports an object key that appears twice. Line and column
// are only known for YAML input (zero otherwise).
type DuplicateKeyError struct {
	Key       string
	Path      string
	FirstLine int
	FirstCol  int
	Line      int
	Col       int
}

func (e *DuplicateKeyError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("duplicate key %q at %d:%d (first at %d:%d)", e.Key, e.Line, e.Col, e.FirstLine, e.FirstCol)
	}
	return fmt.Sprintf("duplicate key %q at %s", e.Key, e.Path)
}

// ErrTrailingData is returned when a JSON document is followed by more input.
var ErrTrailingData = errors.New("jsonschema: trailing data after document")

// Parse decodes a single JSON document into a Value.
func Parse(data []byte) (*Value, error) {
	dec := j.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	v, err := readValue(dec, "")
	if err != nil {
		return nil, err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, ErrTrailingData
	}
	return v, nil
}

// Load reads a schema file. Files ending in .yaml or .yml are decoded as YAML,
// everything else as JSON.
func Load(path string) (*Value, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read schema: %w", err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		v, err := ParseYAML(data)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
		return v, nil
	default:
		v, err := Parse(data)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
		return v, nil
	}
}

func readValue(dec *j.Decoder, path string) (*Value, error) {
	tok, err := dec.Token()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, io.ErrUnexpectedEOF
		}
		return nil, err
	}
	switch t := tok.(type) {
	case j.Delim:
		switch t {
		case '{':
			return readObject(dec, path)
		case '[':
			return readArray(dec, path)
		}
		return nil, fmt.Errorf("jsonschema: unexpected delimiter %q at %s", rune(t), pointer(path))
	case string:
		return String(t), nil
	case bool:
		return Bool(t), nil
	case j.Number:
		return Number(string(t)), nil
	case float64:
		return Number(strconv.FormatFloat(t, 'g', -1, 64)), nil
	case nil:
		return Null(), nil
	}
	return nil, fmt.Errorf("jsonschema: unexpected token %v at %s", tok, pointer(path))
}

func readObject(dec *j.Decoder, path string) (*Value, error) {
	v := &Value{kind: KindObject, index: map[string]int{}}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("jsonschema: expected object key at %s", pointer(path))
		}
		if _, dup := v.index[key]; dup {
			return nil, &DuplicateKeyError{Key: key, Path: pointer(path)}
		}
		child, err := readValue(dec, path+"/"+escapePointer(key))
		if err != nil {
			return nil, err
		}
		v.index[key] = len(v.members)
		v.members = append(v.members, Member{Key: key, Value: child})
	}
	if _, err := dec.Token(); err != nil { // '}'
		return nil, err
	}
	return v, nil
}

func readArray(dec *j.Decoder, path string) (*Value, error) {
	v := &Value{kind: KindArray}
	for i := 0; dec.More(); i++ {
		child, err := readValue(dec, path+"/"+strconv.Itoa(i))
		if err != nil {
			return nil, err
		}
		v.items = append(v.items, child)
	}
	if _, err := dec.Token(); err != nil { // ']'
		return nil, err
	}
	return v, nil
}

func pointer(path string) string {
	if path == "" {
		return "/"
	}
	return path
}

func escapePointer(s string) string {
	return strings.NewReplacer("~", "~0", "/", "~1").Replace(s)
}
