package compiler

import (
	"errors"
	"fmt"
	"strings"
)

// Hard failures abort the file immediately; they are never recorded as
// diagnostics.
var (
	ErrObjectKeyword   = errors.New("keyword is not supported outside explicit object definitions")
	ErrArrayKeyword    = errors.New("keyword is not supported outside explicit array definitions")
	ErrOpenTuple       = errors.New("tuples with ...rest are not supported, set additionalItems false")
	ErrLiteralKind     = errors.New("unsupported literal kind")
	ErrUnrepresentable = errors.New("don't know how to represent schema")
	ErrBrokenRef       = errors.New("broken input: $ref must be a string")
	ErrMeta            = errors.New("unexpected format of schema metadata")
)

// Error locates a hard failure within the input document.
type Error struct {
	Path    string // JSON Pointer of the offending schema; "" for the root.
	Message string
	Err     error
}

func (e *Error) Error() string {
	where := e.Path
	if where == "" {
		where = "/"
	}
	if e.Message == "" {
		return fmt.Sprintf("%v at %s", e.Err, where)
	}
	return fmt.Sprintf("%s: %v at %s", e.Message, e.Err, where)
}

func (e *Error) Unwrap() error { return e.Err }

func fail(at string, err error, format string, a ...any) error {
	return &Error{Path: at, Message: fmt.Sprintf(format, a...), Err: err}
}

// pointer appends reference tokens to a JSON Pointer.
func pointer(base string, tokens ...string) string {
	var b strings.Builder
	b.WriteString(base)
	for _, t := range tokens {
		b.WriteByte('/')
		b.WriteString(strings.NewReplacer("~", "~0", "/", "~1").Replace(t))
	}
	return b.String()
}
