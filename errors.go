package schemats

import (
	"errors"
	"fmt"
	"strings"

	"github.com/reoring/schemats/internal/compiler"
	"github.com/reoring/schemats/internal/diag"
	"github.com/reoring/schemats/internal/hyper"
	"github.com/reoring/schemats/internal/refs"
)

// Errors returned by Generate. Hard failures wrap one of the keyword errors
// and carry the JSON Pointer of the offending schema (see AsIssue).
var (
	ErrErrors   = diag.ErrErrors
	ErrWarnings = diag.ErrWarnings

	ErrMalformedRef    = refs.ErrMalformed
	ErrImportMapping   = refs.ErrMapping
	ErrObjectKeyword   = compiler.ErrObjectKeyword
	ErrArrayKeyword    = compiler.ErrArrayKeyword
	ErrOpenTuple       = compiler.ErrOpenTuple
	ErrLiteralKind     = compiler.ErrLiteralKind
	ErrUnrepresentable = compiler.ErrUnrepresentable
	ErrBrokenRef       = compiler.ErrBrokenRef
	ErrMeta            = compiler.ErrMeta
	ErrHrefTemplate    = hyper.ErrHrefTemplate
	ErrLinkMember      = hyper.ErrLinkMember

	ErrNegativeExample = errors.New("invalid example is not base64")
)

// Severities of an Issue.
const (
	SeverityInfo    = string(diag.SeverityInfo)
	SeverityWarning = string(diag.SeverityWarning)
	SeverityError   = string(diag.SeverityError)
)

// Issue is a diagnostic or a hard failure of one generation pass.
type Issue struct {
	Path     string // JSON Pointer into the input (for example: /definitions/a/items); "" when unknown.
	Severity string // INFO, WARNING or ERROR.
	Message  string
	Cause    error // Optional: underlying error.
}

// Issues is a collection of diagnostics that implements error.
type Issues []Issue

// Error summarizes the first few issues.
func (iss Issues) Error() string {
	if len(iss) == 0 {
		return ""
	}
	const maxShown = 3
	b := &strings.Builder{}
	lim := min(len(iss), maxShown)
	for i := 0; i < lim; i++ {
		if i > 0 {
			b.WriteString("; ")
		}
		it := iss[i]
		fmt.Fprintf(b, "%s: %s", it.Severity, it.Message)
		if it.Path != "" {
			fmt.Fprintf(b, " at %s", it.Path)
		}
	}
	if len(iss) > lim {
		fmt.Fprintf(b, "; ... (total %d)", len(iss))
	}
	return b.String()
}

// Count returns how many issues have the given severity.
func (iss Issues) Count(severity string) int {
	n := 0
	for _, it := range iss {
		if it.Severity == severity {
			n++
		}
	}
	return n
}

// AsIssue extracts the located hard failure from an error returned by
// Generate.
func AsIssue(err error) (Issue, bool) {
	if err == nil {
		return Issue{}, false
	}
	var ce *compiler.Error
	if errors.As(err, &ce) {
		msg := ce.Message
		if msg == "" {
			msg = ce.Err.Error()
		}
		return Issue{Path: ce.Path, Severity: SeverityError, Message: msg, Cause: ce.Err}, true
	}
	return Issue{}, false
}

func issuesOf(entries []diag.Entry) Issues {
	out := make(Issues, 0, len(entries))
	for _, e := range entries {
		out = append(out, Issue{Severity: string(e.Severity), Message: e.Message})
	}
	return out
}
