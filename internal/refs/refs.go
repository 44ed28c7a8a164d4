// Package refs parses $ref strings and computes the import statement a
// cross-document reference needs.
package refs

import (
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/reoring/schemats/internal/digest"
	"github.com/reoring/schemats/internal/naming"
)

var (
	// ErrMalformed is wrapped by every Parse failure.
	ErrMalformed = errors.New("refs: unknown ref format")
	// ErrMapping is returned for import mappings without a '^' separator.
	ErrMapping = errors.New("refs: import mapping must be URI^location")
)

// Ref is a parsed $ref. An empty FilePath refers to the current document.
type Ref struct {
	FilePath     string
	VariableName string
}

// Local reports whether r points into the current document.
func (r Ref) Local() bool { return r.FilePath == "" }

// Parse accepts "file.json", "#/definitions/Name" and
// "file.json#/definitions/Name".
func Parse(ref string) (Ref, error) {
	parts := strings.Split(ref, "#")
	switch len(parts) {
	case 1:
		return Ref{FilePath: ref, VariableName: naming.FromFilePath(ref)}, nil
	case 2:
	default:
		return Ref{}, fmt.Errorf("%w: %q has more than one '#'", ErrMalformed, ref)
	}
	segments := strings.Split(parts[1], "/")
	if len(segments) != 3 || segments[0] != "" || segments[1] != "definitions" {
		return Ref{}, fmt.Errorf("%w: %q does not point to /definitions/<name>", ErrMalformed, ref)
	}
	return Ref{FilePath: parts[0], VariableName: naming.FromKebab(segments[2])}, nil
}

// Mapping rewrites import paths starting with URI to start with Location.
type Mapping struct {
	URI      string
	Location string
}

// ParseMappings parses "URI^location" pairs.
func ParseMappings(pairs []string) ([]Mapping, error) {
	out := make([]Mapping, 0, len(pairs))
	for _, p := range pairs {
		uri, loc, ok := strings.Cut(p, "^")
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrMapping, p)
		}
		out = append(out, Mapping{URI: uri, Location: loc})
	}
	return out, nil
}

// Resolver computes import aliases and paths relative to one document.
type Resolver struct {
	Base          string
	DocumentURI   string
	Imports       []Mapping
	HashLength    int
	HashAlgorithm string
}

// ImportName returns the module alias for filePath, e.g. "Other_" or
// "Other_3f2a_" when hashing is enabled. The hash covers ref without its
// fragment.
func (r *Resolver) ImportName(filePath, ref string) (string, error) {
	base := filePath
	if i := strings.LastIndex(base, "/"); i >= 0 {
		base = base[i+1:]
	}
	name := naming.FromKebab(naming.TrimSchemaSuffix(base)) + "_"
	if r.HashLength <= 0 {
		return name, nil
	}
	withoutFragment, _, _ := strings.Cut(ref, "#")
	sum, err := digest.Sum(r.HashAlgorithm, []byte(withoutFragment))
	if err != nil {
		return "", err
	}
	if r.HashLength < len(sum) {
		sum = sum[:r.HashLength]
	}
	return name + sum + "_", nil
}

// ImportPath returns the module specifier for filePath.
func (r *Resolver) ImportPath(filePath string) string {
	target := naming.TrimSchemaSuffix(filePath)
	if isAbsolute(target) && strings.HasPrefix(target, r.Base) {
		return dotted(relative(DocumentBase(r.DocumentURI), target))
	}
	for _, m := range r.Imports {
		if strings.HasPrefix(target, m.URI) {
			return m.Location + target[len(m.URI):]
		}
	}
	return dotted(target)
}

// DocumentBase is the directory part of a document URI.
func DocumentBase(uri string) string {
	if i := strings.LastIndex(uri, "/"); i >= 0 {
		return uri[:i]
	}
	return ""
}

func isAbsolute(p string) bool {
	return strings.HasPrefix(p, "/") || strings.Contains(p, "://")
}

func dotted(p string) string {
	if strings.HasPrefix(p, ".") {
		return p
	}
	return "./" + p
}

// relative returns the path from directory from to target, both absolute.
func relative(from, target string) string {
	fs := segments(from)
	ts := segments(target)
	n := 0
	for n < len(fs) && n < len(ts) && fs[n] == ts[n] {
		n++
	}
	out := make([]string, 0, len(fs)-n+len(ts)-n)
	for range fs[n:] {
		out = append(out, "..")
	}
	out = append(out, ts[n:]...)
	return strings.Join(out, "/")
}

func segments(p string) []string {
	p = path.Clean(p)
	var out []string
	for _, s := range strings.Split(p, "/") {
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}
