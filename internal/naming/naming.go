// Package naming derives TypeScript type identifiers from schema keys and
// file names.
package naming

import (
	"strings"
	"unicode/utf8"
)

// Capitalize upper-cases the first character of word only.
func Capitalize(word string) string {
	r, size := utf8.DecodeRuneInString(word)
	if size == 0 {
		return word
	}
	return strings.ToUpper(string(r)) + word[size:]
}

// FromKebab turns "random-caseCombination" into "RandomCaseCombination".
func FromKebab(kebab string) string {
	parts := strings.Split(kebab, "-")
	for i, p := range parts {
		parts[i] = Capitalize(p)
	}
	return strings.Join(parts, "")
}

// FromAllCaps turns "ALL-CAPS" into "ALLCAPS".
func FromAllCaps(allCaps string) string {
	return strings.ReplaceAll(allCaps, "-", "")
}

// IsAllCaps reports whether s has no lower-case letters.
func IsAllCaps(s string) bool { return s == strings.ToUpper(s) }

// FromRandom treats all upper-case input as an acronym and everything else as
// kebab case.
func FromRandom(s string) string {
	if IsAllCaps(s) {
		return FromAllCaps(s)
	}
	return FromKebab(s)
}

var schemaSuffixes = []string{".json", ".yaml", ".yml"}

// FromFilePath derives the default export name of a schema file: the last
// path segment cut at the schema file suffix.
func FromFilePath(p string) string {
	base := p
	if i := strings.LastIndex(p, "/"); i >= 0 {
		base = p[i+1:]
	}
	return FromRandom(TrimSchemaSuffix(base))
}

// TrimSchemaSuffix cuts s at the first occurrence of a schema file suffix.
func TrimSchemaSuffix(s string) string {
	cut := len(s)
	for _, suf := range schemaSuffixes {
		if i := strings.Index(s, suf); i >= 0 && i < cut {
			cut = i
		}
	}
	return s[:cut]
}
