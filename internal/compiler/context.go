// Package compiler turns JSON Schema values into combinator trees.
package compiler

import (
	"iter"
	"slices"

	"github.com/rs/zerolog"

	"github.com/reoring/schemats/internal/diag"
	ir "github.com/reoring/schemats/internal/ir"
	"github.com/reoring/schemats/internal/refs"
)

// Statements added to the generated module on demand.
const (
	ImportIOTS          = "import * as t from 'io-ts';"
	ImportNonEmptyArray = "import { NonEmptyArray } from 'fp-ts/lib/NonEmptyArray';"
	ImportNonEmptyCodec = "import { nonEmptyArray } from 'io-ts-types/lib/nonEmptyArray';"
)

// DefinedHelper declares the codec used for required properties.
const DefinedHelper = `
export type Defined = {} | null
export class DefinedType extends t.Type<Defined> {
  readonly _tag: 'DefinedType' = 'DefinedType'
  constructor() {
    super(
      'defined',
      (u): u is Defined => typeof u !== 'undefined',
      (u, c) => (this.is(u) ? t.success(u) : t.failure(u, c)),
      t.identity
    )
  }
}
export interface DefinedC extends DefinedType {}
export const Defined: DefinedC = new DefinedType()
`

// NullHelper declares the branded null used when null is masked.
const NullHelper = `
export interface NullBrand {
  readonly Null: unique symbol
}
export type NullC = t.BrandC<t.UnknownC, NullBrand>;
export const Null: NullC = t.brand(
  t.unknown,
  (n): n is t.Branded<unknown, NullBrand> => n === null,
  'Null'
)
export type Null = t.TypeOf<typeof Null>
`

const failedConversion = "throw new Error('schema conversion failed')"

// Set is an insertion-ordered set of strings.
type Set struct {
	items []string
	seen  map[string]struct{}
}

// Add inserts s unless present and reports whether it was new.
func (s *Set) Add(v string) bool {
	if s.seen == nil {
		s.seen = map[string]struct{}{}
	}
	if _, ok := s.seen[v]; ok {
		return false
	}
	s.seen[v] = struct{}{}
	s.items = append(s.items, v)
	return true
}

// Has reports whether v was added.
func (s *Set) Has(v string) bool {
	_, ok := s.seen[v]
	return ok
}

// Len returns the number of distinct entries.
func (s *Set) Len() int { return len(s.items) }

// Values returns the entries in insertion order.
func (s *Set) Values() []string { return slices.Clone(s.items) }

// All iterates the entries in insertion order.
func (s *Set) All() iter.Seq[string] { return slices.Values(s.items) }

// Options tune compilation of one file.
type Options struct {
	// MaskNull compiles null to a branded helper type distinguishable from
	// an absent value.
	MaskNull bool
}

// Context holds the state of one file's compilation. It is not safe for
// concurrent use; create one per input file.
type Context struct {
	opts     Options
	tracker  *diag.Tracker
	resolver *refs.Resolver
	logger   zerolog.Logger

	imports Set
	helpers Set
	exports Set
}

// NewContext returns a fresh compilation context.
func NewContext(opts Options, tracker *diag.Tracker, resolver *refs.Resolver, logger zerolog.Logger) *Context {
	if resolver == nil {
		resolver = &refs.Resolver{}
	}
	return &Context{opts: opts, tracker: tracker, resolver: resolver, logger: logger}
}

// Imports collects the import statements of the generated module.
func (c *Context) Imports() *Set { return &c.imports }

// Helpers collects helper declarations such as Defined and Null.
func (c *Context) Helpers() *Set { return &c.helpers }

// Exports collects the trailing export statements.
func (c *Context) Exports() *Set { return &c.exports }

// Tracker returns the diagnostics of the file being compiled.
func (c *Context) Tracker() *diag.Tracker { return c.tracker }

// Info reports an INFO diagnostic.
func (c *Context) Info(message string) { c.tracker.Info(message) }

// Warning reports a WARNING diagnostic.
func (c *Context) Warning(message string) { c.tracker.Warning(message) }

// errorNode records an ERROR and returns a placeholder that throws when the
// generated module is evaluated.
func (c *Context) errorNode(message string, cause error) ir.Node {
	c.tracker.Error(message, cause)
	return ir.CustomCombinator(failedConversion, failedConversion)
}

func (c *Context) null() ir.Node {
	if c.opts.MaskNull {
		c.helpers.Add(NullHelper)
		return ir.CustomCombinator("Null", "Null")
	}
	return ir.NullType
}

func (c *Context) defined() ir.Node {
	c.helpers.Add(DefinedHelper)
	return ir.CustomCombinator("Defined", "Defined")
}
