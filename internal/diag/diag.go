// Package diag tracks the INFO/WARNING/ERROR diagnostics of one input file.
package diag

import (
	"errors"
	"fmt"
	"io"

	"github.com/rs/zerolog"
)

var (
	// ErrErrors is returned when at least one ERROR was reported.
	ErrErrors = errors.New("Bailing because of errors")
	// ErrWarnings is returned in strict mode when a WARNING was reported.
	ErrWarnings = errors.New("Bailing because of warnings")
)

// Level is the outcome of a file so far. It only ever escalates.
type Level int

const (
	LevelOK Level = iota
	LevelWarning
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelOK:
		return "OK"
	case LevelWarning:
		return "WARNING"
	case LevelError:
		return "ERROR"
	}
	return fmt.Sprintf("Level(%d)", int(l))
}

// Severity labels a single diagnostic.
type Severity string

const (
	SeverityInfo    Severity = "INFO"
	SeverityWarning Severity = "WARNING"
	SeverityError   Severity = "ERROR"
)

// Entry is one reported diagnostic.
type Entry struct {
	Severity Severity
	Message  string
}

// Tracker writes diagnostics to a sink as
//
//	LEVEL: message
//	  in <inputFile>
//
// and remembers the highest level seen.
type Tracker struct {
	sink      io.Writer
	inputFile string
	logger    zerolog.Logger
	level     Level
	entries   []Entry
	causes    []error
}

// NewTracker returns a tracker for one input file. A nil sink discards
// output.
func NewTracker(sink io.Writer, inputFile string, logger zerolog.Logger) *Tracker {
	if sink == nil {
		sink = io.Discard
	}
	return &Tracker{sink: sink, inputFile: inputFile, logger: logger}
}

// Info reports a diagnostic that never affects the outcome.
func (t *Tracker) Info(message string) { t.report(SeverityInfo, message) }

// Warning reports an approximation and escalates to LevelWarning.
func (t *Tracker) Warning(message string) {
	t.escalate(LevelWarning)
	t.report(SeverityWarning, message)
}

// Error reports an unrepresentable construct and escalates to LevelError.
// A non-nil cause is kept and wrapped by Err.
func (t *Tracker) Error(message string, cause error) {
	t.escalate(LevelError)
	if cause != nil {
		t.causes = append(t.causes, cause)
	}
	t.report(SeverityError, message)
}

func (t *Tracker) escalate(l Level) {
	if l > t.level {
		t.level = l
	}
}

func (t *Tracker) report(s Severity, message string) {
	t.entries = append(t.entries, Entry{Severity: s, Message: message})
	t.logger.Debug().Str("severity", string(s)).Str("file", t.inputFile).Msg(message)
	fmt.Fprintf(t.sink, "%s: %s\n  in %s\n", s, message, t.inputFile)
}

// Level returns the current level.
func (t *Tracker) Level() Level { return t.level }

// Entries returns a copy of the reported diagnostics in order.
func (t *Tracker) Entries() []Entry { return append([]Entry(nil), t.entries...) }

// Count returns how many diagnostics of severity s were reported.
func (t *Tracker) Count(s Severity) int {
	n := 0
	for _, e := range t.entries {
		if e.Severity == s {
			n++
		}
	}
	return n
}

// Err decides whether output may be emitted: nil for OK, and for WARNING
// unless strict.
func (t *Tracker) Err(strict bool) error {
	switch {
	case t.level == LevelError:
		if cause := errors.Join(t.causes...); cause != nil {
			return fmt.Errorf("%w: %w", ErrErrors, cause)
		}
		return ErrErrors
	case t.level == LevelWarning && strict:
		return ErrWarnings
	}
	return nil
}
