// Package diagnostics implements the error-kind taxonomy and batched
// error container described in spec.md §7. The teacher's
// cmd/lsp/diagnostics.go and internal/analyzer reference an
// internal/diagnostics package that was not present in the retrieved
// slice of the teacher repo; this package is rebuilt from that
// call-site contract (DiagnosticError{Code, Token, File, Hint,
// Suggestion}) and from Erg's ErrorKind/Location/MultiErrorDisplay
// design in erg_common/traits.rs.
package diagnostics

import (
	"fmt"
	"strings"

	"github.com/funvibe/funxy-types/internal/token"
)

// Code is the error-kind taxonomy named verbatim in spec.md §7.
type Code string

const (
	SyntaxError               Code = "SyntaxError"
	TypeError                 Code = "TypeError"
	NameError                 Code = "NameError"
	AssignError                Code = "AssignError"
	NotImplementedError       Code = "NotImplementedError"
	OwnershipError            Code = "OwnershipError"
	EffectError               Code = "EffectError"
	SystemExit                Code = "SystemExit"
	InternalInvariantViolation Code = "InternalInvariantViolation"
)

// DiagnosticError is one reported failure: a location (range or
// line), a cause context, an optional hint, and an optional
// nearest-name suggestion.
type DiagnosticError struct {
	Code       Code
	Message    string
	Token      token.Token
	File       string
	CausedBy   string // the operation that surfaced it
	Hint       string
	Suggestion string
}

func (e *DiagnosticError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %s", e.Code, e.Message)
	if e.File != "" {
		fmt.Fprintf(&b, " (%s:%d:%d)", e.File, e.Token.Line, e.Token.Column)
	}
	if e.Hint != "" {
		fmt.Fprintf(&b, "\n  hint: %s", e.Hint)
	}
	if e.Suggestion != "" {
		fmt.Fprintf(&b, "\n  did you mean %q?", e.Suggestion)
	}
	return b.String()
}

// IsFatal reports whether the driver must halt immediately: an
// InternalInvariantViolation is fatal per spec.md §7; every other
// kind is collected into the batch and reported together.
func (e *DiagnosticError) IsFatal() bool { return e.Code == InternalInvariantViolation }

// Bag is the batched error container: a single type-check pass can
// report many failures instead of stopping at the first.
type Bag struct {
	errors []*DiagnosticError
	fatal  *DiagnosticError
}

func NewBag() *Bag { return &Bag{} }

// Add records a diagnostic. If it is fatal, the bag remembers it as
// the terminal error, and Fatal returns the first one added regardless
// of what was inserted before it, matching "InternalInvariantViolation
// halts the driver".
func (b *Bag) Add(e *DiagnosticError) {
	if e.IsFatal() && b.fatal == nil {
		b.fatal = e
	}
	b.errors = append(b.errors, e)
}

func (b *Bag) HasErrors() bool { return len(b.errors) > 0 }

func (b *Bag) Fatal() *DiagnosticError { return b.fatal }

func (b *Bag) Errors() []*DiagnosticError { return b.errors }

// Merge appends another bag's errors into this one (per-file
// aggregation by the driver, spec.md §7).
func (b *Bag) Merge(other *Bag) {
	if other == nil {
		return
	}
	b.errors = append(b.errors, other.errors...)
	if b.fatal == nil {
		b.fatal = other.fatal
	}
}

func NameErrorWithSuggestion(tok token.Token, file, name, suggestion string) *DiagnosticError {
	d := &DiagnosticError{
		Code:     NameError,
		Message:  fmt.Sprintf("name %q is not defined", name),
		Token:    tok,
		File:     file,
		CausedBy: "name resolution",
	}
	if suggestion != "" {
		d.Suggestion = suggestion
	}
	return d
}

func TypeErrorf(tok token.Token, file, causedBy, format string, args ...any) *DiagnosticError {
	return &DiagnosticError{
		Code:     TypeError,
		Message:  fmt.Sprintf(format, args...),
		Token:    tok,
		File:     file,
		CausedBy: causedBy,
	}
}

// SyntaxErrorf wraps a parser-reported error (internal/parser collects
// plain strings as it recovers and keeps going; the driver turns each
// into one of these before merging it into the rest of a file's bag).
func SyntaxErrorf(tok token.Token, file, format string, args ...any) *DiagnosticError {
	return &DiagnosticError{
		Code:     SyntaxError,
		Message:  fmt.Sprintf(format, args...),
		Token:    tok,
		File:     file,
		CausedBy: "parsing",
	}
}

func InternalInvariantViolationf(causedBy, format string, args ...any) *DiagnosticError {
	return &DiagnosticError{
		Code:     InternalInvariantViolation,
		Message:  fmt.Sprintf(format, args...),
		CausedBy: causedBy,
	}
}
