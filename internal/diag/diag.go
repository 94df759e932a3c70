// Package diag defines the positioned diagnostic produced by every stage
// of the Ribbon pipeline. Each stage fails fast: the first violation is
// returned as an *Error and the stage stops.
package diag

import (
	"fmt"

	"github.com/ribbon-lang/ribbon/internal/source"
)

// Error is a single diagnostic: a message tied to a source span.
// The message text is part of the tool's observable contract, so callers
// must not rewrite it; Suggestion is advisory and may be dropped.
type Error struct {
	Message    string
	Span       source.Span
	Suggestion string // e.g. `Did you mean "copy"?` (optional)
}

// New creates a diagnostic at the given span.
func New(span source.Span, message string) *Error {
	return &Error{Message: message, Span: span}
}

// Newf creates a diagnostic with a formatted message.
func Newf(span source.Span, format string, args ...interface{}) *Error {
	return &Error{Message: fmt.Sprintf(format, args...), Span: span}
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Span, e.Message)
}
