// Package source carries positions in Ribbon program text.
package source

import "fmt"

// Span marks a region of program text. Lines and columns are 1-based;
// EndCol points one past the last character. Spans ride along on every
// token and syntax tree node and are used only for diagnostics.
type Span struct {
	StartLine int
	EndLine   int
	StartCol  int
	EndCol    int
}

// At returns a single-point span.
func At(line, col int) Span {
	return Span{StartLine: line, EndLine: line, StartCol: col, EndCol: col}
}

// To returns the smallest span covering both s and o.
func (s Span) To(o Span) Span {
	out := s
	if o.StartLine < out.StartLine || (o.StartLine == out.StartLine && o.StartCol < out.StartCol) {
		out.StartLine, out.StartCol = o.StartLine, o.StartCol
	}
	if o.EndLine > out.EndLine || (o.EndLine == out.EndLine && o.EndCol > out.EndCol) {
		out.EndLine, out.EndCol = o.EndLine, o.EndCol
	}
	return out
}

// String renders the span's start position for terminal output.
func (s Span) String() string {
	return fmt.Sprintf("line %d, column %d", s.StartLine, s.StartCol)
}
