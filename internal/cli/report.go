package cli

import (
	"fmt"
	"strings"

	"github.com/ribbon-lang/ribbon/internal/diag"
)

// Report renders a diagnostic for terminal output: the positioned message,
// the offending source line with a caret under the span, and a suggestion
// if one is attached.
func Report(err error, source string) string {
	d, ok := err.(*diag.Error)
	if !ok {
		return Error(err.Error())
	}

	var b strings.Builder
	b.WriteString(Error(d.Error()))

	lines := strings.Split(source, "\n")
	if d.Span.StartLine >= 1 && d.Span.StartLine <= len(lines) {
		line := lines[d.Span.StartLine-1]
		b.WriteByte('\n')
		b.WriteString(Dim(fmt.Sprintf("%4d | %s", d.Span.StartLine, line)))
		if d.Span.StartCol >= 1 {
			width := 1
			if d.Span.EndLine == d.Span.StartLine && d.Span.EndCol > d.Span.StartCol {
				width = d.Span.EndCol - d.Span.StartCol
			}
			b.WriteByte('\n')
			b.WriteString("     | ")
			b.WriteString(strings.Repeat(" ", d.Span.StartCol-1))
			b.WriteString(Highlight(strings.Repeat("^", width)))
		}
	}
	if d.Suggestion != "" {
		b.WriteByte('\n')
		b.WriteString(Info(d.Suggestion))
	}
	return b.String()
}
