// Package lexer tokenizes Ribbon source text into a pull-based stream of
// tokens, tracking a column-indentation stack across physical lines.
package lexer

import "github.com/ribbon-lang/ribbon/internal/source"

// commentMarker opens a full-line comment when it is the first token of a
// physical line.
const commentMarker = "##"

// Lexer produces one token per Advance call. It never fails: malformed
// indentation is reported through the IndentInvalid event and every other
// character sequence lexes as a word or punctuation token for the parser
// to judge.
type Lexer struct {
	source  string
	current int // byte offset of current position
	line    int // current line number (1-based)
	column  int // current column number (1-based)

	tok   Token
	event IndentEvent

	// Indentation tracking
	indentStack []int // stack of indentation column widths
	atLineStart bool  // true when we're at the beginning of a new line
}

// New creates a new Lexer for the given source text.
func New(src string) *Lexer {
	return &Lexer{
		source:      src,
		line:        1,
		column:      1,
		indentStack: []int{0},
		atLineStart: true,
	}
}

// Advance moves to the next token. It returns false only at end of input;
// end of input reached while skipping a trailing comment is a normal end.
func (l *Lexer) Advance() bool {
	l.event = IndentNone

	for {
		if l.atLineStart {
			if !l.processLineStart() {
				return false
			}
			continue
		}

		l.skipInlineWhitespace()
		if l.isAtEnd() {
			return false
		}
		if l.peek() == '\n' || l.peek() == '\r' {
			l.consumeNewline()
			l.atLineStart = true
			continue
		}

		l.scanToken()
		return true
	}
}

// Token returns the current token. Valid after Advance returned true.
func (l *Lexer) Token() Token {
	return l.tok
}

// Span returns the current token's source span.
func (l *Lexer) Span() source.Span {
	return l.tok.Span
}

// Event returns the line-boundary outcome observed when the current token's
// line began. Tokens past the first of a line always report IndentNone.
func (l *Lexer) Event() IndentEvent {
	return l.event
}

// Indentation returns a read-only snapshot of the indentation stack.
func (l *Lexer) Indentation() []int {
	out := make([]int, len(l.indentStack))
	copy(out, l.indentStack)
	return out
}

// Depth returns the number of open indentation levels.
func (l *Lexer) Depth() int {
	return len(l.indentStack)
}

// processLineStart handles the beginning of a physical line: blank line
// skipping, full-line comments, and indentation stack maintenance. It
// returns false at end of input. On return true the cursor sits before the
// line's first token with atLineStart cleared and l.event set.
func (l *Lexer) processLineStart() bool {
	// Measure leading whitespace width in columns.
	width := 0
	for !l.isAtEnd() {
		c := l.peek()
		if c == ' ' || c == '\t' {
			width++
			l.advance()
		} else {
			break
		}
	}

	if l.isAtEnd() {
		return false
	}

	c := l.peek()

	// Blank line: skip entirely, no stack change.
	if c == '\n' || c == '\r' {
		l.consumeNewline()
		return true
	}

	// Comment line: the line's first token is the ## marker. The whole line
	// is skipped and the indentation stack is left untouched.
	if l.peekWord() == commentMarker {
		l.skipToLineEnd()
		return true
	}

	// Indentation change relative to the stack top.
	top := l.indentStack[len(l.indentStack)-1]
	switch {
	case width > top:
		l.indentStack = append(l.indentStack, width)
		l.event = IndentIncrease
	case width < top:
		if l.stackHas(width) {
			for l.indentStack[len(l.indentStack)-1] > width {
				l.indentStack = l.indentStack[:len(l.indentStack)-1]
			}
			l.event = IndentDecrease
		} else {
			l.event = IndentInvalid
		}
	}

	l.atLineStart = false
	return true
}

// scanToken scans the token at the current position. The caller has already
// ruled out whitespace, newlines, and end of input.
func (l *Lexer) scanToken() {
	startLine, startCol := l.line, l.column

	if t, ok := punctuation[l.peek()]; ok {
		text := string(l.peek())
		l.advance()
		l.emit(t, text, startLine, startCol)
		return
	}

	// Maximal run of non-space, non-punctuation characters.
	start := l.current
	for !l.isAtEnd() {
		c := l.peek()
		if c == ' ' || c == '\t' || c == '\n' || c == '\r' {
			break
		}
		if _, ok := punctuation[c]; ok {
			break
		}
		l.advance()
	}
	l.emit(TOKEN_WORD, l.source[start:l.current], startLine, startCol)
}

// emit records the current token.
func (l *Lexer) emit(t TokenType, text string, startLine, startCol int) {
	l.tok = Token{
		Type: t,
		Text: text,
		Span: source.Span{
			StartLine: startLine,
			EndLine:   l.line,
			StartCol:  startCol,
			EndCol:    l.column,
		},
	}
}

// ── Cursor helpers ──

func (l *Lexer) isAtEnd() bool {
	return l.current >= len(l.source)
}

func (l *Lexer) peek() byte {
	if l.isAtEnd() {
		return 0
	}
	return l.source[l.current]
}

// peekWord returns the word run at the cursor without consuming it.
func (l *Lexer) peekWord() string {
	end := l.current
	for end < len(l.source) {
		c := l.source[end]
		if c == ' ' || c == '\t' || c == '\n' || c == '\r' {
			break
		}
		if _, ok := punctuation[c]; ok {
			break
		}
		end++
	}
	return l.source[l.current:end]
}

func (l *Lexer) advance() {
	if l.isAtEnd() {
		return
	}
	l.current++
	l.column++
}

// consumeNewline consumes \n, \r, or \r\n and starts the next line.
func (l *Lexer) consumeNewline() {
	if l.peek() == '\r' {
		l.advance()
	}
	if l.peek() == '\n' {
		l.advance()
	}
	l.line++
	l.column = 1
}

// skipToLineEnd consumes the rest of the current line including its newline.
func (l *Lexer) skipToLineEnd() {
	for !l.isAtEnd() && l.peek() != '\n' && l.peek() != '\r' {
		l.advance()
	}
	if !l.isAtEnd() {
		l.consumeNewline()
	}
}

func (l *Lexer) skipInlineWhitespace() {
	for !l.isAtEnd() && (l.peek() == ' ' || l.peek() == '\t') {
		l.advance()
	}
}

func (l *Lexer) stackHas(width int) bool {
	for _, w := range l.indentStack {
		if w == width {
			return true
		}
	}
	return false
}
