package lexer

import (
	"fmt"

	"github.com/ribbon-lang/ribbon/internal/source"
)

// TokenType represents the type of a lexical token.
type TokenType int

const (
	// TOKEN_WORD is a maximal run of non-space, non-punctuation characters:
	// keywords, module identifiers, single-character symbols.
	TOKEN_WORD TokenType = iota

	// Punctuation: each character is its own token.
	TOKEN_EQUALS   // =
	TOKEN_LBRACKET // [
	TOKEN_RBRACKET // ]
	TOKEN_LPAREN   // (
	TOKEN_RPAREN   // )
	TOKEN_COMMA    // ,
	TOKEN_COLON    // :
)

// tokenNames maps token types to their display names.
var tokenNames = map[TokenType]string{
	TOKEN_WORD:     "WORD",
	TOKEN_EQUALS:   "=",
	TOKEN_LBRACKET: "[",
	TOKEN_RBRACKET: "]",
	TOKEN_LPAREN:   "(",
	TOKEN_RPAREN:   ")",
	TOKEN_COMMA:    ",",
	TOKEN_COLON:    ":",
}

// String returns the display name of a token type.
func (t TokenType) String() string {
	if name, ok := tokenNames[t]; ok {
		return name
	}
	return fmt.Sprintf("TOKEN(%d)", int(t))
}

// punctuation maps each punctuation character to its token type.
var punctuation = map[byte]TokenType{
	'=': TOKEN_EQUALS,
	'[': TOKEN_LBRACKET,
	']': TOKEN_RBRACKET,
	'(': TOKEN_LPAREN,
	')': TOKEN_RPAREN,
	',': TOKEN_COMMA,
	':': TOKEN_COLON,
}

// Token is a single lexical token with its position in the source.
type Token struct {
	Type TokenType
	Text string // the actual source text of the token
	Span source.Span
}

// String returns a human-readable representation of a token.
func (t Token) String() string {
	if t.Type == TOKEN_WORD {
		return fmt.Sprintf("WORD(%q)", t.Text)
	}
	return t.Type.String()
}

// IndentEvent is the outcome of the line-boundary indentation check for the
// current token. Every token after the first of its line carries IndentNone.
type IndentEvent int

const (
	IndentNone     IndentEvent = iota
	IndentIncrease             // the line pushed one new indentation level
	IndentDecrease             // the line popped one or more levels
	IndentInvalid              // the line's width matches no open level
)

// String returns the display name of an indentation event.
func (e IndentEvent) String() string {
	switch e {
	case IndentNone:
		return "none"
	case IndentIncrease:
		return "increase"
	case IndentDecrease:
		return "decrease"
	case IndentInvalid:
		return "invalid"
	}
	return fmt.Sprintf("event(%d)", int(e))
}
