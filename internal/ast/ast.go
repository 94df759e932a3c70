// Package ast defines the Ribbon syntax tree: a closed set of node kinds
// built once by the parser and shared read-only by the validator, the
// compiler, and the interpreter.
package ast

import "github.com/ribbon-lang/ribbon/internal/source"

// Blank is the distinguished non-alphabet tape value. It is represented by
// the empty string wherever a symbol is stored.
const Blank = ""

// Render returns the display form of a symbol value, naming Blank "blank".
func Render(value string) string {
	if value == Blank {
		return "blank"
	}
	return value
}

// Termination statuses.
const (
	StatusAccept = "accept"
	StatusReject = "reject"
	StatusHalt   = "halt"
)

// Move directions. Anything else moves right (the tape's default).
const (
	DirLeft  = "left"
	DirRight = "right"
	DirStart = "start"
	DirEnd   = "end"
)

// Node is implemented by every syntax tree node.
type Node interface {
	Span() source.Span
}

// Block is one of BasicBlock, CoreBlock, or SwitchBlock.
type Block interface {
	Node
	block()
}

// Case is one of IfCase, WhileCase, or ElseCase.
type Case interface {
	Node
	caseNode()
}

// Flow is the explicit control command closing a basic block: a GoTo or a
// Termination. A nil Flow means fall through to the next pending block.
type Flow interface {
	Node
	flow()
}

// Program is the root node: one alphabet and an ordered list of modules.
// The first module is the entry point.
type Program struct {
	Alphabet *Alphabet
	Modules  []*Module
	Pos      source.Span
}

// Alphabet is the program's set of single-character symbols, in declaration
// order. Blank is never a member.
type Alphabet struct {
	Symbols []string
	Pos     source.Span
}

// Module is a named, optionally parametrised, reusable sequence of blocks.
// Parameter names are symbolic wildcards scoped to the module body.
type Module struct {
	Name   string
	Params []string
	Blocks []Block
	Pos    source.Span
}

// BasicBlock holds at most one change command, one move command, and one
// flow command, in that order. At least one of the three is present.
type BasicBlock struct {
	Change *ChangeTo // nil: leave the current symbol unchanged
	Move   *Move     // nil: move left
	Flow   Flow      // nil: fall through
	Pos    source.Span
}

// CoreBlock is the restricted body of a while case: exactly one change
// command followed by exactly one move command, never a flow command.
type CoreBlock struct {
	Change *ChangeTo
	Move   *Move
	Pos    source.Span
}

// SwitchBlock branches on the current tape symbol through ordered cases.
type SwitchBlock struct {
	Cases []Case
	Pos   source.Span
}

// IfCase runs its body once when the current symbol is one of Values.
type IfCase struct {
	Values []string // trigger values; Blank allowed
	Body   []Block
	Pos    source.Span
}

// WhileCase repeats its core block while the current symbol is one of
// Values; the enclosing switch re-evaluates after every repetition.
type WhileCase struct {
	Values []string
	Body   *CoreBlock
	Pos    source.Span
}

// ElseCase runs its body when no earlier case matched. At most one per
// switch block, always last.
type ElseCase struct {
	Body []Block
	Pos  source.Span
}

// ChangeTo writes a symbol (or Blank) at the head.
type ChangeTo struct {
	Symbol string // Blank, an alphabet symbol, or a parameter name
	Pos    source.Span
}

// Move moves the head in a direction.
type Move struct {
	Direction string
	Pos       source.Span
}

// GoTo transfers control to a module with an argument value per parameter.
type GoTo struct {
	Target string
	Args   []string
	Pos    source.Span
}

// Termination ends the run with a final status.
type Termination struct {
	Status string // StatusAccept, StatusReject, or StatusHalt
	Pos    source.Span
}

func (n *Program) Span() source.Span     { return n.Pos }
func (n *Alphabet) Span() source.Span    { return n.Pos }
func (n *Module) Span() source.Span      { return n.Pos }
func (n *BasicBlock) Span() source.Span  { return n.Pos }
func (n *CoreBlock) Span() source.Span   { return n.Pos }
func (n *SwitchBlock) Span() source.Span { return n.Pos }
func (n *IfCase) Span() source.Span      { return n.Pos }
func (n *WhileCase) Span() source.Span   { return n.Pos }
func (n *ElseCase) Span() source.Span    { return n.Pos }
func (n *ChangeTo) Span() source.Span    { return n.Pos }
func (n *Move) Span() source.Span        { return n.Pos }
func (n *GoTo) Span() source.Span        { return n.Pos }
func (n *Termination) Span() source.Span { return n.Pos }

func (*BasicBlock) block()  {}
func (*CoreBlock) block()   {}
func (*SwitchBlock) block() {}

func (*IfCase) caseNode()    {}
func (*WhileCase) caseNode() {}
func (*ElseCase) caseNode()  {}

func (*GoTo) flow()        {}
func (*Termination) flow() {}
