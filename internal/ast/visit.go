package ast

import "fmt"

// Visitor routes a node to the handler for its concrete kind, with a
// caller-chosen result type. It is the tree's one mechanism for per-kind
// behavior: the validator and the compiler each instantiate a Visitor over
// the node subsets they dispatch on.
type Visitor[T any] struct {
	Program     func(*Program) T
	Alphabet    func(*Alphabet) T
	Module      func(*Module) T
	Basic       func(*BasicBlock) T
	Core        func(*CoreBlock) T
	Switch      func(*SwitchBlock) T
	If          func(*IfCase) T
	While       func(*WhileCase) T
	Else        func(*ElseCase) T
	ChangeTo    func(*ChangeTo) T
	Move        func(*Move) T
	GoTo        func(*GoTo) T
	Termination func(*Termination) T
}

// Visit dispatches n to its handler. It panics on a node kind the visitor
// has no handler for: the node set is closed, so a missing handler is a
// programming error in the pass, not an input error.
func Visit[T any](v Visitor[T], n Node) T {
	switch n := n.(type) {
	case *Program:
		if v.Program != nil {
			return v.Program(n)
		}
	case *Alphabet:
		if v.Alphabet != nil {
			return v.Alphabet(n)
		}
	case *Module:
		if v.Module != nil {
			return v.Module(n)
		}
	case *BasicBlock:
		if v.Basic != nil {
			return v.Basic(n)
		}
	case *CoreBlock:
		if v.Core != nil {
			return v.Core(n)
		}
	case *SwitchBlock:
		if v.Switch != nil {
			return v.Switch(n)
		}
	case *IfCase:
		if v.If != nil {
			return v.If(n)
		}
	case *WhileCase:
		if v.While != nil {
			return v.While(n)
		}
	case *ElseCase:
		if v.Else != nil {
			return v.Else(n)
		}
	case *ChangeTo:
		if v.ChangeTo != nil {
			return v.ChangeTo(n)
		}
	case *Move:
		if v.Move != nil {
			return v.Move(n)
		}
	case *GoTo:
		if v.GoTo != nil {
			return v.GoTo(n)
		}
	case *Termination:
		if v.Termination != nil {
			return v.Termination(n)
		}
	}
	panic(fmt.Sprintf("ast: no handler for %T", n))
}
