// Package parser builds the Ribbon syntax tree from source text by
// recursive descent over the lexer's token stream. The grammar is
// indentation-driven: every advance states whether an indent or a dedent
// is acceptable at that point, and the first violation aborts the parse
// with a positioned diagnostic.
package parser

import (
	"github.com/ribbon-lang/ribbon/internal/ast"
	"github.com/ribbon-lang/ribbon/internal/diag"
	"github.com/ribbon-lang/ribbon/internal/lexer"
	"github.com/ribbon-lang/ribbon/internal/source"
)

// Parse lexes and parses Ribbon source into a syntax tree. The returned
// tree is structurally well-formed but not yet validated.
func Parse(src string) (*ast.Program, error) {
	p := &parser{lex: lexer.New(src)}
	prog, err := p.parseProgram()
	if err != nil {
		// Return a plain nil interface, not a typed nil *diag.Error.
		return nil, err
	}
	return prog, nil
}

// parser holds the state for a single parse run. The cursor always sits on
// the current token; eof flips when the lexer runs out.
type parser struct {
	lex      *lexer.Lexer
	tok      lexer.Token
	event    lexer.IndentEvent
	depth    int // indentation stack depth at the current token
	eof      bool
	lastSpan source.Span // span of the last consumed token, for EOF errors
}

// ── Movement ──

// next advances to the following token. allowIndent and allowDedent state
// which indentation changes are legal at this call site; anything else is
// a positioned error. At end of input next sets eof and succeeds; callers
// that need a token follow up with require.
func (p *parser) next(allowIndent, allowDedent bool) *diag.Error {
	if !p.eof {
		p.lastSpan = p.tok.Span
	}
	if !p.lex.Advance() {
		p.eof = true
		return nil
	}
	p.tok = p.lex.Token()
	p.event = p.lex.Event()
	p.depth = p.lex.Depth()

	switch p.event {
	case lexer.IndentInvalid:
		return diag.New(p.tok.Span, "Invalid indentation.")
	case lexer.IndentIncrease:
		if !allowIndent {
			return diag.New(p.tok.Span, "Unexpected indentation.")
		}
	case lexer.IndentDecrease:
		if !allowDedent {
			return diag.New(p.tok.Span, "Unexpected de-indentation.")
		}
	}
	return nil
}

// require fails when the cursor has run past the end of the input.
func (p *parser) require() *diag.Error {
	if p.eof {
		return diag.New(p.lastSpan, "Unexpected end of file.")
	}
	return nil
}

// expect fails unless the current token is exactly the given literal.
func (p *parser) expect(literal string) *diag.Error {
	if err := p.require(); err != nil {
		return err
	}
	if p.tok.Text != literal {
		return diag.Newf(p.tok.Span, "Expected value %q to be %q.", p.tok.Text, literal)
	}
	return nil
}

// ── Values ──

// value reads the current token as a symbol value: a single lowercase
// letter or digit, or the blank keyword where blank is allowed. The cursor
// is not moved.
func (p *parser) value(allowBlank bool) (string, *diag.Error) {
	if err := p.require(); err != nil {
		return "", err
	}
	t := p.tok.Text
	if allowBlank && t == "blank" {
		return ast.Blank, nil
	}
	if len(t) != 1 || !isValueChar(t[0]) {
		return "", diag.Newf(p.tok.Span, "Value %q should be a single lowercase letter or digit.", t)
	}
	return t, nil
}

func isValueChar(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9')
}

// valueList reads a possibly empty comma-separated value list, stopping at
// (and not consuming) the closing literal. The whole list sits on one line.
func (p *parser) valueList(allowBlank bool, closer string) ([]string, *diag.Error) {
	if err := p.require(); err != nil {
		return nil, err
	}
	var values []string
	if p.tok.Text == closer {
		return values, nil
	}
	for {
		v, err := p.value(allowBlank)
		if err != nil {
			return nil, err
		}
		values = append(values, v)
		if err := p.next(false, false); err != nil {
			return nil, err
		}
		if err := p.require(); err != nil {
			return nil, err
		}
		if p.tok.Text != "," {
			return values, nil
		}
		if err := p.next(false, false); err != nil {
			return nil, err
		}
	}
}

// ── Productions ──

func (p *parser) parseProgram() (*ast.Program, *diag.Error) {
	if err := p.next(false, false); err != nil {
		return nil, err
	}
	if err := p.require(); err != nil {
		return nil, err
	}
	start := p.tok.Span

	alphabet, err := p.parseAlphabet()
	if err != nil {
		return nil, err
	}

	var modules []*ast.Module
	for !p.eof {
		m, err := p.parseModule()
		if err != nil {
			return nil, err
		}
		modules = append(modules, m)
	}

	return &ast.Program{
		Alphabet: alphabet,
		Modules:  modules,
		Pos:      start.To(p.lastSpan),
	}, nil
}

// parseAlphabet parses: alphabet = [ a, b, … ]
func (p *parser) parseAlphabet() (*ast.Alphabet, *diag.Error) {
	start := p.tok.Span
	if err := p.expect("alphabet"); err != nil {
		return nil, err
	}
	if err := p.next(false, false); err != nil {
		return nil, err
	}
	if err := p.expect("="); err != nil {
		return nil, err
	}
	if err := p.next(false, false); err != nil {
		return nil, err
	}
	if err := p.expect("["); err != nil {
		return nil, err
	}
	if err := p.next(false, false); err != nil {
		return nil, err
	}
	symbols, err := p.valueList(false, "]")
	if err != nil {
		return nil, err
	}
	if err := p.expect("]"); err != nil {
		return nil, err
	}
	end := p.tok.Span
	if err := p.next(false, false); err != nil {
		return nil, err
	}
	return &ast.Alphabet{Symbols: symbols, Pos: start.To(end)}, nil
}

// parseModule parses: module IDENT ( params ) : INDENT block+
func (p *parser) parseModule() (*ast.Module, *diag.Error) {
	start := p.tok.Span
	if err := p.expect("module"); err != nil {
		return nil, err
	}
	if err := p.next(false, false); err != nil {
		return nil, err
	}
	if err := p.require(); err != nil {
		return nil, err
	}
	name := p.tok.Text
	if err := p.next(false, false); err != nil {
		return nil, err
	}
	if err := p.expect("("); err != nil {
		return nil, err
	}
	if err := p.next(false, false); err != nil {
		return nil, err
	}
	params, err := p.valueList(false, ")")
	if err != nil {
		return nil, err
	}
	if err := p.expect(")"); err != nil {
		return nil, err
	}
	if err := p.next(false, false); err != nil {
		return nil, err
	}
	if err := p.expect(":"); err != nil {
		return nil, err
	}

	bodyDepth, err := p.enterBody()
	if err != nil {
		return nil, err
	}
	blocks, err := p.blockSequence(bodyDepth)
	if err != nil {
		return nil, err
	}

	return &ast.Module{
		Name:   name,
		Params: params,
		Blocks: blocks,
		Pos:    start.To(p.lastSpan),
	}, nil
}

// enterBody consumes the token after a block header's colon and demands
// exactly one new indentation level, returning the body's depth.
func (p *parser) enterBody() (int, *diag.Error) {
	if err := p.next(true, false); err != nil {
		return 0, err
	}
	if err := p.require(); err != nil {
		return 0, err
	}
	if p.event != lexer.IndentIncrease {
		return 0, diag.New(p.tok.Span, "Expected indentation.")
	}
	return p.depth, nil
}

// blockSequence parses blocks while the cursor stays at the given depth.
// A dedent below it hands control back to the caller.
func (p *parser) blockSequence(depth int) ([]ast.Block, *diag.Error) {
	var blocks []ast.Block
	for !p.eof && p.depth == depth {
		b, err := p.parseBlock(depth)
		if err != nil {
			return nil, err
		}
		blocks = append(blocks, b)
	}
	return blocks, nil
}

// parseBlock dispatches between a switch block and a basic block. Command
// keywords open a basic block; everything else is treated as the start of
// a switch block, whose case parser names the token when it is not a case
// keyword either.
func (p *parser) parseBlock(depth int) (ast.Block, *diag.Error) {
	if isCommandKeyword(p.tok.Text) {
		return p.parseBasicBlock(depth)
	}
	return p.parseSwitchBlock(depth)
}

func isCommandKeyword(t string) bool {
	switch t {
	case "changeto", "move", "goto", ast.StatusAccept, ast.StatusReject, ast.StatusHalt:
		return true
	}
	return false
}

func isCaseKeyword(t string) bool {
	return t == "if" || t == "while" || t == "else"
}

// parseBasicBlock greedily consumes the block's optional parts in fixed
// order (change, move, flow), re-checking after each part whether a
// dedent has ended the block early.
func (p *parser) parseBasicBlock(depth int) (*ast.BasicBlock, *diag.Error) {
	start := p.tok.Span
	blk := &ast.BasicBlock{}
	parts := 0

	if p.tok.Text == "changeto" {
		change, err := p.parseChangeTo(true)
		if err != nil {
			return nil, err
		}
		blk.Change = change
		parts++
		if p.eof || p.depth < depth {
			blk.Pos = start.To(p.lastSpan)
			return blk, nil
		}
	}

	if p.tok.Text == "move" {
		move, err := p.parseMove(true)
		if err != nil {
			return nil, err
		}
		blk.Move = move
		parts++
		if p.eof || p.depth < depth {
			blk.Pos = start.To(p.lastSpan)
			return blk, nil
		}
	}

	switch {
	case p.tok.Text == "goto":
		flow, err := p.parseGoTo()
		if err != nil {
			return nil, err
		}
		blk.Flow = flow
		parts++
	case isTerminationKeyword(p.tok.Text):
		flow, err := p.parseTermination()
		if err != nil {
			return nil, err
		}
		blk.Flow = flow
		parts++
	}

	if parts == 0 {
		return nil, diag.Newf(p.tok.Span, "Invalid command: %q.", p.tok.Text)
	}
	blk.Pos = start.To(p.lastSpan)
	return blk, nil
}

func isTerminationKeyword(t string) bool {
	return t == ast.StatusAccept || t == ast.StatusReject || t == ast.StatusHalt
}

// parseCoreBlock parses the restricted while-case body: exactly one change
// command followed by exactly one move command. No dedent may split the
// pair.
func (p *parser) parseCoreBlock(depth int) (*ast.CoreBlock, *diag.Error) {
	start := p.tok.Span
	if p.tok.Text != "changeto" {
		return nil, diag.Newf(p.tok.Span, "Invalid command: %q.", p.tok.Text)
	}
	change, err := p.parseChangeTo(false)
	if err != nil {
		return nil, err
	}
	if err := p.expect("move"); err != nil {
		return nil, err
	}
	move, err := p.parseMove(true)
	if err != nil {
		return nil, err
	}
	// A while body holds the change/move pair and nothing more.
	if !p.eof && p.depth >= depth {
		return nil, diag.Newf(p.tok.Span, "Invalid command: %q.", p.tok.Text)
	}
	return &ast.CoreBlock{Change: change, Move: move, Pos: start.To(p.lastSpan)}, nil
}

// parseChangeTo parses: changeto <symbol-or-blank>
func (p *parser) parseChangeTo(allowDedent bool) (*ast.ChangeTo, *diag.Error) {
	start := p.tok.Span
	if err := p.next(false, false); err != nil {
		return nil, err
	}
	symbol, err := p.value(true)
	if err != nil {
		return nil, err
	}
	end := p.tok.Span
	if err := p.next(false, allowDedent); err != nil {
		return nil, err
	}
	return &ast.ChangeTo{Symbol: symbol, Pos: start.To(end)}, nil
}

// parseMove parses: move <direction>. Directions are taken as written; the
// tape resolves anything unrecognized as a move to the right.
func (p *parser) parseMove(allowDedent bool) (*ast.Move, *diag.Error) {
	start := p.tok.Span
	if err := p.next(false, false); err != nil {
		return nil, err
	}
	if err := p.require(); err != nil {
		return nil, err
	}
	direction := p.tok.Text
	end := p.tok.Span
	if err := p.next(false, allowDedent); err != nil {
		return nil, err
	}
	return &ast.Move{Direction: direction, Pos: start.To(end)}, nil
}

// parseGoTo parses: goto IDENT ( args )
func (p *parser) parseGoTo() (*ast.GoTo, *diag.Error) {
	start := p.tok.Span
	if err := p.next(false, false); err != nil {
		return nil, err
	}
	if err := p.require(); err != nil {
		return nil, err
	}
	target := p.tok.Text
	if err := p.next(false, false); err != nil {
		return nil, err
	}
	if err := p.expect("("); err != nil {
		return nil, err
	}
	if err := p.next(false, false); err != nil {
		return nil, err
	}
	args, err := p.valueList(false, ")")
	if err != nil {
		return nil, err
	}
	if err := p.expect(")"); err != nil {
		return nil, err
	}
	end := p.tok.Span
	if err := p.next(false, true); err != nil {
		return nil, err
	}
	return &ast.GoTo{Target: target, Args: args, Pos: start.To(end)}, nil
}

// parseTermination parses a bare accept, reject, or halt.
func (p *parser) parseTermination() (*ast.Termination, *diag.Error) {
	start := p.tok.Span
	status := p.tok.Text
	if err := p.next(false, true); err != nil {
		return nil, err
	}
	return &ast.Termination{Status: status, Pos: start}, nil
}

// parseSwitchBlock parses consecutive cases at the same indentation level.
func (p *parser) parseSwitchBlock(depth int) (*ast.SwitchBlock, *diag.Error) {
	start := p.tok.Span
	sw := &ast.SwitchBlock{}
	for {
		c, err := p.parseCase(depth)
		if err != nil {
			return nil, err
		}
		sw.Cases = append(sw.Cases, c)
		if p.eof || p.depth != depth || !isCaseKeyword(p.tok.Text) {
			break
		}
	}
	sw.Pos = start.To(p.lastSpan)
	return sw, nil
}

// parseCase parses one if, while, or else case including its body.
func (p *parser) parseCase(depth int) (ast.Case, *diag.Error) {
	start := p.tok.Span

	switch p.tok.Text {
	case "if":
		if err := p.next(false, false); err != nil {
			return nil, err
		}
		values, err := p.valueList(true, ":")
		if err != nil {
			return nil, err
		}
		if err := p.expect(":"); err != nil {
			return nil, err
		}
		bodyDepth, err := p.enterBody()
		if err != nil {
			return nil, err
		}
		body, err := p.blockSequence(bodyDepth)
		if err != nil {
			return nil, err
		}
		return &ast.IfCase{Values: values, Body: body, Pos: start.To(p.lastSpan)}, nil

	case "while":
		if err := p.next(false, false); err != nil {
			return nil, err
		}
		values, err := p.valueList(true, ":")
		if err != nil {
			return nil, err
		}
		if err := p.expect(":"); err != nil {
			return nil, err
		}
		bodyDepth, err := p.enterBody()
		if err != nil {
			return nil, err
		}
		body, err := p.parseCoreBlock(bodyDepth)
		if err != nil {
			return nil, err
		}
		return &ast.WhileCase{Values: values, Body: body, Pos: start.To(p.lastSpan)}, nil

	case "else":
		if err := p.next(false, false); err != nil {
			return nil, err
		}
		if err := p.expect(":"); err != nil {
			return nil, err
		}
		bodyDepth, err := p.enterBody()
		if err != nil {
			return nil, err
		}
		body, err := p.blockSequence(bodyDepth)
		if err != nil {
			return nil, err
		}
		return &ast.ElseCase{Body: body, Pos: start.To(p.lastSpan)}, nil
	}

	return nil, diag.Newf(p.tok.Span, "Unexpected start of case: %q.", p.tok.Text)
}
