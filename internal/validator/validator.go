// Package validator proves a parsed Ribbon program well-formed. It runs a
// single pass in tree order, never mutates the tree, and returns the first
// violation it finds as a positioned diagnostic.
package validator

import (
	"fmt"
	"strings"

	"github.com/ribbon-lang/ribbon/internal/ast"
	"github.com/ribbon-lang/ribbon/internal/diag"
)

const suggestionThreshold = 0.6

// Validate checks every semantic rule of the language against the program.
// A nil return means the tree is safe to compile and interpret.
func Validate(prog *ast.Program) error {
	v := &validator{
		alphabet: make(map[string]bool),
		modules:  make(map[string]*ast.Module),
	}
	if err := v.run(prog); err != nil {
		return err
	}
	return nil
}

type validator struct {
	alphabet map[string]bool
	order    []string // alphabet symbols in declaration order
	modules  map[string]*ast.Module
	names    []string // module names in declaration order, for suggestions

	// Scope of the module currently being checked.
	current *ast.Module
	params  map[string]bool
}

func (v *validator) run(prog *ast.Program) *diag.Error {
	if len(prog.Alphabet.Symbols) == 0 {
		return diag.New(prog.Alphabet.Span(), "A program should have a nonempty alphabet.")
	}
	for _, s := range prog.Alphabet.Symbols {
		v.alphabet[s] = true
	}
	v.order = prog.Alphabet.Symbols

	if len(prog.Modules) == 0 {
		return diag.New(prog.Span(), "A program should have at least one module.")
	}
	for _, m := range prog.Modules {
		if v.modules[m.Name] != nil {
			return diag.Newf(m.Span(), "Duplicate module name %q.", m.Name)
		}
		v.modules[m.Name] = m
		v.names = append(v.names, m.Name)
	}
	if len(prog.Modules[0].Params) > 0 {
		return diag.New(prog.Modules[0].Span(), "The first module should not have parameters.")
	}

	for _, m := range prog.Modules {
		if err := v.checkModule(m); err != nil {
			return err
		}
	}
	return nil
}

func (v *validator) checkModule(m *ast.Module) *diag.Error {
	v.current = m
	v.params = make(map[string]bool, len(m.Params))
	for _, p := range m.Params {
		if v.alphabet[p] {
			return diag.Newf(m.Span(), "Parameter %q should not be an alphabet symbol.", p)
		}
		v.params[p] = true
	}
	return v.checkBlocks(m.Blocks)
}

func (v *validator) checkBlocks(blocks []ast.Block) *diag.Error {
	for _, b := range blocks {
		if err := v.checkBlock(b); err != nil {
			return err
		}
	}
	return nil
}

// checkBlock dispatches on the block's concrete kind.
func (v *validator) checkBlock(b ast.Block) *diag.Error {
	return ast.Visit(ast.Visitor[*diag.Error]{
		Basic:  v.checkBasic,
		Core:   v.checkCore,
		Switch: v.checkSwitch,
	}, b)
}

func (v *validator) checkBasic(b *ast.BasicBlock) *diag.Error {
	if b.Change != nil {
		if err := v.checkChangeTarget(b.Change); err != nil {
			return err
		}
	}
	if b.Flow == nil {
		return nil
	}
	return ast.Visit(ast.Visitor[*diag.Error]{
		GoTo:        v.checkGoTo,
		Termination: func(*ast.Termination) *diag.Error { return nil },
	}, b.Flow)
}

func (v *validator) checkCore(b *ast.CoreBlock) *diag.Error {
	return v.checkChangeTarget(b.Change)
}

// checkChangeTarget accepts blank, an alphabet symbol, or a parameter bound
// in the current module.
func (v *validator) checkChangeTarget(c *ast.ChangeTo) *diag.Error {
	if c.Symbol == ast.Blank || v.alphabet[c.Symbol] || v.params[c.Symbol] {
		return nil
	}
	return diag.Newf(c.Span(), "Change target %q should be blank, an alphabet symbol, or a parameter.", c.Symbol)
}

func (v *validator) checkGoTo(g *ast.GoTo) *diag.Error {
	target := v.modules[g.Target]
	if target == nil {
		err := diag.Newf(g.Span(), "Module %q is not defined.", g.Target)
		if closest := diag.FindClosest(g.Target, v.names, suggestionThreshold); closest != "" {
			err.Suggestion = fmt.Sprintf("Did you mean %q?", closest)
		}
		return err
	}
	if len(g.Args) != len(target.Params) {
		return diag.Newf(g.Span(), "Module %q expects %d arguments, got %d.",
			g.Target, len(target.Params), len(g.Args))
	}
	return nil
}

func (v *validator) checkSwitch(sw *ast.SwitchBlock) *diag.Error {
	seen := make(map[string]bool)
	paramCovered := false
	hasElse := false

	for i, c := range sw.Cases {
		var values []string
		switch c := c.(type) {
		case *ast.IfCase:
			values = c.Values
			if err := v.checkCaseBody(c.Body, c); err != nil {
				return err
			}
		case *ast.WhileCase:
			values = c.Values
		case *ast.ElseCase:
			if i != len(sw.Cases)-1 {
				return diag.New(c.Span(), "An else case should be the last case of a switch block.")
			}
			hasElse = true
			if err := v.checkCaseBody(c.Body, c); err != nil {
				return err
			}
			continue
		}

		if len(values) == 0 {
			return diag.New(c.Span(), "A case should apply to at least one value.")
		}
		for _, val := range values {
			if seen[val] {
				return diag.Newf(c.Span(), "Duplicate case value %q.", ast.Render(val))
			}
			seen[val] = true
			if v.params[val] {
				paramCovered = true
			}
		}
	}

	// Parameter wildcards cannot be proven exhaustive statically; only an
	// else case closes the gap.
	if paramCovered && !hasElse {
		return diag.New(sw.Span(), "A switch block with parameter values must have an else case.")
	}
	if !hasElse {
		if missing := v.missingValues(seen); len(missing) > 0 {
			return diag.Newf(sw.Span(), "A switch block should cover every value; missing: %s.",
				strings.Join(missing, ", "))
		}
	}

	// Descend into bodies after the switch's own rules.
	for _, c := range sw.Cases {
		err := ast.Visit(ast.Visitor[*diag.Error]{
			If:    func(c *ast.IfCase) *diag.Error { return v.checkBlocks(c.Body) },
			While: func(c *ast.WhileCase) *diag.Error { return v.checkCore(c.Body) },
			Else:  func(c *ast.ElseCase) *diag.Error { return v.checkBlocks(c.Body) },
		}, c)
		if err != nil {
			return err
		}
	}
	return nil
}

// checkCaseBody enforces the shape of an if/else body: it never starts with
// a nested switch block.
func (v *validator) checkCaseBody(body []ast.Block, c ast.Case) *diag.Error {
	if len(body) == 0 {
		return nil
	}
	if _, ok := body[0].(*ast.BasicBlock); !ok {
		return diag.New(c.Span(), "The first block of a case should be a basic block.")
	}
	return nil
}

// missingValues lists the uncovered part of {alphabet ∪ blank ∪ params} in
// a stable order: declared symbols, blank, then parameters.
func (v *validator) missingValues(seen map[string]bool) []string {
	var missing []string
	for _, s := range v.order {
		if !seen[s] {
			missing = append(missing, s)
		}
	}
	if !seen[ast.Blank] {
		missing = append(missing, ast.Render(ast.Blank))
	}
	for _, p := range v.current.Params {
		if !seen[p] {
			missing = append(missing, p)
		}
	}
	return missing
}
