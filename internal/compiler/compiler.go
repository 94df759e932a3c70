// Package compiler lowers a validated program into a finite automaton.
//
// Each module invocation, a (module name, argument tuple) pair, is lowered
// at most once and memoized, so repeated and recursive goto commands share
// one fragment of the state table. Labels are derived from the invocation's
// base identifier plus a per-sequence counter, which keeps them stable and
// collision-free across runs.
package compiler

import (
	"fmt"
	"strings"

	"github.com/ribbon-lang/ribbon/internal/ast"
	"github.com/ribbon-lang/ribbon/internal/machine"
	"github.com/ribbon-lang/ribbon/internal/tape"
)

// Compile lowers a validated program. The first module is the entry point.
// The input must have passed validation; Compile does not re-check it.
func Compile(prog *ast.Program) *machine.Machine {
	c := &compiler{
		modules:     make(map[string]*ast.Module, len(prog.Modules)),
		alphabet:    prog.Alphabet.Symbols,
		states:      make(map[string]machine.State),
		constructed: make(map[string]bool),
	}
	for _, m := range prog.Modules {
		c.modules[m.Name] = m
	}
	entry := c.invoke(prog.Modules[0].Name, nil)
	return &machine.Machine{Initial: entry, States: c.states}
}

type compiler struct {
	modules     map[string]*ast.Module
	alphabet    []string
	states      map[string]machine.State
	constructed map[string]bool
	frames      []*seqFrame
}

// seqFrame is one active block sequence during lowering. The fallthrough
// search walks these innermost-out and never crosses a module boundary.
type seqFrame struct {
	labels   []string
	idx      int
	isModule bool
}

// invoke lowers a module invocation unless an identical one was already
// built, and returns its entry label either way.
func (c *compiler) invoke(name string, args []string) string {
	base := baseLabel(name, args)
	entry := base + "-0"
	if c.constructed[base] {
		return entry
	}
	// Mark before descending so a recursive goto resolves to this same
	// fragment instead of looping forever.
	c.constructed[base] = true

	mod := c.modules[name]
	bindings := make(map[string]string, len(mod.Params))
	for i, p := range mod.Params {
		bindings[p] = args[i]
	}
	c.lowerSequence(base, mod.Blocks, bindings, true)
	return entry
}

// lowerSequence assigns labels to every block of a sequence up front, then
// lowers each block with the sequence on the frame stack so fallthrough can
// see it.
func (c *compiler) lowerSequence(base string, blocks []ast.Block, bindings map[string]string, isModule bool) []string {
	labels := make([]string, len(blocks))
	for i := range blocks {
		labels[i] = fmt.Sprintf("%s-%d", base, i)
	}

	frame := &seqFrame{labels: labels, isModule: isModule}
	c.frames = append(c.frames, frame)
	for i, b := range blocks {
		frame.idx = i
		c.lowerBlock(labels[i], b, bindings)
	}
	c.frames = c.frames[:len(c.frames)-1]
	return labels
}

func (c *compiler) lowerBlock(label string, b ast.Block, bindings map[string]string) {
	ast.Visit(ast.Visitor[struct{}]{
		Basic: func(b *ast.BasicBlock) struct{} {
			c.states[label] = machine.ConstantState{
				Transition: c.basicTransition(b, bindings),
			}
			return struct{}{}
		},
		Switch: func(b *ast.SwitchBlock) struct{} {
			c.lowerSwitch(label, b, bindings)
			return struct{}{}
		},
	}, b)
}

// basicTransition builds the transition a basic block performs: its write
// and move parts, and a next state from the explicit flow command or the
// fallthrough search.
func (c *compiler) basicTransition(b *ast.BasicBlock, bindings map[string]string) machine.Transition {
	tr := machine.Transition{Move: tape.Left}
	if b.Change != nil {
		tr.HasWrite = true
		tr.Write = resolve(b.Change.Symbol, bindings)
	}
	if b.Move != nil {
		tr.Move = tape.Direction(b.Move.Direction)
	}
	if b.Flow != nil {
		tr.Next = c.lowerFlow(b.Flow, bindings)
	} else {
		tr.Next = c.fallthroughLabel()
	}
	return tr
}

func (c *compiler) lowerFlow(f ast.Flow, bindings map[string]string) string {
	return ast.Visit(ast.Visitor[string]{
		GoTo: func(g *ast.GoTo) string {
			args := make([]string, len(g.Args))
			for i, a := range g.Args {
				args[i] = resolve(a, bindings)
			}
			return c.invoke(g.Target, args)
		},
		Termination: func(t *ast.Termination) string {
			return t.Status
		},
	}, f)
}

// fallthroughLabel finds the label following the current block: the next
// block in the innermost unfinished sequence. A module body that runs out
// of blocks rejects.
func (c *compiler) fallthroughLabel() string {
	for i := len(c.frames) - 1; i >= 0; i-- {
		f := c.frames[i]
		if f.idx < len(f.labels)-1 {
			return f.labels[f.idx+1]
		}
		if f.isModule {
			break
		}
	}
	return machine.Reject
}

func (c *compiler) lowerSwitch(label string, sw *ast.SwitchBlock, bindings map[string]string) {
	branches := make(map[string]machine.Transition)
	claim := func(values []string, tr machine.Transition) {
		for _, v := range values {
			if _, taken := branches[v]; !taken {
				branches[v] = tr
			}
		}
	}

	for _, cs := range sw.Cases {
		switch cs := cs.(type) {
		case *ast.IfCase:
			values := resolveAll(cs.Values, bindings)
			tag := joinTag(values)
			tr := c.caseTransition(cs.Body, label+"-"+tag, bindings)
			claim(values, tr)

		case *ast.WhileCase:
			// A while loop re-enters its own switch state, so the core
			// block's transition points back at this label.
			tr := machine.Transition{
				Write:    resolve(cs.Body.Change.Symbol, bindings),
				HasWrite: true,
				Move:     tape.Direction(cs.Body.Move.Direction),
				Next:     label,
			}
			claim(resolveAll(cs.Values, bindings), tr)

		case *ast.ElseCase:
			tr := c.caseTransition(cs.Body, label+"-else", bindings)
			residual := append(append([]string{}, c.alphabet...), tape.Blank)
			claim(residual, tr)
		}
	}

	c.states[label] = machine.VariableState{Branches: branches}
}

// caseTransition lowers a case body. The first block supplies the
// transition; any remaining blocks become a sub-sequence under subBase and
// the transition enters it, unless the first block already names an
// explicit flow target.
func (c *compiler) caseTransition(body []ast.Block, subBase string, bindings map[string]string) machine.Transition {
	first := body[0].(*ast.BasicBlock)

	tr := machine.Transition{Move: tape.Left}
	if first.Change != nil {
		tr.HasWrite = true
		tr.Write = resolve(first.Change.Symbol, bindings)
	}
	if first.Move != nil {
		tr.Move = tape.Direction(first.Move.Direction)
	}

	switch {
	case first.Flow != nil:
		tr.Next = c.lowerFlow(first.Flow, bindings)
	case len(body) > 1:
		sub := c.lowerSequence(subBase, body[1:], bindings, false)
		tr.Next = sub[0]
	default:
		tr.Next = c.fallthroughLabel()
	}
	return tr
}

// ── labels ──

func baseLabel(name string, args []string) string {
	if len(args) == 0 {
		return name
	}
	return name + "-" + joinTag(args)
}

func joinTag(values []string) string {
	rendered := make([]string, len(values))
	for i, v := range values {
		rendered[i] = ast.Render(v)
	}
	return strings.Join(rendered, ",")
}

func resolve(value string, bindings map[string]string) string {
	if bound, ok := bindings[value]; ok {
		return bound
	}
	return value
}

func resolveAll(values []string, bindings map[string]string) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = resolve(v, bindings)
	}
	return out
}
