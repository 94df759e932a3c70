// Package interp executes a validated program by walking its tree directly,
// without compiling it first. Each Step call performs exactly one atomic
// machine step, so the caller decides the cadence: run to completion, stop
// at a budget, or single-step interactively.
//
// The interpreter labels its position the same way the compiler labels
// states, so a run here and a run of the compiled automaton produce
// identical step records.
package interp

import (
	"fmt"
	"strings"

	"github.com/ribbon-lang/ribbon/internal/ast"
	"github.com/ribbon-lang/ribbon/internal/machine"
	"github.com/ribbon-lang/ribbon/internal/tape"
)

// frame is one level of the execution stack: a block sequence, the index of
// the block being executed, and the argument bindings in scope. Module
// frames bound the fallthrough search.
type frame struct {
	blocks   []ast.Block
	idx      int
	bindings map[string]string
	isModule bool
	base     string
}

func (f *frame) label() string {
	return fmt.Sprintf("%s-%d", f.base, f.idx)
}

// Interpreter runs a program against a tape it owns for the duration of the
// run.
type Interpreter struct {
	modules map[string]*ast.Module
	tape    *tape.Tape
	frames  []*frame
	status  string
}

// New prepares a run of prog on t, positioned at the first block of the
// entry module. It fails if the tape holds any symbol outside the program's
// alphabet.
func New(prog *ast.Program, t *tape.Tape) (*Interpreter, error) {
	alphabet := make(map[string]bool, len(prog.Alphabet.Symbols))
	for _, s := range prog.Alphabet.Symbols {
		alphabet[s] = true
	}
	for _, s := range t.Symbols() {
		if !alphabet[s] {
			return nil, fmt.Errorf("tape symbol %q is not in the alphabet", s)
		}
	}

	in := &Interpreter{
		modules: make(map[string]*ast.Module, len(prog.Modules)),
		tape:    t,
	}
	for _, m := range prog.Modules {
		in.modules[m.Name] = m
	}
	entry := prog.Modules[0]
	in.frames = []*frame{{
		blocks:   entry.Blocks,
		bindings: map[string]string{},
		isModule: true,
		base:     entry.Name,
	}}
	return in, nil
}

// Done reports whether the run has reached a terminal status.
func (in *Interpreter) Done() bool { return in.status != "" }

// Status returns the terminal status ("accept", "reject" or "halt"), or
// the empty string while the run is still going.
func (in *Interpreter) Status() string { return in.status }

// Current returns the label of the block about to execute.
func (in *Interpreter) Current() string { return in.top().label() }

// Step executes one block and reports the transition taken, exactly as the
// compiled automaton would record it. Calling Step on a finished run
// returns an error.
func (in *Interpreter) Step() (machine.Step, error) {
	if in.status != "" {
		return machine.Step{}, fmt.Errorf("interpreter already finished with status %q", in.status)
	}

	f := in.top()
	symbol := in.tape.Get(0)

	var tr machine.Transition
	var err error
	switch b := f.blocks[f.idx].(type) {
	case *ast.BasicBlock:
		tr = in.execBasic(b, f.bindings)
	case *ast.SwitchBlock:
		tr, err = in.execSwitch(b, symbol, f.bindings, f.label())
		if err != nil {
			return machine.Step{}, err
		}
	}

	return machine.Step{Label: in.Current(), Symbol: symbol, Taken: tr}, nil
}

func (in *Interpreter) top() *frame { return in.frames[len(in.frames)-1] }

// apply performs a transition's tape effects.
func (in *Interpreter) apply(tr machine.Transition) {
	if tr.HasWrite {
		in.tape.Change(tr.Write)
	}
	in.tape.Move(tr.Move)
}

// execBasic applies a basic block's write and move, then transfers control
// through its flow command or the fallthrough search.
func (in *Interpreter) execBasic(b *ast.BasicBlock, bindings map[string]string) machine.Transition {
	tr := machine.Transition{Move: tape.Left}
	if b.Change != nil {
		tr.HasWrite = true
		tr.Write = resolve(b.Change.Symbol, bindings)
	}
	if b.Move != nil {
		tr.Move = tape.Direction(b.Move.Direction)
	}
	in.apply(tr)

	if b.Flow != nil {
		tr.Next = in.execFlow(b.Flow, bindings)
	} else {
		tr.Next = in.fallthroughStep()
	}
	return tr
}

// execSwitch finds the first case matching the current symbol and executes
// that case's head.
func (in *Interpreter) execSwitch(sw *ast.SwitchBlock, symbol string, bindings map[string]string, label string) (machine.Transition, error) {
	for _, cs := range sw.Cases {
		switch cs := cs.(type) {
		case *ast.IfCase:
			values := resolveAll(cs.Values, bindings)
			if !contains(values, symbol) {
				continue
			}
			return in.execCase(cs.Body, label+"-"+joinTag(values), bindings), nil

		case *ast.WhileCase:
			if !contains(resolveAll(cs.Values, bindings), symbol) {
				continue
			}
			// The loop body runs without touching the frame stack; the
			// switch is re-evaluated on the next step.
			tr := machine.Transition{
				Write:    resolve(cs.Body.Change.Symbol, bindings),
				HasWrite: true,
				Move:     tape.Direction(cs.Body.Move.Direction),
				Next:     label,
			}
			in.apply(tr)
			return tr, nil

		case *ast.ElseCase:
			return in.execCase(cs.Body, label+"-else", bindings), nil
		}
	}
	return machine.Transition{}, fmt.Errorf("no case matches symbol %q at %s", symbol, label)
}

// execCase executes the first block of a case body. Any remaining blocks
// become a new frame that control enters next, unless the first block names
// an explicit flow target.
func (in *Interpreter) execCase(body []ast.Block, subBase string, bindings map[string]string) machine.Transition {
	first := body[0].(*ast.BasicBlock)

	tr := machine.Transition{Move: tape.Left}
	if first.Change != nil {
		tr.HasWrite = true
		tr.Write = resolve(first.Change.Symbol, bindings)
	}
	if first.Move != nil {
		tr.Move = tape.Direction(first.Move.Direction)
	}
	in.apply(tr)

	switch {
	case first.Flow != nil:
		tr.Next = in.execFlow(first.Flow, bindings)
	case len(body) > 1:
		sub := &frame{blocks: body[1:], bindings: bindings, base: subBase}
		in.frames = append(in.frames, sub)
		tr.Next = sub.label()
	default:
		tr.Next = in.fallthroughStep()
	}
	return tr
}

// execFlow transfers control: a goto pushes a module frame with fresh
// bindings, a termination ends the run.
func (in *Interpreter) execFlow(f ast.Flow, bindings map[string]string) string {
	return ast.Visit(ast.Visitor[string]{
		GoTo: func(g *ast.GoTo) string {
			target := in.modules[g.Target]
			bound := make(map[string]string, len(target.Params))
			args := make([]string, len(g.Args))
			for i, a := range g.Args {
				args[i] = resolve(a, bindings)
				bound[target.Params[i]] = args[i]
			}
			mf := &frame{
				blocks:   target.Blocks,
				bindings: bound,
				isModule: true,
				base:     baseLabel(g.Target, args),
			}
			in.frames = append(in.frames, mf)
			return mf.label()
		},
		Termination: func(t *ast.Termination) string {
			in.status = t.Status
			return t.Status
		},
	}, f)
}

// fallthroughStep advances to the block after the current one: pop finished
// frames down to the innermost unfinished sequence and increment its index.
// A module frame that runs out of blocks rejects.
func (in *Interpreter) fallthroughStep() string {
	for i := len(in.frames) - 1; i >= 0; i-- {
		f := in.frames[i]
		if f.idx < len(f.blocks)-1 {
			in.frames = in.frames[:i+1]
			f.idx++
			return f.label()
		}
		if f.isModule {
			break
		}
	}
	in.status = machine.Reject
	return machine.Reject
}

// ── helpers shared with the compiler's labeling ──

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

func contains(values []string, symbol string) bool {
	for _, v := range values {
		if v == symbol {
			return true
		}
	}
	return false
}
