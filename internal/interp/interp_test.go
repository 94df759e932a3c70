package interp

import (
	"testing"

	"github.com/ribbon-lang/ribbon/internal/ast"
	"github.com/ribbon-lang/ribbon/internal/compiler"
	"github.com/ribbon-lang/ribbon/internal/machine"
	"github.com/ribbon-lang/ribbon/internal/parser"
	"github.com/ribbon-lang/ribbon/internal/tape"
	"github.com/ribbon-lang/ribbon/internal/validator"
)

func mustProgram(t *testing.T, src string) *ast.Program {
	t.Helper()
	prog, err := parser.Parse(src)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if err := validator.Validate(prog); err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	return prog
}

// runTree drives the interpreter to termination, bounded so a broken
// program cannot hang the test.
func runTree(t *testing.T, prog *ast.Program, input string) (string, *tape.Tape, []machine.Step) {
	t.Helper()
	tp := tape.New(input)
	in, err := New(prog, tp)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	var steps []machine.Step
	for !in.Done() {
		if len(steps) > 10000 {
			t.Fatal("run did not terminate within 10000 steps")
		}
		s, err := in.Step()
		if err != nil {
			t.Fatalf("Step failed: %v", err)
		}
		steps = append(steps, s)
	}
	return in.Status(), tp, steps
}

func TestRejectsForeignTapeSymbol(t *testing.T) {
	prog := mustProgram(t, "alphabet = [a]\nmodule m():\n    accept\n")
	_, err := New(prog, tape.New("ax"))
	if err == nil {
		t.Fatal("New accepted a foreign tape symbol")
	}
	if want := `tape symbol "x" is not in the alphabet`; err.Error() != want {
		t.Errorf("error = %q, want %q", err.Error(), want)
	}
}

func TestTermination(t *testing.T) {
	prog := mustProgram(t, "alphabet = [a]\nmodule m():\n    move right\n    halt\n")
	status, tp, steps := runTree(t, prog, "a")
	if status != machine.Halt {
		t.Fatalf("status = %q, want halt", status)
	}
	if len(steps) != 1 {
		t.Fatalf("took %d steps, want 1", len(steps))
	}
	if tp.Head() != 1 {
		t.Fatalf("head = %d, want 1", tp.Head())
	}
}

func TestModuleEndRejects(t *testing.T) {
	prog := mustProgram(t, "alphabet = [a]\nmodule m():\n    changeto a\n    move right\n")
	status, _, steps := runTree(t, prog, "")
	if status != machine.Reject {
		t.Fatalf("status = %q, want reject", status)
	}
	if len(steps) != 1 {
		t.Fatalf("took %d steps, want 1", len(steps))
	}
}

func TestWhileStaysInPlace(t *testing.T) {
	prog := mustProgram(t, "alphabet = [a, b]\n"+
		"module m():\n"+
		"    while a:\n"+
		"        changeto b\n"+
		"        move right\n"+
		"    else:\n"+
		"        accept\n")
	status, tp, steps := runTree(t, prog, "aaa")
	if status != machine.Accept {
		t.Fatalf("status = %q, want accept", status)
	}
	if got := tp.String(); got != "bbb" {
		t.Fatalf("tape = %q, want bbb", got)
	}
	// Three loop iterations plus the accepting else step.
	if len(steps) != 4 {
		t.Fatalf("took %d steps, want 4", len(steps))
	}
	for _, s := range steps[:3] {
		if s.Taken.Next != "m-0" {
			t.Errorf("loop step next = %q, want m-0", s.Taken.Next)
		}
	}
}

func TestGoToBindsArguments(t *testing.T) {
	prog := mustProgram(t, "alphabet = [a, b]\n"+
		"module main():\n"+
		"    goto stamp(b)\n"+
		"module stamp(x):\n"+
		"    changeto x\n"+
		"    halt\n")
	status, tp, steps := runTree(t, prog, "a")
	if status != machine.Halt {
		t.Fatalf("status = %q, want halt", status)
	}
	// The goto block has no move command, so the head drifted left before
	// stamp wrote its bound argument.
	if got := tp.String(); got != "ba" {
		t.Fatalf("tape = %q, want ba", got)
	}
	if steps[0].Taken.Next != "stamp-b-0" {
		t.Fatalf("goto step next = %q, want stamp-b-0", steps[0].Taken.Next)
	}
}

func TestCaseBodyFramePopsBack(t *testing.T) {
	// After an if body's extra blocks finish, control falls through to the
	// block after the switch.
	prog := mustProgram(t, "alphabet = [a]\n"+
		"module m():\n"+
		"    if a, blank:\n"+
		"        changeto a\n"+
		"        move right\n"+
		"        move left\n"+
		"    changeto blank\n"+
		"    halt\n")
	status, tp, steps := runTree(t, prog, "")
	if status != machine.Halt {
		t.Fatalf("status = %q, want halt", status)
	}
	want := []string{"m-0-a,blank-0", "m-1", machine.Halt}
	if len(steps) != len(want) {
		t.Fatalf("took %d steps, want %d", len(steps), len(want))
	}
	for i, w := range want {
		if steps[i].Taken.Next != w {
			t.Errorf("step %d next = %q, want %q", i, steps[i].Taken.Next, w)
		}
	}
	if got := tp.String(); got != "" {
		t.Fatalf("tape = %q, want empty", got)
	}
}

// ── engine equivalence ──

var equivalencePrograms = map[string]struct {
	src    string
	inputs []string
}{
	"flip and recurse": {
		src: "alphabet = [a, b]\n" +
			"module main():\n" +
			"    while a:\n" +
			"        changeto b\n" +
			"        move right\n" +
			"    if b:\n" +
			"        move right\n" +
			"        goto main()\n" +
			"    if blank:\n" +
			"        accept\n",
		inputs: []string{"", "a", "ab", "aabab", "bbb"},
	},
	"parametrised stamping": {
		src: "alphabet = [a, b]\n" +
			"module main():\n" +
			"    goto fill(b)\n" +
			"module fill(x):\n" +
			"    if a:\n" +
			"        changeto x\n" +
			"        move right\n" +
			"        goto fill(x)\n" +
			"    if x:\n" +
			"        move right\n" +
			"        goto fill(x)\n" +
			"    else:\n" +
			"        halt\n",
		inputs: []string{"", "aa", "ba", "abab"},
	},
	"sub-sequences and fallthrough": {
		src: "alphabet = [a, b]\n" +
			"module main():\n" +
			"    if a:\n" +
			"        changeto b\n" +
			"        move right\n" +
			"        move left\n" +
			"        move right\n" +
			"    if b, blank:\n" +
			"        move right\n" +
			"    reject\n",
		inputs: []string{"a", "b", ""},
	},
}

func TestEngineEquivalence(t *testing.T) {
	for name, tc := range equivalencePrograms {
		t.Run(name, func(t *testing.T) {
			prog := mustProgram(t, tc.src)
			m := compiler.Compile(prog)
			for _, input := range tc.inputs {
				treeStatus, treeTape, treeSteps := runTree(t, prog, input)

				execTape := tape.New(input)
				exec := machine.NewExecution(m, execTape)
				var execSteps []machine.Step
				for !exec.Done() {
					if len(execSteps) > 10000 {
						t.Fatalf("input %q: machine did not terminate", input)
					}
					s, err := exec.Step()
					if err != nil {
						t.Fatalf("input %q: machine step failed: %v", input, err)
					}
					execSteps = append(execSteps, s)
				}

				if exec.Status() != treeStatus {
					t.Fatalf("input %q: machine %q, tree %q", input, exec.Status(), treeStatus)
				}
				if execTape.String() != treeTape.String() {
					t.Fatalf("input %q: machine tape %q, tree tape %q",
						input, execTape.String(), treeTape.String())
				}
				if execTape.Head() != treeTape.Head() {
					t.Fatalf("input %q: machine head %d, tree head %d",
						input, execTape.Head(), treeTape.Head())
				}
				if len(execSteps) != len(treeSteps) {
					t.Fatalf("input %q: machine took %d steps, tree took %d",
						input, len(execSteps), len(treeSteps))
				}
				for i := range execSteps {
					if execSteps[i] != treeSteps[i] {
						t.Fatalf("input %q step %d: machine %+v, tree %+v",
							input, i, execSteps[i], treeSteps[i])
					}
				}
			}
		})
	}
}
