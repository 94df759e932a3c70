package runner

import (
	"strings"
	"testing"

	"github.com/ribbon-lang/ribbon/internal/ast"
	"github.com/ribbon-lang/ribbon/internal/parser"
	"github.com/ribbon-lang/ribbon/internal/validator"
)

const flipSrc = "alphabet = [a, b]\n" +
	"module main():\n" +
	"    while a:\n" +
	"        changeto b\n" +
	"        move right\n" +
	"    else:\n" +
	"        accept\n"

const loopSrc = "alphabet = [a]\n" +
	"module main():\n" +
	"    if a, blank:\n" +
	"        move right\n" +
	"        goto main()\n"

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

func TestRunBothEngines(t *testing.T) {
	prog := mustProgram(t, flipSrc)
	for _, engine := range []Engine{EngineTree, EngineMachine} {
		res, err := Run(prog, "aaa", Options{Engine: engine})
		if err != nil {
			t.Fatalf("%s: Run failed: %v", engine, err)
		}
		if res.Status != "accept" {
			t.Errorf("%s: status = %q, want accept", engine, res.Status)
		}
		if res.Tape != "bbb" {
			t.Errorf("%s: tape = %q, want bbb", engine, res.Tape)
		}
		if res.StepsRun != 4 {
			t.Errorf("%s: steps = %d, want 4", engine, res.StepsRun)
		}
		if res.ID == "" {
			t.Errorf("%s: run has no ID", engine)
		}
	}
}

func TestDefaultEngineIsTree(t *testing.T) {
	prog := mustProgram(t, flipSrc)
	res, err := Run(prog, "", Options{})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if res.Status != "accept" {
		t.Fatalf("status = %q, want accept", res.Status)
	}
}

func TestUnknownEngine(t *testing.T) {
	prog := mustProgram(t, flipSrc)
	if _, err := Run(prog, "", Options{Engine: Engine("quantum")}); err == nil {
		t.Fatal("Run with unknown engine succeeded, want error")
	}
}

func TestStepBudget(t *testing.T) {
	prog := mustProgram(t, loopSrc)
	_, err := Run(prog, "a", Options{MaxSteps: 10})
	if err == nil {
		t.Fatal("endless run finished, want budget error")
	}
	if !strings.Contains(err.Error(), "step budget of 10") {
		t.Errorf("error = %q, want step budget mention", err)
	}
}

func TestForeignSymbolFailsBeforeStepping(t *testing.T) {
	prog := mustProgram(t, flipSrc)
	for _, engine := range []Engine{EngineTree, EngineMachine} {
		_, err := Run(prog, "z", Options{Engine: engine})
		if err == nil {
			t.Fatalf("%s: Run accepted a foreign symbol", engine)
		}
		if want := `tape symbol "z" is not in the alphabet`; err.Error() != want {
			t.Errorf("%s: error = %q, want %q", engine, err.Error(), want)
		}
	}
}

func TestTraceCollectsSteps(t *testing.T) {
	prog := mustProgram(t, flipSrc)
	res, err := Run(prog, "aa", Options{Trace: true})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if len(res.Steps) != res.StepsRun {
		t.Fatalf("trace has %d steps, ran %d", len(res.Steps), res.StepsRun)
	}
	if res.Steps[0].Symbol != "a" || res.Steps[0].Taken.Write != "b" {
		t.Errorf("first step = %+v, want read a write b", res.Steps[0])
	}
}
