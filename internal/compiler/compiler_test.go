package compiler

import (
	"reflect"
	"strings"
	"testing"

	"github.com/ribbon-lang/ribbon/internal/machine"
	"github.com/ribbon-lang/ribbon/internal/parser"
	"github.com/ribbon-lang/ribbon/internal/tape"
	"github.com/ribbon-lang/ribbon/internal/validator"
)

func compile(t *testing.T, src string) *machine.Machine {
	t.Helper()
	prog, err := parser.Parse(src)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if err := validator.Validate(prog); err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	return Compile(prog)
}

func constant(t *testing.T, m *machine.Machine, label string) machine.Transition {
	t.Helper()
	s, ok := m.States[label]
	if !ok {
		t.Fatalf("no state %q; have %v", label, labels(m))
	}
	c, ok := s.(machine.ConstantState)
	if !ok {
		t.Fatalf("state %q is %T, want ConstantState", label, s)
	}
	return c.Transition
}

func variable(t *testing.T, m *machine.Machine, label string) machine.VariableState {
	t.Helper()
	s, ok := m.States[label]
	if !ok {
		t.Fatalf("no state %q; have %v", label, labels(m))
	}
	v, ok := s.(machine.VariableState)
	if !ok {
		t.Fatalf("state %q is %T, want VariableState", label, s)
	}
	return v
}

func labels(m *machine.Machine) []string {
	var out []string
	for l := range m.States {
		out = append(out, l)
	}
	return out
}

func TestSingleBasicBlock(t *testing.T) {
	m := compile(t, "alphabet = [a, b]\n"+
		"module m():\n"+
		"    changeto blank\n"+
		"    move right\n")

	if m.Initial != "m-0" {
		t.Fatalf("initial = %q, want m-0", m.Initial)
	}
	if len(m.States) != 1 {
		t.Fatalf("got %d states, want 1", len(m.States))
	}
	tr := constant(t, m, "m-0")
	want := machine.Transition{Next: machine.Reject, Write: tape.Blank, HasWrite: true, Move: tape.Right}
	if tr != want {
		t.Fatalf("transition = %+v, want %+v", tr, want)
	}
}

func TestSwitchBlock(t *testing.T) {
	m := compile(t, "alphabet = [a, b]\n"+
		"module m():\n"+
		"    if a, b:\n"+
		"        move right\n"+
		"        accept\n"+
		"    else:\n"+
		"        move left\n"+
		"        reject\n")

	if len(m.States) != 1 {
		t.Fatalf("got %d states, want 1: %v", len(m.States), labels(m))
	}
	v := variable(t, m, "m-0")
	acceptRight := machine.Transition{Next: machine.Accept, Move: tape.Right}
	rejectLeft := machine.Transition{Next: machine.Reject, Move: tape.Left}
	for _, sym := range []string{"a", "b"} {
		if got := v.Branches[sym]; got != acceptRight {
			t.Errorf("branch %q = %+v, want %+v", sym, got, acceptRight)
		}
	}
	if got := v.Branches[tape.Blank]; got != rejectLeft {
		t.Errorf("blank branch = %+v, want %+v", got, rejectLeft)
	}
}

func TestDefaults(t *testing.T) {
	m := compile(t, "alphabet = [a]\n"+
		"module m():\n"+
		"    changeto a\n")
	tr := constant(t, m, "m-0")
	// No move command defaults to left; no flow falls through to reject.
	if tr.Move != tape.Left {
		t.Errorf("move = %q, want left", tr.Move)
	}
	if tr.Next != machine.Reject {
		t.Errorf("next = %q, want reject", tr.Next)
	}
	if !tr.HasWrite || tr.Write != "a" {
		t.Errorf("write = %+v, want a", tr)
	}
}

func TestFallthroughChainsBlocks(t *testing.T) {
	m := compile(t, "alphabet = [a]\n"+
		"module m():\n"+
		"    move right\n"+
		"    changeto a\n"+
		"    move left\n")
	// Two blocks: "move right" then "changeto a / move left".
	first := constant(t, m, "m-0")
	if first.Next != "m-1" {
		t.Fatalf("m-0 next = %q, want m-1", first.Next)
	}
	if first.HasWrite {
		t.Error("m-0 writes, want no write")
	}
	second := constant(t, m, "m-1")
	if second.Next != machine.Reject {
		t.Fatalf("m-1 next = %q, want reject", second.Next)
	}
}

func TestWhileLoopsIntoItself(t *testing.T) {
	m := compile(t, "alphabet = [a, b]\n"+
		"module m():\n"+
		"    while a:\n"+
		"        changeto b\n"+
		"        move right\n"+
		"    else:\n"+
		"        accept\n")
	v := variable(t, m, "m-0")
	loop := v.Branches["a"]
	if loop.Next != "m-0" {
		t.Fatalf("while branch next = %q, want m-0", loop.Next)
	}
	if !loop.HasWrite || loop.Write != "b" || loop.Move != tape.Right {
		t.Fatalf("while branch = %+v", loop)
	}
	for _, sym := range []string{"b", tape.Blank} {
		if v.Branches[sym].Next != machine.Accept {
			t.Errorf("branch %q next = %q, want accept", sym, v.Branches[sym].Next)
		}
	}
}

func TestCaseSubSequences(t *testing.T) {
	m := compile(t, "alphabet = [a, b]\n"+
		"module m():\n"+
		"    if a, blank:\n"+
		"        changeto b\n"+
		"        move right\n"+
		"        move left\n"+
		"        accept\n"+
		"    else:\n"+
		"        reject\n")

	v := variable(t, m, "m-0")
	// The case head supplies the write/move; the second block lands in a
	// sub-sequence tagged with the trigger values.
	head := v.Branches["a"]
	if head.Next != "m-0-a,blank-0" {
		t.Fatalf("case head next = %q, want m-0-a,blank-0", head.Next)
	}
	if v.Branches[tape.Blank] != head {
		t.Error("blank trigger differs from a trigger")
	}
	sub := constant(t, m, "m-0-a,blank-0")
	if sub.Next != machine.Accept {
		t.Fatalf("sub-sequence next = %q, want accept", sub.Next)
	}
	if sub.Move != tape.Left {
		t.Fatalf("sub-sequence move = %q, want left", sub.Move)
	}
}

func TestGoToMemoization(t *testing.T) {
	m := compile(t, "alphabet = [a]\n"+
		"module main():\n"+
		"    goto w(a)\n"+
		"    goto w(a)\n"+
		"module w(x):\n"+
		"    changeto x\n"+
		"    move right\n")

	first := constant(t, m, "main-0")
	second := constant(t, m, "main-1")
	if first.Next != second.Next {
		t.Fatalf("call targets differ: %q vs %q", first.Next, second.Next)
	}
	if first.Next != "w-a-0" {
		t.Fatalf("call target = %q, want w-a-0", first.Next)
	}
	// One instantiation of w: exactly one state carries the w-a prefix.
	count := 0
	for _, l := range labels(m) {
		if strings.HasPrefix(l, "w-a-") {
			count++
		}
	}
	if count != 1 {
		t.Fatalf("got %d w-a states, want 1: %v", count, labels(m))
	}
}

func TestDistinctArgumentsDistinctFragments(t *testing.T) {
	m := compile(t, "alphabet = [a, b]\n"+
		"module main():\n"+
		"    goto w(a)\n"+
		"    goto w(b)\n"+
		"module w(x):\n"+
		"    changeto x\n")
	if constant(t, m, "main-0").Next == constant(t, m, "main-1").Next {
		t.Fatal("different argument tuples share a fragment")
	}
	wa := constant(t, m, "w-a-0")
	wb := constant(t, m, "w-b-0")
	if wa.Write != "a" || wb.Write != "b" {
		t.Fatalf("bound writes = %q, %q; want a, b", wa.Write, wb.Write)
	}
}

func TestRecursionTerminates(t *testing.T) {
	m := compile(t, "alphabet = [a]\n"+
		"module main():\n"+
		"    goto main()\n")
	if len(m.States) != 1 {
		t.Fatalf("got %d states, want 1", len(m.States))
	}
	if tr := constant(t, m, "main-0"); tr.Next != "main-0" {
		t.Fatalf("recursive next = %q, want main-0", tr.Next)
	}
}

func TestRecursiveParametrisedBound(t *testing.T) {
	// Recursion through the same argument tuple stays finite: states are
	// bounded by distinct (module, arguments) pairs times block count.
	m := compile(t, "alphabet = [a, b]\n"+
		"module main():\n"+
		"    goto w(a)\n"+
		"module w(x):\n"+
		"    if x:\n"+
		"        move right\n"+
		"        goto w(x)\n"+
		"    else:\n"+
		"        reject\n")
	if len(m.States) != 2 {
		t.Fatalf("got %d states, want 2: %v", len(m.States), labels(m))
	}
	v := variable(t, m, "w-a-0")
	if v.Branches["a"].Next != "w-a-0" {
		t.Fatalf("recursive call next = %q, want w-a-0", v.Branches["a"].Next)
	}
}

func TestCompileIsDeterministic(t *testing.T) {
	src := "alphabet = [a, b]\n" +
		"module main():\n" +
		"    if a:\n" +
		"        changeto b\n" +
		"        move right\n" +
		"        goto main()\n" +
		"    if b, blank:\n" +
		"        move left\n" +
		"        halt\n"
	prog, err := parser.Parse(src)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if err := validator.Validate(prog); err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	first := Compile(prog)
	second := Compile(prog)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("two compilations differ:\n%s\n%s", first.Format(), second.Format())
	}
}

func TestEarlierCaseClaimsValueFirst(t *testing.T) {
	// A parameter resolving to an already claimed symbol must not override
	// the earlier case; matching is first case wins.
	m := compile(t, "alphabet = [a]\n"+
		"module main():\n"+
		"    goto w(a)\n"+
		"module w(x):\n"+
		"    if a:\n"+
		"        accept\n"+
		"    if x:\n"+
		"        reject\n"+
		"    else:\n"+
		"        halt\n")
	v := variable(t, m, "w-a-0")
	if v.Branches["a"].Next != machine.Accept {
		t.Fatalf("branch a next = %q, want accept", v.Branches["a"].Next)
	}
	if v.Branches[tape.Blank].Next != machine.Halt {
		t.Fatalf("blank branch next = %q, want halt", v.Branches[tape.Blank].Next)
	}
}
