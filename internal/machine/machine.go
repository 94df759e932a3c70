// Package machine defines the finite automaton the compiler lowers programs
// into, and a driver that runs one against a tape.
package machine

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ribbon-lang/ribbon/internal/tape"
)

// Reserved labels. A transition targeting one of these ends the run with
// the corresponding status instead of entering a state.
const (
	Accept = "accept"
	Reject = "reject"
	Halt   = "halt"
)

// Reserved reports whether a label terminates the run.
func Reserved(label string) bool {
	return label == Accept || label == Reject || label == Halt
}

// Transition is one edge of the automaton: where to go, what to write, and
// where the head moves. HasWrite distinguishes "write blank" from "leave
// the cell alone".
type Transition struct {
	Next     string
	Write    string
	HasWrite bool
	Move     tape.Direction
}

// State is either a ConstantState or a VariableState.
type State interface {
	// Resolve picks the transition taken when the given symbol is under
	// the head.
	Resolve(symbol string) Transition
}

// ConstantState takes the same transition regardless of the tape symbol.
type ConstantState struct {
	Transition Transition
}

func (s ConstantState) Resolve(string) Transition { return s.Transition }

// VariableState branches on the tape symbol. Branches is total over the
// program's alphabet plus blank.
type VariableState struct {
	Branches map[string]Transition
}

func (s VariableState) Resolve(symbol string) Transition { return s.Branches[symbol] }

// Machine is a compiled program: an entry label and its state table.
type Machine struct {
	Initial string
	States  map[string]State
}

// Step records one executed automaton transition, for tracing and for
// comparing engines.
type Step struct {
	Label  string
	Symbol string
	Taken  Transition
}

// Execution drives a machine over a tape, one transition per Step call.
type Execution struct {
	machine *Machine
	tape    *tape.Tape
	current string
	status  string
}

// NewExecution starts a run of m at its initial state.
func NewExecution(m *Machine, t *tape.Tape) *Execution {
	return &Execution{machine: m, tape: t, current: m.Initial}
}

// Done reports whether the run has reached a terminal status.
func (e *Execution) Done() bool { return e.status != "" }

// Status returns the terminal status ("accept", "reject" or "halt"), or
// the empty string while the run is still going.
func (e *Execution) Status() string { return e.status }

// Current returns the label of the state about to execute.
func (e *Execution) Current() string { return e.current }

// Step executes one transition and reports it. Calling Step on a finished
// run returns an error.
func (e *Execution) Step() (Step, error) {
	if e.status != "" {
		return Step{}, fmt.Errorf("machine already finished with status %q", e.status)
	}
	state, ok := e.machine.States[e.current]
	if !ok {
		return Step{}, fmt.Errorf("machine has no state labeled %q", e.current)
	}
	symbol := e.tape.Get(0)
	tr := state.Resolve(symbol)
	if tr.HasWrite {
		e.tape.Change(tr.Write)
	}
	e.tape.Move(tr.Move)
	if Reserved(tr.Next) {
		e.status = tr.Next
	} else {
		e.current = tr.Next
	}
	return Step{Label: e.current, Symbol: symbol, Taken: tr}, nil
}

// ── textual form ──

// Format renders the machine as a stable, human-readable listing: the
// initial label first, then every state in label order with its
// transitions.
func (m *Machine) Format() string {
	var b strings.Builder
	fmt.Fprintf(&b, "initial: %s\n", m.Initial)

	labels := make([]string, 0, len(m.States))
	for label := range m.States {
		labels = append(labels, label)
	}
	sort.Strings(labels)

	for _, label := range labels {
		fmt.Fprintf(&b, "%s:\n", label)
		switch s := m.States[label].(type) {
		case ConstantState:
			fmt.Fprintf(&b, "    * -> %s\n", formatTransition(s.Transition))
		case VariableState:
			symbols := make([]string, 0, len(s.Branches))
			for sym := range s.Branches {
				symbols = append(symbols, sym)
			}
			sort.Strings(symbols)
			for _, sym := range symbols {
				name := sym
				if sym == tape.Blank {
					name = "blank"
				}
				fmt.Fprintf(&b, "    %s -> %s\n", name, formatTransition(s.Branches[sym]))
			}
		}
	}
	return b.String()
}

func formatTransition(tr Transition) string {
	write := "keep"
	if tr.HasWrite {
		if tr.Write == tape.Blank {
			write = "write blank"
		} else {
			write = "write " + tr.Write
		}
	}
	return fmt.Sprintf("[%s, move %s, next %s]", write, tr.Move, tr.Next)
}
