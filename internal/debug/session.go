// Package debug provides an interactive single-stepping session over a
// program run: step, inspect the tape, and watch control move between
// states, from the terminal.
package debug

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/peterh/liner"

	"github.com/ribbon-lang/ribbon/internal/ast"
	"github.com/ribbon-lang/ribbon/internal/interp"
	"github.com/ribbon-lang/ribbon/internal/tape"
)

var (
	headStyle   = lipgloss.NewStyle().Reverse(true).Bold(true)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2")).Bold(true)
	faintStyle  = lipgloss.NewStyle().Faint(true)
)

// Session is one interactive run of a program.
type Session struct {
	in    *interp.Interpreter
	tape  *tape.Tape
	out   io.Writer
	steps int
}

// New starts a session for prog on the given input.
func New(prog *ast.Program, input string, out io.Writer) (*Session, error) {
	t := tape.New(input)
	in, err := interp.New(prog, t)
	if err != nil {
		return nil, err
	}
	return &Session{in: in, tape: t, out: out}, nil
}

// Run reads commands until the user quits or the program terminates and the
// user moves on. Commands: step [n], run, tape, state, help, quit.
func (s *Session) Run() error {
	rl := liner.NewLiner()
	defer rl.Close()
	rl.SetCtrlCAborts(true)

	fmt.Fprintln(s.out, faintStyle.Render(`type "help" for commands`))
	s.printState()

	for {
		input, err := rl.Prompt("(ribbon) ")
		if err == liner.ErrPromptAborted || err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		input = strings.TrimSpace(input)
		if input == "" {
			input = "step"
		} else {
			rl.AppendHistory(input)
		}

		fields := strings.Fields(input)
		switch fields[0] {
		case "step", "s":
			n := 1
			if len(fields) > 1 {
				n, err = strconv.Atoi(fields[1])
				if err != nil || n < 1 {
					fmt.Fprintln(s.out, `usage: step [count]`)
					continue
				}
			}
			s.advance(n)
		case "run", "r":
			s.advance(-1)
		case "tape", "t":
			s.printTape()
		case "state":
			s.printState()
		case "help", "h":
			s.printHelp()
		case "quit", "q", "exit":
			return nil
		default:
			fmt.Fprintf(s.out, "unknown command %q\n", fields[0])
		}
	}
}

// runCap bounds the "run" command so a non-terminating program hands the
// prompt back instead of hanging the session.
const runCap = 1_000_000

// advance executes up to n steps, or runs to termination when n is
// negative.
func (s *Session) advance(n int) {
	if n < 0 {
		n = runCap
	}
	for i := 0; i < n; i++ {
		if s.in.Done() {
			break
		}
		step, err := s.in.Step()
		if err != nil {
			fmt.Fprintln(s.out, err)
			return
		}
		s.steps++
		wrote := "keep"
		if step.Taken.HasWrite {
			wrote = "write " + ast.Render(step.Taken.Write)
		}
		fmt.Fprintf(s.out, "%s %s\n",
			faintStyle.Render(fmt.Sprintf("#%d", s.steps)),
			fmt.Sprintf("read %s, %s, move %s -> %s",
				ast.Render(step.Symbol), wrote, step.Taken.Move,
				labelStyle.Render(step.Taken.Next)))
	}
	s.printState()
}

func (s *Session) printState() {
	if s.in.Done() {
		fmt.Fprintf(s.out, "%s after %d steps\n", statusStyle.Render(s.in.Status()), s.steps)
	} else {
		fmt.Fprintf(s.out, "at %s\n", labelStyle.Render(s.in.Current()))
	}
	s.printTape()
}

// printTape renders the written extent with the head cell highlighted.
func (s *Session) printTape() {
	content := s.tape.String()
	low, _ := s.tape.Extent()
	at := s.tape.Head() - low

	var b strings.Builder
	b.WriteString("tape ")
	if at < 0 || at >= len(content) {
		b.WriteString(content)
		b.WriteString(faintStyle.Render(fmt.Sprintf(" (head at cell %d)", s.tape.Head())))
	} else {
		b.WriteString(content[:at])
		cell := string(content[at])
		if cell == " " {
			cell = "·"
		}
		b.WriteString(headStyle.Render(cell))
		b.WriteString(content[at+1:])
	}
	fmt.Fprintln(s.out, b.String())
}

func (s *Session) printHelp() {
	fmt.Fprint(s.out, `  step [n], s   execute one step (or n steps)
  run, r        run until the program terminates
  tape, t       show the tape and head position
  state         show the current state and tape
  quit, q       leave the session
`)
}
