// Package runner drives a validated program against an input tape, through
// either execution engine, under a step budget. Every run gets a unique ID
// and a structured trace so long or divergent runs can be diagnosed from
// logs alone.
package runner

import (
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ribbon-lang/ribbon/internal/ast"
	"github.com/ribbon-lang/ribbon/internal/compiler"
	"github.com/ribbon-lang/ribbon/internal/interp"
	"github.com/ribbon-lang/ribbon/internal/machine"
	"github.com/ribbon-lang/ribbon/internal/tape"
)

// Engine selects how a run executes the program.
type Engine string

const (
	// EngineTree walks the syntax tree directly.
	EngineTree Engine = "tree"
	// EngineMachine compiles to an automaton first and drives that.
	EngineMachine Engine = "machine"
)

// DefaultMaxSteps bounds a run when the caller does not set a budget.
const DefaultMaxSteps = 1_000_000

// Options configure a single run. The zero value runs the tree engine with
// the default budget and no logging.
type Options struct {
	Engine   Engine
	MaxSteps int
	Trace    bool // collect every step in Result.Steps
	Logger   *zap.Logger
}

// Result reports how a run ended.
type Result struct {
	ID       string
	Status   string
	Tape     string
	Head     int
	StepsRun int
	Steps    []machine.Step // populated only when Options.Trace is set
}

// Run executes prog on the given input string until it terminates or the
// step budget runs out. The program must already be validated.
func Run(prog *ast.Program, input string, opts Options) (*Result, error) {
	engine := opts.Engine
	if engine == "" {
		engine = EngineTree
	}
	budget := opts.MaxSteps
	if budget <= 0 {
		budget = DefaultMaxSteps
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	res := &Result{ID: uuid.NewString()}
	log = log.With(
		zap.String("run_id", res.ID),
		zap.String("engine", string(engine)),
	)
	log.Debug("run starting", zap.Int("max_steps", budget), zap.Int("input_len", len(input)))

	t := tape.New(input)
	if err := checkTape(prog, t); err != nil {
		return nil, err
	}
	step, status, err := newStepper(engine, prog, t)
	if err != nil {
		return nil, err
	}

	for status() == "" {
		if res.StepsRun >= budget {
			log.Warn("run exceeded step budget", zap.Int("steps", res.StepsRun))
			return nil, fmt.Errorf("run %s exceeded step budget of %d", res.ID, budget)
		}
		s, err := step()
		if err != nil {
			return nil, err
		}
		res.StepsRun++
		if opts.Trace {
			res.Steps = append(res.Steps, s)
		}
		log.Debug("step",
			zap.Int("n", res.StepsRun),
			zap.String("label", s.Label),
			zap.String("symbol", ast.Render(s.Symbol)),
			zap.String("next", s.Taken.Next),
		)
	}

	res.Status = status()
	res.Tape = t.String()
	res.Head = t.Head()
	log.Info("run finished",
		zap.String("status", res.Status),
		zap.Int("steps", res.StepsRun),
		zap.String("tape", res.Tape),
	)
	return res, nil
}

// checkTape rejects input containing symbols the program's alphabet does
// not declare. Both engines require this before the first step.
func checkTape(prog *ast.Program, t *tape.Tape) error {
	alphabet := make(map[string]bool, len(prog.Alphabet.Symbols))
	for _, s := range prog.Alphabet.Symbols {
		alphabet[s] = true
	}
	for _, s := range t.Symbols() {
		if !alphabet[s] {
			return fmt.Errorf("tape symbol %q is not in the alphabet", s)
		}
	}
	return nil
}

// newStepper hides the engine difference behind a pair of closures.
func newStepper(engine Engine, prog *ast.Program, t *tape.Tape) (func() (machine.Step, error), func() string, error) {
	switch engine {
	case EngineMachine:
		exec := machine.NewExecution(compiler.Compile(prog), t)
		return exec.Step, exec.Status, nil
	case EngineTree:
		in, err := interp.New(prog, t)
		if err != nil {
			return nil, nil, err
		}
		return in.Step, in.Status, nil
	default:
		return nil, nil, fmt.Errorf("unknown engine %q", engine)
	}
}
