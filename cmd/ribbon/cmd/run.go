package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ribbon-lang/ribbon/internal/cli"
	"github.com/ribbon-lang/ribbon/internal/manifest"
	"github.com/ribbon-lang/ribbon/internal/runner"
)

var (
	runTape     string
	runEngine   string
	runMaxSteps int
	runManifest string
)

var runCmd = &cobra.Command{
	Use:   "run [file]",
	Short: "Run a program on a tape, or replay a manifest of runs",
	Long: `Run executes one program against one tape:

    ribbon run prog.ribbon --tape "aabb"

or replays every run declared in a YAML manifest:

    ribbon run --manifest runs.yaml`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if runManifest != "" {
			if len(args) > 0 {
				return fmt.Errorf("pass either a file or --manifest, not both")
			}
			return replayManifest(runManifest)
		}
		if len(args) == 0 {
			return fmt.Errorf("a program file or --manifest is required")
		}

		prog, err := loadProgram(args[0])
		if err != nil {
			return err
		}
		res, err := runner.Run(prog, runTape, runner.Options{
			Engine:   runner.Engine(runEngine),
			MaxSteps: runMaxSteps,
			Logger:   newLogger(),
		})
		if err != nil {
			return err
		}
		printResult(args[0], res)
		return nil
	},
}

func replayManifest(path string) error {
	m, err := manifest.Load(path)
	if err != nil {
		return err
	}
	prog, err := loadProgram(m.Program)
	if err != nil {
		return err
	}

	failed := 0
	for i, r := range m.Runs {
		name := r.Name
		if name == "" {
			name = fmt.Sprintf("run %d", i+1)
		}
		res, err := runner.Run(prog, r.Tape, runner.Options{
			Engine:   runner.Engine(r.Engine),
			MaxSteps: r.MaxSteps,
			Logger:   newLogger(),
		})
		if err != nil {
			fmt.Println(cli.Error(fmt.Sprintf("%s: %v", name, err)))
			failed++
			continue
		}
		if r.Expect != "" && res.Status != r.Expect {
			fmt.Println(cli.Error(fmt.Sprintf("%s: expected %s, got %s after %d steps",
				name, r.Expect, res.Status, res.StepsRun)))
			failed++
			continue
		}
		fmt.Println(cli.Success(fmt.Sprintf("%s: %s after %d steps", name, res.Status, res.StepsRun)))
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d runs failed", failed, len(m.Runs))
	}
	return nil
}

func printResult(path string, res *runner.Result) {
	fmt.Println(cli.Success(fmt.Sprintf("%s: %s after %d steps", path, res.Status, res.StepsRun)))
	if res.Tape == "" {
		fmt.Println(cli.Dim("tape is blank"))
	} else {
		fmt.Printf("tape %q, head at cell %d\n", res.Tape, res.Head)
	}
}

func init() {
	runCmd.Flags().StringVarP(&runTape, "tape", "t", "", "initial tape content (spaces are blanks)")
	runCmd.Flags().StringVarP(&runEngine, "engine", "e", string(runner.EngineTree),
		`execution engine: "tree" or "machine"`)
	runCmd.Flags().IntVar(&runMaxSteps, "max-steps", 0, "step budget (0 uses the default)")
	runCmd.Flags().StringVarP(&runManifest, "manifest", "m", "", "YAML manifest of runs to replay")
	rootCmd.AddCommand(runCmd)
}
