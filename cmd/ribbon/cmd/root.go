// Package cmd wires up the ribbon command-line interface.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ribbon-lang/ribbon/internal/ast"
	"github.com/ribbon-lang/ribbon/internal/cli"
	"github.com/ribbon-lang/ribbon/internal/parser"
	"github.com/ribbon-lang/ribbon/internal/validator"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "ribbon",
	Short: "Work with ribbon machine programs",
	Long: `ribbon checks, compiles, runs and debugs programs written in the
ribbon machine language: indentation-structured modules that are lowered to
a finite automaton driving an unbounded tape.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command.
func Execute() error {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, cli.Error(err.Error()))
		return err
	}
	return nil
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

// newLogger builds the run logger: a development logger on stderr when
// --verbose is set, otherwise a no-op.
func newLogger() *zap.Logger {
	if !verbose {
		return zap.NewNop()
	}
	log, err := zap.NewDevelopment()
	if err != nil {
		return zap.NewNop()
	}
	return log
}

// loadProgram reads, parses and validates a source file. Diagnostics are
// printed with their source excerpt before the error is returned.
func loadProgram(path string) (*ast.Program, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	source := string(data)

	prog, err := parser.Parse(source)
	if err != nil {
		fmt.Fprintln(os.Stderr, cli.Report(err, source))
		return nil, fmt.Errorf("%s does not parse", path)
	}
	if err := validator.Validate(prog); err != nil {
		fmt.Fprintln(os.Stderr, cli.Report(err, source))
		return nil, fmt.Errorf("%s does not validate", path)
	}
	return prog, nil
}
