package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ribbon-lang/ribbon/internal/compiler"
)

var compileCmd = &cobra.Command{
	Use:   "compile <file>",
	Short: "Lower a program to its automaton and print the state table",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		prog, err := loadProgram(args[0])
		if err != nil {
			return err
		}
		fmt.Print(compiler.Compile(prog).Format())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(compileCmd)
}
