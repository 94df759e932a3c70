package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ribbon-lang/ribbon/internal/cli"
)

var checkCmd = &cobra.Command{
	Use:   "check <file>",
	Short: "Parse and validate a program without running it",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		prog, err := loadProgram(args[0])
		if err != nil {
			return err
		}
		fmt.Printf("%s\n", cli.Success(fmt.Sprintf("%s: %d module(s), alphabet of %d symbol(s)",
			args[0], len(prog.Modules), len(prog.Alphabet.Symbols))))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)
}
