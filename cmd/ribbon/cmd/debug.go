package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/ribbon-lang/ribbon/internal/debug"
)

var debugTape string

var debugCmd = &cobra.Command{
	Use:   "debug <file>",
	Short: "Step through a run interactively",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if !term.IsTerminal(int(os.Stdin.Fd())) {
			return fmt.Errorf("debug needs an interactive terminal")
		}
		prog, err := loadProgram(args[0])
		if err != nil {
			return err
		}
		session, err := debug.New(prog, debugTape, os.Stdout)
		if err != nil {
			return err
		}
		return session.Run()
	},
}

func init() {
	debugCmd.Flags().StringVarP(&debugTape, "tape", "t", "", "initial tape content (spaces are blanks)")
	rootCmd.AddCommand(debugCmd)
}
