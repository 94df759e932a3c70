package main

import (
	"os"

	"github.com/ribbon-lang/ribbon/cmd/ribbon/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
