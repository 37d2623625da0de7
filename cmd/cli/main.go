package main

import (
	"fmt"
	"os"

	"github.com/fiscal-tools/cfdi-atlas/pkg/runtime/terminal"
	"github.com/fiscal-tools/cfdi-atlas/pkg/services/dataset"
)

func main() {
	cli := terminal.NewCLI(terminal.Options{
		Store:  dataset.NewStore(),
		Output: os.Stdout,
	})

	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
