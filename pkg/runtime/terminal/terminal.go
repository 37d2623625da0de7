package terminal

import (
	"io"
	"os"

	"github.com/fiscal-tools/cfdi-atlas/pkg/runtime/terminal/commands"
	"github.com/fiscal-tools/cfdi-atlas/pkg/runtime/terminal/export"

	"github.com/fiscal-tools/cfdi-atlas/pkg/services/dataset"
	"github.com/spf13/cobra"
)

// CLI represents the command-line interface
type CLI struct {
	store    *dataset.Store
	reporter *export.Reporter
	rootCmd  *cobra.Command
}

// Options contain configuration for the CLI
type Options struct {
	Store  *dataset.Store
	Output io.Writer
}

// NewCLI creates a new CLI instance
func NewCLI(opts Options) *CLI {
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.Store == nil {
		opts.Store = dataset.NewStore()
	}

	cli := &CLI{
		store:    opts.Store,
		reporter: export.NewReporter(opts.Output),
	}

	cli.rootCmd = cli.newRootCmd()
	return cli
}

func (cli *CLI) Execute() error {
	return cli.rootCmd.Execute()
}

func (cli *CLI) newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cfdi-atlas",
		Short: "CFDI batch processing tool",
	}

	cmd.AddCommand(commands.NewProcessCmd(cli.store, cli.reporter))
	cmd.AddCommand(commands.NewExportCmd(cli.store))
	cmd.AddCommand(commands.NewProfilesCmd())

	return cmd
}
