// Command ganttgrid lays out Gantt chart grids: it generates hour, day, week
// and month columns with their header bands, places rows and tasks on them,
// converts between dates and positions, and serves the same over HTTP.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/matzehuels/ganttgrid/internal/cli"
)

// exitInterrupted is the shell status for a run stopped by SIGINT.
const exitInterrupted = 130

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:]); err != nil {
		if errors.Is(err, context.Canceled) {
			os.Exit(exitInterrupted)
		}
		fmt.Fprintln(os.Stderr, "ganttgrid:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string) error {
	c := cli.New(os.Stderr, cli.LogInfo)
	root := c.RootCommand()
	root.SetArgs(args)

	var verbose bool
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false,
		"log column generation, cache lookups and HTTP requests at debug level")

	// The level must be set before the root hook hands the logger to commands.
	attach := root.PersistentPreRunE
	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if verbose {
			c.SetLogLevel(cli.LogDebug)
		}
		if attach == nil {
			return nil
		}
		return attach(cmd, args)
	}

	return root.ExecuteContext(ctx)
}
