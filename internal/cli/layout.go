package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/ganttgrid/pkg/gantt"
	"github.com/matzehuels/ganttgrid/pkg/io"
	"github.com/matzehuels/ganttgrid/pkg/pipeline"
)

type layoutFlags struct {
	view     viewFlags
	from, to string
	current  string
	output   string
	format   string
	noCache  bool
	refresh  bool
}

// layoutCommand creates the layout command for laying out a dataset file.
func (c *CLI) layoutCommand() *cobra.Command {
	var f layoutFlags

	cmd := &cobra.Command{
		Use:   "layout [dataset.yaml|dataset.json]",
		Short: "Lay out a dataset into a snapshot",
		Long: `Lay out a dataset into a snapshot.

The layout command reads rows, tasks and timespans from a YAML or JSON
dataset, builds the column grid around them and writes the resulting
snapshot: columns, header bands and the position of every task.

The snapshot goes to stdout unless --output names a file. Results are
cached, keyed by the dataset content and the view settings.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runLayout(cmd, args[0], &f)
		},
	}

	f.view.register(cmd)
	cmd.Flags().StringVar(&f.from, "from", "", "requested range start")
	cmd.Flags().StringVar(&f.to, "to", "", "requested range end")
	cmd.Flags().StringVar(&f.current, "current", "", "date to mark as current")
	cmd.Flags().StringVarP(&f.output, "output", "o", "", "output file (.json, .yaml)")
	cmd.Flags().StringVarP(&f.format, "format", "f", outputJSON, "stdout format: json, yaml")
	cmd.Flags().BoolVar(&f.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&f.refresh, "refresh", false, "recompute and overwrite the cached layout")

	return cmd
}

// runLayout loads the dataset, lays it out, and writes the snapshot.
func (c *CLI) runLayout(cmd *cobra.Command, input string, f *layoutFlags) error {
	ctx := cmd.Context()
	v, err := c.view(cmd, &f.view)
	if err != nil {
		return err
	}
	opts := pipeline.Options{View: v, Refresh: f.refresh, Logger: c.Logger}
	if opts.From, opts.To, err = parseRange(f.from, f.to, v); err != nil {
		return err
	}
	if opts.CurrentDate, err = parseDate("current", f.current, v); err != nil {
		return err
	}
	cfg, err := c.config()
	if err != nil {
		return err
	}

	runner := c.newRunner(ctx, cfg, f.noCache)
	defer runner.Close()

	res, err := c.layout(ctx, runner, input, opts)
	if err != nil {
		return err
	}

	if f.output == "" {
		format, err := io.ParseFormat(f.format)
		if err != nil {
			return err
		}
		return io.WriteSnapshot(cmd.OutOrStdout(), res.Snapshot, format)
	}

	if err := io.ExportSnapshot(res.Snapshot, f.output); err != nil {
		return fmt.Errorf("write output %s: %w", f.output, err)
	}

	printSuccess("Layout complete")
	printFile(f.output)
	printStats(res.Stats, res.CacheHit)
	if n := outOfRange(res.Snapshot); n > 0 {
		printWarning("%d tasks fall outside the range", n)
	}
	printNewline()
	printNextStep("Serve the API", appName+" serve")
	return nil
}

func (c *CLI) layout(ctx context.Context, runner *pipeline.Runner, input string, opts pipeline.Options) (*pipeline.Result, error) {
	prog := newProgress(c.Logger)
	spinner := newSpinnerWithContext(ctx, os.Stderr, "Laying out "+input+"...")
	spinner.Start()

	in, err := runner.LoadFile(ctx, input)
	if err != nil {
		spinner.StopWithError("Load failed")
		return nil, fmt.Errorf("load dataset %s: %w", input, err)
	}
	res, err := runner.Layout(ctx, in, opts)
	if err != nil {
		spinner.StopWithError("Layout failed")
		return nil, fmt.Errorf("compute layout: %w", err)
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	prog.done(fmt.Sprintf("Laid out %d rows", res.Stats.RowCount))
	return res, nil
}

func outOfRange(s gantt.Snapshot) int {
	n := 0
	for _, row := range s.Rows {
		for _, t := range row.Tasks {
			if t.OutOfRange {
				n++
			}
		}
	}
	return n
}
