package cli

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/matzehuels/ganttgrid/pkg/column"
	"github.com/matzehuels/ganttgrid/pkg/errors"
	"github.com/matzehuels/ganttgrid/pkg/gantt"
	"github.com/matzehuels/ganttgrid/pkg/io"
	"github.com/matzehuels/ganttgrid/pkg/pipeline"
)

type convertFlags struct {
	view     viewFlags
	from, to string
	snap     string
}

// convertCommand creates the convert command for date and position lookups.
func (c *CLI) convertCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "convert",
		Short: "Convert between dates and positions on a grid",
		Long: `Convert between dates and positions on a grid.

The grid is generated for --from..--to with the configured view. Dates and
positions outside it extend the grid on demand.`,
	}

	cmd.AddCommand(c.convertDateCommand())
	cmd.AddCommand(c.convertPositionCommand())

	return cmd
}

func (f *convertFlags) register(cmd *cobra.Command) {
	f.view.register(cmd)
	cmd.Flags().StringVar(&f.from, "from", "", "grid start")
	cmd.Flags().StringVar(&f.to, "to", "", "grid end")
	_ = cmd.MarkFlagRequired("from")
	_ = cmd.MarkFlagRequired("to")
}

// convertDateCommand creates the "convert date" subcommand.
func (c *CLI) convertDateCommand() *cobra.Command {
	var f convertFlags
	cmd := &cobra.Command{
		Use:   "date [date]",
		Short: "Print the position of a date",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, opts, err := c.convertGantt(cmd, &f)
			if err != nil {
				return err
			}
			date, err := parseDate("date", args[0], opts.View)
			if err != nil {
				return err
			}
			pos, ok := g.PositionByDate(date)
			if !ok {
				return errors.New(errors.ErrCodeNotFound, "no column for %s", io.FormatTime(date))
			}
			col, _ := g.ColumnByDate(date)
			printKeyValue("date", io.FormatTime(date))
			printKeyValue("position", formatNumber(pos))
			printKeyValue("column", io.FormatTime(col.Geometry().Date))
			return nil
		},
	}
	f.register(cmd)
	return cmd
}

// convertPositionCommand creates the "convert position" subcommand.
func (c *CLI) convertPositionCommand() *cobra.Command {
	var f convertFlags
	cmd := &cobra.Command{
		Use:   "position [x]",
		Short: "Print the date at a position",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			x, err := strconv.ParseFloat(args[0], 64)
			if err != nil {
				return errors.Wrap(errors.ErrCodeInvalidArgument, err, "position %q", args[0])
			}
			snap, err := column.ParseSnap(f.snap)
			if err != nil {
				return err
			}
			g, _, err := c.convertGantt(cmd, &f)
			if err != nil {
				return err
			}
			date, ok := g.DateByPosition(x, snap)
			if !ok {
				return errors.New(errors.ErrCodeNotFound, "no column at %s", args[0])
			}
			col, _ := g.ColumnByPosition(x)
			printKeyValue("position", formatNumber(x))
			printKeyValue("date", io.FormatTime(date))
			printKeyValue("column", io.FormatTime(col.Geometry().Date))
			return nil
		},
	}
	f.register(cmd)
	cmd.Flags().StringVar(&f.snap, "snap", "none", "resolve hidden-period boundaries: none, forward, backward")
	return cmd
}

// convertGantt builds a coordinator over the requested range.
func (c *CLI) convertGantt(cmd *cobra.Command, f *convertFlags) (*gantt.Gantt, pipeline.Options, error) {
	v, err := c.view(cmd, &f.view)
	if err != nil {
		return nil, pipeline.Options{}, err
	}
	opts := pipeline.Options{View: v}
	if opts.From, opts.To, err = parseRange(f.from, f.to, v); err != nil {
		return nil, opts, err
	}
	g, err := opts.NewGantt(c.Logger)
	if err != nil {
		return nil, opts, err
	}
	return g, opts, nil
}
