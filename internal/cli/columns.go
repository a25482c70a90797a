package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/ganttgrid/pkg/errors"
	"github.com/matzehuels/ganttgrid/pkg/gantt"
	"github.com/matzehuels/ganttgrid/pkg/pipeline"
)

// Output formats for printed results.
const (
	outputTable = "table"
	outputJSON  = "json"
	outputYAML  = "yaml"
)

// gridFlags are the flags of a bare column run.
type gridFlags struct {
	view       viewFlags
	from, to   string
	maxWidth   float64
	leftOffset float64
	reverse    bool
	format     string
	noCache    bool
}

func (f *gridFlags) register(cmd *cobra.Command) {
	f.view.register(cmd)
	cmd.Flags().StringVar(&f.from, "from", "", "anchor date")
	cmd.Flags().StringVar(&f.to, "to", "", "end date (forward) or lower bound (reverse)")
	cmd.Flags().Float64Var(&f.maxWidth, "max-width", 0, "width budget instead of an end date")
	cmd.Flags().Float64Var(&f.leftOffset, "left-offset", 0, "offset added to every column position")
	cmd.Flags().BoolVar(&f.reverse, "reverse", false, "walk backward from --from")
	cmd.Flags().StringVarP(&f.format, "format", "f", outputTable, "output format: table, json, yaml")
	cmd.Flags().BoolVar(&f.noCache, "no-cache", false, "disable caching")
	_ = cmd.MarkFlagRequired("from")
}

// columnsCommand creates the columns command for generating a bare grid.
func (c *CLI) columnsCommand() *cobra.Command {
	var f gridFlags

	cmd := &cobra.Command{
		Use:   "columns",
		Short: "Generate a column grid and its header bands",
		Long: `Generate a column grid and its header bands.

The run starts at --from and is bounded either by --to or by --max-width.
With --reverse the run walks backward from --from and ends at --left-offset.

Examples:
  ganttgrid columns --from 2024-01-01 --to 2024-02-01
  ganttgrid columns -s hour --from "2024-01-01 08:00" --max-width 48
  ganttgrid columns -s week --from 2024-03-01 --max-width 20 --reverse -f json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			res, scale, err := c.runColumns(cmd, &f)
			if err != nil {
				return err
			}
			return writeColumns(cmd.OutOrStdout(), res, scale, f.format)
		},
	}
	f.register(cmd)
	return cmd
}

// headersCommand creates the headers command printing only header bands.
func (c *CLI) headersCommand() *cobra.Command {
	var f gridFlags

	cmd := &cobra.Command{
		Use:   "headers",
		Short: "Print the header bands of a column grid",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			res, scale, err := c.runColumns(cmd, &f)
			if err != nil {
				return err
			}
			if f.format == outputTable || f.format == "" {
				return printBands(cmd.OutOrStdout(), res.Headers)
			}
			return writeValue(cmd.OutOrStdout(), struct {
				Scale   string           `json:"scale" yaml:"scale"`
				Headers []gantt.BandView `json:"headers" yaml:"headers"`
			}{scale, res.Headers}, f.format)
		},
	}
	f.register(cmd)
	return cmd
}

// runColumns generates the grid described by f and returns it with its
// scale name.
func (c *CLI) runColumns(cmd *cobra.Command, f *gridFlags) (*pipeline.ColumnsResult, string, error) {
	v, err := c.view(cmd, &f.view)
	if err != nil {
		return nil, "", err
	}
	from, err := parseDate("from", f.from, v)
	if err != nil {
		return nil, "", err
	}
	to, err := parseDate("to", f.to, v)
	if err != nil {
		return nil, "", err
	}
	cfg, err := c.config()
	if err != nil {
		return nil, "", err
	}

	runner := c.newRunner(cmd.Context(), cfg, f.noCache)
	defer runner.Close()

	res, err := runner.Columns(cmd.Context(), pipeline.ColumnsRequest{
		View:       v,
		From:       from,
		To:         to,
		MaxWidth:   f.maxWidth,
		LeftOffset: f.leftOffset,
		Reverse:    f.reverse,
	})
	if err != nil {
		return nil, "", fmt.Errorf("generate columns: %w", err)
	}
	return res, v.Columns.Scale, nil
}

// writeColumns prints a column run in the requested format.
func writeColumns(w io.Writer, res *pipeline.ColumnsResult, scale, format string) error {
	switch format {
	case outputTable, "":
		return printGrid(w, res, scale)
	default:
		return writeValue(w, res, format)
	}
}

// writeValue encodes v as JSON or YAML.
func writeValue(w io.Writer, v any, format string) error {
	switch format {
	case outputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case outputYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		return errors.New(errors.ErrCodeInvalidFormat, "unknown output format %q (use table, json or yaml)", format)
	}
}
