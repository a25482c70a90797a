package cli

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/ganttgrid/pkg/config"
	"github.com/matzehuels/ganttgrid/pkg/errors"
	"github.com/matzehuels/ganttgrid/pkg/io"
)

// viewFlags overrides config file view settings from the command line.
// Only flags the user set are applied.
type viewFlags struct {
	scale            string
	width            float64
	columnWidth      float64
	subScale         int
	weekendDays      []string
	hideWeekends     bool
	workHours        []int
	hideNonWorkHours bool
	firstDayOfWeek   string
	outOfRange       string
	sort             string
	magnet           string
	timezone         string
}

func (f *viewFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringVarP(&f.scale, "scale", "s", "", "column scale: hour, day, week, month")
	fs.Float64Var(&f.width, "width", 0, "fit columns to this total width")
	fs.Float64Var(&f.columnWidth, "column-width", 0, "width of one column")
	fs.IntVar(&f.subScale, "sub-scale", 0, "snap steps per column")
	fs.StringSliceVar(&f.weekendDays, "weekend", nil, "weekend days (e.g. sat,sun)")
	fs.BoolVar(&f.hideWeekends, "hide-weekends", false, "omit weekend columns")
	fs.IntSliceVar(&f.workHours, "work-hours", nil, "work hours of the day (e.g. 8,9,10)")
	fs.BoolVar(&f.hideNonWorkHours, "hide-non-work-hours", false, "omit non-work hour columns")
	fs.StringVar(&f.firstDayOfWeek, "first-day", "", "first day of the week")
	fs.StringVar(&f.outOfRange, "out-of-range", "", "policy for data outside the range: expand, truncate")
	fs.StringVar(&f.sort, "sort", "", "row order: name, date, custom (prefix - to reverse)")
	fs.StringVar(&f.magnet, "magnet", "", "snap resolved dates, e.g. \"15 minutes\"")
	fs.StringVar(&f.timezone, "tz", "", "IANA time zone for dates")
}

// apply copies the changed flags into v.
func (f *viewFlags) apply(cmd *cobra.Command, v *config.View) {
	changed := cmd.Flags().Changed
	if changed("scale") {
		v.Columns.Scale = f.scale
	}
	if changed("width") {
		v.Columns.Width = f.width
	}
	if changed("column-width") {
		v.Columns.ColumnWidth = f.columnWidth
	}
	if changed("sub-scale") {
		v.Columns.SubScale = f.subScale
	}
	if changed("weekend") {
		v.Columns.WeekendDays = f.weekendDays
	}
	if changed("hide-weekends") {
		v.Columns.ShowWeekends = !f.hideWeekends
	}
	if changed("work-hours") {
		v.Columns.WorkHours = f.workHours
	}
	if changed("hide-non-work-hours") {
		v.Columns.ShowNonWorkHours = !f.hideNonWorkHours
	}
	if changed("first-day") {
		v.Columns.FirstDayOfWeek = f.firstDayOfWeek
	}
	if changed("out-of-range") {
		v.Layout.OutOfRange = f.outOfRange
	}
	if changed("sort") {
		v.Layout.Sort = f.sort
	}
	if changed("magnet") {
		v.Layout.Magnet = f.magnet
	}
	if changed("tz") {
		v.Layout.Timezone = f.timezone
	}
}

// view returns the config file view with the flags applied.
func (c *CLI) view(cmd *cobra.Command, f *viewFlags) (config.View, error) {
	cfg, err := c.config()
	if err != nil {
		return config.View{}, err
	}
	v := cfg.View
	f.apply(cmd, &v)
	if _, err := v.GanttOptions(); err != nil {
		return v, err
	}
	return v, nil
}

// parseDate parses an optional date flag in the view's time zone.
func parseDate(name, s string, v config.View) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	loc, err := v.Location()
	if err != nil {
		return time.Time{}, err
	}
	t, err := io.ParseTime(s, loc)
	if err != nil {
		return time.Time{}, errors.Wrap(errors.ErrCodeInvalidArgument, err, "--%s", name)
	}
	return t, nil
}

// parseRange parses a --from/--to pair. Both or neither must be given.
func parseRange(from, to string, v config.View) (time.Time, time.Time, error) {
	f, err := parseDate("from", from, v)
	if err != nil {
		return f, f, err
	}
	t, err := parseDate("to", to, v)
	if err != nil {
		return f, t, err
	}
	if f.IsZero() != t.IsZero() {
		return f, t, errors.New(errors.ErrCodeInvalidArgument, "--from and --to must be given together")
	}
	if !f.IsZero() {
		if err := errors.ValidateRange(f, t); err != nil {
			return f, t, err
		}
	}
	return f, t, nil
}
