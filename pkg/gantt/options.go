package gantt

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/ganttgrid/pkg/calendar"
	"github.com/matzehuels/ganttgrid/pkg/column"
	"github.com/matzehuels/ganttgrid/pkg/errors"
	"github.com/matzehuels/ganttgrid/pkg/header"
)

// OutOfRange selects how the date range reacts to data outside it.
type OutOfRange string

const (
	// OutOfRangeExpand grows the range to cover all requests and tasks.
	OutOfRangeExpand OutOfRange = "expand"
	// OutOfRangeTruncate keeps the requested range and clips tasks.
	OutOfRangeTruncate OutOfRange = "truncate"
)

// AutoExpand selects in which scroll directions the range may grow.
type AutoExpand string

const (
	AutoExpandNone  AutoExpand = "none"
	AutoExpandLeft  AutoExpand = "left"
	AutoExpandRight AutoExpand = "right"
	AutoExpandBoth  AutoExpand = "both"
)

// Allows reports whether expansion toward dir is permitted.
func (a AutoExpand) Allows(dir Direction) bool {
	switch a {
	case AutoExpandBoth:
		return true
	case AutoExpandLeft:
		return dir == Left
	case AutoExpandRight:
		return dir == Right
	}
	return false
}

// Direction is a horizontal scroll direction.
type Direction int

const (
	Left Direction = iota
	Right
)

// Sort modes understood by [Gantt.SortRows]. A leading "-" reverses the
// order.
const (
	SortByName   = "name"
	SortByDate   = "date"
	SortByCustom = "custom"
)

// Options configures a [Gantt].
type Options struct {
	// Columns configures the column grid (scale, widths, calendar masks).
	Columns column.Options
	// Headers toggles header bands.
	Headers header.Show
	// OutOfRange is the range policy for data outside the range.
	OutOfRange OutOfRange
	// AutoExpand permits range growth on scroll.
	AutoExpand AutoExpand
	// SortMode orders rows: name, date or custom, optionally prefixed by "-".
	SortMode string
	// SortFunc overrides SortMode when set.
	SortFunc func(a, b *Row) int
	// Magnet snaps dates resolved from positions.
	Magnet calendar.Magnet
	// CurrentDate marks the column containing it. Zero disables the marker.
	CurrentDate time.Time
	// From and To request an initial range when both are set.
	From, To time.Time
	// Logger receives debug output. Nil discards it.
	Logger *log.Logger
}

// DefaultOptions returns day-scale options with every header band, the
// expand policy and name sorting.
func DefaultOptions() Options {
	return Options{
		Columns:    column.DefaultOptions(),
		Headers:    header.ShowAll(),
		OutOfRange: OutOfRangeExpand,
		AutoExpand: AutoExpandNone,
		SortMode:   SortByName,
	}
}

// Validate reports configuration the coordinator cannot honor.
func (o Options) Validate() error {
	if err := o.Columns.Validate(); err != nil {
		return err
	}
	switch o.OutOfRange {
	case OutOfRangeExpand, OutOfRangeTruncate:
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "unknown out-of-range policy %q", o.OutOfRange)
	}
	switch o.AutoExpand {
	case AutoExpandNone, AutoExpandLeft, AutoExpandRight, AutoExpandBoth:
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "unknown auto-expand policy %q", o.AutoExpand)
	}
	if o.SortFunc == nil {
		if _, _, err := parseSortMode(o.SortMode); err != nil {
			return err
		}
	}
	return nil
}

func (o Options) logger() *log.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return log.New(io.Discard)
}
