package column

import (
	"math"
	"time"

	"github.com/matzehuels/ganttgrid/pkg/calendar"
	"github.com/matzehuels/ganttgrid/pkg/errors"
)

// Snap selects how a position on the boundary between two visible periods
// resolves when the periods in between are hidden.
type Snap int

const (
	// SnapNone returns the natural instant for the position.
	SnapNone Snap = iota
	// SnapForward moves a right-edge position to the start of the next
	// visible period. Used for start dates.
	SnapForward
	// SnapBackward moves a left-edge position to the end of the previous
	// visible period. Used for end dates.
	SnapBackward
)

// ParseSnap parses "none", "forward" or "backward". The empty string is
// SnapNone.
func ParseSnap(s string) (Snap, error) {
	switch s {
	case "", "none":
		return SnapNone, nil
	case "forward":
		return SnapForward, nil
	case "backward":
		return SnapBackward, nil
	}
	return SnapNone, errors.New(errors.ErrCodeInvalidArgument, "unknown snap %q (use none, forward or backward)", s)
}

// Column is one cell of the time grid.
type Column interface {
	// Geometry exposes the shared position and size fields.
	Geometry() *Span
	// Unit returns the granularity of the column.
	Unit() calendar.Unit
	// EndDate returns the instant at the right edge of the column.
	EndDate() time.Time
	// ContainsDate reports whether t falls inside the column's unit.
	ContainsDate(t time.Time) bool
	// DateByPosition maps a position relative to Left to an instant.
	// Positions are clamped to [0, Width].
	DateByPosition(pos float64, snap Snap) time.Time
	// PositionByDate maps an instant to an absolute position. Dates
	// before the column map to Left, dates after it to Left+Width.
	PositionByDate(t time.Time) float64
	// Clone returns an independent copy.
	Clone() Column
}

// Span holds the geometry shared by every column variant.
type Span struct {
	Date     time.Time // Start of the column, inclusive
	Left     float64   // Absolute offset of the left edge
	Width    float64   // Horizontal size
	SubScale int       // Snap steps per column
	Current  bool      // Column contains the current date marker
}

// Geometry returns s itself so embedding types satisfy [Column].
func (s *Span) Geometry() *Span {
	return s
}

// in converts t to the location of the column so calendar math on both
// sides agrees.
func (s *Span) in(t time.Time) time.Time {
	return t.In(s.Date.Location())
}

// Right returns the offset of the right edge.
func (s *Span) Right() float64 {
	return s.Left + s.Width
}

func (s *Span) steps() float64 {
	if s.SubScale <= 0 {
		return 1
	}
	return float64(s.SubScale)
}

// valueAt converts a position inside the column into a value in [0, rng],
// snapped to rng/SubScale steps.
func (s *Span) valueAt(rng, pos float64) float64 {
	if s.Width <= 0 || rng <= 0 {
		return 0
	}
	pos = math.Max(0, math.Min(pos, s.Width))
	step := rng / s.steps()
	return math.Round(rng/s.Width*pos/step) * step
}

// positionAt converts a value in [0, rng] into an absolute position,
// snapped to sub-scale steps and rounded to one decimal.
func (s *Span) positionAt(rng, value float64) float64 {
	factor := 0.0
	if rng > 0 {
		factor = math.Round(value/rng*s.steps()) / s.steps()
	}
	factor = math.Max(0, math.Min(factor, 1))
	return round1(s.Left + s.Width*factor)
}

func (s *Span) leftEdge() float64 {
	return round1(s.Left)
}

func (s *Span) rightEdge() float64 {
	return round1(s.Left + s.Width)
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// cal performs the unit arithmetic that does not depend on week start.
var cal calendar.Calendar

// Ensure all variants implement Column.
var (
	_ Column = (*HourColumn)(nil)
	_ Column = (*DayColumn)(nil)
	_ Column = (*WeekColumn)(nil)
	_ Column = (*MonthColumn)(nil)
)
