package column

import (
	"time"

	"github.com/matzehuels/ganttgrid/pkg/calendar"
)

// DayColumn covers one day. Positions resolve to hours within the visible
// window [StartHour, EndHour).
type DayColumn struct {
	Span
	IsWeekend  bool
	DaysToNext int // Days from this column to the next visible day
	DaysToPrev int // Days from the previous visible day to this column
	StartHour  int // First visible hour, 0 unless non-work hours are hidden
	EndHour    int // End of the visible window, 24 unless non-work hours are hidden
}

// WorkWindow returns the visible hour window for a day column. Non-work hours
// are cut only when they are hidden and at least two work hours are set.
func WorkWindow(work calendar.HourSet, showNonWorkHours bool) (start, end int) {
	if showNonWorkHours || work.Len() < 2 {
		return 0, 24
	}
	first, last, _ := work.Bounds()
	return first, last + 1
}

func (c *DayColumn) Unit() calendar.Unit { return calendar.Day }

func (c *DayColumn) window() (int, int) {
	if c.EndHour <= c.StartHour {
		return 0, 24
	}
	return c.StartHour, c.EndHour
}

func (c *DayColumn) EndDate() time.Time {
	return c.DateByPosition(c.Width, SnapNone)
}

func (c *DayColumn) ContainsDate(t time.Time) bool {
	return cal.Same(calendar.Day, c.in(t), c.Date)
}

func (c *DayColumn) DateByPosition(pos float64, snap Snap) time.Time {
	start, end := c.window()
	hours := float64(start) + c.valueAt(float64(end-start), pos)
	base := c.Date
	switch {
	case snap == SnapForward && hours == float64(end):
		base = cal.Add(calendar.Day, base, max(c.DaysToNext, 1))
		hours = float64(start)
	case snap == SnapBackward && hours == float64(start):
		base = cal.Add(calendar.Day, base, -max(c.DaysToPrev, 1))
		hours = float64(end)
	}
	return cal.AddFraction(calendar.Hour, base, hours)
}

func (c *DayColumn) PositionByDate(t time.Time) float64 {
	t = c.in(t)
	day := cal.StartOf(calendar.Day, t)
	own := cal.StartOf(calendar.Day, c.Date)
	switch {
	case day.After(own):
		return c.rightEdge()
	case day.Before(own):
		return c.leftEdge()
	}
	start, end := c.window()
	rng := float64(end - start)
	current := calendar.HourOfDay(t) - float64(start)
	switch {
	case current < 0:
		return c.leftEdge()
	case current > rng:
		return c.rightEdge()
	}
	return c.positionAt(rng, current)
}

func (c *DayColumn) Clone() Column {
	cp := *c
	return &cp
}
