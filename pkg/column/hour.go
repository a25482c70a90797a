package column

import (
	"time"

	"github.com/matzehuels/ganttgrid/pkg/calendar"
)

// HourColumn covers one hour. Positions resolve to minutes.
type HourColumn struct {
	Span
	IsWeekend   bool
	IsWorkHour  bool
	HoursToNext int // Hours from this column to the next visible hour
	HoursToPrev int // Hours from the previous visible hour to this column
}

func (c *HourColumn) Unit() calendar.Unit { return calendar.Hour }

func (c *HourColumn) EndDate() time.Time {
	return c.DateByPosition(c.Width, SnapNone)
}

func (c *HourColumn) ContainsDate(t time.Time) bool {
	return cal.Same(calendar.Hour, c.in(t), c.Date)
}

func (c *HourColumn) DateByPosition(pos float64, snap Snap) time.Time {
	minutes := c.valueAt(60, pos)
	base := c.Date
	switch {
	case snap == SnapForward && minutes == 60:
		base = cal.Add(calendar.Hour, base, max(c.HoursToNext, 1))
		minutes = 0
	case snap == SnapBackward && minutes == 0:
		base = cal.Add(calendar.Hour, base, -max(c.HoursToPrev, 1))
		minutes = 60
	}
	return cal.AddFraction(calendar.Minute, base, minutes)
}

func (c *HourColumn) PositionByDate(t time.Time) float64 {
	t = c.in(t)
	switch {
	case t.Before(c.Date):
		return c.leftEdge()
	case !c.ContainsDate(t):
		return c.rightEdge()
	}
	minutes := t.Sub(c.Date).Minutes()
	return c.positionAt(60, minutes)
}

func (c *HourColumn) Clone() Column {
	cp := *c
	return &cp
}
