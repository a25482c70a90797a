package column

import (
	"time"

	"github.com/matzehuels/ganttgrid/pkg/calendar"
)

// MonthColumn covers one calendar month. Positions resolve to days.
type MonthColumn struct {
	Span
	DaysInMonth int
}

func (c *MonthColumn) Unit() calendar.Unit { return calendar.Month }

func (c *MonthColumn) days() float64 {
	if c.DaysInMonth > 0 {
		return float64(c.DaysInMonth)
	}
	return float64(calendar.DaysIn(c.Date))
}

func (c *MonthColumn) EndDate() time.Time {
	return c.DateByPosition(c.Width, SnapNone)
}

func (c *MonthColumn) ContainsDate(t time.Time) bool {
	return cal.Same(calendar.Month, c.in(t), c.Date)
}

func (c *MonthColumn) DateByPosition(pos float64, _ Snap) time.Time {
	return cal.AddFraction(calendar.Day, c.Date, c.valueAt(c.days(), pos))
}

func (c *MonthColumn) PositionByDate(t time.Time) float64 {
	t = c.in(t)
	switch {
	case t.Before(c.Date):
		return c.leftEdge()
	case !c.ContainsDate(t):
		return c.rightEdge()
	}
	return c.positionAt(c.days(), calendar.DayOffset(c.Date, t))
}

func (c *MonthColumn) Clone() Column {
	cp := *c
	return &cp
}
