package column

import (
	"time"

	"github.com/matzehuels/ganttgrid/pkg/calendar"
)

const daysInWeek = 7

// WeekColumn covers one week starting at Date. Positions resolve to days.
type WeekColumn struct {
	Span
	Number int // Week number, see calendar.Calendar.WeekNumber
}

func (c *WeekColumn) Unit() calendar.Unit { return calendar.Week }

func (c *WeekColumn) EndDate() time.Time {
	return c.DateByPosition(c.Width, SnapNone)
}

func (c *WeekColumn) ContainsDate(t time.Time) bool {
	t = c.in(t)
	return !t.Before(c.Date) && t.Before(cal.Add(calendar.Week, c.Date, 1))
}

func (c *WeekColumn) DateByPosition(pos float64, _ Snap) time.Time {
	return cal.AddFraction(calendar.Day, c.Date, c.valueAt(daysInWeek, pos))
}

func (c *WeekColumn) PositionByDate(t time.Time) float64 {
	t = c.in(t)
	switch {
	case t.Before(c.Date):
		return c.leftEdge()
	case !c.ContainsDate(t):
		return c.rightEdge()
	}
	return c.positionAt(daysInWeek, calendar.DayOffset(c.Date, t))
}

func (c *WeekColumn) Clone() Column {
	cp := *c
	return &cp
}
