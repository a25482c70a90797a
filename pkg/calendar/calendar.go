package calendar

import (
	"math"
	"time"
)

// Calendar performs unit arithmetic. The zero value starts weeks on Sunday.
type Calendar struct {
	FirstDayOfWeek time.Weekday
}

// StartOf truncates t to the first instant of its unit.
func (c Calendar) StartOf(u Unit, t time.Time) time.Time {
	y, m, d := t.Date()
	loc := t.Location()
	switch u {
	case Minute:
		return time.Date(y, m, d, t.Hour(), t.Minute(), 0, 0, loc)
	case Hour:
		return time.Date(y, m, d, t.Hour(), 0, 0, 0, loc)
	case Day:
		return time.Date(y, m, d, 0, 0, 0, 0, loc)
	case Week:
		back := (int(t.Weekday()) - int(c.FirstDayOfWeek) + 7) % 7
		return time.Date(y, m, d-back, 0, 0, 0, 0, loc)
	case Month:
		return time.Date(y, m, 1, 0, 0, 0, 0, loc)
	}
	return t
}

// Add moves t by n units. Hours and minutes are added as wall-clock fields,
// days and larger as calendar fields.
func (c Calendar) Add(u Unit, t time.Time, n int) time.Time {
	switch u {
	case Minute:
		return t.Add(time.Duration(n) * time.Minute)
	case Hour:
		return t.Add(time.Duration(n) * time.Hour)
	case Day:
		return t.AddDate(0, 0, n)
	case Week:
		return t.AddDate(0, 0, 7*n)
	case Month:
		return t.AddDate(0, n, 0)
	}
	return t
}

// IsBoundary reports whether t is the first instant of its unit.
func (c Calendar) IsBoundary(u Unit, t time.Time) bool {
	return c.StartOf(u, t).Equal(t)
}

// Same reports whether a and b fall in the same unit, measured in the
// location of b.
func (c Calendar) Same(u Unit, a, b time.Time) bool {
	a = a.In(b.Location())
	return c.StartOf(u, a).Equal(c.StartOf(u, b))
}

// WeekNumber returns the ISO week number of the week containing t. For weeks
// that do not start on Monday the number of the week's fourth day is used,
// so every week maps to exactly one number.
func (c Calendar) WeekNumber(t time.Time) int {
	_, w := c.StartOf(Week, t).AddDate(0, 0, 3).ISOWeek()
	return w
}

// DaysIn returns the number of days in the month containing t.
func DaysIn(t time.Time) int {
	y, m, _ := t.Date()
	return time.Date(y, m+1, 0, 0, 0, 0, 0, t.Location()).Day()
}

// HourOfDay returns the wall-clock time of day in fractional hours.
func HourOfDay(t time.Time) float64 {
	return float64(t.Hour()) +
		float64(t.Minute())/60 +
		float64(t.Second())/3600 +
		float64(t.Nanosecond())/3600e9
}

// DayOffset returns the fractional number of calendar days from start to t,
// measured in the location of start.
// Whole days are counted on calendar dates so DST shifts do not leak in.
func DayOffset(start, t time.Time) float64 {
	t = t.In(start.Location())
	sy, sm, sd := start.Date()
	ty, tm, td := t.Date()
	days := time.Date(ty, tm, td, 0, 0, 0, 0, time.UTC).
		Sub(time.Date(sy, sm, sd, 0, 0, 0, 0, time.UTC)).Hours() / 24
	return days + (HourOfDay(t)-HourOfDay(start))/24
}

// AddFraction moves t by a fractional number of units. The whole part is
// applied with [Calendar.Add]; the remainder becomes a duration of the next
// smaller unit (hours for days, minutes for hours).
func (c Calendar) AddFraction(u Unit, t time.Time, f float64) time.Time {
	whole := math.Floor(f)
	t = c.Add(u, t, int(whole))
	rest := f - whole
	if rest == 0 {
		return t
	}
	var unit time.Duration
	switch u {
	case Minute:
		unit = time.Minute
	case Hour:
		unit = time.Hour
	default:
		unit = 24 * time.Hour
	}
	return t.Add(time.Duration(math.Round(rest * float64(unit))))
}

// Min returns the earlier of a and b.
func Min(a, b time.Time) time.Time {
	if b.Before(a) {
		return b
	}
	return a
}

// Max returns the later of a and b.
func Max(a, b time.Time) time.Time {
	if b.After(a) {
		return b
	}
	return a
}
