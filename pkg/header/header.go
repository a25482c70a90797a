// Package header builds the header bands shown above the column grid.
//
// Each band groups consecutive leaf columns that share the same hour, day,
// week or month into a single cell whose width is the sum of the grouped
// columns. Which bands exist depends on the view scale: an hour-scale chart
// shows hour and day bands, a day-scale chart a day band, a week-scale chart
// week and month bands, a month-scale chart a month band.
package header

import (
	"github.com/matzehuels/ganttgrid/pkg/calendar"
	"github.com/matzehuels/ganttgrid/pkg/column"
)

// Show toggles individual bands.
type Show struct {
	Hour  bool
	Day   bool
	Week  bool
	Month bool
}

// ShowAll enables every band.
func ShowAll() Show {
	return Show{Hour: true, Day: true, Week: true, Month: true}
}

// Headers holds one band per unit. Bands that do not apply are nil.
type Headers struct {
	Hour  []column.Column `json:"hour,omitempty"`
	Day   []column.Column `json:"day,omitempty"`
	Week  []column.Column `json:"week,omitempty"`
	Month []column.Column `json:"month,omitempty"`
}

// Bands returns the non-empty bands from coarse to fine.
func (h Headers) Bands() []Band {
	var out []Band
	for _, b := range []Band{
		{Unit: calendar.Month, Cells: h.Month},
		{Unit: calendar.Week, Cells: h.Week},
		{Unit: calendar.Day, Cells: h.Day},
		{Unit: calendar.Hour, Cells: h.Hour},
	} {
		if len(b.Cells) > 0 {
			out = append(out, b)
		}
	}
	return out
}

// Band is one header row.
type Band struct {
	Unit  calendar.Unit
	Cells []column.Column
}

// Generator builds header bands for a scale.
type Generator struct {
	Scale    calendar.Unit
	Show     Show
	Calendar calendar.Calendar
}

// Generate builds the applicable bands from the leaf columns.
func (g Generator) Generate(cols []column.Column) Headers {
	var h Headers
	if g.Scale == calendar.Hour && g.Show.Hour {
		h.Hour = g.merge(cols, calendar.Hour)
	}
	if (g.Scale == calendar.Hour || g.Scale == calendar.Day) && g.Show.Day {
		h.Day = g.merge(cols, calendar.Day)
	}
	if g.Scale == calendar.Week && g.Show.Week {
		h.Week = g.merge(cols, calendar.Week)
	}
	if (g.Scale == calendar.Week || g.Scale == calendar.Month) && g.Show.Month {
		h.Month = g.merge(cols, calendar.Month)
	}
	return h
}

// merge groups consecutive columns that fall in the same unit.
func (g Generator) merge(cols []column.Column, unit calendar.Unit) []column.Column {
	var out []column.Column
	var last column.Column
	for _, c := range cols {
		s := c.Geometry()
		if last != nil && g.Calendar.Same(unit, last.Geometry().Date, s.Date) {
			last.Geometry().Width += s.Width
			continue
		}
		last = g.cell(unit, c)
		out = append(out, last)
	}
	return out
}

// cell starts a new band cell of the band's unit at the position of leaf c.
func (g Generator) cell(unit calendar.Unit, c column.Column) column.Column {
	src := c.Geometry()
	span := column.Span{
		Date:     g.Calendar.StartOf(unit, src.Date),
		Left:     src.Left,
		Width:    src.Width,
		SubScale: src.SubScale,
		Current:  src.Current,
	}
	switch unit {
	case calendar.Hour:
		hc := &column.HourColumn{Span: span}
		if leaf, ok := c.(*column.HourColumn); ok {
			hc.IsWeekend, hc.IsWorkHour = leaf.IsWeekend, leaf.IsWorkHour
		}
		return hc
	case calendar.Day:
		dc := &column.DayColumn{Span: span, EndHour: 24, DaysToNext: 1, DaysToPrev: 1}
		switch leaf := c.(type) {
		case *column.DayColumn:
			dc.IsWeekend, dc.DaysToNext, dc.DaysToPrev = leaf.IsWeekend, leaf.DaysToNext, leaf.DaysToPrev
		case *column.HourColumn:
			dc.IsWeekend = leaf.IsWeekend
		}
		return dc
	case calendar.Week:
		return &column.WeekColumn{Span: span, Number: g.Calendar.WeekNumber(span.Date)}
	default:
		return &column.MonthColumn{Span: span, DaysInMonth: calendar.DaysIn(span.Date)}
	}
}
