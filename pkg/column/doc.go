// Package column provides the discretized time grid of a Gantt chart.
//
// # Columns
//
// A [Column] covers one unit of time (an hour, a day, a week or a month) and
// occupies a horizontal interval [Left, Left+Width) on the chart. The four
// variants, [HourColumn], [DayColumn], [WeekColumn] and [MonthColumn], share
// their geometry through the embedded [Span] and differ in how a position
// inside the column maps to a date and back.
//
// Positions inside a column snap to SubScale steps: with the default sub-scale
// of 4, a day column resolves quarter days and an hour column quarter hours.
// Converted positions are rounded to one decimal.
//
// # Snapping Across Hidden Periods
//
// When weekends or non-work hours are hidden, the right edge of one column
// and the left edge of the next visible column are the same pixel but
// different instants. [Snap] selects which one a position resolves to:
// [SnapForward] for task starts, [SnapBackward] for task ends.
//
// # Generators
//
// A [Generator] produces a contiguous, ascending run of columns for a date
// range or a width budget:
//
//	gen, err := column.NewGenerator(column.DefaultOptions())
//	cols, err := gen.Generate(column.Request{From: from, To: to})
//
// Reverse requests build the columns to the left of a date, which the layout
// coordinator uses to extend the grid lazily when the viewport scrolls
// before the first column.
package column
