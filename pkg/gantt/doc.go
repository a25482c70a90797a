// Package gantt coordinates the layout of a Gantt chart: the column grid,
// the header bands, and the positions of rows, tasks and timespans on it.
//
// # Overview
//
// A [Gantt] owns the columns produced by a [column.Generator] for its date
// range, and keeps every [Task] and [Timespan] positioned on that grid.
// Callers feed it data and ranges; it answers position and date queries:
//
//	g, err := gantt.New(gantt.DefaultOptions())
//	g.AddData([]gantt.RowData{{ID: "r1", Name: "Build", Tasks: tasks}})
//	x, ok := g.PositionByDate(deadline)
//	t, ok := g.DateByPosition(x, column.SnapNone)
//
// # Date Range
//
// With the [OutOfRangeExpand] policy the range only grows: every requested
// range and every loaded task widens it, and columns are regenerated only
// when the current grid does not cover the new range. With
// [OutOfRangeTruncate] the range is exactly the last request and tasks
// outside it are clipped.
//
// # Extended Columns
//
// Queries left of the first column or right of the last one do not fail:
// the coordinator lazily generates buffer columns before and after the grid
// with the same column width, and keeps them until the next regeneration.
//
// # Notifications and Batching
//
// Observers registered with [Gantt.Subscribe] receive an [Event] for row,
// task, timespan and column changes. [Gantt.Batch] defers column expansion
// and position updates until a group of mutations completes.
//
// # Concurrency
//
// A Gantt is not safe for concurrent use. Confine each instance to one
// goroutine or guard it externally.
package gantt
