// Package calendar provides the calendar arithmetic the Gantt layout engine
// is built on: time units, start-of-unit truncation, unit stepping, week
// numbering, weekend and work-hour sets, and magnet snapping.
//
// # Time Model
//
// All functions operate on [time.Time] values in the location they carry.
// Nothing is converted to UTC or to the process-local zone, so a grid built
// from values in Europe/Berlin keeps Berlin midnights as day boundaries.
// Day arithmetic uses calendar fields ([time.Time.AddDate], [time.Date]) rather
// than fixed 24-hour durations, which keeps boundaries correct across DST
// transitions.
//
// # Weeks
//
// A [Calendar] carries the first day of the week. The zero value starts
// weeks on Sunday:
//
//	cal := calendar.Calendar{FirstDayOfWeek: time.Monday}
//	start := cal.StartOf(calendar.Week, t)
//
// # Working Periods
//
// [WeekdaySet] and [HourSet] are small bitsets used for weekend days and work
// hours. [DaysToWorkingDay] and [HoursToWorkHour] scan forward or backward
// (modulo 7 or 24) for the next visible period.
package calendar
