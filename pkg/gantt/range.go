package gantt

import (
	"time"

	"github.com/matzehuels/ganttgrid/pkg/calendar"
)

// Range is a closed date interval.
type Range struct {
	From time.Time
	To   time.Time
}

// IsZero reports whether the range is unset.
func (r Range) IsZero() bool {
	return r.From.IsZero() && r.To.IsZero()
}

// Contains reports whether t lies within the range.
func (r Range) Contains(t time.Time) bool {
	return !t.Before(r.From) && !t.After(r.To)
}

// Union returns the smallest range covering r and o. Zero ranges are ignored.
func (r Range) Union(o Range) Range {
	switch {
	case o.IsZero():
		return r
	case r.IsZero():
		return o
	}
	return Range{From: calendar.Min(r.From, o.From), To: calendar.Max(r.To, o.To)}
}
