package calendar

import (
	"slices"
	"time"
)

// WeekdaySet is a set of weekdays.
type WeekdaySet uint8

// NewWeekdaySet returns a set holding days.
func NewWeekdaySet(days ...time.Weekday) WeekdaySet {
	var s WeekdaySet
	for _, d := range days {
		if d >= time.Sunday && d <= time.Saturday {
			s |= 1 << d
		}
	}
	return s
}

// Has reports whether d is in the set.
func (s WeekdaySet) Has(d time.Weekday) bool {
	return s&(1<<d) != 0
}

// Len returns the number of days in the set.
func (s WeekdaySet) Len() int {
	n := 0
	for d := time.Sunday; d <= time.Saturday; d++ {
		if s.Has(d) {
			n++
		}
	}
	return n
}

// Days returns the members in Sunday-first order.
func (s WeekdaySet) Days() []time.Weekday {
	var out []time.Weekday
	for d := time.Sunday; d <= time.Saturday; d++ {
		if s.Has(d) {
			out = append(out, d)
		}
	}
	return out
}

// HourSet is a set of hours of the day (0-23).
type HourSet uint32

// NewHourSet returns a set holding hours. Values outside 0-23 are ignored.
func NewHourSet(hours ...int) HourSet {
	var s HourSet
	for _, h := range hours {
		if h >= 0 && h < 24 {
			s |= 1 << h
		}
	}
	return s
}

// HourRange returns the set of hours from first to last inclusive.
func HourRange(first, last int) HourSet {
	var hours []int
	for h := first; h <= last; h++ {
		hours = append(hours, h)
	}
	return NewHourSet(hours...)
}

// Has reports whether h is in the set.
func (s HourSet) Has(h int) bool {
	return h >= 0 && h < 24 && s&(1<<h) != 0
}

// Hours returns the members in ascending order.
func (s HourSet) Hours() []int {
	var out []int
	for h := 0; h < 24; h++ {
		if s.Has(h) {
			out = append(out, h)
		}
	}
	return out
}

// Len returns the number of hours in the set.
func (s HourSet) Len() int {
	return len(s.Hours())
}

// Bounds returns the first and last member. ok is false for an empty set.
func (s HourSet) Bounds() (first, last int, ok bool) {
	hours := s.Hours()
	if len(hours) == 0 {
		return 0, 0, false
	}
	return hours[0], slices.Max(hours), true
}

// DaysToWorkingDay returns how many days lie between d and the next
// (forward) or previous (backward) day outside weekend. It is 1 when every
// day is a weekend day.
func DaysToWorkingDay(d time.Weekday, weekend WeekdaySet, forward bool) int {
	return stepsTo(int(d), 7, forward, func(i int) bool {
		return !weekend.Has(time.Weekday(i))
	})
}

// HoursToWorkHour returns how many hours lie between h and the next
// (forward) or previous (backward) hour in work. It is 1 when work is empty.
func HoursToWorkHour(h int, work HourSet, forward bool) int {
	return stepsTo(h, 24, forward, work.Has)
}

func stepsTo(from, n int, forward bool, visible func(int) bool) int {
	dir := 1
	if !forward {
		dir = -1
	}
	for i := 1; i <= n; i++ {
		j := ((from+dir*i)%n + n) % n
		if visible(j) {
			return i
		}
	}
	return 1
}
