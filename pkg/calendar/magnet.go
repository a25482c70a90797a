package calendar

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/matzehuels/ganttgrid/pkg/errors"
)

// Magnet snaps dates to multiples of a value in a unit, for example every
// 15 minutes. The zero value snaps nothing.
type Magnet struct {
	Value int
	Unit  Unit
}

// ParseMagnet parses specifications such as "15 minutes" or "1 hour".
// An empty string yields the zero Magnet.
func ParseMagnet(s string) (Magnet, error) {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return Magnet{}, nil
	}
	if len(fields) != 2 {
		return Magnet{}, errors.New(errors.ErrCodeInvalidFormat, "magnet %q must be \"<value> <unit>\"", s)
	}
	value, err := strconv.Atoi(fields[0])
	if err != nil || value <= 0 {
		return Magnet{}, errors.New(errors.ErrCodeInvalidFormat, "magnet value %q must be a positive integer", fields[0])
	}
	unit, err := ParseUnit(fields[1])
	if err != nil {
		return Magnet{}, err
	}
	if unit != Minute && unit != Hour && unit != Day {
		return Magnet{}, errors.New(errors.ErrCodeUnsupported, "magnet unit %s is not supported", unit)
	}
	return Magnet{Value: value, Unit: unit}, nil
}

// IsZero reports whether the magnet is disabled.
func (m Magnet) IsZero() bool {
	return m.Value <= 0
}

// String formats the magnet the way [ParseMagnet] reads it.
func (m Magnet) String() string {
	if m.IsZero() {
		return ""
	}
	name := m.Unit.String()
	if m.Value != 1 {
		name += "s"
	}
	return strconv.Itoa(m.Value) + " " + name
}

// Apply rounds t to the nearest multiple of the magnet value within the
// enclosing unit. Values that round past the end of the enclosing unit
// overflow into the next one, e.g. 10:58 with a 5 minute magnet becomes 11:00.
func (m Magnet) Apply(t time.Time) time.Time {
	if m.IsZero() {
		return t
	}
	y, mo, d := t.Date()
	loc := t.Location()
	step := float64(m.Value)
	switch m.Unit {
	case Minute:
		v := float64(t.Minute()) + float64(t.Second())/60 + float64(t.Nanosecond())/60e9
		snapped := int(math.Round(v/step) * step)
		return time.Date(y, mo, d, t.Hour(), snapped, 0, 0, loc)
	case Hour:
		v := HourOfDay(t)
		snapped := int(math.Round(v/step) * step)
		return time.Date(y, mo, d, snapped, 0, 0, 0, loc)
	case Day:
		v := float64(d) + HourOfDay(t)/24
		snapped := int(math.Round(v/step) * step)
		return time.Date(y, mo, snapped, 0, 0, 0, 0, loc)
	}
	return t
}
