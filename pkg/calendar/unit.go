package calendar

import (
	"strings"

	"github.com/matzehuels/ganttgrid/pkg/errors"
)

// Unit is a calendar granularity.
//
// Hour, Day, Week and Month are view scales. Minute only appears in magnet
// specifications.
type Unit int

const (
	Minute Unit = iota
	Hour
	Day
	Week
	Month
)

var unitNames = map[Unit]string{
	Minute: "minute",
	Hour:   "hour",
	Day:    "day",
	Week:   "week",
	Month:  "month",
}

// String returns the singular lowercase name of the unit.
func (u Unit) String() string {
	if name, ok := unitNames[u]; ok {
		return name
	}
	return "unknown"
}

// IsScale reports whether u can be used as a view scale.
func (u Unit) IsScale() bool {
	return u >= Hour && u <= Month
}

// MarshalText implements encoding.TextMarshaler.
func (u Unit) MarshalText() ([]byte, error) {
	if _, ok := unitNames[u]; !ok {
		return nil, errors.New(errors.ErrCodeInvalidInput, "unknown unit %d", int(u))
	}
	return []byte(u.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (u *Unit) UnmarshalText(text []byte) error {
	parsed, err := ParseUnit(string(text))
	if err != nil {
		return err
	}
	*u = parsed
	return nil
}

// ParseUnit parses a unit name. Singular and plural forms are accepted,
// case-insensitively.
func ParseUnit(s string) (Unit, error) {
	name := strings.TrimSuffix(strings.ToLower(strings.TrimSpace(s)), "s")
	for u, n := range unitNames {
		if n == name {
			return u, nil
		}
	}
	return 0, errors.New(errors.ErrCodeInvalidInput, "unknown time unit %q", s)
}

// ParseScale parses a view scale name (hour, day, week or month).
func ParseScale(s string) (Unit, error) {
	u, err := ParseUnit(s)
	if err != nil || !u.IsScale() {
		return 0, errors.New(errors.ErrCodeUnsupportedScale, "unsupported view scale %q", s)
	}
	return u, nil
}
