package io

import (
	"strings"
	"time"

	"github.com/matzehuels/ganttgrid/pkg/errors"
)

// TimeLayouts lists the accepted date layouts, most specific first.
var TimeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// ParseTime parses s with the first matching layout. Values without a zone
// are read in loc, or UTC when loc is nil. The result is always in loc.
func ParseTime(s string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, errors.New(errors.ErrCodeInvalidDate, "empty date")
	}
	for _, layout := range TimeLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t.In(loc), nil
		}
	}
	return time.Time{}, errors.New(errors.ErrCodeInvalidDate, "unrecognized date %q", s)
}

// FormatTime formats t in the layout [ParseTime] reads back without loss.
func FormatTime(t time.Time) string {
	return t.Format(time.RFC3339)
}
