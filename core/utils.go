package core

import (
	"strings"
	"time"

	"github.com/pkg/errors"
)

// DateLayout is the layout of calendar days on the wire, eg. "2024-03-18".
const DateLayout = "2006-01-02"

// CleanString trims all leading and trailing whitespace in `s` and optionally lowers it.
func CleanString(s string, lower ...bool) string {
	s = strings.TrimSpace(s)
	if len(lower) > 0 && lower[0] {
		return strings.ToLower(s)
	}
	return s
}

// ParseTime accepts RFC 3339 timestamps or bare calendar days (midnight in loc).
func ParseTime(s string, loc *time.Location) (time.Time, error) {
	s = CleanString(s)
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	t, err := time.ParseInLocation(DateLayout, s, loc)
	if err != nil {
		return time.Time{}, errors.Errorf("invalid date %q", s)
	}
	return t, nil
}

// Day returns the calendar day of t in loc, formatted with DateLayout.
func Day(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(DateLayout)
}
