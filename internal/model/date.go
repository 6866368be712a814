package model

import (
	"fmt"
	"time"

	"gorm.io/datatypes"
)

// DateLayout is the wire format for calendar dates.
const DateLayout = "2006-01-02"

// ParseDate converts an optional "YYYY-MM-DD" string into a date column value.
// An empty string yields nil.
func ParseDate(s string) (*datatypes.Date, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.ParseInLocation(DateLayout, s, time.UTC)
	if err != nil {
		return nil, fmt.Errorf("parse date %q: %w", s, err)
	}
	d := datatypes.Date(t)
	return &d, nil
}

// FormatDate renders a date column as "YYYY-MM-DD"; nil yields "".
func FormatDate(d *datatypes.Date) string {
	if d == nil {
		return ""
	}
	return time.Time(*d).Format(DateLayout)
}

// Today returns the current date truncated to midnight UTC.
func Today(now time.Time) datatypes.Date {
	y, m, d := now.UTC().Date()
	return datatypes.Date(time.Date(y, m, d, 0, 0, 0, 0, time.UTC))
}
