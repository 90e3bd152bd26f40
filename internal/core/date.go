package core

import (
	"fmt"
	"strconv"
	"time"
)

// Date is a calendar date. Transactions carry dates, not instants:
// comparisons ignore time of day entirely.
type Date struct {
	time.Time
}

// NewDate builds a Date from year, month and day. Out-of-range components
// normalize the way time.Date does.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate converts a raw YYYY-MM-DD string to a Date. The accepted grammar
// is the validator's: month 01-12, day 01-31. Days that pass the generic
// pattern but overflow the month (e.g. 02-31) normalize forward; per-month
// day counts are a known simplification carried from the original behavior.
func ParseDate(s string) (Date, error) {
	if !ValidDate(s) {
		return Date{}, NewFieldError("date", "must be a valid YYYY-MM-DD date")
	}
	year, _ := strconv.Atoi(s[0:4])
	month, _ := strconv.Atoi(s[5:7])
	day, _ := strconv.Atoi(s[8:10])
	return NewDate(year, month, day), nil
}

// DateOf truncates an instant to its calendar date.
func DateOf(t time.Time) Date {
	return NewDate(t.Year(), int(t.Month()), t.Day())
}

// String renders the date as YYYY-MM-DD.
func (d Date) String() string {
	return d.Format("2006-01-02")
}

// Before reports whether d falls on an earlier calendar day than o.
func (d Date) Before(o Date) bool {
	return d.Time.Before(o.Time)
}

// After reports whether d falls on a later calendar day than o.
func (d Date) After(o Date) bool {
	return d.Time.After(o.Time)
}

// MarshalJSON writes the date as a "YYYY-MM-DD" string.
func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

// UnmarshalJSON reads a "YYYY-MM-DD" string.
func (d *Date) UnmarshalJSON(data []byte) error {
	if len(data) < 2 || data[0] != '"' || data[len(data)-1] != '"' {
		return fmt.Errorf("parse date %s: not a string", data)
	}
	parsed, err := ParseDate(string(data[1 : len(data)-1]))
	if err != nil {
		return fmt.Errorf("parse date %s: %w", data, err)
	}
	*d = parsed
	return nil
}
