package model

import (
	"fmt"
	"time"
)

// Date is a civil calendar date without a time zone.
// The zero value is not a valid date; use NewDate or DateOf.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// NewDate returns the normalized date for year/month/day. Out-of-range
// values roll over the same way time.Date does (e.g. Feb 30 -> Mar 2),
// so callers that need strict validation should use form.ParseDate.
func NewDate(year int, month time.Month, day int) Date {
	return DateOf(time.Date(year, month, day, 0, 0, 0, 0, time.UTC))
}

// DateOf returns the calendar date of t in t's own location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

// At combines the date with a time-of-day in loc.
func (d Date) At(c Clock, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	return time.Date(d.Year, d.Month, d.Day, c.Hour, c.Minute, 0, 0, loc)
}

// midnight is the UTC instant used for all date arithmetic. UTC has no
// DST transitions, so adding 24h always lands on the next calendar day.
func (d Date) midnight() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

// AddDays returns a new date n days after d (n may be negative).
func (d Date) AddDays(n int) Date {
	return DateOf(d.midnight().AddDate(0, 0, n))
}

// Weekday returns the day of the week, Sunday == 0.
func (d Date) Weekday() time.Weekday {
	return d.midnight().Weekday()
}

// DaysInMonth returns the number of days in d's month.
func (d Date) DaysInMonth() int {
	return DaysIn(d.Year, d.Month)
}

// Compare returns -1, 0 or +1 depending on whether d is before, equal to or
// after o.
func (d Date) Compare(o Date) int {
	switch {
	case d.Year != o.Year:
		return cmpInt(d.Year, o.Year)
	case d.Month != o.Month:
		return cmpInt(int(d.Month), int(o.Month))
	default:
		return cmpInt(d.Day, o.Day)
	}
}

func (d Date) Before(o Date) bool { return d.Compare(o) < 0 }
func (d Date) After(o Date) bool  { return d.Compare(o) > 0 }
func (d Date) Equal(o Date) bool  { return d.Compare(o) == 0 }

// DaysUntil returns the number of days from d to o (negative if o is earlier).
func (d Date) DaysUntil(o Date) int {
	// Unix seconds rather than Sub, which saturates past ~292 years.
	return int((o.midnight().Unix() - d.midnight().Unix()) / 86400)
}

// String formats the date as YYYY-MM-DD.
func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

// MarshalText implements encoding.TextMarshaler so dates serialize as
// YYYY-MM-DD in JSON and YAML.
func (d Date) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Date) UnmarshalText(b []byte) error {
	t, err := time.Parse(DateLayout, string(b))
	if err != nil {
		return &ParseError{Field: "date", Value: string(b), Err: err}
	}
	*d = DateOf(t)
	return nil
}

// Clock is a wall-clock time of day with minute precision.
type Clock struct {
	Hour   int
	Minute int
}

// Valid reports whether the clock is within 00:00..23:59.
func (c Clock) Valid() bool {
	return c.Hour >= 0 && c.Hour < 24 && c.Minute >= 0 && c.Minute < 60
}

// String formats the clock as HH:MM.
func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour, c.Minute)
}

func (c Clock) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

func (c *Clock) UnmarshalText(b []byte) error {
	t, err := time.Parse(ClockLayout, string(b))
	if err != nil {
		return &ParseError{Field: "time", Value: string(b), Err: err}
	}
	*c = Clock{Hour: t.Hour(), Minute: t.Minute()}
	return nil
}

// DateTime is a calendar date plus a time of day. It is ordered by
// (year, month, day, hour, minute).
type DateTime struct {
	Date  Date
	Clock Clock
}

// DateTimeOf returns the wall-clock date and time of t, dropping seconds.
func DateTimeOf(t time.Time) DateTime {
	return DateTime{
		Date:  DateOf(t),
		Clock: Clock{Hour: t.Hour(), Minute: t.Minute()},
	}
}

// Time returns the instant of dt in loc (time.UTC when loc is nil).
func (dt DateTime) Time(loc *time.Location) time.Time {
	return dt.Date.At(dt.Clock, loc)
}

func (dt DateTime) Compare(o DateTime) int {
	if c := dt.Date.Compare(o.Date); c != 0 {
		return c
	}
	if dt.Clock.Hour != o.Clock.Hour {
		return cmpInt(dt.Clock.Hour, o.Clock.Hour)
	}
	return cmpInt(dt.Clock.Minute, o.Clock.Minute)
}

func (dt DateTime) Before(o DateTime) bool { return dt.Compare(o) < 0 }
func (dt DateTime) After(o DateTime) bool  { return dt.Compare(o) > 0 }

// String formats as "YYYY-MM-DD HH:MM".
func (dt DateTime) String() string {
	return dt.Date.String() + " " + dt.Clock.String()
}

// Display formats the value for people, e.g. "Monday, May 12, 2025 9:00 AM".
func (dt DateTime) Display() string {
	return dt.Time(time.UTC).Format(DisplayLayout)
}

func (dt DateTime) MarshalText() ([]byte, error) {
	return []byte(dt.Time(time.UTC).Format(DateTimeLayout)), nil
}

func (dt *DateTime) UnmarshalText(b []byte) error {
	t, err := time.Parse(DateTimeLayout, string(b))
	if err != nil {
		return &ParseError{Field: "datetime", Value: string(b), Err: err}
	}
	*dt = DateTimeOf(t)
	return nil
}

// Layouts used across the boundary packages.
const (
	DateLayout     = "2006-01-02"
	ClockLayout    = "15:04"
	DateTimeLayout = "2006-01-02T15:04"
	DisplayLayout  = "Monday, January 2, 2006 3:04 PM"
)

// DaysIn returns the number of days in the given month.
func DaysIn(year int, month time.Month) int {
	// Day 0 of the next month is the last day of this one.
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

func cmpInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
