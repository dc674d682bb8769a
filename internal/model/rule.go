package model

import (
	"fmt"
	"strings"
	"time"
)

// RuleType selects how a recurrence advances between candidates.
type RuleType string

const (
	Daily   RuleType = "daily"
	Weekly  RuleType = "weekly"
	Monthly RuleType = "monthly"
)

// Valid reports whether t is one of the supported rule types.
func (t RuleType) Valid() bool {
	switch t {
	case Daily, Weekly, Monthly:
		return true
	default:
		return false
	}
}

// Title returns the capitalized name used in the UI ("Weekly").
func (t RuleType) Title() string {
	if t == "" {
		return ""
	}
	return strings.ToUpper(string(t[:1])) + string(t[1:])
}

// Rule describes a bounded recurrence.
//
// Only the parameter that matches Type is meaningful: DayOfWeek for
// Weekly (0 = Sunday), DayOfMonth for Monthly (1..31). The other one is
// ignored.
type Rule struct {
	Type       RuleType `json:"type" yaml:"type"`
	Anchor     Date     `json:"anchor" yaml:"anchor"`
	Time       Clock    `json:"time" yaml:"time"`
	DayOfWeek  int      `json:"day_of_week" yaml:"day_of_week"`
	DayOfMonth int      `json:"day_of_month" yaml:"day_of_month"`
	Count      int      `json:"count" yaml:"count"`
}

// Validate checks the rule's invariants. All failures wrap ErrInvalidArgument.
func (r Rule) Validate() error {
	if !r.Type.Valid() {
		return fmt.Errorf("%w: unknown rule type %q", ErrInvalidArgument, r.Type)
	}
	if r.Count <= 0 {
		return fmt.Errorf("%w: occurrence count must be positive, got %d", ErrInvalidArgument, r.Count)
	}
	if !r.Time.Valid() {
		return fmt.Errorf("%w: time of day %s out of range", ErrInvalidArgument, r.Time)
	}
	switch r.Type {
	case Weekly:
		if r.DayOfWeek < 0 || r.DayOfWeek > 6 {
			return fmt.Errorf("%w: day of week must be 0..6, got %d", ErrInvalidArgument, r.DayOfWeek)
		}
	case Monthly:
		if r.DayOfMonth < 1 || r.DayOfMonth > 31 {
			return fmt.Errorf("%w: day of month must be 1..31, got %d", ErrInvalidArgument, r.DayOfMonth)
		}
	}
	return nil
}

// Describe returns a short human-readable summary of the rule.
func (r Rule) Describe() string {
	var what string
	switch r.Type {
	case Daily:
		what = "every day"
	case Weekly:
		what = "every " + time.Weekday(r.DayOfWeek).String()
	case Monthly:
		what = fmt.Sprintf("monthly on day %d", r.DayOfMonth)
	default:
		what = string(r.Type)
	}
	return fmt.Sprintf("%s at %s from %s, %d occurrence(s)", what, r.Time, r.Anchor, r.Count)
}

// Interval is an inclusive range of dates.
type Interval struct {
	Start Date `json:"start" yaml:"start"`
	End   Date `json:"end" yaml:"end"`
}

// Validate reports ErrInvalidArgument when Start is after End.
func (iv Interval) Validate() error {
	if iv.Start.After(iv.End) {
		return fmt.Errorf("%w: range start %s is after range end %s", ErrInvalidArgument, iv.Start, iv.End)
	}
	return nil
}

// Contains reports whether d lies within [Start, End].
func (iv Interval) Contains(d Date) bool {
	return !d.Before(iv.Start) && !d.After(iv.End)
}

// Days returns the number of days covered by the interval, inclusive.
func (iv Interval) Days() int {
	return iv.Start.DaysUntil(iv.End) + 1
}

func (iv Interval) String() string {
	return iv.Start.String() + ".." + iv.End.String()
}

// WeekRow is one displayed week, index 0 is Sunday.
type WeekRow [7]Date

// Grid is a list of consecutive week rows.
type Grid []WeekRow

// Dates flattens the grid into a single slice.
func (g Grid) Dates() []Date {
	out := make([]Date, 0, len(g)*7)
	for _, row := range g {
		out = append(out, row[:]...)
	}
	return out
}
