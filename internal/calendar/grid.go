// Package calendar lays out date ranges as Sunday-first week rows and
// answers the highlight questions a calendar view needs.
package calendar

import (
	"fmt"

	"recurcal/internal/model"
)

// BuildWeeks partitions dates into consecutive Sunday..Saturday rows.
//
// The first row starts on the Sunday on or before dates[0]; rows continue
// through dates[len(dates)-1] and the last row is padded with the
// following days up to Saturday. Only the first and last elements are
// consulted, so dates is expected to be an ordered day range.
func BuildWeeks(dates []model.Date) (model.Grid, error) {
	if len(dates) == 0 {
		return nil, fmt.Errorf("build weeks: %w: no dates", model.ErrInvalidArgument)
	}

	first := dates[0]
	last := dates[len(dates)-1]
	if last.Before(first) {
		return nil, fmt.Errorf("build weeks: %w: last date %s before first date %s", model.ErrInvalidArgument, last, first)
	}

	cur := first.AddDays(-int(first.Weekday()))
	span := cur.DaysUntil(last) + 1
	grid := make(model.Grid, 0, (span+6)/7)

	for !cur.After(last) {
		var row model.WeekRow
		for i := range row {
			row[i] = cur
			cur = cur.AddDays(1)
		}
		grid = append(grid, row)
	}

	return grid, nil
}

// Days returns every date in window, in order.
func Days(window model.Interval) ([]model.Date, error) {
	if err := window.Validate(); err != nil {
		return nil, fmt.Errorf("days: %w", err)
	}

	out := make([]model.Date, 0, window.Days())
	for d := window.Start; !d.After(window.End); d = d.AddDays(1) {
		out = append(out, d)
	}
	return out, nil
}

// HasOccurrence reports whether any occurrence falls on date, ignoring
// the time of day.
func HasOccurrence(date model.Date, occurrences []model.DateTime) bool {
	for _, o := range occurrences {
		if o.Date.Equal(date) {
			return true
		}
	}
	return false
}

// IsInRange reports whether date lies within window, inclusive.
func IsInRange(date model.Date, window model.Interval) bool {
	return window.Contains(date)
}
