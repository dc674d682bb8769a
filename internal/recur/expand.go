// Package recur expands bounded recurrence rules into concrete occurrences.
package recur

import (
	"fmt"
	"time"

	"github.com/teambition/rrule-go"

	appLog "recurcal/internal/log"
	"recurcal/internal/model"
)

const (
	defaultMaxOccurrences = 1000
)

// weekdays maps time.Weekday (Sunday == 0) onto rrule weekdays.
var weekdays = [7]rrule.Weekday{rrule.SU, rrule.MO, rrule.TU, rrule.WE, rrule.TH, rrule.FR, rrule.SA}

// Expand returns the occurrences of rule that fall within window, in
// chronological order, at most rule.Count of them.
//
// Candidates are generated from the anchor forward:
//
//   - Daily:   every day from the anchor.
//   - Weekly:  the first rule weekday on or after the anchor, then every 7 days.
//   - Monthly: min(DayOfMonth, days in month) in the anchor's month and in
//     every following month. The anchor month's day is used even when it
//     falls before the anchor.
//
// Candidates before window.Start are skipped and do not count. Expansion
// stops at the first candidate after window.End, so the loop always
// terminates even when rule.Count cannot be reached.
func Expand(rule model.Rule, window model.Interval) ([]model.DateTime, error) {
	if err := rule.Validate(); err != nil {
		return nil, fmt.Errorf("expand: %w", err)
	}
	if err := window.Validate(); err != nil {
		return nil, fmt.Errorf("expand: %w", err)
	}

	next, err := candidates(rule)
	if err != nil {
		return nil, err
	}

	out := make([]model.DateTime, 0, min(rule.Count, window.Days()))
	for len(out) < rule.Count {
		t, ok := next()
		if !ok {
			break
		}
		c := model.DateTimeOf(t)
		if c.Date.After(window.End) {
			break
		}
		if c.Date.Before(window.Start) {
			continue
		}
		out = append(out, c)
	}

	return out, nil
}

// candidates returns an unbounded, strictly increasing iterator over the
// rule's candidate instants. All arithmetic happens in UTC so wall-clock
// times never shift across DST transitions.
func candidates(rule model.Rule) (rrule.Next, error) {
	opt := option(rule)
	r, err := rrule.NewRRule(opt)
	if err != nil {
		return nil, fmt.Errorf("expand: build rule: %w", err)
	}
	appLog.Debug("recur: candidate rule", "rrule", opt.RRuleString(), "dtstart", opt.Dtstart.Format(time.RFC3339))
	return r.Iterator(), nil
}

// option translates rule into rrule options without COUNT or UNTIL; the
// window bound in Expand is what terminates iteration.
func option(rule model.Rule) rrule.ROption {
	opt := rrule.ROption{
		Dtstart: rule.Anchor.At(rule.Time, time.UTC),
	}

	switch rule.Type {
	case model.Daily:
		opt.Freq = rrule.DAILY
	case model.Weekly:
		opt.Freq = rrule.WEEKLY
		opt.Byweekday = []rrule.Weekday{weekdays[rule.DayOfWeek]}
	case model.Monthly:
		// Start at the first of the anchor month so its clipped day is a
		// candidate even when it precedes the anchor.
		opt.Dtstart = model.NewDate(rule.Anchor.Year, rule.Anchor.Month, 1).At(rule.Time, time.UTC)
		opt.Freq = rrule.MONTHLY
		opt.Bymonthday = clippedMonthDays(rule.DayOfMonth)
		opt.Bysetpos = []int{-1}
	}

	return opt
}

// clippedMonthDays returns the BYMONTHDAY set whose last existing member
// in any month is min(day, days in that month). Days 29..31 only exist in
// some months, so 28 is always included as the floor.
func clippedMonthDays(day int) []int {
	if day <= 28 {
		return []int{day}
	}
	days := make([]int, 0, day-27)
	for d := 28; d <= day; d++ {
		days = append(days, d)
	}
	return days
}

// Result wraps the expanded occurrences and whether the configured cap
// reduced the requested count.
type Result struct {
	Rule        model.Rule
	Window      model.Interval
	Occurrences []model.DateTime
	// Truncated is true when rule.Count exceeded MaxOccurrences and was
	// clamped before expansion.
	Truncated bool
}

// Expander applies a safety cap on top of Expand.
type Expander struct {
	// MaxOccurrences bounds rule.Count. If zero, defaultMaxOccurrences is used.
	MaxOccurrences int
}

// NewExpander returns an Expander with the given cap.
func NewExpander(maxOccurrences int) *Expander {
	if maxOccurrences <= 0 {
		maxOccurrences = defaultMaxOccurrences
	}
	return &Expander{MaxOccurrences: maxOccurrences}
}

// Expand clamps rule.Count to the cap and expands it within window.
func (e *Expander) Expand(rule model.Rule, window model.Interval) (Result, error) {
	result := Result{Rule: rule, Window: window}

	limit := e.MaxOccurrences
	if limit <= 0 {
		limit = defaultMaxOccurrences
	}
	if rule.Count > limit {
		appLog.Warn("recur: occurrence count clamped to cap",
			"requested", rule.Count,
			"cap", limit,
		)
		rule.Count = limit
		result.Truncated = true
	}

	occ, err := Expand(rule, window)
	if err != nil {
		return result, err
	}
	result.Occurrences = occ

	appLog.Debug("recur: expanded",
		"type", rule.Type,
		"anchor", rule.Anchor,
		"window", window,
		"count", rule.Count,
		"accepted", len(occ),
	)
	return result, nil
}
