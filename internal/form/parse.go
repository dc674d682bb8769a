// Package form turns raw user input (query strings, form posts, CLI flags)
// into validated rules and windows.
package form

import (
	"strconv"
	"strings"
	"time"

	"recurcal/internal/model"
)

// ParseDate parses a YYYY-MM-DD date. field names the input in errors.
func ParseDate(field, s string) (model.Date, error) {
	s = strings.TrimSpace(s)
	t, err := time.Parse(model.DateLayout, s)
	if err != nil {
		return model.Date{}, &model.ParseError{Field: field, Value: s, Err: err}
	}
	return model.DateOf(t), nil
}

// clockLayouts lists the accepted time-of-day forms. Browsers send
// seconds when the time input has a step below one minute.
var clockLayouts = []string{model.ClockLayout, "15:04:05"}

// ParseClock parses an HH:MM (or HH:MM:SS) time of day; seconds are dropped.
func ParseClock(field, s string) (model.Clock, error) {
	s = strings.TrimSpace(s)
	var lastErr error
	for _, layout := range clockLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return model.Clock{Hour: t.Hour(), Minute: t.Minute()}, nil
		}
		lastErr = err
	}
	return model.Clock{}, &model.ParseError{Field: field, Value: s, Err: lastErr}
}

// ParseRuleType accepts daily, weekly or monthly in any case.
func ParseRuleType(field, s string) (model.RuleType, error) {
	t := model.RuleType(strings.ToLower(strings.TrimSpace(s)))
	if !t.Valid() {
		return "", &model.ParseError{Field: field, Value: s, Err: errUnknownRuleType}
	}
	return t, nil
}

// ParseInt parses a base-10 integer.
func ParseInt(field, s string) (int, error) {
	s = strings.TrimSpace(s)
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, &model.ParseError{Field: field, Value: s, Err: err}
	}
	return n, nil
}

// ParseWeekday accepts 0..6 or an English day name ("monday", "Mon").
func ParseWeekday(field, s string) (int, error) {
	s = strings.TrimSpace(s)
	if n, err := strconv.Atoi(s); err == nil {
		return n, nil
	}
	lower := strings.ToLower(s)
	if len(lower) >= 3 {
		for wd := time.Sunday; wd <= time.Saturday; wd++ {
			if strings.HasPrefix(strings.ToLower(wd.String()), lower) {
				return int(wd), nil
			}
		}
	}
	return 0, &model.ParseError{Field: field, Value: s, Err: errUnknownWeekday}
}

type parseErr string

func (e parseErr) Error() string { return string(e) }

const (
	errUnknownRuleType parseErr = "want daily, weekly or monthly"
	errUnknownWeekday  parseErr = "want 0-6 (0 = Sunday) or a weekday name"
)
