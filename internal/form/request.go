package form

import (
	"net/url"
	"strconv"

	"github.com/pkg/errors"
	"github.com/samber/mo"

	"recurcal/internal/model"
)

// Field names shared by the HTML form, the query API and the CLI.
const (
	FieldStartDate  = "start_date"
	FieldRuleType   = "rule_type"
	FieldDayOfWeek  = "day_of_week"
	FieldDayOfMonth = "day_of_month"
	FieldTime       = "time"
	FieldCount      = "count"
	FieldRangeStart = "range_start"
	FieldRangeEnd   = "range_end"
)

// DefaultMaxWindowDays bounds the display range when a request carries no
// limit of its own. Five years of days.
const DefaultMaxWindowDays = 5 * 366

// Defaults holds the values a blank form starts with.
type Defaults struct {
	StartDate  string `yaml:"start_date" json:"start_date"`
	RuleType   string `yaml:"rule_type" json:"rule_type"`
	DayOfWeek  int    `yaml:"day_of_week" json:"day_of_week"`
	DayOfMonth int    `yaml:"day_of_month" json:"day_of_month"`
	Time       string `yaml:"time" json:"time"`
	Count      int    `yaml:"count" json:"count"`
	RangeStart string `yaml:"range_start" json:"range_start"`
	RangeEnd   string `yaml:"range_end" json:"range_end"`
}

// DefaultDefaults returns the initial values of the generator form.
func DefaultDefaults() Defaults {
	return Defaults{
		StartDate:  "2025-05-12",
		RuleType:   string(model.Weekly),
		DayOfWeek:  1,
		DayOfMonth: 1,
		Time:       "09:00",
		Count:      5,
		RangeStart: "2025-05-01",
		RangeEnd:   "2025-06-30",
	}
}

// Request is the raw, unvalidated form input. The per-type parameters are
// optional: a weekly form never submits day_of_month and vice versa.
type Request struct {
	StartDate  string
	RuleType   string
	DayOfWeek  mo.Option[string]
	DayOfMonth mo.Option[string]
	Time       string
	Count      string
	RangeStart string
	RangeEnd   string

	// MaxWindowDays caps the inclusive length of the display range.
	// Zero means DefaultMaxWindowDays.
	MaxWindowDays int

	defaults Defaults
}

// NewRequest returns a request pre-filled with def.
func NewRequest(def Defaults) Request {
	return Request{
		StartDate:  def.StartDate,
		RuleType:   def.RuleType,
		DayOfWeek:  mo.None[string](),
		DayOfMonth: mo.None[string](),
		Time:       def.Time,
		Count:      strconv.Itoa(def.Count),
		RangeStart: def.RangeStart,
		RangeEnd:   def.RangeEnd,
		defaults:   def,
	}
}

// FromValues reads a request from query or form values. Missing or empty
// fields keep the defaults.
func FromValues(v url.Values, def Defaults) Request {
	r := NewRequest(def)
	set := func(field string, dst *string) {
		if s := v.Get(field); s != "" {
			*dst = s
		}
	}
	set(FieldStartDate, &r.StartDate)
	set(FieldRuleType, &r.RuleType)
	set(FieldTime, &r.Time)
	set(FieldCount, &r.Count)
	set(FieldRangeStart, &r.RangeStart)
	set(FieldRangeEnd, &r.RangeEnd)

	if s := v.Get(FieldDayOfWeek); s != "" {
		r.DayOfWeek = mo.Some(s)
	}
	if s := v.Get(FieldDayOfMonth); s != "" {
		r.DayOfMonth = mo.Some(s)
	}
	return r
}

// Values encodes the request back into url.Values with a stable key order
// (url.Values.Encode sorts keys), suitable for links and cache keys.
func (r Request) Values() url.Values {
	v := url.Values{}
	v.Set(FieldStartDate, r.StartDate)
	v.Set(FieldRuleType, r.RuleType)
	v.Set(FieldTime, r.Time)
	v.Set(FieldCount, r.Count)
	v.Set(FieldRangeStart, r.RangeStart)
	v.Set(FieldRangeEnd, r.RangeEnd)
	if s, ok := r.DayOfWeek.Get(); ok {
		v.Set(FieldDayOfWeek, s)
	}
	if s, ok := r.DayOfMonth.Get(); ok {
		v.Set(FieldDayOfMonth, s)
	}
	return v
}

// SelectedDayOfWeek is the weekday the form should show as selected.
func (r Request) SelectedDayOfWeek() string {
	return r.DayOfWeek.OrElse(strconv.Itoa(r.defaults.DayOfWeek))
}

// SelectedDayOfMonth is the day of month the form should show as selected.
func (r Request) SelectedDayOfMonth() string {
	return r.DayOfMonth.OrElse(strconv.Itoa(r.defaults.DayOfMonth))
}

// Rule parses and validates the recurrence part of the request.
func (r Request) Rule() (model.Rule, error) {
	var rule model.Rule
	var err error

	if rule.Type, err = ParseRuleType(FieldRuleType, r.RuleType); err != nil {
		return model.Rule{}, errors.Wrap(err, "rule")
	}
	if rule.Anchor, err = ParseDate(FieldStartDate, r.StartDate); err != nil {
		return model.Rule{}, errors.Wrap(err, "rule")
	}
	if rule.Time, err = ParseClock(FieldTime, r.Time); err != nil {
		return model.Rule{}, errors.Wrap(err, "rule")
	}
	if rule.Count, err = ParseInt(FieldCount, r.Count); err != nil {
		return model.Rule{}, errors.Wrap(err, "rule")
	}

	switch rule.Type {
	case model.Weekly:
		if rule.DayOfWeek, err = ParseWeekday(FieldDayOfWeek, r.SelectedDayOfWeek()); err != nil {
			return model.Rule{}, errors.Wrap(err, "rule")
		}
	case model.Monthly:
		if rule.DayOfMonth, err = ParseInt(FieldDayOfMonth, r.SelectedDayOfMonth()); err != nil {
			return model.Rule{}, errors.Wrap(err, "rule")
		}
	}

	if err := rule.Validate(); err != nil {
		return model.Rule{}, errors.Wrapf(err, "rule %s", rule.Type)
	}
	return rule, nil
}

// Window parses and validates the display range.
func (r Request) Window() (model.Interval, error) {
	start, err := ParseDate(FieldRangeStart, r.RangeStart)
	if err != nil {
		return model.Interval{}, errors.Wrap(err, "window")
	}
	end, err := ParseDate(FieldRangeEnd, r.RangeEnd)
	if err != nil {
		return model.Interval{}, errors.Wrap(err, "window")
	}

	iv := model.Interval{Start: start, End: end}
	if err := iv.Validate(); err != nil {
		return model.Interval{}, errors.Wrap(err, "window")
	}
	limit := r.MaxWindowDays
	if limit <= 0 {
		limit = DefaultMaxWindowDays
	}
	if days := iv.Days(); days > limit {
		return model.Interval{}, errors.Wrapf(model.ErrInvalidArgument, "window: %s spans %d days, limit is %d", iv, days, limit)
	}
	return iv, nil
}

// Parse returns both the rule and the window.
func (r Request) Parse() (model.Rule, model.Interval, error) {
	rule, err := r.Rule()
	if err != nil {
		return model.Rule{}, model.Interval{}, err
	}
	window, err := r.Window()
	if err != nil {
		return model.Rule{}, model.Interval{}, err
	}
	return rule, window, nil
}
