package recur

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"recurcal/internal/model"
)

func day(y int, m time.Month, d int) model.Date {
	return model.NewDate(y, m, d)
}

func window(start, end model.Date) model.Interval {
	return model.Interval{Start: start, End: end}
}

func dates(occ []model.DateTime) []string {
	out := make([]string, 0, len(occ))
	for _, o := range occ {
		out = append(out, o.Date.String())
	}
	return out
}

func TestExpand_WeeklyMondays(t *testing.T) {
	rule := model.Rule{
		Type:      model.Weekly,
		Anchor:    day(2025, time.May, 12),
		Time:      model.Clock{Hour: 9},
		DayOfWeek: int(time.Monday),
		Count:     5,
	}

	occ, err := Expand(rule, window(day(2025, time.May, 1), day(2025, time.June, 30)))
	require.NoError(t, err)

	assert.Equal(t, []string{"2025-05-12", "2025-05-19", "2025-05-26", "2025-06-02", "2025-06-09"}, dates(occ))
	for _, o := range occ {
		assert.Equal(t, model.Clock{Hour: 9}, o.Clock)
	}
}

func TestExpand_MonthlyClipsToMonthEnd(t *testing.T) {
	rule := model.Rule{
		Type:       model.Monthly,
		Anchor:     day(2025, time.January, 31),
		DayOfMonth: 31,
		Count:      3,
	}

	occ, err := Expand(rule, window(day(2025, time.January, 1), day(2025, time.December, 31)))
	require.NoError(t, err)

	assert.Equal(t, []string{"2025-01-31", "2025-02-28", "2025-03-31"}, dates(occ))
}

func TestExpand_DailySkipsCandidatesBeforeWindow(t *testing.T) {
	rule := model.Rule{
		Type:   model.Daily,
		Anchor: day(2025, time.May, 1),
		Count:  3,
	}

	occ, err := Expand(rule, window(day(2025, time.May, 2), day(2025, time.December, 31)))
	require.NoError(t, err)

	assert.Equal(t, []string{"2025-05-02", "2025-05-03", "2025-05-04"}, dates(occ))
}

func TestExpand_Cases(t *testing.T) {
	tests := []struct {
		name   string
		rule   model.Rule
		window model.Interval
		want   []string
	}{
		{
			name:   "daily stops at window end before count",
			rule:   model.Rule{Type: model.Daily, Anchor: day(2025, time.June, 28), Count: 10},
			window: window(day(2025, time.June, 1), day(2025, time.June, 30)),
			want:   []string{"2025-06-28", "2025-06-29", "2025-06-30"},
		},
		{
			name:   "daily anchor long before window",
			rule:   model.Rule{Type: model.Daily, Anchor: day(2024, time.January, 1), Count: 10},
			window: window(day(2025, time.May, 1), day(2025, time.May, 3)),
			want:   []string{"2025-05-01", "2025-05-02", "2025-05-03"},
		},
		{
			name:   "anchor after window yields nothing",
			rule:   model.Rule{Type: model.Daily, Anchor: day(2026, time.January, 1), Count: 3},
			window: window(day(2025, time.May, 1), day(2025, time.May, 3)),
			want:   []string{},
		},
		{
			name:   "weekly aligns forward from a wednesday anchor",
			rule:   model.Rule{Type: model.Weekly, Anchor: day(2025, time.May, 14), DayOfWeek: int(time.Monday), Count: 3},
			window: window(day(2025, time.May, 1), day(2025, time.June, 30)),
			want:   []string{"2025-05-19", "2025-05-26", "2025-06-02"},
		},
		{
			name:   "weekly sunday",
			rule:   model.Rule{Type: model.Weekly, Anchor: day(2025, time.May, 11), DayOfWeek: int(time.Sunday), Count: 2},
			window: window(day(2025, time.May, 1), day(2025, time.June, 30)),
			want:   []string{"2025-05-11", "2025-05-18"},
		},
		{
			name:   "weekly saturday from a sunday anchor",
			rule:   model.Rule{Type: model.Weekly, Anchor: day(2025, time.May, 11), DayOfWeek: int(time.Saturday), Count: 2},
			window: window(day(2025, time.May, 1), day(2025, time.June, 30)),
			want:   []string{"2025-05-17", "2025-05-24"},
		},
		{
			name:   "monthly day 30 in a leap february",
			rule:   model.Rule{Type: model.Monthly, Anchor: day(2024, time.January, 30), DayOfMonth: 30, Count: 3},
			window: window(day(2024, time.January, 1), day(2024, time.December, 31)),
			want:   []string{"2024-01-30", "2024-02-29", "2024-03-30"},
		},
		{
			name:   "monthly day 31 alternating month lengths",
			rule:   model.Rule{Type: model.Monthly, Anchor: day(2025, time.April, 1), DayOfMonth: 31, Count: 4},
			window: window(day(2025, time.January, 1), day(2025, time.December, 31)),
			want:   []string{"2025-04-30", "2025-05-31", "2025-06-30", "2025-07-31"},
		},
		{
			name:   "monthly target before anchor stays in anchor month",
			rule:   model.Rule{Type: model.Monthly, Anchor: day(2025, time.January, 20), DayOfMonth: 5, Count: 3},
			window: window(day(2025, time.January, 1), day(2025, time.December, 31)),
			want:   []string{"2025-01-05", "2025-02-05", "2025-03-05"},
		},
		{
			name:   "monthly across year end",
			rule:   model.Rule{Type: model.Monthly, Anchor: day(2025, time.November, 15), DayOfMonth: 15, Count: 3},
			window: window(day(2025, time.January, 1), day(2026, time.December, 31)),
			want:   []string{"2025-11-15", "2025-12-15", "2026-01-15"},
		},
		{
			name:   "single day window",
			rule:   model.Rule{Type: model.Daily, Anchor: day(2025, time.May, 1), Count: 5},
			window: window(day(2025, time.May, 3), day(2025, time.May, 3)),
			want:   []string{"2025-05-03"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			occ, err := Expand(tt.rule, tt.window)
			require.NoError(t, err)
			assert.Equal(t, tt.want, dates(occ))
		})
	}
}

func TestExpand_Properties(t *testing.T) {
	win := window(day(2024, time.February, 10), day(2025, time.August, 20))
	anchors := []model.Date{
		day(2023, time.December, 31),
		day(2024, time.February, 29),
		day(2024, time.March, 1),
		day(2025, time.January, 31),
	}

	var rules []model.Rule
	for _, a := range anchors {
		rules = append(rules, model.Rule{Type: model.Daily, Anchor: a, Time: model.Clock{Hour: 23, Minute: 59}, Count: 40})
		for wd := 0; wd < 7; wd++ {
			rules = append(rules, model.Rule{Type: model.Weekly, Anchor: a, DayOfWeek: wd, Count: 30})
		}
		for _, dom := range []int{1, 15, 28, 29, 30, 31} {
			rules = append(rules, model.Rule{Type: model.Monthly, Anchor: a, DayOfMonth: dom, Count: 25})
		}
	}

	for _, rule := range rules {
		occ, err := Expand(rule, win)
		require.NoError(t, err, rule.Describe())

		assert.LessOrEqual(t, len(occ), rule.Count, rule.Describe())
		for i, o := range occ {
			assert.True(t, win.Contains(o.Date), "%s: %s outside window", rule.Describe(), o)
			first := rule.Anchor
			if rule.Type == model.Monthly {
				first = model.NewDate(rule.Anchor.Year, rule.Anchor.Month, 1)
			}
			assert.False(t, o.Date.Before(first), "%s: %s before first candidate", rule.Describe(), o)
			assert.Equal(t, rule.Time, o.Clock)
			if i > 0 {
				assert.True(t, occ[i-1].Before(o), "%s: not strictly increasing at %d", rule.Describe(), i)
			}

			switch rule.Type {
			case model.Weekly:
				assert.Equal(t, time.Weekday(rule.DayOfWeek), o.Date.Weekday(), rule.Describe())
				if i > 0 {
					assert.Equal(t, 7, occ[i-1].Date.DaysUntil(o.Date), rule.Describe())
				}
			case model.Monthly:
				assert.Equal(t, min(rule.DayOfMonth, o.Date.DaysInMonth()), o.Date.Day, rule.Describe())
			case model.Daily:
				if i > 0 {
					assert.Equal(t, 1, occ[i-1].Date.DaysUntil(o.Date), rule.Describe())
				}
			}
		}
	}
}

func TestExpand_Idempotent(t *testing.T) {
	rule := model.Rule{Type: model.Monthly, Anchor: day(2025, time.January, 31), DayOfMonth: 31, Count: 12}
	win := window(day(2025, time.January, 1), day(2025, time.December, 31))

	first, err := Expand(rule, win)
	require.NoError(t, err)
	second, err := Expand(rule, win)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Len(t, first, 12)
}

func TestExpand_InvalidArguments(t *testing.T) {
	win := window(day(2025, time.May, 1), day(2025, time.June, 30))

	_, err := Expand(model.Rule{Type: model.Daily, Anchor: win.Start, Count: 0}, win)
	assert.ErrorIs(t, err, model.ErrInvalidArgument)

	_, err = Expand(model.Rule{Type: model.Daily, Anchor: win.Start, Count: -1}, win)
	assert.ErrorIs(t, err, model.ErrInvalidArgument)

	_, err = Expand(model.Rule{Type: model.Daily, Anchor: win.Start, Count: 1}, window(win.End, win.Start))
	assert.ErrorIs(t, err, model.ErrInvalidArgument)

	_, err = Expand(model.Rule{Type: model.Weekly, Anchor: win.Start, DayOfWeek: 9, Count: 1}, win)
	assert.ErrorIs(t, err, model.ErrInvalidArgument)
}

func TestClippedMonthDays(t *testing.T) {
	assert.Equal(t, []int{1}, clippedMonthDays(1))
	assert.Equal(t, []int{28}, clippedMonthDays(28))
	assert.Equal(t, []int{28, 29, 30, 31}, clippedMonthDays(31))
}

func TestOption_WeeklyUsesRuleWeekday(t *testing.T) {
	opt := option(model.Rule{Type: model.Weekly, Anchor: day(2025, time.May, 12), Time: model.Clock{Hour: 9}, DayOfWeek: 0, Count: 1})
	require.Len(t, opt.Byweekday, 1)
	assert.Equal(t, "SU", opt.Byweekday[0].String())
	assert.Equal(t, time.Date(2025, time.May, 12, 9, 0, 0, 0, time.UTC), opt.Dtstart)
}

func TestOption_MonthlyStartsAtFirstOfAnchorMonth(t *testing.T) {
	opt := option(model.Rule{Type: model.Monthly, Anchor: day(2025, time.January, 20), Time: model.Clock{Hour: 7, Minute: 30}, DayOfMonth: 5, Count: 1})
	assert.Equal(t, time.Date(2025, time.January, 1, 7, 30, 0, 0, time.UTC), opt.Dtstart)
	assert.Equal(t, []int{5}, opt.Bymonthday)
	assert.Equal(t, []int{-1}, opt.Bysetpos)
}

func TestExpand_WindowEndIncludesTimedOccurrence(t *testing.T) {
	rule := model.Rule{
		Type:   model.Daily,
		Anchor: day(2025, time.May, 1),
		Time:   model.Clock{Hour: 9},
		Count:  5,
	}

	// Membership is by date, so 09:00 on window.End is still inside.
	occ, err := Expand(rule, window(day(2025, time.April, 1), day(2025, time.May, 1)))
	require.NoError(t, err)

	assert.Equal(t, []model.DateTime{{Date: day(2025, time.May, 1), Clock: model.Clock{Hour: 9}}}, occ)
}

func TestExpander_ClampsToCap(t *testing.T) {
	e := NewExpander(3)
	rule := model.Rule{Type: model.Daily, Anchor: day(2025, time.May, 1), Count: 10}

	res, err := e.Expand(rule, window(day(2025, time.May, 1), day(2025, time.May, 31)))
	require.NoError(t, err)

	assert.True(t, res.Truncated)
	assert.Len(t, res.Occurrences, 3)
	assert.Equal(t, 10, res.Rule.Count, "result keeps the requested rule")
}

func TestExpander_UnderCap(t *testing.T) {
	e := NewExpander(0)
	assert.Equal(t, defaultMaxOccurrences, e.MaxOccurrences)

	rule := model.Rule{Type: model.Daily, Anchor: day(2025, time.May, 1), Count: 2}
	res, err := e.Expand(rule, window(day(2025, time.May, 1), day(2025, time.May, 31)))
	require.NoError(t, err)
	assert.False(t, res.Truncated)
	assert.Len(t, res.Occurrences, 2)
}
