package calendar

import (
	"fmt"
	"time"

	"recurcal/internal/model"
)

// Cell is a single day in a rendered grid together with its highlight state.
type Cell struct {
	Date          model.Date `json:"date"`
	HasOccurrence bool       `json:"has_occurrence"`
	InRange       bool       `json:"in_range"`
	// Count is the number of occurrences on this day.
	Count int `json:"count"`
	// MonthStart is set on the first day of a month, or on the first cell
	// of the grid, so renderers can print a month label.
	MonthStart bool `json:"month_start"`
}

// Label returns the month label for a cell that starts a month, e.g. "May 2025".
func (c Cell) Label() string {
	return fmt.Sprintf("%s %d", c.Date.Month, c.Date.Year)
}

// View is the display model for one (window, occurrences) pair.
type View struct {
	Window      model.Interval   `json:"window"`
	Occurrences []model.DateTime `json:"occurrences"`
	Weeks       [][7]Cell        `json:"weeks"`
}

// WeekdayNames are the column headers, Sunday first.
var WeekdayNames = [7]string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

// BuildView lays out window as week rows and marks each day that lies in
// window or carries an occurrence. It recomputes everything on every call.
func BuildView(window model.Interval, occurrences []model.DateTime) (View, error) {
	days, err := Days(window)
	if err != nil {
		return View{}, err
	}
	grid, err := BuildWeeks(days)
	if err != nil {
		return View{}, err
	}

	perDay := make(map[model.Date]int, len(occurrences))
	for _, o := range occurrences {
		perDay[o.Date]++
	}

	v := View{
		Window:      window,
		Occurrences: occurrences,
		Weeks:       make([][7]Cell, 0, len(grid)),
	}
	for wi, row := range grid {
		var cells [7]Cell
		for i, d := range row {
			n := perDay[d]
			cells[i] = Cell{
				Date:          d,
				HasOccurrence: n > 0,
				InRange:       IsInRange(d, window),
				Count:         n,
				MonthStart:    d.Day == 1 || (wi == 0 && i == 0),
			}
		}
		v.Weeks = append(v.Weeks, cells)
	}

	return v, nil
}

// Months returns the distinct months touched by the view, in order, as
// "January 2006" labels.
func (v View) Months() []string {
	var out []string
	last := time.Month(0)
	lastYear := 0
	for _, row := range v.Weeks {
		for _, c := range row {
			if c.Date.Month != last || c.Date.Year != lastYear {
				last, lastYear = c.Date.Month, c.Date.Year
				out = append(out, c.Label())
			}
		}
	}
	return out
}
