package web

import (
	"bytes"
	"net/http"
	"strconv"
	"time"

	"recurcal/internal/calendar"
	"recurcal/internal/form"
	appLog "recurcal/internal/log"
	"recurcal/internal/model"
)

type selectOption struct {
	Value    string
	Label    string
	Selected bool
}

// pageData feeds index.html and calendar.html. View is nil when there is
// nothing to show (blank form or rejected input).
type pageData struct {
	Req          form.Request
	RuleTypes    []selectOption
	Weekdays     []selectOption
	MonthDays    []selectOption
	Error        string
	Summary      string
	Truncated    bool
	Cap          int
	WeekdayNames [7]string
	View         *calendar.View
}

func (s *Server) newPageData(req form.Request) pageData {
	d := pageData{
		Req:          req,
		WeekdayNames: calendar.WeekdayNames,
		Cap:          s.expander.MaxOccurrences,
	}

	for _, t := range []model.RuleType{model.Daily, model.Weekly, model.Monthly} {
		d.RuleTypes = append(d.RuleTypes, selectOption{
			Value:    string(t),
			Label:    t.Title(),
			Selected: string(t) == req.RuleType,
		})
	}

	dow := req.SelectedDayOfWeek()
	for wd := time.Sunday; wd <= time.Saturday; wd++ {
		v := strconv.Itoa(int(wd))
		d.Weekdays = append(d.Weekdays, selectOption{Value: v, Label: wd.String(), Selected: v == dow})
	}

	dom := req.SelectedDayOfMonth()
	for day := 1; day <= 31; day++ {
		v := strconv.Itoa(day)
		d.MonthDays = append(d.MonthDays, selectOption{Value: v, Label: v, Selected: v == dom})
	}
	return d
}

// handleIndex renders the blank generator form with configured defaults.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, http.StatusOK, "index.html", s.newPageData(form.NewRequest(s.cfg.Defaults)))
}

// handleCalendar renders the occurrence list and the grid for the query.
// Rejected input re-renders the form with the message and no results.
func (s *Server) handleCalendar(w http.ResponseWriter, r *http.Request) {
	req := s.request(r)
	data := s.newPageData(req)

	c, err := s.compute(req)
	if err != nil {
		status := statusFor(err)
		if status == http.StatusInternalServerError {
			appLog.Error("calendar page failed", err, "request_id", RequestID(r.Context()))
			data.Error = "Something went wrong while generating events."
		} else {
			data.Error = err.Error()
		}
		s.render(w, r, status, "calendar.html", data)
		return
	}

	data.View = &c.View
	data.Summary = c.Rule.Describe() + ", shown " + c.Window.String()
	data.Truncated = c.Result.Truncated
	s.render(w, r, http.StatusOK, "calendar.html", data)
}

// render executes into a buffer first so a template failure never leaves a
// half-written page behind.
func (s *Server) render(w http.ResponseWriter, r *http.Request, status int, name string, data pageData) {
	var buf bytes.Buffer
	if err := s.pages.ExecuteTemplate(&buf, name, data); err != nil {
		appLog.Error("template render failed", err, "template", name, "request_id", RequestID(r.Context()))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}
