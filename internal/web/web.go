package web

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"html/template"
	"io/fs"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"recurcal/internal/calendar"
	"recurcal/internal/config"
	"recurcal/internal/form"
	appLog "recurcal/internal/log"
	"recurcal/internal/model"
	"recurcal/internal/recur"
)

// Server hosts the generator form, the rendered calendar page and the
// JSON API. Every request recomputes occurrences and the grid from its
// query unless a fresh cached computation exists.
type Server struct {
	cfg      *config.Config
	expander *recur.Expander
	mux      *http.ServeMux
	pages    *template.Template
	cache    *resultCache
}

// embedded holds the page templates and the stylesheet.
//
//go:embed templates/*.html static
var embedded embed.FS

// NewServer constructs a new Server.
func NewServer(cfg *config.Config) (*Server, error) {
	pages, err := template.ParseFS(embedded, "templates/*.html")
	if err != nil {
		return nil, err
	}
	s := &Server{
		cfg:      cfg,
		expander: recur.NewExpander(cfg.MaxOccurrences),
		mux:      http.NewServeMux(),
		pages:    pages,
		cache:    newResultCache(time.Duration(cfg.CacheTTLSeconds) * time.Second),
	}
	s.registerRoutes()
	return s, nil
}

// Handler returns the root http.Handler with middleware applied.
func (s *Server) Handler() http.Handler {
	h := http.Handler(s.mux)
	if s.basicAuthEnabled() {
		appLog.Info("HTTP basic auth enabled", "listen", "http://"+s.cfg.Listen)
		h = s.basicAuthMiddleware(h)
	}
	return requestIDMiddleware(h)
}

// Run serves HTTP on cfg.Listen and runs the cache janitor until ctx is
// canceled, then shuts both down gracefully.
func (s *Server) Run(ctx context.Context) error {
	janitor, err := newJanitor(s.cfg.CachePurge, s.cache)
	if err != nil {
		return err
	}
	srv := &http.Server{
		Addr:              s.cfg.Listen,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		appLog.Info("starting HTTP server", "listen", "http://"+s.cfg.Listen)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		janitor.Start()
		<-gctx.Done()

		stopped := janitor.Stop()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		err := srv.Shutdown(shutdownCtx)
		<-stopped.Done()
		appLog.Info("HTTP server stopped")
		return err
	})
	return g.Wait()
}

func (s *Server) registerRoutes() {
	s.mux.HandleFunc("GET /health", s.handleHealth)
	s.mux.HandleFunc("GET /{$}", s.handleIndex)
	s.mux.HandleFunc("GET /calendar", s.handleCalendar)
	s.mux.HandleFunc("GET /api/occurrences", s.handleOccurrences)
	s.mux.HandleFunc("GET /api/calendar", s.handleCalendarJSON)
	s.mux.Handle("GET /static/", s.staticFileServer())
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

// staticFileServer serves the embedded stylesheet under /static/.
func (s *Server) staticFileServer() http.Handler {
	sub, err := fs.Sub(embedded, "static")
	if err != nil {
		appLog.Error("failed to initialize embedded static filesystem", err)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "static files not available", http.StatusServiceUnavailable)
		})
	}
	return http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
}

// computed is one expansion together with its grid. Values are never
// mutated after construction, so cached copies can be shared.
type computed struct {
	Rule   model.Rule
	Window model.Interval
	Result recur.Result
	View   calendar.View
}

// compute expands req and lays out its window, consulting the cache first.
func (s *Server) compute(req form.Request) (computed, error) {
	key := req.Values().Encode()
	if c, ok := s.cache.get(key); ok {
		return c, nil
	}

	rule, window, err := req.Parse()
	if err != nil {
		return computed{}, err
	}
	res, err := s.expander.Expand(rule, window)
	if err != nil {
		return computed{}, err
	}
	if res.Occurrences == nil {
		res.Occurrences = []model.DateTime{}
	}
	view, err := calendar.BuildView(window, res.Occurrences)
	if err != nil {
		return computed{}, err
	}

	c := computed{Rule: rule, Window: window, Result: res, View: view}
	s.cache.put(key, c)
	return c, nil
}

func (s *Server) request(r *http.Request) form.Request {
	req := form.FromValues(r.URL.Query(), s.cfg.Defaults)
	req.MaxWindowDays = s.cfg.MaxWindowDays
	return req
}

// statusFor maps input errors to 400 and everything else to 500.
func statusFor(err error) int {
	if errors.Is(err, model.ErrParse) || errors.Is(err, model.ErrInvalidArgument) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// occurrencesResponse is the JSON response shape for /api/occurrences.
type occurrencesResponse struct {
	Occurrences []model.DateTime `json:"occurrences"`
	Truncated   bool             `json:"truncated"`
	Rule        model.Rule       `json:"rule"`
	RangeStart  model.Date       `json:"range_start"`
	RangeEnd    model.Date       `json:"range_end"`
}

// calendarResponse is the JSON response shape for /api/calendar.
type calendarResponse struct {
	Weeks       [][7]calendar.Cell `json:"weeks"`
	Occurrences []model.DateTime   `json:"occurrences"`
	Months      []string           `json:"months"`
}

// handleOccurrences returns the expanded occurrences for the query.
//
// GET /api/occurrences?start_date=2025-05-12&rule_type=weekly&day_of_week=1&...
func (s *Server) handleOccurrences(w http.ResponseWriter, r *http.Request) {
	c, err := s.compute(s.request(r))
	if err != nil {
		s.writeComputeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, occurrencesResponse{
		Occurrences: c.Result.Occurrences,
		Truncated:   c.Result.Truncated,
		Rule:        c.Rule,
		RangeStart:  c.Window.Start,
		RangeEnd:    c.Window.End,
	})
}

// handleCalendarJSON returns the week grid with per-day highlight state.
func (s *Server) handleCalendarJSON(w http.ResponseWriter, r *http.Request) {
	c, err := s.compute(s.request(r))
	if err != nil {
		s.writeComputeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, calendarResponse{
		Weeks:       c.View.Weeks,
		Occurrences: c.Result.Occurrences,
		Months:      c.View.Months(),
	})
}

func (s *Server) writeComputeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		appLog.Error("compute failed", err, "request_id", RequestID(r.Context()))
		writeError(w, status, "internal error")
		return
	}
	appLog.Debug("rejected input", "request_id", RequestID(r.Context()), "err", err)
	writeError(w, status, err.Error())
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		appLog.Error("failed to write JSON response", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	type errResp struct {
		Error string `json:"error"`
	}
	writeJSON(w, status, errResp{Error: msg})
}
