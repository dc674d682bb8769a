package main

import (
	"io"
	"net/url"
	"os"

	"github.com/spf13/cobra"

	"recurcal/internal/config"
	"recurcal/internal/form"
	appLog "recurcal/internal/log"
	"recurcal/internal/termcal"
)

// app carries state shared by all subcommands once the root has loaded
// the config.
type app struct {
	configPath string
	logLevel   string
	cfg        *config.Config
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:           "recurcal",
		Short:         "Expand recurring events and lay them out on a calendar grid",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.load()
		},
	}

	root.PersistentFlags().StringVar(&a.configPath, "config", "./recurcal.yaml", "Path to config file (created with defaults if missing)")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "Log level: debug, info, warn, error (overrides config)")

	root.AddCommand(
		newServeCmd(a),
		newExpandCmd(a),
		newGridCmd(a),
		newSnapshotCmd(a),
	)

	return root
}

func (a *app) load() error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	a.cfg = cfg

	level := cfg.LogLevel
	if a.logLevel != "" {
		level = a.logLevel
	}
	appLog.SetLevel(appLog.ParseLevel(level))
	return nil
}

// ruleFlags are the rule and window inputs shared by expand and grid.
// Flags left unset fall back to the config defaults.
type ruleFlags struct {
	start      string
	ruleType   string
	dayOfWeek  string
	dayOfMonth string
	at         string
	count      string
	from       string
	to         string
}

func (f *ruleFlags) register(cmd *cobra.Command) {
	fl := cmd.Flags()
	fl.StringVar(&f.start, "start", "", "Anchor date, YYYY-MM-DD")
	fl.StringVar(&f.ruleType, "type", "", "Rule type: daily, weekly or monthly")
	fl.StringVar(&f.dayOfWeek, "day-of-week", "", "Weekday for weekly rules: 0-6 (0 = Sunday) or a name")
	fl.StringVar(&f.dayOfMonth, "day-of-month", "", "Day for monthly rules: 1-31, clipped to short months")
	fl.StringVar(&f.at, "time", "", "Time of day, HH:MM")
	fl.StringVar(&f.count, "count", "", "Maximum number of occurrences")
	fl.StringVar(&f.from, "from", "", "Window start, YYYY-MM-DD")
	fl.StringVar(&f.to, "to", "", "Window end, YYYY-MM-DD (inclusive)")
}

// request maps the flags that were set onto form fields.
func (f *ruleFlags) request(cmd *cobra.Command, def form.Defaults) form.Request {
	v := url.Values{}
	set := func(flag, field, value string) {
		if cmd.Flags().Changed(flag) {
			v.Set(field, value)
		}
	}
	set("start", form.FieldStartDate, f.start)
	set("type", form.FieldRuleType, f.ruleType)
	set("day-of-week", form.FieldDayOfWeek, f.dayOfWeek)
	set("day-of-month", form.FieldDayOfMonth, f.dayOfMonth)
	set("time", form.FieldTime, f.at)
	set("count", form.FieldCount, f.count)
	set("from", form.FieldRangeStart, f.from)
	set("to", form.FieldRangeEnd, f.to)
	return form.FromValues(v, def)
}

// printerFor enables color only when w is a terminal.
func printerFor(w io.Writer) *termcal.Printer {
	color := false
	if f, ok := w.(*os.File); ok {
		color = termcal.ColorEnabled(f)
	}
	return termcal.NewPrinter(w, color)
}
