package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"recurcal/internal/model"
	"recurcal/internal/recur"
)

type expandOutput struct {
	Occurrences []model.DateTime `json:"occurrences"`
	Truncated   bool             `json:"truncated"`
	Rule        model.Rule       `json:"rule"`
	RangeStart  model.Date       `json:"range_start"`
	RangeEnd    model.Date       `json:"range_end"`
}

func newExpandCmd(a *app) *cobra.Command {
	var flags ruleFlags
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "expand",
		Short: "Print the occurrences of a rule within a window",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := a.expand(cmd, &flags)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(expandOutput{
					Occurrences: res.Occurrences,
					Truncated:   res.Truncated,
					Rule:        res.Rule,
					RangeStart:  res.Window.Start,
					RangeEnd:    res.Window.End,
				})
			}

			if _, err := fmt.Fprintf(out, "%s\nwindow %s\n\n", res.Rule.Describe(), res.Window); err != nil {
				return err
			}
			return printerFor(out).Occurrences(res.Occurrences, res.Truncated)
		},
	}

	flags.register(cmd)
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print JSON instead of a list")

	return cmd
}

// expand parses the flags and runs the capped expander.
func (a *app) expand(cmd *cobra.Command, flags *ruleFlags) (recur.Result, error) {
	req := flags.request(cmd, a.cfg.Defaults)
	req.MaxWindowDays = a.cfg.MaxWindowDays
	rule, window, err := req.Parse()
	if err != nil {
		return recur.Result{}, err
	}
	res, err := recur.NewExpander(a.cfg.MaxOccurrences).Expand(rule, window)
	if err != nil {
		return recur.Result{}, err
	}
	if res.Occurrences == nil {
		res.Occurrences = []model.DateTime{}
	}
	return res, nil
}
