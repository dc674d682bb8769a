package main

import (
	"time"

	"github.com/spf13/cobra"

	"recurcal/internal/capture"
)

func newSnapshotCmd(a *app) *cobra.Command {
	var (
		pageURL string
		out     string
		width   int
		height  int
		timeout time.Duration
	)

	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Save a PNG of the rendered calendar page (needs Chromium and a running server)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := capture.Options{
				URL:        a.cfg.Snapshot.URL,
				OutputPath: out,
				Width:      a.cfg.Snapshot.Width,
				Height:     a.cfg.Snapshot.Height,
				Timeout:    time.Duration(a.cfg.Snapshot.TimeoutSeconds) * time.Second,
			}
			if cmd.Flags().Changed("url") {
				opts.URL = pageURL
			}
			if cmd.Flags().Changed("width") {
				opts.Width = width
			}
			if cmd.Flags().Changed("height") {
				opts.Height = height
			}
			if cmd.Flags().Changed("timeout") {
				opts.Timeout = timeout
			}
			return capture.Snapshot(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVar(&pageURL, "url", "", "Calendar page URL (default from config)")
	cmd.Flags().StringVar(&out, "out", "calendar.png", "Output PNG path")
	cmd.Flags().IntVar(&width, "width", capture.DefaultWidth, "Viewport width in pixels")
	cmd.Flags().IntVar(&height, "height", capture.DefaultHeight, "Viewport height in pixels")
	cmd.Flags().DurationVar(&timeout, "timeout", capture.DefaultTimeoutSec*time.Second, "Overall capture timeout")

	return cmd
}
