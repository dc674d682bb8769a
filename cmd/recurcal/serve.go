package main

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	appLog "recurcal/internal/log"
	"recurcal/internal/web"
)

func newServeCmd(a *app) *cobra.Command {
	var listen string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the web form, calendar page and JSON API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			// --listen overrides the config file if provided.
			if listen != "" {
				a.cfg.Listen = listen
			}

			appLog.Info("effective config",
				"listen", a.cfg.Listen,
				"max_occurrences", a.cfg.MaxOccurrences,
				"cache_ttl_seconds", a.cfg.CacheTTLSeconds,
				"cache_purge", a.cfg.CachePurge,
				"basic_auth", a.cfg.BasicAuth != nil,
			)

			srv, err := web.NewServer(a.cfg)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return srv.Run(ctx)
		},
	}

	cmd.Flags().StringVar(&listen, "listen", "", "HTTP listen address (overrides config if set)")

	return cmd
}
