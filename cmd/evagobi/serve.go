package main

import (
	"evagobi/internal/app"

	"github.com/spf13/cobra"
)

func (c *cli) newServeCmd() *cobra.Command {
	var (
		port    int
		origins []string
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the dashboard API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("port") {
				c.cfg.Server.Port = port
			}
			if cmd.Flags().Changed("allowed-origins") {
				c.cfg.Server.AllowedOrigins = origins
			}
			if err := c.cfg.Validate(); err != nil {
				return err
			}

			rt, err := app.Bootstrap(c.cfg, c.logger)
			if err != nil {
				return err
			}
			server, err := app.NewServer(rt)
			if err != nil {
				_ = rt.Shutdown(cmd.Context())
				return err
			}
			return server.Run(cmd.Context())
		},
	}
	cmd.Flags().IntVarP(&port, "port", "p", 8080, "HTTP port")
	cmd.Flags().StringSliceVar(&origins, "allowed-origins", nil, "origins allowed by CORS and the websocket upgrade")
	return cmd
}
