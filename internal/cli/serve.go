package cli

import (
	"github.com/spf13/cobra"

	"github.com/heartmarshall/ntmanager-backend/internal/app"
)

func serveCmd(load configLoader) *cobra.Command {
	var migrate bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API, WebSocket feed and live timeline",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			logger := app.NewLogger(cfg.Log)
			return app.Run(cmd.Context(), cfg, logger, app.Options{Migrate: migrate})
		},
	}
	cmd.Flags().BoolVar(&migrate, "migrate", false, "Apply pending migrations before serving")

	return cmd
}
