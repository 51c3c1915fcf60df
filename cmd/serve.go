package cmd

import (
	"github.com/spf13/cobra"

	"github.com/kilianp07/depotplan/app"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the planning API and Prometheus metrics",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signalContext()
		defer stop()
		return withService(func(svc *app.Service) error {
			return svc.Run(ctx)
		})
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
