package cmd

import (
	"github.com/spf13/cobra"

	"github.com/kilianp07/depotplan/app"
	"github.com/kilianp07/depotplan/pkg/export"
)

var readinessFormat string

var readinessCmd = &cobra.Command{
	Use:   "readiness",
	Short: "Fetch the fleet and print per-vehicle readiness",
	RunE: func(cmd *cobra.Command, _ []string) error {
		format, err := export.ParseFormat(readinessFormat)
		if err != nil {
			return err
		}
		ctx, stop := signalContext()
		defer stop()
		return withService(func(svc *app.Service) error {
			if err := svc.Planner.Restore(ctx); err != nil {
				return err
			}
			recs, err := svc.Planner.RefreshReadiness(ctx)
			if err != nil {
				return err
			}
			return export.WriteReadiness(cmd.OutOrStdout(), format, recs)
		})
	},
}

func init() {
	readinessCmd.Flags().StringVar(&readinessFormat, "format", "table", "output format: table, csv or json")
	rootCmd.AddCommand(readinessCmd)
}
