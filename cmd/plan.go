package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kilianp07/depotplan/app"
	"github.com/kilianp07/depotplan/core/planner"
	"github.com/kilianp07/depotplan/pkg/export"
)

var planFlags struct {
	date   string
	format string
}

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Generate the service plan for one day and print its trips",
	RunE: func(cmd *cobra.Command, _ []string) error {
		format, err := export.ParseFormat(planFlags.format)
		if err != nil {
			return err
		}
		ctx, stop := signalContext()
		defer stop()
		return withService(func(svc *app.Service) error {
			date, err := planner.ParseDate(planFlags.date, svc.Planner.Location())
			if err != nil {
				return err
			}
			if err := svc.Planner.Restore(ctx); err != nil {
				return err
			}
			plan, err := svc.Planner.GeneratePlan(ctx, date)
			if err != nil {
				return err
			}
			if plan.IsDegraded() {
				fmt.Fprintf(cmd.ErrOrStderr(), "warning: degraded plan: %v\n", plan.Degraded)
			}
			if format == export.FormatTable {
				fmt.Fprintf(cmd.OutOrStdout(), "Plan %s for %s (%s -> %s)\n", plan.ID, plan.Date, plan.Origin, plan.Destination)
			}
			return export.WriteTrips(cmd.OutOrStdout(), format, plan.Trips)
		})
	},
}

func init() {
	planCmd.Flags().StringVar(&planFlags.date, "date", "", "plan date YYYY-MM-DD (default today in the planner timezone)")
	planCmd.Flags().StringVar(&planFlags.format, "format", "table", "output format: table, csv or json")
	rootCmd.AddCommand(planCmd)
}
