package cmd

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/kilianp07/depotplan/core/planlog"
)

var historyFlags struct {
	vehicle string
	since   time.Duration
	date    string
	json    bool
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List previously generated plans",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		store, err := planlog.Open(cfg.Logging.History)
		if err != nil {
			return err
		}
		defer func() { _ = store.Close() }()
		q := planlog.LogQuery{VehicleID: historyFlags.vehicle, Date: historyFlags.date}
		if historyFlags.since > 0 {
			q.Start = time.Now().Add(-historyFlags.since)
		}
		recs, err := store.Query(context.Background(), q)
		if err != nil {
			return err
		}
		if historyFlags.json {
			if recs == nil {
				recs = []planlog.LogRecord{}
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(recs)
		}
		tw := table.NewWriter()
		tw.SetOutputMirror(cmd.OutOrStdout())
		tw.AppendHeader(table.Row{"Generated", "Date", "Plan", "Corridor", "Trips", "Scheduled", "Blocked", "Degraded"})
		for _, r := range recs {
			tw.AppendRow(table.Row{
				r.Timestamp.Format(time.RFC3339),
				r.Date,
				r.PlanID,
				r.Origin + " -> " + r.Destination,
				r.Trips,
				len(r.Scheduled),
				len(r.Blocked),
				strings.Join(r.Degraded, ", "),
			})
		}
		tw.Render()
		return nil
	},
}

func init() {
	historyCmd.Flags().StringVar(&historyFlags.vehicle, "vehicle", "", "only plans that scheduled or blocked this vehicle")
	historyCmd.Flags().DurationVar(&historyFlags.since, "since", 0, "only plans generated within this duration, e.g. 72h")
	historyCmd.Flags().StringVar(&historyFlags.date, "date", "", "only plans for this service date")
	historyCmd.Flags().BoolVar(&historyFlags.json, "json", false, "print JSON instead of a table")
	rootCmd.AddCommand(historyCmd)
}
