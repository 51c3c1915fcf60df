// Package export renders timetables and readiness records as JSON, CSV or
// aligned text tables.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/kilianp07/depotplan/core/model"
)

// Format selects an output encoding.
type Format string

const (
	FormatTable Format = "table"
	FormatCSV   Format = "csv"
	FormatJSON  Format = "json"
)

// ParseFormat accepts table, csv or json, case-insensitively.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatTable, FormatCSV, FormatJSON:
		return f, nil
	case "":
		return FormatTable, nil
	default:
		return "", fmt.Errorf("unknown format %q (want table, csv or json)", s)
	}
}

var tripHeader = []string{"date", "vehicle_id", "origin", "destination", "departure", "arrival", "status"}

// WriteTrips writes trips to w in the requested format.
func WriteTrips(w io.Writer, f Format, trips []model.ServiceTrip) error {
	switch f {
	case FormatJSON:
		return WriteJSON(w, trips)
	case FormatCSV:
		return WriteCSV(w, trips)
	default:
		return WriteTable(w, trips)
	}
}

// WriteJSON writes the trips as a JSON array. A nil slice is written as [].
func WriteJSON(w io.Writer, trips []model.ServiceTrip) error {
	if trips == nil {
		trips = []model.ServiceTrip{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(trips)
}

// WriteCSV writes the trips with a header row and RFC 3339 timestamps.
func WriteCSV(w io.Writer, trips []model.ServiceTrip) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(tripHeader); err != nil {
		return err
	}
	for _, t := range trips {
		rec := []string{
			t.Date,
			t.VehicleID,
			t.Origin,
			t.Destination,
			t.Departure.Format(time.RFC3339),
			t.Arrival.Format(time.RFC3339),
			string(t.Status),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteTable renders the trips with clock times in their own location.
func WriteTable(w io.Writer, trips []model.ServiceTrip) error {
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.AppendHeader(table.Row{"#", "Vehicle", "From", "To", "Departs", "Arrives"})
	for i, t := range trips {
		tw.AppendRow(table.Row{i + 1, t.VehicleID, t.Origin, t.Destination, t.Departure.Format("15:04"), t.Arrival.Format("15:04")})
	}
	tw.AppendFooter(table.Row{"", "", "", "", "Trips", len(trips)})
	tw.Render()
	return nil
}

var readinessHeader = []string{"vehicle_id", "status", "bay", "ready", "scheduled", "action", "score", "first_out", "conflicts"}

// WriteReadiness writes readiness records to w in the requested format.
func WriteReadiness(w io.Writer, f Format, recs []model.ReadinessRecord) error {
	switch f {
	case FormatJSON:
		if recs == nil {
			recs = []model.ReadinessRecord{}
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(recs)
	case FormatCSV:
		cw := csv.NewWriter(w)
		if err := cw.Write(readinessHeader); err != nil {
			return err
		}
		for _, r := range recs {
			if err := cw.Write(readinessRow(r, time.RFC3339)); err != nil {
				return err
			}
		}
		cw.Flush()
		return cw.Error()
	default:
		tw := table.NewWriter()
		tw.SetOutputMirror(w)
		header := make(table.Row, 0, len(readinessHeader))
		for _, h := range readinessHeader {
			header = append(header, h)
		}
		tw.AppendHeader(header)
		for _, r := range recs {
			row := readinessRow(r, "15:04")
			cells := make(table.Row, 0, len(row))
			for _, c := range row {
				cells = append(cells, c)
			}
			tw.AppendRow(cells)
		}
		tw.Render()
		return nil
	}
}

func readinessRow(r model.ReadinessRecord, layout string) []string {
	firstOut := ""
	if r.FirstOut != nil {
		firstOut = r.FirstOut.Format(layout)
	}
	rules := make([]string, 0, len(r.Conflicts))
	for _, c := range r.Conflicts {
		rules = append(rules, c.Rule)
	}
	return []string{
		r.VehicleID,
		string(r.Status),
		r.Bay,
		strconv.FormatBool(r.IsReady),
		strconv.FormatBool(r.IsScheduled),
		r.Action,
		strconv.FormatFloat(r.Score, 'f', -1, 64),
		firstOut,
		strings.Join(rules, ";"),
	}
}
