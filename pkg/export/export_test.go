package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/kilianp07/depotplan/core/model"
)

func sampleTrips() []model.ServiceTrip {
	dep := time.Date(2025, 1, 2, 6, 0, 0, 0, time.UTC)
	return []model.ServiceTrip{
		{Date: "2025-01-02", VehicleID: "T1", Origin: "A", Destination: "B", Departure: dep, Arrival: dep.Add(30 * time.Minute), Status: model.TripScheduled},
		{Date: "2025-01-02", VehicleID: "T2", Origin: "B", Destination: "A", Departure: dep.Add(15 * time.Minute), Arrival: dep.Add(45 * time.Minute), Status: model.TripScheduled},
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, sampleTrips()); err != nil {
		t.Fatalf("csv: %v", err)
	}
	rows, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("read csv: %v", err)
	}
	if len(rows) != 3 || rows[0][1] != "vehicle_id" {
		t.Fatalf("unexpected rows %v", rows)
	}
	if rows[1][4] != "2025-01-02T06:00:00Z" || rows[2][2] != "B" {
		t.Fatalf("unexpected content %v", rows[1:])
	}
}

func TestWriteJSONEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteJSON(&buf, nil); err != nil {
		t.Fatalf("json: %v", err)
	}
	if strings.TrimSpace(buf.String()) != "[]" {
		t.Fatalf("expected empty array got %q", buf.String())
	}
}

func TestWriteTripsFormats(t *testing.T) {
	for _, f := range []Format{FormatTable, FormatCSV, FormatJSON} {
		var buf bytes.Buffer
		if err := WriteTrips(&buf, f, sampleTrips()); err != nil {
			t.Fatalf("%s: %v", f, err)
		}
		if !strings.Contains(buf.String(), "T2") {
			t.Fatalf("%s output misses vehicle: %s", f, buf.String())
		}
	}
	var buf bytes.Buffer
	_ = WriteTable(&buf, sampleTrips())
	if !strings.Contains(buf.String(), "06:15") {
		t.Fatalf("table should show clock times: %s", buf.String())
	}
}

func TestParseFormat(t *testing.T) {
	checks := []struct {
		in   string
		want Format
		ok   bool
	}{
		{"", FormatTable, true},
		{"CSV", FormatCSV, true},
		{" json ", FormatJSON, true},
		{"xml", "", false},
	}
	for _, c := range checks {
		got, err := ParseFormat(c.in)
		if (err == nil) != c.ok || got != c.want {
			t.Fatalf("ParseFormat(%q) = %q, %v", c.in, got, err)
		}
	}
}

func TestWriteReadiness(t *testing.T) {
	out := time.Date(2025, 1, 2, 6, 0, 0, 0, time.UTC)
	recs := []model.ReadinessRecord{
		{VehicleID: "T1", Status: model.StatusRun, Bay: "B1", IsReady: true, IsScheduled: true, Action: "run", Score: 2.5, FirstOut: &out},
		{VehicleID: "T2", Status: model.StatusStandby, Bay: "-", Conflicts: []model.ConflictFinding{{Rule: "fitness"}, {Rule: "jobcards"}}},
	}
	var buf bytes.Buffer
	if err := WriteReadiness(&buf, FormatCSV, recs); err != nil {
		t.Fatalf("csv: %v", err)
	}
	rows, _ := csv.NewReader(&buf).ReadAll()
	if rows[1][7] != "2025-01-02T06:00:00Z" || rows[2][8] != "fitness;jobcards" || rows[1][6] != "2.5" {
		t.Fatalf("unexpected rows %v", rows)
	}

	buf.Reset()
	if err := WriteReadiness(&buf, FormatJSON, nil); err != nil {
		t.Fatalf("json: %v", err)
	}
	var decoded []model.ReadinessRecord
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil || decoded == nil {
		t.Fatalf("expected empty array: %v %q", err, buf.String())
	}

	buf.Reset()
	if err := WriteReadiness(&buf, FormatTable, recs); err != nil {
		t.Fatalf("table: %v", err)
	}
	if !strings.Contains(buf.String(), "06:00") {
		t.Fatalf("table output %s", buf.String())
	}
}
