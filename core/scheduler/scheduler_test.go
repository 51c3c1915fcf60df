package scheduler

import (
	"bytes"
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/kilianp07/depotplan/core/model"
)

var day = time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)

func runDecisions(ids ...string) []model.CanonicalDecision {
	out := make([]model.CanonicalDecision, 0, len(ids))
	for _, id := range ids {
		out = append(out, model.CanonicalDecision{VehicleID: id, Action: model.ActionRun, Score: 1})
	}
	return out
}

func clock(h, m int) time.Time { return time.Date(2025, 1, 2, h, m, 0, 0, time.UTC) }

func TestAssembleScenario(t *testing.T) {
	p := Params{
		Date:         day,
		Vehicles:     runDecisions("V1", "V2", "V3"),
		Origin:       "A",
		Destination:  "B",
		Headway:      15 * time.Minute,
		TripDuration: 30 * time.Minute,
		ServiceStart: 6 * time.Hour,
		ServiceEnd:   6*time.Hour + 45*time.Minute,
	}
	trips := Assemble(p, RoundRobin{})
	want := []struct {
		id       string
		from, to string
		dep, arr time.Time
	}{
		{"V1", "A", "B", clock(6, 0), clock(6, 30)},
		{"V2", "B", "A", clock(6, 15), clock(6, 45)},
		{"V3", "A", "B", clock(6, 30), clock(7, 0)},
		{"V1", "B", "A", clock(6, 45), clock(7, 15)},
	}
	if len(trips) != len(want) {
		t.Fatalf("expected %d trips got %d", len(want), len(trips))
	}
	for i, w := range want {
		tr := trips[i]
		if tr.VehicleID != w.id || tr.Origin != w.from || tr.Destination != w.to {
			t.Fatalf("trip %d: got %s %s->%s", i, tr.VehicleID, tr.Origin, tr.Destination)
		}
		if !tr.Departure.Equal(w.dep) || !tr.Arrival.Equal(w.arr) {
			t.Fatalf("trip %d: got %v-%v", i, tr.Departure, tr.Arrival)
		}
		if tr.Date != "2025-01-02" || tr.Status != model.TripScheduled {
			t.Fatalf("trip %d: bad date/status %s %s", i, tr.Date, tr.Status)
		}
	}
}

func TestAssembleEmpty(t *testing.T) {
	trips := Assemble(Params{Date: day, Headway: time.Minute, ServiceEnd: time.Hour}, nil)
	if trips == nil || len(trips) != 0 {
		t.Fatalf("expected empty non-nil plan, got %#v", trips)
	}
}

func TestAssembleInvalidWindow(t *testing.T) {
	p := Params{Date: day, Vehicles: runDecisions("V1"), Headway: 15 * time.Minute,
		ServiceStart: 23 * time.Hour, ServiceEnd: 6 * time.Hour, TripDuration: time.Minute}
	if got := Assemble(p, nil); len(got) != 0 {
		t.Fatalf("expected no trips for inverted window, got %d", len(got))
	}
	p.ServiceStart, p.ServiceEnd, p.Headway = 0, time.Hour, 0
	if got := Assemble(p, nil); len(got) != 0 {
		t.Fatalf("expected no trips for zero headway, got %d", len(got))
	}
}

func defaultParams(ids ...string) Params {
	cfg := Config{}
	p, err := NewParams(cfg, day, runDecisions(ids...), Corridor{Origin: "South", Destination: "North"})
	if err != nil {
		panic(err)
	}
	return p
}

func TestAssembleDeterministic(t *testing.T) {
	p := defaultParams("V1", "V2", "V3", "V4")
	a, _ := json.Marshal(Assemble(p, nil))
	b, _ := json.Marshal(Assemble(p, nil))
	if !bytes.Equal(a, b) {
		t.Fatalf("assembly is not deterministic")
	}
}

func TestAssembleFairnessAndDirection(t *testing.T) {
	for n := 1; n <= 7; n++ {
		ids := make([]string, n)
		for i := range ids {
			ids[i] = string(rune('A' + i))
		}
		p := defaultParams(ids...)
		trips := Assemble(p, nil)
		// 06:00 to 23:00 every 15 minutes
		if len(trips) != 69 {
			t.Fatalf("expected 69 slots got %d", len(trips))
		}
		counts := map[string]int{}
		for i, tr := range trips {
			counts[tr.VehicleID]++
			outbound := tr.Origin == "South" && tr.Destination == "North"
			if outbound != (i%2 == 0) {
				t.Fatalf("slot %d has wrong direction %s->%s", i, tr.Origin, tr.Destination)
			}
			if i > 0 && !tr.Departure.After(trips[i-1].Departure) {
				t.Fatalf("departures not strictly increasing at %d", i)
			}
		}
		lo, hi := len(trips)/n, int(math.Ceil(float64(len(trips))/float64(n)))
		for id, c := range counts {
			if c < lo || c > hi {
				t.Fatalf("n=%d vehicle %s has %d trips, want [%d,%d]", n, id, c, lo, hi)
			}
		}
	}
}

func TestNoDoubleBooking(t *testing.T) {
	p := defaultParams("V1", "V2")
	seen := map[string]bool{}
	for _, tr := range Assemble(p, nil) {
		key := tr.VehicleID + tr.Departure.String()
		if seen[key] {
			t.Fatalf("vehicle %s double booked at %v", tr.VehicleID, tr.Departure)
		}
		seen[key] = true
	}
}

func TestSlotsCount(t *testing.T) {
	cases := []struct {
		start, end, h time.Duration
		want          int
	}{
		{6 * time.Hour, 6*time.Hour + 45*time.Minute, 15 * time.Minute, 4},
		{6 * time.Hour, 6 * time.Hour, 15 * time.Minute, 1},
		{6 * time.Hour, 6*time.Hour + 50*time.Minute, 15 * time.Minute, 4},
		{7 * time.Hour, 6 * time.Hour, 15 * time.Minute, 0},
	}
	for _, c := range cases {
		got := Slots(day, c.start, c.end, c.h)
		if len(got) != c.want {
			t.Fatalf("Slots(%v,%v,%v) = %d want %d", c.start, c.end, c.h, len(got), c.want)
		}
		for _, s := range got {
			if s.After(clockOn(day, c.end)) {
				t.Fatalf("slot %v after service end", s)
			}
		}
	}
	// a window that is not a multiple of the headway stops at the last
	// departure before service end
	got := Slots(day, 6*time.Hour, 6*time.Hour+50*time.Minute, 15*time.Minute)
	if last := got[len(got)-1]; !last.Equal(clock(6, 45)) {
		t.Fatalf("last slot %v want 06:45", last)
	}
}

func TestSlotsKeepLocation(t *testing.T) {
	loc := time.FixedZone("IST", 5*3600+1800)
	d := time.Date(2025, 3, 4, 17, 30, 0, 0, loc)
	got := Slots(d, 6*time.Hour, 6*time.Hour, time.Minute)
	want := time.Date(2025, 3, 4, 6, 0, 0, 0, loc)
	if len(got) != 1 || !got[0].Equal(want) || got[0].Location() != loc {
		t.Fatalf("unexpected slot %v", got)
	}
}

func TestSelectRunVehicles(t *testing.T) {
	in := []model.CanonicalDecision{
		{VehicleID: "V1", Action: model.ActionRun, Score: 3},
		{VehicleID: "V2", Action: model.ActionStandby, Score: 9},
		{VehicleID: "V3", Action: model.ActionRun, Score: -1},
		{VehicleID: "V4", Action: model.ActionRun, Score: 0},
		{VehicleID: "V1", Action: model.ActionRun, Score: 1},
		{VehicleID: "V5", Action: model.ActionHold, Score: 5},
	}
	got := SelectRunVehicles(in)
	ids := []string{}
	for _, d := range got {
		ids = append(ids, d.VehicleID)
	}
	if !reflect.DeepEqual(ids, []string{"V1", "V4"}) {
		t.Fatalf("unexpected selection %v", ids)
	}
	if got[0].Score != 3 {
		t.Fatalf("first decision should win")
	}
}

func TestResolveCorridor(t *testing.T) {
	st := []model.Station{
		{Name: "Middle", Latitude: 10.0},
		{Name: "Aluva", Latitude: 10.1},
		{Name: "Tripunithura", Latitude: 9.95},
		{Name: "Also North", Latitude: 10.1},
	}
	c := ResolveCorridor(st)
	if c.Origin != "Tripunithura" || c.Destination != "Aluva" {
		t.Fatalf("unexpected corridor %#v", c)
	}
	if got := ResolveCorridor(nil); got != UnknownCorridor() {
		t.Fatalf("expected unknown corridor got %#v", got)
	}
	if got := ResolveCorridor([]model.Station{{Name: " ", Latitude: 1}}); got.Origin != UnknownEndpoint {
		t.Fatalf("blank name should resolve to sentinel")
	}
}

func TestSummarize(t *testing.T) {
	p := defaultParams("V1", "V2")
	p.ServiceEnd = p.ServiceStart + 30*time.Minute
	s := Summarize(Assemble(p, nil))
	if s.Trips != 3 || s.Vehicles != 2 || s.MinTrips != 1 || s.MaxTrips != 2 {
		t.Fatalf("unexpected summary %#v", s)
	}
	if math.Abs(s.MeanTrips-1.5) > 1e-9 {
		t.Fatalf("mean %v", s.MeanTrips)
	}
	if s.FirstDeparture == nil || !s.FirstDeparture.Equal(clock(6, 0)) || !s.LastArrival.Equal(clock(7, 0)) {
		t.Fatalf("bad bounds %v %v", s.FirstDeparture, s.LastArrival)
	}
	if empty := Summarize(nil); empty.Trips != 0 || empty.FirstDeparture != nil {
		t.Fatalf("unexpected empty summary %#v", empty)
	}
}

func TestParseClock(t *testing.T) {
	if d, err := ParseClock("06:15"); err != nil || d != 6*time.Hour+15*time.Minute {
		t.Fatalf("parse: %v %v", d, err)
	}
	if d, err := ParseClock("24:00"); err != nil || d != 24*time.Hour {
		t.Fatalf("parse end of day: %v %v", d, err)
	}
	for _, bad := range []string{"", "6", "25:00", "06:60", "aa:bb", "24:30"} {
		if _, err := ParseClock(bad); err == nil {
			t.Fatalf("expected error for %q", bad)
		}
	}
}

func TestConfigValidate(t *testing.T) {
	var c Config
	c.SetDefaults()
	if err := c.Validate(); err != nil {
		t.Fatalf("defaults invalid: %v", err)
	}
	c.HeadwayMinutes = -1
	if err := c.Validate(); err == nil {
		t.Fatalf("expected headway error")
	}
	c = Config{HeadwayMinutes: 1, TripMinutes: 1, ServiceStart: "x", ServiceEnd: "23:00"}
	if err := c.Validate(); err == nil {
		t.Fatalf("expected clock error")
	}
}

func TestLoadConfig(t *testing.T) {
	data := "headway_minutes: 10\ntrip_minutes: 40\nservice_start: \"05:30\"\n"
	cfg, err := DecodeConfig(bytes.NewBufferString(data), "yaml")
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if cfg.HeadwayMinutes != 10 || cfg.TripMinutes != 40 || cfg.ServiceStart != "05:30" {
		t.Fatalf("bad cfg %#v", cfg)
	}
}

func TestLoadConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cfg.json")
	if err := os.WriteFile(path, []byte(`{"headway_minutes":12,"service_end":"22:00"}`), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.HeadwayMinutes != 12 || cfg.ServiceEnd != "22:00" {
		t.Fatalf("bad cfg %#v", cfg)
	}
	if _, err := LoadConfig(path + ".txt"); err == nil {
		t.Fatalf("expected error for wrong ext")
	}
}

func TestDecodeErrors(t *testing.T) {
	if _, err := DecodeConfig(bytes.NewBufferString("{}"), "toml"); err == nil {
		t.Fatalf("expected error")
	}
	if _, err := DecodeConfig(bytes.NewBufferString(":"), "yaml"); err == nil {
		t.Fatalf("expected yaml error")
	}
}
