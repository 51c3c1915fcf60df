package main

import (
	"math/rand"
	"testing"
)

func testConfig() Config {
	return Config{FleetSize: 10, Seed: 1, HoldPct: 0.2, RunPct: 0.5, JobCardRate: 0.3, MileageMax: 20000, Bays: 3}
}

func TestGenerateDepotCount(t *testing.T) {
	d := GenerateDepot(testConfig(), rand.New(rand.NewSource(1)), nil)
	if len(d.Fleet) != 10 || len(d.Decisions) != 10 {
		t.Fatalf("expected 10 vehicles and decisions, got %d/%d", len(d.Fleet), len(d.Decisions))
	}
	if d.Fleet[0].ID != "TS-01" || d.Fleet[9].ID != "TS-10" {
		t.Fatalf("unexpected ids %s %s", d.Fleet[0].ID, d.Fleet[9].ID)
	}
	if len(d.Stations) != len(line) || d.Stations[0].Name != "Tripunithura" {
		t.Fatalf("unexpected stations %v", d.Stations)
	}
}

func TestGenerateDepotDeterministic(t *testing.T) {
	a := GenerateDepot(testConfig(), rand.New(rand.NewSource(7)), nil)
	b := GenerateDepot(testConfig(), rand.New(rand.NewSource(7)), nil)
	for i := range a.Fleet {
		if a.Fleet[i] != b.Fleet[i] {
			t.Fatalf("vehicle %d differs for the same seed", i)
		}
	}
}

func TestRankRespectsQuotaAndHold(t *testing.T) {
	cfg := testConfig()
	d := GenerateDepot(cfg, rand.New(rand.NewSource(3)), nil)
	runs := 0
	for i, dec := range d.Decisions {
		v := d.Fleet[i]
		if dec.TrainID != v.ID {
			t.Fatalf("decision order differs from fleet order at %d", i)
		}
		if v.Status == "maintenance-hold" && dec.Decision != "HOLD" {
			t.Fatalf("%s on hold got %s", v.ID, dec.Decision)
		}
		if dec.Decision == "RUN" {
			runs++
			if v.OpenJobCards > 0 {
				t.Fatalf("%s has open job cards but was sent to run", v.ID)
			}
		}
	}
	if runs > int(float64(cfg.FleetSize)*cfg.RunPct) {
		t.Fatalf("run quota exceeded: %d", runs)
	}
}

func TestJobCardsMatchCounters(t *testing.T) {
	d := GenerateDepot(testConfig(), rand.New(rand.NewSource(5)), nil)
	for _, v := range d.Fleet {
		if got := len(d.JobCards[v.ID]); got != v.OpenJobCards {
			t.Fatalf("%s: %d cards for counter %d", v.ID, got, v.OpenJobCards)
		}
	}
}

func TestPark(t *testing.T) {
	d := GenerateDepot(testConfig(), rand.New(rand.NewSource(1)), nil)
	if len(d.Bays) != 3 {
		t.Fatalf("expected 3 bays, got %d", len(d.Bays))
	}
	if d.Bays[0].BayID != "B1" || len(d.Bays[0].OccupantIDs) != 2 || d.Bays[0].OccupantIDs[0] != "TS-01" {
		t.Fatalf("unexpected first bay %#v", d.Bays[0])
	}
}

func TestTemplateOverride(t *testing.T) {
	tmpl, err := LoadTemplates([]byte(`{"TS-02":{"status":"run","mileage":50000,"openJobCards":0}}`))
	if err != nil {
		t.Fatal(err)
	}
	d := GenerateDepot(testConfig(), rand.New(rand.NewSource(1)), tmpl)
	v := d.Fleet[1]
	if v.Status != "run" || v.Mileage != 50000 || v.OpenJobCards != 0 {
		t.Fatalf("template not applied: %#v", v)
	}
	if _, err := LoadTemplates([]byte(`invalid`)); err == nil {
		t.Fatal("expected error")
	}
}

func TestConfigValidate(t *testing.T) {
	cfg := testConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("valid config rejected: %v", err)
	}
	cfg.FailRate = 2
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected ratio error")
	}
	cfg = testConfig()
	cfg.FleetSize = 0
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected fleet size error")
	}
}
