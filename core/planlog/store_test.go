package planlog

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"
	"time"
)

func record(ts time.Time, date string, scheduled ...string) LogRecord {
	return LogRecord{Timestamp: ts, PlanID: date + "-id", Date: date, Trips: 4,
		Scheduled: scheduled, Blocked: []string{"B1"}}
}

func TestLogRecord_JSON(t *testing.T) {
	data, err := json.Marshal(record(time.Unix(0, 0), "2025-01-02", "V1"))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	for _, k := range []string{"timestamp", "plan_id", "date", "trips", "scheduled", "blocked"} {
		if _, ok := m[k]; !ok {
			t.Errorf("missing key %s", k)
		}
	}
}

func TestLogQueryMatch(t *testing.T) {
	now := time.Date(2025, 1, 2, 12, 0, 0, 0, time.UTC)
	r := record(now, "2025-01-02", "V1")
	cases := []struct {
		q    LogQuery
		want bool
	}{
		{LogQuery{}, true},
		{LogQuery{VehicleID: "V1"}, true},
		{LogQuery{VehicleID: "B1"}, true},
		{LogQuery{VehicleID: "V9"}, false},
		{LogQuery{Date: "2025-01-03"}, false},
		{LogQuery{Start: now.Add(time.Second)}, false},
		{LogQuery{End: now.Add(-time.Second)}, false},
	}
	for i, c := range cases {
		if got := c.q.Match(r); got != c.want {
			t.Fatalf("case %d: got %v want %v", i, got, c.want)
		}
	}
}

func exercise(t *testing.T, store LogStore) {
	t.Helper()
	ctx := context.Background()
	base := time.Date(2025, 1, 2, 5, 0, 0, 0, time.UTC)
	for i, rec := range []LogRecord{
		record(base, "2025-01-02", "V1", "V2"),
		record(base.Add(time.Hour), "2025-01-03", "V2"),
		record(base.Add(2*time.Hour), "2025-01-03", "V3"),
	} {
		if err := store.Append(ctx, rec); err != nil {
			t.Fatalf("append %d: %v", i, err)
		}
	}
	all, err := store.Query(ctx, LogQuery{})
	if err != nil || len(all) != 3 {
		t.Fatalf("query all: %d %v", len(all), err)
	}
	byVehicle, err := store.Query(ctx, LogQuery{VehicleID: "V2"})
	if err != nil || len(byVehicle) != 2 {
		t.Fatalf("query vehicle: %d %v", len(byVehicle), err)
	}
	byDate, err := store.Query(ctx, LogQuery{Date: "2025-01-03", Start: base.Add(90 * time.Minute)})
	if err != nil || len(byDate) != 1 || byDate[0].Scheduled[0] != "V3" {
		t.Fatalf("query date: %#v %v", byDate, err)
	}
}

func TestJSONLStore(t *testing.T) {
	store, err := NewJSONLStore(filepath.Join(t.TempDir(), "plans.jsonl"))
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	defer func() { _ = store.Close() }()
	exercise(t, store)
}

func TestSQLiteStore_PersistQuery(t *testing.T) {
	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "plans.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer func() { _ = store.Close() }()
	exercise(t, store)
}

func TestOpen(t *testing.T) {
	s, err := Open(Config{})
	if err != nil {
		t.Fatalf("open default: %v", err)
	}
	if _, ok := s.(NopStore); !ok {
		t.Fatalf("expected nop store, got %T", s)
	}
	if _, err := Open(Config{Backend: "jsonl"}); err == nil {
		t.Fatalf("expected missing path error")
	}
	if _, err := Open(Config{Backend: "kafka", Path: "x"}); err == nil {
		t.Fatalf("expected unknown backend error")
	}
	s, err = Open(Config{Backend: "sqlite", Path: filepath.Join(t.TempDir(), "p.db")})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	_ = s.Close()
}
