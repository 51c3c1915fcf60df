package app

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/depotplan/config"
	"github.com/kilianp07/depotplan/core/events"
	"github.com/kilianp07/depotplan/core/factory"
	"github.com/kilianp07/depotplan/core/planlog"
	"github.com/kilianp07/depotplan/core/planner"
)

func fileSource(t *testing.T, dir, name, body string) factory.ModuleConfig {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
	return factory.ModuleConfig{Type: "file", Conf: map[string]any{"path": p}}
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	cfg := config.Default()
	cfg.State.Backend = "file"
	cfg.State.Path = filepath.Join(dir, "state.json")
	cfg.Logging.Level = "error"
	cfg.Logging.History = planlog.Config{Backend: "jsonl", Path: filepath.Join(dir, "plans.jsonl")}
	cfg.Sources.Fleet = fileSource(t, dir, "fleet.json", `[
		{"id":"T1","mileage":1000,"openJobCards":0,"fitness":{"chassis":true,"signal":true,"telecom":true},"status":"standby"},
		{"id":"T2","mileage":30000,"openJobCards":0,"fitness":{"chassis":true,"signal":true,"telecom":true},"status":"run"},
		{"id":"T3","mileage":500,"openJobCards":1,"fitness":{"chassis":true,"signal":false,"telecom":true},"status":"maintenance"}
	]`)
	cfg.Sources.Optimizer = fileSource(t, dir, "optimizer.json", `{"results":[
		{"train_id":"T1","decision":"RUN","score":3},
		{"train_id":"T2","decision":"RUN","score":1},
		{"train_id":"T3","decision":"HOLD","score":0}
	]}`)
	cfg.Sources.Geography = fileSource(t, dir, "stations.json", `[{"name":"Aluva","latitude":10.1},{"name":"Tripunithura","latitude":9.95}]`)
	cfg.Sources.Depot = fileSource(t, dir, "bays.json", `[{"bayId":"B1","bayNumber":1,"occupantVehicleIds":["T1"]}]`)
	cfg.Sources.JobCards = fileSource(t, dir, "jobcards.json", `[{"id":"J1","vehicleId":"T3","title":"signal unit","status":"open"}]`)
	require.NoError(t, cfg.Validate())
	return cfg
}

func TestServiceEndToEnd(t *testing.T) {
	cfg := testConfig(t)
	svc, err := New(cfg)
	require.NoError(t, err)
	defer func() { _ = svc.Close() }()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, svc.Start(ctx))

	srv := httptest.NewServer(svc.Handler())
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/api/plan?date=2025-01-02", "application/json", nil)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var plan planner.Plan
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&plan))
	assert.Equal(t, "2025-01-02", plan.Date)
	assert.Equal(t, "Tripunithura", plan.Origin)
	assert.Equal(t, "Aluva", plan.Destination)
	assert.Len(t, plan.Trips, 69)
	assert.Empty(t, plan.Degraded)

	resp2, err := http.Get(srv.URL + "/api/readiness?ready=true")
	require.NoError(t, err)
	defer resp2.Body.Close()
	var body struct {
		Vehicles []struct {
			VehicleID string `json:"vehicle_id"`
			Bay       string `json:"bay"`
		} `json:"vehicles"`
	}
	require.NoError(t, json.NewDecoder(resp2.Body).Decode(&body))
	require.Len(t, body.Vehicles, 1)
	assert.Equal(t, "T1", body.Vehicles[0].VehicleID)
	assert.Equal(t, "B1", body.Vehicles[0].Bay)

	resp3, err := http.Get(srv.URL + "/api/vehicles/T3/jobcards")
	require.NoError(t, err)
	defer resp3.Body.Close()
	assert.Equal(t, http.StatusOK, resp3.StatusCode)

	resp4, err := http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	defer resp4.Body.Close()
	assert.Equal(t, http.StatusOK, resp4.StatusCode)

	recs, err := svc.history.Query(context.Background(), planlog.LogQuery{VehicleID: "T1"})
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, plan.ID.String(), recs[0].PlanID)
}

func TestServiceRestoresPersistedResults(t *testing.T) {
	cfg := testConfig(t)
	svc, err := New(cfg)
	require.NoError(t, err)
	_, err = svc.Planner.GeneratePlan(context.Background(), time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.NoError(t, svc.Close())

	// A broken optimizer on restart falls back to the persisted results.
	cfg.Sources.Optimizer = factory.ModuleConfig{Type: "file", Conf: map[string]any{"path": filepath.Join(t.TempDir(), "missing.json")}}
	svc, err = New(cfg)
	require.NoError(t, err)
	defer func() { _ = svc.Close() }()
	require.NoError(t, svc.Planner.Restore(context.Background()))
	plan, err := svc.Planner.GeneratePlan(context.Background(), time.Date(2025, 1, 3, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Len(t, plan.Trips, 69)
	assert.True(t, plan.IsDegraded())
	assert.Contains(t, plan.Degraded, string(events.SourceOptimizer))
}

func TestNewRejectsUnknownSource(t *testing.T) {
	cfg := config.Default()
	cfg.State.Backend = "memory"
	cfg.Sources.Fleet = factory.ModuleConfig{Type: "carrier-pigeon"}
	_, err := New(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "fleet source")
}

func TestHealthz(t *testing.T) {
	cfg := config.Default()
	cfg.State.Backend = "memory"
	svc, err := New(cfg)
	require.NoError(t, err)
	defer func() { _ = svc.Close() }()
	rr := httptest.NewRecorder()
	svc.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusNoContent, rr.Code, fmt.Sprint(rr.Body.String()))
}
