package eligibility

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/depotplan/core/model"
)

func fit() model.Fitness { return model.Fitness{Chassis: true, Signal: true, Telecom: true} }

func TestEvaluateJobCardOnly(t *testing.T) {
	e := NewEngine(Config{})
	v := model.Vehicle{ID: "V1", Status: model.StatusStandby, OpenJobCards: 2, Fitness: fit(), Mileage: 5000}
	got := e.Evaluate(v)
	require.Len(t, got, 1)
	assert.Equal(t, RuleJobCard, got[0].Rule)
	assert.Equal(t, "V1", got[0].VehicleID)
	assert.Contains(t, got[0].Reason, "2")
}

func TestEvaluateClean(t *testing.T) {
	e := NewEngine(Config{})
	v := model.Vehicle{ID: "V1", Fitness: fit(), Mileage: 20000}
	if got := e.Evaluate(v); len(got) != 0 {
		t.Fatalf("expected no findings at the threshold, got %v", got)
	}
}

func TestEvaluateAllRules(t *testing.T) {
	e := NewEngine(Config{MileageThresholdKM: 100})
	v := model.Vehicle{ID: "V7", Fitness: model.Fitness{Chassis: true}, OpenJobCards: 1, Mileage: 101}
	got := e.Evaluate(v)
	require.Len(t, got, 3)
	rules := map[string]string{}
	for _, f := range got {
		rules[f.Rule] = f.Reason
	}
	assert.Contains(t, rules[RuleFitness], "expired or invalid")
	assert.Contains(t, rules[RuleFitness], "signal, telecom")
	assert.Equal(t, "1 open job card", rules[RuleJobCard])
	assert.True(t, strings.HasPrefix(rules[RuleMileage], "high mileage: maintenance required"))
}

func TestEvaluateMalformedIsConservative(t *testing.T) {
	e := NewEngine(Config{})
	v := model.FleetRecord{ID: "V9"}.ToVehicle()
	got := e.Evaluate(v)
	if len(got) != 3 {
		t.Fatalf("missing data must fail every rule, got %v", got)
	}
}

func TestEvaluateOrderInsensitive(t *testing.T) {
	v := model.Vehicle{ID: "V1", OpenJobCards: 3, Mileage: 30000}
	a := NewEngineWithRules(FitnessRule{}, JobCardRule{}, MileageRule{ThresholdKM: 20000}).Evaluate(v)
	b := NewEngineWithRules(MileageRule{ThresholdKM: 20000}, JobCardRule{}, FitnessRule{}).Evaluate(v)
	assert.ElementsMatch(t, a, b)
}

func TestEvaluateFleetAndFlatten(t *testing.T) {
	e := NewEngine(Config{})
	vs := []model.Vehicle{
		{ID: "A", Fitness: fit()},
		{ID: "B", Fitness: fit(), OpenJobCards: 1},
		{ID: "C", Mileage: 1},
	}
	by := e.EvaluateFleet(vs)
	if _, ok := by["A"]; ok {
		t.Fatalf("A should have no findings")
	}
	if len(by["B"]) != 1 || len(by["C"]) != 1 {
		t.Fatalf("unexpected findings %v", by)
	}
	flat := Flatten(vs, by)
	if len(flat) != 2 || flat[0].VehicleID != "B" || flat[1].VehicleID != "C" {
		t.Fatalf("unexpected flatten order %v", flat)
	}
}

func TestSyntheticFleet(t *testing.T) {
	vs := SyntheticFleet()
	require.Len(t, vs, SyntheticFleetSize)
	e := NewEngine(Config{})
	for _, v := range vs {
		assert.Empty(t, e.Evaluate(v))
		assert.NotEqual(t, model.StatusMaintenanceHold, v.Status)
	}
}

func TestConfigDefaults(t *testing.T) {
	var c Config
	c.SetDefaults()
	if c.MileageThresholdKM != DefaultMileageThresholdKM {
		t.Fatalf("default threshold not applied")
	}
	if err := (Config{MileageThresholdKM: -1}).Validate(); err == nil {
		t.Fatalf("expected validation error")
	}
}
