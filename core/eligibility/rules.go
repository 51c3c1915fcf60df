package eligibility

import (
	"fmt"
	"strings"

	"github.com/kilianp07/depotplan/core/model"
)

// Rule names reported in ConflictFinding.Rule.
const (
	RuleFitness = "fitness"
	RuleJobCard = "job-card"
	RuleMileage = "mileage"
)

// Rule is a single eligibility predicate. Check returns the reason and true
// when the vehicle violates the rule.
type Rule interface {
	Name() string
	Check(v model.Vehicle) (string, bool)
}

// FitnessRule fires when any of the three certificates is not valid.
type FitnessRule struct{}

func (FitnessRule) Name() string { return RuleFitness }

func (FitnessRule) Check(v model.Vehicle) (string, bool) {
	failed := v.Fitness.Failed()
	if len(failed) == 0 {
		return "", false
	}
	if v.IsMissing(model.FieldFitness) {
		return "fitness certificate expired or invalid: certificates unavailable", true
	}
	return "fitness certificate expired or invalid: " + strings.Join(failed, ", "), true
}

// JobCardRule fires when the vehicle has open job cards.
type JobCardRule struct{}

func (JobCardRule) Name() string { return RuleJobCard }

func (JobCardRule) Check(v model.Vehicle) (string, bool) {
	if v.IsMissing(model.FieldOpenJobCards) {
		return "job-card count unavailable", true
	}
	if v.OpenJobCards <= 0 {
		return "", false
	}
	if v.OpenJobCards == 1 {
		return "1 open job card", true
	}
	return fmt.Sprintf("%d open job cards", v.OpenJobCards), true
}

// MileageRule fires when the mileage exceeds ThresholdKM.
type MileageRule struct {
	ThresholdKM int
}

func (MileageRule) Name() string { return RuleMileage }

func (r MileageRule) Check(v model.Vehicle) (string, bool) {
	if v.IsMissing(model.FieldMileage) {
		return "mileage unavailable: maintenance check required", true
	}
	if v.Mileage <= r.ThresholdKM {
		return "", false
	}
	return fmt.Sprintf("high mileage: maintenance required (%d km > %d km)", v.Mileage, r.ThresholdKM), true
}
