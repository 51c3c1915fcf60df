package eligibility

import "github.com/kilianp07/depotplan/core/model"

// SyntheticFleetSize is the number of vehicles in the degraded report.
const SyntheticFleetSize = 3

// SyntheticFleet returns the degraded fleet used when the fleet source is
// unavailable and the synthetic fallback is enabled: three standby vehicles
// with valid certificates and no conflicts. Callers must flag its use.
func SyntheticFleet() []model.Vehicle {
	out := make([]model.Vehicle, 0, SyntheticFleetSize)
	for _, id := range []string{"SYN-1", "SYN-2", "SYN-3"} {
		out = append(out, model.Vehicle{
			ID:      id,
			Status:  model.StatusStandby,
			Fitness: model.Fitness{Chassis: true, Signal: true, Telecom: true},
		})
	}
	return out
}
