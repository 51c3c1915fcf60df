package optimizer

import (
	"strings"

	"github.com/kilianp07/depotplan/core/model"
)

// ParseAction maps a free-form decision label to a canonical action. Unknown
// labels map to standby.
func ParseAction(label string) model.Action {
	switch strings.ToLower(strings.TrimSpace(label)) {
	case "run", "revenue":
		return model.ActionRun
	case "hold", "maintenance", "maintenance-hold", "maintenance_hold", "ibl":
		return model.ActionHold
	default:
		return model.ActionStandby
	}
}

// Normalize converts a raw decision into its canonical form.
func Normalize(raw RawDecision) model.CanonicalDecision {
	var reasons []string
	if len(raw.Reasons) > 0 {
		reasons = append([]string(nil), raw.Reasons...)
	}
	return model.CanonicalDecision{
		VehicleID: strings.TrimSpace(raw.VehicleID),
		Action:    ParseAction(raw.Label),
		Score:     raw.Score,
		Reasons:   reasons,
	}
}

// NormalizeAll normalizes every decision, preserving order. Decisions without
// a vehicle id cannot be attributed and are dropped; the count is returned.
func NormalizeAll(raws []RawDecision) ([]model.CanonicalDecision, int) {
	out := make([]model.CanonicalDecision, 0, len(raws))
	dropped := 0
	for _, r := range raws {
		d := Normalize(r)
		if d.VehicleID == "" {
			dropped++
			continue
		}
		out = append(out, d)
	}
	return out, dropped
}
