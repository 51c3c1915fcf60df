package model

import "strings"

// ConflictFinding is one violated eligibility rule for one vehicle.
type ConflictFinding struct {
	VehicleID string `json:"vehicle_id"`
	Rule      string `json:"rule"`
	Reason    string `json:"reason"`
}

// Action is the canonical optimizer recommendation.
type Action int

const (
	ActionStandby Action = iota
	ActionRun
	ActionHold
)

// String returns the label used in logs and payloads.
func (a Action) String() string {
	switch a {
	case ActionRun:
		return "run"
	case ActionHold:
		return "maintenance-hold"
	default:
		return "standby"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (a Action) MarshalText() ([]byte, error) { return []byte(a.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (a *Action) UnmarshalText(b []byte) error {
	switch strings.ToLower(string(b)) {
	case "run":
		*a = ActionRun
	case "maintenance-hold":
		*a = ActionHold
	default:
		*a = ActionStandby
	}
	return nil
}

// CanonicalDecision is the normalized optimizer output for one vehicle.
type CanonicalDecision struct {
	VehicleID string   `json:"vehicle_id"`
	Action    Action   `json:"action"`
	Score     float64  `json:"score"`
	Reasons   []string `json:"reasons"`
}

// Schedulable reports whether the decision puts the vehicle into service.
func (d CanonicalDecision) Schedulable() bool {
	return d.Action == ActionRun && d.Score >= 0
}

// ReasonText joins the reasons for single-line display.
func (d CanonicalDecision) ReasonText() string {
	return strings.Join(d.Reasons, "; ")
}
