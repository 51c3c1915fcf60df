package planner

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/kilianp07/depotplan/core/model"
	"github.com/kilianp07/depotplan/core/scheduler"
)

// Plan is the result of one generation.
type Plan struct {
	ID          uuid.UUID               `json:"id"`
	Date        string                  `json:"date"`
	Origin      string                  `json:"origin"`
	Destination string                  `json:"destination"`
	Trips       []model.ServiceTrip     `json:"trips"`
	Readiness   []model.ReadinessRecord `json:"readiness"`
	Summary     scheduler.Summary       `json:"summary"`
	Degraded    []string                `json:"degraded,omitempty"`
	GeneratedAt time.Time               `json:"generated_at"`
}

// IsDegraded reports whether any collaborator fell back during generation.
func (p Plan) IsDegraded() bool { return len(p.Degraded) > 0 }

// ParseDate parses a YYYY-MM-DD plan date at midnight in loc. An empty string
// yields the zero time.
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	if loc == nil {
		loc = time.UTC
	}
	d, err := time.ParseInLocation(model.DateLayout, s, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid plan date %q: %w", s, err)
	}
	return d, nil
}

func midnight(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}
