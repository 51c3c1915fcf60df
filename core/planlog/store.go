// Package planlog keeps a history of generated plans for later inspection.
package planlog

import (
	"context"
	"slices"
	"time"
)

// LogRecord captures one plan generation.
type LogRecord struct {
	Timestamp   time.Time `json:"timestamp"`
	PlanID      string    `json:"plan_id"`
	Date        string    `json:"date"`
	Origin      string    `json:"origin"`
	Destination string    `json:"destination"`
	Trips       int       `json:"trips"`
	Scheduled   []string  `json:"scheduled"`
	Blocked     []string  `json:"blocked"`
	Degraded    []string  `json:"degraded,omitempty"`
	DurationMS  float64   `json:"duration_ms"`
}

// Mentions reports whether the record names the vehicle.
func (r LogRecord) Mentions(id string) bool {
	return slices.Contains(r.Scheduled, id) || slices.Contains(r.Blocked, id)
}

// LogQuery defines filters for retrieving records. Zero fields match all.
type LogQuery struct {
	Start     time.Time
	End       time.Time
	VehicleID string
	Date      string
}

// Match reports whether r satisfies q.
func (q LogQuery) Match(r LogRecord) bool {
	if !q.Start.IsZero() && r.Timestamp.Before(q.Start) {
		return false
	}
	if !q.End.IsZero() && r.Timestamp.After(q.End) {
		return false
	}
	if q.Date != "" && r.Date != q.Date {
		return false
	}
	if q.VehicleID != "" && !r.Mentions(q.VehicleID) {
		return false
	}
	return true
}

// LogStore persists LogRecords and supports querying.
type LogStore interface {
	Append(ctx context.Context, rec LogRecord) error
	Query(ctx context.Context, q LogQuery) ([]LogRecord, error)
	Close() error
}

// NopStore discards records.
type NopStore struct{}

func (NopStore) Append(context.Context, LogRecord) error              { return nil }
func (NopStore) Query(context.Context, LogQuery) ([]LogRecord, error) { return nil, nil }
func (NopStore) Close() error                                         { return nil }
