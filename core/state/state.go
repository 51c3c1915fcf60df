// Package state persists the last optimizer results and the last generated
// timetable so a restarted planner can serve degraded answers.
package state

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/kilianp07/depotplan/core/model"
	"github.com/kilianp07/depotplan/core/optimizer"
)

// Halves of the persisted document.
const (
	KeyResults = "results"
	KeyTrips   = "trips"
)

// ErrMalformed is returned by Decode when the document is not a JSON object.
var ErrMalformed = errors.New("state: malformed document")

// Snapshot is the persisted derived state. Discarded lists the halves that
// failed to decode on load; it is never written.
type Snapshot struct {
	Results   []optimizer.RawDecision `json:"results"`
	Trips     []model.ServiceTrip     `json:"trips"`
	SavedAt   time.Time               `json:"saved_at"`
	Discarded []string                `json:"-"`
}

// Empty reports whether the snapshot carries neither half.
func (s Snapshot) Empty() bool { return len(s.Results) == 0 && len(s.Trips) == 0 }

// Store loads and saves snapshots. Load on a store that was never written
// returns an empty snapshot and no error.
type Store interface {
	Load(ctx context.Context) (Snapshot, error)
	Save(ctx context.Context, s Snapshot) error
}

// Encode renders s as the persisted JSON document. Nil halves are written as
// empty arrays.
func Encode(s Snapshot) ([]byte, error) {
	if s.Results == nil {
		s.Results = []optimizer.RawDecision{}
	}
	if s.Trips == nil {
		s.Trips = []model.ServiceTrip{}
	}
	return json.Marshal(s)
}

// Decode parses a persisted document. Each half is decoded independently: a
// half that is not an array or is malformed is dropped and named in Discarded
// while the other half survives. A missing half is simply empty.
func Decode(doc []byte) (Snapshot, error) {
	var s Snapshot
	if len(bytes.TrimSpace(doc)) == 0 {
		return s, nil
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(doc, &fields); err != nil || fields == nil {
		return s, ErrMalformed
	}
	s = DecodeHalves(fields[KeyResults], fields[KeyTrips])
	if raw, ok := fields["saved_at"]; ok {
		_ = json.Unmarshal(raw, &s.SavedAt)
	}
	return s, nil
}

// DecodeHalves builds a snapshot from halves stored separately, applying the
// same per-half tolerance as Decode. Nil halves are treated as absent.
func DecodeHalves(results, trips []byte) Snapshot {
	var s Snapshot
	if results != nil {
		res, _, err := optimizer.DecodeList(results)
		if err != nil {
			s.Discarded = append(s.Discarded, KeyResults)
		} else {
			s.Results = res
		}
	}
	if trips != nil {
		var ts []model.ServiceTrip
		if err := json.Unmarshal(trips, &ts); err != nil || !isArray(trips) {
			s.Discarded = append(s.Discarded, KeyTrips)
		} else {
			s.Trips = ts
		}
	}
	return s
}

func isArray(b []byte) bool {
	b = bytes.TrimSpace(b)
	return len(b) > 0 && b[0] == '['
}

// MemoryStore keeps the snapshot in memory.
type MemoryStore struct {
	mu  sync.RWMutex
	doc []byte
}

func NewMemoryStore() *MemoryStore { return &MemoryStore{} }

// Load decodes the last saved document.
func (m *MemoryStore) Load(context.Context) (Snapshot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return Decode(m.doc)
}

// Save replaces the stored document; last write wins.
func (m *MemoryStore) Save(_ context.Context, s Snapshot) error {
	b, err := Encode(s)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	m.mu.Lock()
	m.doc = b
	m.mu.Unlock()
	return nil
}

// SetRaw stores a raw document, bypassing encoding.
func (m *MemoryStore) SetRaw(doc []byte) {
	m.mu.Lock()
	m.doc = append([]byte(nil), doc...)
	m.mu.Unlock()
}
