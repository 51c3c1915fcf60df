package readiness

import (
	"sort"
	"sync"
	"time"

	"github.com/kilianp07/depotplan/core/model"
)

// Filter narrows List results. Nil pointers match everything.
type Filter struct {
	Status    model.Status
	Ready     *bool
	Scheduled *bool
}

func (f Filter) match(r model.ReadinessRecord) bool {
	if f.Status != "" && r.Status != f.Status {
		return false
	}
	if f.Ready != nil && r.IsReady != *f.Ready {
		return false
	}
	if f.Scheduled != nil && r.IsScheduled != *f.Scheduled {
		return false
	}
	return true
}

// Store keeps the latest readiness records.
type Store interface {
	Replace([]model.ReadinessRecord)
	List(Filter) []model.ReadinessRecord
	Get(id string) (model.ReadinessRecord, bool)
	UpdatedAt() time.Time
}

type MemoryStore struct {
	mu      sync.RWMutex
	data    map[string]model.ReadinessRecord
	updated time.Time
	now     func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: map[string]model.ReadinessRecord{}, now: time.Now}
}

// Replace swaps the whole record set; records are projections and are never
// patched individually.
func (s *MemoryStore) Replace(recs []model.ReadinessRecord) {
	data := make(map[string]model.ReadinessRecord, len(recs))
	for _, r := range recs {
		data[r.VehicleID] = r
	}
	s.mu.Lock()
	s.data = data
	s.updated = s.now()
	s.mu.Unlock()
}

func (s *MemoryStore) Get(id string) (model.ReadinessRecord, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.data[id]
	return r, ok
}

func (s *MemoryStore) UpdatedAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.updated
}

func (s *MemoryStore) List(f Filter) []model.ReadinessRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	res := make([]model.ReadinessRecord, 0, len(s.data))
	for _, r := range s.data {
		if f.match(r) {
			res = append(res, r)
		}
	}
	sort.Slice(res, func(i, j int) bool { return res[i].VehicleID < res[j].VehicleID })
	return res
}
