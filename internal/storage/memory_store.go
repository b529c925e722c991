package storage

import (
	"sync"
	"time"

	"sales-monitor/internal/models"
)

// Source names one upstream feed held by the store.
type Source string

const (
	SourceDeals   Source = "deals"
	SourceTargets Source = "targets"
	SourceUnits   Source = "units"
)

type MemoryStore struct {
	mu      sync.RWMutex
	deals   []models.Deal
	byID    map[int]int
	targets models.TargetMap
	units   []string
	quality *models.DataQualityReport
	fetched map[Source]time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		deals:   make([]models.Deal, 0),
		byID:    make(map[int]int),
		targets: make(models.TargetMap),
		units:   make([]string, 0),
		fetched: make(map[Source]time.Time),
	}
}

func (s *MemoryStore) StoreDeals(deals []models.Deal, at time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.deals = append(make([]models.Deal, 0, len(deals)), deals...)
	s.byID = make(map[int]int, len(deals))
	for i, d := range s.deals {
		s.byID[d.ID] = i
	}
	s.fetched[SourceDeals] = at
}

func (s *MemoryStore) StoreTargets(targets models.TargetMap, at time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.targets = make(models.TargetMap, len(targets))
	for unit, amount := range targets {
		s.targets[unit] = amount
	}
	s.fetched[SourceTargets] = at
}

func (s *MemoryStore) StoreUnits(units []string, at time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.units = append(make([]string, 0, len(units)), units...)
	s.fetched[SourceUnits] = at
}

func (s *MemoryStore) StoreQualityReport(report models.DataQualityReport) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.quality = &report
}

func (s *MemoryStore) GetDeals() []models.Deal {
	s.mu.RLock()
	defer s.mu.RUnlock()

	deals := make([]models.Deal, len(s.deals))
	copy(deals, s.deals)
	return deals
}

func (s *MemoryStore) GetDeal(id int) (models.Deal, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i, ok := s.byID[id]
	if !ok {
		return models.Deal{}, false
	}
	return s.deals[i], true
}

// UpdateDeal replaces a stored deal in place. It reports false for an
// unknown id.
func (s *MemoryStore) UpdateDeal(deal models.Deal) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.byID[deal.ID]
	if !ok {
		return false
	}
	s.deals[i] = deal
	return true
}

func (s *MemoryStore) GetTargets() models.TargetMap {
	s.mu.RLock()
	defer s.mu.RUnlock()

	targets := make(models.TargetMap, len(s.targets))
	for unit, amount := range s.targets {
		targets[unit] = amount
	}
	return targets
}

func (s *MemoryStore) GetUnits() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	units := make([]string, len(s.units))
	copy(units, s.units)
	return units
}

func (s *MemoryStore) GetQualityReport() (models.DataQualityReport, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.quality == nil {
		return models.DataQualityReport{}, false
	}
	return *s.quality, true
}

func (s *MemoryStore) LastFetched(source Source) time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.fetched[source]
}

// IsStale reports whether source was never fetched or was fetched more than
// window before now.
func (s *MemoryStore) IsStale(source Source, window time.Duration, now time.Time) bool {
	at := s.LastFetched(source)
	return at.IsZero() || now.Sub(at) > window
}

func (s *MemoryStore) HasData() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return !s.fetched[SourceDeals].IsZero()
}
