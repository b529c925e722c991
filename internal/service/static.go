package service

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"sales-monitor/internal/models"
)

// StaticUpstream serves deals from a local dump of the upstream /deals
// payload. Targets come from overrides, units from the deals themselves.
type StaticUpstream struct {
	mu    sync.Mutex
	deals []models.BackendDeal
}

func NewStaticUpstream(deals []models.BackendDeal) *StaticUpstream {
	return &StaticUpstream{deals: deals}
}

// LoadStaticUpstream reads a JSON array of upstream deals, or a paginated
// page of them as returned by the API.
func LoadStaticUpstream(path string) (*StaticUpstream, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read deals file: %w", err)
	}

	var deals []models.BackendDeal
	if err := json.Unmarshal(data, &deals); err != nil {
		var page models.APIResponse[models.PaginatedResponse[models.BackendDeal]]
		if perr := json.Unmarshal(data, &page); perr != nil {
			return nil, fmt.Errorf("parse deals file %s: %w", path, err)
		}
		deals = page.Data.Data
	}
	return NewStaticUpstream(deals), nil
}

func (u *StaticUpstream) FetchDeals(ctx context.Context) ([]models.BackendDeal, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	return append([]models.BackendDeal(nil), u.deals...), nil
}

func (u *StaticUpstream) FetchTargets(ctx context.Context) ([]models.BackendTarget, error) {
	return nil, nil
}

func (u *StaticUpstream) FetchUnits(ctx context.Context) ([]models.BackendUnit, error) {
	u.mu.Lock()
	defer u.mu.Unlock()

	seen := make(map[string]bool)
	var units []models.BackendUnit
	for _, d := range u.deals {
		if d.Unit == nil || seen[d.Unit.Name] {
			continue
		}
		seen[d.Unit.Name] = true
		unit := *d.Unit
		unit.IsActive = true
		units = append(units, unit)
	}
	return units, nil
}

func (u *StaticUpstream) UpdateDealStatus(ctx context.Context, id int, status models.DealStatus) (*models.BackendDeal, error) {
	u.mu.Lock()
	defer u.mu.Unlock()

	for i := range u.deals {
		if u.deals[i].ID == id {
			u.deals[i].Status = string(status)
			d := u.deals[i]
			return &d, nil
		}
	}
	return nil, ErrNotFound
}
