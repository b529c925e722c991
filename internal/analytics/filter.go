package analytics

import (
	"strings"
	"time"

	"sales-monitor/internal/models"
)

// FilterDeals keeps deals dated on or after the period start that match the
// free-text search on product or customer. The unit filter is left to the
// caller.
func FilterDeals(deals []models.Deal, state models.FilterState, now time.Time) []models.Deal {
	rng := ResolvePeriod(state.Period, now)
	return filterSince(deals, rng.Start, state.Search, now.Location())
}

func filterSince(deals []models.Deal, start time.Time, search string, loc *time.Location) []models.Deal {
	needle := strings.ToLower(search)
	filtered := make([]models.Deal, 0, len(deals))
	for _, d := range deals {
		if dealDate(d.DateDeal, loc).Before(start) {
			continue
		}
		if needle != "" && !matchesSearch(d, needle) {
			continue
		}
		filtered = append(filtered, d)
	}
	return filtered
}

func matchesSearch(d models.Deal, needle string) bool {
	return strings.Contains(strings.ToLower(d.Product), needle) ||
		strings.Contains(strings.ToLower(d.Customer), needle)
}

// FilterByUnit narrows deals to one unit; "all" and "" keep everything.
func FilterByUnit(deals []models.Deal, unit string) []models.Deal {
	if isAllUnits(unit) {
		return deals
	}
	filtered := make([]models.Deal, 0, len(deals))
	for _, d := range deals {
		if d.Unit == unit {
			filtered = append(filtered, d)
		}
	}
	return filtered
}

func isAllUnits(unit string) bool {
	return unit == "" || unit == models.AllUnits
}
