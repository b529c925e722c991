package analytics

import (
	"math"

	"sales-monitor/internal/models"
)

// Collected is the amount of a deal recognized as received. A paid deal
// counts in full regardless of its recorded down payment; partial and open
// deals count only their down payment. Every aggregation goes through here.
func Collected(d models.Deal) float64 {
	switch d.Status {
	case models.StatusPaid:
		return d.Total
	case models.StatusPartial:
		return d.DP
	default:
		return d.DP
	}
}

// Outstanding is the uncollected remainder of a deal, never negative.
func Outstanding(d models.Deal) float64 {
	return math.Max(0, d.Total-Collected(d))
}

// ParseStatus validates a status coming from user input or upstream.
func ParseStatus(s string) (models.DealStatus, bool) {
	switch st := models.DealStatus(s); st {
	case models.StatusOpen, models.StatusPartial, models.StatusPaid:
		return st, true
	}
	return "", false
}

// NextToggleStatus is the status a deal moves to when its paid flag is
// toggled: a paid deal falls back to partial (or open without a down
// payment), anything else becomes paid.
func NextToggleStatus(d models.Deal) models.DealStatus {
	if d.Status == models.StatusPaid {
		if d.DP > 0 {
			return models.StatusPartial
		}
		return models.StatusOpen
	}
	return models.StatusPaid
}
