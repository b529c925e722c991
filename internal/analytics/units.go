package analytics

import (
	"time"

	"sales-monitor/internal/models"
)

const (
	// Percentages above 100 are only shown for targets at or below this amount.
	clampTargetThreshold = 1000

	onTrackPct = 95
	atRiskPct  = 85
)

// CalculateUnitPerformance ranks every unit seen in deals, in order of first
// appearance, against its scaled target. Search and unit filters do not apply.
func CalculateUnitPerformance(deals []models.Deal, targets models.TargetMap, period models.Period, now time.Time) []models.UnitPerformance {
	rng := ResolvePeriod(period, now)
	scale := TargetScale(period)
	loc := now.Location()

	units := distinctUnits(deals)
	actuals := make(map[string]float64, len(units))
	for _, d := range deals {
		if dealDate(d.DateDeal, loc).Before(rng.Start) {
			continue
		}
		actuals[d.Unit] += Collected(d)
	}

	out := make([]models.UnitPerformance, 0, len(units))
	for _, u := range units {
		target := targets[u] * scale
		actual := actuals[u]

		pct := percentOf(actual, target)
		if pct > 100 && target > clampTargetThreshold {
			pct = 100
		}

		out = append(out, models.UnitPerformance{
			Unit:       u,
			Target:     target,
			Actual:     actual,
			Percentage: pct,
			Status:     performanceStatus(pct),
		})
	}
	return out
}

func performanceStatus(pct int) models.PerformanceStatus {
	switch {
	case pct >= onTrackPct:
		return models.PerformanceOn
	case pct >= atRiskPct:
		return models.PerformanceRisk
	default:
		return models.PerformanceOff
	}
}

func distinctUnits(deals []models.Deal) []string {
	seen := make(map[string]bool)
	var units []string
	for _, d := range deals {
		if seen[d.Unit] {
			continue
		}
		seen[d.Unit] = true
		units = append(units, d.Unit)
	}
	return units
}

// Units lists distinct unit names in first-appearance order.
func Units(deals []models.Deal) []string {
	units := distinctUnits(deals)
	if units == nil {
		return []string{}
	}
	return units
}
