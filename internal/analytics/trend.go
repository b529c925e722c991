package analytics

import (
	"time"

	"sales-monitor/internal/models"
)

// BuildTrend sums collected amounts per period bucket, oldest first.
func BuildTrend(deals []models.Deal, state models.FilterState, now time.Time) []models.TrendDataPoint {
	rng := ResolvePeriod(state.Period, now)
	loc := now.Location()

	points := make([]models.TrendDataPoint, 0, len(rng.Buckets))
	for _, b := range rng.Buckets {
		var amt float64
		for _, d := range deals {
			if !isAllUnits(state.Unit) && d.Unit != state.Unit {
				continue
			}
			if b.Contains(dealDate(d.DateDeal, loc)) {
				amt += Collected(d)
			}
		}
		points = append(points, models.TrendDataPoint{Label: b.Label, Value: roundHalfUp(amt)})
	}
	return points
}
