package analytics

import (
	"time"

	"sales-monitor/internal/models"
)

// Aging bucket keys, in bucket order.
var AgingBucketKeys = [3]string{"0-30", "31-60", ">60"}

// CalculateKPIs derives the headline KPI set. Collected and outstanding
// totals use the period-filtered deals; aging uses every deal passed in.
func CalculateKPIs(deals []models.Deal, targets models.TargetMap, state models.FilterState, now time.Time) models.KPIData {
	filtered := FilterDeals(deals, state, now)

	var totalTarget float64
	if isAllUnits(state.Unit) {
		for _, t := range targets {
			totalTarget += t
		}
	} else {
		totalTarget = targets[state.Unit]
	}
	scaledTarget := totalTarget * TargetScale(state.Period)

	var collected, outstanding, totals float64
	for _, d := range filtered {
		collected += Collected(d)
		outstanding += Outstanding(d)
		totals += d.Total
	}

	return models.KPIData{
		ScaledTarget:    scaledTarget,
		ActualCollected: collected,
		ProgressPct:     percentOf(collected, scaledTarget),
		Outstanding:     outstanding,
		AgingBuckets:    agingBuckets(deals, now),
		CollectionRate:  percentOf(collected, totals),
	}
}

func agingBuckets(deals []models.Deal, now time.Time) [3]float64 {
	var buckets [3]float64
	for _, d := range deals {
		amt := Outstanding(d)
		if amt <= 0 {
			continue
		}
		buckets[agingIndex(d, now)] += amt
	}
	return buckets
}

// agingIndex places a deal by days overdue. Deals not yet due always land
// in the first bucket.
func agingIndex(d models.Deal, now time.Time) int {
	due := dealDate(d.DueDate, now.Location())
	if !due.Before(now) {
		return 0
	}
	days := DaysBetween(due, now)
	switch {
	case days <= 30:
		return 0
	case days <= 60:
		return 1
	default:
		return 2
	}
}

// AgingAnalysis counts and sums outstanding deals per aging bucket.
func AgingAnalysis(deals []models.Deal, now time.Time) map[string]models.AgingBucketSummary {
	out := make(map[string]models.AgingBucketSummary, len(AgingBucketKeys))
	for _, key := range AgingBucketKeys {
		out[key] = models.AgingBucketSummary{}
	}
	for _, d := range deals {
		amt := Outstanding(d)
		if amt <= 0 {
			continue
		}
		key := AgingBucketKeys[agingIndex(d, now)]
		s := out[key]
		s.Count++
		s.Amount += amt
		out[key] = s
	}
	return out
}
