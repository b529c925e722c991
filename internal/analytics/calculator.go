package analytics

import (
	"math"
	"time"

	"sales-monitor/internal/models"
)

// Calculator binds the aggregations to a clock. It holds no other state and
// is safe for concurrent use.
type Calculator struct {
	now func() time.Time
}

func NewCalculator() *Calculator {
	return &Calculator{now: time.Now}
}

// NewCalculatorWithClock uses clock as "now"; the location of the returned
// time decides how plain dates are read.
func NewCalculatorWithClock(clock func() time.Time) *Calculator {
	return &Calculator{now: clock}
}

func (c *Calculator) Now() time.Time {
	return c.now()
}

// Summary computes every dashboard view for one filter state. Deals are
// narrowed to the selected unit first, which is what the upstream API did
// before handing them to the dashboard.
func (c *Calculator) Summary(deals []models.Deal, targets models.TargetMap, state models.FilterState) models.DashboardSummary {
	now := c.now()
	unitDeals := FilterByUnit(deals, state.Unit)

	return models.DashboardSummary{
		Filter:        state,
		PeriodLabel:   PeriodLabel(state.Period),
		KPIs:          CalculateKPIs(unitDeals, targets, state, now),
		Units:         CalculateUnitPerformance(deals, targets, state.Period, now),
		Trend:         BuildTrend(deals, state, now),
		Notifications: SelectNotifications(unitDeals, now),
		Aging:         AgingAnalysis(unitDeals, now),
		Deals:         FilterDeals(unitDeals, state, now),
		GeneratedAt:   now.Format(time.RFC3339),
	}
}

func (c *Calculator) KPIs(deals []models.Deal, targets models.TargetMap, state models.FilterState) models.KPIData {
	return CalculateKPIs(FilterByUnit(deals, state.Unit), targets, state, c.now())
}

func (c *Calculator) UnitPerformance(deals []models.Deal, targets models.TargetMap, period models.Period) []models.UnitPerformance {
	return CalculateUnitPerformance(deals, targets, period, c.now())
}

func (c *Calculator) Trend(deals []models.Deal, state models.FilterState) []models.TrendDataPoint {
	return BuildTrend(deals, state, c.now())
}

func (c *Calculator) Notifications(deals []models.Deal) []models.NotificationItem {
	return SelectNotifications(deals, c.now())
}

func (c *Calculator) Aging(deals []models.Deal) map[string]models.AgingBucketSummary {
	return AgingAnalysis(deals, c.now())
}

func (c *Calculator) Deals(deals []models.Deal, state models.FilterState) []models.Deal {
	return FilterDeals(FilterByUnit(deals, state.Unit), state, c.now())
}

// maxPercent caps percentages so absurd ratios still fit an int.
const maxPercent = math.MaxInt32

// percentOf returns part/whole as a rounded percentage, 0 for a
// non-positive whole or a non-finite result.
func percentOf(part, whole float64) int {
	if whole <= 0 {
		return 0
	}
	result := part / whole * 100
	if math.IsNaN(result) || math.IsInf(result, 0) {
		return 0
	}
	return int(math.Max(-maxPercent, math.Min(roundHalfUp(result), maxPercent)))
}

func roundHalfUp(v float64) float64 {
	return math.Floor(v + 0.5)
}
