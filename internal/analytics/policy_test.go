package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sales-monitor/internal/models"
)

func TestCollectedAndOutstanding(t *testing.T) {
	tests := []struct {
		name        string
		deal        models.Deal
		collected   float64
		outstanding float64
	}{
		{"paid ignores dp", models.Deal{Status: models.StatusPaid, Total: 1000, DP: 300}, 1000, 0},
		{"partial", models.Deal{Status: models.StatusPartial, Total: 1000, DP: 300}, 300, 700},
		{"open with dp", models.Deal{Status: models.StatusOpen, Total: 1000, DP: 100}, 100, 900},
		{"open without dp", models.Deal{Status: models.StatusOpen, Total: 1000}, 0, 1000},
		{"unknown status", models.Deal{Status: "cancelled", Total: 1000, DP: 50}, 50, 950},
		{"dp above total", models.Deal{Status: models.StatusPartial, Total: 1000, DP: 1200}, 1200, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.collected, Collected(tt.deal))
			assert.Equal(t, tt.outstanding, Outstanding(tt.deal))
		})
	}
}

// A partial deal must count the same 300 collected and 700 outstanding in
// the KPIs, the unit ranking, the trend, the notifications and the export.
func TestCollectedIsConsistentAcrossViews(t *testing.T) {
	d := models.Deal{
		ID:       1,
		Unit:     "A",
		Product:  "Motor",
		Customer: "Budi",
		Total:    1000,
		DP:       300,
		DateDeal: "2024-02-05",
		DueDate:  "2024-02-13",
		Status:   models.StatusPartial,
	}
	deals := []models.Deal{d}
	state := monthState()

	kpis := CalculateKPIs(deals, models.TargetMap{"A": 1000}, state, fixedNow)
	assert.Equal(t, 300.0, kpis.ActualCollected)
	assert.Equal(t, 700.0, kpis.Outstanding)

	perf := CalculateUnitPerformance(deals, models.TargetMap{"A": 1000}, state.Period, fixedNow)
	require.Len(t, perf, 1)
	assert.Equal(t, 300.0, perf[0].Actual)

	trend := BuildTrend(deals, state, fixedNow)
	require.Len(t, trend, 12)
	assert.Equal(t, 300.0, trend[11].Value)

	notes := SelectNotifications(deals, fixedNow)
	require.Len(t, notes, 1)
	assert.Equal(t, 700.0, notes[0].OutstandingAmount)

	rows := ExportRows(deals)
	require.Len(t, rows, 2)
	assert.Equal(t, "700", rows[1][6])
}

func TestParseStatus(t *testing.T) {
	for _, s := range []string{"open", "partial", "paid"} {
		st, ok := ParseStatus(s)
		assert.True(t, ok)
		assert.Equal(t, models.DealStatus(s), st)
	}
	_, ok := ParseStatus("PAID")
	assert.False(t, ok)
	_, ok = ParseStatus("")
	assert.False(t, ok)
}

func TestNextToggleStatus(t *testing.T) {
	assert.Equal(t, models.StatusPaid, NextToggleStatus(models.Deal{Status: models.StatusOpen}))
	assert.Equal(t, models.StatusPaid, NextToggleStatus(models.Deal{Status: models.StatusPartial, DP: 10}))
	assert.Equal(t, models.StatusPartial, NextToggleStatus(models.Deal{Status: models.StatusPaid, DP: 10}))
	assert.Equal(t, models.StatusOpen, NextToggleStatus(models.Deal{Status: models.StatusPaid}))
}
