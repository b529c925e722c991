package transformer

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sales-monitor/internal/models"
)

func strPtr(s string) *string { return &s }

func newTestTransformer() *Transformer {
	tr := New(time.UTC)
	tr.now = func() time.Time { return time.Date(2024, 2, 10, 10, 0, 0, 0, time.UTC) }
	return tr
}

func backendDeal(id int, unit string) models.BackendDeal {
	return models.BackendDeal{
		ID:           id,
		Unit:         &models.BackendUnit{ID: 1, Name: unit},
		ProductName:  "Motor",
		CustomerName: strPtr("Budi"),
		TotalAmount:  decimal.NewFromInt(1000),
		DPAmount:     decimal.NewFromInt(300),
		DateDeal:     "2024-01-15T00:00:00.000000Z",
		DueDate:      "2024-02-15",
		Status:       "partial",
	}
}

func TestNormalizeDealsValid(t *testing.T) {
	tr := newTestTransformer()
	rec := backendDeal(1, " Unit A ")
	rec.DueDateFormatted = "15 Feb 2024"

	unique, dups := tr.NormalizeDeals([]models.BackendDeal{rec})

	require.Len(t, unique, 1)
	assert.Empty(t, dups)
	d := unique[0].Deal
	assert.Equal(t, models.Deal{
		ID:                1,
		Unit:              "Unit A",
		Product:           "Motor",
		Customer:          "Budi",
		Total:             1000,
		DP:                300,
		DateDeal:          "2024-01-15T00:00:00.000000Z",
		DateDealFormatted: "15/01/2024",
		DueDate:           "2024-02-15",
		DueDateFormatted:  "15 Feb 2024",
		Status:            models.StatusPartial,
	}, d)
	assert.True(t, unique[0].Quality.IsValid)
	assert.Equal(t, 0, unique[0].Quality.ErrorCount)
}

func TestNormalizeDealsFlagsProblems(t *testing.T) {
	tr := newTestTransformer()
	rec := models.BackendDeal{
		ID:          2,
		TotalAmount: decimal.NewFromInt(-5),
		DPAmount:    decimal.NewFromInt(100),
		DateDeal:    "yesterday",
		Status:      "CANCELLED",
	}

	unique, _ := tr.NormalizeDeals([]models.BackendDeal{rec})

	require.Len(t, unique, 1)
	d := unique[0].Deal
	q := unique[0].Quality
	assert.Equal(t, UnknownUnit, d.Unit)
	assert.Equal(t, 0.0, d.Total)
	assert.Equal(t, 100.0, d.DP)
	assert.Equal(t, models.StatusOpen, d.Status)
	assert.Equal(t, "yesterday", d.DateDeal)
	assert.False(t, q.IsValid)
	for _, field := range []string{"unit", "product_name", "customer_name", "total_amount", "dp_amount", "date_deal", "due_date", "status"} {
		assert.Contains(t, q.FieldErrors, field)
	}
	assert.Equal(t, 8, q.ErrorCount)
}

func TestNormalizeDealsDropsDuplicates(t *testing.T) {
	tr := newTestTransformer()
	first := backendDeal(1, "A")
	second := backendDeal(1, "B")

	unique, dups := tr.NormalizeDeals([]models.BackendDeal{first, backendDeal(2, "A"), second})

	require.Len(t, unique, 2)
	require.Len(t, dups, 1)
	assert.Equal(t, "A", unique[0].Deal.Unit)
	assert.Equal(t, "B", dups[0].Deal.Unit)
	assert.False(t, dups[0].Quality.IsValid)
	assert.Contains(t, dups[0].Quality.FieldErrors, "duplicate")
	assert.Len(t, Deals(unique), 2)
}

func TestNormalizeTargets(t *testing.T) {
	tr := newTestTransformer()
	units := []models.BackendUnit{{ID: 2, Name: "Unit B", IsActive: true}}
	records := []models.BackendTarget{
		{UnitID: 1, Unit: &models.BackendUnit{Name: "Unit A"}, TargetAmount: decimal.NewFromInt(100), PeriodType: "monthly", PeriodStart: "2024-01-01"},
		{UnitID: 1, Unit: &models.BackendUnit{Name: "Unit A"}, TargetAmount: decimal.NewFromInt(200), PeriodType: "monthly", PeriodStart: "2024-02-01"},
		{UnitID: 1, Unit: &models.BackendUnit{Name: "Unit A"}, TargetAmount: decimal.NewFromInt(150), PeriodType: "monthly", PeriodStart: "2023-12-01"},
		{UnitID: 1, Unit: &models.BackendUnit{Name: "Unit A"}, TargetAmount: decimal.NewFromInt(9999), PeriodType: "yearly", PeriodStart: "2024-01-01"},
		{UnitID: 2, TargetAmount: decimal.RequireFromString("50.5"), PeriodType: "Monthly", PeriodStart: "2024-02-01"},
		{UnitID: 3, TargetAmount: decimal.NewFromInt(10), PeriodType: "monthly"},
	}

	targets, usable := tr.NormalizeTargets(records, units)

	assert.Equal(t, models.TargetMap{"Unit A": 200, "Unit B": 50.5}, targets)
	assert.Equal(t, 2, usable)
}

func TestUnitNames(t *testing.T) {
	units := []models.BackendUnit{
		{ID: 1, Name: "B", IsActive: true},
		{ID: 2, Name: "A", IsActive: false},
		{ID: 3, Name: " ", IsActive: true},
		{ID: 4, Name: "C", IsActive: true},
	}
	assert.Equal(t, []string{"B", "C"}, UnitNames(units))
}

func TestGenerateQualityReport(t *testing.T) {
	tr := newTestTransformer()
	bad1 := backendDeal(3, "A")
	bad1.CustomerName = nil
	bad2 := backendDeal(4, "A")
	bad2.CustomerName = strPtr("  ")

	unique, dups := tr.NormalizeDeals([]models.BackendDeal{backendDeal(1, "A"), bad1, bad2, backendDeal(1, "A")})
	report := tr.GenerateQualityReport(unique, dups, 5, 3)

	assert.Equal(t, 4, report.Summary.TotalDeals)
	assert.Equal(t, 1, report.Summary.ValidDeals)
	assert.Equal(t, 1, report.Summary.DuplicateDeals)
	assert.Equal(t, 25.0, report.Summary.DealQualityScore)
	assert.Equal(t, 5, report.Summary.TotalTargets)
	assert.Equal(t, 3, report.Summary.UsableTargets)
	assert.Equal(t, []string{"Missing - Customer name is empty (occurs 2 times)"}, report.Summary.CommonIssues)
	assert.Len(t, report.DealReport, 4)
	assert.Equal(t, "2024-02-10T10:00:00Z", report.Timestamp)
}
