package analytics

import (
	"time"

	"sales-monitor/internal/models"
)

// fixedNow is a Saturday mid-morning; every date-dependent test runs against it.
var fixedNow = time.Date(2024, time.February, 10, 10, 0, 0, 0, time.UTC)

func deal(id int, unit string, status models.DealStatus, total, dp float64, dateDeal, dueDate string) models.Deal {
	return models.Deal{
		ID:       id,
		Unit:     unit,
		Product:  "Produk " + unit,
		Customer: "Customer " + unit,
		Total:    total,
		DP:       dp,
		DateDeal: dateDeal,
		DueDate:  dueDate,
		Status:   status,
	}
}

func monthState() models.FilterState {
	return models.FilterState{Period: models.PeriodMonth, Unit: models.AllUnits}
}
