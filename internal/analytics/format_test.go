package analytics

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRupiah(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "Rp 0"},
		{math.NaN(), "Rp 0"},
		{math.Inf(1), "Rp 0"},
		{999, "Rp 999"},
		{1000, "Rp 1.000"},
		{1500000, "Rp 1.500.000"},
		{1500.5, "Rp 1.500,5"},
		{1234.5678, "Rp 1.234,568"},
		{-2500, "Rp -2.500"},
		{0.0001, "Rp 0"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Rupiah(tt.in), "%v", tt.in)
	}
}

func TestFormatDate(t *testing.T) {
	wib := time.FixedZone("WIB", 7*3600)

	assert.Equal(t, "15/01/2024", FormatDate("2024-01-15", wib))
	assert.Equal(t, "05/03/2024", FormatDate("5/3/2024", wib))
	assert.Equal(t, "16/01/2024", FormatDate("2024-01-15T20:00:00Z", wib))
	assert.Equal(t, DateUnavailable, FormatDate("", wib))
	assert.Equal(t, DateUnavailable, FormatDate("someday", wib))
	assert.Equal(t, DateMalformed, FormatDate(DateMalformed, wib))
}

func TestFormatDaysUntilDue(t *testing.T) {
	assert.Equal(t, "Hari ini", FormatDaysUntilDue(0))
	assert.Equal(t, "3 hari lagi", FormatDaysUntilDue(3))
	assert.Equal(t, "2 hari terlambat", FormatDaysUntilDue(-2))
	assert.Equal(t, "3h lagi", FormatDaysUntilDueShort(3))
	assert.Equal(t, "2h terlambat", FormatDaysUntilDueShort(-2))
}

func TestDueUrgencyAndGrade(t *testing.T) {
	assert.Equal(t, UrgencyToday, DueUrgency(0))
	assert.Equal(t, UrgencyOverdue, DueUrgency(-1))
	assert.Equal(t, UrgencyHigh, DueUrgency(3))
	assert.Equal(t, UrgencyMedium, DueUrgency(7))
	assert.Equal(t, UrgencyNormal, DueUrgency(8))

	assert.Equal(t, "good", CollectionGrade(90))
	assert.Equal(t, "fair", CollectionGrade(75))
	assert.Equal(t, "poor", CollectionGrade(74))
}
