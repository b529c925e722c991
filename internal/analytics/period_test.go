package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sales-monitor/internal/models"
)

func TestResolvePeriodMonthBuckets(t *testing.T) {
	rng := ResolvePeriod(models.PeriodMonth, fixedNow)

	require.Len(t, rng.Buckets, 12)
	assert.Equal(t, "Bulanan", rng.Label)
	assert.Equal(t, time.Date(2023, 3, 10, 0, 0, 0, 0, time.UTC), rng.Start)
	assert.Equal(t, "Mar 2023", rng.Buckets[0].Label)
	assert.Equal(t, "Feb 2024", rng.Buckets[11].Label)

	today := startOfDay(fixedNow)
	for i, b := range rng.Buckets {
		assert.Equal(t, 1, b.Start.Day(), "bucket %d starts on the first", i)
		assert.False(t, startOfDay(b.End).After(today.AddDate(0, 1, 0)), "bucket %d ends in range", i)
		if i > 0 {
			assert.True(t, b.Start.After(rng.Buckets[i-1].End), "bucket %d follows its predecessor", i)
		}
	}
	assert.Equal(t, time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC), startOfDay(rng.Buckets[10].End))
}

func TestResolvePeriodMonthBucketsEndNoLaterThanToday(t *testing.T) {
	now := time.Date(2024, time.February, 29, 18, 0, 0, 0, time.UTC)
	rng := ResolvePeriod(models.PeriodMonth, now)

	require.Len(t, rng.Buckets, 12)
	last := rng.Buckets[len(rng.Buckets)-1]
	assert.Equal(t, startOfDay(now), startOfDay(last.End))
}

func TestResolvePeriodDay(t *testing.T) {
	rng := ResolvePeriod(models.PeriodDay, fixedNow)

	require.Len(t, rng.Buckets, 7)
	assert.Equal(t, "Harian", rng.Label)
	assert.Equal(t, time.Date(2024, 2, 4, 0, 0, 0, 0, time.UTC), rng.Start)
	assert.Equal(t, "2024-02-04", rng.Buckets[0].Label)
	assert.Equal(t, "2024-02-10", rng.Buckets[6].Label)
	assert.True(t, rng.Buckets[6].Contains(fixedNow))
}

func TestResolvePeriodWeek(t *testing.T) {
	rng := ResolvePeriod(models.PeriodWeek, fixedNow)

	require.Len(t, rng.Buckets, 8)
	assert.Equal(t, time.Date(2023, 12, 16, 0, 0, 0, 0, time.UTC), rng.Start)
	assert.Equal(t, "2023-12-16", rng.Buckets[0].Label)
	assert.Equal(t, "2024-02-03", rng.Buckets[7].Label)
	assert.Equal(t, time.Date(2024, 2, 9, 0, 0, 0, 0, time.UTC), startOfDay(rng.Buckets[7].End))
	assert.False(t, rng.Buckets[7].Contains(fixedNow))
}

func TestResolvePeriodQuarterAndHalf(t *testing.T) {
	three := ResolvePeriod(models.PeriodThreeMonths, fixedNow)
	require.Len(t, three.Buckets, 3)
	assert.Equal(t, time.Date(2023, 12, 10, 0, 0, 0, 0, time.UTC), three.Start)
	assert.Equal(t, "Des 2023", three.Buckets[0].Label)

	six := ResolvePeriod(models.PeriodSixMonths, fixedNow)
	require.Len(t, six.Buckets, 6)
	assert.Equal(t, "6 Bulan", six.Label)
	assert.Equal(t, "Sep 2023", six.Buckets[0].Label)
}

func TestResolvePeriodYearKeepsMonthBuckets(t *testing.T) {
	year := ResolvePeriod(models.PeriodYear, fixedNow)
	month := ResolvePeriod(models.PeriodMonth, fixedNow)

	assert.Equal(t, time.Date(2023, 2, 10, 0, 0, 0, 0, time.UTC), year.Start)
	assert.Equal(t, month.Buckets, year.Buckets)
	assert.Equal(t, "1 Tahun", year.Label)
}

func TestParsePeriodAndScale(t *testing.T) {
	for _, p := range Periods {
		got, ok := ParsePeriod(string(p))
		assert.True(t, ok)
		assert.Equal(t, p, got)
	}
	_, ok := ParsePeriod("quarter")
	assert.False(t, ok)

	assert.InDelta(t, 1.0/30, TargetScale(models.PeriodDay), 1e-12)
	assert.InDelta(t, 7.0/30, TargetScale(models.PeriodWeek), 1e-12)
	assert.Equal(t, 1.0, TargetScale(models.PeriodMonth))
	assert.Equal(t, 3.0, TargetScale(models.PeriodThreeMonths))
	assert.Equal(t, 6.0, TargetScale(models.PeriodSixMonths))
	assert.Equal(t, 12.0, TargetScale(models.PeriodYear))
}
