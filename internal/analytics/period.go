package analytics

import (
	"fmt"
	"time"

	"sales-monitor/internal/models"
)

// Bucket is one sub-interval of a period. Start and End are inclusive.
type Bucket struct {
	Label string    `json:"label"`
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Contains reports whether t falls inside the bucket.
func (b Bucket) Contains(t time.Time) bool {
	return !t.Before(b.Start) && !t.After(b.End)
}

type PeriodRange struct {
	Start   time.Time `json:"start"`
	End     time.Time `json:"end"`
	Label   string    `json:"label"`
	Buckets []Bucket  `json:"buckets"`
}

var periodLabels = map[models.Period]string{
	models.PeriodDay:         "Harian",
	models.PeriodWeek:        "Mingguan",
	models.PeriodMonth:       "Bulanan",
	models.PeriodThreeMonths: "3 Bulan",
	models.PeriodSixMonths:   "6 Bulan",
	models.PeriodYear:        "1 Tahun",
}

// Periods lists the selectors in the order the dashboard offers them.
var Periods = []models.Period{
	models.PeriodDay,
	models.PeriodWeek,
	models.PeriodMonth,
	models.PeriodThreeMonths,
	models.PeriodSixMonths,
	models.PeriodYear,
}

var shortMonths = [...]string{"Jan", "Feb", "Mar", "Apr", "Mei", "Jun", "Jul", "Agu", "Sep", "Okt", "Nov", "Des"}

// ParsePeriod validates a selector coming from user input.
func ParsePeriod(s string) (models.Period, bool) {
	p := models.Period(s)
	_, ok := periodLabels[p]
	return p, ok
}

// PeriodLabel returns the display name of a period.
func PeriodLabel(p models.Period) string {
	if label, ok := periodLabels[p]; ok {
		return label
	}
	return periodLabels[models.PeriodYear]
}

// TargetScale converts a monthly target into the given period.
func TargetScale(p models.Period) float64 {
	switch p {
	case models.PeriodDay:
		return 1.0 / 30
	case models.PeriodWeek:
		return 7.0 / 30
	case models.PeriodMonth:
		return 1
	case models.PeriodThreeMonths:
		return 3
	case models.PeriodSixMonths:
		return 6
	case models.PeriodYear:
		return 12
	}
	return 1
}

// ResolvePeriod computes the lookback range and its buckets for the
// calendar day of now. Unknown selectors resolve like 1y.
func ResolvePeriod(p models.Period, now time.Time) PeriodRange {
	today := startOfDay(now)
	rng := PeriodRange{End: now, Label: PeriodLabel(p)}

	switch p {
	case models.PeriodDay:
		rng.Start = today.AddDate(0, 0, -6)
		for i := 6; i >= 0; i-- {
			d := today.AddDate(0, 0, -i)
			rng.Buckets = append(rng.Buckets, Bucket{
				Label: d.Format("2006-01-02"),
				Start: d,
				End:   endOfDay(d),
			})
		}
	case models.PeriodWeek:
		rng.Start = today.AddDate(0, 0, -7*8)
		for i := 8; i >= 1; i-- {
			s := today.AddDate(0, 0, -7*i)
			rng.Buckets = append(rng.Buckets, Bucket{
				Label: s.Format("2006-01-02"),
				Start: s,
				End:   endOfDay(s.AddDate(0, 0, 6)),
			})
		}
	case models.PeriodMonth:
		rng.Start = today.AddDate(0, -11, 0)
		rng.Buckets = monthBuckets(today, 12)
	case models.PeriodThreeMonths:
		rng.Start = today.AddDate(0, -2, 0)
		rng.Buckets = monthBuckets(today, 3)
	case models.PeriodSixMonths:
		rng.Start = today.AddDate(0, -5, 0)
		rng.Buckets = monthBuckets(today, 6)
	default:
		// The year view keeps the trailing twelve calendar months as buckets
		// even though its range starts exactly one year back.
		rng.Start = today.AddDate(-1, 0, 0)
		rng.Buckets = monthBuckets(today, 12)
	}

	return rng
}

func monthBuckets(today time.Time, n int) []Bucket {
	buckets := make([]Bucket, 0, n)
	for i := n - 1; i >= 0; i-- {
		first := time.Date(today.Year(), today.Month()-time.Month(i), 1, 0, 0, 0, 0, today.Location())
		last := first.AddDate(0, 1, -1)
		buckets = append(buckets, Bucket{
			Label: MonthLabel(first),
			Start: first,
			End:   endOfDay(last),
		})
	}
	return buckets
}

// MonthLabel renders a month the way id-ID short month + year does, e.g. "Okt 2026".
func MonthLabel(t time.Time) string {
	return fmt.Sprintf("%s %d", shortMonths[t.Month()-1], t.Year())
}
