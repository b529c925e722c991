package analytics

import (
	"math"
	"strconv"
	"strings"
	"time"
)

const day = 24 * time.Hour

var epoch = time.Unix(0, 0)

// ParsedDate is the result of reading a deal date. Valid is false when the
// raw value was empty or matched none of the accepted formats.
type ParsedDate struct {
	Time  time.Time
	Valid bool
}

// OrEpoch returns the parsed time, or the Unix epoch for an invalid date.
func (p ParsedDate) OrEpoch() time.Time {
	if !p.Valid {
		return epoch
	}
	return p.Time
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04",
	"2006-01-02T15:04:05Z0700",
}

// ParseDate reads an ISO-8601 timestamp, a dd/mm/yyyy date or a plain
// yyyy-mm-dd date. Values without an explicit offset are read in loc.
func ParseDate(raw string, loc *time.Location) ParsedDate {
	s := strings.TrimSpace(raw)
	if s == "" {
		return ParsedDate{}
	}
	if loc == nil {
		loc = time.Local
	}

	switch {
	case strings.ContainsAny(s, "TZ"):
		for _, layout := range timestampLayouts {
			if t, err := time.ParseInLocation(layout, s, loc); err == nil {
				return ParsedDate{Time: t, Valid: true}
			}
		}
		return ParsedDate{}
	case strings.Contains(s, "/"):
		return parseDayMonthYear(s, loc)
	default:
		t, err := time.ParseInLocation("2006-01-02", s, loc)
		if err != nil {
			return ParsedDate{}
		}
		return ParsedDate{Time: t, Valid: true}
	}
}

func parseDayMonthYear(s string, loc *time.Location) ParsedDate {
	parts := strings.Split(s, "/")
	if len(parts) != 3 {
		return ParsedDate{}
	}

	d, errD := strconv.Atoi(strings.TrimSpace(parts[0]))
	m, errM := strconv.Atoi(strings.TrimSpace(parts[1]))
	y, errY := strconv.Atoi(strings.TrimSpace(parts[2]))
	if errD != nil || errM != nil || errY != nil {
		return ParsedDate{}
	}
	if d < 1 || d > 31 || m < 1 || m > 12 || y < 1900 || y > 2100 {
		return ParsedDate{}
	}

	// 31/02 rolls over into March, same as the dashboard always did.
	return ParsedDate{Time: time.Date(y, time.Month(m), d, 0, 0, 0, 0, loc), Valid: true}
}

// DaysBetween returns the ceiling of the whole-day distance from a to b.
func DaysBetween(a, b time.Time) int {
	days := math.Ceil(float64(b.Sub(a)) / float64(day))
	if days == 0 {
		return 0
	}
	return int(days)
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func endOfDay(t time.Time) time.Time {
	return startOfDay(t).AddDate(0, 0, 1).Add(-time.Nanosecond)
}

func dealDate(raw string, loc *time.Location) time.Time {
	return ParseDate(raw, loc).OrEpoch()
}
