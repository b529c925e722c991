package analytics

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	DateUnavailable = "Tanggal tidak tersedia"
	DateMalformed   = "Format tanggal salah"
)

// Rupiah formats an amount with id-ID grouping, e.g. "Rp 1.500.000,5".
// NaN, infinities and zero render as "Rp 0".
func Rupiah(n float64) string {
	if math.IsNaN(n) || math.IsInf(n, 0) || n == 0 {
		return "Rp 0"
	}

	d := decimal.NewFromFloat(n).Round(3)
	if d.IsZero() {
		return "Rp 0"
	}

	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Neg()
	}

	intPart, frac, _ := strings.Cut(d.String(), ".")
	out := "Rp " + sign + groupThousands(intPart)
	if frac = strings.TrimRight(frac, "0"); frac != "" {
		out += "," + frac
	}
	return out
}

func groupThousands(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	var b strings.Builder
	lead := len(digits) % 3
	if lead > 0 {
		b.WriteString(digits[:lead])
	}
	for i := lead; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteByte('.')
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}

// FormatDate renders a raw deal date as dd/mm/yyyy.
func FormatDate(raw string, loc *time.Location) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return DateUnavailable
	}
	if s == DateUnavailable || s == DateMalformed {
		return s
	}
	p := ParseDate(s, loc)
	if !p.Valid {
		return DateUnavailable
	}
	if loc != nil {
		p.Time = p.Time.In(loc)
	}
	return p.Time.Format("02/01/2006")
}

func FormatDaysUntilDue(days int) string {
	switch {
	case days == 0:
		return "Hari ini"
	case days > 0:
		return fmt.Sprintf("%d hari lagi", days)
	default:
		return fmt.Sprintf("%d hari terlambat", -days)
	}
}

func FormatDaysUntilDueShort(days int) string {
	switch {
	case days == 0:
		return "Hari ini"
	case days > 0:
		return fmt.Sprintf("%dh lagi", days)
	default:
		return fmt.Sprintf("%dh terlambat", -days)
	}
}

type Urgency string

const (
	UrgencyToday   Urgency = "today"
	UrgencyHigh    Urgency = "high"
	UrgencyMedium  Urgency = "medium"
	UrgencyOverdue Urgency = "overdue"
	UrgencyNormal  Urgency = "normal"
)

// DueUrgency grades how pressing a due date is.
func DueUrgency(days int) Urgency {
	switch {
	case days == 0:
		return UrgencyToday
	case days < 0:
		return UrgencyOverdue
	case days <= 3:
		return UrgencyHigh
	case days <= 7:
		return UrgencyMedium
	default:
		return UrgencyNormal
	}
}

// CollectionGrade buckets a collection rate for the aging panel.
func CollectionGrade(rate int) string {
	switch {
	case rate >= 90:
		return "good"
	case rate >= 75:
		return "fair"
	default:
		return "poor"
	}
}
