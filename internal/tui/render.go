package tui

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"

	"sales-monitor/internal/analytics"
	"sales-monitor/internal/models"
)

func renderKPIs(k models.KPIData) string {
	cards := []string{
		card("Target", analytics.Rupiah(k.ScaledTarget)),
		card("Tertagih", fmt.Sprintf("%s (%d%%)", analytics.Rupiah(k.ActualCollected), k.ProgressPct)),
		card("Outstanding", analytics.Rupiah(k.Outstanding)),
		card("Collection rate", fmt.Sprintf("%d%%", k.CollectionRate)),
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cards...)
}

func card(title, value string) string {
	return panel.Render(cardTitle.Render(title) + "\n" + cardValue.Render(value))
}

func unitRows(units []models.UnitPerformance) []table.Row {
	rows := make([]table.Row, 0, len(units))
	for _, u := range units {
		rows = append(rows, table.Row{
			u.Unit,
			analytics.Rupiah(u.Target),
			analytics.Rupiah(u.Actual),
			strconv.Itoa(u.Percentage),
			statusLabel(u.Status),
		})
	}
	return rows
}

func statusLabel(s models.PerformanceStatus) string {
	switch s {
	case models.PerformanceOn:
		return statusOn.Render("on")
	case models.PerformanceRisk:
		return statusRisk.Render("risk")
	default:
		return statusOff.Render("off")
	}
}

// renderTrend draws one bar per bucket scaled to the largest value.
func renderTrend(points []models.TrendDataPoint, width int) string {
	var peak float64
	labelWidth := 0
	for _, p := range points {
		peak = math.Max(peak, p.Value)
		labelWidth = max(labelWidth, len(p.Label))
	}

	lines := []string{accent.Render("Tren tertagih")}
	for _, p := range points {
		n := 0
		if peak > 0 {
			n = int(math.Round(p.Value / peak * float64(width)))
		}
		lines = append(lines, fmt.Sprintf("%-*s %s %s",
			labelWidth, p.Label, barStyle.Render(strings.Repeat("█", n)), subtle.Render(analytics.Rupiah(p.Value))))
	}
	return strings.Join(lines, "\n")
}

func renderAging(aging map[string]models.AgingBucketSummary, collectionRate int) string {
	lines := []string{accent.Render("Aging piutang")}
	for _, key := range analytics.AgingBucketKeys {
		b := aging[key]
		lines = append(lines, fmt.Sprintf("%-6s hari  %3d deal  %s", key, b.Count, analytics.Rupiah(b.Amount)))
	}
	lines = append(lines, subtle.Render(fmt.Sprintf("Collection %d%% (%s)", collectionRate, analytics.CollectionGrade(collectionRate))))
	return strings.Join(lines, "\n")
}

func renderNotifications(items []models.NotificationItem, limit int) string {
	lines := []string{accent.Render("Jatuh tempo 7 hari")}
	if len(items) == 0 {
		lines = append(lines, subtle.Render("Tidak ada"))
	}
	for i, item := range items {
		if i == limit {
			lines = append(lines, subtle.Render(fmt.Sprintf("+%d lainnya", len(items)-limit)))
			break
		}
		style := subtle
		switch analytics.DueUrgency(item.DaysUntilDue) {
		case analytics.UrgencyToday:
			style = statusOff
		case analytics.UrgencyHigh:
			style = statusRisk
		}
		lines = append(lines, fmt.Sprintf("%s %s · %s",
			style.Render(fmt.Sprintf("%-12s", item.DaysUntilDueFormatted)),
			item.Deal.Customer,
			analytics.Rupiah(item.OutstandingAmount)))
	}
	return strings.Join(lines, "\n")
}
