package analytics

import (
	"time"

	"sales-monitor/internal/models"
)

// NotificationWindowDays is how far ahead a due date triggers a notification.
const NotificationWindowDays = 7

// SelectNotifications returns outstanding deals due between today and
// NotificationWindowDays from now, in input order.
func SelectNotifications(deals []models.Deal, now time.Time) []models.NotificationItem {
	items := make([]models.NotificationItem, 0)
	for _, d := range deals {
		amt := Outstanding(d)
		if amt <= 0 {
			continue
		}
		days := DaysBetween(now, dealDate(d.DueDate, now.Location()))
		if days < 0 || days > NotificationWindowDays {
			continue
		}
		items = append(items, models.NotificationItem{
			Deal:                  d,
			DaysUntilDue:          days,
			DaysUntilDueFormatted: FormatDaysUntilDueShort(days),
			OutstandingAmount:     amt,
		})
	}
	return items
}
