package stats

import "github.com/vladislavdragonenkov/restadmin/internal/domain"

// NotificationStats — сводка по рассылкам и их вовлечённости.
type NotificationStats struct {
	TotalCount int
	ByStatus   map[domain.NotificationStatus]int
	// DeliveryRate = delivered / recipients по отправленным рассылкам.
	DeliveryRate float64
	// OpenRate = opened / delivered по отправленным рассылкам.
	OpenRate float64
	// ClickRate = clicked / opened по отправленным рассылкам.
	ClickRate float64
}

// ComputeNotificationStats считает сводку по снимку рассылок.
// Все коэффициенты определены как 0 при нулевом знаменателе.
func ComputeNotificationStats(notifications []domain.Notification) NotificationStats {
	result := NotificationStats{
		TotalCount: len(notifications),
		ByStatus:   make(map[domain.NotificationStatus]int, len(domain.NotificationStatuses)),
	}
	for _, status := range domain.NotificationStatuses {
		result.ByStatus[status] = 0
	}

	var recipients, delivered, opened, clicked int64

	for _, n := range notifications {
		result.ByStatus[n.Status]++
		if n.Status != domain.NotificationStatusSent {
			continue
		}
		recipients += n.RecipientCount
		delivered += n.DeliveredCount
		opened += n.OpenedCount
		clicked += n.ClickedCount
	}

	if recipients > 0 {
		result.DeliveryRate = float64(delivered) / float64(recipients)
	}
	if delivered > 0 {
		result.OpenRate = float64(opened) / float64(delivered)
	}
	if opened > 0 {
		result.ClickRate = float64(clicked) / float64(opened)
	}

	return result
}
