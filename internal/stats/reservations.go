package stats

import (
	"time"

	"github.com/vladislavdragonenkov/restadmin/internal/domain"
)

// ReservationStats — сводка по броням для дашборда.
type ReservationStats struct {
	TotalCount int
	TodayCount int
	// UpcomingCount — брони с датой не раньше now (включительно).
	UpcomingCount int
	// ByStatus разбивает все брони по шести статусам.
	ByStatus map[domain.ReservationStatus]int
}

// ComputeReservationStats считает сводку по снимку броней относительно now.
func ComputeReservationStats(reservations []domain.Reservation, now time.Time) ReservationStats {
	result := ReservationStats{
		TotalCount: len(reservations),
		ByStatus:   make(map[domain.ReservationStatus]int, len(domain.ReservationStatuses)),
	}
	for _, status := range domain.ReservationStatuses {
		result.ByStatus[status] = 0
	}

	for _, res := range reservations {
		result.ByStatus[res.Status]++

		if sameDay(res.Date, now) {
			result.TodayCount++
		}
		if !res.Date.Before(now) {
			result.UpcomingCount++
		}
	}

	return result
}
