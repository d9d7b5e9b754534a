package stats_test

import (
	"testing"
	"time"

	"github.com/vladislavdragonenkov/restadmin/internal/domain"
	"github.com/vladislavdragonenkov/restadmin/internal/stats"
)

func reservationAt(status domain.ReservationStatus, date time.Time) domain.Reservation {
	return domain.Reservation{
		ID:           "res-" + string(status) + date.Format("20060102"),
		CustomerName: "Bob",
		Date:         date,
		TimeSlot:     "19:00",
		PartySize:    2,
		Status:       status,
	}
}

func TestComputeReservationStats_Empty(t *testing.T) {
	got := stats.ComputeReservationStats(nil, refNow)

	if got.TotalCount != 0 || got.TodayCount != 0 || got.UpcomingCount != 0 {
		t.Fatalf("expected zero stats, got %+v", got)
	}
	if len(got.ByStatus) != len(domain.ReservationStatuses) {
		t.Fatalf("expected %d status buckets, got %d", len(domain.ReservationStatuses), len(got.ByStatus))
	}
}

func TestComputeReservationStats(t *testing.T) {
	today := refNow.Add(2 * time.Hour)
	reservations := []domain.Reservation{
		reservationAt(domain.ReservationStatusPending, today),
		reservationAt(domain.ReservationStatusConfirmed, refNow.AddDate(0, 0, 2)),
		reservationAt(domain.ReservationStatusSeated, refNow.AddDate(0, 0, -1)),
		reservationAt(domain.ReservationStatusCompleted, refNow.AddDate(0, 0, -7)),
		reservationAt(domain.ReservationStatusCancelled, refNow.AddDate(0, 0, 1)),
		reservationAt(domain.ReservationStatusNoShow, refNow.AddDate(0, 0, -2)),
	}

	got := stats.ComputeReservationStats(reservations, refNow)

	if got.TotalCount != 6 {
		t.Fatalf("expected total 6, got %d", got.TotalCount)
	}
	if got.TodayCount != 1 {
		t.Fatalf("expected 1 reservation today, got %d", got.TodayCount)
	}
	// Сегодняшняя (позже now), послезавтра и отменённая завтра.
	if got.UpcomingCount != 3 {
		t.Fatalf("expected 3 upcoming, got %d", got.UpcomingCount)
	}

	sum := 0
	for _, count := range got.ByStatus {
		sum += count
	}
	if sum != len(reservations) {
		t.Fatalf("status buckets sum to %d, expected %d", sum, len(reservations))
	}
	for _, status := range domain.ReservationStatuses {
		if got.ByStatus[status] != 1 {
			t.Fatalf("expected 1 in bucket %s, got %d", status, got.ByStatus[status])
		}
	}
}

// Дата, равная now, считается upcoming (включительная граница).
func TestComputeReservationStats_UpcomingInclusive(t *testing.T) {
	reservations := []domain.Reservation{
		reservationAt(domain.ReservationStatusConfirmed, refNow),
	}

	got := stats.ComputeReservationStats(reservations, refNow)

	if got.UpcomingCount != 1 {
		t.Fatalf("reservation at now must count as upcoming, got %d", got.UpcomingCount)
	}
}
