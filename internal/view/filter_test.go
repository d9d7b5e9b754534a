package view_test

import (
	"reflect"
	"testing"
	"time"

	"github.com/vladislavdragonenkov/restadmin/internal/domain"
	"github.com/vladislavdragonenkov/restadmin/internal/view"
)

var refNow = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func sampleOrders() []domain.Order {
	return []domain.Order{
		{ID: "o1", CustomerName: "Alice Smith", CustomerPhone: "+15550001", Status: domain.OrderStatusPending},
		{ID: "o2", CustomerName: "Bob Jones", CustomerPhone: "+15550002", Status: domain.OrderStatusCompleted},
		{ID: "o3", CustomerName: "alice cooper", CustomerPhone: "+15550003", Status: domain.OrderStatusCompleted},
	}
}

func TestFilterOrders_Status(t *testing.T) {
	got := view.FilterOrders(sampleOrders(), view.OrderFilter{Status: "completed"})
	if len(got) != 2 {
		t.Fatalf("expected 2 completed orders, got %d", len(got))
	}

	got = view.FilterOrders(sampleOrders(), view.OrderFilter{Status: view.StatusAll})
	if len(got) != 3 {
		t.Fatalf("sentinel all must match everything, got %d", len(got))
	}
}

func TestFilterOrders_SearchCaseInsensitive(t *testing.T) {
	got := view.FilterOrders(sampleOrders(), view.OrderFilter{Search: "ALICE"})
	if len(got) != 2 {
		t.Fatalf("expected 2 matches for ALICE, got %d", len(got))
	}

	got = view.FilterOrders(sampleOrders(), view.OrderFilter{Search: "5550002"})
	if len(got) != 1 || got[0].ID != "o2" {
		t.Fatalf("expected phone match for o2, got %+v", got)
	}

	got = view.FilterOrders(sampleOrders(), view.OrderFilter{Search: ""})
	if len(got) != 3 {
		t.Fatalf("empty search must match everything, got %d", len(got))
	}
}

// Фильтры комбинируются по AND.
func TestFilterOrders_Composition(t *testing.T) {
	got := view.FilterOrders(sampleOrders(), view.OrderFilter{Status: "completed", Search: "alice"})
	if len(got) != 1 || got[0].ID != "o3" {
		t.Fatalf("expected only o3, got %+v", got)
	}
}

// Повторное применение фильтра не меняет результат.
func TestFilterOrders_Idempotent(t *testing.T) {
	f := view.OrderFilter{Status: "completed", Search: "alice"}
	once := view.FilterOrders(sampleOrders(), f)
	twice := view.FilterOrders(once, f)
	if !reflect.DeepEqual(once, twice) {
		t.Fatalf("filter is not idempotent: %+v vs %+v", once, twice)
	}
}

func TestFilterOrders_DoesNotMutateInput(t *testing.T) {
	orders := sampleOrders()
	_ = view.FilterOrders(orders, view.OrderFilter{Status: "completed"})
	if !reflect.DeepEqual(orders, sampleOrders()) {
		t.Fatal("input slice was mutated")
	}
}

func TestFilterReservations_DateBuckets(t *testing.T) {
	reservations := []domain.Reservation{
		{ID: "r1", CustomerName: "A", Date: refNow.Add(3 * time.Hour)},
		{ID: "r2", CustomerName: "B", Date: refNow.AddDate(0, 0, 3)},
		{ID: "r3", CustomerName: "C", Date: refNow.AddDate(0, 0, -2)},
	}

	cases := []struct {
		bucket view.DateBucket
		want   []string
	}{
		{view.DateBucketToday, []string{"r1"}},
		{view.DateBucketUpcoming, []string{"r1", "r2"}},
		{view.DateBucketPast, []string{"r3"}},
		{view.DateBucketAll, []string{"r1", "r2", "r3"}},
	}

	for _, tc := range cases {
		got := view.FilterReservations(reservations, view.ReservationFilter{Bucket: tc.bucket, Now: refNow})
		ids := make([]string, 0, len(got))
		for _, r := range got {
			ids = append(ids, r.ID)
		}
		if !reflect.DeepEqual(ids, tc.want) {
			t.Fatalf("bucket %s: expected %v, got %v", tc.bucket, tc.want, ids)
		}
	}
}

// Сценарий из приёмки: inactive при now=2024-06-01 исключает заказы из
// окна 2024-05-02..2024-06-01 и включает клиентов без заказов вовсе.
func TestFilterCustomers_Inactive(t *testing.T) {
	customers := []domain.Customer{
		{ID: "c1", Name: "InWindow", LastOrderAt: time.Date(2024, 5, 15, 0, 0, 0, 0, time.UTC)},
		{ID: "c2", Name: "OldOrder", LastOrderAt: time.Date(2024, 4, 20, 0, 0, 0, 0, time.UTC)},
		{ID: "c3", Name: "NeverOrdered"},
	}

	got := view.FilterCustomers(customers, view.CustomerFilter{Activity: view.ActivityInactive, Now: refNow})

	ids := make([]string, 0, len(got))
	for _, c := range got {
		ids = append(ids, c.ID)
	}
	if !reflect.DeepEqual(ids, []string{"c2", "c3"}) {
		t.Fatalf("expected [c2 c3], got %v", ids)
	}
}

func TestFilterCustomers_Loyal(t *testing.T) {
	customers := []domain.Customer{
		{ID: "c1", Name: "A", LoyaltyPoints: 10},
		{ID: "c2", Name: "B"},
	}

	got := view.FilterCustomers(customers, view.CustomerFilter{Activity: view.ActivityLoyal, Now: refNow})
	if len(got) != 1 || got[0].ID != "c1" {
		t.Fatalf("expected only c1, got %+v", got)
	}
}

func TestFilterNotifications(t *testing.T) {
	notifications := []domain.Notification{
		{ID: "n1", Title: "Summer deal", Message: "20% off", Status: domain.NotificationStatusSent},
		{ID: "n2", Title: "Winter deal", Message: "hot soup", Status: domain.NotificationStatusDraft},
	}

	got := view.FilterNotifications(notifications, view.NotificationFilter{Status: "sent", Search: "summer"})
	if len(got) != 1 || got[0].ID != "n1" {
		t.Fatalf("expected only n1, got %+v", got)
	}
}
