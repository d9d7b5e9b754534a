package stats_test

import (
	"testing"
	"time"

	"github.com/vladislavdragonenkov/restadmin/internal/domain"
	"github.com/vladislavdragonenkov/restadmin/internal/stats"
)

var refNow = time.Date(2024, 6, 1, 15, 0, 0, 0, time.UTC)

func orderAt(status domain.OrderStatus, totalMinor int64, createdAt time.Time) domain.Order {
	return domain.Order{
		ID:           "order-" + string(status) + createdAt.Format("150405.000"),
		CustomerName: "Alice",
		Status:       status,
		TotalMinor:   totalMinor,
		CreatedAt:    createdAt,
		UpdatedAt:    createdAt,
	}
}

func TestComputeOrderStats_Empty(t *testing.T) {
	got := stats.ComputeOrderStats(nil, refNow)

	if got.TotalCount != 0 || got.TodayCount != 0 || got.RevenueTodayMinor != 0 {
		t.Fatalf("expected zero stats, got %+v", got)
	}
	for status, count := range got.ByStatus {
		if count != 0 {
			t.Fatalf("expected zero count for %s, got %d", status, count)
		}
	}
}

// Сценарий из приёмки: выручка за сегодня учитывает только completed-заказы,
// созданные сегодня (20, а не 30).
func TestComputeOrderStats_RevenueCompletedTodayOnly(t *testing.T) {
	yesterday := refNow.AddDate(0, 0, -1)
	orders := []domain.Order{
		orderAt(domain.OrderStatusPending, 1000, refNow),
		orderAt(domain.OrderStatusCompleted, 2000, refNow),
		orderAt(domain.OrderStatusCompleted, 500, yesterday),
	}

	got := stats.ComputeOrderStats(orders, refNow)

	if got.TodayCount != 2 {
		t.Fatalf("expected 2 orders today, got %d", got.TodayCount)
	}
	if got.ByStatus[domain.OrderStatusPending] != 1 {
		t.Fatalf("expected 1 pending, got %d", got.ByStatus[domain.OrderStatusPending])
	}
	if got.ByStatus[domain.OrderStatusCompleted] != 2 {
		t.Fatalf("expected 2 completed, got %d", got.ByStatus[domain.OrderStatusCompleted])
	}
	if got.RevenueTodayMinor != 2000 {
		t.Fatalf("expected revenue 2000, got %d", got.RevenueTodayMinor)
	}
}

// Свойство разбиения: сумма корзин по статусам равна размеру входа.
func TestComputeOrderStats_StatusPartition(t *testing.T) {
	orders := []domain.Order{
		orderAt(domain.OrderStatusPending, 100, refNow),
		orderAt(domain.OrderStatusPreparing, 100, refNow),
		orderAt(domain.OrderStatusReady, 100, refNow.AddDate(0, 0, -3)),
		orderAt(domain.OrderStatusCompleted, 100, refNow.AddDate(0, 0, -1)),
		orderAt(domain.OrderStatusRejected, 100, refNow),
		orderAt(domain.OrderStatusPending, 100, refNow.AddDate(0, -1, 0)),
	}

	got := stats.ComputeOrderStats(orders, refNow)

	sum := 0
	for _, count := range got.ByStatus {
		sum += count
	}
	if sum != len(orders) {
		t.Fatalf("status buckets sum to %d, expected %d", sum, len(orders))
	}
	if got.TotalCount != len(orders) {
		t.Fatalf("expected total %d, got %d", len(orders), got.TotalCount)
	}
}

// Порядок входа не влияет на результат.
func TestComputeOrderStats_OrderIndependent(t *testing.T) {
	a := orderAt(domain.OrderStatusCompleted, 700, refNow)
	b := orderAt(domain.OrderStatusPending, 300, refNow)
	c := orderAt(domain.OrderStatusCompleted, 900, refNow.AddDate(0, 0, -2))

	first := stats.ComputeOrderStats([]domain.Order{a, b, c}, refNow)
	second := stats.ComputeOrderStats([]domain.Order{c, b, a}, refNow)

	if first.RevenueTodayMinor != second.RevenueTodayMinor ||
		first.TodayCount != second.TodayCount ||
		first.TotalCount != second.TotalCount {
		t.Fatalf("stats differ by input order: %+v vs %+v", first, second)
	}
}

func TestComputePopularItems(t *testing.T) {
	orders := []domain.Order{
		{
			ID: "o1",
			Items: []domain.OrderItem{
				{Name: "Pizza", Qty: 3},
				{Name: "Salad", Qty: 2},
			},
		},
		{
			ID: "o2",
			Items: []domain.OrderItem{
				{Name: "Pizza", Qty: 1},
			},
		},
	}

	got := stats.ComputePopularItems(orders, 5)

	if len(got) != 2 {
		t.Fatalf("expected 2 items, got %d", len(got))
	}
	if got[0].Name != "Pizza" || got[0].Count != 4 {
		t.Fatalf("expected Pizza x4 first, got %+v", got[0])
	}
	if got[1].Name != "Salad" || got[1].Count != 2 {
		t.Fatalf("expected Salad x2 second, got %+v", got[1])
	}
}

// При равных количествах первым остаётся блюдо, встреченное раньше.
func TestComputePopularItems_StableTies(t *testing.T) {
	orders := []domain.Order{
		{ID: "o1", Items: []domain.OrderItem{{Name: "Tea", Qty: 2}, {Name: "Coffee", Qty: 2}}},
	}

	got := stats.ComputePopularItems(orders, 5)

	if got[0].Name != "Tea" || got[1].Name != "Coffee" {
		t.Fatalf("tie order broken: %+v", got)
	}
}

func TestComputePopularItems_Truncation(t *testing.T) {
	orders := []domain.Order{
		{ID: "o1", Items: []domain.OrderItem{
			{Name: "A", Qty: 5},
			{Name: "B", Qty: 4},
			{Name: "C", Qty: 3},
		}},
	}

	got := stats.ComputePopularItems(orders, 2)

	if len(got) != 2 {
		t.Fatalf("expected truncation to 2, got %d", len(got))
	}
	for i := 1; i < len(got); i++ {
		if got[i].Count > got[i-1].Count {
			t.Fatalf("counts not non-increasing: %+v", got)
		}
	}
}

func TestComputePopularItems_DefaultTopN(t *testing.T) {
	orders := []domain.Order{
		{ID: "o1", Items: []domain.OrderItem{
			{Name: "A", Qty: 7}, {Name: "B", Qty: 6}, {Name: "C", Qty: 5},
			{Name: "D", Qty: 4}, {Name: "E", Qty: 3}, {Name: "F", Qty: 2},
		}},
	}

	got := stats.ComputePopularItems(orders, 0)

	if len(got) != stats.DefaultTopItems {
		t.Fatalf("expected default top %d, got %d", stats.DefaultTopItems, len(got))
	}
}
