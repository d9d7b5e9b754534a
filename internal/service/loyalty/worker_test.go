package loyalty

import (
	"context"
	"testing"
	"time"

	"github.com/vladislavdragonenkov/restadmin/internal/domain"
	"github.com/vladislavdragonenkov/restadmin/internal/storage/memory"
)

func completedOrder(id, phone string, total int64, createdAt time.Time) domain.Order {
	return domain.Order{
		ID:            id,
		CustomerName:  "Alice",
		CustomerPhone: phone,
		Status:        domain.OrderStatusCompleted,
		TotalMinor:    total,
		Items:         []domain.OrderItem{{ID: id + "-i1", Name: "Margherita", Qty: 1, PriceMinor: total}},
		CreatedAt:     createdAt,
		UpdatedAt:     createdAt,
	}
}

func TestWorkerAccruesCompletedOrder(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	orders := memory.NewOrderRepository()
	customers := memory.NewCustomerRepository()

	if err := orders.Create(completedOrder("o-1", "+15550001", 2550, now.Add(-time.Hour))); err != nil {
		t.Fatalf("create order: %v", err)
	}

	worker := NewWorker(orders, customers, WithClock(func() time.Time { return now }))
	worker.ProcessOnce(context.Background())

	customer, err := customers.GetByPhone("+15550001")
	if err != nil {
		t.Fatalf("customer must be created: %v", err)
	}
	if customer.TotalOrders != 1 {
		t.Fatalf("expected 1 order, got %d", customer.TotalOrders)
	}
	if customer.TotalSpentMinor != 2550 {
		t.Fatalf("expected 2550 spent, got %d", customer.TotalSpentMinor)
	}
	if customer.LoyaltyPoints != 25 {
		t.Fatalf("expected 25 points, got %d", customer.LoyaltyPoints)
	}
	if !customer.LastOrderAt.Equal(now.Add(-time.Hour)) {
		t.Fatalf("unexpected last order at: %v", customer.LastOrderAt)
	}
}

func TestWorkerAccrualIsIdempotentPerOrder(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	orders := memory.NewOrderRepository()
	customers := memory.NewCustomerRepository()

	if err := orders.Create(completedOrder("o-1", "+15550001", 1000, now)); err != nil {
		t.Fatalf("create order: %v", err)
	}

	worker := NewWorker(orders, customers, WithClock(func() time.Time { return now }))
	worker.ProcessOnce(context.Background())
	worker.ProcessOnce(context.Background())

	customer, err := customers.GetByPhone("+15550001")
	if err != nil {
		t.Fatalf("get customer: %v", err)
	}
	if customer.TotalOrders != 1 {
		t.Fatalf("repeated cycle must not double-accrue, got %d orders", customer.TotalOrders)
	}
}

func TestWorkerSkipsPendingOrders(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	orders := memory.NewOrderRepository()
	customers := memory.NewCustomerRepository()

	pending := completedOrder("o-1", "+15550001", 1000, now)
	pending.Status = domain.OrderStatusPending
	if err := orders.Create(pending); err != nil {
		t.Fatalf("create order: %v", err)
	}

	worker := NewWorker(orders, customers)
	worker.ProcessOnce(context.Background())

	if _, err := customers.GetByPhone("+15550001"); !domain.IsNotFound(err) {
		t.Fatalf("pending order must not accrue, got %v", err)
	}
}

func TestWorkerAccruesIntoExistingCustomer(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	orders := memory.NewOrderRepository()
	customers := memory.NewCustomerRepository()

	if err := customers.Create(domain.Customer{
		ID:              "c-1",
		Name:            "Alice",
		Phone:           "+15550001",
		TotalOrders:     3,
		TotalSpentMinor: 5000,
		LoyaltyPoints:   50,
		LastOrderAt:     now.AddDate(0, 0, -10),
	}); err != nil {
		t.Fatalf("create customer: %v", err)
	}
	if err := orders.Create(completedOrder("o-1", "+15550001", 2000, now)); err != nil {
		t.Fatalf("create order: %v", err)
	}

	worker := NewWorker(orders, customers, WithClock(func() time.Time { return now }))
	worker.ProcessOnce(context.Background())

	customer, err := customers.Get("c-1")
	if err != nil {
		t.Fatalf("get customer: %v", err)
	}
	if customer.TotalOrders != 4 || customer.TotalSpentMinor != 7000 || customer.LoyaltyPoints != 70 {
		t.Fatalf("unexpected aggregates: %+v", customer)
	}
	if !customer.LastOrderAt.Equal(now) {
		t.Fatalf("last order must advance, got %v", customer.LastOrderAt)
	}
}

func TestWorkerSkipsOrdersWithoutPhone(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	orders := memory.NewOrderRepository()
	customers := memory.NewCustomerRepository()

	if err := orders.Create(completedOrder("o-1", "", 1000, now)); err != nil {
		t.Fatalf("create order: %v", err)
	}

	worker := NewWorker(orders, customers)
	worker.ProcessOnce(context.Background())

	all, err := customers.List()
	if err != nil {
		t.Fatalf("list customers: %v", err)
	}
	if len(all) != 0 {
		t.Fatalf("expected no customers, got %d", len(all))
	}
}
