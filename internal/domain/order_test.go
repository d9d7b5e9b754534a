package domain_test

import (
	"testing"
	"time"

	"github.com/vladislavdragonenkov/restadmin/internal/domain"
)

// helper для создания базового заказа с одной позицией.
func makeOrder() domain.Order {
	now := time.Now().UTC()
	return domain.Order{
		ID:            "order-1",
		CustomerName:  "Alice",
		CustomerPhone: "+15550001",
		Status:        domain.OrderStatusPending,
		TotalMinor:    500,
		Items: []domain.OrderItem{
			{
				ID:         "item-1",
				Name:       "Margherita",
				Qty:        5,
				PriceMinor: 100,
			},
		},
		Version:   0,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestOrderValidateInvariants_Ok(t *testing.T) {
	order := makeOrder()
	if errs := order.ValidateInvariants(); len(errs) != 0 {
		t.Fatalf("expected no validation errors, got %v", errs)
	}
}

func TestOrderValidateInvariants_Errors(t *testing.T) {
	cases := []struct {
		name string
		mut  func(o *domain.Order)
	}{
		{
			name: "no customer name",
			mut: func(o *domain.Order) {
				o.CustomerName = ""
			},
		},
		{
			name: "negative total",
			mut: func(o *domain.Order) {
				o.TotalMinor = -1
			},
		},
		{
			name: "no items",
			mut: func(o *domain.Order) {
				o.Items = nil
			},
		},
		{
			name: "item without name",
			mut: func(o *domain.Order) {
				o.Items[0].Name = ""
			},
		},
		{
			name: "qty invalid",
			mut: func(o *domain.Order) {
				o.Items[0].Qty = 0
			},
		},
		{
			name: "price invalid",
			mut: func(o *domain.Order) {
				o.Items[0].PriceMinor = -5
			},
		},
		{
			name: "total mismatch",
			mut: func(o *domain.Order) {
				o.TotalMinor = 999
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			order := makeOrder()
			tc.mut(&order)
			if errs := order.ValidateInvariants(); len(errs) == 0 {
				t.Fatal("expected validation errors, got none")
			}
		})
	}
}

func TestOrderCanTransitionTo(t *testing.T) {
	cases := []struct {
		from    domain.OrderStatus
		to      domain.OrderStatus
		allowed bool
	}{
		{domain.OrderStatusPending, domain.OrderStatusPreparing, true},
		{domain.OrderStatusPending, domain.OrderStatusRejected, true},
		{domain.OrderStatusPending, domain.OrderStatusReady, false},
		{domain.OrderStatusPreparing, domain.OrderStatusReady, true},
		{domain.OrderStatusPreparing, domain.OrderStatusCompleted, false},
		{domain.OrderStatusReady, domain.OrderStatusCompleted, true},
		{domain.OrderStatusReady, domain.OrderStatusPending, false},
		{domain.OrderStatusCompleted, domain.OrderStatusPending, false},
		{domain.OrderStatusRejected, domain.OrderStatusPreparing, false},
	}

	for _, tc := range cases {
		order := makeOrder()
		order.Status = tc.from
		if got := order.CanTransitionTo(tc.to); got != tc.allowed {
			t.Fatalf("%s -> %s: expected %v, got %v", tc.from, tc.to, tc.allowed, got)
		}
	}
}

func TestIsValidOrderStatus(t *testing.T) {
	for _, s := range domain.OrderStatuses {
		if !domain.IsValidOrderStatus(s) {
			t.Fatalf("status %s should be valid", s)
		}
	}
	if domain.IsValidOrderStatus("shipped") {
		t.Fatal("unknown status should not be valid")
	}
}
