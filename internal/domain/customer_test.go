package domain_test

import (
	"testing"
	"time"

	"github.com/vladislavdragonenkov/restadmin/internal/domain"
)

func TestCustomerIsActive(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	cases := []struct {
		name      string
		lastOrder time.Time
		active    bool
	}{
		{name: "never ordered", lastOrder: time.Time{}, active: false},
		{name: "ordered yesterday", lastOrder: now.AddDate(0, 0, -1), active: true},
		{name: "ordered exactly 30 days ago", lastOrder: now.Add(-domain.ActivityWindow), active: true},
		{name: "ordered 31 days ago", lastOrder: now.AddDate(0, 0, -31), active: false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := domain.Customer{Name: "Carol", LastOrderAt: tc.lastOrder}
			if c.IsActive(now) != tc.active {
				t.Fatalf("expected active=%v", tc.active)
			}
		})
	}
}

func TestCustomerIsLoyaltyMember(t *testing.T) {
	c := domain.Customer{Name: "Carol"}
	if c.IsLoyaltyMember() {
		t.Fatal("customer without points should not be a loyalty member")
	}
	c.LoyaltyPoints = 10
	if !c.IsLoyaltyMember() {
		t.Fatal("customer with points should be a loyalty member")
	}
}

func TestCustomerValidate(t *testing.T) {
	c := domain.Customer{Name: "Carol"}
	if errs := c.Validate(); len(errs) != 0 {
		t.Fatalf("expected no validation errors, got %v", errs)
	}

	c = domain.Customer{Name: "", TotalOrders: -1, TotalSpentMinor: -5, LoyaltyPoints: -2}
	if errs := c.Validate(); len(errs) != 4 {
		t.Fatalf("expected 4 validation errors, got %d", len(errs))
	}
}

func TestNotificationIsDue(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	n := domain.Notification{Status: domain.NotificationStatusDraft}
	if n.IsDue(now) {
		t.Fatal("draft must never be due")
	}

	n.Status = domain.NotificationStatusScheduled
	if !n.IsDue(now) {
		t.Fatal("scheduled without time should be due immediately")
	}

	n.ScheduledFor = now.Add(time.Hour)
	if n.IsDue(now) {
		t.Fatal("future schedule should not be due")
	}

	n.ScheduledFor = now.Add(-time.Hour)
	if !n.IsDue(now) {
		t.Fatal("past schedule should be due")
	}
}
