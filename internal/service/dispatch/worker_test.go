package dispatch

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/vladislavdragonenkov/restadmin/internal/domain"
	"github.com/vladislavdragonenkov/restadmin/internal/storage/memory"
)

type fakePublisher struct {
	published []string
	failures  int
}

func (p *fakePublisher) Publish(topic, key string, _ any) error {
	if p.failures > 0 {
		p.failures--
		return errors.New("broker unavailable")
	}
	p.published = append(p.published, key)
	return nil
}

func scheduledNotification(id string, scheduledFor time.Time) domain.Notification {
	now := scheduledFor.Add(-time.Hour)
	return domain.Notification{
		ID:           id,
		Title:        "Weekend specials",
		Message:      "New seasonal menu is live",
		Status:       domain.NotificationStatusScheduled,
		Audience:     "all",
		ScheduledFor: scheduledFor,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func TestWorkerDispatchesDueNotification(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	notifications := memory.NewNotificationRepository()
	customers := memory.NewCustomerRepository()

	if err := customers.Create(domain.Customer{ID: "c-1", Name: "Alice"}); err != nil {
		t.Fatalf("create customer: %v", err)
	}
	if err := customers.Create(domain.Customer{ID: "c-2", Name: "Bob"}); err != nil {
		t.Fatalf("create customer: %v", err)
	}
	if err := notifications.Create(scheduledNotification("n-1", now.Add(-time.Minute))); err != nil {
		t.Fatalf("create notification: %v", err)
	}

	publisher := &fakePublisher{}
	worker := NewWorker(notifications, customers,
		WithPublisher(publisher),
		WithClock(func() time.Time { return now }),
		WithRetryBaseDelay(0),
	)

	worker.ProcessOnce(context.Background())

	sent, err := notifications.Get("n-1")
	if err != nil {
		t.Fatalf("get notification: %v", err)
	}
	if sent.Status != domain.NotificationStatusSent {
		t.Fatalf("expected sent status, got %s", sent.Status)
	}
	if sent.RecipientCount != 2 || sent.DeliveredCount != 2 {
		t.Fatalf("expected 2 recipients delivered, got %d/%d", sent.RecipientCount, sent.DeliveredCount)
	}
	if !sent.SentAt.Equal(now) {
		t.Fatalf("expected sent_at %v, got %v", now, sent.SentAt)
	}
	if len(publisher.published) != 1 {
		t.Fatalf("expected one published event, got %d", len(publisher.published))
	}
}

func TestWorkerSkipsFutureNotification(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	notifications := memory.NewNotificationRepository()
	customers := memory.NewCustomerRepository()

	if err := notifications.Create(scheduledNotification("n-future", now.Add(time.Hour))); err != nil {
		t.Fatalf("create notification: %v", err)
	}

	worker := NewWorker(notifications, customers, WithClock(func() time.Time { return now }))
	worker.ProcessOnce(context.Background())

	pending, err := notifications.Get("n-future")
	if err != nil {
		t.Fatalf("get notification: %v", err)
	}
	if pending.Status != domain.NotificationStatusScheduled {
		t.Fatalf("future notification must stay scheduled, got %s", pending.Status)
	}
}

func TestWorkerRetriesThenSucceeds(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	notifications := memory.NewNotificationRepository()
	customers := memory.NewCustomerRepository()

	if err := notifications.Create(scheduledNotification("n-1", now.Add(-time.Minute))); err != nil {
		t.Fatalf("create notification: %v", err)
	}

	publisher := &fakePublisher{failures: 2}
	worker := NewWorker(notifications, customers,
		WithPublisher(publisher),
		WithClock(func() time.Time { return now }),
		WithMaxAttempts(3),
		WithRetryBaseDelay(0),
	)

	worker.ProcessOnce(context.Background())

	sent, err := notifications.Get("n-1")
	if err != nil {
		t.Fatalf("get notification: %v", err)
	}
	if sent.Status != domain.NotificationStatusSent {
		t.Fatalf("expected sent after retries, got %s", sent.Status)
	}
}

func TestWorkerMarksFailedAfterRetriesExhausted(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	notifications := memory.NewNotificationRepository()
	customers := memory.NewCustomerRepository()

	if err := notifications.Create(scheduledNotification("n-1", now.Add(-time.Minute))); err != nil {
		t.Fatalf("create notification: %v", err)
	}

	publisher := &fakePublisher{failures: 10}
	worker := NewWorker(notifications, customers,
		WithPublisher(publisher),
		WithClock(func() time.Time { return now }),
		WithMaxAttempts(2),
		WithRetryBaseDelay(0),
	)

	worker.ProcessOnce(context.Background())

	failed, err := notifications.Get("n-1")
	if err != nil {
		t.Fatalf("get notification: %v", err)
	}
	if failed.Status != domain.NotificationStatusFailed {
		t.Fatalf("expected failed status, got %s", failed.Status)
	}
	if !failed.SentAt.IsZero() {
		t.Fatal("failed notification must not have sent_at")
	}
}

func TestWorkerAudienceFiltering(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	notifications := memory.NewNotificationRepository()
	customers := memory.NewCustomerRepository()

	if err := customers.Create(domain.Customer{ID: "c-active", Name: "Alice", LastOrderAt: now.AddDate(0, 0, -3)}); err != nil {
		t.Fatalf("create customer: %v", err)
	}
	if err := customers.Create(domain.Customer{ID: "c-stale", Name: "Bob", LastOrderAt: now.AddDate(0, 0, -90)}); err != nil {
		t.Fatalf("create customer: %v", err)
	}
	if err := customers.Create(domain.Customer{ID: "c-loyal", Name: "Carol", LoyaltyPoints: 120}); err != nil {
		t.Fatalf("create customer: %v", err)
	}

	notification := scheduledNotification("n-active", now.Add(-time.Minute))
	notification.Audience = "active"
	if err := notifications.Create(notification); err != nil {
		t.Fatalf("create notification: %v", err)
	}

	worker := NewWorker(notifications, customers,
		WithPublisher(&fakePublisher{}),
		WithClock(func() time.Time { return now }),
		WithRetryBaseDelay(0),
	)
	worker.ProcessOnce(context.Background())

	sent, err := notifications.Get("n-active")
	if err != nil {
		t.Fatalf("get notification: %v", err)
	}
	if sent.RecipientCount != 1 {
		t.Fatalf("expected 1 active recipient, got %d", sent.RecipientCount)
	}
}
