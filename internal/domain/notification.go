package domain

import "time"

// NotificationStatus описывает жизненный цикл рассылки.
type NotificationStatus string

const (
	// NotificationStatusDraft — черновик, отправка не запланирована.
	NotificationStatusDraft NotificationStatus = "draft"
	// NotificationStatusScheduled — рассылка запланирована на ScheduledFor.
	NotificationStatusScheduled NotificationStatus = "scheduled"
	// NotificationStatusSent — рассылка доставлена провайдеру.
	NotificationStatusSent NotificationStatus = "sent"
	// NotificationStatusFailed — отправка не удалась после всех попыток.
	NotificationStatusFailed NotificationStatus = "failed"
)

// NotificationStatuses перечисляет все статусы в стабильном порядке.
var NotificationStatuses = []NotificationStatus{
	NotificationStatusDraft,
	NotificationStatusScheduled,
	NotificationStatusSent,
	NotificationStatusFailed,
}

// Notification описывает маркетинговую или сервисную рассылку.
type Notification struct {
	ID      string
	Title   string
	Message string
	Status  NotificationStatus
	// Audience — тег целевой аудитории ("all", "loyal", "inactive", ...).
	Audience       string
	RecipientCount int64
	DeliveredCount int64
	OpenedCount    int64
	ClickedCount   int64
	// ScheduledFor — когда отправлять; нулевое значение = немедленно после планирования.
	ScheduledFor time.Time
	SentAt       time.Time
	Version      int64
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Validate проверяет ключевые поля рассылки.
func (n *Notification) Validate() []error {
	var errs []error

	if n.Title == "" {
		errs = append(errs, ErrNotificationTitleRequired)
	}
	if n.Message == "" {
		errs = append(errs, ErrNotificationMessageRequired)
	}
	if n.RecipientCount < 0 {
		errs = append(errs, ErrRecipientCountNegative)
	}

	return errs
}

// IsDue сообщает, пора ли отправлять запланированную рассылку.
func (n *Notification) IsDue(now time.Time) bool {
	if n.Status != NotificationStatusScheduled {
		return false
	}
	return n.ScheduledFor.IsZero() || !n.ScheduledFor.After(now)
}

// IsValidNotificationStatus сообщает, входит ли значение в перечень статусов рассылки.
func IsValidNotificationStatus(s NotificationStatus) bool {
	for _, known := range NotificationStatuses {
		if s == known {
			return true
		}
	}
	return false
}
