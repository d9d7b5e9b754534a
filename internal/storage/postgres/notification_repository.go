package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/vladislavdragonenkov/restadmin/internal/domain"
)

type notificationRepository struct {
	db *sql.DB
}

// NewNotificationRepository создаёт PostgreSQL-реализацию NotificationRepository.
func NewNotificationRepository(store *Store) domain.NotificationRepository {
	return &notificationRepository{db: store.DB()}
}

func (r *notificationRepository) Create(n domain.Notification) error {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO notifications (
			id, title, message, status, audience, recipient_count, delivered_count,
			opened_count, clicked_count, scheduled_for, sent_at, version, created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)
	`,
		n.ID, n.Title, n.Message, string(n.Status), n.Audience, n.RecipientCount, n.DeliveredCount,
		n.OpenedCount, n.ClickedCount, nullableTime(n.ScheduledFor), nullableTime(n.SentAt),
		n.Version, n.CreatedAt, n.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrAlreadyExists
		}
		return fmt.Errorf("insert notification: %w", err)
	}

	return nil
}

func (r *notificationRepository) Get(id string) (domain.Notification, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	n, err := scanNotificationRow(r.db.QueryRowContext(ctx, `
		SELECT id, title, message, status, audience, recipient_count, delivered_count,
		       opened_count, clicked_count, scheduled_for, sent_at, version, created_at, updated_at
		FROM notifications
		WHERE id = $1
	`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Notification{}, domain.ErrNotFound
		}
		return domain.Notification{}, fmt.Errorf("select notification: %w", err)
	}

	return n, nil
}

func (r *notificationRepository) List() ([]domain.Notification, error) {
	return r.list(`
		SELECT id, title, message, status, audience, recipient_count, delivered_count,
		       opened_count, clicked_count, scheduled_for, sent_at, version, created_at, updated_at
		FROM notifications
		ORDER BY created_at DESC, id DESC
	`)
}

// PullDue возвращает запланированные рассылки, срок которых наступил.
func (r *notificationRepository) PullDue(now time.Time, limit int) ([]domain.Notification, error) {
	return r.list(`
		SELECT id, title, message, status, audience, recipient_count, delivered_count,
		       opened_count, clicked_count, scheduled_for, sent_at, version, created_at, updated_at
		FROM notifications
		WHERE status = $1
		  AND (scheduled_for IS NULL OR scheduled_for <= $2)
		ORDER BY scheduled_for ASC NULLS FIRST, id ASC
		LIMIT $3
	`, string(domain.NotificationStatusScheduled), now, limit)
}

func (r *notificationRepository) list(query string, args ...any) ([]domain.Notification, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	defer rows.Close()

	notifications := make([]domain.Notification, 0)
	for rows.Next() {
		n, err := scanNotificationRow(rows)
		if err != nil {
			return nil, fmt.Errorf("scan notification row: %w", err)
		}
		notifications = append(notifications, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate notification rows: %w", err)
	}

	return notifications, nil
}

func (r *notificationRepository) Save(n domain.Notification) error {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	result, err := tx.ExecContext(ctx, `
		UPDATE notifications
		SET title = $1,
		    message = $2,
		    status = $3,
		    audience = $4,
		    recipient_count = $5,
		    delivered_count = $6,
		    opened_count = $7,
		    clicked_count = $8,
		    scheduled_for = $9,
		    sent_at = $10,
		    version = version + 1,
		    updated_at = $11
		WHERE id = $12
		  AND version = $13
	`,
		n.Title,
		n.Message,
		string(n.Status),
		n.Audience,
		n.RecipientCount,
		n.DeliveredCount,
		n.OpenedCount,
		n.ClickedCount,
		nullableTime(n.ScheduledFor),
		nullableTime(n.SentAt),
		n.UpdatedAt,
		n.ID,
		n.Version,
	)
	if err != nil {
		return fmt.Errorf("update notification: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		exists, err := rowExistsTx(ctx, tx, "notifications", n.ID)
		if err != nil {
			return err
		}
		if !exists {
			return domain.ErrNotFound
		}
		return domain.ErrVersionConflict
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit save notification: %w", err)
	}

	return nil
}

func scanNotificationRow(row rowScanner) (domain.Notification, error) {
	var (
		n            domain.Notification
		status       string
		scheduledFor sql.NullTime
		sentAt       sql.NullTime
	)
	if err := row.Scan(
		&n.ID, &n.Title, &n.Message, &status, &n.Audience, &n.RecipientCount, &n.DeliveredCount,
		&n.OpenedCount, &n.ClickedCount, &scheduledFor, &sentAt, &n.Version, &n.CreatedAt, &n.UpdatedAt,
	); err != nil {
		return domain.Notification{}, err
	}
	n.Status = domain.NotificationStatus(status)
	if scheduledFor.Valid {
		n.ScheduledFor = scheduledFor.Time
	}
	if sentAt.Valid {
		n.SentAt = sentAt.Time
	}
	return n, nil
}
