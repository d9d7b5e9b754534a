package memory

import (
	"sort"
	"sync"
	"time"

	"github.com/vladislavdragonenkov/restadmin/internal/domain"
)

// notificationRepositoryInMemory — in-memory реализация NotificationRepository.
type notificationRepositoryInMemory struct {
	mu    sync.RWMutex
	items map[string]domain.Notification
}

// NewNotificationRepository возвращает in-memory репозиторий рассылок.
func NewNotificationRepository() domain.NotificationRepository {
	return &notificationRepositoryInMemory{
		items: make(map[string]domain.Notification),
	}
}

func (r *notificationRepositoryInMemory) Create(n domain.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.items[n.ID]; exists {
		return domain.ErrAlreadyExists
	}
	r.items[n.ID] = n
	return nil
}

func (r *notificationRepositoryInMemory) Get(id string) (domain.Notification, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	n, ok := r.items[id]
	if !ok {
		return domain.Notification{}, domain.ErrNotFound
	}
	return n, nil
}

// List возвращает все рассылки, новые первыми.
func (r *notificationRepositoryInMemory) List() ([]domain.Notification, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]domain.Notification, 0, len(r.items))
	for _, n := range r.items {
		result = append(result, n)
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].CreatedAt.After(result[j].CreatedAt)
		}
		return result[i].ID > result[j].ID
	})
	return result, nil
}

// PullDue возвращает запланированные рассылки, срок которых наступил,
// в порядке планирования, не больше limit (limit <= 0 — без ограничения).
func (r *notificationRepositoryInMemory) PullDue(now time.Time, limit int) ([]domain.Notification, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]domain.Notification, 0)
	for _, n := range r.items {
		if n.IsDue(now) {
			result = append(result, n)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].ScheduledFor.Equal(result[j].ScheduledFor) {
			return result[i].ScheduledFor.Before(result[j].ScheduledFor)
		}
		return result[i].ID < result[j].ID
	})
	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

// Save перезаписывает рассылку, проверяя версию (optimistic locking).
func (r *notificationRepositoryInMemory) Save(n domain.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.items[n.ID]
	if !ok {
		return domain.ErrNotFound
	}
	if current.Version != n.Version {
		return domain.ErrVersionConflict
	}
	n.Version++
	r.items[n.ID] = n
	return nil
}

var _ domain.NotificationRepository = (*notificationRepositoryInMemory)(nil)
