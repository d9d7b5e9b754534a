package memory

import (
	"sort"
	"sync"
	"time"

	"github.com/vladislavdragonenkov/restadmin/internal/domain"
)

// orderRepositoryInMemory — простая in-memory реализация OrderRepository.
type orderRepositoryInMemory struct {
	mu    sync.RWMutex
	items map[string]domain.Order
}

// NewOrderRepository возвращает in-memory репозиторий для локальной разработки и тестов.
func NewOrderRepository() domain.OrderRepository {
	return &orderRepositoryInMemory{
		items: make(map[string]domain.Order),
	}
}

// Create сохраняет новый заказ, если ID ещё не занят.
func (r *orderRepositoryInMemory) Create(order domain.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.items[order.ID]; exists {
		return domain.ErrAlreadyExists
	}
	// Сохраняем копию, чтобы избежать непредсказуемых мутаций извне.
	order.Items = copyItems(order.Items)
	r.items[order.ID] = order
	return nil
}

// Get возвращает заказ или ErrNotFound, если его нет.
func (r *orderRepositoryInMemory) Get(id string) (domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	order, ok := r.items[id]
	if !ok {
		return domain.Order{}, domain.ErrNotFound
	}
	order.Items = copyItems(order.Items)
	return order, nil
}

// List возвращает полный снимок заказов, новые первыми.
func (r *orderRepositoryInMemory) List() ([]domain.Order, error) {
	return r.ListSince(time.Time{})
}

// ListSince возвращает заказы, созданные не раньше since, новые первыми.
func (r *orderRepositoryInMemory) ListSince(since time.Time) ([]domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]domain.Order, 0, len(r.items))
	for _, order := range r.items {
		if !since.IsZero() && order.CreatedAt.Before(since) {
			continue
		}
		order.Items = copyItems(order.Items)
		result = append(result, order)
	}

	sort.Slice(result, func(i, j int) bool {
		if !result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].CreatedAt.After(result[j].CreatedAt)
		}
		return result[i].ID > result[j].ID
	})

	return result, nil
}

// Save перезаписывает заказ, проверяя версию (optimistic locking).
func (r *orderRepositoryInMemory) Save(order domain.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.items[order.ID]
	if !ok {
		return domain.ErrNotFound
	}
	if current.Version != order.Version {
		return domain.ErrVersionConflict
	}
	// Инкрементируем версию перед сохранением.
	order.Version++
	order.Items = copyItems(order.Items)
	r.items[order.ID] = order
	return nil
}

func copyItems(items []domain.OrderItem) []domain.OrderItem {
	if items == nil {
		return nil
	}
	cp := make([]domain.OrderItem, len(items))
	copy(cp, items)
	return cp
}

var _ domain.OrderRepository = (*orderRepositoryInMemory)(nil)
