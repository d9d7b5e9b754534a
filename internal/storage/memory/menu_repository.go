package memory

import (
	"sort"
	"sync"

	"github.com/vladislavdragonenkov/restadmin/internal/domain"
)

// menuRepositoryInMemory — in-memory реализация MenuRepository.
type menuRepositoryInMemory struct {
	mu    sync.RWMutex
	items map[string]domain.MenuItem
}

// NewMenuRepository возвращает in-memory репозиторий меню.
func NewMenuRepository() domain.MenuRepository {
	return &menuRepositoryInMemory{
		items: make(map[string]domain.MenuItem),
	}
}

func (r *menuRepositoryInMemory) Create(item domain.MenuItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.items[item.ID]; exists {
		return domain.ErrAlreadyExists
	}
	r.items[item.ID] = item
	return nil
}

func (r *menuRepositoryInMemory) Get(id string) (domain.MenuItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.items[id]
	if !ok {
		return domain.MenuItem{}, domain.ErrNotFound
	}
	return item, nil
}

// List возвращает позиции меню, отсортированные по категории и названию.
func (r *menuRepositoryInMemory) List() ([]domain.MenuItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]domain.MenuItem, 0, len(r.items))
	for _, item := range r.items {
		result = append(result, item)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Category != result[j].Category {
			return result[i].Category < result[j].Category
		}
		if result[i].Name != result[j].Name {
			return result[i].Name < result[j].Name
		}
		return result[i].ID < result[j].ID
	})
	return result, nil
}

// Save перезаписывает позицию, проверяя версию (optimistic locking).
func (r *menuRepositoryInMemory) Save(item domain.MenuItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.items[item.ID]
	if !ok {
		return domain.ErrNotFound
	}
	if current.Version != item.Version {
		return domain.ErrVersionConflict
	}
	item.Version++
	r.items[item.ID] = item
	return nil
}

// Delete удаляет позицию меню; ErrNotFound, если её нет.
func (r *menuRepositoryInMemory) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.items, id)
	return nil
}

var _ domain.MenuRepository = (*menuRepositoryInMemory)(nil)
