package memory

import (
	"sort"
	"sync"

	"github.com/vladislavdragonenkov/restadmin/internal/domain"
)

// customerRepositoryInMemory — in-memory реализация CustomerRepository.
type customerRepositoryInMemory struct {
	mu    sync.RWMutex
	items map[string]domain.Customer
}

// NewCustomerRepository возвращает in-memory репозиторий клиентов.
func NewCustomerRepository() domain.CustomerRepository {
	return &customerRepositoryInMemory{
		items: make(map[string]domain.Customer),
	}
}

func (r *customerRepositoryInMemory) Create(customer domain.Customer) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.items[customer.ID]; exists {
		return domain.ErrAlreadyExists
	}
	r.items[customer.ID] = customer
	return nil
}

func (r *customerRepositoryInMemory) Get(id string) (domain.Customer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	customer, ok := r.items[id]
	if !ok {
		return domain.Customer{}, domain.ErrNotFound
	}
	return customer, nil
}

// GetByPhone ищет клиента по точному совпадению номера телефона.
func (r *customerRepositoryInMemory) GetByPhone(phone string) (domain.Customer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if phone == "" {
		return domain.Customer{}, domain.ErrNotFound
	}
	for _, customer := range r.items {
		if customer.Phone == phone {
			return customer, nil
		}
	}
	return domain.Customer{}, domain.ErrNotFound
}

// List возвращает всех клиентов, отсортированных по имени.
func (r *customerRepositoryInMemory) List() ([]domain.Customer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]domain.Customer, 0, len(r.items))
	for _, customer := range r.items {
		result = append(result, customer)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Name != result[j].Name {
			return result[i].Name < result[j].Name
		}
		return result[i].ID < result[j].ID
	})
	return result, nil
}

// Save перезаписывает профиль, проверяя версию (optimistic locking).
func (r *customerRepositoryInMemory) Save(customer domain.Customer) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.items[customer.ID]
	if !ok {
		return domain.ErrNotFound
	}
	if current.Version != customer.Version {
		return domain.ErrVersionConflict
	}
	customer.Version++
	r.items[customer.ID] = customer
	return nil
}

var _ domain.CustomerRepository = (*customerRepositoryInMemory)(nil)
