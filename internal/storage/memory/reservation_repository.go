package memory

import (
	"sort"
	"sync"
	"time"

	"github.com/vladislavdragonenkov/restadmin/internal/domain"
)

// reservationRepositoryInMemory — in-memory реализация ReservationRepository.
type reservationRepositoryInMemory struct {
	mu    sync.RWMutex
	items map[string]domain.Reservation
}

// NewReservationRepository возвращает in-memory репозиторий броней.
func NewReservationRepository() domain.ReservationRepository {
	return &reservationRepositoryInMemory{
		items: make(map[string]domain.Reservation),
	}
}

func (r *reservationRepositoryInMemory) Create(res domain.Reservation) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.items[res.ID]; exists {
		return domain.ErrAlreadyExists
	}
	r.items[res.ID] = res
	return nil
}

func (r *reservationRepositoryInMemory) Get(id string) (domain.Reservation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	res, ok := r.items[id]
	if !ok {
		return domain.Reservation{}, domain.ErrNotFound
	}
	return res, nil
}

// List возвращает все брони, отсортированные по дате визита по возрастанию.
func (r *reservationRepositoryInMemory) List() ([]domain.Reservation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]domain.Reservation, 0, len(r.items))
	for _, res := range r.items {
		result = append(result, res)
	}
	sortReservations(result)
	return result, nil
}

// ListByDate возвращает брони на конкретную календарную дату.
func (r *reservationRepositoryInMemory) ListByDate(date time.Time) ([]domain.Reservation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	y, m, d := date.Date()
	result := make([]domain.Reservation, 0)
	for _, res := range r.items {
		ry, rm, rd := res.Date.Date()
		if ry == y && rm == m && rd == d {
			result = append(result, res)
		}
	}
	sortReservations(result)
	return result, nil
}

// Save перезаписывает бронь, проверяя версию (optimistic locking).
func (r *reservationRepositoryInMemory) Save(res domain.Reservation) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.items[res.ID]
	if !ok {
		return domain.ErrNotFound
	}
	if current.Version != res.Version {
		return domain.ErrVersionConflict
	}
	res.Version++
	r.items[res.ID] = res
	return nil
}

func sortReservations(reservations []domain.Reservation) {
	sort.Slice(reservations, func(i, j int) bool {
		if !reservations[i].Date.Equal(reservations[j].Date) {
			return reservations[i].Date.Before(reservations[j].Date)
		}
		if reservations[i].TimeSlot != reservations[j].TimeSlot {
			return reservations[i].TimeSlot < reservations[j].TimeSlot
		}
		return reservations[i].ID < reservations[j].ID
	})
}

var _ domain.ReservationRepository = (*reservationRepositoryInMemory)(nil)
