package view

import (
	"sort"
	"strings"
	"time"

	"github.com/vladislavdragonenkov/restadmin/internal/domain"
)

// SortField выбирает компаратор по имени поля.
type SortField string

const (
	SortByName        SortField = "name"
	SortByTotalOrders SortField = "totalOrders"
	SortByTotalSpent  SortField = "totalSpent"
	SortByLastOrder   SortField = "lastOrder"
	SortByDate        SortField = "date"
	SortByCreatedAt   SortField = "createdAt"
	SortByTotal       SortField = "total"
)

// SortOrders сортирует копию списка заказов. Поддерживаются createdAt
// (хронологически, ascending=false — новые первыми), total (по сумме,
// убывание) и name (по имени клиента). Сортировка стабильная.
func SortOrders(orders []domain.Order, field SortField, ascending bool) []domain.Order {
	result := make([]domain.Order, len(orders))
	copy(result, orders)

	switch field {
	case SortByName:
		sort.SliceStable(result, func(i, j int) bool {
			return lessString(result[i].CustomerName, result[j].CustomerName, ascending)
		})
	case SortByTotal:
		sort.SliceStable(result, func(i, j int) bool {
			return result[i].TotalMinor > result[j].TotalMinor
		})
	case SortByCreatedAt:
		sort.SliceStable(result, func(i, j int) bool {
			return lessTime(result[i].CreatedAt, result[j].CreatedAt, ascending)
		})
	}
	return result
}

// SortReservations сортирует копию списка броней по дате или имени.
func SortReservations(reservations []domain.Reservation, field SortField, ascending bool) []domain.Reservation {
	result := make([]domain.Reservation, len(reservations))
	copy(result, reservations)

	switch field {
	case SortByName:
		sort.SliceStable(result, func(i, j int) bool {
			return lessString(result[i].CustomerName, result[j].CustomerName, ascending)
		})
	case SortByDate, SortByCreatedAt:
		key := func(r domain.Reservation) time.Time { return r.Date }
		if field == SortByCreatedAt {
			key = func(r domain.Reservation) time.Time { return r.CreatedAt }
		}
		sort.SliceStable(result, func(i, j int) bool {
			return lessTime(key(result[i]), key(result[j]), ascending)
		})
	}
	return result
}

// SortCustomers сортирует копию списка клиентов. Числовые поля
// (totalOrders, totalSpent) всегда по убыванию; lastOrder —
// хронологически, клиенты без заказов в конце при любом направлении.
func SortCustomers(customers []domain.Customer, field SortField, ascending bool) []domain.Customer {
	result := make([]domain.Customer, len(customers))
	copy(result, customers)

	switch field {
	case SortByName:
		sort.SliceStable(result, func(i, j int) bool {
			return lessString(result[i].Name, result[j].Name, ascending)
		})
	case SortByTotalOrders:
		sort.SliceStable(result, func(i, j int) bool {
			return result[i].TotalOrders > result[j].TotalOrders
		})
	case SortByTotalSpent:
		sort.SliceStable(result, func(i, j int) bool {
			return result[i].TotalSpentMinor > result[j].TotalSpentMinor
		})
	case SortByLastOrder:
		sort.SliceStable(result, func(i, j int) bool {
			return lessTime(result[i].LastOrderAt, result[j].LastOrderAt, ascending)
		})
	case SortByCreatedAt:
		sort.SliceStable(result, func(i, j int) bool {
			return lessTime(result[i].CreatedAt, result[j].CreatedAt, ascending)
		})
	}
	return result
}

func lessString(a, b string, ascending bool) bool {
	cmp := strings.Compare(strings.ToLower(a), strings.ToLower(b))
	if ascending {
		return cmp < 0
	}
	return cmp > 0
}

// lessTime упорядочивает времена хронологически; нулевое время
// («даты нет») всегда в конце независимо от направления.
func lessTime(a, b time.Time, ascending bool) bool {
	if a.IsZero() {
		return false
	}
	if b.IsZero() {
		return true
	}
	if ascending {
		return a.Before(b)
	}
	return a.After(b)
}
