// Package view строит отфильтрованные и отсортированные представления
// снимков коллекций для админ-панели. Исходные срезы не мутируются:
// каждая операция возвращает новый срез. Фильтры комбинируются по AND
// и применяются до сортировки.
package view

import (
	"strings"
	"time"

	"github.com/vladislavdragonenkov/restadmin/internal/domain"
)

// StatusAll — сентинел «любой статус» для фильтров по статусу.
const StatusAll = "all"

// DateBucket задаёт фильтр броней по отношению даты к now.
type DateBucket string

const (
	DateBucketAll      DateBucket = "all"
	DateBucketToday    DateBucket = "today"
	DateBucketUpcoming DateBucket = "upcoming"
	DateBucketPast     DateBucket = "past"
)

// Activity задаёт фильтр клиентов по активности.
type Activity string

const (
	ActivityAll Activity = "all"
	// ActivityActive — заказывал в течение последних 30 дней.
	ActivityActive Activity = "active"
	// ActivityInactive — не заказывал вовсе или заказывал раньше 30 дней назад.
	ActivityInactive Activity = "inactive"
	// ActivityLoyal — положительный баланс баллов лояльности.
	ActivityLoyal Activity = "loyal"
)

// OrderFilter описывает активные предикаты списка заказов.
type OrderFilter struct {
	// Status — точное совпадение; пустая строка и StatusAll пропускают всё.
	Status string
	// Search — регистронезависимая подстрока по имени и телефону клиента.
	Search string
}

// FilterOrders возвращает заказы, прошедшие все активные предикаты.
func FilterOrders(orders []domain.Order, f OrderFilter) []domain.Order {
	result := make([]domain.Order, 0, len(orders))
	for _, order := range orders {
		if !statusMatches(f.Status, string(order.Status)) {
			continue
		}
		if !searchMatches(f.Search, order.CustomerName, order.CustomerPhone) {
			continue
		}
		result = append(result, order)
	}
	return result
}

// ReservationFilter описывает активные предикаты списка броней.
type ReservationFilter struct {
	Status string
	Bucket DateBucket
	Search string
	// Now — опорное время для date bucket; обязательно при Bucket != all.
	Now time.Time
}

// FilterReservations возвращает брони, прошедшие все активные предикаты.
func FilterReservations(reservations []domain.Reservation, f ReservationFilter) []domain.Reservation {
	result := make([]domain.Reservation, 0, len(reservations))
	for _, res := range reservations {
		if !statusMatches(f.Status, string(res.Status)) {
			continue
		}
		if !bucketMatches(f.Bucket, res.Date, f.Now) {
			continue
		}
		if !searchMatches(f.Search, res.CustomerName, res.CustomerPhone, res.CustomerEmail) {
			continue
		}
		result = append(result, res)
	}
	return result
}

// CustomerFilter описывает активные предикаты списка клиентов.
type CustomerFilter struct {
	Activity Activity
	Search   string
	// Now — опорное время для расчёта активности.
	Now time.Time
}

// FilterCustomers возвращает клиентов, прошедших все активные предикаты.
func FilterCustomers(customers []domain.Customer, f CustomerFilter) []domain.Customer {
	result := make([]domain.Customer, 0, len(customers))
	for _, c := range customers {
		if !activityMatches(f.Activity, c, f.Now) {
			continue
		}
		if !searchMatches(f.Search, c.Name, c.Email, c.Phone) {
			continue
		}
		result = append(result, c)
	}
	return result
}

// NotificationFilter описывает активные предикаты списка рассылок.
type NotificationFilter struct {
	Status string
	Search string
}

// FilterNotifications возвращает рассылки, прошедшие все активные предикаты.
func FilterNotifications(notifications []domain.Notification, f NotificationFilter) []domain.Notification {
	result := make([]domain.Notification, 0, len(notifications))
	for _, n := range notifications {
		if !statusMatches(f.Status, string(n.Status)) {
			continue
		}
		if !searchMatches(f.Search, n.Title, n.Message) {
			continue
		}
		result = append(result, n)
	}
	return result
}

func statusMatches(want, got string) bool {
	if want == "" || want == StatusAll {
		return true
	}
	return want == got
}

// searchMatches ищет подстроку без учёта регистра хотя бы в одном поле.
// Пустой запрос совпадает со всем.
func searchMatches(term string, fields ...string) bool {
	term = strings.TrimSpace(strings.ToLower(term))
	if term == "" {
		return true
	}
	for _, field := range fields {
		if strings.Contains(strings.ToLower(field), term) {
			return true
		}
	}
	return false
}

func bucketMatches(bucket DateBucket, date, now time.Time) bool {
	switch bucket {
	case DateBucketToday:
		y1, m1, d1 := date.In(now.Location()).Date()
		y2, m2, d2 := now.Date()
		return y1 == y2 && m1 == m2 && d1 == d2
	case DateBucketUpcoming:
		return !date.Before(now)
	case DateBucketPast:
		return date.Before(now)
	default:
		return true
	}
}

func activityMatches(activity Activity, c domain.Customer, now time.Time) bool {
	switch activity {
	case ActivityActive:
		return c.IsActive(now)
	case ActivityInactive:
		return !c.IsActive(now)
	case ActivityLoyal:
		return c.IsLoyaltyMember()
	default:
		return true
	}
}
