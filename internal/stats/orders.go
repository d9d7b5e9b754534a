// Package stats содержит чистые функции расчёта статистики дашборда.
// Все функции детерминированы относительно (снимок, now), не мутируют
// вход и не выполняют I/O; пустой вход даёт нулевую статистику.
package stats

import (
	"sort"
	"time"

	"github.com/vladislavdragonenkov/restadmin/internal/domain"
)

// DefaultTopItems — сколько популярных блюд показывает дашборд по умолчанию.
const DefaultTopItems = 5

// OrderStats — сводка по заказам для дашборда.
type OrderStats struct {
	TotalCount int
	TodayCount int
	// ByStatus разбивает все заказы по статусам; каждый заказ попадает
	// ровно в одну корзину.
	ByStatus map[domain.OrderStatus]int
	// RevenueTodayMinor — выручка за сегодня в минимальных денежных единицах.
	// Считаются только заказы со статусом completed, созданные сегодня.
	RevenueTodayMinor int64
}

// PopularItem — блюдо и суммарное количество заказанных порций.
type PopularItem struct {
	Name  string
	Count int64
}

// ComputeOrderStats считает сводку по снимку заказов относительно now.
// «Сегодня» — совпадение календарного дня с now в часовом поясе now.
func ComputeOrderStats(orders []domain.Order, now time.Time) OrderStats {
	result := OrderStats{
		TotalCount: len(orders),
		ByStatus:   make(map[domain.OrderStatus]int, len(domain.OrderStatuses)),
	}
	for _, status := range domain.OrderStatuses {
		result.ByStatus[status] = 0
	}

	for _, order := range orders {
		result.ByStatus[order.Status]++

		if !sameDay(order.CreatedAt, now) {
			continue
		}
		result.TodayCount++
		if order.Status == domain.OrderStatusCompleted {
			result.RevenueTodayMinor += order.TotalMinor
		}
	}

	return result
}

// ComputePopularItems агрегирует количество порций по названию блюда.
// Сортировка убывающая по количеству; при равенстве первым идёт блюдо,
// встретившееся раньше во входных данных. Результат обрезается до topN
// (topN <= 0 трактуется как DefaultTopItems).
func ComputePopularItems(orders []domain.Order, topN int) []PopularItem {
	if topN <= 0 {
		topN = DefaultTopItems
	}

	index := make(map[string]int)
	items := make([]PopularItem, 0)

	for _, order := range orders {
		for _, item := range order.Items {
			pos, seen := index[item.Name]
			if !seen {
				index[item.Name] = len(items)
				items = append(items, PopularItem{Name: item.Name})
				pos = len(items) - 1
			}
			items[pos].Count += int64(item.Qty)
		}
	}

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Count > items[j].Count
	})

	if len(items) > topN {
		items = items[:topN]
	}
	return items
}

// sameDay сравнивает календарные дни в часовом поясе опорного времени ref.
func sameDay(t, ref time.Time) bool {
	if t.IsZero() {
		return false
	}
	y1, m1, d1 := t.In(ref.Location()).Date()
	y2, m2, d2 := ref.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}
