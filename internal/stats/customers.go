package stats

import (
	"time"

	"github.com/vladislavdragonenkov/restadmin/internal/domain"
)

// CustomerStats — сводка по клиентской базе.
type CustomerStats struct {
	TotalCustomers int
	// ActiveCustomers — клиенты с заказом в течение последних 30 дней.
	ActiveCustomers int
	// LoyaltyMembers — клиенты с положительным балансом баллов.
	LoyaltyMembers int
	// AverageOrderValueMinor = sum(spent) / sum(orders) по всем клиентам;
	// 0 (не NaN), когда заказов нет вовсе.
	AverageOrderValueMinor float64
}

// ComputeCustomerStats считает сводку по снимку клиентов относительно now.
func ComputeCustomerStats(customers []domain.Customer, now time.Time) CustomerStats {
	result := CustomerStats{TotalCustomers: len(customers)}

	var spentMinor int64
	var orderCount int64

	for _, c := range customers {
		if c.IsActive(now) {
			result.ActiveCustomers++
		}
		if c.IsLoyaltyMember() {
			result.LoyaltyMembers++
		}
		if c.TotalOrders > 0 {
			spentMinor += c.TotalSpentMinor
			orderCount += c.TotalOrders
		}
	}

	if orderCount > 0 {
		result.AverageOrderValueMinor = float64(spentMinor) / float64(orderCount)
	}

	return result
}
