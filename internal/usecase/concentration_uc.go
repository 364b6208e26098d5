package usecase

import (
	"context"
	"sort"

	"github.com/ftoledo/olistmetrics/internal/domain"
)

type ConcentrationUC struct {
	Facts domain.FactRepo
}

// Deciles partitions all customers into 10 buckets ranked by total revenue
// descending (decile 1 = top spenders), NTILE style: when the customer count
// is not divisible by 10 the first count%10 deciles take one extra customer.
// All 10 buckets are always emitted so decile sums cover 100% of revenue.
func (uc *ConcentrationUC) Deciles(ctx context.Context) ([]domain.DecileBucket, error) {
	stats, err := uc.rankedCustomers(ctx)
	if err != nil {
		return nil, err
	}

	n := len(stats)
	base := n / 10
	extra := n % 10

	out := make([]domain.DecileBucket, 10)
	idx := 0
	for d := 0; d < 10; d++ {
		size := base
		if d < extra {
			size++
		}
		b := domain.DecileBucket{Decile: d + 1, Customers: size}
		for i := 0; i < size; i++ {
			b.Revenue += stats[idx].TotalRevenue
			idx++
		}
		out[d] = b
	}
	return out, nil
}

// OrderFrequency counts how many customers placed exactly 1, 2, 3... delivered
// orders, ascending by order count.
func (uc *ConcentrationUC) OrderFrequency(ctx context.Context) ([]domain.OrderFrequency, error) {
	items, err := uc.Facts.DeliveredItems(ctx)
	if err != nil {
		return nil, err
	}
	hist := map[int]int{}
	for _, cs := range customerStats(items) {
		hist[cs.OrderCount]++
	}
	out := make([]domain.OrderFrequency, 0, len(hist))
	for count, customers := range hist {
		out = append(out, domain.OrderFrequency{OrderCount: count, Customers: customers})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].OrderCount < out[j].OrderCount })
	return out, nil
}

// TopCustomers returns the n highest-revenue customers, n defaulting to 10.
func (uc *ConcentrationUC) TopCustomers(ctx context.Context, n int) ([]domain.CustomerStats, error) {
	if n <= 0 {
		n = 10
	}
	stats, err := uc.rankedCustomers(ctx)
	if err != nil {
		return nil, err
	}
	if len(stats) > n {
		stats = stats[:n]
	}
	return stats, nil
}

// rankedCustomers orders by revenue descending, then customer id for a stable
// rank across runs.
func (uc *ConcentrationUC) rankedCustomers(ctx context.Context) ([]domain.CustomerStats, error) {
	items, err := uc.Facts.DeliveredItems(ctx)
	if err != nil {
		return nil, err
	}
	stats := customerStats(items)
	sort.Slice(stats, func(i, j int) bool {
		if stats[i].TotalRevenue != stats[j].TotalRevenue {
			return stats[i].TotalRevenue > stats[j].TotalRevenue
		}
		return stats[i].CustomerUID < stats[j].CustomerUID
	})
	return stats, nil
}
