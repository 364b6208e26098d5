package usecase

import (
	"context"
	"math"
	"sort"
	"time"

	"github.com/ftoledo/olistmetrics/internal/domain"
)

type KPIUC struct {
	Facts domain.FactRepo
}

// Monthly aggregates the fact view per calendar month: distinct delivered
// orders, item revenue (freight excluded) and AOV rounded half-up to cents.
// Months with no delivered orders are absent; consumers treat gaps as zero.
func (uc *KPIUC) Monthly(ctx context.Context) ([]domain.MonthlyKPI, error) {
	items, err := uc.Facts.DeliveredItems(ctx)
	if err != nil {
		return nil, err
	}

	type agg struct {
		orders  map[string]struct{}
		revenue float64
	}
	byMonth := map[time.Time]*agg{}
	for _, it := range items {
		m := domain.TruncMonth(it.PurchasedAt)
		a := byMonth[m]
		if a == nil {
			a = &agg{orders: map[string]struct{}{}}
			byMonth[m] = a
		}
		a.orders[it.OrderID] = struct{}{}
		a.revenue += it.Price
	}

	months := make([]time.Time, 0, len(byMonth))
	for m := range byMonth {
		months = append(months, m)
	}
	sort.Slice(months, func(i, j int) bool { return months[i].Before(months[j]) })

	out := make([]domain.MonthlyKPI, 0, len(months))
	for _, m := range months {
		a := byMonth[m]
		out = append(out, domain.MonthlyKPI{
			Month:       m,
			TotalOrders: len(a.orders),
			Revenue:     a.revenue,
			AOV:         Round2(a.revenue / float64(len(a.orders))),
		})
	}
	return out, nil
}

// Customers aggregates full-history order count and revenue per durable
// customer id, ordered by id for stable output.
func (uc *KPIUC) Customers(ctx context.Context) ([]domain.CustomerStats, error) {
	items, err := uc.Facts.DeliveredItems(ctx)
	if err != nil {
		return nil, err
	}
	return customerStats(items), nil
}

func customerStats(items []domain.DeliveredItem) []domain.CustomerStats {
	type agg struct {
		orders  map[string]struct{}
		revenue float64
	}
	byUID := map[string]*agg{}
	for _, it := range items {
		a := byUID[it.CustomerUID]
		if a == nil {
			a = &agg{orders: map[string]struct{}{}}
			byUID[it.CustomerUID] = a
		}
		a.orders[it.OrderID] = struct{}{}
		a.revenue += it.Price
	}

	out := make([]domain.CustomerStats, 0, len(byUID))
	for uid, a := range byUID {
		out = append(out, domain.CustomerStats{
			CustomerUID:  uid,
			OrderCount:   len(a.orders),
			TotalRevenue: a.revenue,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CustomerUID < out[j].CustomerUID })
	return out
}

// Round2 rounds to two decimals, half away from zero.
func Round2(v float64) float64 {
	return math.Floor(v*100+0.5) / 100
}
