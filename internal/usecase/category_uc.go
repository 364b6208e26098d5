package usecase

import (
	"context"
	"sort"

	"github.com/ftoledo/olistmetrics/internal/domain"
)

type CategoryUC struct {
	Facts domain.FactRepo
}

// Revenue ranks category labels by summed item revenue. Rows without a known
// category land in the explicit unknown bucket instead of being dropped.
func (uc *CategoryUC) Revenue(ctx context.Context) ([]domain.CategoryRevenue, error) {
	items, err := uc.Facts.DeliveredItems(ctx)
	if err != nil {
		return nil, err
	}

	type agg struct {
		orders  map[string]struct{}
		revenue float64
	}
	byCat := map[string]*agg{}
	for _, it := range items {
		label := it.Category
		if label == "" {
			label = domain.UnknownCategory
		}
		a := byCat[label]
		if a == nil {
			a = &agg{orders: map[string]struct{}{}}
			byCat[label] = a
		}
		a.orders[it.OrderID] = struct{}{}
		a.revenue += it.Price
	}

	out := make([]domain.CategoryRevenue, 0, len(byCat))
	for label, a := range byCat {
		out = append(out, domain.CategoryRevenue{Category: label, Revenue: a.revenue, Orders: len(a.orders)})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Revenue != out[j].Revenue {
			return out[i].Revenue > out[j].Revenue
		}
		return out[i].Category < out[j].Category
	})
	return out, nil
}
