package usecase

import (
	"context"
	"time"

	"github.com/ftoledo/olistmetrics/internal/domain"
)

// fakeFacts serves a delivered fact view from memory. Only delivered rows
// belong here, mirroring what the SQL fact view would return.
type fakeFacts struct {
	items []domain.DeliveredItem
	err   error
}

func (f *fakeFacts) DeliveredItems(ctx context.Context) ([]domain.DeliveredItem, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.items, nil
}

type fakeQuality struct {
	counts domain.QualityCounts
	err    error
}

func (f *fakeQuality) QualityCounts(ctx context.Context) (domain.QualityCounts, error) {
	if f.err != nil {
		return domain.QualityCounts{}, f.err
	}
	return f.counts, nil
}

func ts(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 14, 30, 0, 0, time.UTC)
}

func month(year int, m time.Month) time.Time {
	return time.Date(year, m, 1, 0, 0, 0, 0, time.UTC)
}

func item(orderID, uid string, purchased time.Time, price float64) domain.DeliveredItem {
	return domain.DeliveredItem{
		OrderID:     orderID,
		CustomerUID: uid,
		PurchasedAt: purchased,
		ProductID:   "p-" + orderID,
		Price:       price,
		Category:    "health_beauty",
	}
}
