package domain

import (
	"context"
	"time"
)

// DeliveredItem is one row of the delivered fact view: an (order, item) pair
// whose parent order reached delivered status, carrying the durable customer id
// and the resolved category label. It is the only source for revenue metrics;
// orders themselves hold no monetary values.
type DeliveredItem struct {
	OrderID      string
	CustomerUID  string
	PurchasedAt  time.Time
	ProductID    string
	Price        float64
	FreightValue float64
	Category     string
}

// FactRepo builds the fact view from the base tables. The snapshot is
// immutable, so every call recomputes from the full history.
type FactRepo interface {
	DeliveredItems(ctx context.Context) ([]DeliveredItem, error)
}

// QualityRepo probes the base tables for data-quality conditions that the
// inner-join fact view silently drops.
type QualityRepo interface {
	QualityCounts(ctx context.Context) (QualityCounts, error)
}

// TruncMonth truncates t to the first instant of its calendar month, in t's
// own location. No timezone conversion: timestamps are assumed to already be
// in the reporting zone.
func TruncMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

// MonthsBetween counts whole calendar months from a to b. Both arguments are
// expected to be month-truncated; activity never precedes cohort, so callers
// see values >= 0.
func MonthsBetween(a, b time.Time) int {
	return (b.Year()-a.Year())*12 + int(b.Month()) - int(a.Month())
}
