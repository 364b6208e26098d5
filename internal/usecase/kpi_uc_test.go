package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ftoledo/olistmetrics/internal/domain"
)

func TestMonthlyTwoOrdersSameMonth(t *testing.T) {
	uc := &KPIUC{Facts: &fakeFacts{items: []domain.DeliveredItem{
		item("o1", "u1", ts(2024, time.January, 5), 100.00),
		item("o2", "u2", ts(2024, time.January, 20), 50.00),
	}}}

	rows, err := uc.Monthly(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Equal(t, month(2024, time.January), rows[0].Month)
	require.Equal(t, 2, rows[0].TotalOrders)
	require.InDelta(t, 150.00, rows[0].Revenue, 1e-9)
	require.InDelta(t, 75.00, rows[0].AOV, 1e-9)
}

func TestMonthlySkipsEmptyMonths(t *testing.T) {
	uc := &KPIUC{Facts: &fakeFacts{items: []domain.DeliveredItem{
		item("o1", "u1", ts(2024, time.January, 5), 10.00),
		item("o1", "u1", ts(2024, time.January, 5), 20.00),
		item("o2", "u1", ts(2024, time.March, 1), 5.00),
	}}}

	rows, err := uc.Monthly(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 2)
	// no zero-filled February row; consumers treat the gap as zero
	require.Equal(t, month(2024, time.January), rows[0].Month)
	require.Equal(t, month(2024, time.March), rows[1].Month)
	require.Equal(t, 1, rows[0].TotalOrders)
	require.InDelta(t, 30.00, rows[0].Revenue, 1e-9)
	require.InDelta(t, 30.00, rows[0].AOV, 1e-9)
}

func TestMonthlyAOVRoundsHalfUp(t *testing.T) {
	uc := &KPIUC{Facts: &fakeFacts{items: []domain.DeliveredItem{
		item("o1", "u1", ts(2024, time.May, 1), 12.25),
		item("o2", "u2", ts(2024, time.May, 2), 12.50),
	}}}

	rows, err := uc.Monthly(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 1)
	// 24.75 / 2 = 12.375 -> 12.38
	require.InDelta(t, 12.38, rows[0].AOV, 1e-9)
}

func TestMonthlyAOVMatchesRevenueOverOrders(t *testing.T) {
	items := []domain.DeliveredItem{
		item("o1", "u1", ts(2024, time.June, 1), 10.00),
		item("o2", "u2", ts(2024, time.June, 2), 10.00),
		item("o3", "u3", ts(2024, time.June, 3), 10.01),
	}
	uc := &KPIUC{Facts: &fakeFacts{items: items}}

	rows, err := uc.Monthly(context.Background())
	require.NoError(t, err)
	for _, r := range rows {
		require.Positive(t, r.TotalOrders)
		require.InDelta(t, Round2(r.Revenue/float64(r.TotalOrders)), r.AOV, 1e-9)
	}
}

func TestCustomersAggregatesByDurableID(t *testing.T) {
	// two items of one delivered order; a non-delivered 5.00 order never
	// reaches the fact view
	uc := &KPIUC{Facts: &fakeFacts{items: []domain.DeliveredItem{
		item("o1", "u1", ts(2024, time.January, 5), 10.00),
		item("o1", "u1", ts(2024, time.January, 5), 20.00),
	}}}

	rows, err := uc.Customers(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Equal(t, "u1", rows[0].CustomerUID)
	require.Equal(t, 1, rows[0].OrderCount)
	require.InDelta(t, 30.00, rows[0].TotalRevenue, 1e-9)
}

func TestCustomersRevenueSumsToFactViewTotal(t *testing.T) {
	items := []domain.DeliveredItem{
		item("o1", "u1", ts(2024, time.January, 5), 10.00),
		item("o2", "u1", ts(2024, time.February, 5), 7.50),
		item("o3", "u2", ts(2024, time.January, 9), 99.90),
		item("o3", "u2", ts(2024, time.January, 9), 0.10),
	}
	uc := &KPIUC{Facts: &fakeFacts{items: items}}

	rows, err := uc.Customers(context.Background())
	require.NoError(t, err)

	var want, got float64
	for _, it := range items {
		want += it.Price
	}
	for _, r := range rows {
		got += r.TotalRevenue
	}
	require.InDelta(t, want, got, 1e-9)
}

func TestMonthlyPropagatesRepoError(t *testing.T) {
	boom := errors.New("db down")
	uc := &KPIUC{Facts: &fakeFacts{err: boom}}
	_, err := uc.Monthly(context.Background())
	require.ErrorIs(t, err, boom)
}

func TestRound2(t *testing.T) {
	require.InDelta(t, 0.13, Round2(0.125), 1e-9)
	require.InDelta(t, 0.38, Round2(0.375), 1e-9)
	require.InDelta(t, 6.67, Round2(20.0/3.0), 1e-9)
	require.InDelta(t, 10.00, Round2(30.01/3.0), 1e-9)
	require.InDelta(t, 0.00, Round2(0), 1e-9)
}
