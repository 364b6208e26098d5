package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestTruncMonthKeepsLocation(t *testing.T) {
	loc := time.FixedZone("BRT", -3*60*60)
	got := TruncMonth(time.Date(2024, time.March, 17, 23, 59, 59, 0, loc))
	require.Equal(t, time.Date(2024, time.March, 1, 0, 0, 0, 0, loc), got)
	require.Equal(t, loc, got.Location())
}

func TestMonthsBetween(t *testing.T) {
	jan := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	require.Equal(t, 0, MonthsBetween(jan, jan))
	require.Equal(t, 2, MonthsBetween(jan, time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)))
	require.Equal(t, 13, MonthsBetween(jan, time.Date(2025, time.February, 1, 0, 0, 0, 0, time.UTC)))
}
