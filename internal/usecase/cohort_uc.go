package usecase

import (
	"context"
	"sort"
	"time"

	"github.com/ftoledo/olistmetrics/internal/domain"
)

type CohortUC struct {
	Facts domain.FactRepo
}

// Retention builds the cohort retention matrix in three steps over the fact
// view: assign each customer the month of their first delivered purchase,
// collect the distinct months each customer was active in, then join the two
// and count distinct customers per (cohort month, activity month) pair.
func (uc *CohortUC) Retention(ctx context.Context) (domain.RetentionMatrix, error) {
	items, err := uc.Facts.DeliveredItems(ctx)
	if err != nil {
		return domain.RetentionMatrix{}, err
	}

	cohortOf := map[string]time.Time{}
	activity := map[string]map[time.Time]struct{}{}
	for _, it := range items {
		m := domain.TruncMonth(it.PurchasedAt)
		if first, ok := cohortOf[it.CustomerUID]; !ok || m.Before(first) {
			cohortOf[it.CustomerUID] = m
		}
		months := activity[it.CustomerUID]
		if months == nil {
			months = map[time.Time]struct{}{}
			activity[it.CustomerUID] = months
		}
		months[m] = struct{}{}
	}

	type cellKey struct{ cohort, active time.Time }
	cellCount := map[cellKey]int{}
	cohortSize := map[time.Time]int{}
	for uid, cohort := range cohortOf {
		cohortSize[cohort]++
		for m := range activity[uid] {
			cellCount[cellKey{cohort, m}]++
		}
	}

	cells := make([]domain.RetentionCell, 0, len(cellCount))
	for k, n := range cellCount {
		cells = append(cells, domain.RetentionCell{
			CohortMonth:     k.cohort,
			ActivityMonth:   k.active,
			MonthNumber:     domain.MonthsBetween(k.cohort, k.active),
			ActiveCustomers: n,
		})
	}
	sort.Slice(cells, func(i, j int) bool {
		if !cells[i].CohortMonth.Equal(cells[j].CohortMonth) {
			return cells[i].CohortMonth.Before(cells[j].CohortMonth)
		}
		return cells[i].MonthNumber < cells[j].MonthNumber
	})

	cohorts := make([]domain.CohortSize, 0, len(cohortSize))
	for m, n := range cohortSize {
		cohorts = append(cohorts, domain.CohortSize{CohortMonth: m, Customers: n})
	}
	sort.Slice(cohorts, func(i, j int) bool { return cohorts[i].CohortMonth.Before(cohorts[j].CohortMonth) })

	return domain.RetentionMatrix{Cells: cells, Cohorts: cohorts}, nil
}
