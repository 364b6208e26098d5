package export

import (
	"context"

	"github.com/ftoledo/olistmetrics/internal/usecase"
)

type Sources struct {
	KPIs          *usecase.KPIUC
	Cohorts       *usecase.CohortUC
	Categories    *usecase.CategoryUC
	Concentration *usecase.ConcentrationUC
	Quality       *usecase.QualityUC
}

// Collect runs every report sequentially over the current snapshot. The
// reports are independent of each other, all deriving from the fact view.
func Collect(ctx context.Context, s Sources) (*ReportSet, error) {
	var (
		rs  ReportSet
		err error
	)
	if rs.Monthly, err = s.KPIs.Monthly(ctx); err != nil {
		return nil, err
	}
	if rs.Customers, err = s.KPIs.Customers(ctx); err != nil {
		return nil, err
	}
	if rs.Retention, err = s.Cohorts.Retention(ctx); err != nil {
		return nil, err
	}
	if rs.Categories, err = s.Categories.Revenue(ctx); err != nil {
		return nil, err
	}
	if rs.Deciles, err = s.Concentration.Deciles(ctx); err != nil {
		return nil, err
	}
	if rs.Frequency, err = s.Concentration.OrderFrequency(ctx); err != nil {
		return nil, err
	}
	if rs.TopCustomers, err = s.Concentration.TopCustomers(ctx, 10); err != nil {
		return nil, err
	}
	if rs.Quality, err = s.Quality.Report(ctx); err != nil {
		return nil, err
	}
	return &rs, nil
}
