package usecase

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/ftoledo/olistmetrics/internal/domain"
)

type QualityUC struct {
	Quality domain.QualityRepo
}

// Report surfaces data-quality conditions as warnings. None of them abort the
// other reports; the inner-join fact view already excludes the affected rows.
func (uc *QualityUC) Report(ctx context.Context) (domain.QualityCounts, error) {
	c, err := uc.Quality.QualityCounts(ctx)
	if err != nil {
		return domain.QualityCounts{}, err
	}
	if c.DeliveredNoTimestamp > 0 {
		log.Warn().Int64("orders", c.DeliveredNoTimestamp).Msg("delivered orders missing delivery timestamp")
	}
	if c.ItemsMissingOrder > 0 {
		log.Warn().Int64("items", c.ItemsMissingOrder).Msg("order items referencing missing orders")
	}
	if c.ItemsMissingProduct > 0 {
		log.Warn().Int64("items", c.ItemsMissingProduct).Msg("order items referencing missing products")
	}
	if c.OrdersMissingCustomer > 0 {
		log.Warn().Int64("orders", c.OrdersMissingCustomer).Msg("orders referencing missing customers")
	}
	if c.ProductsNoCategory > 0 {
		log.Warn().Int64("products", c.ProductsNoCategory).Msg("products without category")
	}
	if c.MisspelledDelivered > 0 {
		// diagnostic only: the fact view matches the correctly spelled status
		log.Warn().Int64("orders", c.MisspelledDelivered).Msg("orders with misspelled 'deliverd' status")
	}
	return c, nil
}
