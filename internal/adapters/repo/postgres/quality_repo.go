package postgres

import (
	"context"

	"gorm.io/gorm"

	"github.com/ftoledo/olistmetrics/internal/domain"
)

type QualityRepo struct{ db *gorm.DB }

func NewQualityRepo(db *gorm.DB) *QualityRepo { return &QualityRepo{db: db} }

// QualityCounts probes the base tables for the rows the fact view silently
// drops or that look suspicious. Each probe is independent; the first failing
// one aborts only this report.
func (r *QualityRepo) QualityCounts(ctx context.Context) (domain.QualityCounts, error) {
	var c domain.QualityCounts
	db := r.db.WithContext(ctx)
	delivered := string(domain.OrderStatusDelivered)

	if err := db.Model(&domain.Order{}).
		Where("status = ? AND delivered_at IS NULL", delivered).
		Count(&c.DeliveredNoTimestamp).Error; err != nil {
		return domain.QualityCounts{}, err
	}
	if err := db.Raw(`
		SELECT COUNT(*) FROM order_items oi
		LEFT JOIN orders o ON o.order_id = oi.order_id
		WHERE o.order_id IS NULL
	`).Scan(&c.ItemsMissingOrder).Error; err != nil {
		return domain.QualityCounts{}, err
	}
	if err := db.Raw(`
		SELECT COUNT(*) FROM order_items oi
		LEFT JOIN products p ON p.product_id = oi.product_id
		WHERE p.product_id IS NULL
	`).Scan(&c.ItemsMissingProduct).Error; err != nil {
		return domain.QualityCounts{}, err
	}
	if err := db.Raw(`
		SELECT COUNT(*) FROM orders o
		LEFT JOIN customers c ON c.customer_id = o.customer_id
		WHERE c.customer_id IS NULL
	`).Scan(&c.OrdersMissingCustomer).Error; err != nil {
		return domain.QualityCounts{}, err
	}
	if err := db.Model(&domain.Product{}).
		Where("category_name IS NULL OR category_name = ''").
		Count(&c.ProductsNoCategory).Error; err != nil {
		return domain.QualityCounts{}, err
	}
	if err := db.Raw(`
		SELECT COUNT(*) FROM (
			SELECT c.customer_uid
			FROM customers c
			LEFT JOIN orders o ON o.customer_id = c.customer_id AND o.status = ?
			GROUP BY c.customer_uid
			HAVING COUNT(o.order_id) = 0
		) q
	`, delivered).Scan(&c.CustomersNoDelivered).Error; err != nil {
		return domain.QualityCounts{}, err
	}
	// one-off probe for the misspelling seen in the source data; it is never
	// treated as delivered
	if err := db.Model(&domain.Order{}).
		Where("status = ?", "deliverd").
		Count(&c.MisspelledDelivered).Error; err != nil {
		return domain.QualityCounts{}, err
	}
	return c, nil
}
