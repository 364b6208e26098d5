package postgres

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/ftoledo/olistmetrics/internal/domain"
)

type FactRepo struct{ db *gorm.DB }

func NewFactRepo(db *gorm.DB) *FactRepo { return &FactRepo{db: db} }

type factRow struct {
	OrderID             string
	CustomerUID         string
	PurchasedAt         time.Time
	ProductID           string
	Price               float64
	FreightValue        float64
	CategoryName        string
	CategoryNameEnglish string
}

// DeliveredItems materializes the fact view: one row per item of a delivered
// order. Inner joins drop orphaned references; the quality report counts them.
// The status match is exact, so the known "deliverd" rows never qualify.
func (r *FactRepo) DeliveredItems(ctx context.Context) ([]domain.DeliveredItem, error) {
	var rows []factRow
	err := r.db.WithContext(ctx).Raw(`
		SELECT oi.order_id,
		       c.customer_uid,
		       o.purchased_at,
		       oi.product_id,
		       oi.price,
		       oi.freight_value,
		       COALESCE(p.category_name, '') AS category_name,
		       COALESCE(t.category_name_english, '') AS category_name_english
		FROM order_items oi
		INNER JOIN orders o ON o.order_id = oi.order_id
		INNER JOIN customers c ON c.customer_id = o.customer_id
		LEFT JOIN products p ON p.product_id = oi.product_id
		LEFT JOIN category_translations t ON t.category_name = p.category_name
		WHERE o.status = ?
		ORDER BY o.purchased_at ASC, oi.order_id ASC, oi.item_seq ASC
	`, string(domain.OrderStatusDelivered)).Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	items := make([]domain.DeliveredItem, 0, len(rows))
	for _, row := range rows {
		items = append(items, domain.DeliveredItem{
			OrderID:      row.OrderID,
			CustomerUID:  row.CustomerUID,
			PurchasedAt:  row.PurchasedAt,
			ProductID:    row.ProductID,
			Price:        row.Price,
			FreightValue: row.FreightValue,
			Category:     domain.CategoryLabel(row.CategoryNameEnglish, row.CategoryName),
		})
	}
	return items, nil
}
