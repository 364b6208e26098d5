package domain

import (
	"time"
)

type OrderStatus string

const (
	OrderStatusCreated     OrderStatus = "created"
	OrderStatusApproved    OrderStatus = "approved"
	OrderStatusInvoiced    OrderStatus = "invoiced"
	OrderStatusShipped     OrderStatus = "shipped"
	OrderStatusDelivered   OrderStatus = "delivered"
	OrderStatusCancelled   OrderStatus = "canceled"
	OrderStatusUnavailable OrderStatus = "unavailable"
)

type Order struct {
	OrderID             string      `gorm:"size:32;primaryKey"`
	CustomerID          string      `gorm:"size:32;index"`
	Status              OrderStatus `gorm:"type:varchar(30);index"`
	PurchasedAt         time.Time
	ApprovedAt          *time.Time
	DeliveredAt         *time.Time
	EstimatedDeliveryAt *time.Time
}

type OrderItem struct {
	OrderID      string  `gorm:"size:32;primaryKey"`
	ItemSeq      int     `gorm:"primaryKey;autoIncrement:false"`
	ProductID    string  `gorm:"size:32;index"`
	SellerID     string  `gorm:"size:32;index"`
	Price        float64 `gorm:"type:decimal(12,2)"`
	FreightValue float64 `gorm:"type:decimal(12,2)"`
}
