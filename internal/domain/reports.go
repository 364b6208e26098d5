package domain

import "time"

type MonthlyKPI struct {
	Month       time.Time `json:"month"`
	TotalOrders int       `json:"total_orders"`
	Revenue     float64   `json:"revenue"`
	AOV         float64   `json:"aov"`
}

type CustomerStats struct {
	CustomerUID  string  `json:"customer_uid"`
	OrderCount   int     `json:"order_count"`
	TotalRevenue float64 `json:"total_revenue"`
}

// RetentionCell counts a cohort's customers active in a given month.
// MonthNumber is whole calendar months elapsed since the cohort month. The
// retention rate (ActiveCustomers / cohort size) is derived by the consumer,
// never stored here.
type RetentionCell struct {
	CohortMonth     time.Time `json:"cohort_month"`
	ActivityMonth   time.Time `json:"activity_month"`
	MonthNumber     int       `json:"month_number"`
	ActiveCustomers int       `json:"active_customers"`
}

type CohortSize struct {
	CohortMonth time.Time `json:"cohort_month"`
	Customers   int       `json:"customers"`
}

// RetentionMatrix is ordered by cohort month asc, then month number asc, the
// order a retention triangle renders in.
type RetentionMatrix struct {
	Cells   []RetentionCell `json:"cells"`
	Cohorts []CohortSize    `json:"cohorts"`
}

type CategoryRevenue struct {
	Category string  `json:"category"`
	Revenue  float64 `json:"revenue"`
	Orders   int     `json:"orders"`
}

// DecileBucket is one of ten equal-sized customer buckets ranked by total
// revenue; decile 1 holds the highest-revenue customers.
type DecileBucket struct {
	Decile    int     `json:"decile"`
	Customers int     `json:"customers"`
	Revenue   float64 `json:"revenue"`
}

type OrderFrequency struct {
	OrderCount int `json:"order_count"`
	Customers  int `json:"customers"`
}

type QualityCounts struct {
	DeliveredNoTimestamp  int64 `json:"delivered_no_timestamp"`
	ItemsMissingOrder     int64 `json:"items_missing_order"`
	ItemsMissingProduct   int64 `json:"items_missing_product"`
	OrdersMissingCustomer int64 `json:"orders_missing_customer"`
	ProductsNoCategory    int64 `json:"products_no_category"`
	CustomersNoDelivered  int64 `json:"customers_no_delivered"`
	MisspelledDelivered   int64 `json:"misspelled_delivered"`
}
