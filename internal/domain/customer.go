package domain

// CustomerID identifies one checkout and changes on every order; CustomerUID is
// the durable person identifier. Any same-person-across-orders analysis joins on
// CustomerUID, never CustomerID.
type Customer struct {
	CustomerID  string `gorm:"size:32;primaryKey"`
	CustomerUID string `gorm:"size:32;index"`
	ZipPrefix   string `gorm:"size:8"`
	City        string `gorm:"size:80"`
	State       string `gorm:"size:4"`
}
