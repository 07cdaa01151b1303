package entity

import "time"

// Supplier proveedor de mercancía.
type Supplier struct {
	ID        string
	CompanyID string
	Name      string
	TaxID     string
	CreatedAt time.Time
}
