package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// SaleReturn es la devolución (total o parcial) de una venta.
type SaleReturn struct {
	ID          string
	CompanyID   string
	SaleID      string
	WarehouseID string
	UserID      string
	Reason      string
	Total       decimal.Decimal
	Items       []SaleReturnItem
	CreatedAt   time.Time
}

// SaleReturnItem línea devuelta, referida a la línea original de la venta.
type SaleReturnItem struct {
	ID            string
	ReturnID      string
	SaleItemID    string
	ProductID     string
	SellingUnitID string
	Quantity      decimal.Decimal
	BaseQuantity  decimal.Decimal
	Amount        decimal.Decimal
}
