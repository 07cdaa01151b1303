package entity

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/caja-api/internal/domain/units"
)

// Tipos de documento de compra.
const (
	PurchaseKindReceipt = "receipt" // recepción de mercancía del proveedor
	PurchaseKindReturn  = "return"  // devolución al proveedor
)

// Purchase es una recepción o devolución de mercancía de proveedor.
type Purchase struct {
	ID          string
	CompanyID   string
	SupplierID  string
	WarehouseID string
	UserID      string
	Kind        string
	Number      string
	Total       decimal.Decimal
	Items       []PurchaseItem
	CreatedAt   time.Time
}

// PurchaseItem línea de compra; UnitCost es por unidad de Kind.
type PurchaseItem struct {
	ID           string
	PurchaseID   string
	ProductID    string
	Kind         units.Kind
	Quantity     decimal.Decimal
	BaseQuantity decimal.Decimal
	UnitCost     decimal.Decimal
	Subtotal     decimal.Decimal
}
