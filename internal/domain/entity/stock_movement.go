package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de movimiento de inventario.
const (
	MovementTypeIn  = "in"  // entrada
	MovementTypeOut = "out" // salida
)

// Documentos que originan un movimiento.
const (
	ReferenceSale           = "sale"
	ReferenceSaleReturn     = "sale_return"
	ReferencePurchase       = "purchase"
	ReferencePurchaseReturn = "purchase_return"
	ReferenceAdjustment     = "adjustment"
	ReferenceReservation    = "reservation"
)

// StockMovement es el registro de auditoría de un cambio de inventario. Nunca se actualiza ni borra.
type StockMovement struct {
	ID             string          `db:"id"`
	CompanyID      string          `db:"company_id"`
	ProductID      string          `db:"product_id"`
	WarehouseID    string          `db:"warehouse_id"`
	UserID         string          `db:"user_id"`
	Type           string          `db:"type"`     // in, out
	Quantity       decimal.Decimal `db:"quantity"` // siempre positiva, unidades base
	Reason         string          `db:"reason"`
	QuantityBefore decimal.Decimal `db:"quantity_before"`
	QuantityAfter  decimal.Decimal `db:"quantity_after"`
	ReferenceType  string          `db:"reference_type"`
	ReferenceID    string          `db:"reference_id"`
	UnitCost       decimal.Decimal `db:"unit_cost"`
	CreatedAt      time.Time       `db:"created_at"`
}
