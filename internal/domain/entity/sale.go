package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una venta.
const (
	SaleStatusPaid    = "paid"
	SaleStatusPartial = "partial" // con saldo a cargo del cliente
)

// Métodos de pago aceptados.
const (
	PaymentCash     = "cash"
	PaymentCard     = "card"
	PaymentTransfer = "transfer"
)

// Tipos de descuento a nivel carrito.
const (
	DiscountFixed      = "fixed"
	DiscountPercentage = "percentage"
)

// Sale es la cabecera de una venta de caja.
type Sale struct {
	ID             string          `db:"id"`
	CompanyID      string          `db:"company_id"`
	WarehouseID    string          `db:"warehouse_id"`
	SaleNumber     string          `db:"sale_number"`
	CashierID      string          `db:"cashier_id"`
	CustomerID     string          `db:"customer_id"`
	Subtotal       decimal.Decimal `db:"subtotal"`
	DiscountType   string          `db:"discount_type"`
	DiscountValue  decimal.Decimal `db:"discount_value"`
	DiscountAmount decimal.Decimal `db:"discount_amount"`
	Total          decimal.Decimal `db:"total"`
	ReceivedAmount decimal.Decimal `db:"received_amount"`
	Change         decimal.Decimal `db:"change_amount"`
	AmountDue      decimal.Decimal `db:"amount_due"`
	Status         string          `db:"status"`
	CreatedAt      time.Time       `db:"created_at"`
	Items          []SaleItem      `db:"-"`
	Payments       []Payment       `db:"-"`
}

// SaleItem congela cantidad, unidad y precio al momento de la venta.
type SaleItem struct {
	ID            string
	SaleID        string
	ProductID     string
	SellingUnitID string
	UnitName      string
	Quantity      decimal.Decimal // en la unidad de venta
	BaseQuantity  decimal.Decimal
	UnitPrice     decimal.Decimal
	Subtotal      decimal.Decimal
}

// Payment registra el medio y el monto pagado.
type Payment struct {
	ID        string
	SaleID    string
	Method    string
	Amount    decimal.Decimal
	CreatedAt time.Time
}

// RoundMoney aplica el único redondeo monetario: 2 decimales al persistir.
func RoundMoney(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}
