package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una deuda de cliente.
const (
	DebtStatusOpen    = "open"
	DebtStatusSettled = "settled"
)

// CustomerDebt saldo pendiente originado por una venta con pago parcial.
type CustomerDebt struct {
	ID         string
	CompanyID  string
	CustomerID string
	SaleID     string
	Amount     decimal.Decimal
	Paid       decimal.Decimal
	Balance    decimal.Decimal
	Status     string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// DebtPayment abono a una deuda.
type DebtPayment struct {
	ID        string
	DebtID    string
	Amount    decimal.Decimal
	Method    string
	CreatedAt time.Time
}
