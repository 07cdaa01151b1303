package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// DiscountRequest descuento a nivel carrito.
type DiscountRequest struct {
	Type  string          `json:"type" validate:"omitempty,oneof=fixed percentage"`
	Value decimal.Decimal `json:"value"`
}

// CheckoutItemRequest línea a vender en una unidad de venta.
type CheckoutItemRequest struct {
	ProductID     string          `json:"product_id" validate:"required"`
	SellingUnitID string          `json:"selling_unit_id" validate:"required"`
	Quantity      decimal.Decimal `json:"quantity"`
}

// CheckoutRequest body para POST /api/sales. Los totales se recalculan en el servidor.
type CheckoutRequest struct {
	WarehouseID    string                `json:"warehouse_id" validate:"required"`
	CustomerID     string                `json:"customer_id,omitempty"`
	SaleNumber     string                `json:"sale_number,omitempty"`
	Items          []CheckoutItemRequest `json:"items" validate:"required,min=1,dive"`
	Discount       DiscountRequest       `json:"discount"`
	ReceivedAmount decimal.Decimal       `json:"received_amount"`
	PaymentMethod  string                `json:"payment_method" validate:"required,oneof=cash card transfer"`
}

// SaleItemResponse línea congelada de una venta.
type SaleItemResponse struct {
	ID            string          `json:"id"`
	ProductID     string          `json:"product_id"`
	SellingUnitID string          `json:"selling_unit_id"`
	UnitName      string          `json:"unit_name"`
	Quantity      decimal.Decimal `json:"quantity"`
	BaseQuantity  decimal.Decimal `json:"base_quantity"`
	UnitPrice     decimal.Decimal `json:"unit_price"`
	Subtotal      decimal.Decimal `json:"subtotal"`
}

// PaymentResponse pago registrado.
type PaymentResponse struct {
	Method string          `json:"method"`
	Amount decimal.Decimal `json:"amount"`
}

// SaleResponse venta en respuestas.
type SaleResponse struct {
	ID             string             `json:"id"`
	SaleNumber     string             `json:"sale_number"`
	WarehouseID    string             `json:"warehouse_id"`
	CashierID      string             `json:"cashier_id"`
	CustomerID     string             `json:"customer_id,omitempty"`
	Subtotal       decimal.Decimal    `json:"subtotal"`
	DiscountType   string             `json:"discount_type,omitempty"`
	DiscountValue  decimal.Decimal    `json:"discount_value"`
	DiscountAmount decimal.Decimal    `json:"discount_amount"`
	Total          decimal.Decimal    `json:"total"`
	ReceivedAmount decimal.Decimal    `json:"received_amount"`
	Change         decimal.Decimal    `json:"change"`
	AmountDue      decimal.Decimal    `json:"amount_due"`
	Status         string             `json:"status"`
	Items          []SaleItemResponse `json:"items"`
	Payments       []PaymentResponse  `json:"payments"`
	CreatedAt      time.Time          `json:"created_at"`
}

// SaleListResponse lista paginada de ventas.
type SaleListResponse struct {
	Items []SaleResponse `json:"items"`
	Page  PageResponse   `json:"page"`
}

// CheckoutResponse resultado de una venta confirmada.
type CheckoutResponse struct {
	Sale             SaleResponse        `json:"sale"`
	Debt             *DebtResponse       `json:"debt,omitempty"`
	UpdatedInventory []InventoryResponse `json:"updated_inventory"`
	UpdatedProducts  []ProductResponse   `json:"updated_products"`
}

// ReturnItemRequest cantidad a devolver de una línea de venta, en la unidad de la línea.
type ReturnItemRequest struct {
	SaleItemID string          `json:"sale_item_id" validate:"required"`
	Quantity   decimal.Decimal `json:"quantity"`
}

// ReturnRequest body para POST /api/sales/:id/returns.
type ReturnRequest struct {
	Items        []ReturnItemRequest `json:"items" validate:"required,min=1,dive"`
	Reason       string              `json:"reason" validate:"max=255"`
	RefundMethod string              `json:"refund_method" validate:"omitempty,oneof=cash card transfer"`
}

// ReturnResponse devolución registrada.
type ReturnResponse struct {
	ID               string              `json:"id"`
	SaleID           string              `json:"sale_id"`
	Total            decimal.Decimal     `json:"total"`
	DebtReduced      decimal.Decimal     `json:"debt_reduced"`
	Refund           decimal.Decimal     `json:"refund"`
	RefundMethod     string              `json:"refund_method,omitempty"`
	UpdatedInventory []InventoryResponse `json:"updated_inventory"`
	CreatedAt        time.Time           `json:"created_at"`
}

// DebtResponse deuda de cliente.
type DebtResponse struct {
	ID         string          `json:"id"`
	CustomerID string          `json:"customer_id"`
	SaleID     string          `json:"sale_id"`
	Amount     decimal.Decimal `json:"amount"`
	Paid       decimal.Decimal `json:"paid"`
	Balance    decimal.Decimal `json:"balance"`
	Status     string          `json:"status"`
	CreatedAt  time.Time       `json:"created_at"`
}

// PayDebtRequest body para POST /api/debts/:id/payments.
type PayDebtRequest struct {
	Amount decimal.Decimal `json:"amount"`
	Method string          `json:"method" validate:"required,oneof=cash card transfer"`
}
