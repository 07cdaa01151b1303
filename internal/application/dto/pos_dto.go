package dto

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/caja-api/internal/domain/cart"
)

// OpenSessionRequest body para POST /api/pos/sessions.
type OpenSessionRequest struct {
	WarehouseID string `json:"warehouse_id" validate:"required"`
}

// CartResponse carrito con sus totales.
type CartResponse struct {
	ID       string        `json:"id"`
	Name     string        `json:"name"`
	Items    []cart.Item   `json:"items"`
	Discount cart.Discount `json:"discount"`
	Totals   cart.Totals   `json:"totals"`
}

// SessionResponse estado de una sesión de caja.
type SessionResponse struct {
	ID           string         `json:"id"`
	WarehouseID  string         `json:"warehouse_id"`
	ActiveCartID string         `json:"active_cart_id,omitempty"`
	Carts        []CartResponse `json:"carts"`
}

// CreateCartRequest body para POST /api/pos/sessions/:id/carts.
type CreateCartRequest struct {
	Name string `json:"name" validate:"max=60"`
}

// AddItemRequest body para POST /api/pos/sessions/:id/items.
type AddItemRequest struct {
	ProductID     string `json:"product_id" validate:"required"`
	SellingUnitID string `json:"selling_unit_id" validate:"required"`
}

// AddItemResponse resultado de agregar al carrito; rejected no es un error.
type AddItemResponse struct {
	Outcome string          `json:"outcome"`
	Session SessionResponse `json:"session"`
}

// UpdateQtyRequest body para PATCH /api/pos/sessions/:id/items/:productId/:unitId.
type UpdateQtyRequest struct {
	Delta     int64  `json:"delta" validate:"min=1"`
	Direction string `json:"direction" validate:"required,oneof=plus minus"`
}

// ChangeUnitRequest body para cambiar la unidad de venta de una línea.
type ChangeUnitRequest struct {
	ToUnitID string `json:"to_unit_id" validate:"required"`
}

// SessionCheckoutRequest cobra el carrito activo de la sesión.
type SessionCheckoutRequest struct {
	CustomerID     string          `json:"customer_id,omitempty"`
	SaleNumber     string          `json:"sale_number,omitempty"`
	ReceivedAmount decimal.Decimal `json:"received_amount"`
	PaymentMethod  string          `json:"payment_method" validate:"required,oneof=cash card transfer"`
}

// SessionStockResponse disponibilidad proyectada de un producto en la sesión.
type SessionStockResponse struct {
	ProductID string           `json:"product_id"`
	Version   int64            `json:"version"`
	Available map[string]int64 `json:"available"`
}
