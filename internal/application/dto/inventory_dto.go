package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/caja-api/internal/domain/units"
)

// InventoryResponse stock de un producto en una bodega.
type InventoryResponse struct {
	ProductID         string           `json:"product_id"`
	WarehouseID       string           `json:"warehouse_id"`
	StockQuantity     decimal.Decimal  `json:"stock_quantity"`
	ReservedQuantity  decimal.Decimal  `json:"reserved_quantity"`
	AvailableQuantity decimal.Decimal  `json:"available_quantity"`
	ReorderLevel      decimal.Decimal  `json:"reorder_level"`
	Status            string           `json:"status"`
	Version           int64            `json:"version"`
	Breakdown         units.Breakdown  `json:"breakdown"`                   // disponible en unidad/paquete/caja
	AvailableByUnit   map[string]int64 `json:"available_by_unit,omitempty"` // unidades completas por unidad de venta
	UpdatedAt         time.Time        `json:"updated_at"`
}

// MovementResponse fila de la bitácora de movimientos.
type MovementResponse struct {
	ID             string          `json:"id"`
	ProductID      string          `json:"product_id"`
	WarehouseID    string          `json:"warehouse_id"`
	UserID         string          `json:"user_id"`
	Type           string          `json:"type"`
	Quantity       decimal.Decimal `json:"quantity"`
	Reason         string          `json:"reason"`
	QuantityBefore decimal.Decimal `json:"quantity_before"`
	QuantityAfter  decimal.Decimal `json:"quantity_after"`
	ReferenceType  string          `json:"reference_type"`
	ReferenceID    string          `json:"reference_id,omitempty"`
	UnitCost       decimal.Decimal `json:"unit_cost"`
	CreatedAt      time.Time       `json:"created_at"`
}

// AdjustmentRequest body para POST /api/inventory/adjustments.
type AdjustmentRequest struct {
	ProductID   string          `json:"product_id" validate:"required"`
	WarehouseID string          `json:"warehouse_id" validate:"required"`
	Type        string          `json:"type" validate:"required,oneof=in out"`
	Unit        string          `json:"unit" validate:"omitempty,oneof=unit packet carton"`
	Quantity    decimal.Decimal `json:"quantity"`
	Reason      string          `json:"reason" validate:"max=255"`
}

// ReservationRequest body para reservar, liberar o despachar una reserva.
type ReservationRequest struct {
	WarehouseID string             `json:"warehouse_id" validate:"required"`
	ReferenceID string             `json:"reference_id" validate:"required"`
	Items       []StockLineRequest `json:"items" validate:"required,min=1,dive"`
}

// StockLineRequest cantidad de un producto en una unidad (unit, packet, carton).
type StockLineRequest struct {
	ProductID string          `json:"product_id" validate:"required"`
	Unit      string          `json:"unit" validate:"omitempty,oneof=unit packet carton"`
	Quantity  decimal.Decimal `json:"quantity"`
}

// StockChangeResponse resultado de un ajuste confirmado.
type StockChangeResponse struct {
	Inventory []InventoryResponse `json:"inventory"`
	Movements []MovementResponse  `json:"movements"`
}

// MovementListResponse lista paginada de movimientos.
type MovementListResponse struct {
	Items []MovementResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}

// ReplenishmentSuggestionDTO sugerencia de reposición para un producto en estado low u out_of_stock.
type ReplenishmentSuggestionDTO struct {
	ProductID          string          `json:"product_id"`
	SKU                string          `json:"sku"`
	ProductName        string          `json:"product_name"`
	WarehouseID        string          `json:"warehouse_id"`
	Status             string          `json:"status"`
	CurrentStock       decimal.Decimal `json:"current_stock"`
	ReorderPoint       decimal.Decimal `json:"reorder_point"`
	IdealStock         decimal.Decimal `json:"ideal_stock"`          // ReorderPoint * 1.5
	SuggestedOrderQty  decimal.Decimal `json:"suggested_order_qty"`  // IdealStock - CurrentStock
	SuggestedCartons   decimal.Decimal `json:"suggested_cartons"`    // SuggestedOrderQty expresado en cajas
	UnitCost           decimal.Decimal `json:"unit_cost"`            // costo promedio ponderado
	EstimatedOrderCost decimal.Decimal `json:"estimated_order_cost"` // SuggestedOrderQty * UnitCost
	Priority           int             `json:"priority"`             // 1 = más urgente
}
