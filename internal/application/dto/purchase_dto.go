package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// PurchaseItemRequest línea de compra; UnitCost es por unidad de Unit.
type PurchaseItemRequest struct {
	ProductID string          `json:"product_id" validate:"required"`
	Unit      string          `json:"unit" validate:"omitempty,oneof=unit packet carton"`
	Quantity  decimal.Decimal `json:"quantity"`
	UnitCost  decimal.Decimal `json:"unit_cost"`
}

// PurchaseRequest body para recepciones y devoluciones a proveedor.
type PurchaseRequest struct {
	SupplierID  string                `json:"supplier_id" validate:"required"`
	WarehouseID string                `json:"warehouse_id" validate:"required"`
	Number      string                `json:"number,omitempty" validate:"max=60"`
	Items       []PurchaseItemRequest `json:"items" validate:"required,min=1,dive"`
}

// PurchaseItemResponse línea registrada.
type PurchaseItemResponse struct {
	ProductID    string          `json:"product_id"`
	Unit         string          `json:"unit"`
	Quantity     decimal.Decimal `json:"quantity"`
	BaseQuantity decimal.Decimal `json:"base_quantity"`
	UnitCost     decimal.Decimal `json:"unit_cost"`
	Subtotal     decimal.Decimal `json:"subtotal"`
}

// PurchaseResponse documento de compra registrado.
type PurchaseResponse struct {
	ID               string                 `json:"id"`
	Kind             string                 `json:"kind"`
	SupplierID       string                 `json:"supplier_id"`
	WarehouseID      string                 `json:"warehouse_id"`
	Number           string                 `json:"number"`
	Total            decimal.Decimal        `json:"total"`
	Items            []PurchaseItemResponse `json:"items"`
	UpdatedInventory []InventoryResponse    `json:"updated_inventory,omitempty"`
	CreatedAt        time.Time              `json:"created_at"`
}

// CreateSupplierRequest body para POST /api/suppliers.
type CreateSupplierRequest struct {
	Name  string `json:"name" validate:"required,min=1,max=200"`
	TaxID string `json:"tax_id" validate:"max=50"`
}

// SupplierResponse proveedor en respuestas.
type SupplierResponse struct {
	ID        string    `json:"id"`
	CompanyID string    `json:"company_id"`
	Name      string    `json:"name"`
	TaxID     string    `json:"tax_id"`
	CreatedAt time.Time `json:"created_at"`
}
