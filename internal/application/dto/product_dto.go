package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/caja-api/internal/domain/units"
)

// SellingUnitRequest unidad de venta adicional; si no se envían se generan las del modo de venta.
type SellingUnitRequest struct {
	Name  string          `json:"name" validate:"required,max=60"`
	Kind  string          `json:"kind" validate:"required,oneof=unit packet carton"`
	Price decimal.Decimal `json:"price"`
}

// CreateProductRequest entrada para crear un producto.
type CreateProductRequest struct {
	SKU              string               `json:"sku" validate:"required,min=1,max=100"`
	Name             string               `json:"name" validate:"required,min=1,max=200"`
	UnitsPerPacket   int64                `json:"units_per_packet" validate:"required,min=1"`
	PacketsPerCarton int64                `json:"packets_per_carton" validate:"required,min=1"`
	UnitPrice        decimal.Decimal      `json:"unit_price"`
	PacketPrice      decimal.Decimal      `json:"packet_price"`
	CartonPrice      decimal.Decimal      `json:"carton_price"`
	SellingMode      string               `json:"selling_mode" validate:"omitempty,oneof=full cartonUnit cartonOnly"`
	ReorderLevel     decimal.Decimal      `json:"reorder_level"`
	ExpiryDate       *time.Time           `json:"expiry_date,omitempty"`
	SellingUnits     []SellingUnitRequest `json:"selling_units,omitempty" validate:"omitempty,dive"`
}

// SellingUnitResponse unidad de venta con su precio efectivo.
type SellingUnitResponse struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	Kind           string          `json:"kind"`
	UnitsPerParent int64           `json:"units_per_parent"`
	IsBase         bool            `json:"is_base"`
	Price          decimal.Decimal `json:"price"`
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID               string                `json:"id"`
	CompanyID        string                `json:"company_id"`
	SKU              string                `json:"sku"`
	Name             string                `json:"name"`
	UnitsPerPacket   int64                 `json:"units_per_packet"`
	PacketsPerCarton int64                 `json:"packets_per_carton"`
	UnitPrice        decimal.Decimal       `json:"unit_price"`
	PacketPrice      decimal.Decimal       `json:"packet_price"`
	CartonPrice      decimal.Decimal       `json:"carton_price"`
	Cost             decimal.Decimal       `json:"cost"`
	SellingMode      string                `json:"selling_mode"`
	ReorderLevel     decimal.Decimal       `json:"reorder_level"`
	ExpiryDate       *time.Time            `json:"expiry_date,omitempty"`
	SellingUnits     []SellingUnitResponse `json:"selling_units"`
	CreatedAt        time.Time             `json:"created_at"`
	UpdatedAt        time.Time             `json:"updated_at"`
}

// ProductListResponse lista paginada de productos.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}

// ConvertResponse cantidad expresada en unidad base y desglose.
type ConvertResponse struct {
	ProductID string          `json:"product_id"`
	Kind      string          `json:"kind"`
	Quantity  decimal.Decimal `json:"quantity"`
	Base      decimal.Decimal `json:"base"`
	Breakdown units.Breakdown `json:"breakdown"`
}
