package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados derivados del inventario.
const (
	InventoryStatusAvailable  = "available"
	InventoryStatusLow        = "low"
	InventoryStatusOutOfStock = "out_of_stock"
)

// Inventory es el stock de un producto en una bodega, en unidades base.
// Se modifica exclusivamente dentro de la transacción de ajuste de stock.
type Inventory struct {
	ID                string
	CompanyID         string
	ProductID         string
	WarehouseID       string
	StockQuantity     decimal.Decimal // total en propiedad
	ReservedQuantity  decimal.Decimal // apartado para pedidos no despachados
	AvailableQuantity decimal.Decimal // stock - reservado
	ReorderLevel      decimal.Decimal
	Status            string
	Version           int64 // +1 en cada escritura; base del ETag
	UpdatedAt         time.Time
}

// Clone devuelve una copia independiente.
func (i *Inventory) Clone() *Inventory {
	c := *i
	return &c
}
