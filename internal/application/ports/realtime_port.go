package ports

import (
	"context"

	"github.com/shopspring/decimal"
)

// Tipos de evento del canal en tiempo real.
const (
	EventStockUpdate        = "stock:update"
	EventInventoryCommitted = "inventory:committed"
)

// StockUpdate delta optimista emitido por una sesión de caja.
type StockUpdate struct {
	ProductID     string `json:"product_id"`
	WarehouseID   string `json:"warehouse_id"`
	SellingUnitID string `json:"selling_unit_id"`
	Quantity      int64  `json:"quantity"`
	Mode          string `json:"mode"` // consume | restore
}

// InventoryCommitted valor confirmado de una fila de inventario tras el commit.
type InventoryCommitted struct {
	ProductID   string          `json:"product_id"`
	WarehouseID string          `json:"warehouse_id"`
	Available   decimal.Decimal `json:"available"`
	Version     int64           `json:"version"`
}

// Event sobre del canal; Origin identifica la sesión emisora para que no se aplique dos veces.
type Event struct {
	Type        string              `json:"type"`
	CompanyID   string              `json:"company_id"`
	Origin      string              `json:"origin"`
	StockUpdate *StockUpdate        `json:"stock_update,omitempty"`
	Committed   *InventoryCommitted `json:"committed,omitempty"`
}

// EventBus define el puerto de difusión entre sesiones (mismo proceso o varios vía Redis).
// La entrega es best-effort: sin acuse ni orden garantizado.
type EventBus interface {
	Publish(ctx context.Context, ev Event) error
	// Subscribe devuelve los eventos de la empresa y una función para cancelar la suscripción.
	Subscribe(companyID string) (<-chan Event, func())
}

// SaleNumberGenerator genera números de venta únicos.
type SaleNumberGenerator interface {
	Next() string
}
