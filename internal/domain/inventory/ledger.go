// Package inventory contiene la aritmética pura del inventario: aplicar
// entradas, salidas, reservas y recalcular el estado. No hace I/O.
package inventory

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/caja-api/internal/domain"
	"github.com/jhoicas/caja-api/internal/domain/entity"
)

// Operation es el tipo de cambio que se aplica a una fila de inventario.
type Operation string

const (
	OpConsume Operation = "consume" // venta / salida: stock y disponible bajan
	OpRestore Operation = "restore" // devolución / recepción: stock y disponible suben
	OpReserve Operation = "reserve" // disponible baja, reservado sube
	OpRelease Operation = "release" // reservado baja, disponible sube
	OpFulfill Operation = "fulfill" // despacho de lo reservado: stock y reservado bajan
)

// MovementType devuelve in/out para la bitácora; reserve/release no mueven stock físico
// pero se registran como out/in del disponible.
func (op Operation) MovementType() string {
	switch op {
	case OpRestore, OpRelease:
		return entity.MovementTypeIn
	}
	return entity.MovementTypeOut
}

// Apply modifica inv según op y qty (unidades base, > 0). Si la operación no cabe
// devuelve InsufficientStockError y deja inv intacto.
func Apply(inv *entity.Inventory, op Operation, qty decimal.Decimal) error {
	if !qty.IsPositive() {
		return domain.Invalid("quantity", "debe ser mayor que cero")
	}
	switch op {
	case OpConsume, OpReserve:
		if inv.AvailableQuantity.LessThan(qty) {
			return &domain.InsufficientStockError{
				ProductID: inv.ProductID,
				Available: inv.AvailableQuantity,
				Required:  qty,
			}
		}
	case OpRelease, OpFulfill:
		if inv.ReservedQuantity.LessThan(qty) {
			return &domain.InsufficientStockError{
				ProductID: inv.ProductID,
				Available: inv.ReservedQuantity,
				Required:  qty,
			}
		}
	case OpRestore:
	default:
		return domain.Invalid("operation", "operación desconocida")
	}

	switch op {
	case OpConsume:
		inv.StockQuantity = inv.StockQuantity.Sub(qty)
	case OpRestore:
		inv.StockQuantity = inv.StockQuantity.Add(qty)
	case OpReserve:
		inv.ReservedQuantity = inv.ReservedQuantity.Add(qty)
	case OpRelease, OpFulfill:
		inv.ReservedQuantity = inv.ReservedQuantity.Sub(qty)
		if op == OpFulfill {
			inv.StockQuantity = inv.StockQuantity.Sub(qty)
		}
	}
	inv.AvailableQuantity = inv.StockQuantity.Sub(inv.ReservedQuantity)
	inv.Status = Status(inv.AvailableQuantity, inv.ReorderLevel)
	inv.Version++
	return nil
}

// Status: out_of_stock si disponible <= 0, low si <= nivel de reorden, si no available.
func Status(available, reorderLevel decimal.Decimal) string {
	if available.LessThanOrEqual(decimal.Zero) {
		return entity.InventoryStatusOutOfStock
	}
	if available.LessThanOrEqual(reorderLevel) {
		return entity.InventoryStatusLow
	}
	return entity.InventoryStatusAvailable
}

// CheckInvariants verifica 0 <= disponible <= stock, reservado >= 0 y disponible = stock - reservado.
func CheckInvariants(inv *entity.Inventory) error {
	if inv.AvailableQuantity.IsNegative() || inv.ReservedQuantity.IsNegative() {
		return domain.ErrConflict
	}
	if inv.AvailableQuantity.GreaterThan(inv.StockQuantity) {
		return domain.ErrConflict
	}
	if !inv.StockQuantity.Sub(inv.ReservedQuantity).Equal(inv.AvailableQuantity) {
		return domain.ErrConflict
	}
	return nil
}
