package repository

import (
	"context"

	"github.com/jhoicas/caja-api/internal/domain/entity"
)

// InventoryRepository define el puerto para el stock por (empresa, producto, bodega).
// Get y GetForUpdate devuelven domain.ErrInventoryNotFound si la fila no existe.
type InventoryRepository interface {
	Get(ctx context.Context, companyID, productID, warehouseID string) (*entity.Inventory, error)
	// GetForUpdate bloquea la fila hasta el fin de la transacción (SELECT ... FOR UPDATE).
	GetForUpdate(ctx context.Context, companyID, productID, warehouseID string) (*entity.Inventory, error)
	Create(ctx context.Context, inv *entity.Inventory) error
	Update(ctx context.Context, inv *entity.Inventory) error
	ListByProduct(ctx context.Context, companyID, productID string) ([]*entity.Inventory, error)
	// ListLowStock devuelve filas en estado low u out_of_stock; warehouseID vacío = todas las bodegas.
	ListLowStock(ctx context.Context, companyID, warehouseID string) ([]*entity.Inventory, error)
}
