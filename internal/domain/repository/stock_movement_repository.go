package repository

import (
	"context"
	"time"

	"github.com/jhoicas/caja-api/internal/domain/entity"
)

// MovementFilter criterios de consulta de la bitácora de movimientos.
type MovementFilter struct {
	CompanyID     string
	ProductID     string
	WarehouseID   string
	ReferenceType string
	ReferenceID   string
	From          *time.Time
	To            *time.Time
	Limit         int
	Offset        int
}

// StockMovementRepository define el puerto de persistencia para movimientos de inventario (DIP).
// Solo inserción y lectura: la bitácora es inmutable.
type StockMovementRepository interface {
	Create(ctx context.Context, movement *entity.StockMovement) error
	List(ctx context.Context, filter MovementFilter) ([]*entity.StockMovement, error)
}
