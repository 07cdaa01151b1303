package inventory

import (
	"context"

	"github.com/jhoicas/caja-api/internal/application/dto"
	"github.com/jhoicas/caja-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Si fn devuelve error se hace Rollback; si no, Commit. Garantiza atomicidad para el motor de inventario.
type TxRunner interface {
	Run(ctx context.Context, fn func(repos repository.TxRepos) error) error
}

// MovementExporter serializa movimientos a un formato descargable (xlsx).
type MovementExporter interface {
	ExportMovements(rows []dto.MovementResponse) ([]byte, error)
}
