package repository

import (
	"context"

	"github.com/jhoicas/caja-api/internal/domain/entity"
)

// PurchaseRepository define el puerto de persistencia para recepciones y devoluciones a proveedor.
type PurchaseRepository interface {
	Create(ctx context.Context, purchase *entity.Purchase) error
	GetByID(ctx context.Context, companyID, id string) (*entity.Purchase, error)
}

// SupplierRepository define el puerto de persistencia para Supplier.
type SupplierRepository interface {
	Create(ctx context.Context, supplier *entity.Supplier) error
	GetByID(ctx context.Context, id string) (*entity.Supplier, error)
	ListByCompany(ctx context.Context, companyID string, limit, offset int) ([]*entity.Supplier, error)
}
