package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/caja-api/internal/domain/entity"
)

// ProductRepository define el puerto de persistencia para Product y sus unidades de venta (DIP).
type ProductRepository interface {
	// Create guarda el producto junto con sus SellingUnits.
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	GetByCompanyAndSKU(ctx context.Context, companyID, sku string) (*entity.Product, error)
	UpdateCost(ctx context.Context, productID string, cost decimal.Decimal) error
	ListByCompany(ctx context.Context, companyID string, limit, offset int) ([]*entity.Product, error)
}
