package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/caja-api/internal/domain/entity"
)

// SaleFilter criterios de listado de ventas.
type SaleFilter struct {
	CompanyID  string
	CashierID  string
	CustomerID string
	Status     string
	From       *time.Time
	To         *time.Time
	Limit      int
	Offset     int
}

// SaleRepository define el puerto de persistencia para Sale, SaleItem y Payment.
type SaleRepository interface {
	// Create guarda cabecera, líneas y pagos.
	Create(ctx context.Context, sale *entity.Sale) error
	// GetByID devuelve la venta con líneas y pagos.
	GetByID(ctx context.Context, companyID, id string) (*entity.Sale, error)
	List(ctx context.Context, filter SaleFilter) ([]*entity.Sale, error)
}

// SaleReturnRepository define el puerto de persistencia para devoluciones de venta.
type SaleReturnRepository interface {
	Create(ctx context.Context, ret *entity.SaleReturn) error
	ListBySale(ctx context.Context, companyID, saleID string) ([]*entity.SaleReturn, error)
	// ReturnedQuantities suma lo ya devuelto por línea de venta, en la unidad de la línea.
	ReturnedQuantities(ctx context.Context, saleID string) (map[string]decimal.Decimal, error)
}
