package sales

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/caja-api/internal/domain/entity"
	"github.com/jhoicas/caja-api/internal/domain/repository"
)

// TxRunner ejecuta fn dentro de una transacción; Rollback si fn devuelve error.
type TxRunner interface {
	Run(ctx context.Context, fn func(repos repository.TxRepos) error) error
}

// ReceiptLine línea del comprobante ya resuelta con nombres.
type ReceiptLine struct {
	ProductName string
	UnitName    string
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal
	Subtotal    decimal.Decimal
}

// ReceiptGenerator genera el comprobante de venta (PDF).
// customer puede ser nil en ventas de contado sin cliente.
type ReceiptGenerator interface {
	GenerateReceipt(
		ctx context.Context,
		sale *entity.Sale,
		warehouse *entity.Warehouse,
		customer *entity.Customer,
		lines []ReceiptLine,
	) ([]byte, error)
}
