// Package sales implementa la frontera de cobro: venta, devolución, deudas de
// clientes y comprobante. El stock solo se toca a través de inventory.StockEngine.
package sales

import (
	"context"
	"time"

	"github.com/jhoicas/caja-api/internal/application/inventory"
	"github.com/jhoicas/caja-api/internal/application/ports"
	"github.com/jhoicas/caja-api/internal/domain"
	"github.com/jhoicas/caja-api/internal/domain/entity"
	"github.com/jhoicas/caja-api/internal/domain/repository"
	"github.com/jhoicas/caja-api/pkg/logger"
)

// UseCase ventas, devoluciones y cobro de deudas.
type UseCase struct {
	txRunner      TxRunner
	engine        *inventory.StockEngine
	notifier      *inventory.Notifier
	productRepo   repository.ProductRepository
	warehouseRepo repository.WarehouseRepository
	customerRepo  repository.CustomerRepository
	saleRepo      repository.SaleRepository
	returnRepo    repository.SaleReturnRepository
	debtRepo      repository.CustomerDebtRepository
	numbers       ports.SaleNumberGenerator
	receipts      ReceiptGenerator
	log           *logger.Logger
	now           func() time.Time
}

// NewUseCase construye el caso de uso.
func NewUseCase(
	txRunner TxRunner,
	engine *inventory.StockEngine,
	notifier *inventory.Notifier,
	productRepo repository.ProductRepository,
	warehouseRepo repository.WarehouseRepository,
	customerRepo repository.CustomerRepository,
	saleRepo repository.SaleRepository,
	returnRepo repository.SaleReturnRepository,
	debtRepo repository.CustomerDebtRepository,
	numbers ports.SaleNumberGenerator,
	receipts ReceiptGenerator,
	log *logger.Logger,
) *UseCase {
	return &UseCase{
		txRunner:      txRunner,
		engine:        engine,
		notifier:      notifier,
		productRepo:   productRepo,
		warehouseRepo: warehouseRepo,
		customerRepo:  customerRepo,
		saleRepo:      saleRepo,
		returnRepo:    returnRepo,
		debtRepo:      debtRepo,
		numbers:       numbers,
		receipts:      receipts,
		log:           log.Component("sales"),
		now:           time.Now,
	}
}

func (uc *UseCase) warehouse(ctx context.Context, companyID, warehouseID string) (*entity.Warehouse, error) {
	if warehouseID == "" {
		return nil, domain.Invalid("warehouse_id", "requerido")
	}
	wh, err := uc.warehouseRepo.GetByID(ctx, warehouseID)
	if err != nil {
		return nil, err
	}
	if wh.CompanyID != companyID {
		return nil, domain.ErrNotFound
	}
	return wh, nil
}

func (uc *UseCase) customer(ctx context.Context, companyID, customerID string) (*entity.Customer, error) {
	c, err := uc.customerRepo.GetByID(ctx, customerID)
	if err != nil {
		return nil, err
	}
	if c.CompanyID != companyID {
		return nil, domain.ErrNotFound
	}
	return c, nil
}

func validPaymentMethod(m string) bool {
	switch m {
	case entity.PaymentCash, entity.PaymentCard, entity.PaymentTransfer:
		return true
	}
	return false
}
