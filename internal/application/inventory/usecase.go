package inventory

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/caja-api/internal/application/dto"
	"github.com/jhoicas/caja-api/internal/domain"
	"github.com/jhoicas/caja-api/internal/domain/entity"
	domaininv "github.com/jhoicas/caja-api/internal/domain/inventory"
	"github.com/jhoicas/caja-api/internal/domain/repository"
	"github.com/jhoicas/caja-api/internal/domain/units"
	"github.com/jhoicas/caja-api/pkg/logger"
)

// UseCase ajustes manuales, reservas y consultas de inventario. Toda escritura
// pasa por StockEngine dentro de una transacción.
type UseCase struct {
	txRunner      TxRunner
	engine        *StockEngine
	notifier      *Notifier
	productRepo   repository.ProductRepository
	warehouseRepo repository.WarehouseRepository
	inventoryRepo repository.InventoryRepository
	movementRepo  repository.StockMovementRepository
	exporter      MovementExporter
	log           *logger.Logger
}

// NewUseCase construye el caso de uso.
func NewUseCase(
	txRunner TxRunner,
	engine *StockEngine,
	notifier *Notifier,
	productRepo repository.ProductRepository,
	warehouseRepo repository.WarehouseRepository,
	inventoryRepo repository.InventoryRepository,
	movementRepo repository.StockMovementRepository,
	exporter MovementExporter,
	log *logger.Logger,
) *UseCase {
	return &UseCase{
		txRunner:      txRunner,
		engine:        engine,
		notifier:      notifier,
		productRepo:   productRepo,
		warehouseRepo: warehouseRepo,
		inventoryRepo: inventoryRepo,
		movementRepo:  movementRepo,
		exporter:      exporter,
		log:           log.Component("inventory"),
	}
}

// AdjustInput entrada para un ajuste manual (entrada o salida).
type AdjustInput struct {
	CompanyID   string
	UserID      string
	ProductID   string
	WarehouseID string
	Type        string // in | out
	Unit        units.Kind
	Quantity    decimal.Decimal
	Reason      string
}

// Adjust registra una entrada o salida manual. Una salida mayor al disponible falla sin tocar nada.
func (uc *UseCase) Adjust(ctx context.Context, in AdjustInput) (*dto.StockChangeResponse, error) {
	var op domaininv.Operation
	switch in.Type {
	case entity.MovementTypeIn:
		op = domaininv.OpRestore
	case entity.MovementTypeOut:
		op = domaininv.OpConsume
	default:
		return nil, domain.Invalid("type", "debe ser in u out")
	}
	if err := uc.checkWarehouse(ctx, in.CompanyID, in.WarehouseID); err != nil {
		return nil, err
	}
	req := Request{
		CompanyID:     in.CompanyID,
		WarehouseID:   in.WarehouseID,
		UserID:        in.UserID,
		Operation:     op,
		ReferenceType: entity.ReferenceAdjustment,
		Reason:        in.Reason,
		CreateMissing: op == domaininv.OpRestore,
		Lines:         []Line{{ProductID: in.ProductID, Kind: in.Unit, Quantity: in.Quantity}},
	}
	return uc.apply(ctx, req)
}

// ReservationInput entrada para reservar, liberar o despachar.
type ReservationInput struct {
	CompanyID   string
	UserID      string
	WarehouseID string
	ReferenceID string
	Lines       []Line
}

// Reserve aparta stock: disponible baja, reservado sube.
func (uc *UseCase) Reserve(ctx context.Context, in ReservationInput) (*dto.StockChangeResponse, error) {
	return uc.reservation(ctx, in, domaininv.OpReserve)
}

// Release devuelve lo reservado al disponible.
func (uc *UseCase) Release(ctx context.Context, in ReservationInput) (*dto.StockChangeResponse, error) {
	return uc.reservation(ctx, in, domaininv.OpRelease)
}

// Fulfill despacha lo reservado: stock y reservado bajan.
func (uc *UseCase) Fulfill(ctx context.Context, in ReservationInput) (*dto.StockChangeResponse, error) {
	return uc.reservation(ctx, in, domaininv.OpFulfill)
}

func (uc *UseCase) reservation(ctx context.Context, in ReservationInput, op domaininv.Operation) (*dto.StockChangeResponse, error) {
	if in.ReferenceID == "" {
		return nil, domain.Invalid("reference_id", "requerido")
	}
	if err := uc.checkWarehouse(ctx, in.CompanyID, in.WarehouseID); err != nil {
		return nil, err
	}
	return uc.apply(ctx, Request{
		CompanyID:     in.CompanyID,
		WarehouseID:   in.WarehouseID,
		UserID:        in.UserID,
		Operation:     op,
		ReferenceType: entity.ReferenceReservation,
		ReferenceID:   in.ReferenceID,
		Lines:         in.Lines,
	})
}

func (uc *UseCase) apply(ctx context.Context, req Request) (*dto.StockChangeResponse, error) {
	var res *Result
	err := uc.txRunner.Run(ctx, func(repos repository.TxRepos) error {
		var err error
		res, err = uc.engine.ApplyInTx(ctx, repos, req)
		return err
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().
		Str("company_id", req.CompanyID).
		Str("warehouse_id", req.WarehouseID).
		Str("operation", string(req.Operation)).
		Int("rows", len(res.Inventory)).
		Msg("ajuste de inventario confirmado")
	uc.notifier.Committed(ctx, req.CompanyID, res.Inventory)
	return ToStockChangeResponse(res), nil
}

// GetStock devuelve el inventario del producto en la bodega, con desglose por unidad.
func (uc *UseCase) GetStock(ctx context.Context, companyID, productID, warehouseID string) (*dto.InventoryResponse, error) {
	product, err := uc.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product.CompanyID != companyID {
		return nil, domain.ErrNotFound
	}
	inv, err := uc.inventoryRepo.Get(ctx, companyID, productID, warehouseID)
	if err != nil {
		return nil, err
	}
	out := ToInventoryResponse(inv, product)
	return &out, nil
}

// ListStock devuelve el inventario del producto en todas las bodegas de la empresa.
func (uc *UseCase) ListStock(ctx context.Context, companyID, productID string) ([]dto.InventoryResponse, error) {
	product, err := uc.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product.CompanyID != companyID {
		return nil, domain.ErrNotFound
	}
	rows, err := uc.inventoryRepo.ListByProduct(ctx, companyID, productID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.InventoryResponse, 0, len(rows))
	for _, inv := range rows {
		out = append(out, ToInventoryResponse(inv, product))
	}
	return out, nil
}

// ListMovements consulta la bitácora con filtros y paginación.
func (uc *UseCase) ListMovements(ctx context.Context, filter repository.MovementFilter) (*dto.MovementListResponse, error) {
	if filter.Limit <= 0 {
		filter.Limit = 50
	}
	list, err := uc.movementRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.MovementResponse, 0, len(list))
	for _, m := range list {
		items = append(items, ToMovementResponse(m))
	}
	return &dto.MovementListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: filter.Limit, Offset: filter.Offset},
	}, nil
}

// ExportMovements genera el archivo xlsx con los movimientos filtrados (hasta 10.000 filas).
func (uc *UseCase) ExportMovements(ctx context.Context, filter repository.MovementFilter) ([]byte, error) {
	filter.Limit, filter.Offset = 10000, 0
	list, err := uc.ListMovements(ctx, filter)
	if err != nil {
		return nil, err
	}
	return uc.exporter.ExportMovements(list.Items)
}

func (uc *UseCase) checkWarehouse(ctx context.Context, companyID, warehouseID string) error {
	if warehouseID == "" {
		return domain.Invalid("warehouse_id", "requerido")
	}
	wh, err := uc.warehouseRepo.GetByID(ctx, warehouseID)
	if err != nil {
		return err
	}
	if wh.CompanyID != companyID {
		return domain.ErrNotFound
	}
	return nil
}
