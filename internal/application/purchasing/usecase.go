// Package purchasing registra recepciones de mercancía y devoluciones a proveedor.
package purchasing

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/caja-api/internal/application/dto"
	"github.com/jhoicas/caja-api/internal/application/inventory"
	"github.com/jhoicas/caja-api/internal/domain"
	"github.com/jhoicas/caja-api/internal/domain/entity"
	domaininv "github.com/jhoicas/caja-api/internal/domain/inventory"
	"github.com/jhoicas/caja-api/internal/domain/repository"
	"github.com/jhoicas/caja-api/internal/domain/units"
	"github.com/jhoicas/caja-api/pkg/logger"
)

// TxRunner ejecuta fn dentro de una transacción; Rollback si fn devuelve error.
type TxRunner interface {
	Run(ctx context.Context, fn func(repos repository.TxRepos) error) error
}

// UseCase compras a proveedor.
type UseCase struct {
	txRunner      TxRunner
	engine        *inventory.StockEngine
	notifier      *inventory.Notifier
	productRepo   repository.ProductRepository
	warehouseRepo repository.WarehouseRepository
	supplierRepo  repository.SupplierRepository
	purchaseRepo  repository.PurchaseRepository
	log           *logger.Logger
}

// NewUseCase construye el caso de uso.
func NewUseCase(
	txRunner TxRunner,
	engine *inventory.StockEngine,
	notifier *inventory.Notifier,
	productRepo repository.ProductRepository,
	warehouseRepo repository.WarehouseRepository,
	supplierRepo repository.SupplierRepository,
	purchaseRepo repository.PurchaseRepository,
	log *logger.Logger,
) *UseCase {
	return &UseCase{
		txRunner:      txRunner,
		engine:        engine,
		notifier:      notifier,
		productRepo:   productRepo,
		warehouseRepo: warehouseRepo,
		supplierRepo:  supplierRepo,
		purchaseRepo:  purchaseRepo,
		log:           log.Component("purchasing"),
	}
}

// Item línea de compra; UnitCost es por unidad de Unit. Unit vacía es la unidad base.
type Item struct {
	ProductID string
	Unit      units.Kind
	Quantity  decimal.Decimal
	UnitCost  decimal.Decimal
}

// Input documento de compra.
type Input struct {
	CompanyID   string
	UserID      string
	SupplierID  string
	WarehouseID string
	Number      string
	Items       []Item
}

// ReceivePurchase ingresa mercancía: crea la fila de inventario si no existe,
// recalcula el costo promedio ponderado y deja un movimiento por producto.
func (uc *UseCase) ReceivePurchase(ctx context.Context, in Input) (*dto.PurchaseResponse, error) {
	return uc.register(ctx, in, entity.PurchaseKindReceipt)
}

// ReturnToSupplier saca mercancía hacia el proveedor; sin stock suficiente no se registra nada.
func (uc *UseCase) ReturnToSupplier(ctx context.Context, in Input) (*dto.PurchaseResponse, error) {
	return uc.register(ctx, in, entity.PurchaseKindReturn)
}

func (uc *UseCase) register(ctx context.Context, in Input, kind string) (*dto.PurchaseResponse, error) {
	if len(in.Items) == 0 {
		return nil, domain.Invalid("items", "debe contener al menos una línea")
	}
	if err := uc.checkRefs(ctx, in); err != nil {
		return nil, err
	}

	now := time.Now()
	purchase := &entity.Purchase{
		ID:          uuid.New().String(),
		CompanyID:   in.CompanyID,
		SupplierID:  in.SupplierID,
		WarehouseID: in.WarehouseID,
		UserID:      in.UserID,
		Kind:        kind,
		Number:      in.Number,
		CreatedAt:   now,
	}
	if purchase.Number == "" {
		purchase.Number = purchase.ID[:8]
	}

	products := make(map[string]*entity.Product, len(in.Items))
	lines := make([]inventory.Line, 0, len(in.Items))
	total := decimal.Zero
	for i, it := range in.Items {
		if !it.Quantity.IsPositive() {
			return nil, domain.Invalid(fmt.Sprintf("items[%d].quantity", i), "debe ser mayor que cero")
		}
		if it.UnitCost.IsNegative() {
			return nil, domain.Invalid(fmt.Sprintf("items[%d].unit_cost", i), "no puede ser negativo")
		}
		p, ok := products[it.ProductID]
		if !ok {
			var err error
			p, err = uc.productRepo.GetByID(ctx, it.ProductID)
			if err != nil {
				return nil, err
			}
			if p.CompanyID != in.CompanyID {
				return nil, domain.ErrNotFound
			}
			products[it.ProductID] = p
		}
		unit := it.Unit
		if unit == "" {
			unit = units.KindUnit
			if p.SellingMode == units.ModeCartonOnly {
				unit = units.KindCarton
			}
		}
		base, err := units.ToBase(it.Quantity, unit, p.Packaging())
		if err != nil {
			return nil, err
		}
		subtotal := it.Quantity.Mul(it.UnitCost)
		total = total.Add(subtotal)
		purchase.Items = append(purchase.Items, entity.PurchaseItem{
			ID:           uuid.New().String(),
			PurchaseID:   purchase.ID,
			ProductID:    it.ProductID,
			Kind:         unit,
			Quantity:     it.Quantity,
			BaseQuantity: base,
			UnitCost:     it.UnitCost,
			Subtotal:     entity.RoundMoney(subtotal),
		})
		lines = append(lines, inventory.Line{ProductID: it.ProductID, Kind: unit, Quantity: it.Quantity, UnitCost: it.UnitCost})
	}
	purchase.Total = entity.RoundMoney(total)

	req := inventory.Request{
		CompanyID:   in.CompanyID,
		WarehouseID: in.WarehouseID,
		UserID:      in.UserID,
		ReferenceID: purchase.ID,
		Lines:       lines,
	}
	if kind == entity.PurchaseKindReceipt {
		req.Operation = domaininv.OpRestore
		req.ReferenceType = entity.ReferencePurchase
		req.CreateMissing = true
		req.UpdateCost = true
	} else {
		req.Operation = domaininv.OpConsume
		req.ReferenceType = entity.ReferencePurchaseReturn
	}

	var res *inventory.Result
	err := uc.txRunner.Run(ctx, func(repos repository.TxRepos) error {
		var err error
		res, err = uc.engine.ApplyInTx(ctx, repos, req)
		if err != nil {
			return err
		}
		if err := repos.Purchases.Create(ctx, purchase); err != nil {
			return fmt.Errorf("guardar compra: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.log.Info().
		Str("company_id", in.CompanyID).
		Str("purchase_id", purchase.ID).
		Str("kind", kind).
		Str("total", purchase.Total.String()).
		Msg("compra registrada")
	uc.notifier.Committed(ctx, in.CompanyID, res.Inventory)

	out := toPurchaseResponse(purchase)
	for i, inv := range res.Inventory {
		out.UpdatedInventory = append(out.UpdatedInventory, inventory.ToInventoryResponse(inv, res.Products[i]))
	}
	return &out, nil
}

// Get devuelve un documento de compra de la empresa.
func (uc *UseCase) Get(ctx context.Context, companyID, id string) (*dto.PurchaseResponse, error) {
	p, err := uc.purchaseRepo.GetByID(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	out := toPurchaseResponse(p)
	return &out, nil
}

func (uc *UseCase) checkRefs(ctx context.Context, in Input) error {
	if in.SupplierID == "" {
		return domain.Invalid("supplier_id", "requerido")
	}
	if in.WarehouseID == "" {
		return domain.Invalid("warehouse_id", "requerido")
	}
	s, err := uc.supplierRepo.GetByID(ctx, in.SupplierID)
	if err != nil {
		return err
	}
	if s.CompanyID != in.CompanyID {
		return domain.ErrNotFound
	}
	wh, err := uc.warehouseRepo.GetByID(ctx, in.WarehouseID)
	if err != nil {
		return err
	}
	if wh.CompanyID != in.CompanyID {
		return domain.ErrNotFound
	}
	return nil
}

func toPurchaseResponse(p *entity.Purchase) dto.PurchaseResponse {
	out := dto.PurchaseResponse{
		ID:          p.ID,
		Kind:        p.Kind,
		SupplierID:  p.SupplierID,
		WarehouseID: p.WarehouseID,
		Number:      p.Number,
		Total:       p.Total,
		Items:       make([]dto.PurchaseItemResponse, 0, len(p.Items)),
		CreatedAt:   p.CreatedAt,
	}
	for _, it := range p.Items {
		out.Items = append(out.Items, dto.PurchaseItemResponse{
			ProductID:    it.ProductID,
			Unit:         string(it.Kind),
			Quantity:     it.Quantity,
			BaseQuantity: it.BaseQuantity,
			UnitCost:     it.UnitCost,
			Subtotal:     it.Subtotal,
		})
	}
	return out
}
