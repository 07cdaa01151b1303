package inventory

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/caja-api/internal/domain"
	"github.com/jhoicas/caja-api/internal/domain/entity"
	domaininv "github.com/jhoicas/caja-api/internal/domain/inventory"
	"github.com/jhoicas/caja-api/internal/domain/repository"
	"github.com/jhoicas/caja-api/internal/domain/units"
	"github.com/jhoicas/caja-api/pkg/logger"
)

// Line cantidad de un producto expresada en una unidad de venta. Kind vacío es la unidad base.
type Line struct {
	ProductID string
	Kind      units.Kind
	Quantity  decimal.Decimal
	UnitCost  decimal.Decimal // por unidad de Kind; solo en recepciones
}

// Request describe un ajuste de stock sobre una bodega.
type Request struct {
	CompanyID     string
	WarehouseID   string
	UserID        string
	Operation     domaininv.Operation
	ReferenceType string
	ReferenceID   string
	Reason        string
	// CreateMissing crea la fila de inventario si no existe (recepción de mercancía).
	CreateMissing bool
	// UpdateCost recalcula el costo promedio ponderado del producto (recepción).
	UpdateCost bool
	Lines      []Line
}

// Result filas actualizadas por el ajuste, en orden de producto.
type Result struct {
	Inventory []*entity.Inventory
	Products  []*entity.Product
	Movements []*entity.StockMovement
}

// StockEngine es el único punto que modifica Inventory. ApplyInTx debe llamarse
// dentro de TxRunner.Run para que el bloqueo de filas y la escritura de la
// bitácora queden en la misma transacción que el documento que los origina.
type StockEngine struct {
	log *logger.Logger
	now func() time.Time
}

// NewStockEngine construye el motor.
func NewStockEngine(log *logger.Logger) *StockEngine {
	return &StockEngine{log: log.Component("stock_engine"), now: time.Now}
}

type aggregate struct {
	product *entity.Product
	base    decimal.Decimal
	cost    decimal.Decimal // costo total de la entrada
}

// ApplyInTx convierte cada línea a unidades base, bloquea las filas en orden de
// producto (SELECT ... FOR UPDATE), valida disponibilidad, aplica el cambio,
// recalcula estado y versión, y agrega un movimiento por producto. Cualquier
// error deja la transacción para Rollback.
func (e *StockEngine) ApplyInTx(ctx context.Context, repos repository.TxRepos, req Request) (*Result, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	byProduct := make(map[string]*aggregate, len(req.Lines))
	for _, line := range req.Lines {
		agg, ok := byProduct[line.ProductID]
		if !ok {
			product, err := repos.Products.GetByID(ctx, line.ProductID)
			if err != nil {
				return nil, err
			}
			if product.CompanyID != req.CompanyID {
				return nil, domain.ErrNotFound
			}
			agg = &aggregate{product: product, base: decimal.Zero, cost: decimal.Zero}
			byProduct[line.ProductID] = agg
		}
		pk := agg.product.Packaging()
		kind := line.Kind
		if kind == "" {
			kind = baseKind(pk)
		}
		base, err := units.ToBase(line.Quantity, kind, pk)
		if err != nil {
			return nil, err
		}
		agg.base = agg.base.Add(base)
		agg.cost = agg.cost.Add(line.Quantity.Mul(line.UnitCost))
	}

	// Orden fijo de bloqueo para que dos transacciones concurrentes no se bloqueen mutuamente.
	ids := make([]string, 0, len(byProduct))
	for id := range byProduct {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	now := e.now()
	res := &Result{}
	for _, id := range ids {
		agg := byProduct[id]
		inv, created, err := e.lockRow(ctx, repos, req, agg.product, now)
		if err != nil {
			return nil, err
		}
		before := inv.StockQuantity

		if req.UpdateCost {
			unitCost := decimal.Zero
			if agg.base.IsPositive() {
				unitCost = agg.cost.Div(agg.base)
			}
			newCost := domaininv.CostCalculator(before, agg.product.Cost, agg.base, unitCost)
			if err := repos.Products.UpdateCost(ctx, id, newCost); err != nil {
				return nil, err
			}
			agg.product.Cost = newCost
		}

		if err := domaininv.Apply(inv, req.Operation, agg.base); err != nil {
			var stockErr *domain.InsufficientStockError
			if errors.As(err, &stockErr) {
				stockErr.ProductName = agg.product.Name
				e.log.Warn().
					Str("company_id", req.CompanyID).
					Str("product_id", id).
					Str("available", stockErr.Available.String()).
					Str("required", stockErr.Required.String()).
					Msg("ajuste rechazado por stock insuficiente")
			}
			return nil, err
		}
		inv.UpdatedAt = now

		if created {
			err = repos.Inventory.Create(ctx, inv)
		} else {
			err = repos.Inventory.Update(ctx, inv)
		}
		if err != nil {
			return nil, err
		}

		mov := &entity.StockMovement{
			ID:             uuid.New().String(),
			CompanyID:      req.CompanyID,
			ProductID:      id,
			WarehouseID:    req.WarehouseID,
			UserID:         req.UserID,
			Type:           req.Operation.MovementType(),
			Quantity:       agg.base,
			Reason:         reasonFor(req, agg.product),
			QuantityBefore: before,
			QuantityAfter:  inv.StockQuantity,
			ReferenceType:  req.ReferenceType,
			ReferenceID:    req.ReferenceID,
			UnitCost:       agg.product.Cost,
			CreatedAt:      now,
		}
		if err := repos.Movements.Create(ctx, mov); err != nil {
			return nil, err
		}

		res.Inventory = append(res.Inventory, inv)
		res.Products = append(res.Products, agg.product)
		res.Movements = append(res.Movements, mov)
	}
	return res, nil
}

// lockRow bloquea la fila; en recepciones crea una nueva (vacía) si no existe.
func (e *StockEngine) lockRow(ctx context.Context, repos repository.TxRepos, req Request, product *entity.Product, now time.Time) (*entity.Inventory, bool, error) {
	inv, err := repos.Inventory.GetForUpdate(ctx, req.CompanyID, product.ID, req.WarehouseID)
	if err == nil {
		return inv, false, nil
	}
	if !errors.Is(err, domain.ErrInventoryNotFound) || !req.CreateMissing {
		return nil, false, err
	}
	return &entity.Inventory{
		ID:                uuid.New().String(),
		CompanyID:         req.CompanyID,
		ProductID:         product.ID,
		WarehouseID:       req.WarehouseID,
		StockQuantity:     decimal.Zero,
		ReservedQuantity:  decimal.Zero,
		AvailableQuantity: decimal.Zero,
		ReorderLevel:      product.ReorderLevel,
		Status:            entity.InventoryStatusOutOfStock,
		UpdatedAt:         now,
	}, true, nil
}

func validateRequest(req Request) error {
	if req.CompanyID == "" {
		return domain.Invalid("company_id", "requerido")
	}
	if req.WarehouseID == "" {
		return domain.Invalid("warehouse_id", "requerido")
	}
	if len(req.Lines) == 0 {
		return domain.Invalid("items", "debe contener al menos una línea")
	}
	for i, l := range req.Lines {
		if l.ProductID == "" {
			return domain.Invalid(fmt.Sprintf("items[%d].product_id", i), "requerido")
		}
		if !l.Quantity.IsPositive() {
			return domain.Invalid(fmt.Sprintf("items[%d].quantity", i), "debe ser mayor que cero")
		}
		if l.UnitCost.IsNegative() {
			return domain.Invalid(fmt.Sprintf("items[%d].unit_cost", i), "no puede ser negativo")
		}
	}
	return nil
}

func reasonFor(req Request, p *entity.Product) string {
	if req.Reason != "" {
		return req.Reason
	}
	switch req.ReferenceType {
	case entity.ReferenceSale:
		return "Venta " + req.ReferenceID + ": " + p.Name
	case entity.ReferenceSaleReturn:
		return "Devolución de venta: " + p.Name
	case entity.ReferencePurchase:
		return "Recepción de compra: " + p.Name
	case entity.ReferencePurchaseReturn:
		return "Devolución a proveedor: " + p.Name
	case entity.ReferenceReservation:
		return "Reserva: " + p.Name
	}
	return "Ajuste manual: " + p.Name
}

// baseKind es la granularidad en la que se cuenta el stock: caja en cartonOnly, unidad en los demás.
func baseKind(p units.Packaging) units.Kind {
	if p.Normalize().Mode == units.ModeCartonOnly {
		return units.KindCarton
	}
	return units.KindUnit
}
