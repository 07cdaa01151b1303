package inventory

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/caja-api/internal/application/dto"
	"github.com/jhoicas/caja-api/internal/domain/repository"
	"github.com/jhoicas/caja-api/internal/domain/units"
)

// ReplenishmentUseCase genera la lista de reposición para una bodega a partir de
// las filas de inventario en estado low u out_of_stock.
type ReplenishmentUseCase struct {
	inventoryRepo repository.InventoryRepository
	productRepo   repository.ProductRepository
}

// NewReplenishmentUseCase construye el caso de uso de reposición.
func NewReplenishmentUseCase(
	inventoryRepo repository.InventoryRepository,
	productRepo repository.ProductRepository,
) *ReplenishmentUseCase {
	return &ReplenishmentUseCase{
		inventoryRepo: inventoryRepo,
		productRepo:   productRepo,
	}
}

var idealFactor = decimal.NewFromFloat(1.5)

// GenerateReplenishmentList devuelve los productos bajo nivel de reorden con la cantidad
// sugerida de pedido (en unidades base y en cajas), ordenados por mayor déficit.
// warehouseID puede ser vacío para considerar todas las bodegas de la empresa.
func (uc *ReplenishmentUseCase) GenerateReplenishmentList(
	ctx context.Context,
	companyID, warehouseID string,
) ([]dto.ReplenishmentSuggestionDTO, error) {

	// 1. Filas en low / out_of_stock
	rows, err := uc.inventoryRepo.ListLowStock(ctx, companyID, warehouseID)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return []dto.ReplenishmentSuggestionDTO{}, nil
	}

	// 2. Construir sugerencias
	suggestions := make([]dto.ReplenishmentSuggestionDTO, 0, len(rows))
	for _, inv := range rows {
		product, err := uc.productRepo.GetByID(ctx, inv.ProductID)
		if err != nil {
			return nil, err
		}
		idealStock := inv.ReorderLevel.Mul(idealFactor)
		suggestedQty := idealStock.Sub(inv.AvailableQuantity)
		if suggestedQty.LessThanOrEqual(decimal.Zero) {
			suggestedQty = decimal.Zero
		}
		suggestions = append(suggestions, dto.ReplenishmentSuggestionDTO{
			ProductID:          product.ID,
			SKU:                product.SKU,
			ProductName:        product.Name,
			WarehouseID:        inv.WarehouseID,
			Status:             inv.Status,
			CurrentStock:       inv.AvailableQuantity,
			ReorderPoint:       inv.ReorderLevel,
			IdealStock:         idealStock,
			SuggestedOrderQty:  suggestedQty,
			SuggestedCartons:   units.FromBase(suggestedQty, product.Packaging()).Cartons,
			UnitCost:           product.Cost,
			EstimatedOrderCost: suggestedQty.Mul(product.Cost).Round(2),
		})
	}

	// 3. Ordenar: mayor déficit absoluto primero; empate por SKU para un orden estable.
	sort.SliceStable(suggestions, func(i, j int) bool {
		a, b := suggestions[i], suggestions[j]
		defA := a.ReorderPoint.Sub(a.CurrentStock)
		defB := b.ReorderPoint.Sub(b.CurrentStock)
		if !defA.Equal(defB) {
			return defA.GreaterThan(defB)
		}
		return a.SKU < b.SKU
	})

	// 4. Asignar prioridad (1 = más urgente)
	for i := range suggestions {
		suggestions[i].Priority = i + 1
	}
	return suggestions, nil
}
