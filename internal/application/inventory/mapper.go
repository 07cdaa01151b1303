package inventory

import (
	"github.com/jhoicas/caja-api/internal/application/dto"
	"github.com/jhoicas/caja-api/internal/domain/entity"
	"github.com/jhoicas/caja-api/internal/domain/units"
)

// ToInventoryResponse convierte la fila a DTO; con product presente agrega el
// desglose por unidad de venta.
func ToInventoryResponse(inv *entity.Inventory, product *entity.Product) dto.InventoryResponse {
	out := dto.InventoryResponse{
		ProductID:         inv.ProductID,
		WarehouseID:       inv.WarehouseID,
		StockQuantity:     inv.StockQuantity,
		ReservedQuantity:  inv.ReservedQuantity,
		AvailableQuantity: inv.AvailableQuantity,
		ReorderLevel:      inv.ReorderLevel,
		Status:            inv.Status,
		Version:           inv.Version,
		UpdatedAt:         inv.UpdatedAt,
	}
	if product != nil {
		pk := product.Packaging()
		out.Breakdown = units.FromBase(inv.AvailableQuantity, pk)
		out.AvailableByUnit = make(map[string]int64, len(product.SellingUnits))
		for _, u := range product.SellingUnits {
			out.AvailableByUnit[u.ID] = units.AvailableIn(inv.AvailableQuantity, u.Kind, pk)
		}
	}
	return out
}

// ToMovementResponse convierte un movimiento a DTO.
func ToMovementResponse(m *entity.StockMovement) dto.MovementResponse {
	return dto.MovementResponse{
		ID:             m.ID,
		ProductID:      m.ProductID,
		WarehouseID:    m.WarehouseID,
		UserID:         m.UserID,
		Type:           m.Type,
		Quantity:       m.Quantity,
		Reason:         m.Reason,
		QuantityBefore: m.QuantityBefore,
		QuantityAfter:  m.QuantityAfter,
		ReferenceType:  m.ReferenceType,
		ReferenceID:    m.ReferenceID,
		UnitCost:       m.UnitCost,
		CreatedAt:      m.CreatedAt,
	}
}

// ToStockChangeResponse convierte el resultado del motor a DTO.
func ToStockChangeResponse(res *Result) *dto.StockChangeResponse {
	out := &dto.StockChangeResponse{
		Inventory: make([]dto.InventoryResponse, 0, len(res.Inventory)),
		Movements: make([]dto.MovementResponse, 0, len(res.Movements)),
	}
	for i, inv := range res.Inventory {
		out.Inventory = append(out.Inventory, ToInventoryResponse(inv, res.Products[i]))
	}
	for _, m := range res.Movements {
		out.Movements = append(out.Movements, ToMovementResponse(m))
	}
	return out
}
