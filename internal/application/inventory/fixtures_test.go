package inventory_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/caja-api/internal/application/inventory"
	"github.com/jhoicas/caja-api/internal/domain/entity"
	"github.com/jhoicas/caja-api/internal/domain/units"
	"github.com/jhoicas/caja-api/internal/infrastructure/memory"
	"github.com/jhoicas/caja-api/pkg/logger"
)

const (
	companyID   = "c1"
	warehouseID = "w1"
	userID      = "u1"
)

// seedProduct crea un producto 10x12 con costo base 5 y una fila de inventario con available unidades.
func seedProduct(t *testing.T, store *memory.Store, id string, available int64) *entity.Product {
	t.Helper()
	ctx := context.Background()
	p := &entity.Product{
		ID:               id,
		CompanyID:        companyID,
		SKU:              "SKU-" + id,
		Name:             "Producto " + id,
		UnitsPerPacket:   10,
		PacketsPerCarton: 12,
		UnitPrice:        decimal.NewFromInt(8),
		Cost:             decimal.NewFromInt(5),
		SellingMode:      units.ModeFull,
		ReorderLevel:     decimal.NewFromInt(20),
		SellingUnits: []entity.SellingUnit{
			{ID: id + "-unit", ProductID: id, Name: "Unidad", Kind: units.KindUnit, UnitsPerParent: 1, IsBase: true, Price: decimal.NewFromInt(8)},
			{ID: id + "-packet", ProductID: id, Name: "Paquete", Kind: units.KindPacket, UnitsPerParent: 10, Price: decimal.NewFromInt(75)},
			{ID: id + "-carton", ProductID: id, Name: "Caja", Kind: units.KindCarton, UnitsPerParent: 120},
		},
		CreatedAt: time.Now(),
	}
	require.NoError(t, store.Products().Create(ctx, p))
	if available >= 0 {
		q := decimal.NewFromInt(available)
		require.NoError(t, store.Inventory().Create(ctx, &entity.Inventory{
			ID:                "inv-" + id,
			CompanyID:         companyID,
			ProductID:         id,
			WarehouseID:       warehouseID,
			StockQuantity:     q,
			ReservedQuantity:  decimal.Zero,
			AvailableQuantity: q,
			ReorderLevel:      p.ReorderLevel,
			Status:            entity.InventoryStatusAvailable,
			Version:           1,
		}))
	}
	return p
}

func newUseCase(t *testing.T) (*inventory.UseCase, *memory.Store) {
	t.Helper()
	store := memory.NewStore()
	require.NoError(t, store.Warehouses().Create(context.Background(), &entity.Warehouse{ID: warehouseID, CompanyID: companyID, Name: "Principal"}))
	log := logger.Nop()
	uc := inventory.NewUseCase(
		store,
		inventory.NewStockEngine(log),
		inventory.NewNotifier(nil, log),
		store.Products(),
		store.Warehouses(),
		store.Inventory(),
		store.Movements(),
		nil,
		log,
	)
	return uc, store
}

func available(t *testing.T, store *memory.Store, productID string) decimal.Decimal {
	t.Helper()
	inv, err := store.Inventory().Get(context.Background(), companyID, productID, warehouseID)
	require.NoError(t, err)
	return inv.AvailableQuantity
}
