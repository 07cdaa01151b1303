package purchasing_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/caja-api/internal/application/dto"
	"github.com/jhoicas/caja-api/internal/application/inventory"
	"github.com/jhoicas/caja-api/internal/application/purchasing"
	"github.com/jhoicas/caja-api/internal/domain"
	"github.com/jhoicas/caja-api/internal/domain/entity"
	"github.com/jhoicas/caja-api/internal/domain/repository"
	"github.com/jhoicas/caja-api/internal/domain/units"
	"github.com/jhoicas/caja-api/internal/infrastructure/memory"
	"github.com/jhoicas/caja-api/pkg/logger"
)

const (
	companyID   = "c1"
	warehouseID = "w1"
	supplierID  = "prov-1"
)

func newUseCase(t *testing.T) (*purchasing.UseCase, *memory.Store) {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()
	require.NoError(t, store.Warehouses().Create(ctx, &entity.Warehouse{ID: warehouseID, CompanyID: companyID, Name: "Principal"}))
	require.NoError(t, store.Suppliers().Create(ctx, &entity.Supplier{ID: supplierID, CompanyID: companyID, Name: "Distribuidora"}))
	require.NoError(t, store.Products().Create(ctx, &entity.Product{
		ID:               "p1",
		CompanyID:        companyID,
		SKU:              "P1",
		Name:             "Galletas",
		UnitsPerPacket:   10,
		PacketsPerCarton: 12,
		SellingMode:      units.ModeFull,
		ReorderLevel:     decimal.NewFromInt(50),
		CreatedAt:        time.Now(),
	}))
	log := logger.Nop()
	uc := purchasing.NewUseCase(
		store,
		inventory.NewStockEngine(log),
		inventory.NewNotifier(nil, log),
		store.Products(),
		store.Warehouses(),
		store.Suppliers(),
		store.Purchases(),
		log,
	)
	return uc, store
}

func input(unit units.Kind, qty, cost int64) purchasing.Input {
	return purchasing.Input{
		CompanyID:   companyID,
		UserID:      "u1",
		SupplierID:  supplierID,
		WarehouseID: warehouseID,
		Items: []purchasing.Item{{
			ProductID: "p1",
			Unit:      unit,
			Quantity:  decimal.NewFromInt(qty),
			UnitCost:  decimal.NewFromInt(cost),
		}},
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Recepción
// ──────────────────────────────────────────────────────────────────────────────

func TestReceivePurchase_CreaInventarioYCostoPromedio(t *testing.T) {
	uc, store := newUseCase(t)
	ctx := context.Background()

	out, err := uc.ReceivePurchase(ctx, input(units.KindCarton, 2, 600))
	require.NoError(t, err)
	assert.Equal(t, entity.PurchaseKindReceipt, out.Kind)
	assert.Equal(t, "1200", out.Total.String())
	require.Len(t, out.Items, 1)
	assert.Equal(t, "240", out.Items[0].BaseQuantity.String())
	require.Len(t, out.UpdatedInventory, 1)
	assert.Equal(t, "240", out.UpdatedInventory[0].AvailableQuantity.String())

	p, err := store.Products().GetByID(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, "5", p.Cost.String())

	_, err = uc.ReceivePurchase(ctx, input(units.KindUnit, 120, 8))
	require.NoError(t, err)
	p, err = store.Products().GetByID(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, "6", p.Cost.String(), "(240*5 + 120*8) / 360")

	inv, err := store.Inventory().Get(ctx, companyID, "p1", warehouseID)
	require.NoError(t, err)
	assert.Equal(t, "360", inv.StockQuantity.String())
	assert.Equal(t, entity.InventoryStatusAvailable, inv.Status)

	movs, err := store.Movements().List(ctx, repository.MovementFilter{CompanyID: companyID, ReferenceType: entity.ReferencePurchase})
	require.NoError(t, err)
	assert.Len(t, movs, 2)

	saved, err := uc.Get(ctx, companyID, out.ID)
	require.NoError(t, err)
	assert.Equal(t, out.Number, saved.Number)
}

// ──────────────────────────────────────────────────────────────────────────────
// Devolución a proveedor
// ──────────────────────────────────────────────────────────────────────────────

func TestReturnToSupplier_DescuentaYRechazaSinStock(t *testing.T) {
	uc, store := newUseCase(t)
	ctx := context.Background()
	_, err := uc.ReceivePurchase(ctx, input(units.KindCarton, 2, 600))
	require.NoError(t, err)

	out, err := uc.ReturnToSupplier(ctx, input(units.KindCarton, 1, 600))
	require.NoError(t, err)
	assert.Equal(t, entity.PurchaseKindReturn, out.Kind)
	assert.Equal(t, "120", out.UpdatedInventory[0].AvailableQuantity.String())

	_, err = uc.ReturnToSupplier(ctx, input(units.KindCarton, 10, 600))
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	inv, err := store.Inventory().Get(ctx, companyID, "p1", warehouseID)
	require.NoError(t, err)
	assert.Equal(t, "120", inv.AvailableQuantity.String())
	movs, err := store.Movements().List(ctx, repository.MovementFilter{CompanyID: companyID, ReferenceType: entity.ReferencePurchaseReturn})
	require.NoError(t, err)
	assert.Len(t, movs, 1)
}

func TestReturnToSupplier_SinFilaDeInventario(t *testing.T) {
	uc, _ := newUseCase(t)
	_, err := uc.ReturnToSupplier(context.Background(), input(units.KindUnit, 1, 5))
	assert.ErrorIs(t, err, domain.ErrInventoryNotFound)
}

func TestRegister_Validaciones(t *testing.T) {
	uc, _ := newUseCase(t)
	ctx := context.Background()

	in := input(units.KindUnit, 0, 5)
	_, err := uc.ReceivePurchase(ctx, in)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	in = input(units.KindUnit, 1, -5)
	_, err = uc.ReceivePurchase(ctx, in)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	in = input(units.KindUnit, 1, 5)
	in.SupplierID = "otro"
	_, err = uc.ReceivePurchase(ctx, in)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	in = input(units.KindUnit, 1, 5)
	in.CompanyID = "c2"
	_, err = uc.ReceivePurchase(ctx, in)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSupplierUseCase_CrearYListar(t *testing.T) {
	store := memory.NewStore()
	uc := purchasing.NewSupplierUseCase(store.Suppliers())
	ctx := context.Background()

	_, err := uc.Create(ctx, companyID, dto.CreateSupplierRequest{Name: "Mayorista"})
	require.NoError(t, err)
	_, err = uc.Create(ctx, companyID, dto.CreateSupplierRequest{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	list, err := uc.List(ctx, companyID, 0, 0)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}
