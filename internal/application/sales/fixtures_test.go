package sales_test

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/caja-api/internal/application/inventory"
	"github.com/jhoicas/caja-api/internal/application/sales"
	"github.com/jhoicas/caja-api/internal/domain/entity"
	"github.com/jhoicas/caja-api/internal/domain/units"
	"github.com/jhoicas/caja-api/internal/infrastructure/memory"
	"github.com/jhoicas/caja-api/pkg/logger"
)

const (
	companyID   = "c1"
	warehouseID = "w1"
	cashierID   = "cajero-1"
	customerID  = "cli-1"
)

type seqNumbers struct{ n atomic.Int64 }

func (s *seqNumbers) Next() string { return fmt.Sprintf("V-%d", s.n.Add(1)) }

type fakeReceipts struct {
	sale  *entity.Sale
	lines []sales.ReceiptLine
}

func (f *fakeReceipts) GenerateReceipt(_ context.Context, sale *entity.Sale, _ *entity.Warehouse, _ *entity.Customer, lines []sales.ReceiptLine) ([]byte, error) {
	f.sale, f.lines = sale, lines
	return []byte("%PDF"), nil
}

type fixture struct {
	uc       *sales.UseCase
	store    *memory.Store
	receipts *fakeReceipts
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()
	require.NoError(t, store.Warehouses().Create(ctx, &entity.Warehouse{ID: warehouseID, CompanyID: companyID, Name: "Principal"}))
	require.NoError(t, store.Customers().Create(ctx, &entity.Customer{ID: customerID, CompanyID: companyID, Name: "Tienda Rosa"}))
	log := logger.Nop()
	receipts := &fakeReceipts{}
	uc := sales.NewUseCase(
		store,
		inventory.NewStockEngine(log),
		inventory.NewNotifier(nil, log),
		store.Products(),
		store.Warehouses(),
		store.Customers(),
		store.Sales(),
		store.Returns(),
		store.Debts(),
		&seqNumbers{},
		receipts,
		log,
	)
	return &fixture{uc: uc, store: store, receipts: receipts}
}

// seedProduct crea un producto 10x12: unidad a 5, paquete a 50, caja a 600.
func (f *fixture) seedProduct(t *testing.T, id string, available int64) *entity.Product {
	t.Helper()
	ctx := context.Background()
	p := &entity.Product{
		ID:               id,
		CompanyID:        companyID,
		SKU:              "SKU-" + id,
		Name:             "Producto " + id,
		UnitsPerPacket:   10,
		PacketsPerCarton: 12,
		UnitPrice:        decimal.NewFromInt(5),
		PacketPrice:      decimal.NewFromInt(50),
		CartonPrice:      decimal.NewFromInt(600),
		Cost:             decimal.NewFromInt(3),
		SellingMode:      units.ModeFull,
		ReorderLevel:     decimal.NewFromInt(10),
		SellingUnits: []entity.SellingUnit{
			{ID: id + "-unit", ProductID: id, Name: "Unidad", Kind: units.KindUnit, UnitsPerParent: 1, IsBase: true},
			{ID: id + "-packet", ProductID: id, Name: "Paquete", Kind: units.KindPacket, UnitsPerParent: 10},
			{ID: id + "-carton", ProductID: id, Name: "Caja", Kind: units.KindCarton, UnitsPerParent: 120},
		},
		CreatedAt: time.Now(),
	}
	require.NoError(t, f.store.Products().Create(ctx, p))
	q := decimal.NewFromInt(available)
	require.NoError(t, f.store.Inventory().Create(ctx, &entity.Inventory{
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
	return p
}

func (f *fixture) available(t *testing.T, productID string) decimal.Decimal {
	t.Helper()
	inv, err := f.store.Inventory().Get(context.Background(), companyID, productID, warehouseID)
	require.NoError(t, err)
	return inv.AvailableQuantity
}

func d(v int64) decimal.Decimal { return decimal.NewFromInt(v) }
