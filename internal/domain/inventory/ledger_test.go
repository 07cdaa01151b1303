package inventory_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/caja-api/internal/domain"
	"github.com/jhoicas/caja-api/internal/domain/entity"
	"github.com/jhoicas/caja-api/internal/domain/inventory"
)

func d(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func newInv(stock, reserved, reorder int64) *entity.Inventory {
	return &entity.Inventory{
		ProductID:         "p1",
		StockQuantity:     d(stock),
		ReservedQuantity:  d(reserved),
		AvailableQuantity: d(stock - reserved),
		ReorderLevel:      d(reorder),
	}
}

func TestApply_ConsumeResta(t *testing.T) {
	inv := newInv(100, 0, 10)
	require.NoError(t, inventory.Apply(inv, inventory.OpConsume, d(30)))
	assert.True(t, inv.StockQuantity.Equal(d(70)))
	assert.True(t, inv.AvailableQuantity.Equal(d(70)))
	assert.Equal(t, entity.InventoryStatusAvailable, inv.Status)
	assert.Equal(t, int64(1), inv.Version)
}

func TestApply_ConsumeInsuficienteNoModifica(t *testing.T) {
	inv := newInv(100, 0, 10)
	err := inventory.Apply(inv, inventory.OpConsume, d(120))

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	var ise *domain.InsufficientStockError
	require.ErrorAs(t, err, &ise)
	assert.True(t, ise.Available.Equal(d(100)))
	assert.True(t, ise.Required.Equal(d(120)))
	assert.True(t, inv.AvailableQuantity.Equal(d(100)), "el disponible no debe cambiar")
	assert.Equal(t, int64(0), inv.Version)
}

func TestApply_ReservaYLiberacion(t *testing.T) {
	inv := newInv(50, 0, 5)
	require.NoError(t, inventory.Apply(inv, inventory.OpReserve, d(20)))
	assert.True(t, inv.AvailableQuantity.Equal(d(30)))
	assert.True(t, inv.ReservedQuantity.Equal(d(20)))
	assert.True(t, inv.StockQuantity.Equal(d(50)))

	err := inventory.Apply(inv, inventory.OpRelease, d(25))
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	require.NoError(t, inventory.Apply(inv, inventory.OpFulfill, d(20)))
	assert.True(t, inv.StockQuantity.Equal(d(30)))
	assert.True(t, inv.ReservedQuantity.IsZero())
	assert.NoError(t, inventory.CheckInvariants(inv))
}

func TestStatus_Umbrales(t *testing.T) {
	assert.Equal(t, entity.InventoryStatusOutOfStock, inventory.Status(d(0), d(10)))
	assert.Equal(t, entity.InventoryStatusLow, inventory.Status(d(10), d(10)))
	assert.Equal(t, entity.InventoryStatusAvailable, inventory.Status(d(11), d(10)))
}

// Cualquier secuencia de operaciones mantiene 0 <= disponible <= stock.
func TestApply_SecuenciaMantieneInvariantes(t *testing.T) {
	inv := newInv(40, 0, 5)
	ops := []struct {
		op  inventory.Operation
		qty int64
	}{
		{inventory.OpConsume, 15}, {inventory.OpReserve, 20}, {inventory.OpConsume, 10},
		{inventory.OpRestore, 3}, {inventory.OpRelease, 5}, {inventory.OpFulfill, 15},
		{inventory.OpConsume, 100}, {inventory.OpReserve, 1},
	}
	for _, o := range ops {
		_ = inventory.Apply(inv, o.op, d(o.qty))
		require.NoError(t, inventory.CheckInvariants(inv), "tras %s %d", o.op, o.qty)
	}
}

func TestCostCalculator_PromedioPonderado(t *testing.T) {
	got := inventory.CostCalculator(d(100), d(5), d(100), d(7))
	assert.Equal(t, "6", got.String())
	assert.True(t, inventory.CostCalculator(d(0), d(0), d(0), d(3)).IsZero())
}
