package memory_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/caja-api/internal/domain"
	"github.com/jhoicas/caja-api/internal/domain/entity"
	"github.com/jhoicas/caja-api/internal/domain/repository"
	"github.com/jhoicas/caja-api/internal/infrastructure/memory"
)

func seedInventory(t *testing.T, store *memory.Store, available int64) *entity.Inventory {
	t.Helper()
	q := decimal.NewFromInt(available)
	inv := &entity.Inventory{
		ID:                "inv-p1",
		CompanyID:         "c1",
		ProductID:         "p1",
		WarehouseID:       "w1",
		StockQuantity:     q,
		ReservedQuantity:  decimal.Zero,
		AvailableQuantity: q,
		Status:            entity.InventoryStatusAvailable,
		Version:           1,
	}
	require.NoError(t, store.Inventory().Create(context.Background(), inv))
	return inv
}

// ──────────────────────────────────────────────────────────────────────────────
// Inventario
// ──────────────────────────────────────────────────────────────────────────────

func TestInventoryUpdate_AvanzaVersion(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()
	inv := seedInventory(t, store, 100)

	inv.AvailableQuantity = decimal.NewFromInt(90)
	inv.StockQuantity = decimal.NewFromInt(90)
	inv.Version = 2
	require.NoError(t, store.Inventory().Update(ctx, inv))

	got, err := store.Inventory().Get(ctx, "c1", "p1", "w1")
	require.NoError(t, err)
	assert.Equal(t, int64(2), got.Version)
	assert.Equal(t, "90", got.AvailableQuantity.String())
}

// Una escritura con una versión vieja se rechaza igual que en PostgreSQL.
func TestInventoryUpdate_VersionVencidaEsConflicto(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()
	inv := seedInventory(t, store, 100)

	first := inv.Clone()
	first.Version = 2
	require.NoError(t, store.Inventory().Update(ctx, first))

	stale := inv.Clone()
	stale.AvailableQuantity = decimal.NewFromInt(1)
	stale.Version = 2
	err := store.Inventory().Update(ctx, stale)
	assert.ErrorIs(t, err, domain.ErrConflict)

	skipped := inv.Clone()
	skipped.Version = 5
	assert.ErrorIs(t, store.Inventory().Update(ctx, skipped), domain.ErrConflict)

	got, err := store.Inventory().Get(ctx, "c1", "p1", "w1")
	require.NoError(t, err)
	assert.Equal(t, int64(2), got.Version)
	assert.Equal(t, "100", got.AvailableQuantity.String())
}

func TestInventoryUpdate_FilaInexistente(t *testing.T) {
	store := memory.NewStore()
	err := store.Inventory().Update(context.Background(), &entity.Inventory{CompanyID: "c1", ProductID: "p1", WarehouseID: "w1", Version: 1})
	assert.ErrorIs(t, err, domain.ErrInventoryNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// Transacciones
// ──────────────────────────────────────────────────────────────────────────────

// Un conflicto dentro de Run descarta también lo escrito antes en la misma transacción.
func TestRun_ConflictoDescartaTodo(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()
	inv := seedInventory(t, store, 100)

	err := store.Run(ctx, func(repos repository.TxRepos) error {
		ok := inv.Clone()
		ok.AvailableQuantity = decimal.NewFromInt(80)
		ok.Version = 2
		if err := repos.Inventory.Update(ctx, ok); err != nil {
			return err
		}
		stale := inv.Clone()
		stale.Version = 2
		return repos.Inventory.Update(ctx, stale)
	})
	require.True(t, errors.Is(err, domain.ErrConflict))

	got, err := store.Inventory().Get(ctx, "c1", "p1", "w1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), got.Version)
	assert.Equal(t, "100", got.AvailableQuantity.String())
}
