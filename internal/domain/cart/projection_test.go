package cart_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/caja-api/internal/domain"
	"github.com/jhoicas/caja-api/internal/domain/cart"
	"github.com/jhoicas/caja-api/internal/domain/units"
)

func view(base int64, version int64) cart.StockView {
	return cart.StockView{
		ProductID: "p1",
		Packaging: units.Packaging{UnitsPerPacket: 10, PacketsPerCarton: 12, Mode: units.ModeFull},
		Units:     unitsRefs(),
		Base:      decimal.NewFromInt(base),
		Version:   version,
	}
}

func TestProjection_ApplyConsumeYRestore(t *testing.T) {
	p := cart.NewProjection()
	p.Track(view(250, 1))

	avail, err := p.Apply(cart.Delta{ProductID: "p1", SellingUnitID: "u-packet", Quantity: 2, Mode: cart.ModeConsume})
	require.NoError(t, err)
	assert.Equal(t, int64(230), avail["u-unit"])
	assert.Equal(t, int64(23), avail["u-packet"])
	assert.Equal(t, int64(1), avail["u-carton"])

	avail, err = p.Apply(cart.Delta{ProductID: "p1", SellingUnitID: "u-packet", Quantity: 2, Mode: cart.ModeRestore})
	require.NoError(t, err)
	assert.Equal(t, int64(250), avail["u-unit"])
	assert.Equal(t, int64(2), avail["u-carton"])
}

func TestProjection_ApplyErrores(t *testing.T) {
	p := cart.NewProjection()
	_, err := p.Apply(cart.Delta{ProductID: "p1", SellingUnitID: "u-unit", Quantity: 1, Mode: cart.ModeConsume})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	p.Track(view(10, 1))
	_, err = p.Apply(cart.Delta{ProductID: "p1", SellingUnitID: "u-x", Quantity: 1, Mode: cart.ModeConsume})
	assert.ErrorIs(t, err, domain.ErrUnitNotSellable)
	_, err = p.Apply(cart.Delta{ProductID: "p1", SellingUnitID: "u-unit", Quantity: 1, Mode: "otro"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// Una versión vieja nunca pisa el valor confirmado más reciente.
func TestProjection_ReconcileSoloConVersionMasNueva(t *testing.T) {
	p := cart.NewProjection()
	p.Track(view(100, 5))

	assert.False(t, p.Reconcile("p1", decimal.NewFromInt(40), 4))
	assert.False(t, p.Reconcile("p1", decimal.NewFromInt(40), 5))
	avail, _ := p.Available("p1")
	assert.Equal(t, int64(100), avail["u-unit"])

	assert.True(t, p.Reconcile("p1", decimal.NewFromInt(40), 6))
	avail, _ = p.Available("p1")
	assert.Equal(t, int64(40), avail["u-unit"])
	assert.Equal(t, int64(6), p.Version("p1"))
}

func TestProjection_StaleDetectaDivergencia(t *testing.T) {
	p := cart.NewProjection()
	assert.True(t, p.Stale("p1", 1), "producto sin vista siempre está desactualizado")
	p.Track(view(10, 3))
	assert.False(t, p.Stale("p1", 3))
	assert.True(t, p.Stale("p1", 4))
}

func TestProjection_TrackNoRetrocedeVersion(t *testing.T) {
	p := cart.NewProjection()
	p.Track(view(10, 3))
	p.Track(view(99, 2))
	avail, ok := p.Available("p1")
	require.True(t, ok)
	assert.Equal(t, int64(10), avail["u-unit"])
}
