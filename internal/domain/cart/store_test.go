package cart_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/caja-api/internal/domain"
	"github.com/jhoicas/caja-api/internal/domain/cart"
	"github.com/jhoicas/caja-api/internal/domain/entity"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers
// ──────────────────────────────────────────────────────────────────────────────

func unitsRefs() []cart.UnitRef {
	return []cart.UnitRef{
		{ID: "u-unit", Name: "Unidad", Kind: "unit", UnitsPerParent: 1, IsBase: true, Price: decimal.NewFromInt(5)},
		{ID: "u-packet", Name: "Paquete", Kind: "packet", UnitsPerParent: 10, Price: decimal.NewFromInt(50)},
		{ID: "u-carton", Name: "Caja", Kind: "carton", UnitsPerParent: 120, Price: decimal.NewFromInt(600)},
	}
}

func item(unitID string, available map[string]int64) cart.Item {
	refs := unitsRefs()
	var sel cart.UnitRef
	for _, r := range refs {
		if r.ID == unitID {
			sel = r
		}
	}
	return cart.Item{
		ProductID:         "p1",
		ProductName:       "Galletas",
		SelectedUnitID:    sel.ID,
		SelectedUnitName:  sel.Name,
		SelectedUnitPrice: sel.Price,
		SellingUnits:      refs,
		AvailableStock:    available,
	}
}

func stock(unit, packet, carton int64) map[string]int64 {
	return map[string]int64{"u-unit": unit, "u-packet": packet, "u-carton": carton}
}

// ──────────────────────────────────────────────────────────────────────────────
// Carritos
// ──────────────────────────────────────────────────────────────────────────────

func TestAddCart_ActivaElNuevo(t *testing.T) {
	s := cart.NewStore()
	a := s.AddCart("Mostrador")
	b := s.AddCart("")

	carts, active := s.Carts()
	require.Len(t, carts, 2)
	assert.Equal(t, b.ID, active)
	assert.Equal(t, "Mostrador", a.Name)
	assert.NotEmpty(t, b.Name)
}

func TestRemoveCart_ActivaElPrimeroRestante(t *testing.T) {
	s := cart.NewStore()
	a := s.AddCart("A")
	_ = s.AddCart("B")
	c := s.AddCart("C")

	_, err := s.RemoveCart(c.ID)
	require.NoError(t, err)
	_, active := s.Carts()
	assert.Equal(t, a.ID, active)

	_, err = s.RemoveCart("no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRemoveCart_UltimoDejaSinActivo(t *testing.T) {
	s := cart.NewStore()
	a := s.AddCart("A")
	_, err := s.RemoveCart(a.ID)
	require.NoError(t, err)
	_, ok := s.Active()
	assert.False(t, ok)
}

// ──────────────────────────────────────────────────────────────────────────────
// Líneas
// ──────────────────────────────────────────────────────────────────────────────

// Agregar repetidamente nunca supera la foto de stock de la unidad.
func TestAddItem_RespetaTopeDeStock(t *testing.T) {
	s := cart.NewStore()
	s.AddCart("A")
	it := item("u-packet", stock(30, 3, 0))

	outcomes := make([]cart.AddOutcome, 0, 6)
	for i := 0; i < 6; i++ {
		outcomes = append(outcomes, s.AddItem(it))
	}

	c, _ := s.Active()
	require.Len(t, c.Items, 1)
	assert.Equal(t, int64(3), c.Items[0].SelectedQty)
	assert.Equal(t, cart.OutcomeAppended, outcomes[0])
	assert.Equal(t, cart.OutcomeIncremented, outcomes[2])
	assert.Equal(t, cart.OutcomeRejected, outcomes[5])
}

func TestAddItem_SinStockNoAgrega(t *testing.T) {
	s := cart.NewStore()
	s.AddCart("A")
	out := s.AddItem(item("u-carton", stock(100, 10, 0)))
	assert.Equal(t, cart.OutcomeRejected, out)
	c, _ := s.Active()
	assert.Empty(t, c.Items)
}

func TestAddItem_MismoProductoDistintaUnidadSonLineasDistintas(t *testing.T) {
	s := cart.NewStore()
	s.AddItem(item("u-unit", stock(100, 10, 0)))
	s.AddItem(item("u-packet", stock(100, 10, 0)))
	c, ok := s.Active()
	require.True(t, ok, "AddItem sin carrito crea uno por defecto")
	assert.Len(t, c.Items, 2)
}

func TestUpdateQty_MinusNuncaBajaDeUno(t *testing.T) {
	s := cart.NewStore()
	s.AddItem(item("u-unit", stock(100, 10, 0)))
	applied, err := s.UpdateQty("p1", "u-unit", 4, cart.DirectionPlus)
	require.NoError(t, err)
	assert.Equal(t, int64(4), applied)

	applied, err = s.UpdateQty("p1", "u-unit", 10, cart.DirectionMinus)
	require.NoError(t, err)
	assert.Equal(t, int64(-4), applied)

	c, _ := s.Active()
	assert.Equal(t, int64(1), c.Items[0].SelectedQty)
}

func TestUpdateQty_PlusAcotadoPorFoto(t *testing.T) {
	s := cart.NewStore()
	s.AddItem(item("u-packet", stock(100, 3, 0)))
	applied, err := s.UpdateQty("p1", "u-packet", 10, cart.DirectionPlus)
	require.NoError(t, err)
	assert.Equal(t, int64(2), applied)
}

func TestRemoveItem_FiltraLaLinea(t *testing.T) {
	s := cart.NewStore()
	s.AddItem(item("u-unit", stock(100, 10, 0)))
	removed, err := s.RemoveItem("p1", "u-unit")
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed.SelectedQty)
	c, _ := s.Active()
	assert.Empty(t, c.Items)

	_, err = s.RemoveItem("p1", "u-unit")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// Cambiar de unidad siempre deja la cantidad en 1.
func TestChangeSellingUnit_ReiniciaCantidad(t *testing.T) {
	s := cart.NewStore()
	s.AddItem(item("u-unit", stock(100, 10, 0)))
	_, err := s.UpdateQty("p1", "u-unit", 7, cart.DirectionPlus)
	require.NoError(t, err)

	prev, err := s.ChangeSellingUnit("p1", "u-unit", "u-packet")
	require.NoError(t, err)
	assert.Equal(t, int64(8), prev.SelectedQty)

	c, _ := s.Active()
	require.Len(t, c.Items, 1)
	assert.Equal(t, "u-packet", c.Items[0].SelectedUnitID)
	assert.Equal(t, "Paquete", c.Items[0].SelectedUnitName)
	assert.True(t, c.Items[0].SelectedUnitPrice.Equal(decimal.NewFromInt(50)))
	assert.Equal(t, int64(1), c.Items[0].SelectedQty)
}

func TestChangeSellingUnit_UnidadDesconocida(t *testing.T) {
	s := cart.NewStore()
	s.AddItem(item("u-unit", stock(100, 10, 0)))
	_, err := s.ChangeSellingUnit("p1", "u-unit", "u-x")
	assert.ErrorIs(t, err, domain.ErrUnitNotSellable)
}

// Sin una unidad completa del destino en la foto, la línea queda como estaba.
func TestChangeSellingUnit_SinStockDelDestinoNoCambia(t *testing.T) {
	s := cart.NewStore()
	s.AddItem(item("u-unit", stock(50, 5, 0)))
	_, err := s.UpdateQty("p1", "u-unit", 2, cart.DirectionPlus)
	require.NoError(t, err)

	_, err = s.ChangeSellingUnit("p1", "u-unit", "u-carton")
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	c, _ := s.Active()
	require.Len(t, c.Items, 1)
	assert.Equal(t, "u-unit", c.Items[0].SelectedUnitID)
	assert.Equal(t, int64(3), c.Items[0].SelectedQty)
}

// ──────────────────────────────────────────────────────────────────────────────
// Cobro
// ──────────────────────────────────────────────────────────────────────────────

func TestDestroyActive_DevuelveYActivaElSiguiente(t *testing.T) {
	s := cart.NewStore()
	first := s.AddCart("Mostrador")
	second := s.AddCart("Pedido")
	s.AddItem(item("u-packet", stock(100, 10, 0)))

	removed, ok := s.DestroyActive()
	require.True(t, ok)
	assert.Equal(t, second.ID, removed.ID)
	require.Len(t, removed.Items, 1)

	carts, active := s.Carts()
	require.Len(t, carts, 1)
	assert.Equal(t, first.ID, active)

	_, ok = s.DestroyActive()
	require.True(t, ok)
	_, ok = s.DestroyActive()
	assert.False(t, ok)
}

// ──────────────────────────────────────────────────────────────────────────────
// Totales y descuentos
// ──────────────────────────────────────────────────────────────────────────────

func TestTotals_DescuentoPorcentaje(t *testing.T) {
	s := cart.NewStore()
	s.AddItem(item("u-packet", stock(1000, 100, 8)))
	_, err := s.UpdateQty("p1", "u-packet", 3, cart.DirectionPlus)
	require.NoError(t, err)
	require.NoError(t, s.SetDiscount(entity.DiscountPercentage, decimal.NewFromInt(10)))

	tot := s.Totals()
	assert.Equal(t, "200", tot.TotalBefore.String())
	assert.Equal(t, "20", tot.Discount.String())
	assert.Equal(t, "180", tot.TotalAfter.String())
}

func TestTotals_DescuentoFijoNoDejaTotalNegativo(t *testing.T) {
	s := cart.NewStore()
	s.AddItem(item("u-unit", stock(100, 10, 0)))
	require.NoError(t, s.SetDiscount(entity.DiscountFixed, decimal.NewFromInt(50)))

	tot := s.Totals()
	assert.Equal(t, "5", tot.TotalBefore.String())
	assert.True(t, tot.TotalAfter.IsZero())
}

func TestSetDiscount_TipoInvalido(t *testing.T) {
	s := cart.NewStore()
	s.AddCart("A")
	err := s.SetDiscount("regalo", decimal.NewFromInt(1))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
