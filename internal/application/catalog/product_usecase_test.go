package catalog_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/caja-api/internal/application/catalog"
	"github.com/jhoicas/caja-api/internal/application/dto"
	"github.com/jhoicas/caja-api/internal/domain"
	"github.com/jhoicas/caja-api/internal/domain/units"
	"github.com/jhoicas/caja-api/internal/infrastructure/memory"
)

func galletas() dto.CreateProductRequest {
	return dto.CreateProductRequest{
		SKU:              "GAL-01",
		Name:             "Galletas",
		UnitsPerPacket:   10,
		PacketsPerCarton: 12,
		UnitPrice:        decimal.NewFromInt(5),
		PacketPrice:      decimal.NewFromInt(45),
	}
}

func TestCreate_ModoFullGeneraTresUnidades(t *testing.T) {
	uc := catalog.NewProductUseCase(memory.NewStore().Products())
	out, err := uc.Create(context.Background(), "c1", galletas())
	require.NoError(t, err)

	require.Len(t, out.SellingUnits, 3)
	byKind := map[string]dto.SellingUnitResponse{}
	for _, u := range out.SellingUnits {
		byKind[u.Kind] = u
	}
	assert.True(t, byKind["unit"].IsBase)
	assert.Equal(t, int64(10), byKind["packet"].UnitsPerParent)
	assert.Equal(t, int64(120), byKind["carton"].UnitsPerParent)
	assert.Equal(t, "45", byKind["packet"].Price.String())
	// Sin precio propio la caja se deriva del precio base.
	assert.Equal(t, "600", byKind["carton"].Price.String())
	assert.True(t, out.Cost.IsZero())
}

func TestCreate_CartonOnlyUsaCajaComoBase(t *testing.T) {
	uc := catalog.NewProductUseCase(memory.NewStore().Products())
	in := galletas()
	in.SellingMode = string(units.ModeCartonOnly)
	out, err := uc.Create(context.Background(), "c1", in)
	require.NoError(t, err)
	require.Len(t, out.SellingUnits, 1)
	assert.Equal(t, "carton", out.SellingUnits[0].Kind)
	assert.Equal(t, int64(1), out.SellingUnits[0].UnitsPerParent)
	assert.True(t, out.SellingUnits[0].IsBase)
}

func TestCreate_RechazaEmpaqueInvalido(t *testing.T) {
	uc := catalog.NewProductUseCase(memory.NewStore().Products())
	in := galletas()
	in.UnitsPerPacket = 0
	_, err := uc.Create(context.Background(), "c1", in)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	in = galletas()
	in.SellingMode = "granel"
	_, err = uc.Create(context.Background(), "c1", in)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCreate_SKUDuplicado(t *testing.T) {
	uc := catalog.NewProductUseCase(memory.NewStore().Products())
	_, err := uc.Create(context.Background(), "c1", galletas())
	require.NoError(t, err)
	_, err = uc.Create(context.Background(), "c1", galletas())
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	_, err = uc.Create(context.Background(), "c2", galletas())
	assert.NoError(t, err, "el SKU es único por empresa")
}

func TestCreate_UnidadesExplicitas(t *testing.T) {
	uc := catalog.NewProductUseCase(memory.NewStore().Products())

	in := galletas()
	in.SellingMode = string(units.ModeCartonUnit)
	in.SellingUnits = []dto.SellingUnitRequest{{Name: "Paquete", Kind: "packet"}, {Name: "Unidad", Kind: "unit"}}
	_, err := uc.Create(context.Background(), "c1", in)
	assert.ErrorIs(t, err, domain.ErrUnitNotSellable)

	in.SellingUnits = []dto.SellingUnitRequest{{Name: "Caja", Kind: "carton"}}
	_, err = uc.Create(context.Background(), "c1", in)
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "falta la unidad base")

	in.SellingUnits = []dto.SellingUnitRequest{
		{Name: "Unidad", Kind: "unit"},
		{Name: "Media caja", Kind: "carton", Price: decimal.NewFromInt(500)},
	}
	out, err := uc.Create(context.Background(), "c1", in)
	require.NoError(t, err)
	assert.Equal(t, "Media caja", out.SellingUnits[1].Name)
	assert.Equal(t, "500", out.SellingUnits[1].Price.String())
}

func TestConvert_DosCajas(t *testing.T) {
	uc := catalog.NewProductUseCase(memory.NewStore().Products())
	p, err := uc.Create(context.Background(), "c1", galletas())
	require.NoError(t, err)

	out, err := uc.Convert(context.Background(), "c1", p.ID, units.KindCarton, decimal.NewFromInt(2))
	require.NoError(t, err)
	assert.Equal(t, "240", out.Base.String())
	assert.Equal(t, "24", out.Breakdown.Packets.String())
	assert.Equal(t, "2", out.Breakdown.Cartons.String())

	_, err = uc.Convert(context.Background(), "c2", p.ID, units.KindCarton, decimal.NewFromInt(2))
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestList_Pagina(t *testing.T) {
	uc := catalog.NewProductUseCase(memory.NewStore().Products())
	for _, sku := range []string{"A", "B", "C"} {
		in := galletas()
		in.SKU = sku
		_, err := uc.Create(context.Background(), "c1", in)
		require.NoError(t, err)
	}
	out, err := uc.List(context.Background(), "c1", 2, 0)
	require.NoError(t, err)
	assert.Len(t, out.Items, 2)
	assert.Equal(t, 2, out.Page.Limit)
}
