package sales_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/caja-api/internal/application/dto"
	"github.com/jhoicas/caja-api/internal/application/sales"
	"github.com/jhoicas/caja-api/internal/domain"
	"github.com/jhoicas/caja-api/internal/infrastructure/memory"
)

func TestCustomerUseCase_CrearYListar(t *testing.T) {
	uc := sales.NewCustomerUseCase(memory.NewStore().Customers())
	ctx := context.Background()

	c, err := uc.Create(ctx, "c1", dto.CreateCustomerRequest{Name: "Ana", TaxID: "900"})
	require.NoError(t, err)
	_, err = uc.Create(ctx, "c1", dto.CreateCustomerRequest{Name: "Otra", TaxID: "900"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
	_, err = uc.Create(ctx, "c1", dto.CreateCustomerRequest{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	got, err := uc.Get(ctx, "c1", c.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ana", got.Name)
	_, err = uc.Get(ctx, "c2", c.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	list, err := uc.List(ctx, "c1", 0, 0)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}
