package sales_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/caja-api/internal/application/sales"
	"github.com/jhoicas/caja-api/internal/domain"
	"github.com/jhoicas/caja-api/internal/domain/entity"
	"github.com/jhoicas/caja-api/internal/domain/repository"
)

func TestPayDebt_AbonosHastaSaldar(t *testing.T) {
	f := newFixture(t)
	f.seedProduct(t, "p1", 500)
	in := checkoutInput(line("p1", "packet", 3), line("p1", "unit", 6))
	in.CustomerID = customerID
	in.ReceivedAmount = d(150)
	sale := sell(t, f, in)
	debtID := sale.Debt.ID

	pay := func(amount int64) error {
		_, err := f.uc.PayDebt(context.Background(), sales.PayDebtInput{
			CompanyID: companyID, DebtID: debtID, Amount: d(amount), Method: entity.PaymentCash,
		})
		return err
	}

	require.NoError(t, pay(10))
	assert.ErrorIs(t, pay(25), domain.ErrInvalidInput, "no se puede abonar más que el saldo")
	require.NoError(t, pay(20))
	assert.ErrorIs(t, pay(1), domain.ErrConflict)
	assert.ErrorIs(t, pay(0), domain.ErrInvalidInput)

	debts, err := f.uc.ListDebts(context.Background(), companyID, customerID, entity.DebtStatusSettled)
	require.NoError(t, err)
	require.Len(t, debts, 1)
	assert.Equal(t, "30", debts[0].Paid.String())
	assert.True(t, debts[0].Balance.IsZero())

	open, err := f.uc.ListDebts(context.Background(), companyID, "", entity.DebtStatusOpen)
	require.NoError(t, err)
	assert.Empty(t, open)

	_, err = f.uc.ListDebts(context.Background(), companyID, "", "vencida")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestPayDebt_DeOtraEmpresa(t *testing.T) {
	f := newFixture(t)
	f.seedProduct(t, "p1", 500)
	in := checkoutInput(line("p1", "packet", 1))
	in.CustomerID = customerID
	sale := sell(t, f, in)

	_, err := f.uc.PayDebt(context.Background(), sales.PayDebtInput{
		CompanyID: "c2", DebtID: sale.Debt.ID, Amount: d(1), Method: entity.PaymentCash,
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestQueries_ListYComprobante(t *testing.T) {
	f := newFixture(t)
	f.seedProduct(t, "p1", 100)
	for i := 0; i < 3; i++ {
		in := checkoutInput(line("p1", "unit", 1))
		in.ReceivedAmount = d(5)
		sell(t, f, in)
	}

	list, err := f.uc.ListSales(context.Background(), repository.SaleFilter{CompanyID: companyID, Limit: 2})
	require.NoError(t, err)
	require.Len(t, list.Items, 2)
	assert.Equal(t, "V-3", list.Items[0].SaleNumber, "la más reciente primero")

	got, err := f.uc.GetSale(context.Background(), companyID, list.Items[0].ID)
	require.NoError(t, err)
	assert.Equal(t, "V-3", got.SaleNumber)

	pdf, name, err := f.uc.Receipt(context.Background(), companyID, got.ID)
	require.NoError(t, err)
	assert.Equal(t, "venta-V-3.pdf", name)
	assert.NotEmpty(t, pdf)
	require.Len(t, f.receipts.lines, 1)
	assert.Equal(t, "Producto p1", f.receipts.lines[0].ProductName)

	_, _, err = f.uc.Receipt(context.Background(), "c2", got.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
