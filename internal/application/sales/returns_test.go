package sales_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/caja-api/internal/application/dto"
	"github.com/jhoicas/caja-api/internal/application/sales"
	"github.com/jhoicas/caja-api/internal/domain"
	"github.com/jhoicas/caja-api/internal/domain/cart"
	"github.com/jhoicas/caja-api/internal/domain/entity"
	"github.com/jhoicas/caja-api/internal/domain/repository"
)

func sell(t *testing.T, f *fixture, in sales.CheckoutInput) *dto.CheckoutResponse {
	t.Helper()
	out, err := f.uc.Checkout(context.Background(), in)
	require.NoError(t, err)
	return out
}

func itemID(out *dto.CheckoutResponse, unitID string) string {
	for _, it := range out.Sale.Items {
		if it.SellingUnitID == unitID {
			return it.ID
		}
	}
	return ""
}

func TestProcessReturn_AplicaProporcionDelDescuento(t *testing.T) {
	f := newFixture(t)
	f.seedProduct(t, "p1", 100)
	in := checkoutInput(line("p1", "packet", 2))
	in.Discount = cart.Discount{Type: entity.DiscountPercentage, Value: d(10)}
	in.ReceivedAmount = d(90)
	sale := sell(t, f, in)
	assert.Equal(t, "80", f.available(t, "p1").String())

	out, err := f.uc.ProcessReturn(context.Background(), sales.ReturnInput{
		CompanyID: companyID,
		UserID:    cashierID,
		SaleID:    sale.Sale.ID,
		Items:     []sales.ReturnItem{{SaleItemID: itemID(sale, "p1-packet"), Quantity: d(1)}},
		Reason:    "empaque roto",
	})
	require.NoError(t, err)
	assert.Equal(t, "45", out.Total.String())
	assert.Equal(t, "45", out.Refund.String())
	assert.Equal(t, entity.PaymentCash, out.RefundMethod)
	assert.Equal(t, "90", f.available(t, "p1").String())

	movs, err := f.store.Movements().List(context.Background(), repository.MovementFilter{
		CompanyID: companyID, ReferenceType: entity.ReferenceSaleReturn,
	})
	require.NoError(t, err)
	require.Len(t, movs, 1)
	assert.Equal(t, entity.MovementTypeIn, movs[0].Type)
	assert.Equal(t, "empaque roto", movs[0].Reason)
}

func TestProcessReturn_NoSuperaLoVendido(t *testing.T) {
	f := newFixture(t)
	f.seedProduct(t, "p1", 100)
	in := checkoutInput(line("p1", "unit", 3))
	in.ReceivedAmount = d(15)
	sale := sell(t, f, in)
	id := itemID(sale, "p1-unit")

	ret := func(qty int64) error {
		_, err := f.uc.ProcessReturn(context.Background(), sales.ReturnInput{
			CompanyID: companyID,
			SaleID:    sale.Sale.ID,
			Items:     []sales.ReturnItem{{SaleItemID: id, Quantity: d(qty)}},
		})
		return err
	}
	assert.ErrorIs(t, ret(4), domain.ErrReturnExceedsSale)
	require.NoError(t, ret(2))
	assert.ErrorIs(t, ret(2), domain.ErrReturnExceedsSale)
	require.NoError(t, ret(1))
	assert.Equal(t, "100", f.available(t, "p1").String())
}

func TestProcessReturn_AbonaPrimeroALaDeuda(t *testing.T) {
	f := newFixture(t)
	f.seedProduct(t, "p1", 500)
	in := checkoutInput(line("p1", "packet", 3), line("p1", "unit", 6))
	in.CustomerID = customerID
	in.ReceivedAmount = d(150)
	sale := sell(t, f, in)

	out, err := f.uc.ProcessReturn(context.Background(), sales.ReturnInput{
		CompanyID: companyID,
		SaleID:    sale.Sale.ID,
		Items:     []sales.ReturnItem{{SaleItemID: itemID(sale, "p1-packet"), Quantity: d(1)}},
	})
	require.NoError(t, err)
	assert.Equal(t, "50", out.Total.String())
	assert.Equal(t, "30", out.DebtReduced.String())
	assert.Equal(t, "20", out.Refund.String())

	debt, err := f.store.Debts().GetBySale(context.Background(), sale.Sale.ID)
	require.NoError(t, err)
	assert.True(t, debt.Balance.IsZero())
	assert.Equal(t, entity.DebtStatusSettled, debt.Status)
}

func TestProcessReturn_LineaInexistente(t *testing.T) {
	f := newFixture(t)
	f.seedProduct(t, "p1", 10)
	in := checkoutInput(line("p1", "unit", 1))
	in.ReceivedAmount = d(5)
	sale := sell(t, f, in)

	_, err := f.uc.ProcessReturn(context.Background(), sales.ReturnInput{
		CompanyID: companyID,
		SaleID:    sale.Sale.ID,
		Items:     []sales.ReturnItem{{SaleItemID: "otra", Quantity: d(1)}},
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = f.uc.ProcessReturn(context.Background(), sales.ReturnInput{
		CompanyID: "c2",
		SaleID:    sale.Sale.ID,
		Items:     []sales.ReturnItem{{SaleItemID: itemID(sale, "p1-unit"), Quantity: d(1)}},
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
