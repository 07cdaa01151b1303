package sales_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/caja-api/internal/application/sales"
	"github.com/jhoicas/caja-api/internal/domain"
	"github.com/jhoicas/caja-api/internal/domain/cart"
	"github.com/jhoicas/caja-api/internal/domain/entity"
	"github.com/jhoicas/caja-api/internal/domain/repository"
)

func checkoutInput(items ...sales.CheckoutItem) sales.CheckoutInput {
	return sales.CheckoutInput{
		CompanyID:     companyID,
		WarehouseID:   warehouseID,
		CashierID:     cashierID,
		Items:         items,
		PaymentMethod: entity.PaymentCash,
	}
}

func line(productID, unit string, qty int64) sales.CheckoutItem {
	return sales.CheckoutItem{ProductID: productID, SellingUnitID: productID + "-" + unit, Quantity: d(qty)}
}

// ──────────────────────────────────────────────────────────────────────────────
// Venta exitosa
// ──────────────────────────────────────────────────────────────────────────────

func TestCheckout_PagadaConVueltoYDescuento(t *testing.T) {
	f := newFixture(t)
	f.seedProduct(t, "p1", 200)

	in := checkoutInput(line("p1", "packet", 2), line("p1", "unit", 3))
	in.Discount = cart.Discount{Type: entity.DiscountPercentage, Value: d(10)}
	in.ReceivedAmount = d(110)

	out, err := f.uc.Checkout(context.Background(), in)
	require.NoError(t, err)

	assert.Equal(t, "115", out.Sale.Subtotal.String())
	assert.Equal(t, "11.5", out.Sale.DiscountAmount.String())
	assert.Equal(t, "103.5", out.Sale.Total.String())
	assert.Equal(t, "6.5", out.Sale.Change.String())
	assert.True(t, out.Sale.AmountDue.IsZero())
	assert.Equal(t, entity.SaleStatusPaid, out.Sale.Status)
	assert.Equal(t, "V-1", out.Sale.SaleNumber)
	require.Len(t, out.Sale.Payments, 1)
	assert.Equal(t, "103.5", out.Sale.Payments[0].Amount.String())
	assert.Nil(t, out.Debt)

	assert.Equal(t, "177", f.available(t, "p1").String())
	require.Len(t, out.UpdatedInventory, 1)
	assert.Equal(t, "177", out.UpdatedInventory[0].AvailableQuantity.String())
	require.Len(t, out.UpdatedProducts, 1)

	movs, err := f.store.Movements().List(context.Background(), repository.MovementFilter{CompanyID: companyID, ReferenceID: out.Sale.ID})
	require.NoError(t, err)
	require.Len(t, movs, 1, "un movimiento por producto")
	assert.Equal(t, "23", movs[0].Quantity.String())
	assert.Equal(t, entity.MovementTypeOut, movs[0].Type)

	saved, err := f.store.Sales().GetByID(context.Background(), companyID, out.Sale.ID)
	require.NoError(t, err)
	assert.Len(t, saved.Items, 2)
}

// 150 recibidos sobre 180 con cliente: venta parcial con 30 de deuda.
func TestCheckout_PagoParcialConClienteCreaDeuda(t *testing.T) {
	f := newFixture(t)
	f.seedProduct(t, "p1", 500)

	in := checkoutInput(line("p1", "packet", 3), line("p1", "unit", 6))
	in.CustomerID = customerID
	in.ReceivedAmount = d(150)

	out, err := f.uc.Checkout(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, "180", out.Sale.Total.String())
	assert.Equal(t, entity.SaleStatusPartial, out.Sale.Status)
	assert.Equal(t, "30", out.Sale.AmountDue.String())
	assert.True(t, out.Sale.Change.IsZero())
	require.NotNil(t, out.Debt)
	assert.Equal(t, "30", out.Debt.Balance.String())
	assert.Equal(t, entity.DebtStatusOpen, out.Debt.Status)

	debts, err := f.store.Debts().ListByCustomer(context.Background(), companyID, customerID, "")
	require.NoError(t, err)
	require.Len(t, debts, 1)
	assert.Equal(t, out.Sale.ID, debts[0].SaleID)
}

func TestCheckout_PagoParcialSinClienteFalla(t *testing.T) {
	f := newFixture(t)
	f.seedProduct(t, "p1", 500)

	in := checkoutInput(line("p1", "packet", 3))
	in.ReceivedAmount = d(100)

	_, err := f.uc.Checkout(context.Background(), in)
	assert.ErrorIs(t, err, domain.ErrPaymentIncomplete)
	assert.Equal(t, "500", f.available(t, "p1").String())
}

func TestCheckout_DescuentoFijoMayorAlSubtotalDejaCero(t *testing.T) {
	f := newFixture(t)
	f.seedProduct(t, "p1", 10)

	in := checkoutInput(line("p1", "unit", 1))
	in.Discount = cart.Discount{Type: entity.DiscountFixed, Value: d(50)}

	out, err := f.uc.Checkout(context.Background(), in)
	require.NoError(t, err)
	assert.True(t, out.Sale.Total.IsZero())
	assert.Equal(t, "5", out.Sale.DiscountAmount.String())
	assert.Equal(t, entity.SaleStatusPaid, out.Sale.Status)
	assert.Empty(t, out.Sale.Payments)
}

// ──────────────────────────────────────────────────────────────────────────────
// Atomicidad
// ──────────────────────────────────────────────────────────────────────────────

// 1 caja de 10x12 con 100 disponibles: falla y quedan 100.
func TestCheckout_UnaCajaContraCienUnidades(t *testing.T) {
	f := newFixture(t)
	f.seedProduct(t, "p1", 100)

	in := checkoutInput(line("p1", "carton", 1))
	in.ReceivedAmount = d(600)

	_, err := f.uc.Checkout(context.Background(), in)
	require.ErrorIs(t, err, domain.ErrInsufficientStock)
	var stockErr *domain.InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, "100", stockErr.Available.String())
	assert.Equal(t, "120", stockErr.Required.String())

	assert.Equal(t, "100", f.available(t, "p1").String())
	list, err := f.store.Sales().List(context.Background(), repository.SaleFilter{CompanyID: companyID})
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestCheckout_TodoONada(t *testing.T) {
	f := newFixture(t)
	f.seedProduct(t, "a", 50)
	f.seedProduct(t, "b", 5)

	in := checkoutInput(line("a", "packet", 2), line("b", "unit", 6))
	in.ReceivedAmount = d(1000)

	_, err := f.uc.Checkout(context.Background(), in)
	require.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, "50", f.available(t, "a").String())
	assert.Equal(t, "5", f.available(t, "b").String())

	movs, err := f.store.Movements().List(context.Background(), repository.MovementFilter{CompanyID: companyID})
	require.NoError(t, err)
	assert.Empty(t, movs)
}

func TestCheckout_NumeroDuplicadoRevierteStock(t *testing.T) {
	f := newFixture(t)
	f.seedProduct(t, "p1", 100)

	in := checkoutInput(line("p1", "unit", 1))
	in.SaleNumber = "F-1"
	in.ReceivedAmount = d(5)
	_, err := f.uc.Checkout(context.Background(), in)
	require.NoError(t, err)

	_, err = f.uc.Checkout(context.Background(), in)
	assert.ErrorIs(t, err, domain.ErrDuplicate)
	assert.Equal(t, "99", f.available(t, "p1").String())
}

// ──────────────────────────────────────────────────────────────────────────────
// Validación
// ──────────────────────────────────────────────────────────────────────────────

func TestCheckout_Validaciones(t *testing.T) {
	f := newFixture(t)
	f.seedProduct(t, "p1", 100)

	cases := []struct {
		name   string
		mutate func(in *sales.CheckoutInput)
		want   error
	}{
		{"sin medio de pago", func(in *sales.CheckoutInput) { in.PaymentMethod = "" }, domain.ErrInvalidInput},
		{"medio desconocido", func(in *sales.CheckoutInput) { in.PaymentMethod = "cheque" }, domain.ErrInvalidInput},
		{"sin líneas", func(in *sales.CheckoutInput) { in.Items = nil }, domain.ErrInvalidInput},
		{"cantidad cero", func(in *sales.CheckoutInput) { in.Items[0].Quantity = decimal.Zero }, domain.ErrInvalidInput},
		{"recibido negativo", func(in *sales.CheckoutInput) { in.ReceivedAmount = d(-1) }, domain.ErrInvalidInput},
		{"porcentaje mayor a 100", func(in *sales.CheckoutInput) {
			in.Discount = cart.Discount{Type: entity.DiscountPercentage, Value: d(101)}
		}, domain.ErrInvalidInput},
		{"unidad desconocida", func(in *sales.CheckoutInput) { in.Items[0].SellingUnitID = "otra" }, domain.ErrUnitNotSellable},
		{"bodega ajena", func(in *sales.CheckoutInput) { in.CompanyID = "c2" }, domain.ErrNotFound},
		{"cliente inexistente", func(in *sales.CheckoutInput) { in.CustomerID = "nadie" }, domain.ErrNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := checkoutInput(line("p1", "unit", 1))
			in.ReceivedAmount = d(5)
			tc.mutate(&in)
			_, err := f.uc.Checkout(context.Background(), in)
			assert.ErrorIs(t, err, tc.want)
		})
	}
	assert.Equal(t, "100", f.available(t, "p1").String())
}
