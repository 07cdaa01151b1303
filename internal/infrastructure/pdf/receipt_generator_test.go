package pdf_test

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/caja-api/internal/application/sales"
	"github.com/jhoicas/caja-api/internal/domain/entity"
	"github.com/jhoicas/caja-api/internal/infrastructure/pdf"
)

func TestGenerateReceipt_DevuelvePDF(t *testing.T) {
	sale := &entity.Sale{
		SaleNumber:     "V-1",
		Subtotal:       decimal.NewFromInt(180),
		DiscountType:   entity.DiscountPercentage,
		DiscountValue:  decimal.NewFromInt(10),
		DiscountAmount: decimal.NewFromInt(18),
		Total:          decimal.NewFromInt(162),
		ReceivedAmount: decimal.NewFromInt(150),
		AmountDue:      decimal.NewFromInt(12),
		Status:         entity.SaleStatusPartial,
		CreatedAt:      time.Date(2026, 3, 1, 10, 30, 0, 0, time.UTC),
	}
	lines := []sales.ReceiptLine{{
		ProductName: "Galletas",
		UnitName:    "Paquete",
		Quantity:    decimal.NewFromInt(3),
		UnitPrice:   decimal.NewFromInt(60),
		Subtotal:    decimal.NewFromInt(180),
	}}

	out, err := pdf.NewReceiptGenerator().GenerateReceipt(context.Background(), sale,
		&entity.Warehouse{Name: "Principal"}, &entity.Customer{Name: "Tienda Rosa"}, lines)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}
