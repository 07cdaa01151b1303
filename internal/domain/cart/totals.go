package cart

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/caja-api/internal/domain/entity"
)

// Totals totales del carrito.
type Totals struct {
	TotalBefore decimal.Decimal `json:"total_before"`
	Discount    decimal.Decimal `json:"discount"`
	TotalAfter  decimal.Decimal `json:"total_after"`
}

var hundred = decimal.NewFromInt(100)

// DiscountAmount calcula el descuento sobre el subtotal: fixed resta un monto plano,
// percentage resta value% del subtotal.
func DiscountAmount(subtotal decimal.Decimal, d Discount) decimal.Decimal {
	switch d.Type {
	case entity.DiscountFixed:
		return d.Value
	case entity.DiscountPercentage:
		return subtotal.Mul(d.Value).Div(hundred)
	}
	return decimal.Zero
}

// ComputeTotals suma precio x cantidad, aplica el descuento una vez y nunca deja
// el total por debajo de cero.
func ComputeTotals(items []Item, d Discount) Totals {
	before := decimal.Zero
	for _, it := range items {
		before = before.Add(it.SelectedUnitPrice.Mul(decimal.NewFromInt(it.SelectedQty)))
	}
	discount := DiscountAmount(before, d)
	after := before.Sub(discount)
	if after.IsNegative() {
		after = decimal.Zero
	}
	return Totals{TotalBefore: before, Discount: discount, TotalAfter: after}
}
