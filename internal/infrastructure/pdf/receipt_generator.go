// Package pdf genera el comprobante de venta de caja en PDF con Maroto v2.
//
// Layout de la página A5:
//
//	┌───────────────────────────────────────────────┐
//	│  HEADER: Bodega + dirección │ N° venta + fecha │
//	│  CLIENTE (si hay)                              │
//	│  ────────────────────────────────────────────  │
//	│  TABLA: Cant | Unidad | Producto | P.Unit | $  │
//	│  ────────────────────────────────────────────  │
//	│  TOTALES: Subtotal / Descuento / TOTAL         │
//	│  PAGO: Recibido / Cambio / Saldo pendiente     │
//	│  QR con el número de venta                     │
//	└───────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strings"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/caja-api/internal/application/sales"
	"github.com/jhoicas/caja-api/internal/domain/entity"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

// ── Generator ─────────────────────────────────────────────────────────────────

// ReceiptGenerator implementa sales.ReceiptGenerator usando Maroto v2.
type ReceiptGenerator struct{}

// NewReceiptGenerator construye el generador.
func NewReceiptGenerator() *ReceiptGenerator { return &ReceiptGenerator{} }

// GenerateReceipt genera el PDF y devuelve sus bytes. customer puede ser nil.
func (g *ReceiptGenerator) GenerateReceipt(
	_ context.Context,
	sale *entity.Sale,
	warehouse *entity.Warehouse,
	customer *entity.Customer,
	lines []sales.ReceiptLine,
) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A5).
		WithLeftMargin(8).WithRightMargin(8).
		WithTopMargin(8).WithBottomMargin(8).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 8}).
		WithTitle("Comprobante de venta "+sale.SaleNumber, true).
		WithAuthor(warehouse.Name, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(sale, warehouse))
	if customer != nil {
		m.AddRows(customerRow(customer))
	}
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))

	m.AddRows(tableHeaderRow())
	m.AddRows(tableDetailRows(lines)...)

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalsRows(sale)...)

	m.AddRows(line.NewRow(3))
	m.AddRows(footerRow(sale))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar comprobante: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: bodega (izq) y N° venta + fecha (der).
func headerRow(sale *entity.Sale, warehouse *entity.Warehouse) core.Row {
	return row.New(16).Add(
		col.New(7).Add(
			text.New(warehouse.Name, props.Text{
				Style: fontstyle.Bold, Size: 12, Color: colorPrimary, Top: 1,
			}),
			text.New(nonEmpty(warehouse.Address, "-"), props.Text{
				Size: 8, Top: 8, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New("COMPROBANTE DE VENTA", props.Text{
				Style: fontstyle.Bold, Size: 7, Align: align.Right, Color: colorPrimary, Top: 1,
			}),
			text.New(sale.SaleNumber, props.Text{
				Style: fontstyle.Bold, Size: 10, Align: align.Right, Top: 6,
			}),
			text.New("Fecha: "+sale.CreatedAt.Format("02/01/2006 15:04"), props.Text{
				Size: 7, Align: align.Right, Top: 12, Color: colorGray,
			}),
		),
	)
}

func customerRow(customer *entity.Customer) core.Row {
	return row.New(10).Add(
		col.New(12).Add(
			text.New("CLIENTE", props.Text{Style: fontstyle.Bold, Size: 7, Color: colorPrimary, Top: 1}),
			text.New(fmt.Sprintf("%s   |   NIT/CC: %s", customer.Name, nonEmpty(customer.TaxID, "-")), props.Text{
				Size: 8, Top: 5,
			}),
		),
	)
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 7, Align: a, Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(7).Add(
		h("Cant.", 1, align.Center),
		h("Unidad", 2, align.Left),
		h("Producto", 4, align.Left),
		h("P. Unit.", 2, align.Right),
		h("Subtotal", 3, align.Right),
	)
}

// tableDetailRows: una fila por línea vendida.
func tableDetailRows(lines []sales.ReceiptLine) []core.Row {
	result := make([]core.Row, 0, len(lines))
	for _, l := range lines {
		result = append(result, row.New(6).Add(
			col.New(1).Add(text.New(l.Quantity.String(), props.Text{Size: 7, Align: align.Center, Top: 1})),
			col.New(2).Add(text.New(l.UnitName, props.Text{Size: 7, Top: 1, Left: 1})),
			col.New(4).Add(text.New(l.ProductName, props.Text{Size: 7, Top: 1, Left: 1})),
			col.New(2).Add(text.New(formatMoney(l.UnitPrice), props.Text{Size: 7, Align: align.Right, Top: 1, Right: 1})),
			col.New(3).Add(text.New(formatMoney(l.Subtotal), props.Text{Size: 7, Align: align.Right, Top: 1, Right: 1})),
		))
	}
	return result
}

// totalsRows: totales y pago alineados a la derecha.
func totalsRows(sale *entity.Sale) []core.Row {
	pair := func(label, value string, grand bool) core.Row {
		p := props.Text{Size: 8, Align: align.Right, Right: 1}
		if grand {
			p.Style, p.Size, p.Color = fontstyle.Bold, 10, colorPrimary
		}
		lp := p
		lp.Style = fontstyle.Bold
		return row.New(5).Add(
			col.New(5),
			col.New(4).Add(text.New(label, lp)),
			col.New(3).Add(text.New(value, p)),
		)
	}

	rows := []core.Row{pair("Subtotal:", formatMoney(sale.Subtotal), false)}
	if sale.DiscountAmount.IsPositive() {
		label := "Descuento:"
		if sale.DiscountType == entity.DiscountPercentage {
			label = "Descuento (" + sale.DiscountValue.String() + "%):"
		}
		rows = append(rows, pair(label, "-"+formatMoney(sale.DiscountAmount), false))
	}
	rows = append(rows,
		pair("TOTAL:", formatMoney(sale.Total), true),
		pair("Recibido:", formatMoney(sale.ReceivedAmount), false),
	)
	if sale.Status == entity.SaleStatusPartial {
		rows = append(rows, pair("Saldo pendiente:", formatMoney(sale.AmountDue), false))
	} else {
		rows = append(rows, pair("Cambio:", formatMoney(sale.Change), false))
	}
	return rows
}

func footerRow(sale *entity.Sale) core.Row {
	return row.New(30).Add(
		col.New(4).Add(code.NewQr(sale.SaleNumber, props.Rect{Percent: 90, Center: true})),
		col.New(8).Add(
			text.New("Gracias por su compra.", props.Text{Style: fontstyle.Bold, Size: 9, Top: 6, Left: 3, Color: colorPrimary}),
			text.New("Conserve este comprobante para cambios y devoluciones.", props.Text{
				Size: 7, Top: 14, Left: 3, Color: colorGray,
			}),
		),
	)
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

// formatMoney "$" con puntos de miles y coma decimal.
// Ej: 25000 → "$25.000,00", 1234567.5 → "$1.234.567,50"
func formatMoney(d decimal.Decimal) string {
	s := d.StringFixed(2)
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	intPart, frac, _ := strings.Cut(s, ".")
	n := len(intPart)
	buf := make([]byte, 0, n+n/3)
	for i, c := range []byte(intPart) {
		if i > 0 && (n-i)%3 == 0 {
			buf = append(buf, '.')
		}
		buf = append(buf, c)
	}
	return sign + "$" + string(buf) + "," + frac
}
