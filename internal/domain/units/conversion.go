// Package units convierte cantidades entre unidad, paquete y caja (cartón)
// a partir de los factores de empaque de un producto.
package units

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/caja-api/internal/domain"
)

// Kind es la granularidad de una unidad de venta.
type Kind string

const (
	KindUnit   Kind = "unit"
	KindPacket Kind = "packet"
	KindCarton Kind = "carton"
)

// Mode restringe qué unidades se pueden vender.
type Mode string

const (
	ModeFull       Mode = "full"       // unidad, paquete y caja
	ModeCartonUnit Mode = "cartonUnit" // caja y unidad
	ModeCartonOnly Mode = "cartonOnly" // solo caja; el stock se cuenta en cajas
)

// Packaging agrupa los factores de empaque de un producto.
type Packaging struct {
	UnitsPerPacket   int64
	PacketsPerCarton int64
	Mode             Mode
}

// Breakdown es una cantidad base expresada en las tres granularidades.
type Breakdown struct {
	Units   decimal.Decimal `json:"units"`
	Packets decimal.Decimal `json:"packets"`
	Cartons decimal.Decimal `json:"cartons"`
}

// Normalize lleva a 1 los factores ausentes o no positivos. La validación real
// ocurre al crear el producto; aquí solo se evita la división por cero.
func (p Packaging) Normalize() Packaging {
	if p.UnitsPerPacket < 1 {
		p.UnitsPerPacket = 1
	}
	if p.PacketsPerCarton < 1 {
		p.PacketsPerCarton = 1
	}
	if p.Mode == "" {
		p.Mode = ModeFull
	}
	return p
}

// Validate rechaza factores de empaque no positivos y modos desconocidos.
func (p Packaging) Validate() error {
	if p.UnitsPerPacket < 1 {
		return domain.Invalid("units_per_packet", "debe ser mayor o igual a 1")
	}
	if p.PacketsPerCarton < 1 {
		return domain.Invalid("packets_per_carton", "debe ser mayor o igual a 1")
	}
	switch p.Mode {
	case ModeFull, ModeCartonUnit, ModeCartonOnly:
		return nil
	}
	return domain.Invalid("selling_mode", "modo de venta desconocido")
}

// Sellable indica si la unidad se puede vender bajo el modo del producto.
func (p Packaging) Sellable(kind Kind) bool {
	switch p.Normalize().Mode {
	case ModeCartonOnly:
		return kind == KindCarton
	case ModeCartonUnit:
		return kind == KindCarton || kind == KindUnit
	default:
		return kind == KindUnit || kind == KindPacket || kind == KindCarton
	}
}

// Factor devuelve cuántas unidades base contiene una unidad de venta.
// En cartonOnly la caja es la unidad base.
func Factor(kind Kind, p Packaging) (int64, error) {
	p = p.Normalize()
	if !p.Sellable(kind) {
		return 0, domain.ErrUnitNotSellable
	}
	if p.Mode == ModeCartonOnly {
		return 1, nil
	}
	switch kind {
	case KindUnit:
		return 1, nil
	case KindPacket:
		return p.UnitsPerPacket, nil
	case KindCarton:
		return p.UnitsPerPacket * p.PacketsPerCarton, nil
	}
	return 0, domain.ErrUnitNotSellable
}

// ToBase convierte qty expresada en kind a unidades base.
func ToBase(qty decimal.Decimal, kind Kind, p Packaging) (decimal.Decimal, error) {
	f, err := Factor(kind, p)
	if err != nil {
		return decimal.Zero, err
	}
	return qty.Mul(decimal.NewFromInt(f)), nil
}

// FromBase expresa una cantidad base en unidades, paquetes y cajas (2 decimales).
func FromBase(base decimal.Decimal, p Packaging) Breakdown {
	p = p.Normalize()
	if p.Mode == ModeCartonOnly {
		return Breakdown{Units: decimal.Zero, Packets: decimal.Zero, Cartons: base.Round(2)}
	}
	packets := base.Div(decimal.NewFromInt(p.UnitsPerPacket))
	cartons := packets.Div(decimal.NewFromInt(p.PacketsPerCarton))
	return Breakdown{
		Units:   base.Round(2),
		Packets: packets.Round(2),
		Cartons: cartons.Round(2),
	}
}

// AvailableIn devuelve cuántas unidades completas de kind caben en base.
// Devuelve 0 si la unidad no es vendible.
func AvailableIn(base decimal.Decimal, kind Kind, p Packaging) int64 {
	f, err := Factor(kind, p)
	if err != nil || !base.IsPositive() {
		return 0
	}
	return base.Div(decimal.NewFromInt(f)).Floor().IntPart()
}

// DerivePrice escala el precio base linealmente con el tamaño de la unidad.
func DerivePrice(basePrice decimal.Decimal, factor int64) decimal.Decimal {
	return basePrice.Mul(decimal.NewFromInt(factor))
}
