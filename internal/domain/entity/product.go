package entity

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/caja-api/internal/domain/units"
)

// Product representa un producto vendible en unidad, paquete o caja.
// Cost es el costo promedio ponderado por unidad base; el stock vive en Inventory por bodega.
type Product struct {
	ID               string
	CompanyID        string
	SKU              string // código único por empresa
	Name             string
	UnitsPerPacket   int64
	PacketsPerCarton int64
	UnitPrice        decimal.Decimal
	PacketPrice      decimal.Decimal
	CartonPrice      decimal.Decimal
	Cost             decimal.Decimal
	SellingMode      units.Mode
	ReorderLevel     decimal.Decimal // en unidades base
	ExpiryDate       *time.Time
	SellingUnits     []SellingUnit
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// SellingUnit es una vista con nombre y precio sobre el producto.
type SellingUnit struct {
	ID             string
	ProductID      string
	Name           string
	Kind           units.Kind
	UnitsPerParent int64 // unidades base contenidas
	IsBase         bool
	Price          decimal.Decimal
}

// Packaging devuelve los factores de empaque del producto.
func (p *Product) Packaging() units.Packaging {
	return units.Packaging{
		UnitsPerPacket:   p.UnitsPerPacket,
		PacketsPerCarton: p.PacketsPerCarton,
		Mode:             p.SellingMode,
	}
}

// FindUnit busca una unidad de venta por ID.
func (p *Product) FindUnit(unitID string) (*SellingUnit, bool) {
	for i := range p.SellingUnits {
		if p.SellingUnits[i].ID == unitID {
			return &p.SellingUnits[i], true
		}
	}
	return nil, false
}

// BaseUnit devuelve la unidad marcada como base.
func (p *Product) BaseUnit() (*SellingUnit, bool) {
	for i := range p.SellingUnits {
		if p.SellingUnits[i].IsBase {
			return &p.SellingUnits[i], true
		}
	}
	return nil, false
}

// PriceFor devuelve el precio de la unidad; si no tiene precio propio se deriva
// del precio de la unidad base escalado por su tamaño.
func (p *Product) PriceFor(u *SellingUnit) decimal.Decimal {
	if u.Price.IsPositive() {
		return u.Price
	}
	switch u.Kind {
	case units.KindPacket:
		if p.PacketPrice.IsPositive() {
			return p.PacketPrice
		}
	case units.KindCarton:
		if p.CartonPrice.IsPositive() {
			return p.CartonPrice
		}
	case units.KindUnit:
		if p.UnitPrice.IsPositive() {
			return p.UnitPrice
		}
	}
	base := p.UnitPrice
	if bu, ok := p.BaseUnit(); ok && bu.Price.IsPositive() {
		base = bu.Price
	}
	return units.DerivePrice(base, u.UnitsPerParent)
}
