package cart

import (
	"sync"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/caja-api/internal/domain"
	"github.com/jhoicas/caja-api/internal/domain/units"
)

// Modos de un delta de stock.
const (
	ModeConsume = "consume"
	ModeRestore = "restore"
)

// Delta cambio optimista de stock expresado en una unidad de venta.
type Delta struct {
	ProductID     string `json:"product_id"`
	SellingUnitID string `json:"selling_unit_id"`
	Quantity      int64  `json:"quantity"`
	Mode          string `json:"mode"` // consume | restore
}

// StockView disponibilidad conocida de un producto en la sesión.
type StockView struct {
	ProductID string
	Packaging units.Packaging
	Units     []UnitRef
	Base      decimal.Decimal // disponible en unidades base
	Version   int64           // versión de la fila de inventario que originó Base
}

// Projection guarda la disponibilidad optimista por producto. Los deltas locales y
// remotos se aplican sin confirmación; Reconcile la reemplaza con la verdad del
// servidor cuando llega una versión más nueva.
type Projection struct {
	mu    sync.Mutex
	views map[string]*StockView
}

// NewProjection crea una proyección vacía.
func NewProjection() *Projection {
	return &Projection{views: make(map[string]*StockView)}
}

// Track registra (o refresca si la versión es igual o más nueva) la vista de un producto.
func (p *Projection) Track(v StockView) {
	p.mu.Lock()
	defer p.mu.Unlock()
	cur, ok := p.views[v.ProductID]
	if ok && cur.Version > v.Version {
		return
	}
	vv := v
	vv.Units = append([]UnitRef(nil), v.Units...)
	p.views[v.ProductID] = &vv
}

// Tracked indica si el producto tiene vista.
func (p *Projection) Tracked(productID string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	_, ok := p.views[productID]
	return ok
}

// Apply aplica un delta y devuelve la disponibilidad resultante por unidad.
func (p *Projection) Apply(d Delta) (map[string]int64, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	v, ok := p.views[d.ProductID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	kind, ok := unitKind(v.Units, d.SellingUnitID)
	if !ok {
		return nil, domain.ErrUnitNotSellable
	}
	base, err := units.ToBase(decimal.NewFromInt(d.Quantity), kind, v.Packaging)
	if err != nil {
		return nil, err
	}
	switch d.Mode {
	case ModeConsume:
		v.Base = v.Base.Sub(base)
	case ModeRestore:
		v.Base = v.Base.Add(base)
	default:
		return nil, domain.Invalid("mode", "debe ser consume o restore")
	}
	return v.available(), nil
}

// Reconcile reemplaza la disponibilidad con el valor confirmado si version es más
// nueva que la conocida. Devuelve true si se aplicó.
func (p *Projection) Reconcile(productID string, available decimal.Decimal, version int64) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	v, ok := p.views[productID]
	if !ok || version <= v.Version {
		return false
	}
	v.Base = available
	v.Version = version
	return true
}

// Stale indica si la vista local es anterior a version.
func (p *Projection) Stale(productID string, version int64) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	v, ok := p.views[productID]
	return !ok || v.Version < version
}

// Available disponibilidad por unidad de venta del producto.
func (p *Projection) Available(productID string) (map[string]int64, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	v, ok := p.views[productID]
	if !ok {
		return nil, false
	}
	return v.available(), true
}

// Version versión conocida del producto.
func (p *Projection) Version(productID string) int64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	if v, ok := p.views[productID]; ok {
		return v.Version
	}
	return 0
}

func (v *StockView) available() map[string]int64 {
	out := make(map[string]int64, len(v.Units))
	for _, u := range v.Units {
		out[u.ID] = units.AvailableIn(v.Base, units.Kind(u.Kind), v.Packaging)
	}
	return out
}

func unitKind(refs []UnitRef, unitID string) (units.Kind, bool) {
	for _, u := range refs {
		if u.ID == unitID {
			return units.Kind(u.Kind), true
		}
	}
	return "", false
}
