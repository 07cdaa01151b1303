// Package cart mantiene los carritos de una sesión de caja. Cada sesión posee
// su propio Store; no hay estado global.
package cart

import (
	"strconv"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/caja-api/internal/domain"
	"github.com/jhoicas/caja-api/internal/domain/entity"
)

// UnitRef describe una unidad de venta en la foto que guarda la línea.
type UnitRef struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	Kind           string          `json:"kind"`
	UnitsPerParent int64           `json:"units_per_parent"`
	IsBase         bool            `json:"is_base"`
	Price          decimal.Decimal `json:"price"`
}

// Item es una línea del carrito, identificada por (ProductID, SelectedUnitID).
type Item struct {
	ProductID         string           `json:"product_id"`
	ProductName       string           `json:"product_name"`
	SelectedUnitID    string           `json:"selected_unit_id"`
	SelectedUnitName  string           `json:"selected_unit_name"`
	SelectedUnitPrice decimal.Decimal  `json:"selected_unit_price"`
	SelectedQty       int64            `json:"selected_qty"`
	SellingUnits      []UnitRef        `json:"selling_units"`
	AvailableStock    map[string]int64 `json:"available_stock"` // foto por unidad al crear la línea
}

func (it Item) clone() Item {
	c := it
	c.SellingUnits = append([]UnitRef(nil), it.SellingUnits...)
	c.AvailableStock = make(map[string]int64, len(it.AvailableStock))
	for k, v := range it.AvailableStock {
		c.AvailableStock[k] = v
	}
	return c
}

func (it Item) unit(unitID string) (UnitRef, bool) {
	for _, u := range it.SellingUnits {
		if u.ID == unitID {
			return u, true
		}
	}
	return UnitRef{}, false
}

// Discount descuento aplicado una sola vez sobre el total del carrito.
type Discount struct {
	Type  string          `json:"type"` // fixed | percentage
	Value decimal.Decimal `json:"value"`
}

// Cart carrito con nombre.
type Cart struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Items    []Item   `json:"items"`
	Discount Discount `json:"discount"`
}

func (c *Cart) clone() Cart {
	out := Cart{ID: c.ID, Name: c.Name, Discount: c.Discount, Items: make([]Item, len(c.Items))}
	for i, it := range c.Items {
		out.Items[i] = it.clone()
	}
	return out
}

func (c *Cart) find(productID, unitID string) int {
	for i, it := range c.Items {
		if it.ProductID == productID && it.SelectedUnitID == unitID {
			return i
		}
	}
	return -1
}

// AddOutcome resultado de AddItem.
type AddOutcome string

const (
	OutcomeAppended    AddOutcome = "appended"
	OutcomeIncremented AddOutcome = "incremented"
	OutcomeRejected    AddOutcome = "rejected" // sin stock; no es un error
)

// Direction de UpdateQty.
const (
	DirectionPlus  = "plus"
	DirectionMinus = "minus"
)

// Store carritos de una sesión, con exactamente uno activo (o ninguno).
type Store struct {
	mu       sync.Mutex
	carts    []*Cart
	activeID string
	seq      int
}

// NewStore crea un Store vacío.
func NewStore() *Store {
	return &Store{}
}

// AddCart crea un carrito vacío y lo activa.
func (s *Store) AddCart(name string) Cart {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	id := "cart-" + strconv.Itoa(s.seq)
	if name == "" {
		name = "Carrito " + strconv.Itoa(s.seq)
	}
	c := &Cart{ID: id, Name: name}
	s.carts = append(s.carts, c)
	s.activeID = id
	return c.clone()
}

// RemoveCart elimina el carrito; si era el activo se activa el primero restante.
// Devuelve el carrito eliminado para que el llamador restituya su stock.
func (s *Store) RemoveCart(id string) (Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, c := range s.carts {
		if c.ID != id {
			continue
		}
		removed := c.clone()
		s.carts = append(s.carts[:i], s.carts[i+1:]...)
		if s.activeID == id {
			s.activeID = ""
			if len(s.carts) > 0 {
				s.activeID = s.carts[0].ID
			}
		}
		return removed, nil
	}
	return Cart{}, domain.ErrNotFound
}

// SetActive cambia el carrito activo.
func (s *Store) SetActive(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.carts {
		if c.ID == id {
			s.activeID = id
			return nil
		}
	}
	return domain.ErrNotFound
}

// Carts devuelve una copia de todos los carritos y el ID del activo.
func (s *Store) Carts() ([]Cart, string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Cart, len(s.carts))
	for i, c := range s.carts {
		out[i] = c.clone()
	}
	return out, s.activeID
}

// Active devuelve una copia del carrito activo.
func (s *Store) Active() (Cart, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := s.active()
	if c == nil {
		return Cart{}, false
	}
	return c.clone(), true
}

func (s *Store) active() *Cart {
	for _, c := range s.carts {
		if c.ID == s.activeID {
			return c
		}
	}
	return nil
}

// activeOrCreate crea un carrito por defecto si no hay ninguno activo.
func (s *Store) activeOrCreate() *Cart {
	if c := s.active(); c != nil {
		return c
	}
	s.seq++
	c := &Cart{ID: "cart-" + strconv.Itoa(s.seq), Name: "Carrito " + strconv.Itoa(s.seq)}
	s.carts = append(s.carts, c)
	s.activeID = c.ID
	return c
}

// AddItem suma 1 a la línea existente si la foto de stock lo permite, o agrega
// una línea nueva si hay al menos una unidad disponible. Sin stock no hace nada.
func (s *Store) AddItem(item Item) AddOutcome {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := s.activeOrCreate()
	if i := c.find(item.ProductID, item.SelectedUnitID); i >= 0 {
		line := &c.Items[i]
		if line.SelectedQty+1 > line.AvailableStock[line.SelectedUnitID] {
			return OutcomeRejected
		}
		line.SelectedQty++
		return OutcomeIncremented
	}
	if item.AvailableStock[item.SelectedUnitID] < 1 {
		return OutcomeRejected
	}
	line := item.clone()
	line.SelectedQty = 1
	c.Items = append(c.Items, line)
	return OutcomeAppended
}

// UpdateQty "plus" suma delta (sin pasar la foto de stock); cualquier otra dirección
// resta, con mínimo 1. Devuelve el cambio efectivamente aplicado (con signo).
func (s *Store) UpdateQty(productID, unitID string, delta int64, direction string) (int64, error) {
	if delta < 0 {
		delta = -delta
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	c := s.active()
	if c == nil {
		return 0, domain.ErrNotFound
	}
	i := c.find(productID, unitID)
	if i < 0 {
		return 0, domain.ErrNotFound
	}
	line := &c.Items[i]
	before := line.SelectedQty
	if direction == DirectionPlus {
		next := before + delta
		if limit := line.AvailableStock[unitID]; next > limit {
			next = limit
		}
		if next < before {
			next = before
		}
		line.SelectedQty = next
	} else {
		next := before - delta
		if next < 1 {
			next = 1
		}
		line.SelectedQty = next
	}
	return line.SelectedQty - before, nil
}

// RemoveItem quita la línea y la devuelve.
func (s *Store) RemoveItem(productID, unitID string) (Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := s.active()
	if c == nil {
		return Item{}, domain.ErrNotFound
	}
	i := c.find(productID, unitID)
	if i < 0 {
		return Item{}, domain.ErrNotFound
	}
	removed := c.Items[i]
	c.Items = append(c.Items[:i], c.Items[i+1:]...)
	return removed, nil
}

// ChangeSellingUnit cambia la unidad de la línea y reinicia la cantidad a 1;
// no se convierte proporcionalmente. Devuelve la línea previa. Si la foto de
// stock no alcanza para una unidad nueva la línea no cambia.
func (s *Store) ChangeSellingUnit(productID, fromUnitID, toUnitID string) (Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := s.active()
	if c == nil {
		return Item{}, domain.ErrNotFound
	}
	i := c.find(productID, fromUnitID)
	if i < 0 {
		return Item{}, domain.ErrNotFound
	}
	line := &c.Items[i]
	to, ok := line.unit(toUnitID)
	if !ok {
		return Item{}, domain.ErrUnitNotSellable
	}
	if fromUnitID != toUnitID && c.find(productID, toUnitID) >= 0 {
		return Item{}, domain.ErrConflict
	}
	// La foto se tomó antes de que la línea apartara stock.
	if to.ID != fromUnitID && line.AvailableStock[to.ID] < 1 {
		return Item{}, domain.ErrInsufficientStock
	}
	previous := line.clone()
	line.SelectedUnitID = to.ID
	line.SelectedUnitName = to.Name
	line.SelectedUnitPrice = to.Price
	line.SelectedQty = 1
	return previous, nil
}

// SetDiscount fija el descuento del carrito activo.
func (s *Store) SetDiscount(discountType string, value decimal.Decimal) error {
	if discountType != "" && discountType != entity.DiscountFixed && discountType != entity.DiscountPercentage {
		return domain.Invalid("discount.type", "debe ser fixed o percentage")
	}
	if value.IsNegative() {
		return domain.Invalid("discount.value", "no puede ser negativo")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	c := s.active()
	if c == nil {
		return domain.ErrNotFound
	}
	c.Discount = Discount{Type: discountType, Value: value}
	return nil
}

// Totals calcula los totales del carrito activo.
func (s *Store) Totals() Totals {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := s.active()
	if c == nil {
		return Totals{}
	}
	return ComputeTotals(c.Items, c.Discount)
}

// DestroyActive elimina el carrito activo tras una venta exitosa y lo devuelve.
// Si había otros carritos se activa el primero restante.
func (s *Store) DestroyActive() (Cart, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, c := range s.carts {
		if c.ID != s.activeID {
			continue
		}
		removed := c.clone()
		s.carts = append(s.carts[:i], s.carts[i+1:]...)
		s.activeID = ""
		if len(s.carts) > 0 {
			s.activeID = s.carts[0].ID
		}
		return removed, true
	}
	return Cart{}, false
}
