// Package pos administra las sesiones de caja: carritos por sesión, proyección
// optimista de stock y difusión de deltas entre cajas de la misma empresa.
package pos

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/caja-api/internal/application/dto"
	"github.com/jhoicas/caja-api/internal/application/ports"
	"github.com/jhoicas/caja-api/internal/application/sales"
	"github.com/jhoicas/caja-api/internal/domain"
	"github.com/jhoicas/caja-api/internal/domain/cart"
	"github.com/jhoicas/caja-api/internal/domain/entity"
	"github.com/jhoicas/caja-api/internal/domain/repository"
	"github.com/jhoicas/caja-api/pkg/logger"
)

// Service mantiene las sesiones abiertas en este proceso.
type Service struct {
	mu       sync.RWMutex
	sessions map[string]*Session

	bus           ports.EventBus
	productRepo   repository.ProductRepository
	warehouseRepo repository.WarehouseRepository
	inventoryRepo repository.InventoryRepository
	checkout      Checkouter
	log           *logger.Logger
}

// NewService construye el servicio. bus puede ser nil (sin difusión).
func NewService(
	bus ports.EventBus,
	productRepo repository.ProductRepository,
	warehouseRepo repository.WarehouseRepository,
	inventoryRepo repository.InventoryRepository,
	checkout Checkouter,
	log *logger.Logger,
) *Service {
	return &Service{
		sessions:      make(map[string]*Session),
		bus:           bus,
		productRepo:   productRepo,
		warehouseRepo: warehouseRepo,
		inventoryRepo: inventoryRepo,
		checkout:      checkout,
		log:           log.Component("pos"),
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Sesiones
// ──────────────────────────────────────────────────────────────────────────────

// Open abre una sesión de caja sobre una bodega con un carrito vacío.
func (s *Service) Open(ctx context.Context, companyID, userID, warehouseID string) (*dto.SessionResponse, error) {
	if warehouseID == "" {
		return nil, domain.Invalid("warehouse_id", "requerido")
	}
	wh, err := s.warehouseRepo.GetByID(ctx, warehouseID)
	if err != nil {
		return nil, err
	}
	if wh.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}

	sess := newSession(uuid.New().String(), companyID, userID, warehouseID)
	sess.carts.AddCart("")
	if s.bus != nil {
		events, cancel := s.bus.Subscribe(companyID)
		sess.stop = cancel
		go s.consume(sess, events)
	}

	s.mu.Lock()
	s.sessions[sess.ID] = sess
	s.mu.Unlock()

	s.log.Info().
		Str("company_id", companyID).
		Str("session_id", sess.ID).
		Str("warehouse_id", warehouseID).
		Msg("sesión de caja abierta")
	return toSessionResponse(sess), nil
}

// Close cierra la sesión y libera lo que tenían reservado sus carritos en las
// proyecciones de las demás cajas.
func (s *Service) Close(ctx context.Context, companyID, sessionID string) error {
	sess, err := s.session(companyID, sessionID)
	if err != nil {
		return err
	}
	sess.ops.Lock()
	defer sess.ops.Unlock()
	s.mu.Lock()
	delete(s.sessions, sessionID)
	s.mu.Unlock()

	carts, _ := sess.carts.Carts()
	for _, c := range carts {
		s.releaseItems(ctx, sess, c.Items)
	}
	sess.close()
	s.log.Info().Str("company_id", companyID).Str("session_id", sessionID).Msg("sesión de caja cerrada")
	return nil
}

// Shutdown cierra todas las sesiones sin publicar deltas.
func (s *Service) Shutdown() {
	s.mu.Lock()
	sessions := s.sessions
	s.sessions = make(map[string]*Session)
	s.mu.Unlock()
	for _, sess := range sessions {
		sess.close()
	}
}

// Get estado actual de la sesión.
func (s *Service) Get(companyID, sessionID string) (*dto.SessionResponse, error) {
	sess, err := s.session(companyID, sessionID)
	if err != nil {
		return nil, err
	}
	return toSessionResponse(sess), nil
}

// Listen suscribe un oyente (SSE) a los eventos de la sesión.
func (s *Service) Listen(companyID, sessionID string) (<-chan ports.Event, func(), error) {
	sess, err := s.session(companyID, sessionID)
	if err != nil {
		return nil, nil, err
	}
	ch, cancel := sess.Listen()
	return ch, cancel, nil
}

func (s *Service) session(companyID, sessionID string) (*Session, error) {
	s.mu.RLock()
	sess, ok := s.sessions[sessionID]
	s.mu.RUnlock()
	if !ok || sess.CompanyID != companyID {
		return nil, domain.ErrNotFound
	}
	return sess, nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Carritos
// ──────────────────────────────────────────────────────────────────────────────

// AddCart crea un carrito y lo deja activo.
func (s *Service) AddCart(companyID, sessionID, name string) (*dto.SessionResponse, error) {
	sess, err := s.session(companyID, sessionID)
	if err != nil {
		return nil, err
	}
	sess.ops.Lock()
	defer sess.ops.Unlock()
	sess.carts.AddCart(name)
	return toSessionResponse(sess), nil
}

// RemoveCart elimina un carrito y restituye su stock en las proyecciones.
func (s *Service) RemoveCart(ctx context.Context, companyID, sessionID, cartID string) (*dto.SessionResponse, error) {
	sess, err := s.session(companyID, sessionID)
	if err != nil {
		return nil, err
	}
	sess.ops.Lock()
	defer sess.ops.Unlock()
	removed, err := sess.carts.RemoveCart(cartID)
	if err != nil {
		return nil, err
	}
	s.releaseItems(ctx, sess, removed.Items)
	return toSessionResponse(sess), nil
}

// SetActiveCart cambia el carrito activo.
func (s *Service) SetActiveCart(companyID, sessionID, cartID string) (*dto.SessionResponse, error) {
	sess, err := s.session(companyID, sessionID)
	if err != nil {
		return nil, err
	}
	sess.ops.Lock()
	defer sess.ops.Unlock()
	if err := sess.carts.SetActive(cartID); err != nil {
		return nil, err
	}
	return toSessionResponse(sess), nil
}

// SetDiscount fija el descuento del carrito activo.
func (s *Service) SetDiscount(companyID, sessionID, discountType string, value decimal.Decimal) (*dto.SessionResponse, error) {
	sess, err := s.session(companyID, sessionID)
	if err != nil {
		return nil, err
	}
	sess.ops.Lock()
	defer sess.ops.Unlock()
	if discountType == entity.DiscountPercentage && value.GreaterThan(decimal.NewFromInt(100)) {
		return nil, domain.Invalid("discount.value", "el porcentaje no puede superar 100")
	}
	if err := sess.carts.SetDiscount(discountType, value); err != nil {
		return nil, err
	}
	return toSessionResponse(sess), nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Líneas
// ──────────────────────────────────────────────────────────────────────────────

// AddItem agrega una unidad del producto al carrito activo usando la
// disponibilidad proyectada de la sesión. Sin stock el resultado es rejected y
// el carrito no cambia.
func (s *Service) AddItem(ctx context.Context, companyID, sessionID, productID, unitID string) (*dto.AddItemResponse, error) {
	sess, err := s.session(companyID, sessionID)
	if err != nil {
		return nil, err
	}
	sess.ops.Lock()
	defer sess.ops.Unlock()
	product, err := s.product(ctx, companyID, productID)
	if err != nil {
		return nil, err
	}
	unit, ok := product.FindUnit(unitID)
	if !ok || !product.Packaging().Sellable(unit.Kind) {
		return nil, domain.ErrUnitNotSellable
	}
	if err := s.track(ctx, sess, product); err != nil {
		return nil, err
	}
	available, _ := sess.projection.Available(productID)

	outcome := sess.carts.AddItem(cart.Item{
		ProductID:         product.ID,
		ProductName:       product.Name,
		SelectedUnitID:    unit.ID,
		SelectedUnitName:  unit.Name,
		SelectedUnitPrice: product.PriceFor(unit),
		SellingUnits:      unitRefs(product),
		AvailableStock:    available,
	})
	if outcome == cart.OutcomeRejected {
		s.log.Warn().
			Str("session_id", sess.ID).
			Str("product_id", productID).
			Str("unit_id", unitID).
			Msg("sin stock disponible, no se agrega al carrito")
	} else {
		s.emit(ctx, sess, productID, unitID, 1, cart.ModeConsume)
	}
	return &dto.AddItemResponse{Outcome: string(outcome), Session: *toSessionResponse(sess)}, nil
}

// UpdateQty suma o resta cantidad a una línea del carrito activo.
func (s *Service) UpdateQty(ctx context.Context, companyID, sessionID, productID, unitID string, delta int64, direction string) (*dto.SessionResponse, error) {
	if direction != cart.DirectionPlus && direction != cart.DirectionMinus {
		return nil, domain.Invalid("direction", "debe ser plus o minus")
	}
	sess, err := s.session(companyID, sessionID)
	if err != nil {
		return nil, err
	}
	sess.ops.Lock()
	defer sess.ops.Unlock()
	applied, err := sess.carts.UpdateQty(productID, unitID, delta, direction)
	if err != nil {
		return nil, err
	}
	switch {
	case applied > 0:
		s.emit(ctx, sess, productID, unitID, applied, cart.ModeConsume)
	case applied < 0:
		s.emit(ctx, sess, productID, unitID, -applied, cart.ModeRestore)
	}
	return toSessionResponse(sess), nil
}

// RemoveItem quita la línea y restituye su cantidad.
func (s *Service) RemoveItem(ctx context.Context, companyID, sessionID, productID, unitID string) (*dto.SessionResponse, error) {
	sess, err := s.session(companyID, sessionID)
	if err != nil {
		return nil, err
	}
	sess.ops.Lock()
	defer sess.ops.Unlock()
	removed, err := sess.carts.RemoveItem(productID, unitID)
	if err != nil {
		return nil, err
	}
	s.emit(ctx, sess, productID, unitID, removed.SelectedQty, cart.ModeRestore)
	return toSessionResponse(sess), nil
}

// ChangeSellingUnit cambia la unidad de una línea; la cantidad vuelve a 1.
func (s *Service) ChangeSellingUnit(ctx context.Context, companyID, sessionID, productID, fromUnitID, toUnitID string) (*dto.SessionResponse, error) {
	sess, err := s.session(companyID, sessionID)
	if err != nil {
		return nil, err
	}
	sess.ops.Lock()
	defer sess.ops.Unlock()
	prev, err := sess.carts.ChangeSellingUnit(productID, fromUnitID, toUnitID)
	if err != nil {
		return nil, err
	}
	s.emit(ctx, sess, productID, fromUnitID, prev.SelectedQty, cart.ModeRestore)
	s.emit(ctx, sess, productID, toUnitID, 1, cart.ModeConsume)
	return toSessionResponse(sess), nil
}

// Stock disponibilidad proyectada del producto en la sesión.
func (s *Service) Stock(ctx context.Context, companyID, sessionID, productID string) (*dto.SessionStockResponse, error) {
	sess, err := s.session(companyID, sessionID)
	if err != nil {
		return nil, err
	}
	sess.ops.Lock()
	defer sess.ops.Unlock()
	product, err := s.product(ctx, companyID, productID)
	if err != nil {
		return nil, err
	}
	if err := s.track(ctx, sess, product); err != nil {
		return nil, err
	}
	available, _ := sess.projection.Available(productID)
	return &dto.SessionStockResponse{
		ProductID: productID,
		Version:   sess.projection.Version(productID),
		Available: available,
	}, nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Cobro
// ──────────────────────────────────────────────────────────────────────────────

// Checkout cobra el carrito activo. Si la venta falla el carrito queda intacto;
// si se confirma, el carrito se destruye y la proyección adopta los valores
// confirmados. Las demás operaciones de la sesión esperan a que termine.
func (s *Service) Checkout(ctx context.Context, companyID, sessionID string, req dto.SessionCheckoutRequest) (*dto.CheckoutResponse, error) {
	sess, err := s.session(companyID, sessionID)
	if err != nil {
		return nil, err
	}
	sess.ops.Lock()
	defer sess.ops.Unlock()
	active, ok := sess.carts.Active()
	if !ok || len(active.Items) == 0 {
		return nil, domain.Invalid("cart", "el carrito activo está vacío")
	}

	items := make([]sales.CheckoutItem, 0, len(active.Items))
	for _, it := range active.Items {
		items = append(items, sales.CheckoutItem{
			ProductID:     it.ProductID,
			SellingUnitID: it.SelectedUnitID,
			Quantity:      decimal.NewFromInt(it.SelectedQty),
		})
	}
	res, err := s.checkout.Checkout(ctx, sales.CheckoutInput{
		CompanyID:      companyID,
		WarehouseID:    sess.WarehouseID,
		CashierID:      sess.UserID,
		CustomerID:     req.CustomerID,
		SaleNumber:     req.SaleNumber,
		Items:          items,
		Discount:       active.Discount,
		ReceivedAmount: req.ReceivedAmount,
		PaymentMethod:  req.PaymentMethod,
	})
	if err != nil {
		return nil, err
	}

	sess.carts.DestroyActive()
	for _, inv := range res.UpdatedInventory {
		if inv.WarehouseID != sess.WarehouseID {
			continue
		}
		sess.projection.Reconcile(inv.ProductID, inv.AvailableQuantity.Sub(held(sess, inv.ProductID)), inv.Version)
	}
	return res, nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Proyección y difusión
// ──────────────────────────────────────────────────────────────────────────────

// consume aplica los eventos de la empresa a la sesión hasta que se cancele la suscripción.
func (s *Service) consume(sess *Session, events <-chan ports.Event) {
	for ev := range events {
		switch ev.Type {
		case ports.EventStockUpdate:
			u := ev.StockUpdate
			if u == nil || ev.Origin == sess.ID || u.WarehouseID != sess.WarehouseID {
				continue
			}
			if !sess.projection.Tracked(u.ProductID) {
				break
			}
			if _, err := sess.projection.Apply(cart.Delta{
				ProductID:     u.ProductID,
				SellingUnitID: u.SellingUnitID,
				Quantity:      u.Quantity,
				Mode:          u.Mode,
			}); err != nil {
				s.log.Debug().Err(err).Str("session_id", sess.ID).Str("product_id", u.ProductID).Msg("delta remoto ignorado")
			}
		case ports.EventInventoryCommitted:
			c := ev.Committed
			if c == nil || c.WarehouseID != sess.WarehouseID {
				continue
			}
			sess.projection.Reconcile(c.ProductID, c.Available.Sub(held(sess, c.ProductID)), c.Version)
		default:
			continue
		}
		sess.forward(ev)
	}
}

// track carga la fila de inventario y refresca la vista si la local es anterior.
// Lo que la sesión tiene en carritos se descuenta del valor confirmado.
func (s *Service) track(ctx context.Context, sess *Session, product *entity.Product) error {
	base, version := decimal.Zero, int64(0)
	inv, err := s.inventoryRepo.Get(ctx, sess.CompanyID, product.ID, sess.WarehouseID)
	switch {
	case err == nil:
		base, version = inv.AvailableQuantity, inv.Version
	case errors.Is(err, domain.ErrInventoryNotFound):
	default:
		return err
	}
	if !sess.projection.Stale(product.ID, version) {
		return nil
	}
	sess.projection.Track(cart.StockView{
		ProductID: product.ID,
		Packaging: product.Packaging(),
		Units:     unitRefs(product),
		Base:      base.Sub(held(sess, product.ID)),
		Version:   version,
	})
	return nil
}

// emit aplica el delta a la proyección propia y lo difunde a las demás cajas.
func (s *Service) emit(ctx context.Context, sess *Session, productID, unitID string, qty int64, mode string) {
	if qty <= 0 {
		return
	}
	if _, err := sess.projection.Apply(cart.Delta{ProductID: productID, SellingUnitID: unitID, Quantity: qty, Mode: mode}); err != nil {
		s.log.Debug().Err(err).Str("session_id", sess.ID).Str("product_id", productID).Msg("delta local sin vista")
	}
	if s.bus == nil {
		return
	}
	ev := ports.Event{
		Type:      ports.EventStockUpdate,
		CompanyID: sess.CompanyID,
		Origin:    sess.ID,
		StockUpdate: &ports.StockUpdate{
			ProductID:     productID,
			WarehouseID:   sess.WarehouseID,
			SellingUnitID: unitID,
			Quantity:      qty,
			Mode:          mode,
		},
	}
	if err := s.bus.Publish(ctx, ev); err != nil {
		s.log.Error().Err(err).Str("session_id", sess.ID).Str("product_id", productID).Msg("no se pudo publicar stock:update")
	}
}

func (s *Service) releaseItems(ctx context.Context, sess *Session, items []cart.Item) {
	for _, it := range items {
		s.emit(ctx, sess, it.ProductID, it.SelectedUnitID, it.SelectedQty, cart.ModeRestore)
	}
}

func (s *Service) product(ctx context.Context, companyID, productID string) (*entity.Product, error) {
	if productID == "" {
		return nil, domain.Invalid("product_id", "requerido")
	}
	p, err := s.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if p.CompanyID != companyID {
		return nil, domain.ErrNotFound
	}
	return p, nil
}

// held unidades base del producto que la sesión tiene en sus carritos.
func held(sess *Session, productID string) decimal.Decimal {
	carts, _ := sess.carts.Carts()
	total := int64(0)
	for _, c := range carts {
		for _, it := range c.Items {
			if it.ProductID != productID {
				continue
			}
			for _, u := range it.SellingUnits {
				if u.ID == it.SelectedUnitID {
					total += it.SelectedQty * u.UnitsPerParent
				}
			}
		}
	}
	return decimal.NewFromInt(total)
}
