package pos

import (
	"sync"

	"github.com/jhoicas/caja-api/internal/application/ports"
	"github.com/jhoicas/caja-api/internal/domain/cart"
)

// Session es una caja abierta: posee sus carritos y su proyección de stock.
type Session struct {
	ID          string
	CompanyID   string
	UserID      string
	WarehouseID string

	carts      *cart.Store
	projection *cart.Projection

	// ops serializa las operaciones de la caja sobre sus carritos, cobro incluido.
	ops sync.Mutex

	mu        sync.Mutex
	listeners map[int]chan ports.Event
	nextID    int
	closed    bool
	stop      func()
}

func newSession(id, companyID, userID, warehouseID string) *Session {
	return &Session{
		ID:          id,
		CompanyID:   companyID,
		UserID:      userID,
		WarehouseID: warehouseID,
		carts:       cart.NewStore(),
		projection:  cart.NewProjection(),
		listeners:   make(map[int]chan ports.Event),
	}
}

// Listen devuelve los eventos que recibe la sesión (SSE). El canal se cierra al
// cancelar o al cerrar la sesión.
func (s *Session) Listen() (<-chan ports.Event, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ch := make(chan ports.Event, 32)
	if s.closed {
		close(ch)
		return ch, func() {}
	}
	id := s.nextID
	s.nextID++
	s.listeners[id] = ch
	var once sync.Once
	return ch, func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			if l, ok := s.listeners[id]; ok {
				delete(s.listeners, id)
				close(l)
			}
		})
	}
}

// forward entrega ev a cada oyente; un oyente lento pierde el evento.
func (s *Session) forward(ev ports.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, ch := range s.listeners {
		select {
		case ch <- ev:
		default:
		}
	}
}

func (s *Session) close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	for id, ch := range s.listeners {
		delete(s.listeners, id)
		close(ch)
	}
	stop := s.stop
	s.mu.Unlock()
	if stop != nil {
		stop()
	}
}
