// Package realtime implementa ports.EventBus: Hub reparte eventos dentro del
// proceso y RedisBus los propaga entre procesos vía Redis Pub/Sub.
package realtime

import (
	"context"
	"sync"

	"github.com/jhoicas/caja-api/internal/application/ports"
)

const subscriberBuffer = 64

// Hub difusión en memoria por empresa. Un suscriptor lento pierde eventos en vez
// de bloquear a los demás.
type Hub struct {
	mu     sync.RWMutex
	subs   map[string]map[int]chan ports.Event
	nextID int
}

// NewHub crea un Hub vacío.
func NewHub() *Hub {
	return &Hub{subs: make(map[string]map[int]chan ports.Event)}
}

// Publish entrega ev a los suscriptores de ev.CompanyID.
func (h *Hub) Publish(_ context.Context, ev ports.Event) error {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, ch := range h.subs[ev.CompanyID] {
		select {
		case ch <- ev:
		default:
		}
	}
	return nil
}

// Subscribe registra un suscriptor; el canal se cierra al cancelar.
func (h *Hub) Subscribe(companyID string) (<-chan ports.Event, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()
	ch := make(chan ports.Event, subscriberBuffer)
	id := h.nextID
	h.nextID++
	if h.subs[companyID] == nil {
		h.subs[companyID] = make(map[int]chan ports.Event)
	}
	h.subs[companyID][id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			if byID, ok := h.subs[companyID]; ok {
				if c, ok := byID[id]; ok {
					delete(byID, id)
					close(c)
				}
				if len(byID) == 0 {
					delete(h.subs, companyID)
				}
			}
		})
	}
}

// Subscribers cantidad de suscriptores activos de la empresa.
func (h *Hub) Subscribers(companyID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs[companyID])
}
