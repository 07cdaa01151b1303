package inventory

import (
	"context"

	"github.com/jhoicas/caja-api/internal/application/ports"
	"github.com/jhoicas/caja-api/internal/domain/entity"
	"github.com/jhoicas/caja-api/pkg/logger"
)

// Notifier publica inventory:committed después de cada commit para que las
// sesiones reconcilien su proyección. Un bus nil no publica nada.
type Notifier struct {
	bus ports.EventBus
	log *logger.Logger
}

// NewNotifier construye el notificador.
func NewNotifier(bus ports.EventBus, log *logger.Logger) *Notifier {
	return &Notifier{bus: bus, log: log.Component("inventory_notifier")}
}

// Committed publica una fila confirmada por cada inventario; los fallos del bus
// se registran pero no revierten nada.
func (n *Notifier) Committed(ctx context.Context, companyID string, rows []*entity.Inventory) {
	if n == nil || n.bus == nil {
		return
	}
	for _, inv := range rows {
		ev := ports.Event{
			Type:      ports.EventInventoryCommitted,
			CompanyID: companyID,
			Origin:    "server",
			Committed: &ports.InventoryCommitted{
				ProductID:   inv.ProductID,
				WarehouseID: inv.WarehouseID,
				Available:   inv.AvailableQuantity,
				Version:     inv.Version,
			},
		}
		if err := n.bus.Publish(ctx, ev); err != nil {
			n.log.Error().Err(err).
				Str("company_id", companyID).
				Str("product_id", inv.ProductID).
				Msg("no se pudo publicar inventory:committed")
		}
	}
}
