package pos

import (
	"github.com/jhoicas/caja-api/internal/application/dto"
	"github.com/jhoicas/caja-api/internal/domain/cart"
	"github.com/jhoicas/caja-api/internal/domain/entity"
)

func toSessionResponse(sess *Session) *dto.SessionResponse {
	carts, active := sess.carts.Carts()
	out := &dto.SessionResponse{
		ID:           sess.ID,
		WarehouseID:  sess.WarehouseID,
		ActiveCartID: active,
		Carts:        make([]dto.CartResponse, 0, len(carts)),
	}
	for _, c := range carts {
		items := c.Items
		if items == nil {
			items = []cart.Item{}
		}
		out.Carts = append(out.Carts, dto.CartResponse{
			ID:       c.ID,
			Name:     c.Name,
			Items:    items,
			Discount: c.Discount,
			Totals:   cart.ComputeTotals(c.Items, c.Discount),
		})
	}
	return out
}

// unitRefs unidades vendibles del producto con su precio vigente.
func unitRefs(p *entity.Product) []cart.UnitRef {
	pk := p.Packaging()
	out := make([]cart.UnitRef, 0, len(p.SellingUnits))
	for i := range p.SellingUnits {
		u := &p.SellingUnits[i]
		if !pk.Sellable(u.Kind) {
			continue
		}
		out = append(out, cart.UnitRef{
			ID:             u.ID,
			Name:           u.Name,
			Kind:           string(u.Kind),
			UnitsPerParent: u.UnitsPerParent,
			IsBase:         u.IsBase,
			Price:          p.PriceFor(u),
		})
	}
	return out
}
