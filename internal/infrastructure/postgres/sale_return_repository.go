package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/caja-api/internal/domain/entity"
	"github.com/jhoicas/caja-api/internal/domain/repository"
)

var _ repository.SaleReturnRepository = (*SaleReturnRepo)(nil)

// SaleReturnRepo devoluciones de venta (usable con pool o tx).
type SaleReturnRepo struct {
	q Querier
}

// NewSaleReturnRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSaleReturnRepository(q Querier) *SaleReturnRepo {
	return &SaleReturnRepo{q: q}
}

// Create guarda la devolución y sus líneas.
func (r *SaleReturnRepo) Create(ctx context.Context, ret *entity.SaleReturn) error {
	b := &pgx.Batch{}
	b.Queue(`
		INSERT INTO sale_returns (id, company_id, sale_id, warehouse_id, user_id, reason, total, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		ret.ID, ret.CompanyID, ret.SaleID, ret.WarehouseID, ret.UserID, ret.Reason, ret.Total, ret.CreatedAt,
	)
	for _, it := range ret.Items {
		b.Queue(`
			INSERT INTO sale_return_items (id, return_id, sale_item_id, product_id, selling_unit_id,
				quantity, base_quantity, amount)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			it.ID, ret.ID, it.SaleItemID, it.ProductID, it.SellingUnitID, it.Quantity, it.BaseQuantity, it.Amount,
		)
	}
	if err := sendBatch(ctx, r.q, b); err != nil {
		return fmt.Errorf("insert sale return: %w", err)
	}
	return nil
}

// ListBySale devoluciones de la venta con sus líneas, en orden de creación.
func (r *SaleReturnRepo) ListBySale(ctx context.Context, companyID, saleID string) ([]*entity.SaleReturn, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, company_id, sale_id, warehouse_id, user_id, reason, total, created_at
		FROM sale_returns WHERE company_id = $1 AND sale_id = $2
		ORDER BY created_at`, companyID, saleID)
	if err != nil {
		return nil, fmt.Errorf("list sale returns: %w", err)
	}
	var list []*entity.SaleReturn
	byID := make(map[string]*entity.SaleReturn)
	for rows.Next() {
		var ret entity.SaleReturn
		if err := rows.Scan(&ret.ID, &ret.CompanyID, &ret.SaleID, &ret.WarehouseID, &ret.UserID,
			&ret.Reason, &ret.Total, &ret.CreatedAt); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan sale return: %w", err)
		}
		list = append(list, &ret)
		byID[ret.ID] = &ret
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return list, nil
	}

	items, err := r.q.Query(ctx, `
		SELECT i.id, i.return_id, i.sale_item_id, i.product_id, i.selling_unit_id, i.quantity, i.base_quantity, i.amount
		FROM sale_return_items i
		JOIN sale_returns sr ON sr.id = i.return_id
		WHERE sr.sale_id = $1`, saleID)
	if err != nil {
		return nil, fmt.Errorf("list sale return items: %w", err)
	}
	defer items.Close()
	for items.Next() {
		var it entity.SaleReturnItem
		if err := items.Scan(&it.ID, &it.ReturnID, &it.SaleItemID, &it.ProductID, &it.SellingUnitID,
			&it.Quantity, &it.BaseQuantity, &it.Amount); err != nil {
			return nil, fmt.Errorf("scan sale return item: %w", err)
		}
		if ret, ok := byID[it.ReturnID]; ok {
			ret.Items = append(ret.Items, it)
		}
	}
	return list, items.Err()
}

// ReturnedQuantities suma lo devuelto por línea de venta.
func (r *SaleReturnRepo) ReturnedQuantities(ctx context.Context, saleID string) (map[string]decimal.Decimal, error) {
	rows, err := r.q.Query(ctx, `
		SELECT i.sale_item_id, SUM(i.quantity)
		FROM sale_return_items i
		JOIN sale_returns sr ON sr.id = i.return_id
		WHERE sr.sale_id = $1
		GROUP BY i.sale_item_id`, saleID)
	if err != nil {
		return nil, fmt.Errorf("returned quantities: %w", err)
	}
	defer rows.Close()
	out := make(map[string]decimal.Decimal)
	for rows.Next() {
		var id string
		var qty decimal.Decimal
		if err := rows.Scan(&id, &qty); err != nil {
			return nil, fmt.Errorf("scan returned quantity: %w", err)
		}
		out[id] = qty
	}
	return out, rows.Err()
}
