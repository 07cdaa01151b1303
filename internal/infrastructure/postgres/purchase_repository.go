package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/caja-api/internal/domain"
	"github.com/jhoicas/caja-api/internal/domain/entity"
	"github.com/jhoicas/caja-api/internal/domain/repository"
)

var _ repository.PurchaseRepository = (*PurchaseRepo)(nil)

// PurchaseRepo recepciones y devoluciones a proveedor (usable con pool o tx).
type PurchaseRepo struct {
	q Querier
}

// NewPurchaseRepository construye el adaptador. Pasar pool o tx (Querier).
func NewPurchaseRepository(q Querier) *PurchaseRepo {
	return &PurchaseRepo{q: q}
}

// Create guarda el documento y sus líneas.
func (r *PurchaseRepo) Create(ctx context.Context, p *entity.Purchase) error {
	b := &pgx.Batch{}
	b.Queue(`
		INSERT INTO purchases (id, company_id, supplier_id, warehouse_id, user_id, kind, number, total, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		p.ID, p.CompanyID, p.SupplierID, p.WarehouseID, p.UserID, p.Kind, p.Number, p.Total, p.CreatedAt,
	)
	for _, it := range p.Items {
		b.Queue(`
			INSERT INTO purchase_items (id, purchase_id, product_id, kind, quantity, base_quantity, unit_cost, subtotal)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			it.ID, p.ID, it.ProductID, it.Kind, it.Quantity, it.BaseQuantity, it.UnitCost, it.Subtotal,
		)
	}
	if err := sendBatch(ctx, r.q, b); err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: compra %s", domain.ErrDuplicate, p.Number)
		}
		return fmt.Errorf("insert purchase: %w", err)
	}
	return nil
}

// GetByID obtiene el documento de la empresa con sus líneas.
func (r *PurchaseRepo) GetByID(ctx context.Context, companyID, id string) (*entity.Purchase, error) {
	var p entity.Purchase
	err := r.q.QueryRow(ctx, `
		SELECT id, company_id, supplier_id, warehouse_id, user_id, kind, number, total, created_at
		FROM purchases WHERE company_id = $1 AND id = $2`, companyID, id).Scan(
		&p.ID, &p.CompanyID, &p.SupplierID, &p.WarehouseID, &p.UserID, &p.Kind, &p.Number, &p.Total, &p.CreatedAt,
	)
	if err != nil {
		if isNoRows(err) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get purchase: %w", err)
	}

	rows, err := r.q.Query(ctx, `
		SELECT id, purchase_id, product_id, kind, quantity, base_quantity, unit_cost, subtotal
		FROM purchase_items WHERE purchase_id = $1
		ORDER BY position`, id)
	if err != nil {
		return nil, fmt.Errorf("list purchase items: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var it entity.PurchaseItem
		if err := rows.Scan(&it.ID, &it.PurchaseID, &it.ProductID, &it.Kind, &it.Quantity,
			&it.BaseQuantity, &it.UnitCost, &it.Subtotal); err != nil {
			return nil, fmt.Errorf("scan purchase item: %w", err)
		}
		p.Items = append(p.Items, it)
	}
	return &p, rows.Err()
}
