package postgres

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"github.com/jhoicas/caja-api/internal/domain/entity"
	"github.com/jhoicas/caja-api/internal/domain/repository"
)

var _ repository.StockMovementRepository = (*StockMovementRepo)(nil)

var movementColumns = []string{
	"id", "company_id", "product_id", "warehouse_id", "user_id", "type", "quantity", "reason",
	"quantity_before", "quantity_after", "reference_type", "reference_id", "unit_cost", "created_at",
}

// StockMovementRepo bitácora de movimientos: solo inserción y lectura.
type StockMovementRepo struct {
	q Querier
}

// NewStockMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockMovementRepository(q Querier) *StockMovementRepo {
	return &StockMovementRepo{q: q}
}

// Create inserta un movimiento.
func (r *StockMovementRepo) Create(ctx context.Context, m *entity.StockMovement) error {
	query, args, err := psql.Insert("stock_movements").Columns(movementColumns...).
		Values(m.ID, m.CompanyID, m.ProductID, m.WarehouseID, m.UserID, m.Type, m.Quantity, m.Reason,
			m.QuantityBefore, m.QuantityAfter, m.ReferenceType, m.ReferenceID, m.UnitCost, m.CreatedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert movement: %w", err)
	}
	if _, err := r.q.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("insert movement: %w", err)
	}
	return nil
}

// List filtra la bitácora; más recientes primero.
func (r *StockMovementRepo) List(ctx context.Context, f repository.MovementFilter) ([]*entity.StockMovement, error) {
	b := psql.Select(movementColumns...).From("stock_movements").
		Where(sq.Eq{"company_id": f.CompanyID}).
		OrderBy("created_at DESC", "id DESC")
	if f.ProductID != "" {
		b = b.Where(sq.Eq{"product_id": f.ProductID})
	}
	if f.WarehouseID != "" {
		b = b.Where(sq.Eq{"warehouse_id": f.WarehouseID})
	}
	if f.ReferenceType != "" {
		b = b.Where(sq.Eq{"reference_type": f.ReferenceType})
	}
	if f.ReferenceID != "" {
		b = b.Where(sq.Eq{"reference_id": f.ReferenceID})
	}
	if f.From != nil {
		b = b.Where(sq.GtOrEq{"created_at": *f.From})
	}
	if f.To != nil {
		b = b.Where(sq.LtOrEq{"created_at": *f.To})
	}
	if f.Limit > 0 {
		b = b.Limit(uint64(f.Limit))
	}
	if f.Offset > 0 {
		b = b.Offset(uint64(f.Offset))
	}

	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list movements: %w", err)
	}
	var list []*entity.StockMovement
	if err := pgxscan.Select(ctx, r.q, &list, query, args...); err != nil {
		return nil, fmt.Errorf("list movements: %w", err)
	}
	return list, nil
}
