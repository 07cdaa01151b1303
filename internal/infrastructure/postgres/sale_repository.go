package postgres

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/caja-api/internal/domain"
	"github.com/jhoicas/caja-api/internal/domain/entity"
	"github.com/jhoicas/caja-api/internal/domain/repository"
)

var _ repository.SaleRepository = (*SaleRepo)(nil)

var saleColumns = []string{
	"id", "company_id", "warehouse_id", "sale_number", "cashier_id",
	"COALESCE(customer_id, '') AS customer_id",
	"subtotal", "discount_type", "discount_value", "discount_amount", "total",
	"received_amount", "change_amount", "amount_due", "status", "created_at",
}

// SaleRepo ventas con líneas y pagos (usable con pool o tx).
type SaleRepo struct {
	q Querier
}

// NewSaleRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSaleRepository(q Querier) *SaleRepo {
	return &SaleRepo{q: q}
}

// Create guarda cabecera, líneas y pagos. Un número de venta repetido en la
// empresa devuelve domain.ErrDuplicate.
func (r *SaleRepo) Create(ctx context.Context, s *entity.Sale) error {
	b := &pgx.Batch{}
	b.Queue(`
		INSERT INTO sales (id, company_id, warehouse_id, sale_number, cashier_id, customer_id,
			subtotal, discount_type, discount_value, discount_amount, total,
			received_amount, change_amount, amount_due, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`,
		s.ID, s.CompanyID, s.WarehouseID, s.SaleNumber, s.CashierID, nullString(s.CustomerID),
		s.Subtotal, s.DiscountType, s.DiscountValue, s.DiscountAmount, s.Total,
		s.ReceivedAmount, s.Change, s.AmountDue, s.Status, s.CreatedAt,
	)
	for _, it := range s.Items {
		b.Queue(`
			INSERT INTO sale_items (id, sale_id, product_id, selling_unit_id, unit_name,
				quantity, base_quantity, unit_price, subtotal)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
			it.ID, s.ID, it.ProductID, it.SellingUnitID, it.UnitName,
			it.Quantity, it.BaseQuantity, it.UnitPrice, it.Subtotal,
		)
	}
	for _, p := range s.Payments {
		b.Queue(`
			INSERT INTO payments (id, sale_id, method, amount, created_at)
			VALUES ($1, $2, $3, $4, $5)`, p.ID, s.ID, p.Method, p.Amount, p.CreatedAt)
	}
	if err := sendBatch(ctx, r.q, b); err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: venta %s", domain.ErrDuplicate, s.SaleNumber)
		}
		return fmt.Errorf("insert sale: %w", err)
	}
	return nil
}

// GetByID devuelve la venta de la empresa con líneas y pagos.
func (r *SaleRepo) GetByID(ctx context.Context, companyID, id string) (*entity.Sale, error) {
	query, args, err := psql.Select(saleColumns...).From("sales").
		Where(sq.Eq{"company_id": companyID, "id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get sale: %w", err)
	}
	var s entity.Sale
	if err := pgxscan.Get(ctx, r.q, &s, query, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get sale: %w", err)
	}
	if err := r.loadLines(ctx, []*entity.Sale{&s}); err != nil {
		return nil, err
	}
	return &s, nil
}

// List filtra ventas, más recientes primero.
func (r *SaleRepo) List(ctx context.Context, f repository.SaleFilter) ([]*entity.Sale, error) {
	b := psql.Select(saleColumns...).From("sales").
		Where(sq.Eq{"company_id": f.CompanyID}).
		OrderBy("created_at DESC", "id DESC")
	if f.CashierID != "" {
		b = b.Where(sq.Eq{"cashier_id": f.CashierID})
	}
	if f.CustomerID != "" {
		b = b.Where(sq.Eq{"customer_id": f.CustomerID})
	}
	if f.Status != "" {
		b = b.Where(sq.Eq{"status": f.Status})
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
		return nil, fmt.Errorf("build list sales: %w", err)
	}
	var list []*entity.Sale
	if err := pgxscan.Select(ctx, r.q, &list, query, args...); err != nil {
		return nil, fmt.Errorf("list sales: %w", err)
	}
	if err := r.loadLines(ctx, list); err != nil {
		return nil, err
	}
	return list, nil
}

// loadLines carga líneas y pagos de las ventas con dos consultas.
func (r *SaleRepo) loadLines(ctx context.Context, sales []*entity.Sale) error {
	if len(sales) == 0 {
		return nil
	}
	byID := make(map[string]*entity.Sale, len(sales))
	ids := make([]string, 0, len(sales))
	for _, s := range sales {
		byID[s.ID] = s
		ids = append(ids, s.ID)
	}

	rows, err := r.q.Query(ctx, `
		SELECT id, sale_id, product_id, selling_unit_id, unit_name, quantity, base_quantity, unit_price, subtotal
		FROM sale_items WHERE sale_id = ANY($1)
		ORDER BY sale_id, position`, ids)
	if err != nil {
		return fmt.Errorf("list sale items: %w", err)
	}
	for rows.Next() {
		var it entity.SaleItem
		if err := rows.Scan(&it.ID, &it.SaleID, &it.ProductID, &it.SellingUnitID, &it.UnitName,
			&it.Quantity, &it.BaseQuantity, &it.UnitPrice, &it.Subtotal); err != nil {
			rows.Close()
			return fmt.Errorf("scan sale item: %w", err)
		}
		if s, ok := byID[it.SaleID]; ok {
			s.Items = append(s.Items, it)
		}
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}

	rows, err = r.q.Query(ctx, `
		SELECT id, sale_id, method, amount, created_at
		FROM payments WHERE sale_id = ANY($1)
		ORDER BY created_at`, ids)
	if err != nil {
		return fmt.Errorf("list payments: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var p entity.Payment
		if err := rows.Scan(&p.ID, &p.SaleID, &p.Method, &p.Amount, &p.CreatedAt); err != nil {
			return fmt.Errorf("scan payment: %w", err)
		}
		if s, ok := byID[p.SaleID]; ok {
			s.Payments = append(s.Payments, p)
		}
	}
	return rows.Err()
}
