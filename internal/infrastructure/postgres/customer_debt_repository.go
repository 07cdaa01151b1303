package postgres

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/caja-api/internal/domain"
	"github.com/jhoicas/caja-api/internal/domain/entity"
	"github.com/jhoicas/caja-api/internal/domain/repository"
)

var _ repository.CustomerDebtRepository = (*CustomerDebtRepo)(nil)

var debtColumns = []string{"id", "company_id", "customer_id", "sale_id", "amount", "paid", "balance", "status", "created_at", "updated_at"}

// CustomerDebtRepo deudas de clientes y sus abonos.
type CustomerDebtRepo struct {
	q Querier
}

// NewCustomerDebtRepository construye el adaptador. Pasar pool o tx (Querier).
func NewCustomerDebtRepository(q Querier) *CustomerDebtRepo {
	return &CustomerDebtRepo{q: q}
}

// Create persiste una deuda nueva.
func (r *CustomerDebtRepo) Create(ctx context.Context, d *entity.CustomerDebt) error {
	query, args, err := psql.Insert("customer_debts").Columns(debtColumns...).
		Values(d.ID, d.CompanyID, d.CustomerID, d.SaleID, d.Amount, d.Paid, d.Balance, d.Status, d.CreatedAt, d.UpdatedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert debt: %w", err)
	}
	if _, err := r.q.Exec(ctx, query, args...); err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert debt: %w", err)
	}
	return nil
}

// GetByID obtiene la deuda de la empresa.
func (r *CustomerDebtRepo) GetByID(ctx context.Context, companyID, id string) (*entity.CustomerDebt, error) {
	return r.get(ctx, sq.Eq{"company_id": companyID, "id": id}, "")
}

// GetForUpdate obtiene la deuda bloqueando la fila.
func (r *CustomerDebtRepo) GetForUpdate(ctx context.Context, companyID, id string) (*entity.CustomerDebt, error) {
	return r.get(ctx, sq.Eq{"company_id": companyID, "id": id}, "FOR UPDATE")
}

// GetBySale obtiene la deuda originada por la venta.
func (r *CustomerDebtRepo) GetBySale(ctx context.Context, saleID string) (*entity.CustomerDebt, error) {
	return r.get(ctx, sq.Eq{"sale_id": saleID}, "")
}

func (r *CustomerDebtRepo) get(ctx context.Context, where sq.Eq, suffix string) (*entity.CustomerDebt, error) {
	b := psql.Select(debtColumns...).From("customer_debts").Where(where)
	if suffix != "" {
		b = b.Suffix(suffix)
	}
	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get debt: %w", err)
	}
	d, err := scanDebt(r.q.QueryRow(ctx, query, args...))
	if err != nil {
		if isNoRows(err) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get debt: %w", err)
	}
	return d, nil
}

// Update guarda pagado, saldo y estado.
func (r *CustomerDebtRepo) Update(ctx context.Context, d *entity.CustomerDebt) error {
	tag, err := r.q.Exec(ctx, `
		UPDATE customer_debts SET paid = $2, balance = $3, status = $4, updated_at = $5
		WHERE id = $1`, d.ID, d.Paid, d.Balance, d.Status, d.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update debt: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// AddPayment registra un abono.
func (r *CustomerDebtRepo) AddPayment(ctx context.Context, p *entity.DebtPayment) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO debt_payments (id, debt_id, amount, method, created_at)
		VALUES ($1, $2, $3, $4, $5)`, p.ID, p.DebtID, p.Amount, p.Method, p.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert debt payment: %w", err)
	}
	return nil
}

// ListByCustomer lista deudas de la empresa, más recientes primero.
func (r *CustomerDebtRepo) ListByCustomer(ctx context.Context, companyID, customerID, status string) ([]*entity.CustomerDebt, error) {
	b := psql.Select(debtColumns...).From("customer_debts").
		Where(sq.Eq{"company_id": companyID}).
		OrderBy("created_at DESC", "id")
	if customerID != "" {
		b = b.Where(sq.Eq{"customer_id": customerID})
	}
	if status != "" {
		b = b.Where(sq.Eq{"status": status})
	}
	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list debts: %w", err)
	}
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list debts: %w", err)
	}
	defer rows.Close()
	var list []*entity.CustomerDebt
	for rows.Next() {
		d, err := scanDebt(rows)
		if err != nil {
			return nil, fmt.Errorf("scan debt: %w", err)
		}
		list = append(list, d)
	}
	return list, rows.Err()
}

func scanDebt(row pgx.Row) (*entity.CustomerDebt, error) {
	var d entity.CustomerDebt
	err := row.Scan(&d.ID, &d.CompanyID, &d.CustomerID, &d.SaleID, &d.Amount, &d.Paid, &d.Balance, &d.Status, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &d, nil
}
