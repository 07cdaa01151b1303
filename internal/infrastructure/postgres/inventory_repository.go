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

var _ repository.InventoryRepository = (*InventoryRepo)(nil)

const inventoryColumns = `id, company_id, product_id, warehouse_id, stock_quantity, reserved_quantity,
	available_quantity, reorder_level, status, version, updated_at`

// InventoryRepo filas de inventario por (empresa, producto, bodega) (usable con pool o tx).
type InventoryRepo struct {
	q Querier
}

// NewInventoryRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInventoryRepository(q Querier) *InventoryRepo {
	return &InventoryRepo{q: q}
}

// Get obtiene la fila sin bloquear.
func (r *InventoryRepo) Get(ctx context.Context, companyID, productID, warehouseID string) (*entity.Inventory, error) {
	return r.get(ctx, `
		SELECT `+inventoryColumns+` FROM inventory
		WHERE company_id = $1 AND product_id = $2 AND warehouse_id = $3`, companyID, productID, warehouseID)
}

// GetForUpdate obtiene la fila y la bloquea hasta el fin de la transacción (SELECT FOR UPDATE).
func (r *InventoryRepo) GetForUpdate(ctx context.Context, companyID, productID, warehouseID string) (*entity.Inventory, error) {
	return r.get(ctx, `
		SELECT `+inventoryColumns+` FROM inventory
		WHERE company_id = $1 AND product_id = $2 AND warehouse_id = $3
		FOR UPDATE`, companyID, productID, warehouseID)
}

func (r *InventoryRepo) get(ctx context.Context, query string, args ...any) (*entity.Inventory, error) {
	inv, err := scanInventory(r.q.QueryRow(ctx, query, args...))
	if err != nil {
		if isNoRows(err) {
			return nil, domain.ErrInventoryNotFound
		}
		return nil, fmt.Errorf("get inventory: %w", err)
	}
	return inv, nil
}

// Create inserta una fila nueva.
func (r *InventoryRepo) Create(ctx context.Context, inv *entity.Inventory) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO inventory (`+inventoryColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		inv.ID, inv.CompanyID, inv.ProductID, inv.WarehouseID, inv.StockQuantity, inv.ReservedQuantity,
		inv.AvailableQuantity, inv.ReorderLevel, inv.Status, inv.Version, inv.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		if isCheckViolation(err) {
			return domain.ErrInsufficientStock
		}
		return fmt.Errorf("insert inventory: %w", err)
	}
	return nil
}

// Update escribe cantidades, estado y versión. inv.Version ya viene incrementada:
// se exige que la fila siga en la versión anterior.
func (r *InventoryRepo) Update(ctx context.Context, inv *entity.Inventory) error {
	tag, err := r.q.Exec(ctx, `
		UPDATE inventory SET
			stock_quantity = $2, reserved_quantity = $3, available_quantity = $4,
			reorder_level = $5, status = $6, version = $7, updated_at = $8
		WHERE id = $1 AND version = $7 - 1`,
		inv.ID, inv.StockQuantity, inv.ReservedQuantity, inv.AvailableQuantity,
		inv.ReorderLevel, inv.Status, inv.Version, inv.UpdatedAt,
	)
	if err != nil {
		if isCheckViolation(err) {
			return domain.ErrInsufficientStock
		}
		return fmt.Errorf("update inventory: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: inventario %s cambió de versión", domain.ErrConflict, inv.ID)
	}
	return nil
}

// ListByProduct filas del producto en todas las bodegas.
func (r *InventoryRepo) ListByProduct(ctx context.Context, companyID, productID string) ([]*entity.Inventory, error) {
	return r.list(ctx, psql.Select(inventoryColumns).From("inventory").
		Where(sq.Eq{"company_id": companyID, "product_id": productID}).
		OrderBy("warehouse_id"))
}

// ListLowStock filas en estado low u out_of_stock.
func (r *InventoryRepo) ListLowStock(ctx context.Context, companyID, warehouseID string) ([]*entity.Inventory, error) {
	b := psql.Select(inventoryColumns).From("inventory").
		Where(sq.Eq{
			"company_id": companyID,
			"status":     []string{entity.InventoryStatusLow, entity.InventoryStatusOutOfStock},
		}).
		OrderBy("product_id")
	if warehouseID != "" {
		b = b.Where(sq.Eq{"warehouse_id": warehouseID})
	}
	return r.list(ctx, b)
}

func (r *InventoryRepo) list(ctx context.Context, b sq.SelectBuilder) ([]*entity.Inventory, error) {
	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list inventory: %w", err)
	}
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list inventory: %w", err)
	}
	defer rows.Close()
	var list []*entity.Inventory
	for rows.Next() {
		inv, err := scanInventory(rows)
		if err != nil {
			return nil, fmt.Errorf("scan inventory: %w", err)
		}
		list = append(list, inv)
	}
	return list, rows.Err()
}

func scanInventory(row pgx.Row) (*entity.Inventory, error) {
	var inv entity.Inventory
	err := row.Scan(
		&inv.ID, &inv.CompanyID, &inv.ProductID, &inv.WarehouseID, &inv.StockQuantity, &inv.ReservedQuantity,
		&inv.AvailableQuantity, &inv.ReorderLevel, &inv.Status, &inv.Version, &inv.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &inv, nil
}
