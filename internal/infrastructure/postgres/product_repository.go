package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/caja-api/internal/domain"
	"github.com/jhoicas/caja-api/internal/domain/entity"
	"github.com/jhoicas/caja-api/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

const productColumns = `id, company_id, sku, name, units_per_packet, packets_per_carton,
	unit_price, packet_price, carton_price, cost, selling_mode, reorder_level, expiry_date,
	created_at, updated_at`

// ProductRepo implementación del puerto ProductRepository sobre PostgreSQL (usable con pool o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador de persistencia para productos. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

// Create persiste el producto y sus unidades de venta en un solo batch.
func (r *ProductRepo) Create(ctx context.Context, p *entity.Product) error {
	b := &pgx.Batch{}
	b.Queue(`
		INSERT INTO products (`+productColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`,
		p.ID, p.CompanyID, p.SKU, p.Name, p.UnitsPerPacket, p.PacketsPerCarton,
		p.UnitPrice, p.PacketPrice, p.CartonPrice, p.Cost, p.SellingMode, p.ReorderLevel, p.ExpiryDate,
		p.CreatedAt, p.UpdatedAt,
	)
	for _, u := range p.SellingUnits {
		b.Queue(`
			INSERT INTO selling_units (id, product_id, name, kind, units_per_parent, is_base, price)
			VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			u.ID, p.ID, u.Name, u.Kind, u.UnitsPerParent, u.IsBase, u.Price,
		)
	}
	if err := sendBatch(ctx, r.q, b); err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

// GetByID obtiene un producto con sus unidades de venta.
func (r *ProductRepo) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	p, err := scanProduct(r.q.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1`, id))
	if err != nil {
		if isNoRows(err) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	if err := r.loadUnits(ctx, []*entity.Product{p}); err != nil {
		return nil, err
	}
	return p, nil
}

// GetByCompanyAndSKU obtiene un producto por empresa y SKU.
func (r *ProductRepo) GetByCompanyAndSKU(ctx context.Context, companyID, sku string) (*entity.Product, error) {
	p, err := scanProduct(r.q.QueryRow(ctx,
		`SELECT `+productColumns+` FROM products WHERE company_id = $1 AND sku = $2`, companyID, sku))
	if err != nil {
		if isNoRows(err) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get product by sku: %w", err)
	}
	if err := r.loadUnits(ctx, []*entity.Product{p}); err != nil {
		return nil, err
	}
	return p, nil
}

// UpdateCost actualiza el costo promedio ponderado.
func (r *ProductRepo) UpdateCost(ctx context.Context, productID string, cost decimal.Decimal) error {
	tag, err := r.q.Exec(ctx, `UPDATE products SET cost = $2, updated_at = now() WHERE id = $1`, productID, cost)
	if err != nil {
		return fmt.Errorf("update product cost: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ListByCompany lista productos de la empresa ordenados por nombre.
func (r *ProductRepo) ListByCompany(ctx context.Context, companyID string, limit, offset int) ([]*entity.Product, error) {
	rows, err := r.q.Query(ctx, `
		SELECT `+productColumns+` FROM products
		WHERE company_id = $1
		ORDER BY name, id
		LIMIT $2 OFFSET $3`, companyID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()
	var list []*entity.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		list = append(list, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if err := r.loadUnits(ctx, list); err != nil {
		return nil, err
	}
	return list, nil
}

// loadUnits carga las unidades de venta de todos los productos en una consulta.
func (r *ProductRepo) loadUnits(ctx context.Context, products []*entity.Product) error {
	if len(products) == 0 {
		return nil
	}
	byID := make(map[string]*entity.Product, len(products))
	ids := make([]string, 0, len(products))
	for _, p := range products {
		byID[p.ID] = p
		ids = append(ids, p.ID)
	}
	rows, err := r.q.Query(ctx, `
		SELECT id, product_id, name, kind, units_per_parent, is_base, price
		FROM selling_units
		WHERE product_id = ANY($1)
		ORDER BY product_id, units_per_parent`, ids)
	if err != nil {
		return fmt.Errorf("list selling units: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var u entity.SellingUnit
		if err := rows.Scan(&u.ID, &u.ProductID, &u.Name, &u.Kind, &u.UnitsPerParent, &u.IsBase, &u.Price); err != nil {
			return fmt.Errorf("scan selling unit: %w", err)
		}
		if p, ok := byID[u.ProductID]; ok {
			p.SellingUnits = append(p.SellingUnits, u)
		}
	}
	return rows.Err()
}

func scanProduct(row pgx.Row) (*entity.Product, error) {
	var p entity.Product
	err := row.Scan(
		&p.ID, &p.CompanyID, &p.SKU, &p.Name, &p.UnitsPerPacket, &p.PacketsPerCarton,
		&p.UnitPrice, &p.PacketPrice, &p.CartonPrice, &p.Cost, &p.SellingMode, &p.ReorderLevel, &p.ExpiryDate,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}
