package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/caja-api/internal/domain"
	"github.com/jhoicas/caja-api/internal/domain/entity"
	"github.com/jhoicas/caja-api/internal/domain/repository"
)

var (
	_ repository.ProductRepository       = (*ProductRepo)(nil)
	_ repository.InventoryRepository     = (*InventoryRepo)(nil)
	_ repository.StockMovementRepository = (*MovementRepo)(nil)
	_ repository.SaleRepository          = (*SaleRepo)(nil)
	_ repository.SaleReturnRepository    = (*ReturnRepo)(nil)
	_ repository.PurchaseRepository      = (*PurchaseRepo)(nil)
	_ repository.CustomerDebtRepository  = (*DebtRepo)(nil)
	_ repository.CustomerRepository      = (*CustomerRepo)(nil)
	_ repository.WarehouseRepository     = (*WarehouseRepo)(nil)
	_ repository.SupplierRepository      = (*SupplierRepo)(nil)
)

func page[T any](list []T, limit, offset int) []T {
	if offset >= len(list) {
		return []T{}
	}
	list = list[offset:]
	if limit > 0 && limit < len(list) {
		list = list[:limit]
	}
	return list
}

// ─── Products ────────────────────────────────────────────────────────────────

// ProductRepo productos en memoria.
type ProductRepo struct{ v view }

func (r *ProductRepo) Create(_ context.Context, p *entity.Product) error {
	return r.v.write(func(d *dataset) error {
		if _, ok := d.products[p.ID]; ok {
			return domain.ErrDuplicate
		}
		for _, other := range d.products {
			if other.CompanyID == p.CompanyID && other.SKU == p.SKU {
				return domain.ErrDuplicate
			}
		}
		d.products[p.ID] = copyProduct(p)
		return nil
	})
}

func (r *ProductRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	var out *entity.Product
	r.v.read(func(d *dataset) {
		if p, ok := d.products[id]; ok {
			out = copyProduct(p)
		}
	})
	if out == nil {
		return nil, domain.ErrNotFound
	}
	return out, nil
}

func (r *ProductRepo) GetByCompanyAndSKU(_ context.Context, companyID, sku string) (*entity.Product, error) {
	var out *entity.Product
	r.v.read(func(d *dataset) {
		for _, p := range d.products {
			if p.CompanyID == companyID && p.SKU == sku {
				out = copyProduct(p)
				return
			}
		}
	})
	if out == nil {
		return nil, domain.ErrNotFound
	}
	return out, nil
}

func (r *ProductRepo) UpdateCost(_ context.Context, productID string, cost decimal.Decimal) error {
	return r.v.write(func(d *dataset) error {
		p, ok := d.products[productID]
		if !ok {
			return domain.ErrNotFound
		}
		p.Cost = cost
		return nil
	})
}

func (r *ProductRepo) ListByCompany(_ context.Context, companyID string, limit, offset int) ([]*entity.Product, error) {
	var out []*entity.Product
	r.v.read(func(d *dataset) {
		for _, p := range d.products {
			if p.CompanyID == companyID {
				out = append(out, copyProduct(p))
			}
		}
	})
	sort.Slice(out, func(i, j int) bool { return out[i].SKU < out[j].SKU })
	return page(out, limit, offset), nil
}

// ─── Inventory ───────────────────────────────────────────────────────────────

// InventoryRepo inventario en memoria. GetForUpdate no bloquea por fila: las
// transacciones del Store ya están serializadas.
type InventoryRepo struct{ v view }

func invKey(companyID, productID, warehouseID string) string {
	return companyID + "|" + productID + "|" + warehouseID
}

func (r *InventoryRepo) Get(_ context.Context, companyID, productID, warehouseID string) (*entity.Inventory, error) {
	var out *entity.Inventory
	r.v.read(func(d *dataset) {
		if inv, ok := d.inventory[invKey(companyID, productID, warehouseID)]; ok {
			out = inv.Clone()
		}
	})
	if out == nil {
		return nil, domain.ErrInventoryNotFound
	}
	return out, nil
}

func (r *InventoryRepo) GetForUpdate(ctx context.Context, companyID, productID, warehouseID string) (*entity.Inventory, error) {
	return r.Get(ctx, companyID, productID, warehouseID)
}

func (r *InventoryRepo) Create(_ context.Context, inv *entity.Inventory) error {
	return r.v.write(func(d *dataset) error {
		k := invKey(inv.CompanyID, inv.ProductID, inv.WarehouseID)
		if _, ok := d.inventory[k]; ok {
			return domain.ErrDuplicate
		}
		d.inventory[k] = inv.Clone()
		return nil
	})
}

func (r *InventoryRepo) Update(_ context.Context, inv *entity.Inventory) error {
	return r.v.write(func(d *dataset) error {
		k := invKey(inv.CompanyID, inv.ProductID, inv.WarehouseID)
		cur, ok := d.inventory[k]
		if !ok {
			return domain.ErrInventoryNotFound
		}
		// Misma guarda que el UPDATE de PostgreSQL: la versión avanza de a uno.
		if cur.Version != inv.Version-1 {
			return fmt.Errorf("%w: inventario %s cambió de versión", domain.ErrConflict, inv.ID)
		}
		d.inventory[k] = inv.Clone()
		return nil
	})
}

func (r *InventoryRepo) ListByProduct(_ context.Context, companyID, productID string) ([]*entity.Inventory, error) {
	var out []*entity.Inventory
	r.v.read(func(d *dataset) {
		for _, inv := range d.inventory {
			if inv.CompanyID == companyID && inv.ProductID == productID {
				out = append(out, inv.Clone())
			}
		}
	})
	sort.Slice(out, func(i, j int) bool { return out[i].WarehouseID < out[j].WarehouseID })
	return out, nil
}

func (r *InventoryRepo) ListLowStock(_ context.Context, companyID, warehouseID string) ([]*entity.Inventory, error) {
	var out []*entity.Inventory
	r.v.read(func(d *dataset) {
		for _, inv := range d.inventory {
			if inv.CompanyID != companyID || (warehouseID != "" && inv.WarehouseID != warehouseID) {
				continue
			}
			if inv.Status == entity.InventoryStatusLow || inv.Status == entity.InventoryStatusOutOfStock {
				out = append(out, inv.Clone())
			}
		}
	})
	sort.Slice(out, func(i, j int) bool { return out[i].ProductID < out[j].ProductID })
	return out, nil
}

// ─── Movements ───────────────────────────────────────────────────────────────

// MovementRepo bitácora en memoria, solo inserción.
type MovementRepo struct{ v view }

func (r *MovementRepo) Create(_ context.Context, m *entity.StockMovement) error {
	return r.v.write(func(d *dataset) error {
		c := *m
		d.movements = append(d.movements, &c)
		return nil
	})
}

// List devuelve los movimientos más recientes primero.
func (r *MovementRepo) List(_ context.Context, f repository.MovementFilter) ([]*entity.StockMovement, error) {
	var out []*entity.StockMovement
	r.v.read(func(d *dataset) {
		for i := len(d.movements) - 1; i >= 0; i-- {
			m := d.movements[i]
			if m.CompanyID != f.CompanyID ||
				(f.ProductID != "" && m.ProductID != f.ProductID) ||
				(f.WarehouseID != "" && m.WarehouseID != f.WarehouseID) ||
				(f.ReferenceType != "" && m.ReferenceType != f.ReferenceType) ||
				(f.ReferenceID != "" && m.ReferenceID != f.ReferenceID) ||
				(f.From != nil && m.CreatedAt.Before(*f.From)) ||
				(f.To != nil && m.CreatedAt.After(*f.To)) {
				continue
			}
			c := *m
			out = append(out, &c)
		}
	})
	return page(out, f.Limit, f.Offset), nil
}

// ─── Sales ───────────────────────────────────────────────────────────────────

// SaleRepo ventas en memoria.
type SaleRepo struct{ v view }

func (r *SaleRepo) Create(_ context.Context, s *entity.Sale) error {
	return r.v.write(func(d *dataset) error {
		if _, ok := d.sales[s.ID]; ok {
			return domain.ErrDuplicate
		}
		for _, other := range d.sales {
			if other.CompanyID == s.CompanyID && other.SaleNumber == s.SaleNumber {
				return domain.ErrDuplicate
			}
		}
		d.sales[s.ID] = copySale(s)
		d.saleOrder = append(d.saleOrder, s.ID)
		return nil
	})
}

func (r *SaleRepo) GetByID(_ context.Context, companyID, id string) (*entity.Sale, error) {
	var out *entity.Sale
	r.v.read(func(d *dataset) {
		if s, ok := d.sales[id]; ok && s.CompanyID == companyID {
			out = copySale(s)
		}
	})
	if out == nil {
		return nil, domain.ErrNotFound
	}
	return out, nil
}

func (r *SaleRepo) List(_ context.Context, f repository.SaleFilter) ([]*entity.Sale, error) {
	var out []*entity.Sale
	r.v.read(func(d *dataset) {
		for i := len(d.saleOrder) - 1; i >= 0; i-- {
			s := d.sales[d.saleOrder[i]]
			if s.CompanyID != f.CompanyID ||
				(f.CashierID != "" && s.CashierID != f.CashierID) ||
				(f.CustomerID != "" && s.CustomerID != f.CustomerID) ||
				(f.Status != "" && s.Status != f.Status) ||
				(f.From != nil && s.CreatedAt.Before(*f.From)) ||
				(f.To != nil && s.CreatedAt.After(*f.To)) {
				continue
			}
			out = append(out, copySale(s))
		}
	})
	return page(out, f.Limit, f.Offset), nil
}

// ReturnRepo devoluciones de venta en memoria.
type ReturnRepo struct{ v view }

func (r *ReturnRepo) Create(_ context.Context, ret *entity.SaleReturn) error {
	return r.v.write(func(d *dataset) error {
		d.returns = append(d.returns, copyReturn(ret))
		return nil
	})
}

func (r *ReturnRepo) ListBySale(_ context.Context, companyID, saleID string) ([]*entity.SaleReturn, error) {
	var out []*entity.SaleReturn
	r.v.read(func(d *dataset) {
		for _, ret := range d.returns {
			if ret.CompanyID == companyID && ret.SaleID == saleID {
				out = append(out, copyReturn(ret))
			}
		}
	})
	return out, nil
}

func (r *ReturnRepo) ReturnedQuantities(_ context.Context, saleID string) (map[string]decimal.Decimal, error) {
	out := map[string]decimal.Decimal{}
	r.v.read(func(d *dataset) {
		for _, ret := range d.returns {
			if ret.SaleID != saleID {
				continue
			}
			for _, it := range ret.Items {
				out[it.SaleItemID] = out[it.SaleItemID].Add(it.Quantity)
			}
		}
	})
	return out, nil
}

// ─── Purchases ───────────────────────────────────────────────────────────────

// PurchaseRepo compras en memoria.
type PurchaseRepo struct{ v view }

func (r *PurchaseRepo) Create(_ context.Context, p *entity.Purchase) error {
	return r.v.write(func(d *dataset) error {
		if _, ok := d.purchases[p.ID]; ok {
			return domain.ErrDuplicate
		}
		d.purchases[p.ID] = copyPurchase(p)
		return nil
	})
}

func (r *PurchaseRepo) GetByID(_ context.Context, companyID, id string) (*entity.Purchase, error) {
	var out *entity.Purchase
	r.v.read(func(d *dataset) {
		if p, ok := d.purchases[id]; ok && p.CompanyID == companyID {
			out = copyPurchase(p)
		}
	})
	if out == nil {
		return nil, domain.ErrNotFound
	}
	return out, nil
}

// ─── Debts ───────────────────────────────────────────────────────────────────

// DebtRepo deudas de clientes en memoria.
type DebtRepo struct{ v view }

func (r *DebtRepo) Create(_ context.Context, debt *entity.CustomerDebt) error {
	return r.v.write(func(d *dataset) error {
		c := *debt
		d.debts[debt.ID] = &c
		return nil
	})
}

func (r *DebtRepo) GetByID(_ context.Context, companyID, id string) (*entity.CustomerDebt, error) {
	var out *entity.CustomerDebt
	r.v.read(func(d *dataset) {
		if debt, ok := d.debts[id]; ok && debt.CompanyID == companyID {
			c := *debt
			out = &c
		}
	})
	if out == nil {
		return nil, domain.ErrNotFound
	}
	return out, nil
}

func (r *DebtRepo) GetForUpdate(ctx context.Context, companyID, id string) (*entity.CustomerDebt, error) {
	return r.GetByID(ctx, companyID, id)
}

func (r *DebtRepo) GetBySale(_ context.Context, saleID string) (*entity.CustomerDebt, error) {
	var out *entity.CustomerDebt
	r.v.read(func(d *dataset) {
		for _, debt := range d.debts {
			if debt.SaleID == saleID {
				c := *debt
				out = &c
				return
			}
		}
	})
	if out == nil {
		return nil, domain.ErrNotFound
	}
	return out, nil
}

func (r *DebtRepo) Update(_ context.Context, debt *entity.CustomerDebt) error {
	return r.v.write(func(d *dataset) error {
		if _, ok := d.debts[debt.ID]; !ok {
			return domain.ErrNotFound
		}
		c := *debt
		d.debts[debt.ID] = &c
		return nil
	})
}

func (r *DebtRepo) AddPayment(_ context.Context, p *entity.DebtPayment) error {
	return r.v.write(func(d *dataset) error {
		c := *p
		d.debtPayments = append(d.debtPayments, &c)
		return nil
	})
}

func (r *DebtRepo) ListByCustomer(_ context.Context, companyID, customerID, status string) ([]*entity.CustomerDebt, error) {
	var out []*entity.CustomerDebt
	r.v.read(func(d *dataset) {
		for _, debt := range d.debts {
			if debt.CompanyID != companyID ||
				(customerID != "" && debt.CustomerID != customerID) ||
				(status != "" && debt.Status != status) {
				continue
			}
			c := *debt
			out = append(out, &c)
		}
	})
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

// ─── Catálogos simples ───────────────────────────────────────────────────────

// CustomerRepo clientes en memoria.
type CustomerRepo struct{ v view }

func (r *CustomerRepo) Create(_ context.Context, c *entity.Customer) error {
	return r.v.write(func(d *dataset) error {
		cc := *c
		d.customers[c.ID] = &cc
		return nil
	})
}

func (r *CustomerRepo) GetByID(_ context.Context, id string) (*entity.Customer, error) {
	var out *entity.Customer
	r.v.read(func(d *dataset) {
		if c, ok := d.customers[id]; ok {
			cc := *c
			out = &cc
		}
	})
	if out == nil {
		return nil, domain.ErrNotFound
	}
	return out, nil
}

func (r *CustomerRepo) GetByCompanyAndTaxID(_ context.Context, companyID, taxID string) (*entity.Customer, error) {
	var out *entity.Customer
	r.v.read(func(d *dataset) {
		for _, c := range d.customers {
			if c.CompanyID == companyID && c.TaxID == taxID {
				cc := *c
				out = &cc
				return
			}
		}
	})
	if out == nil {
		return nil, domain.ErrNotFound
	}
	return out, nil
}

func (r *CustomerRepo) ListByCompany(_ context.Context, companyID string, limit, offset int) ([]*entity.Customer, error) {
	var out []*entity.Customer
	r.v.read(func(d *dataset) {
		for _, c := range d.customers {
			if c.CompanyID == companyID {
				cc := *c
				out = append(out, &cc)
			}
		}
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return page(out, limit, offset), nil
}

// WarehouseRepo bodegas en memoria.
type WarehouseRepo struct{ v view }

func (r *WarehouseRepo) Create(_ context.Context, w *entity.Warehouse) error {
	return r.v.write(func(d *dataset) error {
		ww := *w
		d.warehouses[w.ID] = &ww
		return nil
	})
}

func (r *WarehouseRepo) GetByID(_ context.Context, id string) (*entity.Warehouse, error) {
	var out *entity.Warehouse
	r.v.read(func(d *dataset) {
		if w, ok := d.warehouses[id]; ok {
			ww := *w
			out = &ww
		}
	})
	if out == nil {
		return nil, domain.ErrNotFound
	}
	return out, nil
}

func (r *WarehouseRepo) ListByCompany(_ context.Context, companyID string, limit, offset int) ([]*entity.Warehouse, error) {
	var out []*entity.Warehouse
	r.v.read(func(d *dataset) {
		for _, w := range d.warehouses {
			if w.CompanyID == companyID {
				ww := *w
				out = append(out, &ww)
			}
		}
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return page(out, limit, offset), nil
}

// SupplierRepo proveedores en memoria.
type SupplierRepo struct{ v view }

func (r *SupplierRepo) Create(_ context.Context, s *entity.Supplier) error {
	return r.v.write(func(d *dataset) error {
		ss := *s
		d.suppliers[s.ID] = &ss
		return nil
	})
}

func (r *SupplierRepo) GetByID(_ context.Context, id string) (*entity.Supplier, error) {
	var out *entity.Supplier
	r.v.read(func(d *dataset) {
		if s, ok := d.suppliers[id]; ok {
			ss := *s
			out = &ss
		}
	})
	if out == nil {
		return nil, domain.ErrNotFound
	}
	return out, nil
}

func (r *SupplierRepo) ListByCompany(_ context.Context, companyID string, limit, offset int) ([]*entity.Supplier, error) {
	var out []*entity.Supplier
	r.v.read(func(d *dataset) {
		for _, s := range d.suppliers {
			if s.CompanyID == companyID {
				ss := *s
				out = append(out, &ss)
			}
		}
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return page(out, limit, offset), nil
}
