// Package memory implementa los repositorios en memoria. Se usa en tests y con
// STORAGE_DRIVER=memory; las transacciones trabajan sobre una copia del estado
// que solo se publica si la función termina sin error.
package memory

import (
	"context"
	"sync"

	"github.com/jhoicas/caja-api/internal/domain/entity"
	"github.com/jhoicas/caja-api/internal/domain/repository"
)

type dataset struct {
	products     map[string]*entity.Product
	inventory    map[string]*entity.Inventory // clave company|product|warehouse
	movements    []*entity.StockMovement
	sales        map[string]*entity.Sale
	saleOrder    []string
	returns      []*entity.SaleReturn
	purchases    map[string]*entity.Purchase
	customers    map[string]*entity.Customer
	debts        map[string]*entity.CustomerDebt
	debtPayments []*entity.DebtPayment
	warehouses   map[string]*entity.Warehouse
	suppliers    map[string]*entity.Supplier
}

func newDataset() *dataset {
	return &dataset{
		products:   map[string]*entity.Product{},
		inventory:  map[string]*entity.Inventory{},
		sales:      map[string]*entity.Sale{},
		purchases:  map[string]*entity.Purchase{},
		customers:  map[string]*entity.Customer{},
		debts:      map[string]*entity.CustomerDebt{},
		warehouses: map[string]*entity.Warehouse{},
		suppliers:  map[string]*entity.Supplier{},
	}
}

func (d *dataset) clone() *dataset {
	c := newDataset()
	for k, v := range d.products {
		c.products[k] = copyProduct(v)
	}
	for k, v := range d.inventory {
		c.inventory[k] = v.Clone()
	}
	c.movements = append(c.movements, d.movements...)
	for k, v := range d.sales {
		c.sales[k] = copySale(v)
	}
	c.saleOrder = append(c.saleOrder, d.saleOrder...)
	for _, r := range d.returns {
		c.returns = append(c.returns, copyReturn(r))
	}
	for k, v := range d.purchases {
		c.purchases[k] = copyPurchase(v)
	}
	for k, v := range d.customers {
		cc := *v
		c.customers[k] = &cc
	}
	for k, v := range d.debts {
		dd := *v
		c.debts[k] = &dd
	}
	c.debtPayments = append(c.debtPayments, d.debtPayments...)
	for k, v := range d.warehouses {
		w := *v
		c.warehouses[k] = &w
	}
	for k, v := range d.suppliers {
		s := *v
		c.suppliers[k] = &s
	}
	return c
}

// Store estado compartido de todos los repositorios en memoria.
// txMu serializa transacciones y escrituras; mu protege el puntero data.
type Store struct {
	txMu sync.Mutex
	mu   sync.Mutex
	data *dataset
}

// NewStore crea un Store vacío.
func NewStore() *Store {
	return &Store{data: newDataset()}
}

// view es el acceso de un repositorio: directo al Store o a la copia de una transacción.
type view struct {
	s  *Store
	tx *dataset
}

func (v view) read(fn func(d *dataset)) {
	if v.tx != nil {
		fn(v.tx)
		return
	}
	v.s.mu.Lock()
	defer v.s.mu.Unlock()
	fn(v.s.data)
}

func (v view) write(fn func(d *dataset) error) error {
	if v.tx != nil {
		return fn(v.tx)
	}
	v.s.txMu.Lock()
	defer v.s.txMu.Unlock()
	v.s.mu.Lock()
	defer v.s.mu.Unlock()
	return fn(v.s.data)
}

// Run ejecuta fn sobre una copia del estado; si fn devuelve error la copia se descarta.
// Las transacciones se serializan, lo que equivale a bloquear todas las filas.
// Dentro de fn solo deben usarse los repositorios recibidos.
func (s *Store) Run(ctx context.Context, fn func(repos repository.TxRepos) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	snapshot := s.data.clone()
	s.mu.Unlock()

	if err := fn(s.repos(snapshot)); err != nil {
		return err
	}

	s.mu.Lock()
	s.data = snapshot
	s.mu.Unlock()
	return nil
}

func (s *Store) repos(tx *dataset) repository.TxRepos {
	v := view{s: s, tx: tx}
	return repository.TxRepos{
		Products:  &ProductRepo{v},
		Inventory: &InventoryRepo{v},
		Movements: &MovementRepo{v},
		Sales:     &SaleRepo{v},
		Returns:   &ReturnRepo{v},
		Purchases: &PurchaseRepo{v},
		Debts:     &DebtRepo{v},
	}
}

// Repositorios fuera de transacción.
func (s *Store) Products() *ProductRepo     { return &ProductRepo{view{s: s}} }
func (s *Store) Inventory() *InventoryRepo  { return &InventoryRepo{view{s: s}} }
func (s *Store) Movements() *MovementRepo   { return &MovementRepo{view{s: s}} }
func (s *Store) Sales() *SaleRepo           { return &SaleRepo{view{s: s}} }
func (s *Store) Returns() *ReturnRepo       { return &ReturnRepo{view{s: s}} }
func (s *Store) Purchases() *PurchaseRepo   { return &PurchaseRepo{view{s: s}} }
func (s *Store) Debts() *DebtRepo           { return &DebtRepo{view{s: s}} }
func (s *Store) Customers() *CustomerRepo   { return &CustomerRepo{view{s: s}} }
func (s *Store) Warehouses() *WarehouseRepo { return &WarehouseRepo{view{s: s}} }
func (s *Store) Suppliers() *SupplierRepo   { return &SupplierRepo{view{s: s}} }

func copyProduct(p *entity.Product) *entity.Product {
	c := *p
	c.SellingUnits = append([]entity.SellingUnit(nil), p.SellingUnits...)
	if p.ExpiryDate != nil {
		t := *p.ExpiryDate
		c.ExpiryDate = &t
	}
	return &c
}

func copySale(s *entity.Sale) *entity.Sale {
	c := *s
	c.Items = append([]entity.SaleItem(nil), s.Items...)
	c.Payments = append([]entity.Payment(nil), s.Payments...)
	return &c
}

func copyReturn(r *entity.SaleReturn) *entity.SaleReturn {
	c := *r
	c.Items = append([]entity.SaleReturnItem(nil), r.Items...)
	return &c
}

func copyPurchase(p *entity.Purchase) *entity.Purchase {
	c := *p
	c.Items = append([]entity.PurchaseItem(nil), p.Items...)
	return &c
}
