package repository

import (
	"context"

	"github.com/jhoicas/caja-api/internal/domain/entity"
)

// CustomerRepository define el puerto de persistencia para Customer.
type CustomerRepository interface {
	Create(ctx context.Context, customer *entity.Customer) error
	GetByID(ctx context.Context, id string) (*entity.Customer, error)
	GetByCompanyAndTaxID(ctx context.Context, companyID, taxID string) (*entity.Customer, error)
	ListByCompany(ctx context.Context, companyID string, limit, offset int) ([]*entity.Customer, error)
}

// CustomerDebtRepository define el puerto de persistencia para deudas de clientes y sus abonos.
type CustomerDebtRepository interface {
	Create(ctx context.Context, debt *entity.CustomerDebt) error
	GetByID(ctx context.Context, companyID, id string) (*entity.CustomerDebt, error)
	// GetForUpdate bloquea la deuda hasta el fin de la transacción.
	GetForUpdate(ctx context.Context, companyID, id string) (*entity.CustomerDebt, error)
	// GetBySale devuelve la deuda originada por la venta o domain.ErrNotFound.
	GetBySale(ctx context.Context, saleID string) (*entity.CustomerDebt, error)
	Update(ctx context.Context, debt *entity.CustomerDebt) error
	AddPayment(ctx context.Context, payment *entity.DebtPayment) error
	// ListByCustomer lista deudas; customerID o status vacíos no filtran.
	ListByCustomer(ctx context.Context, companyID, customerID, status string) ([]*entity.CustomerDebt, error)
}
