package sales

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/caja-api/internal/application/dto"
	"github.com/jhoicas/caja-api/internal/domain"
	"github.com/jhoicas/caja-api/internal/domain/entity"
	"github.com/jhoicas/caja-api/internal/domain/repository"
)

// PayDebtInput abono a una deuda de cliente.
type PayDebtInput struct {
	CompanyID string
	DebtID    string
	Amount    decimal.Decimal
	Method    string
}

// PayDebt registra un abono; el saldo nunca queda negativo y en cero la deuda se salda.
func (uc *UseCase) PayDebt(ctx context.Context, in PayDebtInput) (*dto.DebtResponse, error) {
	if !in.Amount.IsPositive() {
		return nil, domain.Invalid("amount", "debe ser mayor que cero")
	}
	if !validPaymentMethod(in.Method) {
		return nil, domain.Invalid("method", "debe ser cash, card o transfer")
	}
	var debt *entity.CustomerDebt
	err := uc.txRunner.Run(ctx, func(repos repository.TxRepos) error {
		var err error
		debt, err = repos.Debts.GetForUpdate(ctx, in.CompanyID, in.DebtID)
		if err != nil {
			return err
		}
		if debt.Status == entity.DebtStatusSettled {
			return fmt.Errorf("%w: la deuda ya está saldada", domain.ErrConflict)
		}
		if in.Amount.GreaterThan(debt.Balance) {
			return domain.Invalid("amount", "supera el saldo pendiente de "+debt.Balance.StringFixed(2))
		}
		now := uc.now()
		amount := entity.RoundMoney(in.Amount)
		debt.Paid = debt.Paid.Add(amount)
		debt.Balance = debt.Balance.Sub(amount)
		if !debt.Balance.IsPositive() {
			debt.Balance = decimal.Zero
			debt.Status = entity.DebtStatusSettled
		}
		debt.UpdatedAt = now
		if err := repos.Debts.Update(ctx, debt); err != nil {
			return fmt.Errorf("actualizar deuda: %w", err)
		}
		return repos.Debts.AddPayment(ctx, &entity.DebtPayment{
			ID:        uuid.New().String(),
			DebtID:    debt.ID,
			Amount:    amount,
			Method:    in.Method,
			CreatedAt: now,
		})
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().
		Str("company_id", in.CompanyID).
		Str("debt_id", debt.ID).
		Str("amount", in.Amount.String()).
		Str("balance", debt.Balance.String()).
		Msg("abono registrado")
	out := ToDebtResponse(debt)
	return &out, nil
}

// ListDebts lista deudas de la empresa; customerID y status vacíos no filtran.
func (uc *UseCase) ListDebts(ctx context.Context, companyID, customerID, status string) ([]dto.DebtResponse, error) {
	switch status {
	case "", entity.DebtStatusOpen, entity.DebtStatusSettled:
	default:
		return nil, domain.Invalid("status", "debe ser open o settled")
	}
	list, err := uc.debtRepo.ListByCustomer(ctx, companyID, customerID, status)
	if err != nil {
		return nil, err
	}
	out := make([]dto.DebtResponse, 0, len(list))
	for _, d := range list {
		out = append(out, ToDebtResponse(d))
	}
	return out, nil
}
