package sales

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/caja-api/internal/application/dto"
	"github.com/jhoicas/caja-api/internal/application/inventory"
	"github.com/jhoicas/caja-api/internal/domain"
	"github.com/jhoicas/caja-api/internal/domain/entity"
	domaininv "github.com/jhoicas/caja-api/internal/domain/inventory"
	"github.com/jhoicas/caja-api/internal/domain/repository"
)

// ReturnItem cantidad a devolver de una línea de la venta, en la unidad de esa línea.
type ReturnItem struct {
	SaleItemID string
	Quantity   decimal.Decimal
}

// ReturnInput devolución total o parcial de una venta.
type ReturnInput struct {
	CompanyID    string
	UserID       string
	SaleID       string
	Items        []ReturnItem
	Reason       string
	RefundMethod string
}

// ProcessReturn devuelve mercancía a la bodega de la venta. Lo devuelto por línea
// nunca supera lo vendido menos lo ya devuelto; el monto aplica la misma
// proporción de descuento de la venta y primero abona a la deuda abierta.
func (uc *UseCase) ProcessReturn(ctx context.Context, in ReturnInput) (*dto.ReturnResponse, error) {
	if len(in.Items) == 0 {
		return nil, domain.Invalid("items", "debe contener al menos una línea")
	}
	requested := make(map[string]decimal.Decimal, len(in.Items))
	for i, it := range in.Items {
		if it.SaleItemID == "" {
			return nil, domain.Invalid(fmt.Sprintf("items[%d].sale_item_id", i), "requerido")
		}
		if !it.Quantity.IsPositive() {
			return nil, domain.Invalid(fmt.Sprintf("items[%d].quantity", i), "debe ser mayor que cero")
		}
		requested[it.SaleItemID] = requested[it.SaleItemID].Add(it.Quantity)
	}
	refundMethod := in.RefundMethod
	if refundMethod == "" {
		refundMethod = entity.PaymentCash
	}
	if !validPaymentMethod(refundMethod) {
		return nil, domain.Invalid("refund_method", "debe ser cash, card o transfer")
	}

	sale, err := uc.saleRepo.GetByID(ctx, in.CompanyID, in.SaleID)
	if err != nil {
		return nil, err
	}
	itemsByID := make(map[string]entity.SaleItem, len(sale.Items))
	for _, it := range sale.Items {
		itemsByID[it.ID] = it
	}
	ids := make([]string, 0, len(requested))
	for id := range requested {
		if _, ok := itemsByID[id]; !ok {
			return nil, fmt.Errorf("%w: línea %s", domain.ErrNotFound, id)
		}
		ids = append(ids, id)
	}
	sort.Strings(ids)

	// Proporción pagada por cada peso de subtotal tras el descuento.
	ratio := decimal.NewFromInt(1)
	if sale.Subtotal.IsPositive() {
		ratio = sale.Total.Div(sale.Subtotal)
	}

	now := uc.now()
	ret := &entity.SaleReturn{
		ID:          uuid.New().String(),
		CompanyID:   in.CompanyID,
		SaleID:      sale.ID,
		WarehouseID: sale.WarehouseID,
		UserID:      in.UserID,
		Reason:      in.Reason,
		CreatedAt:   now,
	}
	total := decimal.Zero
	lines := make([]inventory.Line, 0, len(ids))
	for _, id := range ids {
		item := itemsByID[id]
		qty := requested[id]
		base := item.BaseQuantity.Div(item.Quantity).Mul(qty)
		amount := item.UnitPrice.Mul(qty).Mul(ratio)
		total = total.Add(amount)
		ret.Items = append(ret.Items, entity.SaleReturnItem{
			ID:            uuid.New().String(),
			ReturnID:      ret.ID,
			SaleItemID:    id,
			ProductID:     item.ProductID,
			SellingUnitID: item.SellingUnitID,
			Quantity:      qty,
			BaseQuantity:  base,
			Amount:        entity.RoundMoney(amount),
		})
		lines = append(lines, inventory.Line{ProductID: item.ProductID, Quantity: base})
	}
	ret.Total = entity.RoundMoney(total)

	var (
		res         *inventory.Result
		debtReduced = decimal.Zero
	)
	err = uc.txRunner.Run(ctx, func(repos repository.TxRepos) error {
		returned, err := repos.Returns.ReturnedQuantities(ctx, sale.ID)
		if err != nil {
			return err
		}
		for _, id := range ids {
			item := itemsByID[id]
			if returned[id].Add(requested[id]).GreaterThan(item.Quantity) {
				return fmt.Errorf("%w: línea %s, vendido %s, ya devuelto %s, solicitado %s",
					domain.ErrReturnExceedsSale, id, item.Quantity, returned[id], requested[id])
			}
		}

		res, err = uc.engine.ApplyInTx(ctx, repos, inventory.Request{
			CompanyID:     in.CompanyID,
			WarehouseID:   sale.WarehouseID,
			UserID:        in.UserID,
			Operation:     domaininv.OpRestore,
			ReferenceType: entity.ReferenceSaleReturn,
			ReferenceID:   ret.ID,
			Reason:        in.Reason,
			Lines:         lines,
		})
		if err != nil {
			return err
		}

		debtReduced, err = reduceDebt(ctx, repos, in.CompanyID, sale.ID, ret.Total, now)
		if err != nil {
			return err
		}
		if err := repos.Returns.Create(ctx, ret); err != nil {
			return fmt.Errorf("guardar devolución: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.log.Info().
		Str("company_id", in.CompanyID).
		Str("sale_id", sale.ID).
		Str("return_id", ret.ID).
		Str("total", ret.Total.String()).
		Str("debt_reduced", debtReduced.String()).
		Msg("devolución confirmada")
	uc.notifier.Committed(ctx, in.CompanyID, res.Inventory)

	out := &dto.ReturnResponse{
		ID:               ret.ID,
		SaleID:           sale.ID,
		Total:            ret.Total,
		DebtReduced:      debtReduced,
		Refund:           ret.Total.Sub(debtReduced),
		UpdatedInventory: make([]dto.InventoryResponse, 0, len(res.Inventory)),
		CreatedAt:        ret.CreatedAt,
	}
	if out.Refund.IsPositive() {
		out.RefundMethod = refundMethod
	}
	for i, inv := range res.Inventory {
		out.UpdatedInventory = append(out.UpdatedInventory, inventory.ToInventoryResponse(inv, res.Products[i]))
	}
	return out, nil
}

// reduceDebt descuenta amount del saldo abierto de la venta; devuelve lo abonado.
func reduceDebt(ctx context.Context, repos repository.TxRepos, companyID, saleID string, amount decimal.Decimal, now time.Time) (decimal.Decimal, error) {
	found, err := repos.Debts.GetBySale(ctx, saleID)
	if errors.Is(err, domain.ErrNotFound) {
		return decimal.Zero, nil
	}
	if err != nil {
		return decimal.Zero, err
	}
	debt, err := repos.Debts.GetForUpdate(ctx, companyID, found.ID)
	if err != nil {
		return decimal.Zero, err
	}
	if debt.Status != entity.DebtStatusOpen || !debt.Balance.IsPositive() {
		return decimal.Zero, nil
	}
	reduced := decimal.Min(debt.Balance, amount)
	debt.Balance = debt.Balance.Sub(reduced)
	if debt.Balance.IsZero() {
		debt.Status = entity.DebtStatusSettled
	}
	debt.UpdatedAt = now
	if err := repos.Debts.Update(ctx, debt); err != nil {
		return decimal.Zero, fmt.Errorf("actualizar deuda: %w", err)
	}
	return reduced, nil
}
