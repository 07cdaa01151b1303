package sales

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/caja-api/internal/application/catalog"
	"github.com/jhoicas/caja-api/internal/application/dto"
	"github.com/jhoicas/caja-api/internal/application/inventory"
	"github.com/jhoicas/caja-api/internal/domain"
	"github.com/jhoicas/caja-api/internal/domain/cart"
	"github.com/jhoicas/caja-api/internal/domain/entity"
	domaininv "github.com/jhoicas/caja-api/internal/domain/inventory"
	"github.com/jhoicas/caja-api/internal/domain/repository"
	"github.com/jhoicas/caja-api/internal/domain/units"
)

// CheckoutItem línea a vender: cantidad en la unidad de venta elegida.
type CheckoutItem struct {
	ProductID     string
	SellingUnitID string
	Quantity      decimal.Decimal
}

// CheckoutInput datos de una venta. Los precios y totales se recalculan aquí.
type CheckoutInput struct {
	CompanyID      string
	WarehouseID    string
	CashierID      string
	CustomerID     string
	SaleNumber     string
	Items          []CheckoutItem
	Discount       cart.Discount
	ReceivedAmount decimal.Decimal
	PaymentMethod  string
}

type pricedLine struct {
	product *entity.Product
	unit    *entity.SellingUnit
	item    CheckoutItem
	price   decimal.Decimal
	base    decimal.Decimal
}

// Checkout valida la venta, descuenta stock, guarda venta, líneas, pago y deuda
// (si el pago es parcial con cliente) en una sola transacción. Cualquier error
// deja stock y documentos como estaban.
func (uc *UseCase) Checkout(ctx context.Context, in CheckoutInput) (*dto.CheckoutResponse, error) {
	if err := validateCheckout(in); err != nil {
		return nil, err
	}
	wh, err := uc.warehouse(ctx, in.CompanyID, in.WarehouseID)
	if err != nil {
		return nil, err
	}
	if in.CustomerID != "" {
		if _, err := uc.customer(ctx, in.CompanyID, in.CustomerID); err != nil {
			return nil, err
		}
	}

	// Productos y precios fuera de la tx, solo lectura.
	lines, err := uc.priceLines(ctx, in)
	if err != nil {
		return nil, err
	}

	subtotal := decimal.Zero
	for _, l := range lines {
		subtotal = subtotal.Add(l.price.Mul(l.item.Quantity))
	}
	discount := cart.DiscountAmount(subtotal, in.Discount)
	if discount.GreaterThan(subtotal) {
		discount = subtotal
	}
	total := entity.RoundMoney(subtotal.Sub(discount))

	status := entity.SaleStatusPaid
	change, due, paid := decimal.Zero, decimal.Zero, total
	if in.ReceivedAmount.LessThan(total) {
		if in.CustomerID == "" {
			return nil, domain.ErrPaymentIncomplete
		}
		status = entity.SaleStatusPartial
		due = total.Sub(in.ReceivedAmount)
		paid = in.ReceivedAmount
	} else {
		change = in.ReceivedAmount.Sub(total)
	}

	number := in.SaleNumber
	if number == "" {
		number = uc.numbers.Next()
	}

	now := uc.now()
	sale := &entity.Sale{
		ID:             uuid.New().String(),
		CompanyID:      in.CompanyID,
		WarehouseID:    wh.ID,
		SaleNumber:     number,
		CashierID:      in.CashierID,
		CustomerID:     in.CustomerID,
		Subtotal:       entity.RoundMoney(subtotal),
		DiscountType:   in.Discount.Type,
		DiscountValue:  in.Discount.Value,
		DiscountAmount: entity.RoundMoney(discount),
		Total:          total,
		ReceivedAmount: entity.RoundMoney(in.ReceivedAmount),
		Change:         entity.RoundMoney(change),
		AmountDue:      entity.RoundMoney(due),
		Status:         status,
		CreatedAt:      now,
	}
	stockLines := make([]inventory.Line, 0, len(lines))
	for _, l := range lines {
		sale.Items = append(sale.Items, entity.SaleItem{
			ID:            uuid.New().String(),
			SaleID:        sale.ID,
			ProductID:     l.product.ID,
			SellingUnitID: l.unit.ID,
			UnitName:      l.unit.Name,
			Quantity:      l.item.Quantity,
			BaseQuantity:  l.base,
			UnitPrice:     l.price,
			Subtotal:      entity.RoundMoney(l.price.Mul(l.item.Quantity)),
		})
		stockLines = append(stockLines, inventory.Line{
			ProductID: l.product.ID,
			Kind:      l.unit.Kind,
			Quantity:  l.item.Quantity,
		})
	}
	if paid.IsPositive() {
		sale.Payments = append(sale.Payments, entity.Payment{
			ID:        uuid.New().String(),
			SaleID:    sale.ID,
			Method:    in.PaymentMethod,
			Amount:    entity.RoundMoney(paid),
			CreatedAt: now,
		})
	}

	var debt *entity.CustomerDebt
	if status == entity.SaleStatusPartial {
		debt = &entity.CustomerDebt{
			ID:         uuid.New().String(),
			CompanyID:  in.CompanyID,
			CustomerID: in.CustomerID,
			SaleID:     sale.ID,
			Amount:     sale.AmountDue,
			Paid:       decimal.Zero,
			Balance:    sale.AmountDue,
			Status:     entity.DebtStatusOpen,
			CreatedAt:  now,
			UpdatedAt:  now,
		}
	}

	var res *inventory.Result
	err = uc.txRunner.Run(ctx, func(repos repository.TxRepos) error {
		var err error
		res, err = uc.engine.ApplyInTx(ctx, repos, inventory.Request{
			CompanyID:     in.CompanyID,
			WarehouseID:   wh.ID,
			UserID:        in.CashierID,
			Operation:     domaininv.OpConsume,
			ReferenceType: entity.ReferenceSale,
			ReferenceID:   sale.ID,
			Lines:         stockLines,
		})
		if err != nil {
			return err
		}
		if err := repos.Sales.Create(ctx, sale); err != nil {
			return fmt.Errorf("guardar venta: %w", err)
		}
		if debt != nil {
			if err := repos.Debts.Create(ctx, debt); err != nil {
				return fmt.Errorf("guardar deuda: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		uc.log.Warn().Err(err).
			Str("company_id", in.CompanyID).
			Str("sale_number", number).
			Msg("venta rechazada")
		return nil, err
	}

	uc.log.Info().
		Str("company_id", in.CompanyID).
		Str("sale_id", sale.ID).
		Str("sale_number", number).
		Str("total", total.String()).
		Str("status", status).
		Msg("venta confirmada")
	uc.notifier.Committed(ctx, in.CompanyID, res.Inventory)

	out := &dto.CheckoutResponse{
		Sale:             ToSaleResponse(sale),
		UpdatedInventory: make([]dto.InventoryResponse, 0, len(res.Inventory)),
		UpdatedProducts:  make([]dto.ProductResponse, 0, len(res.Products)),
	}
	for i, inv := range res.Inventory {
		out.UpdatedInventory = append(out.UpdatedInventory, inventory.ToInventoryResponse(inv, res.Products[i]))
		out.UpdatedProducts = append(out.UpdatedProducts, catalog.ToProductResponse(res.Products[i]))
	}
	if debt != nil {
		d := ToDebtResponse(debt)
		out.Debt = &d
	}
	return out, nil
}

func validateCheckout(in CheckoutInput) error {
	if in.PaymentMethod == "" {
		return domain.Invalid("payment_method", "requerido")
	}
	if !validPaymentMethod(in.PaymentMethod) {
		return domain.Invalid("payment_method", "debe ser cash, card o transfer")
	}
	if len(in.Items) == 0 {
		return domain.Invalid("items", "debe contener al menos una línea")
	}
	for i, it := range in.Items {
		if it.ProductID == "" {
			return domain.Invalid(fmt.Sprintf("items[%d].product_id", i), "requerido")
		}
		if it.SellingUnitID == "" {
			return domain.Invalid(fmt.Sprintf("items[%d].selling_unit_id", i), "requerido")
		}
		if !it.Quantity.IsPositive() {
			return domain.Invalid(fmt.Sprintf("items[%d].quantity", i), "debe ser mayor que cero")
		}
	}
	if in.ReceivedAmount.IsNegative() {
		return domain.Invalid("received_amount", "no puede ser negativo")
	}
	switch in.Discount.Type {
	case "", entity.DiscountFixed:
	case entity.DiscountPercentage:
		if in.Discount.Value.GreaterThan(decimal.NewFromInt(100)) {
			return domain.Invalid("discount.value", "el porcentaje no puede superar 100")
		}
	default:
		return domain.Invalid("discount.type", "debe ser fixed o percentage")
	}
	if in.Discount.Value.IsNegative() {
		return domain.Invalid("discount.value", "no puede ser negativo")
	}
	return nil
}

// priceLines resuelve producto, unidad y precio vigente de cada línea.
func (uc *UseCase) priceLines(ctx context.Context, in CheckoutInput) ([]pricedLine, error) {
	products := make(map[string]*entity.Product, len(in.Items))
	out := make([]pricedLine, 0, len(in.Items))
	for _, it := range in.Items {
		product, ok := products[it.ProductID]
		if !ok {
			p, err := uc.productRepo.GetByID(ctx, it.ProductID)
			if err != nil {
				return nil, err
			}
			if p.CompanyID != in.CompanyID {
				return nil, domain.ErrNotFound
			}
			products[it.ProductID] = p
			product = p
		}
		unit, ok := product.FindUnit(it.SellingUnitID)
		if !ok {
			return nil, fmt.Errorf("%w: %s", domain.ErrUnitNotSellable, it.SellingUnitID)
		}
		base, err := units.ToBase(it.Quantity, unit.Kind, product.Packaging())
		if err != nil {
			return nil, fmt.Errorf("%w: %s", err, unit.Name)
		}
		out = append(out, pricedLine{
			product: product,
			unit:    unit,
			item:    it,
			price:   product.PriceFor(unit),
			base:    base,
		})
	}
	return out, nil
}
