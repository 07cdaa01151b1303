package sales

import (
	"github.com/jhoicas/caja-api/internal/application/dto"
	"github.com/jhoicas/caja-api/internal/domain/entity"
)

// ToSaleResponse convierte la venta a DTO.
func ToSaleResponse(s *entity.Sale) dto.SaleResponse {
	out := dto.SaleResponse{
		ID:             s.ID,
		SaleNumber:     s.SaleNumber,
		WarehouseID:    s.WarehouseID,
		CashierID:      s.CashierID,
		CustomerID:     s.CustomerID,
		Subtotal:       s.Subtotal,
		DiscountType:   s.DiscountType,
		DiscountValue:  s.DiscountValue,
		DiscountAmount: s.DiscountAmount,
		Total:          s.Total,
		ReceivedAmount: s.ReceivedAmount,
		Change:         s.Change,
		AmountDue:      s.AmountDue,
		Status:         s.Status,
		Items:          make([]dto.SaleItemResponse, 0, len(s.Items)),
		Payments:       make([]dto.PaymentResponse, 0, len(s.Payments)),
		CreatedAt:      s.CreatedAt,
	}
	for _, it := range s.Items {
		out.Items = append(out.Items, dto.SaleItemResponse{
			ID:            it.ID,
			ProductID:     it.ProductID,
			SellingUnitID: it.SellingUnitID,
			UnitName:      it.UnitName,
			Quantity:      it.Quantity,
			BaseQuantity:  it.BaseQuantity,
			UnitPrice:     it.UnitPrice,
			Subtotal:      it.Subtotal,
		})
	}
	for _, p := range s.Payments {
		out.Payments = append(out.Payments, dto.PaymentResponse{Method: p.Method, Amount: p.Amount})
	}
	return out
}

// ToDebtResponse convierte la deuda a DTO.
func ToDebtResponse(d *entity.CustomerDebt) dto.DebtResponse {
	return dto.DebtResponse{
		ID:         d.ID,
		CustomerID: d.CustomerID,
		SaleID:     d.SaleID,
		Amount:     d.Amount,
		Paid:       d.Paid,
		Balance:    d.Balance,
		Status:     d.Status,
		CreatedAt:  d.CreatedAt,
	}
}
