package sales

import (
	"context"
	"errors"
	"fmt"

	"github.com/jhoicas/caja-api/internal/application/dto"
	"github.com/jhoicas/caja-api/internal/domain"
	"github.com/jhoicas/caja-api/internal/domain/entity"
	"github.com/jhoicas/caja-api/internal/domain/repository"
)

// GetSale devuelve la venta con líneas y pagos.
func (uc *UseCase) GetSale(ctx context.Context, companyID, saleID string) (*dto.SaleResponse, error) {
	sale, err := uc.saleRepo.GetByID(ctx, companyID, saleID)
	if err != nil {
		return nil, err
	}
	out := ToSaleResponse(sale)
	return &out, nil
}

// ListSales lista ventas con filtros, de la más reciente a la más antigua.
func (uc *UseCase) ListSales(ctx context.Context, filter repository.SaleFilter) (*dto.SaleListResponse, error) {
	if filter.Limit <= 0 {
		filter.Limit = 20
	}
	list, err := uc.saleRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.SaleResponse, 0, len(list))
	for _, s := range list {
		items = append(items, ToSaleResponse(s))
	}
	return &dto.SaleListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: filter.Limit, Offset: filter.Offset},
	}, nil
}

// Receipt genera el comprobante PDF de la venta.
//
// Retorna:
//   - (pdfBytes, filename, nil) si todo sale bien.
//   - domain.ErrNotFound si la venta no existe o es de otra empresa.
func (uc *UseCase) Receipt(ctx context.Context, companyID, saleID string) ([]byte, string, error) {
	// ── 1. Venta ──────────────────────────────────────────────────────────────
	sale, err := uc.saleRepo.GetByID(ctx, companyID, saleID)
	if err != nil {
		return nil, "", err
	}

	// ── 2. Bodega y cliente ───────────────────────────────────────────────────
	wh, err := uc.warehouseRepo.GetByID(ctx, sale.WarehouseID)
	if err != nil {
		return nil, "", fmt.Errorf("comprobante: obtener bodega: %w", err)
	}
	var customer *entity.Customer
	if sale.CustomerID != "" {
		customer, err = uc.customerRepo.GetByID(ctx, sale.CustomerID)
		if err != nil && !errors.Is(err, domain.ErrNotFound) {
			return nil, "", fmt.Errorf("comprobante: obtener cliente: %w", err)
		}
	}

	// ── 3. Líneas con nombre de producto ──────────────────────────────────────
	lines := make([]ReceiptLine, 0, len(sale.Items))
	names := make(map[string]string)
	for _, it := range sale.Items {
		name, ok := names[it.ProductID]
		if !ok {
			name = it.ProductID
			if p, err := uc.productRepo.GetByID(ctx, it.ProductID); err == nil {
				name = p.Name
			}
			names[it.ProductID] = name
		}
		lines = append(lines, ReceiptLine{
			ProductName: name,
			UnitName:    it.UnitName,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			Subtotal:    it.Subtotal,
		})
	}

	// ── 4. PDF ────────────────────────────────────────────────────────────────
	pdf, err := uc.receipts.GenerateReceipt(ctx, sale, wh, customer, lines)
	if err != nil {
		return nil, "", fmt.Errorf("comprobante: generar pdf: %w", err)
	}
	return pdf, "venta-" + sale.SaleNumber + ".pdf", nil
}
