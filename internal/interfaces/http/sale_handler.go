package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/caja-api/internal/application/dto"
	"github.com/jhoicas/caja-api/internal/application/sales"
	"github.com/jhoicas/caja-api/internal/domain"
	"github.com/jhoicas/caja-api/internal/domain/cart"
	"github.com/jhoicas/caja-api/internal/domain/repository"
)

// SaleHandler ventas directas, consultas, comprobante y devoluciones.
type SaleHandler struct {
	uc *sales.UseCase
}

// NewSaleHandler construye el handler.
func NewSaleHandler(uc *sales.UseCase) *SaleHandler {
	return &SaleHandler{uc: uc}
}

// Checkout godoc
// @Summary      Registrar venta
// @Description  Totales, precios y número de venta se calculan en el servidor. received_amount menor al total requiere customer_id y genera deuda.
// @Tags         sales
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CheckoutRequest  true  "venta"
// @Success      201   {object}  dto.CheckoutResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/sales [post]
func (h *SaleHandler) Checkout(c *fiber.Ctx) error {
	companyID, userID := GetCompanyID(c), GetUserID(c)
	if companyID == "" || userID == "" {
		return unauthorized(c)
	}
	var in dto.CheckoutRequest
	if err := bindBody(c, &in); err != nil {
		return respondError(c, err)
	}
	items := make([]sales.CheckoutItem, 0, len(in.Items))
	for _, it := range in.Items {
		items = append(items, sales.CheckoutItem{
			ProductID:     it.ProductID,
			SellingUnitID: it.SellingUnitID,
			Quantity:      it.Quantity,
		})
	}
	out, err := h.uc.Checkout(c.UserContext(), sales.CheckoutInput{
		CompanyID:      companyID,
		WarehouseID:    in.WarehouseID,
		CashierID:      userID,
		CustomerID:     in.CustomerID,
		SaleNumber:     in.SaleNumber,
		Items:          items,
		Discount:       cart.Discount{Type: in.Discount.Type, Value: in.Discount.Value},
		ReceivedAmount: in.ReceivedAmount,
		PaymentMethod:  in.PaymentMethod,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List GET /api/sales?cashier_id=&customer_id=&status=&from=&to=&limit=&offset=
func (h *SaleHandler) List(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return unauthorized(c)
	}
	limit, offset := pageParams(c)
	filter := repository.SaleFilter{
		CompanyID:  companyID,
		CashierID:  c.Query("cashier_id"),
		CustomerID: c.Query("customer_id"),
		Status:     c.Query("status"),
		Limit:      limit,
		Offset:     offset,
	}
	var err error
	if filter.From, err = queryTime(c, "from"); err != nil {
		return respondError(c, err)
	}
	if filter.To, err = queryTime(c, "to"); err != nil {
		return respondError(c, err)
	}
	list, err := h.uc.ListSales(c.UserContext(), filter)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(list)
}

// GetByID GET /api/sales/:id
func (h *SaleHandler) GetByID(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return unauthorized(c)
	}
	sale, err := h.uc.GetSale(c.UserContext(), companyID, c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(sale)
}

// Receipt godoc
// @Summary      Comprobante PDF de la venta
// @Tags         sales
// @Security     Bearer
// @Produce      application/pdf
// @Param        id  path  string  true  "venta"
// @Success      200
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/sales/{id}/receipt [get]
func (h *SaleHandler) Receipt(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return unauthorized(c)
	}
	pdf, filename, err := h.uc.Receipt(c.UserContext(), companyID, c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `inline; filename="`+filename+`"`)
	return c.Send(pdf)
}

// Return godoc
// @Summary      Devolución de venta
// @Description  Cantidad por línea acotada a lo vendido menos lo ya devuelto; el monto abona primero la deuda abierta.
// @Tags         sales
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string             true  "venta"
// @Param        body  body  dto.ReturnRequest  true  "líneas a devolver"
// @Success      201   {object}  dto.ReturnResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/sales/{id}/returns [post]
func (h *SaleHandler) Return(c *fiber.Ctx) error {
	companyID, userID := GetCompanyID(c), GetUserID(c)
	if companyID == "" || userID == "" {
		return unauthorized(c)
	}
	var in dto.ReturnRequest
	if err := bindBody(c, &in); err != nil {
		return respondError(c, err)
	}
	items := make([]sales.ReturnItem, 0, len(in.Items))
	for _, it := range in.Items {
		items = append(items, sales.ReturnItem{SaleItemID: it.SaleItemID, Quantity: it.Quantity})
	}
	out, err := h.uc.ProcessReturn(c.UserContext(), sales.ReturnInput{
		CompanyID:    companyID,
		UserID:       userID,
		SaleID:       c.Params("id"),
		Items:        items,
		Reason:       in.Reason,
		RefundMethod: in.RefundMethod,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListDebts GET /api/debts?customer_id=&status=
func (h *SaleHandler) ListDebts(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return unauthorized(c)
	}
	list, err := h.uc.ListDebts(c.UserContext(), companyID, c.Query("customer_id"), c.Query("status"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"total": len(list), "debts": list})
}

// PayDebt POST /api/debts/:id/payments
func (h *SaleHandler) PayDebt(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return unauthorized(c)
	}
	var in dto.PayDebtRequest
	if err := bindBody(c, &in); err != nil {
		return respondError(c, err)
	}
	debt, err := h.uc.PayDebt(c.UserContext(), sales.PayDebtInput{
		CompanyID: companyID,
		DebtID:    c.Params("id"),
		Amount:    in.Amount,
		Method:    in.Method,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(debt)
}

// queryTime lee un parámetro RFC 3339 o fecha YYYY-MM-DD; vacío es nil.
func queryTime(c *fiber.Ctx, key string) (*time.Time, error) {
	raw := c.Query(key)
	if raw == "" {
		return nil, nil
	}
	for _, layout := range []string{time.RFC3339, time.DateOnly} {
		if t, err := time.Parse(layout, raw); err == nil {
			return &t, nil
		}
	}
	return nil, domain.Invalid(key, "formato de fecha inválido (RFC 3339 o YYYY-MM-DD)")
}
