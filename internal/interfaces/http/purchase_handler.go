package http

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/caja-api/internal/application/dto"
	"github.com/jhoicas/caja-api/internal/application/purchasing"
	"github.com/jhoicas/caja-api/internal/domain/units"
)

// PurchaseHandler recepciones, devoluciones a proveedor y proveedores.
type PurchaseHandler struct {
	uc        *purchasing.UseCase
	suppliers *purchasing.SupplierUseCase
}

// NewPurchaseHandler construye el handler.
func NewPurchaseHandler(uc *purchasing.UseCase, suppliers *purchasing.SupplierUseCase) *PurchaseHandler {
	return &PurchaseHandler{uc: uc, suppliers: suppliers}
}

// Receive godoc
// @Summary      Recepción de compra
// @Description  Ingresa mercancía, crea la fila de inventario si no existe y recalcula el costo promedio.
// @Tags         purchases
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.PurchaseRequest  true  "documento de compra"
// @Success      201   {object}  dto.PurchaseResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/purchases [post]
func (h *PurchaseHandler) Receive(c *fiber.Ctx) error {
	return h.register(c, h.uc.ReceivePurchase)
}

// ReturnToSupplier POST /api/purchases/returns (sin stock suficiente no se registra nada).
func (h *PurchaseHandler) ReturnToSupplier(c *fiber.Ctx) error {
	return h.register(c, h.uc.ReturnToSupplier)
}

func (h *PurchaseHandler) register(c *fiber.Ctx, fn func(context.Context, purchasing.Input) (*dto.PurchaseResponse, error)) error {
	companyID, userID := GetCompanyID(c), GetUserID(c)
	if companyID == "" || userID == "" {
		return unauthorized(c)
	}
	var in dto.PurchaseRequest
	if err := bindBody(c, &in); err != nil {
		return respondError(c, err)
	}
	items := make([]purchasing.Item, 0, len(in.Items))
	for _, it := range in.Items {
		items = append(items, purchasing.Item{
			ProductID: it.ProductID,
			Unit:      units.Kind(it.Unit),
			Quantity:  it.Quantity,
			UnitCost:  it.UnitCost,
		})
	}
	out, err := fn(c.UserContext(), purchasing.Input{
		CompanyID:   companyID,
		UserID:      userID,
		SupplierID:  in.SupplierID,
		WarehouseID: in.WarehouseID,
		Number:      in.Number,
		Items:       items,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID GET /api/purchases/:id
func (h *PurchaseHandler) GetByID(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return unauthorized(c)
	}
	out, err := h.uc.Get(c.UserContext(), companyID, c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// CreateSupplier POST /api/suppliers
func (h *PurchaseHandler) CreateSupplier(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return unauthorized(c)
	}
	var in dto.CreateSupplierRequest
	if err := bindBody(c, &in); err != nil {
		return respondError(c, err)
	}
	out, err := h.suppliers.Create(c.UserContext(), companyID, in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListSuppliers GET /api/suppliers
func (h *PurchaseHandler) ListSuppliers(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return unauthorized(c)
	}
	limit, offset := pageParams(c)
	list, err := h.suppliers.List(c.UserContext(), companyID, limit, offset)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(list)
}
