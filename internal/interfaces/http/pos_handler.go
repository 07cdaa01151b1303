package http

import (
	"bufio"
	"encoding/json"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/caja-api/internal/application/dto"
	"github.com/jhoicas/caja-api/internal/application/pos"
)

// POSHandler expone las sesiones de caja: carritos, líneas, cobro y eventos SSE.
type POSHandler struct {
	svc       *pos.Service
	keepAlive time.Duration
}

// NewPOSHandler construye el handler.
func NewPOSHandler(svc *pos.Service) *POSHandler {
	return &POSHandler{svc: svc, keepAlive: 15 * time.Second}
}

// Open godoc
// @Summary      Abrir sesión de caja
// @Tags         pos
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.OpenSessionRequest  true  "bodega de la caja"
// @Success      201   {object}  dto.SessionResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /api/pos/sessions [post]
func (h *POSHandler) Open(c *fiber.Ctx) error {
	companyID, userID := GetCompanyID(c), GetUserID(c)
	if companyID == "" || userID == "" {
		return unauthorized(c)
	}
	var in dto.OpenSessionRequest
	if err := bindBody(c, &in); err != nil {
		return respondError(c, err)
	}
	sess, err := h.svc.Open(c.UserContext(), companyID, userID, in.WarehouseID)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(sess)
}

// Get GET /api/pos/sessions/:id
func (h *POSHandler) Get(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return unauthorized(c)
	}
	sess, err := h.svc.Get(companyID, c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(sess)
}

// Close DELETE /api/pos/sessions/:id: libera lo apartado en los carritos.
func (h *POSHandler) Close(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return unauthorized(c)
	}
	if err := h.svc.Close(c.UserContext(), companyID, c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// AddCart POST /api/pos/sessions/:id/carts
func (h *POSHandler) AddCart(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return unauthorized(c)
	}
	var in dto.CreateCartRequest
	if len(c.Body()) > 0 {
		if err := bindBody(c, &in); err != nil {
			return respondError(c, err)
		}
	}
	sess, err := h.svc.AddCart(companyID, c.Params("id"), in.Name)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(sess)
}

// RemoveCart DELETE /api/pos/sessions/:id/carts/:cartId
func (h *POSHandler) RemoveCart(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return unauthorized(c)
	}
	sess, err := h.svc.RemoveCart(c.UserContext(), companyID, c.Params("id"), c.Params("cartId"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(sess)
}

// SetActiveCart PUT /api/pos/sessions/:id/carts/:cartId/active
func (h *POSHandler) SetActiveCart(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return unauthorized(c)
	}
	sess, err := h.svc.SetActiveCart(companyID, c.Params("id"), c.Params("cartId"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(sess)
}

// SetDiscount PUT /api/pos/sessions/:id/discount
func (h *POSHandler) SetDiscount(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return unauthorized(c)
	}
	var in dto.DiscountRequest
	if err := bindBody(c, &in); err != nil {
		return respondError(c, err)
	}
	sess, err := h.svc.SetDiscount(companyID, c.Params("id"), in.Type, in.Value)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(sess)
}

// AddItem godoc
// @Summary      Agregar producto al carrito activo
// @Description  Agrega una unidad de venta; si no hay stock proyectado el resultado es rejected y el carrito no cambia.
// @Tags         pos
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string              true  "sesión"
// @Param        body  body  dto.AddItemRequest  true  "producto y unidad"
// @Success      200   {object}  dto.AddItemResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/pos/sessions/{id}/items [post]
func (h *POSHandler) AddItem(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return unauthorized(c)
	}
	var in dto.AddItemRequest
	if err := bindBody(c, &in); err != nil {
		return respondError(c, err)
	}
	out, err := h.svc.AddItem(c.UserContext(), companyID, c.Params("id"), in.ProductID, in.SellingUnitID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// UpdateQty PATCH /api/pos/sessions/:id/items/:productId/:unitId
func (h *POSHandler) UpdateQty(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return unauthorized(c)
	}
	var in dto.UpdateQtyRequest
	if err := bindBody(c, &in); err != nil {
		return respondError(c, err)
	}
	sess, err := h.svc.UpdateQty(c.UserContext(), companyID, c.Params("id"), c.Params("productId"), c.Params("unitId"), in.Delta, in.Direction)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(sess)
}

// RemoveItem DELETE /api/pos/sessions/:id/items/:productId/:unitId
func (h *POSHandler) RemoveItem(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return unauthorized(c)
	}
	sess, err := h.svc.RemoveItem(c.UserContext(), companyID, c.Params("id"), c.Params("productId"), c.Params("unitId"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(sess)
}

// ChangeUnit PUT /api/pos/sessions/:id/items/:productId/:unitId/unit
func (h *POSHandler) ChangeUnit(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return unauthorized(c)
	}
	var in dto.ChangeUnitRequest
	if err := bindBody(c, &in); err != nil {
		return respondError(c, err)
	}
	sess, err := h.svc.ChangeSellingUnit(c.UserContext(), companyID, c.Params("id"), c.Params("productId"), c.Params("unitId"), in.ToUnitID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(sess)
}

// Stock GET /api/pos/sessions/:id/stock/:productId
func (h *POSHandler) Stock(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return unauthorized(c)
	}
	out, err := h.svc.Stock(c.UserContext(), companyID, c.Params("id"), c.Params("productId"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Checkout godoc
// @Summary      Cobrar el carrito activo
// @Description  Recalcula totales en el servidor y confirma la venta en una sola transacción. Si falla, el carrito se conserva.
// @Tags         pos
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                      true  "sesión"
// @Param        body  body  dto.SessionCheckoutRequest  true  "pago"
// @Success      201   {object}  dto.CheckoutResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/pos/sessions/{id}/checkout [post]
func (h *POSHandler) Checkout(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return unauthorized(c)
	}
	var in dto.SessionCheckoutRequest
	if err := bindBody(c, &in); err != nil {
		return respondError(c, err)
	}
	out, err := h.svc.Checkout(c.UserContext(), companyID, c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Events GET /api/pos/sessions/:id/events: flujo SSE con stock:update e inventory:committed.
func (h *POSHandler) Events(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return unauthorized(c)
	}
	events, cancel, err := h.svc.Listen(companyID, c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	c.Set(fiber.HeaderContentType, "text/event-stream")
	c.Set(fiber.HeaderCacheControl, "no-cache")
	c.Set(fiber.HeaderConnection, "keep-alive")
	c.Set("X-Accel-Buffering", "no")

	keepAlive := h.keepAlive
	c.Context().SetBodyStreamWriter(func(w *bufio.Writer) {
		defer cancel()
		ticker := time.NewTicker(keepAlive)
		defer ticker.Stop()
		for {
			select {
			case ev, ok := <-events:
				if !ok {
					return
				}
				payload, err := json.Marshal(ev)
				if err != nil {
					continue
				}
				fmt.Fprintf(w, "event: %s\ndata: %s\n\n", ev.Type, payload)
			case <-ticker.C:
				fmt.Fprint(w, ": ping\n\n")
			}
			// Error al vaciar: el cliente se desconectó.
			if err := w.Flush(); err != nil {
				return
			}
		}
	})
	return nil
}
