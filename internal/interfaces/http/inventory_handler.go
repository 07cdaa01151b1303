package http

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/caja-api/internal/application/dto"
	"github.com/jhoicas/caja-api/internal/application/inventory"
	"github.com/jhoicas/caja-api/internal/domain/repository"
	"github.com/jhoicas/caja-api/internal/domain/units"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// InventoryHandler maneja las peticiones HTTP de movimientos e inventario (protegido).
type InventoryHandler struct {
	uc            *inventory.UseCase
	replenishment *inventory.ReplenishmentUseCase
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(uc *inventory.UseCase, replenishment *inventory.ReplenishmentUseCase) *InventoryHandler {
	return &InventoryHandler{uc: uc, replenishment: replenishment}
}

// GetStock godoc
// @Summary      Stock de un producto
// @Description  Con warehouse_id devuelve una fila; sin él, todas las bodegas. El ETag se deriva de la versión
//
//	de cada fila y If-None-Match responde 304 si nada cambió.
//
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        productId     path   string  true   "producto"
// @Param        warehouse_id  query  string  false  "bodega"
// @Success      200  {object}  dto.InventoryResponse
// @Success      304
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory/{productId} [get]
func (h *InventoryHandler) GetStock(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return unauthorized(c)
	}
	productID := c.Params("productId")
	if warehouseID := c.Query("warehouse_id"); warehouseID != "" {
		inv, err := h.uc.GetStock(c.UserContext(), companyID, productID, warehouseID)
		if err != nil {
			return respondError(c, err)
		}
		if notModified(c, etagFor(inv.Version)) {
			return c.SendStatus(fiber.StatusNotModified)
		}
		return c.JSON(inv)
	}

	rows, err := h.uc.ListStock(c.UserContext(), companyID, productID)
	if err != nil {
		return respondError(c, err)
	}
	versions := make([]int64, 0, len(rows))
	for _, r := range rows {
		versions = append(versions, r.Version)
	}
	if notModified(c, etagFor(versions...)) {
		return c.SendStatus(fiber.StatusNotModified)
	}
	return c.JSON(fiber.Map{"product_id": productID, "inventory": rows})
}

// notModified fija el ETag de la respuesta y compara con If-None-Match.
func notModified(c *fiber.Ctx, etag string) bool {
	c.Set(fiber.HeaderETag, etag)
	match := c.Get(fiber.HeaderIfNoneMatch)
	if match == "" {
		return false
	}
	for _, candidate := range strings.Split(match, ",") {
		candidate = strings.TrimSpace(candidate)
		if candidate == "*" || candidate == etag || "W/"+candidate == etag {
			return true
		}
	}
	return false
}

// Adjust godoc
// @Summary      Ajuste manual de inventario
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.AdjustmentRequest  true  "product_id, warehouse_id, type in|out, unit, quantity"
// @Success      201   {object}  dto.StockChangeResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/inventory/adjustments [post]
func (h *InventoryHandler) Adjust(c *fiber.Ctx) error {
	companyID, userID := GetCompanyID(c), GetUserID(c)
	if companyID == "" || userID == "" {
		return unauthorized(c)
	}
	var in dto.AdjustmentRequest
	if err := bindBody(c, &in); err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.Adjust(c.UserContext(), inventory.AdjustInput{
		CompanyID:   companyID,
		UserID:      userID,
		ProductID:   in.ProductID,
		WarehouseID: in.WarehouseID,
		Type:        in.Type,
		Unit:        units.Kind(in.Unit),
		Quantity:    in.Quantity,
		Reason:      in.Reason,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Reserve POST /api/inventory/reservations
func (h *InventoryHandler) Reserve(c *fiber.Ctx) error {
	return h.reservation(c, h.uc.Reserve)
}

// Release POST /api/inventory/reservations/release
func (h *InventoryHandler) Release(c *fiber.Ctx) error {
	return h.reservation(c, h.uc.Release)
}

// Fulfill POST /api/inventory/reservations/fulfill
func (h *InventoryHandler) Fulfill(c *fiber.Ctx) error {
	return h.reservation(c, h.uc.Fulfill)
}

type reservationFunc func(ctx context.Context, in inventory.ReservationInput) (*dto.StockChangeResponse, error)

func (h *InventoryHandler) reservation(c *fiber.Ctx, fn reservationFunc) error {
	companyID, userID := GetCompanyID(c), GetUserID(c)
	if companyID == "" || userID == "" {
		return unauthorized(c)
	}
	var in dto.ReservationRequest
	if err := bindBody(c, &in); err != nil {
		return respondError(c, err)
	}
	lines := make([]inventory.Line, 0, len(in.Items))
	for _, it := range in.Items {
		lines = append(lines, inventory.Line{ProductID: it.ProductID, Kind: units.Kind(it.Unit), Quantity: it.Quantity})
	}
	out, err := fn(c.UserContext(), inventory.ReservationInput{
		CompanyID:   companyID,
		UserID:      userID,
		WarehouseID: in.WarehouseID,
		ReferenceID: in.ReferenceID,
		Lines:       lines,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// ListMovements godoc
// @Summary      Bitácora de movimientos
// @Description  format=xlsx descarga el mismo listado como hoja de cálculo.
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        product_id      query  string  false  "producto"
// @Param        warehouse_id    query  string  false  "bodega"
// @Param        reference_type  query  string  false  "sale, sale_return, purchase, adjustment, reservation"
// @Param        reference_id    query  string  false  "documento"
// @Param        from            query  string  false  "desde (RFC 3339 o YYYY-MM-DD)"
// @Param        to              query  string  false  "hasta"
// @Param        format          query  string  false  "json | xlsx"
// @Success      200  {object}  dto.MovementListResponse
// @Router       /api/inventory/movements [get]
func (h *InventoryHandler) ListMovements(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return unauthorized(c)
	}
	limit, offset := pageParams(c)
	filter := repository.MovementFilter{
		CompanyID:     companyID,
		ProductID:     c.Query("product_id"),
		WarehouseID:   c.Query("warehouse_id"),
		ReferenceType: c.Query("reference_type"),
		ReferenceID:   c.Query("reference_id"),
		Limit:         limit,
		Offset:        offset,
	}
	var err error
	if filter.From, err = queryTime(c, "from"); err != nil {
		return respondError(c, err)
	}
	if filter.To, err = queryTime(c, "to"); err != nil {
		return respondError(c, err)
	}

	if strings.EqualFold(c.Query("format"), "xlsx") {
		data, err := h.uc.ExportMovements(c.UserContext(), filter)
		if err != nil {
			return respondError(c, err)
		}
		c.Set(fiber.HeaderContentType, xlsxContentType)
		c.Set(fiber.HeaderContentDisposition, `attachment; filename="movimientos.xlsx"`)
		return c.Send(data)
	}

	list, err := h.uc.ListMovements(c.UserContext(), filter)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(list)
}

// GetReplenishmentList godoc
// @Summary      Lista de reposición
// @Description  Devuelve los productos en estado low u out_of_stock con la cantidad sugerida
//
//	de pedido en unidades base y en cajas, ordenados por mayor déficit.
//
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        warehouse_id  query  string  false  "Filtrar por bodega. Vacío = todas."
// @Success      200  {array}   dto.ReplenishmentSuggestionDTO
// @Failure      401  {object}  dto.ErrorResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/inventory/replenishment-list [get]
func (h *InventoryHandler) GetReplenishmentList(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return unauthorized(c)
	}

	list, err := h.replenishment.GenerateReplenishmentList(c.UserContext(), companyID, c.Query("warehouse_id"))
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"total":          len(list),
		"replenishments": list,
	})
}
