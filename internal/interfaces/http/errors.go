package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/caja-api/internal/application/dto"
	"github.com/jhoicas/caja-api/internal/domain"
	"github.com/jhoicas/caja-api/pkg/i18n"
)

// errorMapping código HTTP y clave de mensaje de un error de dominio.
type errorMapping struct {
	status int
	key    string
}

// Orden importa: InventoryNotFound antes que NotFound, InsufficientStock antes que Conflict.
var errorTable = []struct {
	target  error
	mapping errorMapping
}{
	{domain.ErrInventoryNotFound, errorMapping{fiber.StatusNotFound, i18n.InventoryNotFound}},
	{domain.ErrNotFound, errorMapping{fiber.StatusNotFound, i18n.NotFound}},
	{domain.ErrInsufficientStock, errorMapping{fiber.StatusConflict, i18n.InsufficientStock}},
	{domain.ErrReturnExceedsSale, errorMapping{fiber.StatusConflict, i18n.ReturnExceedsSale}},
	{domain.ErrDuplicate, errorMapping{fiber.StatusConflict, i18n.Duplicate}},
	{domain.ErrConflict, errorMapping{fiber.StatusConflict, i18n.Conflict}},
	{domain.ErrPaymentIncomplete, errorMapping{fiber.StatusUnprocessableEntity, i18n.PaymentIncomplete}},
	{domain.ErrUnitNotSellable, errorMapping{fiber.StatusBadRequest, i18n.UnitNotSellable}},
	{domain.ErrInvalidInput, errorMapping{fiber.StatusBadRequest, i18n.Validation}},
	{domain.ErrUnauthorized, errorMapping{fiber.StatusUnauthorized, i18n.Unauthorized}},
	{domain.ErrForbidden, errorMapping{fiber.StatusForbidden, i18n.Forbidden}},
}

func classify(err error) errorMapping {
	for _, e := range errorTable {
		if errors.Is(err, e.target) {
			return e.mapping
		}
	}
	return errorMapping{fiber.StatusInternalServerError, i18n.Internal}
}

// respondError traduce err al cuerpo {success:false, code, message, details}.
// Los errores internos no exponen el detalle al cliente.
func respondError(c *fiber.Ctx, err error) error {
	mapping := classify(err)
	lang := i18n.Match(c.Get(fiber.HeaderAcceptLanguage))
	body := dto.ErrorResponse{
		Code:    mapping.key,
		Message: i18n.T(lang, mapping.key),
	}

	var (
		stockErr *domain.InsufficientStockError
		valErr   *domain.ValidationError
		fields   fieldErrors
	)
	switch {
	case errors.As(err, &stockErr):
		name := stockErr.ProductName
		if name == "" {
			name = stockErr.ProductID
		}
		body.Message = i18n.T(lang, i18n.InsufficientStockDetail, name, stockErr.Available.String(), stockErr.Required.String())
		body.Details = fiber.Map{
			"product_id": stockErr.ProductID,
			"available":  stockErr.Available,
			"required":   stockErr.Required,
		}
	case errors.As(err, &fields):
		body.Details = fields
	case errors.As(err, &valErr):
		body.Details = fieldErrors{{Field: valErr.Field, Reason: valErr.Reason}}
	case mapping.status != fiber.StatusInternalServerError:
		body.Details = err.Error()
	}
	return c.Status(mapping.status).JSON(body)
}

// unauthorized respuesta cuando el token no trae empresa o usuario.
func unauthorized(c *fiber.Ctx) error {
	return respondError(c, domain.ErrUnauthorized)
}
