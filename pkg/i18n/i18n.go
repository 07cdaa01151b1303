// Package i18n traduce los mensajes de error expuestos por la API. El español es
// el idioma por defecto; el inglés se elige desde Accept-Language.
package i18n

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Claves de mensaje; coinciden con los códigos de error de la API.
const (
	NotFound                = "NOT_FOUND"
	InventoryNotFound       = "INVENTORY_NOT_FOUND"
	InsufficientStock       = "INSUFFICIENT_STOCK"
	InsufficientStockDetail = "INSUFFICIENT_STOCK_DETAIL"
	Validation              = "VALIDATION_ERROR"
	PaymentIncomplete       = "PAYMENT_INCOMPLETE"
	UnitNotSellable         = "UNIT_NOT_SELLABLE"
	ReturnExceedsSale       = "RETURN_EXCEEDS_SALE"
	Conflict                = "CONFLICT"
	Duplicate               = "DUPLICATE"
	Unauthorized            = "UNAUTHORIZED"
	Forbidden               = "FORBIDDEN"
	Internal                = "INTERNAL_ERROR"
)

var supported = []language.Tag{language.Spanish, language.English}

var matcher = language.NewMatcher(supported)

func init() {
	set := func(tag language.Tag, entries map[string]string) {
		for k, v := range entries {
			_ = message.SetString(tag, k, v)
		}
	}
	set(language.Spanish, map[string]string{
		NotFound:                "Recurso no encontrado",
		InventoryNotFound:       "No existe registro de inventario para el producto en la bodega",
		InsufficientStock:       "Stock insuficiente",
		InsufficientStockDetail: "Stock insuficiente para %s: disponible %s, requerido %s",
		Validation:              "Datos inválidos",
		PaymentIncomplete:       "El monto recibido no cubre el total y la venta no tiene cliente",
		UnitNotSellable:         "La unidad de venta no está permitida para el producto",
		ReturnExceedsSale:       "La devolución excede la cantidad vendida",
		Conflict:                "La operación entra en conflicto con el estado actual",
		Duplicate:               "El recurso ya existe",
		Unauthorized:            "No autorizado",
		Forbidden:               "Acceso denegado",
		Internal:                "Error interno, intente de nuevo",
	})
	set(language.English, map[string]string{
		NotFound:                "Resource not found",
		InventoryNotFound:       "Inventory record not found",
		InsufficientStock:       "Insufficient stock",
		InsufficientStockDetail: "Insufficient stock for %s: available %s, required %s",
		Validation:              "Invalid input",
		PaymentIncomplete:       "Received amount does not cover the total and the sale has no customer",
		UnitNotSellable:         "Selling unit not allowed for this product",
		ReturnExceedsSale:       "Return exceeds the sold quantity",
		Conflict:                "Operation conflicts with the current state",
		Duplicate:               "Resource already exists",
		Unauthorized:            "Unauthorized",
		Forbidden:               "Forbidden",
		Internal:                "Internal error, please retry",
	})
}

// Match elige el idioma soportado más cercano a un encabezado Accept-Language.
func Match(acceptLanguage string) language.Tag {
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return language.Spanish
	}
	_, idx, conf := matcher.Match(tags...)
	if conf == language.No {
		return language.Spanish
	}
	return supported[idx]
}

// T traduce key al idioma tag.
func T(tag language.Tag, key string, args ...any) string {
	return message.NewPrinter(tag).Sprintf(key, args...)
}
