package http

import (
	"errors"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/caja-api/internal/domain"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Los errores reportan el nombre JSON del campo.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// fieldError campo rechazado por la validación del cuerpo.
type fieldError struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

// fieldErrors se trata como domain.ErrInvalidInput.
type fieldErrors []fieldError

func (e fieldErrors) Error() string {
	parts := make([]string, 0, len(e))
	for _, f := range e {
		parts = append(parts, f.Field+": "+f.Reason)
	}
	return strings.Join(parts, "; ")
}

func (e fieldErrors) Is(target error) bool {
	return target == domain.ErrInvalidInput
}

// bindBody parsea el cuerpo JSON en out y aplica las etiquetas validate.
func bindBody(c *fiber.Ctx, out any) error {
	if err := c.BodyParser(out); err != nil {
		return domain.Invalid("body", "cuerpo inválido")
	}
	return validateStruct(out)
}

func validateStruct(out any) error {
	err := validate.Struct(out)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return domain.Invalid("body", err.Error())
	}
	fields := make(fieldErrors, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, fieldError{Field: fieldPath(fe), Reason: reason(fe)})
	}
	return fields
}

// fieldPath quita el nombre del struct raíz: "CheckoutRequest.items[0].product_id" → "items[0].product_id".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

func reason(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "requerido"
	case "oneof":
		return "debe ser uno de: " + fe.Param()
	case "min":
		if fe.Kind() == reflect.Slice {
			return "debe contener al menos " + fe.Param() + " elemento(s)"
		}
		if fe.Kind() == reflect.String {
			return "longitud mínima " + fe.Param()
		}
		return "valor mínimo " + fe.Param()
	case "max":
		if fe.Kind() == reflect.String {
			return "longitud máxima " + fe.Param()
		}
		return "valor máximo " + fe.Param()
	case "email":
		return "correo inválido"
	}
	return "no cumple " + fe.Tag()
}

// pageParams lee limit y offset de la query; limit queda entre 1 y 100.
func pageParams(c *fiber.Ctx) (int, int) {
	limit := c.QueryInt("limit", 20)
	offset := c.QueryInt("offset", 0)
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

// etagFor construye un ETag débil a partir de la versión de cada fila.
func etagFor(versions ...int64) string {
	parts := make([]string, 0, len(versions))
	for _, v := range versions {
		parts = append(parts, strconv.FormatInt(v, 10))
	}
	return `W/"` + strings.Join(parts, "-") + `"`
}
