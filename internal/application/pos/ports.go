package pos

import (
	"context"

	"github.com/jhoicas/caja-api/internal/application/dto"
	"github.com/jhoicas/caja-api/internal/application/sales"
)

// Checkouter confirma la venta del carrito activo; lo implementa sales.UseCase.
type Checkouter interface {
	Checkout(ctx context.Context, in sales.CheckoutInput) (*dto.CheckoutResponse, error)
}
