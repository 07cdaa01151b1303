// Package catalog administra productos, sus unidades de venta y bodegas.
package catalog

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/caja-api/internal/application/dto"
	"github.com/jhoicas/caja-api/internal/domain"
	"github.com/jhoicas/caja-api/internal/domain/entity"
	"github.com/jhoicas/caja-api/internal/domain/repository"
	"github.com/jhoicas/caja-api/internal/domain/units"
)

// ProductUseCase casos de uso para productos. Cost y stock se manejan vía movimientos.
type ProductUseCase struct {
	repo repository.ProductRepository
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(repo repository.ProductRepository) *ProductUseCase {
	return &ProductUseCase{repo: repo}
}

var unitNames = map[units.Kind]string{
	units.KindUnit:   "Unidad",
	units.KindPacket: "Paquete",
	units.KindCarton: "Caja",
}

// Create crea un producto. Los factores de empaque se validan aquí y no se
// vuelven a validar en la conversión. Cost inicia en 0.
func (uc *ProductUseCase) Create(ctx context.Context, companyID string, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	if in.SKU == "" {
		return nil, domain.Invalid("sku", "requerido")
	}
	if in.Name == "" {
		return nil, domain.Invalid("name", "requerido")
	}
	mode := units.Mode(in.SellingMode)
	if mode == "" {
		mode = units.ModeFull
	}
	pk := units.Packaging{UnitsPerPacket: in.UnitsPerPacket, PacketsPerCarton: in.PacketsPerCarton, Mode: mode}
	if err := pk.Validate(); err != nil {
		return nil, err
	}
	for field, v := range map[string]decimal.Decimal{
		"unit_price": in.UnitPrice, "packet_price": in.PacketPrice,
		"carton_price": in.CartonPrice, "reorder_level": in.ReorderLevel,
	} {
		if v.IsNegative() {
			return nil, domain.Invalid(field, "no puede ser negativo")
		}
	}
	if existing, _ := uc.repo.GetByCompanyAndSKU(ctx, companyID, in.SKU); existing != nil {
		return nil, domain.ErrDuplicate
	}

	now := time.Now()
	product := &entity.Product{
		ID:               uuid.New().String(),
		CompanyID:        companyID,
		SKU:              in.SKU,
		Name:             in.Name,
		UnitsPerPacket:   in.UnitsPerPacket,
		PacketsPerCarton: in.PacketsPerCarton,
		UnitPrice:        in.UnitPrice,
		PacketPrice:      in.PacketPrice,
		CartonPrice:      in.CartonPrice,
		Cost:             decimal.Zero,
		SellingMode:      mode,
		ReorderLevel:     in.ReorderLevel,
		ExpiryDate:       in.ExpiryDate,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	sellingUnits, err := buildSellingUnits(product, in.SellingUnits)
	if err != nil {
		return nil, err
	}
	product.SellingUnits = sellingUnits
	if err := uc.repo.Create(ctx, product); err != nil {
		return nil, err
	}
	out := ToProductResponse(product)
	return &out, nil
}

// buildSellingUnits arma las unidades de venta; sin lista explícita genera una
// por cada granularidad vendible del modo. La unidad base siempre existe.
func buildSellingUnits(p *entity.Product, req []dto.SellingUnitRequest) ([]entity.SellingUnit, error) {
	pk := p.Packaging()
	if len(req) == 0 {
		for _, k := range []units.Kind{units.KindUnit, units.KindPacket, units.KindCarton} {
			if pk.Sellable(k) {
				req = append(req, dto.SellingUnitRequest{Name: unitNames[k], Kind: string(k)})
			}
		}
	}
	base := units.KindUnit
	if pk.Mode == units.ModeCartonOnly {
		base = units.KindCarton
	}
	out := make([]entity.SellingUnit, 0, len(req))
	names := make(map[string]bool, len(req))
	hasBase := false
	for i, r := range req {
		kind := units.Kind(r.Kind)
		factor, err := units.Factor(kind, pk)
		if err != nil {
			return nil, fmt.Errorf("%w: selling_units[%d] %s", err, i, r.Kind)
		}
		name := r.Name
		if name == "" {
			name = unitNames[kind]
		}
		if names[name] {
			return nil, domain.Invalid(fmt.Sprintf("selling_units[%d].name", i), "nombre repetido")
		}
		if r.Price.IsNegative() {
			return nil, domain.Invalid(fmt.Sprintf("selling_units[%d].price", i), "no puede ser negativo")
		}
		names[name] = true
		isBase := kind == base && !hasBase
		hasBase = hasBase || isBase
		out = append(out, entity.SellingUnit{
			ID:             uuid.New().String(),
			ProductID:      p.ID,
			Name:           name,
			Kind:           kind,
			UnitsPerParent: factor,
			IsBase:         isBase,
			Price:          r.Price,
		})
	}
	if !hasBase {
		return nil, domain.Invalid("selling_units", "falta la unidad base "+string(base))
	}
	return out, nil
}

// Get obtiene un producto de la empresa.
func (uc *ProductUseCase) Get(ctx context.Context, companyID, id string) (*dto.ProductResponse, error) {
	product, err := uc.find(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	out := ToProductResponse(product)
	return &out, nil
}

// List lista productos por empresa con paginación.
func (uc *ProductUseCase) List(ctx context.Context, companyID string, limit, offset int) (*dto.ProductListResponse, error) {
	if limit <= 0 {
		limit = 20
	}
	list, err := uc.repo.ListByCompany(ctx, companyID, limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		items = append(items, ToProductResponse(p))
	}
	return &dto.ProductListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: limit, Offset: offset},
	}, nil
}

// Convert expresa qty de la unidad kind en unidades base y en el desglose unidad/paquete/caja.
func (uc *ProductUseCase) Convert(ctx context.Context, companyID, id string, kind units.Kind, qty decimal.Decimal) (*dto.ConvertResponse, error) {
	if qty.IsNegative() {
		return nil, domain.Invalid("quantity", "no puede ser negativa")
	}
	product, err := uc.find(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	pk := product.Packaging()
	base, err := units.ToBase(qty, kind, pk)
	if err != nil {
		return nil, err
	}
	return &dto.ConvertResponse{
		ProductID: product.ID,
		Kind:      string(kind),
		Quantity:  qty,
		Base:      base,
		Breakdown: units.FromBase(base, pk),
	}, nil
}

func (uc *ProductUseCase) find(ctx context.Context, companyID, id string) (*entity.Product, error) {
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product.CompanyID != companyID {
		return nil, domain.ErrNotFound
	}
	return product, nil
}

// ToProductResponse convierte el producto a DTO con el precio efectivo de cada unidad.
func ToProductResponse(p *entity.Product) dto.ProductResponse {
	out := dto.ProductResponse{
		ID:               p.ID,
		CompanyID:        p.CompanyID,
		SKU:              p.SKU,
		Name:             p.Name,
		UnitsPerPacket:   p.UnitsPerPacket,
		PacketsPerCarton: p.PacketsPerCarton,
		UnitPrice:        p.UnitPrice,
		PacketPrice:      p.PacketPrice,
		CartonPrice:      p.CartonPrice,
		Cost:             p.Cost,
		SellingMode:      string(p.SellingMode),
		ReorderLevel:     p.ReorderLevel,
		ExpiryDate:       p.ExpiryDate,
		SellingUnits:     make([]dto.SellingUnitResponse, 0, len(p.SellingUnits)),
		CreatedAt:        p.CreatedAt,
		UpdatedAt:        p.UpdatedAt,
	}
	for i := range p.SellingUnits {
		u := &p.SellingUnits[i]
		out.SellingUnits = append(out.SellingUnits, dto.SellingUnitResponse{
			ID:             u.ID,
			Name:           u.Name,
			Kind:           string(u.Kind),
			UnitsPerParent: u.UnitsPerParent,
			IsBase:         u.IsBase,
			Price:          p.PriceFor(u),
		})
	}
	return out
}
