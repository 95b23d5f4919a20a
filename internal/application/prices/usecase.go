// Package prices pantalla de precios: listado de precios activos y asignación de precio base.
package prices

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/jhoicas/inventario-ventas/internal/application/dto"
	"github.com/jhoicas/inventario-ventas/internal/application/ports"
	"github.com/jhoicas/inventario-ventas/internal/domain"
	"github.com/jhoicas/inventario-ventas/internal/domain/entity"
	"github.com/jhoicas/inventario-ventas/internal/domain/pricing"
)

// UseCase casos de uso de precios.
type UseCase struct {
	gw  ports.PriceAdminGateway
	log zerolog.Logger
}

// NewUseCase construye el caso de uso.
func NewUseCase(gw ports.PriceAdminGateway, log zerolog.Logger) *UseCase {
	return &UseCase{gw: gw, log: log}
}

// List precios activos con el precio neto (base más IVA general si aplica).
func (uc *UseCase) List(ctx context.Context, cred entity.Credentials) ([]dto.ProductPriceDTO, error) {
	rows, err := uc.gw.ActivePrices(ctx, cred)
	if err != nil {
		return nil, fmt.Errorf("precios: listar: %w", err)
	}
	out := make([]dto.ProductPriceDTO, 0, len(rows))
	for _, r := range rows {
		out = append(out, dto.ProductPriceDTO{
			ProductID:     string(r.ProductID),
			ProductName:   r.ProductName,
			FamilyName:    r.FamilyName,
			BasePrice:     r.BasePrice,
			IVAApplicable: r.IVAApplicable,
			NetPrice:      pricing.NetPrice(r.BasePrice, r.IVAApplicable).Round(2),
			UpdatedAt:     r.UpdatedAt,
		})
	}
	return out, nil
}

// Assign asigna un nuevo precio base. El precio debe ser mayor que cero.
func (uc *UseCase) Assign(ctx context.Context, cred entity.Credentials, in dto.AssignPriceRequest) error {
	a := entity.PriceAssignment{
		ProductID:     entity.ProductID(strings.TrimSpace(in.ProductID)),
		BasePrice:     in.BasePrice,
		IVAApplicable: in.IVAApplicable,
	}
	if a.ProductID == "" {
		return fmt.Errorf("%w: producto obligatorio", domain.ErrInvalidInput)
	}
	if !a.BasePrice.IsPositive() {
		return fmt.Errorf("%w: el precio debe ser mayor que cero", domain.ErrInvalidInput)
	}
	if err := uc.gw.AssignPrice(ctx, cred, a); err != nil {
		return fmt.Errorf("precios: asignar: %w", err)
	}
	uc.log.Info().Str("product_id", string(a.ProductID)).Str("base_price", a.BasePrice.String()).
		Bool("iva", a.IVAApplicable).Msg("precio asignado")
	return nil
}
