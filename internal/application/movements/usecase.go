// Package movements registra entradas y salidas de inventario contra el backend.
package movements

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/jhoicas/inventario-ventas/internal/application/dto"
	"github.com/jhoicas/inventario-ventas/internal/application/ports"
	"github.com/jhoicas/inventario-ventas/internal/domain"
	"github.com/jhoicas/inventario-ventas/internal/domain/entity"
	"github.com/jhoicas/inventario-ventas/internal/domain/stock"
)

// DateLayout formato de las fechas de filtro (desde/hasta).
const DateLayout = "2006-01-02"

// UseCase entradas y salidas de inventario.
// Una salida se valida contra el stock actual antes de enviarla; una que excede nunca llega al backend.
type UseCase struct {
	movements ports.MovementGateway
	stock     ports.StockGateway
	log       zerolog.Logger
}

// NewUseCase construye el caso de uso.
func NewUseCase(movements ports.MovementGateway, stock ports.StockGateway, log zerolog.Logger) *UseCase {
	return &UseCase{movements: movements, stock: stock, log: log}
}

// Register valida y registra un movimiento.
func (uc *UseCase) Register(ctx context.Context, cred entity.Credentials, in dto.RegisterMovementRequest) error {
	m := entity.Movement{
		Type:           entity.MovementType(strings.ToLower(strings.TrimSpace(in.Type))),
		ProductID:      entity.ProductID(strings.TrimSpace(in.ProductID)),
		PresentationID: entity.PresentationID(strings.TrimSpace(in.PresentationID)),
		QuantityBoxes:  in.QuantityBoxes,
		QuantityUnits:  in.QuantityUnits,
		Description:    strings.TrimSpace(in.Description),
	}
	if !m.Type.Valid() {
		return fmt.Errorf("%w: tipo debe ser entrada o salida", domain.ErrInvalidInput)
	}
	if m.ProductID == "" || m.PresentationID == "" {
		return fmt.Errorf("%w: producto y presentación son obligatorios", domain.ErrInvalidInput)
	}
	if m.QuantityBoxes < 1 || m.QuantityUnits < 0 {
		return fmt.Errorf("%w: cantidad inválida", domain.ErrInvalidInput)
	}

	if m.Type == entity.MovementExit {
		lvl, err := uc.stock.Stock(ctx, cred, m.PresentationID)
		if err != nil && !errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("%w: %w", domain.ErrStockUnavailable, err)
		}
		req := stock.Request{Boxes: m.QuantityBoxes, Units: m.QuantityUnits, TrackUnits: m.QuantityUnits > 0}
		if !stock.Sufficient(req, lvl) {
			uc.log.Info().Str("presentation_id", string(m.PresentationID)).Int("boxes", m.QuantityBoxes).
				Msg("salida rechazada: stock insuficiente")
			return domain.ErrStockExceeded
		}
	}

	if err := uc.movements.RegisterMovement(ctx, cred, m); err != nil {
		return fmt.Errorf("movimientos: registrar: %w", err)
	}
	uc.log.Info().Str("type", string(m.Type)).Str("presentation_id", string(m.PresentationID)).
		Int("boxes", m.QuantityBoxes).Int("units", m.QuantityUnits).Msg("movimiento registrado")
	return nil
}

// List historial filtrado. from y to en formato YYYY-MM-DD, vacíos = sin filtro.
func (uc *UseCase) List(ctx context.Context, cred entity.Credentials, from, to, product string) ([]dto.MovementDTO, error) {
	f := entity.MovementFilter{Product: strings.TrimSpace(product)}
	var err error
	if f.From, err = parseDate(from); err != nil {
		return nil, err
	}
	if f.To, err = parseDate(to); err != nil {
		return nil, err
	}
	if !f.From.IsZero() && !f.To.IsZero() && f.To.Before(f.From) {
		return nil, fmt.Errorf("%w: 'hasta' es anterior a 'desde'", domain.ErrInvalidInput)
	}

	recs, err := uc.movements.Movements(ctx, cred, f)
	if err != nil {
		return nil, fmt.Errorf("movimientos: listar: %w", err)
	}
	out := make([]dto.MovementDTO, 0, len(recs))
	for _, r := range recs {
		out = append(out, dto.MovementDTO{
			ID:          r.ID,
			Date:        r.Date,
			Type:        string(r.Type),
			Family:      r.Family,
			Product:     r.Product,
			Boxes:       r.Boxes,
			Units:       r.Units,
			Description: r.Description,
		})
	}
	return out, nil
}

func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: fecha %q (use AAAA-MM-DD)", domain.ErrInvalidInput, s)
	}
	return t, nil
}
