// Package dashboard contiene los casos de uso del tablero: inventario del usuario, resumen
// mensual de ventas y productos más vendidos.
package dashboard

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/jhoicas/inventario-ventas/internal/application/dto"
	"github.com/jhoicas/inventario-ventas/internal/application/ports"
	"github.com/jhoicas/inventario-ventas/internal/domain"
	"github.com/jhoicas/inventario-ventas/internal/domain/entity"
)

// MonthLayout formato del parámetro de mes (YYYY-MM).
const MonthLayout = "2006-01"

// UseCase genera las vistas del tablero.
//
// Fuente de datos: DashboardGateway (consultas read-only al backend).
type UseCase struct {
	gw  ports.DashboardGateway
	log zerolog.Logger
	now func() time.Time
}

// NewUseCase construye el caso de uso.
func NewUseCase(gw ports.DashboardGateway, log zerolog.Logger) *UseCase {
	return &UseCase{gw: gw, log: log, now: time.Now}
}

// ParseMonth interpreta YYYY-MM y devuelve el día 1 del mes. Vacío = mes en curso.
func (uc *UseCase) ParseMonth(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		now := uc.now()
		return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC), nil
	}
	t, err := time.Parse(MonthLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: mes %q (use AAAA-MM)", domain.ErrInvalidInput, s)
	}
	return t, nil
}

// Inventory existencias del usuario por producto.
func (uc *UseCase) Inventory(ctx context.Context, cred entity.Credentials) ([]dto.InventoryRowDTO, error) {
	rows, err := uc.gw.Inventory(ctx, cred)
	if err != nil {
		return nil, fmt.Errorf("dashboard: inventario: %w", err)
	}
	out := make([]dto.InventoryRowDTO, 0, len(rows))
	for _, r := range rows {
		out = append(out, dto.InventoryRowDTO(r))
	}
	return out, nil
}

// SalesSummary resumen de ventas del mes. El subtotal se deriva: neto + descuento - iva.
func (uc *UseCase) SalesSummary(ctx context.Context, cred entity.Credentials, month time.Time) (*dto.SalesSummaryDTO, error) {
	s, err := uc.gw.SalesSummary(ctx, cred, month)
	if err != nil {
		return nil, fmt.Errorf("dashboard: resumen de ventas: %w", err)
	}
	return &dto.SalesSummaryDTO{
		Month:       month.Format(MonthLayout),
		Subtotal:    s.Subtotal().Round(2),
		Discount:    s.Discount.Round(2),
		Tax:         s.Tax.Round(2),
		Net:         s.Net.Round(2),
		Goal:        s.Goal.Round(2),
		GoalPercent: s.GoalPercent.Round(2),
	}, nil
}

// TopProducts productos más vendidos entre el día 1 y el último día del mes.
func (uc *UseCase) TopProducts(ctx context.Context, cred entity.Credentials, month time.Time) ([]dto.TopProductDTO, error) {
	from, to := monthRange(month)
	rows, err := uc.gw.TopProducts(ctx, cred, from, to)
	if err != nil {
		return nil, fmt.Errorf("dashboard: productos más vendidos: %w", err)
	}
	out := make([]dto.TopProductDTO, 0, len(rows))
	for _, r := range rows {
		out = append(out, dto.TopProductDTO(r))
	}
	return out, nil
}

// Overview las tres vistas en paralelo. Una vista que falla queda vacía con su aviso;
// solo se devuelve error si fallan las tres.
func (uc *UseCase) Overview(ctx context.Context, cred entity.Credentials, month time.Time) (*dto.DashboardDTO, error) {
	type inventoryResult struct {
		rows []dto.InventoryRowDTO
		err  error
	}
	type summaryResult struct {
		summary *dto.SalesSummaryDTO
		err     error
	}
	type topResult struct {
		rows []dto.TopProductDTO
		err  error
	}

	invCh := make(chan inventoryResult, 1)
	sumCh := make(chan summaryResult, 1)
	topCh := make(chan topResult, 1)

	go func() {
		rows, err := uc.Inventory(ctx, cred)
		invCh <- inventoryResult{rows, err}
	}()
	go func() {
		s, err := uc.SalesSummary(ctx, cred, month)
		sumCh <- summaryResult{s, err}
	}()
	go func() {
		rows, err := uc.TopProducts(ctx, cred, month)
		topCh <- topResult{rows, err}
	}()

	inv := <-invCh
	sum := <-sumCh
	top := <-topCh

	out := &dto.DashboardDTO{
		Inventory:   []dto.InventoryRowDTO{},
		TopProducts: []dto.TopProductDTO{},
		Notices:     []string{},
	}
	failed := 0
	if inv.err != nil {
		failed++
		uc.log.Warn().Err(inv.err).Msg("dashboard sin inventario")
		out.Notices = append(out.Notices, domain.UserMessage(inv.err, "no se pudo cargar el inventario"))
	} else {
		out.Inventory = inv.rows
	}
	if sum.err != nil {
		failed++
		uc.log.Warn().Err(sum.err).Msg("dashboard sin resumen de ventas")
		out.Notices = append(out.Notices, domain.UserMessage(sum.err, "no se pudo cargar el resumen de ventas"))
	} else {
		out.Summary = sum.summary
	}
	if top.err != nil {
		failed++
		uc.log.Warn().Err(top.err).Msg("dashboard sin productos más vendidos")
		out.Notices = append(out.Notices, domain.UserMessage(top.err, "no se pudieron cargar los productos más vendidos"))
	} else {
		out.TopProducts = top.rows
	}
	if failed == 3 {
		return nil, fmt.Errorf("dashboard: %w", inv.err)
	}
	return out, nil
}

// ExportInventory archivo de inventario generado por el backend.
func (uc *UseCase) ExportInventory(ctx context.Context, cred entity.Credentials) ([]byte, string, error) {
	data, contentType, err := uc.gw.ExportInventory(ctx, cred)
	if err != nil {
		return nil, "", fmt.Errorf("dashboard: exportar inventario: %w", err)
	}
	if contentType == "" {
		contentType = "text/csv"
	}
	return data, contentType, nil
}

// monthRange día 1 y último día del mes.
func monthRange(month time.Time) (time.Time, time.Time) {
	from := time.Date(month.Year(), month.Month(), 1, 0, 0, 0, 0, month.Location())
	return from, from.AddDate(0, 1, -1)
}
