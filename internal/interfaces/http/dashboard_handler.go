package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/inventario-ventas/internal/application/dashboard"
)

// DashboardHandler inventario, resumen mensual y productos más vendidos.
type DashboardHandler struct {
	uc  *dashboard.UseCase
	log zerolog.Logger
}

// NewDashboardHandler construye el handler.
func NewDashboardHandler(uc *dashboard.UseCase, log zerolog.Logger) *DashboardHandler {
	return &DashboardHandler{uc: uc, log: log}
}

// Overview godoc
// @Summary      Dashboard
// @Description  Inventario, resumen de ventas y más vendidos del mes. Una sección que falla llega vacía con su aviso.
// @Tags         Dashboard
// @Security     Bearer
// @Produce      json
// @Param        month  query     string  false  "Mes (AAAA-MM), por defecto el actual"
// @Success      200    {object}  dto.DashboardDTO
// @Failure      400    {object}  dto.ErrorResponse
// @Router       /api/dashboard [get]
func (h *DashboardHandler) Overview(c *fiber.Ctx) error {
	month, err := h.uc.ParseMonth(c.Query("month"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	out, err := h.uc.Overview(c.UserContext(), credentials(c), month)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// SalesSummary godoc
// @Summary      Resumen de ventas del mes
// @Tags         Dashboard
// @Security     Bearer
// @Produce      json
// @Param        month  query     string  false  "Mes (AAAA-MM)"
// @Success      200    {object}  dto.SalesSummaryDTO
// @Failure      400    {object}  dto.ErrorResponse
// @Router       /api/dashboard/sales-summary [get]
func (h *DashboardHandler) SalesSummary(c *fiber.Ctx) error {
	month, err := h.uc.ParseMonth(c.Query("month"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	out, err := h.uc.SalesSummary(c.UserContext(), credentials(c), month)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// TopProducts godoc
// @Summary      Productos más vendidos del mes
// @Tags         Dashboard
// @Security     Bearer
// @Produce      json
// @Param        month  query     string  false  "Mes (AAAA-MM)"
// @Success      200    {array}   dto.TopProductDTO
// @Failure      400    {object}  dto.ErrorResponse
// @Router       /api/dashboard/top-products [get]
func (h *DashboardHandler) TopProducts(c *fiber.Ctx) error {
	month, err := h.uc.ParseMonth(c.Query("month"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	out, err := h.uc.TopProducts(c.UserContext(), credentials(c), month)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// ExportInventory godoc
// @Summary      Exportar inventario
// @Description  Devuelve el archivo generado por el backend.
// @Tags         Dashboard
// @Security     Bearer
// @Produce      octet-stream
// @Success      200  {file}    binary
// @Failure      503  {object}  dto.ErrorResponse
// @Router       /api/inventory/export [get]
func (h *DashboardHandler) ExportInventory(c *fiber.Ctx) error {
	data, contentType, err := h.uc.ExportInventory(c.UserContext(), credentials(c))
	if err != nil {
		return writeError(c, h.log, err)
	}
	c.Set(fiber.HeaderContentType, contentType)
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="inventario.csv"`)
	return c.Send(data)
}
