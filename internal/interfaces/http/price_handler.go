package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/inventario-ventas/internal/application/dto"
	"github.com/jhoicas/inventario-ventas/internal/application/prices"
)

// PriceHandler administración de precios.
type PriceHandler struct {
	uc  *prices.UseCase
	log zerolog.Logger
}

// NewPriceHandler construye el handler.
func NewPriceHandler(uc *prices.UseCase, log zerolog.Logger) *PriceHandler {
	return &PriceHandler{uc: uc, log: log}
}

// List godoc
// @Summary      Precios activos
// @Tags         Precios
// @Security     Bearer
// @Produce      json
// @Success      200  {array}   dto.ProductPriceDTO
// @Failure      503  {object}  dto.ErrorResponse
// @Router       /api/prices [get]
func (h *PriceHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.UserContext(), credentials(c))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// Assign godoc
// @Summary      Asignar precio
// @Tags         Precios
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body      dto.AssignPriceRequest  true  "Precio"
// @Success      201   {object}  dto.MessageResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/prices [post]
func (h *PriceHandler) Assign(c *fiber.Ctx) error {
	var in dto.AssignPriceRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	if err := h.uc.Assign(c.UserContext(), credentials(c), in); err != nil {
		return writeError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.MessageResponse{Message: "Precio asignado"})
}
