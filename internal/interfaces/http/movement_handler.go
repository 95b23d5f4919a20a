package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/inventario-ventas/internal/application/dto"
	"github.com/jhoicas/inventario-ventas/internal/application/movements"
)

// MovementHandler entradas y salidas de inventario.
type MovementHandler struct {
	uc  *movements.UseCase
	log zerolog.Logger
}

// NewMovementHandler construye el handler.
func NewMovementHandler(uc *movements.UseCase, log zerolog.Logger) *MovementHandler {
	return &MovementHandler{uc: uc, log: log}
}

// Register godoc
// @Summary      Registrar movimiento
// @Description  Entrada o salida de cajas. Una salida que excede el stock se rechaza sin llamar al backend.
// @Tags         Movimientos
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body      dto.RegisterMovementRequest  true  "Movimiento"
// @Success      201   {object}  dto.MessageResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/movements [post]
func (h *MovementHandler) Register(c *fiber.Ctx) error {
	var in dto.RegisterMovementRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	if err := h.uc.Register(c.UserContext(), credentials(c), in); err != nil {
		return writeError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.MessageResponse{Message: "Movimiento registrado"})
}

// List godoc
// @Summary      Historial de movimientos
// @Tags         Movimientos
// @Security     Bearer
// @Produce      json
// @Param        from     query     string  false  "Desde (AAAA-MM-DD)"
// @Param        to       query     string  false  "Hasta (AAAA-MM-DD)"
// @Param        product  query     string  false  "Producto"
// @Success      200      {array}   dto.MovementDTO
// @Failure      400      {object}  dto.ErrorResponse
// @Router       /api/movements [get]
func (h *MovementHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.UserContext(), credentials(c), c.Query("from"), c.Query("to"), c.Query("product"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}
