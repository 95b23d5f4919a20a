package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/inventario-ventas/internal/application/dto"
	"github.com/jhoicas/inventario-ventas/internal/domain"
)

type errorMapping struct {
	target error
	status int
	code   string
}

// errorMappings en orden: gana la primera coincidencia.
var errorMappings = []errorMapping{
	{domain.ErrSessionExpired, fiber.StatusUnauthorized, "SESSION_EXPIRED"},
	{domain.ErrUnauthorized, fiber.StatusUnauthorized, "UNAUTHORIZED"},
	{domain.ErrSubmitInProgress, fiber.StatusConflict, "SUBMIT_IN_PROGRESS"},
	{domain.ErrSubmissionFailed, fiber.StatusBadGateway, "SUBMISSION_FAILED"},
	{domain.ErrInvalidInput, fiber.StatusBadRequest, "VALIDATION"},
	{domain.ErrInvalidSelection, fiber.StatusBadRequest, "INVALID_SELECTION"},
	{domain.ErrSelectionIncomplete, fiber.StatusConflict, "SELECTION_INCOMPLETE"},
	{domain.ErrStockExceeded, fiber.StatusConflict, "INSUFFICIENT_STOCK"},
	{domain.ErrPriceUnavailable, fiber.StatusConflict, "PRICE_UNAVAILABLE"},
	{domain.ErrStockUnavailable, fiber.StatusConflict, "STOCK_UNAVAILABLE"},
	{domain.ErrPriceFetch, fiber.StatusBadGateway, "PRICE_FETCH_FAILED"},
	{domain.ErrCatalogUnavailable, fiber.StatusServiceUnavailable, "CATALOG_UNAVAILABLE"},
	{domain.ErrLineNotFound, fiber.StatusNotFound, "LINE_NOT_FOUND"},
	{domain.ErrNoReceipt, fiber.StatusNotFound, "NO_RECEIPT"},
	{domain.ErrNotFound, fiber.StatusNotFound, "NOT_FOUND"},
	{domain.ErrBackendUnavailable, fiber.StatusServiceUnavailable, "BACKEND_UNAVAILABLE"},
}

// writeError traduce el error a dto.ErrorResponse. El mensaje del backend ("mensaje")
// tiene prioridad; errores no mapeados se registran y salen como INTERNAL.
func writeError(c *fiber.Ctx, log zerolog.Logger, err error) error {
	for _, m := range errorMappings {
		if errors.Is(err, m.target) {
			msg := domain.UserMessage(err, m.target.Error())
			if m.target == domain.ErrInvalidInput {
				msg = err.Error()
			}
			return c.Status(m.status).JSON(dto.ErrorResponse{Code: m.code, Message: msg})
		}
	}
	var remote *domain.RemoteError
	if errors.As(err, &remote) {
		status := fiber.StatusBadGateway
		if remote.Status >= 400 && remote.Status < 500 {
			status = fiber.StatusUnprocessableEntity
		}
		return c.Status(status).JSON(dto.ErrorResponse{
			Code:    "BACKEND_REJECTED",
			Message: domain.UserMessage(err, "el backend rechazó la operación"),
		})
	}
	log.Error().Err(err).Str("path", c.Path()).Msg("error no controlado")
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: "error interno"})
}

func invalidBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
}
