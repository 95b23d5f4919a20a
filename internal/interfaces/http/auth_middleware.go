package http

import (
	"context"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/inventario-ventas/internal/application/dto"
	"github.com/jhoicas/inventario-ventas/internal/domain"
	"github.com/jhoicas/inventario-ventas/internal/domain/entity"
)

// LocalSession key de la sesión en c.Locals.
const LocalSession = "session"

// SessionResolver resuelve el id de sesión que el cliente envía como Bearer.
type SessionResolver interface {
	Resolve(ctx context.Context, sessionID string) (*entity.Session, error)
}

// AuthMiddleware valida el Bearer (id de sesión del BFF) y deja la sesión en c.Locals.
func AuthMiddleware(sessions SessionResolver) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "Authorization header requerido"})
		}
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "formato: Bearer <session_id>"})
		}
		sessionID := strings.TrimSpace(parts[1])
		if sessionID == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "token vacío"})
		}
		s, err := sessions.Resolve(c.UserContext(), sessionID)
		if err != nil {
			if errors.Is(err, domain.ErrSessionExpired) {
				return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "SESSION_EXPIRED", Message: "la sesión expiró, inicie sesión de nuevo"})
			}
			if errors.Is(err, domain.ErrUnauthorized) {
				return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "sesión inválida"})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: "no se pudo validar la sesión"})
		}
		c.Locals(LocalSession, s)
		return c.Next()
	}
}

// GetSession devuelve la sesión del contexto (después del middleware de auth).
func GetSession(c *fiber.Ctx) *entity.Session {
	s, _ := c.Locals(LocalSession).(*entity.Session)
	return s
}

// credentials identidad de la sesión para llamar al backend.
func credentials(c *fiber.Ctx) entity.Credentials {
	if s := GetSession(c); s != nil {
		return s.Credentials()
	}
	return entity.Credentials{}
}
