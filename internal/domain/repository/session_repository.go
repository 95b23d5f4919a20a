package repository

import (
	"context"

	"github.com/jhoicas/inventario-ventas/internal/domain/entity"
)

// SessionRepository define el puerto de persistencia para las sesiones de login (DIP).
// Get devuelve (nil, nil) si la sesión no existe. Una sesión vencida se devuelve igual: el
// llamador decide con Session.Expired.
type SessionRepository interface {
	Save(ctx context.Context, s *entity.Session) error
	Get(ctx context.Context, id string) (*entity.Session, error)
	Delete(ctx context.Context, id string) error
}
