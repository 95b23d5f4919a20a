package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/inventario-ventas/internal/application/dto"
	"github.com/jhoicas/inventario-ventas/internal/application/ports"
	"github.com/jhoicas/inventario-ventas/internal/domain"
	"github.com/jhoicas/inventario-ventas/internal/domain/entity"
	"github.com/jhoicas/inventario-ventas/internal/domain/repository"
	"github.com/jhoicas/inventario-ventas/pkg/jwt"
)

// SessionCloser libera lo asociado a una sesión al cerrarla (la terminal de ventas).
type SessionCloser interface {
	Discard(sessionID string)
}

// ExpiredSweeper cierra en bloque lo asociado a sesiones vencidas (sales.Registry).
type ExpiredSweeper interface {
	SweepExpired(now time.Time) int
}

// ExpiredPurger almacén que borra en bloque las sesiones vencidas.
type ExpiredPurger interface {
	PurgeExpired(ctx context.Context) (int64, error)
}

// AuthUseCase login contra el backend y sesiones del BFF.
// El BFF no valida credenciales ni firma tokens: reenvía el token del backend.
type AuthUseCase struct {
	gw       ports.AuthGateway
	sessions repository.SessionRepository
	closer   SessionCloser
	ttl      time.Duration
	log      zerolog.Logger
	now      func() time.Time
}

// NewAuthUseCase construye el caso de uso de auth. ttl es la vigencia máxima de una sesión.
func NewAuthUseCase(gw ports.AuthGateway, sessions repository.SessionRepository, closer SessionCloser, ttl time.Duration, log zerolog.Logger) *AuthUseCase {
	return &AuthUseCase{gw: gw, sessions: sessions, closer: closer, ttl: ttl, log: log, now: time.Now}
}

// Login autentica contra el backend y abre una sesión. El usuario sale de la respuesta o,
// si no viene, de los claims del token; la sesión vence con el token o con el TTL, lo que
// ocurra primero.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	email := strings.TrimSpace(in.Email)
	if email == "" || in.Password == "" {
		return nil, fmt.Errorf("%w: email y contraseña son obligatorios", domain.ErrInvalidInput)
	}
	res, err := uc.gw.Login(ctx, email, in.Password)
	if err != nil {
		return nil, err
	}
	if res.Token == "" {
		return nil, fmt.Errorf("%w: el backend no devolvió token", domain.ErrUnauthorized)
	}

	now := uc.now()
	expires := now.Add(uc.ttl)
	userID := res.UserID
	if info, err := jwt.ParseUnverified(res.Token); err == nil {
		if userID == "" {
			userID = entity.UserID(info.UserID)
		}
		if !info.ExpiresAt.IsZero() && info.ExpiresAt.Before(expires) {
			expires = info.ExpiresAt
		}
	} else {
		uc.log.Debug().Err(err).Msg("token del backend no es JWT; se usa el TTL configurado")
	}
	if userID == "" {
		return nil, fmt.Errorf("%w: el backend no identificó al usuario", domain.ErrUnauthorized)
	}
	if !expires.After(now) {
		return nil, domain.ErrSessionExpired
	}
	if res.Email != "" {
		email = res.Email
	}

	s := &entity.Session{
		ID:        uuid.NewString(),
		UserID:    userID,
		Email:     email,
		Token:     res.Token,
		CreatedAt: now,
		ExpiresAt: expires,
	}
	if err := uc.sessions.Save(ctx, s); err != nil {
		return nil, fmt.Errorf("auth: guardar sesión: %w", err)
	}
	uc.log.Info().Str("user_id", string(userID)).Time("expires_at", expires).Msg("sesión iniciada")
	return &dto.LoginResponse{
		SessionID: s.ID,
		UserID:    string(s.UserID),
		Email:     s.Email,
		ExpiresAt: s.ExpiresAt,
	}, nil
}

// Resolve devuelve la sesión vigente. ErrUnauthorized si no existe, ErrSessionExpired si venció.
func (uc *AuthUseCase) Resolve(ctx context.Context, sessionID string) (*entity.Session, error) {
	if sessionID == "" {
		return nil, domain.ErrUnauthorized
	}
	s, err := uc.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("auth: leer sesión: %w", err)
	}
	if s == nil {
		return nil, domain.ErrUnauthorized
	}
	if s.Expired(uc.now()) {
		_ = uc.Logout(ctx, sessionID)
		return nil, domain.ErrSessionExpired
	}
	return s, nil
}

// Logout cierra la sesión y descarta su venta en curso.
func (uc *AuthUseCase) Logout(ctx context.Context, sessionID string) error {
	if uc.closer != nil {
		uc.closer.Discard(sessionID)
	}
	if err := uc.sessions.Delete(ctx, sessionID); err != nil {
		return fmt.Errorf("auth: borrar sesión: %w", err)
	}
	return nil
}

// SweepExpired una pasada de limpieza: cierra las terminales de sesiones vencidas y, si el
// almacén lo soporta, borra esas sesiones.
func (uc *AuthUseCase) SweepExpired(ctx context.Context) error {
	closed := 0
	if sw, ok := uc.closer.(ExpiredSweeper); ok {
		closed = sw.SweepExpired(uc.now())
	}
	var purged int64
	if p, ok := uc.sessions.(ExpiredPurger); ok {
		n, err := p.PurgeExpired(ctx)
		if err != nil {
			return fmt.Errorf("auth: purgar sesiones: %w", err)
		}
		purged = n
	}
	if closed > 0 || purged > 0 {
		uc.log.Info().Int("terminals", closed).Int64("sessions", purged).Msg("sesiones vencidas liberadas")
	}
	return nil
}

// RunJanitor ejecuta SweepExpired cada interval hasta que ctx se cancele.
func (uc *AuthUseCase) RunJanitor(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := uc.SweepExpired(ctx); err != nil {
				uc.log.Warn().Err(err).Msg("limpieza de sesiones vencidas")
			}
		}
	}
}
