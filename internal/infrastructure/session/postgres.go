package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/inventario-ventas/internal/domain/entity"
	"github.com/jhoicas/inventario-ventas/internal/domain/repository"
)

var _ repository.SessionRepository = (*PostgresStore)(nil)

const createSessionsTable = `
CREATE TABLE IF NOT EXISTS bff_sessions (
	id         TEXT PRIMARY KEY,
	user_id    TEXT NOT NULL,
	email      TEXT NOT NULL DEFAULT '',
	token      TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL,
	expires_at TIMESTAMPTZ NOT NULL
)`

// NewPostgresPool crea el pool y verifica la conexión.
func NewPostgresPool(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse DSN: %w", err)
	}
	poolConfig.MaxConns = 10
	poolConfig.MinConns = 1
	poolConfig.MaxConnLifetime = time.Hour
	poolConfig.MaxConnIdleTime = 30 * time.Minute
	poolConfig.HealthCheckPeriod = time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("crear pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping DB: %w", err)
	}
	return pool, nil
}

// PostgresStore sesiones en la tabla bff_sessions. Las vencidas se borran al leerlas
// o con PurgeExpired.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore crea la tabla si no existe.
func NewPostgresStore(ctx context.Context, pool *pgxpool.Pool) (*PostgresStore, error) {
	if _, err := pool.Exec(ctx, createSessionsTable); err != nil {
		return nil, fmt.Errorf("session: crear tabla: %w", err)
	}
	return &PostgresStore{pool: pool}, nil
}

// Save inserta o reemplaza la sesión.
func (s *PostgresStore) Save(ctx context.Context, sess *entity.Session) error {
	query := `
		INSERT INTO bff_sessions (id, user_id, email, token, created_at, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE SET
			user_id = EXCLUDED.user_id, email = EXCLUDED.email, token = EXCLUDED.token,
			expires_at = EXCLUDED.expires_at`
	_, err := s.pool.Exec(ctx, query,
		sess.ID, string(sess.UserID), sess.Email, sess.Token, sess.CreatedAt, sess.ExpiresAt,
	)
	if err != nil {
		return fmt.Errorf("session: guardar en postgres: %w", err)
	}
	return nil
}

// Get devuelve (nil, nil) si no existe. Las vencidas se devuelven hasta que se borran o se
// purgan.
func (s *PostgresStore) Get(ctx context.Context, id string) (*entity.Session, error) {
	query := `SELECT id, user_id, email, token, created_at, expires_at FROM bff_sessions WHERE id = $1`
	var (
		sess   entity.Session
		userID string
	)
	err := s.pool.QueryRow(ctx, query, id).Scan(
		&sess.ID, &userID, &sess.Email, &sess.Token, &sess.CreatedAt, &sess.ExpiresAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("session: leer de postgres: %w", err)
	}
	sess.UserID = entity.UserID(userID)
	return &sess, nil
}

// Delete elimina la sesión.
func (s *PostgresStore) Delete(ctx context.Context, id string) error {
	if _, err := s.pool.Exec(ctx, `DELETE FROM bff_sessions WHERE id = $1`, id); err != nil {
		return fmt.Errorf("session: borrar de postgres: %w", err)
	}
	return nil
}

// PurgeExpired borra las sesiones vencidas y devuelve cuántas eran.
func (s *PostgresStore) PurgeExpired(ctx context.Context) (int64, error) {
	tag, err := s.pool.Exec(ctx, `DELETE FROM bff_sessions WHERE expires_at <= now()`)
	if err != nil {
		return 0, fmt.Errorf("session: purgar vencidas: %w", err)
	}
	return tag.RowsAffected(), nil
}
