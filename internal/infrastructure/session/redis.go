package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/jhoicas/inventario-ventas/internal/domain/entity"
	"github.com/jhoicas/inventario-ventas/internal/domain/repository"
)

var _ repository.SessionRepository = (*RedisStore)(nil)

const keyPrefix = "session:"

// expiredGrace tiempo que la clave sobrevive al vencimiento de la sesión, para que el BFF
// distinga una sesión vencida de una inexistente.
const expiredGrace = time.Hour

// NewRedisClient abre la conexión y verifica que Redis responda.
func NewRedisClient(addr, password string, db int) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis: ping: %w", err)
	}
	return rdb, nil
}

// RedisStore sesiones como JSON con TTL igual a la vigencia restante más expiredGrace.
// Sirve para varias réplicas del BFF; la venta en curso sigue siendo local a cada proceso.
type RedisStore struct {
	rdb *redis.Client
}

// NewRedisStore construye el almacén sobre un cliente ya conectado.
func NewRedisStore(rdb *redis.Client) *RedisStore {
	return &RedisStore{rdb: rdb}
}

// Save guarda la sesión. Una sesión ya vencida no se guarda.
func (s *RedisStore) Save(ctx context.Context, sess *entity.Session) error {
	ttl := time.Until(sess.ExpiresAt)
	if ttl <= 0 {
		return nil
	}
	b, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("session: serializar: %w", err)
	}
	if err := s.rdb.Set(ctx, keyPrefix+sess.ID, b, ttl+expiredGrace).Err(); err != nil {
		return fmt.Errorf("session: guardar en redis: %w", err)
	}
	return nil
}

// Get devuelve (nil, nil) si la clave no existe. Dentro de expiredGrace la sesión vencida
// se devuelve tal cual.
func (s *RedisStore) Get(ctx context.Context, id string) (*entity.Session, error) {
	b, err := s.rdb.Get(ctx, keyPrefix+id).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("session: leer de redis: %w", err)
	}
	var sess entity.Session
	if err := json.Unmarshal(b, &sess); err != nil {
		return nil, fmt.Errorf("session: deserializar: %w", err)
	}
	return &sess, nil
}

// Delete elimina la sesión.
func (s *RedisStore) Delete(ctx context.Context, id string) error {
	if err := s.rdb.Del(ctx, keyPrefix+id).Err(); err != nil {
		return fmt.Errorf("session: borrar de redis: %w", err)
	}
	return nil
}
