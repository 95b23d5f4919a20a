// Package session almacenes de sesiones de login: en memoria (un solo proceso), Redis o
// PostgreSQL.
package session

import (
	"context"
	"sync"
	"time"

	"github.com/jhoicas/inventario-ventas/internal/domain/entity"
	"github.com/jhoicas/inventario-ventas/internal/domain/repository"
)

var _ repository.SessionRepository = (*MemoryStore)(nil)

// MemoryStore sesiones en un mapa protegido por mutex. Las vencidas quedan hasta que se
// borran o se llama a PurgeExpired.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]entity.Session
	now      func() time.Time
}

// NewMemoryStore construye el almacén vacío.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string]entity.Session), now: time.Now}
}

// Save guarda una copia de la sesión.
func (m *MemoryStore) Save(_ context.Context, s *entity.Session) error {
	m.mu.Lock()
	m.sessions[s.ID] = *s
	m.mu.Unlock()
	return nil
}

// Get devuelve (nil, nil) si no existe. Las vencidas se devuelven.
func (m *MemoryStore) Get(_ context.Context, id string) (*entity.Session, error) {
	m.mu.RLock()
	s, ok := m.sessions[id]
	m.mu.RUnlock()
	if !ok {
		return nil, nil
	}
	return &s, nil
}

// Delete elimina la sesión; no falla si no existe.
func (m *MemoryStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	delete(m.sessions, id)
	m.mu.Unlock()
	return nil
}

// PurgeExpired borra las sesiones vencidas y devuelve cuántas eran.
func (m *MemoryStore) PurgeExpired(_ context.Context) (int64, error) {
	now := m.now()
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for id, s := range m.sessions {
		if s.Expired(now) {
			delete(m.sessions, id)
			n++
		}
	}
	return n, nil
}
