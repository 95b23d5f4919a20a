package sales

import (
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/jhoicas/inventario-ventas/internal/domain/entity"
)

// Registry una terminal por sesión de login. Vive en memoria: al reiniciar el servicio las
// ventas en curso se pierden, igual que al cerrar la pestaña del navegador.
type Registry struct {
	gw  Gateways
	obs Observer
	log zerolog.Logger

	mu        sync.Mutex
	terminals map[string]*Terminal
}

// NewRegistry construye el registro de terminales.
func NewRegistry(gw Gateways, obs Observer, log zerolog.Logger) *Registry {
	if obs == nil {
		obs = nopObserver{}
	}
	return &Registry{gw: gw, obs: obs, log: log, terminals: make(map[string]*Terminal)}
}

// Get devuelve la terminal de la sesión, creándola si no existe.
func (r *Registry) Get(s *entity.Session) *Terminal {
	r.mu.Lock()
	defer r.mu.Unlock()
	if t, ok := r.terminals[s.ID]; ok {
		return t
	}
	t := NewTerminal(s, r.gw, r.obs, r.log)
	r.terminals[s.ID] = t
	return t
}

// Discard elimina la terminal de la sesión (logout).
func (r *Registry) Discard(sessionID string) {
	r.mu.Lock()
	t, ok := r.terminals[sessionID]
	delete(r.terminals, sessionID)
	r.mu.Unlock()
	if ok {
		t.Close()
	}
}

// SweepExpired cierra las terminales cuya sesión venció y devuelve cuántas eran. Cubre las
// sesiones que vencen sin que el usuario vuelva a llamar al BFF.
func (r *Registry) SweepExpired(now time.Time) int {
	r.mu.Lock()
	var expired []*Terminal
	for id, t := range r.terminals {
		if t.Expired(now) {
			expired = append(expired, t)
			delete(r.terminals, id)
		}
	}
	r.mu.Unlock()
	for _, t := range expired {
		t.Close()
	}
	return len(expired)
}

// Len cantidad de terminales abiertas.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.terminals)
}
