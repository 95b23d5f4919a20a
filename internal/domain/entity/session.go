package entity

import "time"

// Session sesión de login del BFF. Token es el token del backend, que se reenvía tal cual.
type Session struct {
	ID        string    `json:"id"`
	UserID    UserID    `json:"user_id"`
	Email     string    `json:"email"`
	Token     string    `json:"token"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Expired indica si la sesión venció respecto a now.
func (s *Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && !now.Before(s.ExpiresAt)
}

// Credentials identidad con la que se llama al backend. Se pasa explícitamente a cada
// gateway; ningún componente la lee de un estado global.
type Credentials struct {
	UserID UserID
	Token  string
}

// Credentials identidad de la sesión para las llamadas al backend.
func (s *Session) Credentials() Credentials {
	return Credentials{UserID: s.UserID, Token: s.Token}
}
