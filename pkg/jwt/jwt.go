package jwt

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/jhoicas/inventario-ventas/pkg/jsonx"
)

// Claims claims que emite el backend de inventario: estándar JWT más user_id y email.
type Claims struct {
	jwt.RegisteredClaims
	UserID jsonx.ID `json:"user_id,omitempty"`
	Email  string   `json:"email,omitempty"`
}

// TokenInfo lo que el BFF necesita del token del backend.
type TokenInfo struct {
	UserID    string
	Email     string
	ExpiresAt time.Time // cero si el token no trae exp
}

// Generate genera un token HS256 con el formato del backend. Lo usan los tests y
// los backends simulados; el BFF nunca firma tokens propios.
func Generate(secret, userID, email, issuer string, expMinutes int) (string, error) {
	if secret == "" {
		return "", fmt.Errorf("jwt: secret vacío")
	}
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(expMinutes) * time.Minute)),
		},
		UserID: jsonx.ID(userID),
		Email:  email,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ParseUnverified lee los claims del token sin validar la firma: el BFF no conoce el
// secreto del backend y solo reenvía el token (pass-through). El backend sigue siendo
// quien valida cada petición.
func ParseUnverified(tokenString string) (TokenInfo, error) {
	if tokenString == "" {
		return TokenInfo{}, fmt.Errorf("jwt: token vacío")
	}
	claims := &Claims{}
	if _, _, err := jwt.NewParser().ParseUnverified(tokenString, claims); err != nil {
		return TokenInfo{}, fmt.Errorf("jwt: token mal formado: %w", err)
	}
	info := TokenInfo{
		UserID: claims.UserID.String(),
		Email:  claims.Email,
	}
	if info.UserID == "" {
		info.UserID = claims.Subject
	}
	if claims.ExpiresAt != nil {
		info.ExpiresAt = claims.ExpiresAt.Time
	}
	return info, nil
}
