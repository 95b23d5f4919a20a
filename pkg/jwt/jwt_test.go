package jwt_test

import (
	"testing"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgjwt "github.com/jhoicas/inventario-ventas/pkg/jwt"
)

const (
	testSecret = "secreto-del-backend"
	testUserID = "42"
	testEmail  = "vendedor@tienda.co"
)

func TestParseUnverified_ExtraeUsuarioYExpiracion(t *testing.T) {
	tok, err := pkgjwt.Generate(testSecret, testUserID, testEmail, "backend", 60)
	require.NoError(t, err)

	info, err := pkgjwt.ParseUnverified(tok)
	require.NoError(t, err)

	assert.Equal(t, testUserID, info.UserID)
	assert.Equal(t, testEmail, info.Email)
	assert.WithinDuration(t, time.Now().Add(time.Hour), info.ExpiresAt, 5*time.Second)
}

// El BFF no conoce el secreto: un token firmado con cualquier clave se lee igual.
func TestParseUnverified_NoValidaFirma(t *testing.T) {
	tok, err := pkgjwt.Generate("otra-clave", testUserID, testEmail, "backend", 60)
	require.NoError(t, err)

	info, err := pkgjwt.ParseUnverified(tok)
	require.NoError(t, err)
	assert.Equal(t, testUserID, info.UserID)
}

// Tokens sin user_id usan el subject.
func TestParseUnverified_UsaSubjectSiFaltaUserID(t *testing.T) {
	claims := gojwt.RegisteredClaims{Subject: "7"}
	tok, err := gojwt.NewWithClaims(gojwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)

	info, err := pkgjwt.ParseUnverified(tok)
	require.NoError(t, err)
	assert.Equal(t, "7", info.UserID)
	assert.True(t, info.ExpiresAt.IsZero())
}

func TestParseUnverified_TokenMalFormado(t *testing.T) {
	_, err := pkgjwt.ParseUnverified("token.invalido")
	assert.Error(t, err)

	_, err = pkgjwt.ParseUnverified("")
	assert.Error(t, err)
}

func TestGenerate_SecretVacio(t *testing.T) {
	_, err := pkgjwt.Generate("", testUserID, testEmail, "backend", 60)
	assert.Error(t, err)
}
