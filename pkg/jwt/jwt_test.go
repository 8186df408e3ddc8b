package jwt_test

import (
	"testing"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgjwt "github.com/jhoicas/facturation-api/pkg/jwt"
)

const (
	testSecret = "test-secret-key-for-unit-tests"
	testUserID = "00000000-0000-0000-0000-000000000001"
	testEmail  = "gerant@example.com"
	testIssuer = "facturation-test"
)

func session(role string) pkgjwt.Session {
	return pkgjwt.Session{UserID: testUserID, Email: testEmail, Role: role}
}

func TestJWT_GenerateAndParse(t *testing.T) {
	tok, err := pkgjwt.Generate(testSecret, session("admin"), testIssuer, time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, tok)

	s, err := pkgjwt.Parse(testSecret, tok)
	require.NoError(t, err)
	assert.Equal(t, testUserID, s.UserID)
	assert.Equal(t, testEmail, s.Email)
	assert.Equal(t, "admin", s.Role)
}

func TestJWT_ClaimsDeSesion(t *testing.T) {
	a, err := pkgjwt.Generate(testSecret, session("user"), testIssuer, time.Hour)
	require.NoError(t, err)
	b, err := pkgjwt.Generate(testSecret, session("user"), testIssuer, time.Hour)
	require.NoError(t, err)

	var ca, cb pkgjwt.Claims
	_, _, err = gojwt.NewParser().ParseUnverified(a, &ca)
	require.NoError(t, err)
	_, _, err = gojwt.NewParser().ParseUnverified(b, &cb)
	require.NoError(t, err)

	assert.Equal(t, pkgjwt.TypeSession, ca.Type)
	assert.Equal(t, testUserID, ca.Subject)
	assert.Equal(t, testIssuer, ca.Issuer)
	assert.NotEmpty(t, ca.ID)
	assert.NotEqual(t, ca.ID, cb.ID, "cada token lleva su propio jti")
}

func TestJWT_OtroTipoDeToken_RetornaError(t *testing.T) {
	claims := pkgjwt.Claims{
		RegisteredClaims: gojwt.RegisteredClaims{
			Subject:   testUserID,
			ExpiresAt: gojwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
		Email: testEmail,
		Role:  "admin",
		Type:  "password_reset",
	}
	tok, err := gojwt.NewWithClaims(gojwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)

	_, err = pkgjwt.Parse(testSecret, tok)
	assert.ErrorIs(t, err, pkgjwt.ErrTokenType)
}

func TestJWT_SinExpiracion_RetornaError(t *testing.T) {
	claims := pkgjwt.Claims{
		RegisteredClaims: gojwt.RegisteredClaims{Subject: testUserID},
		Type:             pkgjwt.TypeSession,
	}
	tok, err := gojwt.NewWithClaims(gojwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)

	_, err = pkgjwt.Parse(testSecret, tok)
	assert.Error(t, err)
}

func TestJWT_AlgoritmoDistinto_RetornaError(t *testing.T) {
	claims := pkgjwt.Claims{
		RegisteredClaims: gojwt.RegisteredClaims{
			Subject:   testUserID,
			ExpiresAt: gojwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
		Type: pkgjwt.TypeSession,
	}
	tok, err := gojwt.NewWithClaims(gojwt.SigningMethodHS512, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)

	_, err = pkgjwt.Parse(testSecret, tok)
	assert.Error(t, err, "solo se acepta HS256")
}

func TestJWT_TokenExpirado_RetornaError(t *testing.T) {
	tok, err := pkgjwt.Generate(testSecret, session("user"), testIssuer, -time.Minute)
	require.NoError(t, err)

	_, err = pkgjwt.Parse(testSecret, tok)
	assert.Error(t, err, "token expirado debe retornar error")
}

func TestJWT_SecretIncorrecto_RetornaError(t *testing.T) {
	tok, err := pkgjwt.Generate(testSecret, session("user"), testIssuer, time.Hour)
	require.NoError(t, err)

	_, err = pkgjwt.Parse("otro-secret-completamente-distinto", tok)
	assert.Error(t, err)
}

func TestJWT_SecretVacio(t *testing.T) {
	_, err := pkgjwt.Generate("", session("user"), testIssuer, time.Hour)
	assert.ErrorIs(t, err, pkgjwt.ErrEmptySecret)

	_, err = pkgjwt.Parse("", "x.y.z")
	assert.ErrorIs(t, err, pkgjwt.ErrEmptySecret)
}
