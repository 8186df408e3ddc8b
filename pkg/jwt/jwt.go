package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TypeSession marca los tokens emitidos por /auth/login. Es el único tipo que
// acepta el middleware de autenticación.
const TypeSession = "session"

var (
	ErrEmptySecret = errors.New("jwt: secret vacío")
	// ErrTokenType token firmado con el mismo secret pero de otro tipo (o sin tipo).
	ErrTokenType = errors.New("jwt: tipo de token no admitido")
)

// Session es lo que la aplicación lee de un token válido.
type Session struct {
	UserID string
	Email  string
	Role   string // "admin" | "user"
}

// Claims: el usuario viaja en sub; Role permite al middleware RBAC decidir sin consultar la DB.
type Claims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
	Role  string `json:"role,omitempty"`
	Type  string `json:"typ"`
}

// Generate firma un token de sesión HS256 válido durante ttl.
func Generate(secret string, s Session, issuer string, ttl time.Duration) (string, error) {
	if secret == "" {
		return "", ErrEmptySecret
	}
	if s.UserID == "" {
		return "", fmt.Errorf("jwt: userID requerido")
	}
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    issuer,
			Subject:   s.UserID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Email: s.Email,
		Role:  s.Role,
		Type:  TypeSession,
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

// Parse valida firma, expiración y tipo, y devuelve la sesión.
func Parse(secret, tokenString string) (*Session, error) {
	if secret == "" {
		return nil, ErrEmptySecret
	}
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(*jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
	)
	if err != nil {
		return nil, err
	}
	if !token.Valid || claims.Subject == "" {
		return nil, fmt.Errorf("jwt: claims inválidos")
	}
	if claims.Type != TypeSession {
		return nil, fmt.Errorf("%w: %q", ErrTokenType, claims.Type)
	}
	return &Session{UserID: claims.Subject, Email: claims.Email, Role: claims.Role}, nil
}
