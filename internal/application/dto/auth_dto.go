package dto

import "time"

// RegisterRequest entrada para POST /api/auth/register.
type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	FullName string `json:"full_name" validate:"omitempty,max=200"`
}

// LoginRequest entrada para POST /api/auth/login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// ProfileResponse perfil sin hash de contraseña.
type ProfileResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	FullName  string    `json:"full_name"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

// LoginResponse token JWT + sesión inicial.
type LoginResponse struct {
	Token   string          `json:"token"`
	Session SessionResponse `json:"session"`
}

// SubscriptionResponse estado de suscripción visto por el cliente.
// Status es "none" si el usuario nunca tuvo suscripción.
type SubscriptionResponse struct {
	Plan      string     `json:"plan,omitempty"`
	Status    string     `json:"status"`
	Active    bool       `json:"active"`
	StartedAt *time.Time `json:"started_at,omitempty"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}

// SessionResponse snapshot de sesión de GET /api/auth/me.
type SessionResponse struct {
	State        string               `json:"state"` // authenticated | unauthenticated
	Profile      *ProfileResponse     `json:"profile,omitempty"`
	Permissions  []string             `json:"permissions"`
	Subscription SubscriptionResponse `json:"subscription"`
}

// RouteDecisionResponse respuesta de GET /api/access/route.
type RouteDecisionResponse struct {
	Path     string `json:"path"`
	Allowed  bool   `json:"allowed"`
	Redirect string `json:"redirect,omitempty"`
	Reason   string `json:"reason,omitempty"`
}
