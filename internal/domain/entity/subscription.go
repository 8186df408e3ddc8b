package entity

import "time"

// Planes de suscripción.
const (
	PlanTrial  = "trial"
	PlanAnnual = "annual"
)

// Estados de suscripción.
const (
	SubscriptionActive  = "active"
	SubscriptionExpired = "expired"
	SubscriptionNone    = "none"
)

// IsValidPlan informa si p es un plan conocido.
func IsValidPlan(p string) bool {
	return p == PlanTrial || p == PlanAnnual
}

// Subscription fila de suscripción del usuario.
type Subscription struct {
	ID        string
	UserID    string
	Plan      string
	Status    string
	OrderID   string
	StartedAt time.Time
	ExpiresAt time.Time
	UpdatedAt time.Time
}

// IsActiveAt aplica el invariante: activa si el estado es active y now < expires_at.
func (s *Subscription) IsActiveAt(now time.Time) bool {
	return s != nil && s.Status == SubscriptionActive && now.Before(s.ExpiresAt)
}

// NeedsExpiry informa si la fila sigue marcada active pero ya venció.
func (s *Subscription) NeedsExpiry(now time.Time) bool {
	return s != nil && s.Status == SubscriptionActive && !now.Before(s.ExpiresAt)
}
