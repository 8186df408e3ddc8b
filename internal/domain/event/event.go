// Package event define los eventos de dominio publicados al bus de mensajes.
// Los consumidores los reciben como JSON con el nombre en la cabecera "type".
package event

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Event evento publicable.
type Event interface {
	Name() string
}

// Publisher puerto de salida hacia el bus. Los llamadores tratan los errores como no fatales.
type Publisher interface {
	Publish(ctx context.Context, e Event) error
}

// PaymentInitiated se publica cuando la pasarela acepta un inicio de pago.
type PaymentInitiated struct {
	OrderID    string          `json:"order_id"`
	PaymentRef string          `json:"payment_ref"`
	UserID     string          `json:"user_id"`
	Amount     decimal.Decimal `json:"amount"`
	Plan       string          `json:"plan,omitempty"`
	At         time.Time       `json:"at"`
}

func (PaymentInitiated) Name() string { return "payment.initiated" }

// PaymentCompleted se publica al confirmar un pago con la pasarela.
type PaymentCompleted struct {
	OrderID    string    `json:"order_id"`
	PaymentRef string    `json:"payment_ref"`
	UserID     string    `json:"user_id"`
	At         time.Time `json:"at"`
}

func (PaymentCompleted) Name() string { return "payment.completed" }

// SubscriptionActivated se publica al activar o extender una suscripción.
type SubscriptionActivated struct {
	UserID    string    `json:"user_id"`
	Plan      string    `json:"plan"`
	OrderID   string    `json:"order_id,omitempty"`
	ExpiresAt time.Time `json:"expires_at"`
}

func (SubscriptionActivated) Name() string { return "subscription.activated" }

// SubscriptionsExpired se publica tras un barrido que expiró al menos una suscripción.
type SubscriptionsExpired struct {
	Count int64     `json:"count"`
	At    time.Time `json:"at"`
}

func (SubscriptionsExpired) Name() string { return "subscriptions.expired" }

// Nop descarta los eventos (bus no configurado).
type Nop struct{}

func (Nop) Publish(context.Context, Event) error { return nil }
