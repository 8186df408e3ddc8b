package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una transacción de pago.
const (
	PaymentPending   = "pending"
	PaymentCompleted = "completed"
	PaymentFailed    = "failed"
)

// PaymentTransaction intento de pago registrado al iniciar el checkout.
type PaymentTransaction struct {
	OrderID    string
	PaymentRef string
	UserID     string
	Amount     decimal.Decimal
	Plan       string
	Status     string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
