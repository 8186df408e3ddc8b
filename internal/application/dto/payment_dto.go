package dto

import "github.com/shopspring/decimal"

// InitPaymentRequest body de POST /api/payments/init. Nombres camelCase como los envía el front.
type InitPaymentRequest struct {
	Amount    decimal.Decimal `json:"amount"`
	OrderID   string          `json:"orderId"`
	FirstName string          `json:"firstName,omitempty"`
	LastName  string          `json:"lastName,omitempty"`
	Email     string          `json:"email,omitempty"`
	Plan      string          `json:"plan,omitempty"`
}

// InitPaymentResponse URL de pago y referencia devueltas por la pasarela.
type InitPaymentResponse struct {
	PayURL     string `json:"payUrl"`
	PaymentRef string `json:"paymentRef"`
}

// PaymentOrderRequest body de /api/payments/confirm y /api/payments/fail.
type PaymentOrderRequest struct {
	OrderID string `json:"orderId"`
}

// PaymentConfirmResponse resultado de la confirmación.
type PaymentConfirmResponse struct {
	OrderID      string               `json:"orderId"`
	Status       string               `json:"status"`
	Subscription SubscriptionResponse `json:"subscription"`
}
