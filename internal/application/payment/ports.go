package payment

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/facturation-api/internal/domain"
	"github.com/jhoicas/facturation-api/internal/domain/entity"
)

// InitRequest datos enviados a la pasarela para crear un pago.
type InitRequest struct {
	Amount      decimal.Decimal // en dinares; el adaptador convierte a la unidad de la pasarela
	OrderID     string
	FirstName   string
	LastName    string
	Email       string
	Description string
	SuccessURL  string
	FailURL     string
}

// InitResult respuesta de la pasarela.
type InitResult struct {
	PayURL     string
	PaymentRef string
}

// GatewayPayment estado de un pago consultado a la pasarela.
type GatewayPayment struct {
	Ref     string
	OrderID string
	Status  string
	Amount  decimal.Decimal
}

// Completed informa si la pasarela da el pago por cobrado.
func (p *GatewayPayment) Completed() bool { return p != nil && p.Status == "completed" }

// Gateway puerto hacia la pasarela de pago.
type Gateway interface {
	InitPayment(ctx context.Context, in InitRequest) (*InitResult, error)
	GetPayment(ctx context.Context, paymentRef string) (*GatewayPayment, error)
}

// SubscriptionActivator activa la suscripción pagada.
type SubscriptionActivator interface {
	Current(ctx context.Context, userID string) (*entity.Subscription, error)
	Activate(ctx context.Context, userID, plan, orderID string) (*entity.Subscription, error)
}

// GatewayError error devuelto por la pasarela; Message se muestra tal cual al cliente.
type GatewayError struct {
	Status  int
	Message string
}

func (e *GatewayError) Error() string { return e.Message }

// Unwrap permite errors.Is(err, domain.ErrGateway).
func (e *GatewayError) Unwrap() error { return domain.ErrGateway }
