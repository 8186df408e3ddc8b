// Package payment inicia y confirma pagos de suscripción contra la pasarela.
package payment

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/facturation-api/internal/application/access"
	"github.com/jhoicas/facturation-api/internal/application/dto"
	"github.com/jhoicas/facturation-api/internal/domain"
	"github.com/jhoicas/facturation-api/internal/domain/entity"
	"github.com/jhoicas/facturation-api/internal/domain/event"
	"github.com/jhoicas/facturation-api/internal/domain/repository"
	"github.com/jhoicas/facturation-api/pkg/logger"
)

// Config URLs públicas usadas al construir las redirecciones y precio de cada plan.
// Un plan sin precio positivo no se vende por la pasarela (el trial se activa con StartTrial).
type Config struct {
	FrontendURL string // sin barra final
	Prices      map[string]decimal.Decimal
}

// UseCase orquesta pasarela, registro de transacciones y activación de suscripción.
type UseCase struct {
	gateway       Gateway
	repo          repository.PaymentRepository
	subscriptions SubscriptionActivator
	publisher     event.Publisher
	cfg           Config
	log           *logger.Logger
	now           func() time.Time
}

// NewUseCase construye el caso de uso. publisher y log pueden ser nil.
func NewUseCase(
	gateway Gateway,
	repo repository.PaymentRepository,
	subscriptions SubscriptionActivator,
	publisher event.Publisher,
	cfg Config,
	log *logger.Logger,
) *UseCase {
	if publisher == nil {
		publisher = event.Nop{}
	}
	if log == nil {
		log = logger.Nop()
	}
	cfg.FrontendURL = strings.TrimRight(cfg.FrontendURL, "/")
	return &UseCase{
		gateway:       gateway,
		repo:          repo,
		subscriptions: subscriptions,
		publisher:     publisher,
		cfg:           cfg,
		log:           log,
		now:           time.Now,
	}
}

// Init valida, llama a la pasarela y registra el intento.
//
// Errores:
//   - domain.ErrInvalidInput si falta amount u orderId (la pasarela no se llama).
//   - *GatewayError si la pasarela falla.
//
// El registro de la transacción y la publicación del evento son best-effort.
func (uc *UseCase) Init(ctx context.Context, userID string, in dto.InitPaymentRequest) (*dto.InitPaymentResponse, error) {
	orderID := strings.TrimSpace(in.OrderID)
	if !in.Amount.IsPositive() || orderID == "" {
		return nil, fmt.Errorf("%w: amount et orderId sont requis", domain.ErrInvalidInput)
	}
	plan := in.Plan
	if plan == "" {
		plan = entity.PlanAnnual
	}
	if !entity.IsValidPlan(plan) {
		return nil, fmt.Errorf("%w: plan %q inconnu", domain.ErrInvalidInput, plan)
	}
	price, ok := uc.cfg.Prices[plan]
	if !ok || !price.IsPositive() {
		return nil, fmt.Errorf("%w: le plan %q ne peut pas être payé en ligne", domain.ErrInvalidInput, plan)
	}
	if in.Amount.LessThan(price) {
		return nil, fmt.Errorf("%w: montant %s inférieur au prix du plan %s (%s)",
			domain.ErrInvalidInput, in.Amount.String(), plan, price.String())
	}

	res, err := uc.gateway.InitPayment(ctx, InitRequest{
		Amount:      in.Amount,
		OrderID:     orderID,
		FirstName:   in.FirstName,
		LastName:    in.LastName,
		Email:       in.Email,
		Description: "Abonnement " + plan,
		SuccessURL:  uc.SuccessURL(orderID, plan),
		FailURL:     uc.FailURL(orderID),
	})
	if err != nil {
		return nil, asGatewayError(err)
	}

	tx := &entity.PaymentTransaction{
		OrderID:    orderID,
		PaymentRef: res.PaymentRef,
		UserID:     userID,
		Amount:     in.Amount,
		Plan:       plan,
		Status:     entity.PaymentPending,
	}
	if err := uc.repo.Store(ctx, tx); err != nil {
		uc.log.Warn().Err(err).Str("order_id", orderID).Msg("no se pudo registrar la transacción")
	}
	if err := uc.publisher.Publish(ctx, event.PaymentInitiated{
		OrderID: orderID, PaymentRef: res.PaymentRef, UserID: userID, Amount: in.Amount, Plan: plan, At: uc.now(),
	}); err != nil {
		uc.log.Warn().Err(err).Str("order_id", orderID).Msg("no se pudo publicar payment.initiated")
	}

	return &dto.InitPaymentResponse{PayURL: res.PayURL, PaymentRef: res.PaymentRef}, nil
}

// Confirm verifica el pago con la pasarela y activa la suscripción.
//
// La activación ocurre una sola vez por pedido: MarkCompleted es condicional y solo
// la petición que cambia la fila activa el plan; las demás devuelven la suscripción actual.
// Si el importe cobrado es menor que el registrado en Init responde ErrConflict.
func (uc *UseCase) Confirm(ctx context.Context, userID, orderID string) (*dto.PaymentConfirmResponse, error) {
	tx, err := uc.ownedTransaction(ctx, userID, orderID)
	if err != nil {
		return nil, err
	}
	if tx.Status == entity.PaymentCompleted {
		return uc.confirmed(ctx, userID, orderID)
	}

	gp, err := uc.gateway.GetPayment(ctx, tx.PaymentRef)
	if err != nil {
		return nil, asGatewayError(err)
	}
	if !gp.Completed() {
		return nil, fmt.Errorf("%w: paiement %s non complété (%s)", domain.ErrConflict, orderID, gp.Status)
	}
	if gp.Amount.LessThan(tx.Amount) {
		uc.log.Warn().Str("order_id", orderID).Str("paid", gp.Amount.String()).Str("expected", tx.Amount.String()).
			Msg("importe cobrado inferior al esperado")
		return nil, fmt.Errorf("%w: montant payé %s inférieur à %s", domain.ErrConflict, gp.Amount.String(), tx.Amount.String())
	}

	updated, err := uc.repo.MarkCompleted(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !updated {
		// otra confirmación concurrente ya activó el plan
		return uc.confirmed(ctx, userID, orderID)
	}
	sub, err := uc.subscriptions.Activate(ctx, userID, tx.Plan, orderID)
	if err != nil {
		// devuelve el pedido a pending para que un reintento pueda activar
		if rerr := uc.repo.Reopen(ctx, orderID); rerr != nil {
			uc.log.Error().Err(rerr).Str("order_id", orderID).Msg("no se pudo reabrir el pedido tras fallar la activación")
		}
		return nil, err
	}
	if err := uc.publisher.Publish(ctx, event.PaymentCompleted{
		OrderID: orderID, PaymentRef: tx.PaymentRef, UserID: userID, At: uc.now(),
	}); err != nil {
		uc.log.Warn().Err(err).Str("order_id", orderID).Msg("no se pudo publicar payment.completed")
	}
	return uc.confirmResponse(orderID, sub), nil
}

func (uc *UseCase) confirmed(ctx context.Context, userID, orderID string) (*dto.PaymentConfirmResponse, error) {
	sub, err := uc.subscriptions.Current(ctx, userID)
	if err != nil {
		return nil, err
	}
	return uc.confirmResponse(orderID, sub), nil
}

func (uc *UseCase) confirmResponse(orderID string, sub *entity.Subscription) *dto.PaymentConfirmResponse {
	return &dto.PaymentConfirmResponse{
		OrderID:      orderID,
		Status:       entity.PaymentCompleted,
		Subscription: access.ToSubscriptionResponse(sub, uc.now()),
	}
}

// Fail marca el pago como fallido (página /paiement-echoue). Un pedido completado no cambia.
func (uc *UseCase) Fail(ctx context.Context, userID, orderID string) error {
	if _, err := uc.ownedTransaction(ctx, userID, orderID); err != nil {
		return err
	}
	updated, err := uc.repo.MarkFailed(ctx, orderID)
	if err != nil {
		return err
	}
	if !updated {
		return fmt.Errorf("%w: paiement déjà complété", domain.ErrConflict)
	}
	return nil
}

// SuccessURL <frontend>/paiement-reussi?orderId=..&plan=..
func (uc *UseCase) SuccessURL(orderID, plan string) string {
	q := url.Values{}
	q.Set("orderId", orderID)
	q.Set("plan", plan)
	return uc.cfg.FrontendURL + "/paiement-reussi?" + q.Encode()
}

// FailURL <frontend>/paiement-echoue?orderId=..
func (uc *UseCase) FailURL(orderID string) string {
	q := url.Values{}
	q.Set("orderId", orderID)
	return uc.cfg.FrontendURL + "/paiement-echoue?" + q.Encode()
}

func (uc *UseCase) ownedTransaction(ctx context.Context, userID, orderID string) (*entity.PaymentTransaction, error) {
	if strings.TrimSpace(orderID) == "" {
		return nil, fmt.Errorf("%w: orderId requis", domain.ErrInvalidInput)
	}
	tx, err := uc.repo.GetByOrderID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if tx == nil {
		return nil, domain.ErrNotFound
	}
	if tx.UserID != userID {
		return nil, domain.ErrForbidden
	}
	return tx, nil
}

func asGatewayError(err error) error {
	var gwErr *GatewayError
	if errors.As(err, &gwErr) {
		return gwErr
	}
	return &GatewayError{Message: err.Error()}
}
