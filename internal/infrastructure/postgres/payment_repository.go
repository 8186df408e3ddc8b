package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/facturation-api/internal/domain"
	"github.com/jhoicas/facturation-api/internal/domain/entity"
	"github.com/jhoicas/facturation-api/internal/domain/repository"
)

var _ repository.PaymentRepository = (*PaymentRepo)(nil)

// PaymentRepo registra transacciones de pago vía store_transaction.
type PaymentRepo struct {
	q Querier
}

// NewPaymentRepository construye el adaptador.
func NewPaymentRepository(q Querier) *PaymentRepo {
	return &PaymentRepo{q: q}
}

// Store registra (o re-registra) el intento de pago en estado pending.
func (r *PaymentRepo) Store(ctx context.Context, t *entity.PaymentTransaction) error {
	_, err := r.q.Exec(ctx, `SELECT store_transaction($1, $2, $3, $4, $5)`,
		t.OrderID, t.PaymentRef, t.UserID, t.Amount, t.Plan)
	if err != nil {
		return fmt.Errorf("store_transaction: %w", err)
	}
	return nil
}

// GetByOrderID devuelve la transacción o nil.
func (r *PaymentRepo) GetByOrderID(ctx context.Context, orderID string) (*entity.PaymentTransaction, error) {
	var t entity.PaymentTransaction
	err := r.q.QueryRow(ctx, `
		SELECT order_id, payment_ref, user_id, amount, plan, status, created_at, updated_at
		FROM payment_transactions WHERE order_id = $1`, orderID).Scan(
		&t.OrderID, &t.PaymentRef, &t.UserID, &t.Amount, &t.Plan, &t.Status, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get payment transaction: %w", err)
	}
	return &t, nil
}

// MarkCompleted cambia a completed de forma condicional: de dos confirmaciones simultáneas
// solo una ve la fila actualizada.
func (r *PaymentRepo) MarkCompleted(ctx context.Context, orderID string) (bool, error) {
	return r.transition(ctx, orderID, entity.PaymentCompleted)
}

// MarkFailed no toca pedidos ya completados.
func (r *PaymentRepo) MarkFailed(ctx context.Context, orderID string) (bool, error) {
	return r.transition(ctx, orderID, entity.PaymentFailed)
}

func (r *PaymentRepo) transition(ctx context.Context, orderID, status string) (bool, error) {
	var got string
	err := r.q.QueryRow(ctx, `
		UPDATE payment_transactions SET status = $2, updated_at = now()
		WHERE order_id = $1 AND status <> 'completed'
		RETURNING order_id`, orderID, status).Scan(&got)
	if err != nil {
		if isNoRows(err) {
			return false, nil
		}
		return false, fmt.Errorf("update payment status: %w", err)
	}
	return true, nil
}

// Reopen deshace MarkCompleted cuando la activación de la suscripción falla.
func (r *PaymentRepo) Reopen(ctx context.Context, orderID string) error {
	cmd, err := r.q.Exec(ctx, `
		UPDATE payment_transactions SET status = 'pending', updated_at = now()
		WHERE order_id = $1 AND status = 'completed'`, orderID)
	if err != nil {
		return fmt.Errorf("reopen payment: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
