package repository

import (
	"context"

	"github.com/jhoicas/facturation-api/internal/domain/entity"
)

// PaymentRepository registra los intentos de pago (procedimiento store_transaction).
type PaymentRepository interface {
	Store(ctx context.Context, tx *entity.PaymentTransaction) error
	GetByOrderID(ctx context.Context, orderID string) (*entity.PaymentTransaction, error)
	// MarkCompleted pasa el pedido a completed si aún no lo estaba; false si ya lo estaba.
	MarkCompleted(ctx context.Context, orderID string) (bool, error)
	// MarkFailed pasa el pedido a failed salvo que esté completed; false en ese caso.
	MarkFailed(ctx context.Context, orderID string) (bool, error)
	// Reopen devuelve un pedido completed a pending (activación fallida).
	Reopen(ctx context.Context, orderID string) error
}
