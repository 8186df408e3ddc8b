package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/facturation-api/internal/domain/entity"
	"github.com/jhoicas/facturation-api/internal/domain/repository"
)

var _ repository.SubscriptionRepository = (*SubscriptionRepo)(nil)

const subscriptionColumns = `id, user_id, plan, status, order_id, started_at, expires_at, updated_at`

// SubscriptionRepo invoca los procedimientos de suscripción definidos en las migraciones.
type SubscriptionRepo struct {
	q Querier
}

// NewSubscriptionRepository construye el adaptador.
func NewSubscriptionRepository(q Querier) *SubscriptionRepo {
	return &SubscriptionRepo{q: q}
}

// Get devuelve la suscripción del usuario o nil si nunca tuvo una.
func (r *SubscriptionRepo) Get(ctx context.Context, userID string) (*entity.Subscription, error) {
	row := r.q.QueryRow(ctx, `SELECT `+subscriptionColumns+` FROM get_user_subscription($1)`, userID)
	s, err := scanSubscription(row)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get_user_subscription: %w", err)
	}
	return s, nil
}

// Expire marca como expired la suscripción vencida del usuario.
func (r *SubscriptionRepo) Expire(ctx context.Context, userID string) error {
	if _, err := r.q.Exec(ctx, `SELECT expire_subscription($1)`, userID); err != nil {
		return fmt.Errorf("expire_subscription: %w", err)
	}
	return nil
}

// CreateOrUpdate activa o extiende la suscripción por days días.
func (r *SubscriptionRepo) CreateOrUpdate(ctx context.Context, userID, plan, orderID string, days int) (*entity.Subscription, error) {
	row := r.q.QueryRow(ctx, `SELECT `+subscriptionColumns+` FROM create_or_update_subscription($1, $2, $3, $4)`,
		userID, plan, nullIfEmpty(orderID), days)
	s, err := scanSubscription(row)
	if err != nil {
		return nil, fmt.Errorf("create_or_update_subscription: %w", err)
	}
	return s, nil
}

// ExpireDue expira todas las suscripciones vencidas y devuelve cuántas cambió.
func (r *SubscriptionRepo) ExpireDue(ctx context.Context) (int64, error) {
	var n int64
	if err := r.q.QueryRow(ctx, `SELECT expire_due_subscriptions()`).Scan(&n); err != nil {
		return 0, fmt.Errorf("expire_due_subscriptions: %w", err)
	}
	return n, nil
}

func scanSubscription(row pgx.Row) (*entity.Subscription, error) {
	var s entity.Subscription
	var orderID *string
	if err := row.Scan(&s.ID, &s.UserID, &s.Plan, &s.Status, &orderID, &s.StartedAt, &s.ExpiresAt, &s.UpdatedAt); err != nil {
		return nil, err
	}
	s.OrderID = derefStr(orderID)
	return &s, nil
}
