package repository

import (
	"context"

	"github.com/jhoicas/facturation-api/internal/domain/entity"
)

// ProfileRepository define el puerto de persistencia para los perfiles de usuario.
type ProfileRepository interface {
	Create(ctx context.Context, profile *entity.Profile) error
	GetByID(ctx context.Context, id string) (*entity.Profile, error)
	GetByEmail(ctx context.Context, email string) (*entity.Profile, error)
}

// PermissionRepository lee y concede identificadores de permiso (tabla user_permissions).
type PermissionRepository interface {
	ListByUser(ctx context.Context, userID string) ([]string, error)
	Grant(ctx context.Context, userID string, permissionIDs ...string) error
}

// SubscriptionRepository envuelve los procedimientos remotos de suscripción.
type SubscriptionRepository interface {
	// Get llama a get_user_subscription; devuelve nil si el usuario nunca tuvo suscripción.
	Get(ctx context.Context, userID string) (*entity.Subscription, error)
	// Expire llama a expire_subscription (active → expired si expires_at ya pasó).
	Expire(ctx context.Context, userID string) error
	// CreateOrUpdate llama a create_or_update_subscription y devuelve la fila resultante.
	CreateOrUpdate(ctx context.Context, userID, plan, orderID string, days int) (*entity.Subscription, error)
	// ExpireDue llama a expire_due_subscriptions (barrido programado) y devuelve las filas afectadas.
	ExpireDue(ctx context.Context) (int64, error)
}
