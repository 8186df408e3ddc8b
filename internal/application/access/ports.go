package access

import (
	"context"

	"github.com/jhoicas/facturation-api/internal/domain/entity"
)

// Cache caché de permisos y suscripción por usuario.
// Las implementaciones registran sus propios errores; un fallo equivale a un miss.
type Cache interface {
	Permissions(ctx context.Context, userID string) ([]string, bool)
	StorePermissions(ctx context.Context, userID string, permissions []string)
	// Subscription devuelve (nil, true) si está cacheado que el usuario no tiene suscripción.
	Subscription(ctx context.Context, userID string) (*entity.Subscription, bool)
	StoreSubscription(ctx context.Context, userID string, sub *entity.Subscription)
	Invalidate(ctx context.Context, userID string)
}

type noCache struct{}

func (noCache) Permissions(context.Context, string) ([]string, bool)              { return nil, false }
func (noCache) StorePermissions(context.Context, string, []string)                {}
func (noCache) Subscription(context.Context, string) (*entity.Subscription, bool) { return nil, false }
func (noCache) StoreSubscription(context.Context, string, *entity.Subscription)   {}
func (noCache) Invalidate(context.Context, string)                                {}
