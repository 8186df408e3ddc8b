// Package cache implementa access.Cache sobre Redis. Si Redis no responde al
// arrancar el servicio funciona sin caché; un error en caliente cuenta como miss.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jhoicas/facturation-api/internal/application/access"
	"github.com/jhoicas/facturation-api/internal/domain/entity"
	"github.com/jhoicas/facturation-api/pkg/config"
	"github.com/jhoicas/facturation-api/pkg/logger"
)

var _ access.Cache = (*RedisAccessCache)(nil)

const keyPrefix = "facturation:access"

// NewRedisClient crea el cliente y hace ping con timeout corto. Devuelve error si no responde.
func NewRedisClient(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping %s: %w", cfg.Addr, err)
	}
	return client, nil
}

// RedisAccessCache guarda permisos y suscripción por usuario como JSON.
type RedisAccessCache struct {
	client *redis.Client
	ttl    time.Duration
	log    *logger.Logger
	now    func() time.Time
}

// NewRedisAccessCache construye la caché. ttl <= 0 usa 5 minutos.
func NewRedisAccessCache(client *redis.Client, ttl time.Duration, log *logger.Logger) *RedisAccessCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	if log == nil {
		log = logger.Nop()
	}
	return &RedisAccessCache{client: client, ttl: ttl, log: log.WithComponent("access-cache"), now: time.Now}
}

// cachedSubscription forma serializada; Present=false significa "sin suscripción".
type cachedSubscription struct {
	Present   bool      `json:"present"`
	ID        string    `json:"id,omitempty"`
	Plan      string    `json:"plan,omitempty"`
	Status    string    `json:"status,omitempty"`
	OrderID   string    `json:"order_id,omitempty"`
	StartedAt time.Time `json:"started_at,omitempty"`
	ExpiresAt time.Time `json:"expires_at,omitempty"`
	UpdatedAt time.Time `json:"updated_at,omitempty"`
}

func permissionsKey(userID string) string  { return keyPrefix + ":perm:" + userID }
func subscriptionKey(userID string) string { return keyPrefix + ":sub:" + userID }

func (c *RedisAccessCache) Permissions(ctx context.Context, userID string) ([]string, bool) {
	var ids []string
	if !c.get(ctx, permissionsKey(userID), &ids) {
		return nil, false
	}
	return ids, true
}

func (c *RedisAccessCache) StorePermissions(ctx context.Context, userID string, permissions []string) {
	if permissions == nil {
		permissions = []string{}
	}
	c.set(ctx, permissionsKey(userID), permissions, c.ttl)
}

func (c *RedisAccessCache) Subscription(ctx context.Context, userID string) (*entity.Subscription, bool) {
	var cs cachedSubscription
	if !c.get(ctx, subscriptionKey(userID), &cs) {
		return nil, false
	}
	if !cs.Present {
		return nil, true
	}
	return &entity.Subscription{
		ID:        cs.ID,
		UserID:    userID,
		Plan:      cs.Plan,
		Status:    cs.Status,
		OrderID:   cs.OrderID,
		StartedAt: cs.StartedAt,
		ExpiresAt: cs.ExpiresAt,
		UpdatedAt: cs.UpdatedAt,
	}, true
}

// StoreSubscription nunca deja una suscripción activa en caché más allá de su vencimiento.
func (c *RedisAccessCache) StoreSubscription(ctx context.Context, userID string, sub *entity.Subscription) {
	cs := cachedSubscription{}
	if sub != nil {
		cs = cachedSubscription{
			Present:   true,
			ID:        sub.ID,
			Plan:      sub.Plan,
			Status:    sub.Status,
			OrderID:   sub.OrderID,
			StartedAt: sub.StartedAt,
			ExpiresAt: sub.ExpiresAt,
			UpdatedAt: sub.UpdatedAt,
		}
	}
	ttl := SubscriptionTTL(sub, c.ttl, c.now())
	if ttl <= 0 {
		return
	}
	c.set(ctx, subscriptionKey(userID), cs, ttl)
}

func (c *RedisAccessCache) Invalidate(ctx context.Context, userID string) {
	if err := c.client.Del(ctx, permissionsKey(userID), subscriptionKey(userID)).Err(); err != nil {
		c.log.Warn().Err(err).Str("user_id", userID).Msg("no se pudo invalidar la caché")
	}
}

// SubscriptionTTL min(ttl, tiempo hasta el vencimiento) para suscripciones activas.
func SubscriptionTTL(sub *entity.Subscription, ttl time.Duration, now time.Time) time.Duration {
	if sub.IsActiveAt(now) {
		if left := sub.ExpiresAt.Sub(now); left < ttl {
			return left
		}
	}
	return ttl
}

func (c *RedisAccessCache) get(ctx context.Context, key string, out any) bool {
	raw, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.log.Warn().Err(err).Str("key", key).Msg("lectura de caché fallida")
		}
		return false
	}
	if err := json.Unmarshal(raw, out); err != nil {
		c.log.Warn().Err(err).Str("key", key).Msg("entrada de caché corrupta")
		return false
	}
	return true
}

func (c *RedisAccessCache) set(ctx context.Context, key string, v any, ttl time.Duration) {
	raw, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, key, raw, ttl).Err(); err != nil {
		c.log.Warn().Err(err).Str("key", key).Msg("escritura de caché fallida")
	}
}
