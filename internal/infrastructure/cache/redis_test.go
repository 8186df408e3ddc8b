package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/facturation-api/internal/domain/entity"
	"github.com/jhoicas/facturation-api/internal/infrastructure/cache"
	"github.com/jhoicas/facturation-api/pkg/config"
)

func TestSubscriptionTTL(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	ttl := 5 * time.Minute

	active := &entity.Subscription{Status: entity.SubscriptionActive, ExpiresAt: now.Add(time.Hour)}
	assert.Equal(t, ttl, cache.SubscriptionTTL(active, ttl, now))

	closeToExpiry := &entity.Subscription{Status: entity.SubscriptionActive, ExpiresAt: now.Add(90 * time.Second)}
	assert.Equal(t, 90*time.Second, cache.SubscriptionTTL(closeToExpiry, ttl, now))

	expired := &entity.Subscription{Status: entity.SubscriptionExpired, ExpiresAt: now.Add(-time.Hour)}
	assert.Equal(t, ttl, cache.SubscriptionTTL(expired, ttl, now))

	assert.Equal(t, ttl, cache.SubscriptionTTL(nil, ttl, now))
}

func TestRedisAccessCache_SinServidorEsMiss(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", DialTimeout: 200 * time.Millisecond, MaxRetries: -1})
	defer client.Close()
	c := cache.NewRedisAccessCache(client, time.Minute, nil)
	ctx := context.Background()

	c.StorePermissions(ctx, "u1", []string{"factures"})
	_, ok := c.Permissions(ctx, "u1")
	assert.False(t, ok)

	_, ok = c.Subscription(ctx, "u1")
	assert.False(t, ok)
	c.Invalidate(ctx, "u1")
}

func TestNewRedisClient_ErrorSiNoResponde(t *testing.T) {
	_, err := cache.NewRedisClient(context.Background(), config.RedisConfig{Addr: "127.0.0.1:1"})
	assert.Error(t, err)
}
