package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/andrusov/storefront-service/internal/domain/store"
	"github.com/andrusov/storefront-service/internal/infrastructure/monitoring"
	"github.com/andrusov/storefront-service/internal/pkg/logger"
)

// Cache keeps the hot read paths off Postgres: serialized cart snapshots,
// terminal payment statuses, and the best-effort verification locks.
type Cache struct {
	client *redis.Client
	logger *logger.Logger
}

func NewCache(conn *Connection, log *logger.Logger) *Cache {
	client := monitoring.InstrumentRedisClient(conn.GetClient())

	return &Cache{
		client: client,
		logger: log,
	}
}

func (c *Cache) GetCartSnapshot(ctx context.Context, cartID string) (*store.CartSnapshot, error) {
	key := fmt.Sprintf("cart:%s:snapshot", cartID)
	result, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}

	var snapshot store.CartSnapshot
	if err := json.Unmarshal(result, &snapshot); err != nil {
		return nil, err
	}

	return &snapshot, nil
}

func (c *Cache) SetCartSnapshot(ctx context.Context, cartID string, snapshot *store.CartSnapshot, expiration time.Duration) error {
	data, err := json.Marshal(snapshot)
	if err != nil {
		return err
	}

	key := fmt.Sprintf("cart:%s:snapshot", cartID)
	return c.client.Set(ctx, key, data, expiration).Err()
}

func (c *Cache) InvalidateCartSnapshot(ctx context.Context, cartID string) error {
	key := fmt.Sprintf("cart:%s:snapshot", cartID)
	return c.client.Del(ctx, key).Err()
}

func (c *Cache) GetPaymentStatus(ctx context.Context, refID string) (string, error) {
	key := fmt.Sprintf("payment:%s:status", refID)
	result, err := c.client.Get(ctx, key).Result()
	if err != nil {
		if err == redis.Nil {
			return "", nil
		}
		return "", err
	}

	return result, nil
}

func (c *Cache) SetPaymentStatus(ctx context.Context, refID, status string, expiration time.Duration) error {
	key := fmt.Sprintf("payment:%s:status", refID)
	return c.client.Set(ctx, key, status, expiration).Err()
}

func (c *Cache) DistributedLock(ctx context.Context, key string, expiration time.Duration) (bool, error) {
	lockKey := fmt.Sprintf("lock:%s", key)
	result, err := c.client.SetNX(ctx, lockKey, "1", expiration).Result()
	if err == nil {
		if result {
			monitoring.RedisLockSuccessTotal.WithLabelValues(key).Inc()
		} else {
			monitoring.RedisLockFailureTotal.WithLabelValues(key, "already_locked").Inc()
		}
	} else {
		monitoring.RedisLockFailureTotal.WithLabelValues(key, "redis_error").Inc()
	}
	return result, err
}

func (c *Cache) ReleaseLock(ctx context.Context, key string) error {
	lockKey := fmt.Sprintf("lock:%s", key)
	return c.client.Del(ctx, lockKey).Err()
}
