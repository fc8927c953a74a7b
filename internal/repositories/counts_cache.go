package repositories

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sbilibin2017/gw-order-transactions/internal/logger"
)

// CountsCacheRepository caches per-order transaction counts in Redis.
// Entries are invalidated whenever transactions for the order change.
type CountsCacheRepository struct {
	client *redis.Client
	exp    time.Duration // expiration duration for cached counts
}

// NewCountsCacheRepository creates a new repository instance with the given TTL.
func NewCountsCacheRepository(client *redis.Client, expiration time.Duration) *CountsCacheRepository {
	return &CountsCacheRepository{
		client: client,
		exp:    expiration,
	}
}

func countKey(orderID uuid.UUID) string {
	return fmt.Sprintf("transaction_counts:%s", orderID)
}

// GetCount fetches the cached transaction count for an order.
func (r *CountsCacheRepository) GetCount(ctx context.Context, orderID uuid.UUID) (int64, error) {
	key := countKey(orderID)

	val, err := r.client.Get(ctx, key).Result()
	if err != nil {
		logger.Log.Infow(
			"key", key,
			"result", val,
			"error", err,
		)
		if err == redis.Nil {
			return 0, fmt.Errorf("transaction count not cached for order %s", orderID)
		}
		return 0, err
	}

	count, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		logger.Log.Infow(
			"key", key,
			"value", val,
			"result", 0,
			"error", err,
		)
		return 0, err
	}

	logger.Log.Infow(
		"key", key,
		"result", count,
		"error", nil,
	)

	return count, nil
}

// SetCount caches the transaction count for an order with expiration.
func (r *CountsCacheRepository) SetCount(ctx context.Context, orderID uuid.UUID, count int64) error {
	key := countKey(orderID)
	err := r.client.Set(ctx, key, strconv.FormatInt(count, 10), r.exp).Err()

	logger.Log.Infow(
		"key", key,
		"count", count,
		"result", "ok",
		"error", err,
	)

	return err
}

// InvalidateCount drops the cached count for an order.
func (r *CountsCacheRepository) InvalidateCount(ctx context.Context, orderID uuid.UUID) error {
	key := countKey(orderID)
	err := r.client.Del(ctx, key).Err()

	logger.Log.Infow(
		"key", key,
		"result", "deleted",
		"error", err,
	)

	return err
}
