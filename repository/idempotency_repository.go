package repository

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// stringStore is the part of *redis.Client the repository uses.
type stringStore interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
}

// IdempotencyRepository keeps idempotency key → order id pairs in Redis.
type IdempotencyRepository struct {
	client stringStore
}

func NewIdempotencyRepository(client *redis.Client) *IdempotencyRepository {
	return &IdempotencyRepository{client: client}
}

func (r *IdempotencyRepository) getKey(key string) string {
	return "idem:storefront:order:" + key
}

func (r *IdempotencyRepository) Get(ctx context.Context, key string) (string, error) {
	val, err := r.client.Get(ctx, r.getKey(key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return val, nil
}

func (r *IdempotencyRepository) Set(ctx context.Context, key, orderID string, ttl time.Duration) error {
	return r.client.Set(ctx, r.getKey(key), orderID, ttl).Err()
}
