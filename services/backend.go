package services

import (
	"context"
	"time"

	"pizza-storefront/models"
)

// PizzaBackend is the subset of the shop backend the storefront uses.
// *clients.BackendClient implements it.
type PizzaBackend interface {
	ListPizzas(ctx context.Context) ([]models.MenuItem, error)
	SeedPizzas(ctx context.Context) error
	CreateOrder(ctx context.Context, order models.OrderRequest) (*models.OrderResponse, error)
}

// IdempotencyStore maps client-supplied idempotency keys to order ids.
// Get returns "" when the key is unknown.
type IdempotencyStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, orderID string, ttl time.Duration) error
}

// MetricsRecorder is satisfied by *aws.MetricsClient.
type MetricsRecorder interface {
	RecordCount(ctx context.Context, metricName string, dimensions map[string]string) error
}
