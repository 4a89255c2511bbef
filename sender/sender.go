package sender

import (
	"context"
	"time"

	"pizza-storefront/models"
)

type SendResult struct {
	MessageID string
	SentAt    time.Time
}

// OrderSender announces an accepted order on one channel.
type OrderSender interface {
	Name() string
	SendOrderPlaced(ctx context.Context, event models.OrderPlacedEvent) (SendResult, error)
}
