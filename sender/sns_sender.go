package sender

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"pizza-storefront/models"
	awspkg "pizza-storefront/pkg/aws"
)

// SNSSender publishes order.placed events as JSON to an SNS topic.
type SNSSender struct {
	publisher awspkg.SNSPublisher
	topicArn  string
}

func NewSNSSender(publisher awspkg.SNSPublisher, topicArn string) *SNSSender {
	return &SNSSender{publisher: publisher, topicArn: topicArn}
}

func (s *SNSSender) Name() string { return "sns" }

func (s *SNSSender) SendOrderPlaced(ctx context.Context, event models.OrderPlacedEvent) (SendResult, error) {
	msg, err := json.Marshal(event)
	if err != nil {
		return SendResult{}, fmt.Errorf("marshal order event: %w", err)
	}
	if err := s.publisher.Publish(ctx, s.topicArn, msg); err != nil {
		return SendResult{}, err
	}
	return SendResult{
		MessageID: fmt.Sprintf("sns-%s", event.OrderID),
		SentAt:    time.Now(),
	}, nil
}
