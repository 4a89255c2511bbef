package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"pizza-storefront/clients"
	"pizza-storefront/models"
	awspkg "pizza-storefront/pkg/aws"
	"pizza-storefront/sender"

	"go.uber.org/zap"
)

// CartService is the guest's cart and order placement.
type CartService interface {
	AddToCart(item models.MenuItem, size models.Size) *ServiceError
	Summary() models.CartSummary
	PlaceOrder(ctx context.Context, idempotencyKey string) (*models.OrderResult, *ServiceError)
	// Wait blocks until background notifications and metrics have finished.
	Wait()
}

// CartOptions carries the optional collaborators of the cart.
type CartOptions struct {
	Idempotency    IdempotencyStore
	IdempotencyTTL time.Duration
	Senders        []sender.OrderSender
	Metrics        MetricsRecorder
}

const backgroundTimeout = 10 * time.Second

type cartServiceImpl struct {
	backend PizzaBackend
	opts    CartOptions
	logger  *zap.Logger

	mu      sync.Mutex
	lines   []models.CartLine
	placing bool

	// wg tracks background notification and metrics work.
	wg sync.WaitGroup
}

func NewCartService(backend PizzaBackend, opts CartOptions, logger *zap.Logger) CartService {
	return &cartServiceImpl{
		backend: backend,
		opts:    opts,
		logger:  logger,
	}
}

// AddToCart adds one unit of item in size. A matching (pizza, size) line is
// replaced by a copy with quantity+1; the line slice itself is rebuilt on
// every mutation so summaries handed out earlier never change.
func (s *cartServiceImpl) AddToCart(item models.MenuItem, size models.Size) *ServiceError {
	price, ok := item.PriceFor(size)
	if !ok {
		return &ServiceError{StatusCode: http.StatusBadRequest, Message: fmt.Sprintf("invalid size %q", size)}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.placing {
		return ErrOrderInProgress
	}

	next := make([]models.CartLine, 0, len(s.lines)+1)
	found := false
	for _, l := range s.lines {
		if l.PizzaID == item.ID && l.Size == size {
			l.Quantity++
			found = true
		}
		next = append(next, l)
	}
	if !found {
		next = append(next, models.CartLine{
			PizzaID:   item.ID,
			Name:      item.Name,
			Size:      size,
			Quantity:  1,
			UnitPrice: price,
		})
	}
	s.lines = next
	return nil
}

func (s *cartServiceImpl) Summary() models.CartSummary {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Summarize(s.lines, s.placing)
}

// PlaceOrder submits the cart. An empty cart is a no-op that never reaches
// the backend. On success the cart is cleared; on failure it is left as is.
func (s *cartServiceImpl) PlaceOrder(ctx context.Context, idempotencyKey string) (*models.OrderResult, *ServiceError) {
	if id := s.lookupIdempotency(ctx, idempotencyKey); id != "" {
		return &models.OrderResult{OrderID: id, Replay: true}, nil
	}

	s.mu.Lock()
	if len(s.lines) == 0 {
		s.mu.Unlock()
		return nil, ErrEmptyCart
	}
	if s.placing {
		s.mu.Unlock()
		return nil, ErrOrderInProgress
	}
	s.placing = true
	lines := s.lines
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.placing = false
		s.mu.Unlock()
	}()

	summary := Summarize(lines, true)
	req := models.OrderRequest{
		CustomerName:    models.GuestCustomerName,
		CustomerPhone:   models.GuestCustomerPhone,
		CustomerAddress: models.GuestCustomerAddress,
		Items:           summary.Items,
		Subtotal:        summary.Subtotal,
		DeliveryFee:     summary.DeliveryFee,
		Total:           summary.Total,
		Status:          models.OrderStatusPending,
	}

	resp, err := s.backend.CreateOrder(ctx, req)
	if err != nil {
		s.logger.Error("Order placement failed", zap.Error(err), zap.Int("lines", len(lines)))
		s.recordMetric(awspkg.MetricOrdersFailed)
		return nil, placementError(err)
	}

	s.mu.Lock()
	s.lines = nil
	s.mu.Unlock()

	s.logger.Info("Order placed",
		zap.String("order_id", resp.ID),
		zap.String("total", summary.Total.StringFixed(2)),
	)
	s.storeIdempotency(ctx, idempotencyKey, resp.ID)
	s.recordMetric(awspkg.MetricOrdersCreated)
	s.notify(models.OrderPlacedEvent{
		Event:       models.EventOrderPlaced,
		OrderID:     resp.ID,
		Items:       summary.Items,
		Subtotal:    summary.Subtotal,
		DeliveryFee: summary.DeliveryFee,
		Total:       summary.Total,
		Timestamp:   time.Now().UTC(),
	})

	return &models.OrderResult{OrderID: resp.ID}, nil
}

func placementError(err error) *ServiceError {
	msg := orderFailedMessage
	var upErr *clients.UpstreamError
	if errors.As(err, &upErr) && upErr.Detail != "" {
		msg = upErr.Detail
	}
	return &ServiceError{StatusCode: http.StatusBadGateway, Message: msg}
}

func (s *cartServiceImpl) lookupIdempotency(ctx context.Context, key string) string {
	if key == "" || s.opts.Idempotency == nil {
		return ""
	}
	id, err := s.opts.Idempotency.Get(ctx, key)
	if err != nil {
		s.logger.Warn("Idempotency lookup failed", zap.String("key", key), zap.Error(err))
		return ""
	}
	if id != "" {
		s.logger.Info("Replaying order for idempotency key", zap.String("key", key), zap.String("order_id", id))
	}
	return id
}

func (s *cartServiceImpl) storeIdempotency(ctx context.Context, key, orderID string) {
	if key == "" || s.opts.Idempotency == nil {
		return
	}
	if err := s.opts.Idempotency.Set(ctx, key, orderID, s.opts.IdempotencyTTL); err != nil {
		s.logger.Warn("Idempotency store failed", zap.String("key", key), zap.Error(err))
	}
}

// notify hands the event to every sender in the background. Failures are
// logged only.
func (s *cartServiceImpl) notify(event models.OrderPlacedEvent) {
	for _, snd := range s.opts.Senders {
		s.wg.Add(1)
		go func(snd sender.OrderSender) {
			defer s.wg.Done()
			ctx, cancel := context.WithTimeout(context.Background(), backgroundTimeout)
			defer cancel()
			if _, err := snd.SendOrderPlaced(ctx, event); err != nil {
				s.logger.Warn("Order notification failed",
					zap.String("sender", snd.Name()),
					zap.String("order_id", event.OrderID),
					zap.Error(err),
				)
			}
		}(snd)
	}
}

func (s *cartServiceImpl) recordMetric(name string) {
	if s.opts.Metrics == nil {
		return
	}
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), backgroundTimeout)
		defer cancel()
		_ = s.opts.Metrics.RecordCount(ctx, name, map[string]string{"Service": "pizza-storefront"})
	}()
}

func (s *cartServiceImpl) Wait() {
	s.wg.Wait()
}
