package services

import (
	"context"
	"sync"
	"time"

	"pizza-storefront/models"
	"pizza-storefront/sender"

	"github.com/shopspring/decimal"
)

// --- Mock PizzaBackend ---

type mockBackend struct {
	mu         sync.Mutex
	listCalls  int
	seedCalls  int
	orderCalls int
	lastOrder  models.OrderRequest

	listFn  func(call int) ([]models.MenuItem, error)
	seedFn  func() error
	orderFn func(req models.OrderRequest) (*models.OrderResponse, error)
}

func (m *mockBackend) ListPizzas(_ context.Context) ([]models.MenuItem, error) {
	m.mu.Lock()
	m.listCalls++
	call := m.listCalls
	m.mu.Unlock()
	if m.listFn == nil {
		return nil, nil
	}
	return m.listFn(call)
}

func (m *mockBackend) SeedPizzas(_ context.Context) error {
	m.mu.Lock()
	m.seedCalls++
	m.mu.Unlock()
	if m.seedFn == nil {
		return nil
	}
	return m.seedFn()
}

func (m *mockBackend) CreateOrder(_ context.Context, req models.OrderRequest) (*models.OrderResponse, error) {
	m.mu.Lock()
	m.orderCalls++
	m.lastOrder = req
	m.mu.Unlock()
	if m.orderFn == nil {
		return &models.OrderResponse{ID: "order-1"}, nil
	}
	return m.orderFn(req)
}

// --- Mock IdempotencyStore ---

type memoryIdempotency struct {
	mu   sync.Mutex
	keys map[string]string
	ttls map[string]time.Duration
}

func newMemoryIdempotency() *memoryIdempotency {
	return &memoryIdempotency{keys: map[string]string{}, ttls: map[string]time.Duration{}}
}

func (m *memoryIdempotency) Get(_ context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.keys[key], nil
}

func (m *memoryIdempotency) Set(_ context.Context, key, orderID string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.keys[key] = orderID
	m.ttls[key] = ttl
	return nil
}

// --- Mock OrderSender ---

type recordingSender struct {
	mu     sync.Mutex
	events []models.OrderPlacedEvent
	err    error
}

func (r *recordingSender) Name() string { return "recording" }

func (r *recordingSender) SendOrderPlaced(_ context.Context, event models.OrderPlacedEvent) (sender.SendResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
	return sender.SendResult{MessageID: event.OrderID, SentAt: time.Now()}, r.err
}

// --- Mock MetricsRecorder ---

type recordingMetrics struct {
	mu    sync.Mutex
	names []string
}

func (r *recordingMetrics) RecordCount(_ context.Context, name string, _ map[string]string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.names = append(r.names, name)
	return nil
}

// --- Fixtures ---

func pizza(id string, small, medium, large int64) models.MenuItem {
	return models.MenuItem{
		ID:          id,
		Name:        "Pizza " + id,
		PriceSmall:  decimal.NewFromInt(small),
		PriceMedium: decimal.NewFromInt(medium),
		PriceLarge:  decimal.NewFromInt(large),
	}
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}
