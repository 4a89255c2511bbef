package services

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"pizza-storefront/clients"
	"pizza-storefront/models"
	awspkg "pizza-storefront/pkg/aws"
	"pizza-storefront/sender"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newCart(backend PizzaBackend, opts CartOptions) *cartServiceImpl {
	return NewCartService(backend, opts, zap.NewNop()).(*cartServiceImpl)
}

func TestAddToCart_SameItemAndSizeIncrements(t *testing.T) {
	cart := newCart(&mockBackend{}, CartOptions{})
	p1 := pizza("p1", 5, 7, 9)

	require.Nil(t, cart.AddToCart(p1, models.SizeMedium))
	require.Nil(t, cart.AddToCart(p1, models.SizeMedium))

	s := cart.Summary()
	require.Len(t, s.Items, 1)
	line := s.Items[0]
	assert.Equal(t, "p1", line.PizzaID)
	assert.Equal(t, models.SizeMedium, line.Size)
	assert.Equal(t, 2, line.Quantity)
	assert.True(t, line.UnitPrice.Equal(dec("7")))
	assert.True(t, s.Subtotal.Equal(dec("14")), "subtotal %s", s.Subtotal)
	assert.True(t, s.DeliveryFee.Equal(dec("3.5")))
	assert.True(t, s.Total.Equal(dec("17.5")), "total %s", s.Total)
	assert.Equal(t, 2, s.ItemCount)
}

func TestAddToCart_DistinctPairsProperty(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	items := []models.MenuItem{pizza("a", 5, 7, 9), pizza("b", 6, 8, 10), pizza("c", 11, 12, 13)}

	for run := 0; run < 20; run++ {
		cart := newCart(&mockBackend{}, CartOptions{})
		counts := map[string]int{}

		n := 1 + rng.Intn(40)
		for i := 0; i < n; i++ {
			item := items[rng.Intn(len(items))]
			size := models.Sizes[rng.Intn(len(models.Sizes))]
			require.Nil(t, cart.AddToCart(item, size))
			counts[item.ID+"/"+string(size)]++
		}

		s := cart.Summary()
		assert.Len(t, s.Items, len(counts), "run %d", run)
		for _, l := range s.Items {
			assert.Equal(t, counts[l.PizzaID+"/"+string(l.Size)], l.Quantity, "run %d line %s/%s", run, l.PizzaID, l.Size)
		}
		assert.True(t, s.Subtotal.Equal(Subtotal(s.Items)))
		assert.True(t, s.Total.Equal(s.Subtotal.Add(s.DeliveryFee)))
	}
}

func TestAddToCart_CapturesPriceAtAddTime(t *testing.T) {
	cart := newCart(&mockBackend{}, CartOptions{})
	p1 := pizza("p1", 5, 7, 9)
	require.Nil(t, cart.AddToCart(p1, models.SizeLarge))

	repriced := p1
	repriced.PriceLarge = dec("99")
	require.Nil(t, cart.AddToCart(repriced, models.SizeLarge))

	s := cart.Summary()
	require.Len(t, s.Items, 1)
	assert.True(t, s.Items[0].UnitPrice.Equal(dec("9")))
	assert.True(t, s.Subtotal.Equal(dec("18")))
}

func TestAddToCart_EarlierSummaryIsUnchanged(t *testing.T) {
	cart := newCart(&mockBackend{}, CartOptions{})
	p1 := pizza("p1", 5, 7, 9)
	require.Nil(t, cart.AddToCart(p1, models.SizeSmall))

	before := cart.Summary()
	require.Nil(t, cart.AddToCart(p1, models.SizeSmall))

	assert.Equal(t, 1, before.Items[0].Quantity)
	assert.Equal(t, 2, cart.Summary().Items[0].Quantity)
}

func TestAddToCart_InvalidSize(t *testing.T) {
	cart := newCart(&mockBackend{}, CartOptions{})

	svcErr := cart.AddToCart(pizza("p1", 5, 7, 9), models.Size("huge"))

	require.NotNil(t, svcErr)
	assert.Equal(t, http.StatusBadRequest, svcErr.StatusCode)
	assert.True(t, cart.Summary().IsEmpty())
}

func TestPlaceOrder_EmptyCartIsNoop(t *testing.T) {
	backend := &mockBackend{}
	cart := newCart(backend, CartOptions{})

	res, svcErr := cart.PlaceOrder(context.Background(), "")

	assert.Nil(t, res)
	assert.Equal(t, ErrEmptyCart, svcErr)
	assert.Equal(t, 0, backend.orderCalls)
	assert.False(t, cart.Summary().Placing)
}

func TestPlaceOrder_SuccessClearsCart(t *testing.T) {
	backend := &mockBackend{
		orderFn: func(req models.OrderRequest) (*models.OrderResponse, error) {
			return &models.OrderResponse{ID: "abc123"}, nil
		},
	}
	cart := newCart(backend, CartOptions{})
	require.Nil(t, cart.AddToCart(pizza("p1", 5, 7, 9), models.SizeMedium))
	require.Nil(t, cart.AddToCart(pizza("p1", 5, 7, 9), models.SizeMedium))

	res, svcErr := cart.PlaceOrder(context.Background(), "")

	require.Nil(t, svcErr)
	assert.Equal(t, "abc123", res.OrderID)
	assert.False(t, res.Replay)
	assert.True(t, cart.Summary().IsEmpty())
	assert.False(t, cart.Summary().Placing)

	sent := backend.lastOrder
	assert.Equal(t, "Guest", sent.CustomerName)
	assert.Equal(t, "000-000-0000", sent.CustomerPhone)
	assert.Equal(t, "Pickup", sent.CustomerAddress)
	assert.Equal(t, "pending", sent.Status)
	require.Len(t, sent.Items, 1)
	assert.True(t, sent.Subtotal.Equal(dec("14")))
	assert.True(t, sent.DeliveryFee.Equal(dec("3.50")))
	assert.True(t, sent.Total.Equal(dec("17.50")))
}

func TestPlaceOrder_FailureKeepsCart(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		wantMsg string
	}{
		{"detail from backend", &clients.UpstreamError{StatusCode: 400, Detail: "Out of dough"}, "Out of dough"},
		{"non-ok without detail", &clients.UpstreamError{StatusCode: 500}, "Failed to place order"},
		{"network error", fmt.Errorf("create order: %w", errors.New("connection refused")), "Failed to place order"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			backend := &mockBackend{
				orderFn: func(models.OrderRequest) (*models.OrderResponse, error) { return nil, tt.err },
			}
			cart := newCart(backend, CartOptions{})
			require.Nil(t, cart.AddToCart(pizza("p1", 5, 7, 9), models.SizeSmall))
			require.Nil(t, cart.AddToCart(pizza("p2", 6, 8, 10), models.SizeLarge))
			before := cart.Summary()

			res, svcErr := cart.PlaceOrder(context.Background(), "")

			assert.Nil(t, res)
			require.NotNil(t, svcErr)
			assert.Equal(t, http.StatusBadGateway, svcErr.StatusCode)
			assert.Equal(t, tt.wantMsg, svcErr.Message)
			after := cart.Summary()
			assert.Equal(t, before.Items, after.Items)
			assert.False(t, after.Placing)
		})
	}
}

func TestPlaceOrder_RejectsConcurrentPlacementAndAdds(t *testing.T) {
	release := make(chan struct{})
	entered := make(chan struct{})
	backend := &mockBackend{
		orderFn: func(models.OrderRequest) (*models.OrderResponse, error) {
			close(entered)
			<-release
			return &models.OrderResponse{ID: "slow"}, nil
		},
	}
	cart := newCart(backend, CartOptions{})
	require.Nil(t, cart.AddToCart(pizza("p1", 5, 7, 9), models.SizeSmall))

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, svcErr := cart.PlaceOrder(context.Background(), "")
		assert.Nil(t, svcErr)
	}()
	<-entered

	assert.True(t, cart.Summary().Placing)
	_, svcErr := cart.PlaceOrder(context.Background(), "")
	assert.Equal(t, ErrOrderInProgress, svcErr)
	assert.Equal(t, ErrOrderInProgress, cart.AddToCart(pizza("p1", 5, 7, 9), models.SizeSmall))

	close(release)
	wg.Wait()
	assert.False(t, cart.Summary().Placing)
	assert.Equal(t, 1, backend.orderCalls)
}

func TestPlaceOrder_IdempotencyReplay(t *testing.T) {
	backend := &mockBackend{}
	store := newMemoryIdempotency()
	cart := newCart(backend, CartOptions{Idempotency: store, IdempotencyTTL: time.Hour})
	require.Nil(t, cart.AddToCart(pizza("p1", 5, 7, 9), models.SizeSmall))

	first, svcErr := cart.PlaceOrder(context.Background(), "key-1")
	require.Nil(t, svcErr)
	assert.Equal(t, "order-1", store.keys["key-1"])
	assert.Equal(t, time.Hour, store.ttls["key-1"])

	second, svcErr := cart.PlaceOrder(context.Background(), "key-1")
	require.Nil(t, svcErr)
	assert.Equal(t, first.OrderID, second.OrderID)
	assert.True(t, second.Replay)
	assert.Equal(t, 1, backend.orderCalls)
}

func TestPlaceOrder_NotifiesSendersAndRecordsMetrics(t *testing.T) {
	ok := &recordingSender{}
	failing := &recordingSender{err: errors.New("telegram down")}
	metrics := &recordingMetrics{}
	cart := newCart(&mockBackend{}, CartOptions{
		Senders: []sender.OrderSender{ok, failing},
		Metrics: metrics,
	})
	require.Nil(t, cart.AddToCart(pizza("p1", 5, 7, 9), models.SizeLarge))

	res, svcErr := cart.PlaceOrder(context.Background(), "")
	cart.Wait()

	require.Nil(t, svcErr)
	assert.Equal(t, "order-1", res.OrderID)
	require.Len(t, ok.events, 1)
	assert.Equal(t, models.EventOrderPlaced, ok.events[0].Event)
	assert.Equal(t, "order-1", ok.events[0].OrderID)
	assert.True(t, ok.events[0].Total.Equal(dec("12.5")))
	assert.Len(t, failing.events, 1)
	assert.Equal(t, []string{awspkg.MetricOrdersCreated}, metrics.names)
}

func TestPlaceOrder_FailureRecordsMetric(t *testing.T) {
	metrics := &recordingMetrics{}
	snd := &recordingSender{}
	backend := &mockBackend{
		orderFn: func(models.OrderRequest) (*models.OrderResponse, error) {
			return nil, &clients.UpstreamError{StatusCode: 503}
		},
	}
	cart := newCart(backend, CartOptions{Metrics: metrics, Senders: []sender.OrderSender{snd}})
	require.Nil(t, cart.AddToCart(pizza("p1", 5, 7, 9), models.SizeLarge))

	_, svcErr := cart.PlaceOrder(context.Background(), "")
	cart.Wait()

	require.NotNil(t, svcErr)
	assert.Equal(t, []string{awspkg.MetricOrdersFailed}, metrics.names)
	assert.Empty(t, snd.events)
}

func TestPlaceOrder_NumericOrderIDClearsCart(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id":42}`))
	}))
	defer srv.Close()
	cart := newCart(clients.NewBackendClient(srv.URL, 2*time.Second), CartOptions{})
	require.Nil(t, cart.AddToCart(pizza("p1", 5, 7, 9), models.SizeMedium))

	res, svcErr := cart.PlaceOrder(context.Background(), "")

	require.Nil(t, svcErr)
	assert.Equal(t, "42", res.OrderID)
	assert.True(t, cart.Summary().IsEmpty())
}
