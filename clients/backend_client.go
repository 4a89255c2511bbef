package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"pizza-storefront/models"
)

const (
	pizzasPath = "/api/pizzas"
	seedPath   = "/api/pizzas/seed"
	ordersPath = "/api/orders"
)

// BackendClient talks to the pizza shop REST backend.
type BackendClient struct {
	baseURL string
	client  *http.Client
}

func NewBackendClient(baseURL string, timeout time.Duration) *BackendClient {
	return &BackendClient{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

// BaseURL returns the backend base URL the client targets.
func (b *BackendClient) BaseURL() string {
	return b.baseURL
}

func (b *BackendClient) Do(ctx context.Context, method, path string, body io.Reader) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, b.baseURL+path, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return b.client.Do(req)
}

// ListPizzas fetches the menu. A JSON null body yields a nil slice.
func (b *BackendClient) ListPizzas(ctx context.Context) ([]models.MenuItem, error) {
	resp, err := b.Do(ctx, http.MethodGet, pizzasPath, nil)
	if err != nil {
		return nil, fmt.Errorf("list pizzas: %w", err)
	}

	var items []models.MenuItem
	if err := DecodeJSON(resp, &items); err != nil {
		return nil, fmt.Errorf("list pizzas: %w", err)
	}
	return items, nil
}

// SeedPizzas asks the backend to populate its demo menu. The response body is
// discarded.
func (b *BackendClient) SeedPizzas(ctx context.Context) error {
	resp, err := b.Do(ctx, http.MethodPost, seedPath, nil)
	if err != nil {
		return fmt.Errorf("seed pizzas: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if !isSuccess(resp.StatusCode) {
		return &UpstreamError{StatusCode: resp.StatusCode}
	}
	return nil
}

// CreateOrder submits an order. On a non-2xx answer the backend "detail"
// message, when it is a string, is carried in the returned *UpstreamError.
func (b *BackendClient) CreateOrder(ctx context.Context, order models.OrderRequest) (*models.OrderResponse, error) {
	payload, err := json.Marshal(order)
	if err != nil {
		return nil, fmt.Errorf("encode order: %w", err)
	}

	resp, err := b.Do(ctx, http.MethodPost, ordersPath, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}

	var out models.OrderResponse
	if err := DecodeJSON(resp, &out); err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}
	return &out, nil
}

// DecodeJSON closes the body and decodes it into out. Any non-2xx response
// becomes an *UpstreamError.
func DecodeJSON(resp *http.Response, out interface{}) error {
	defer resp.Body.Close()
	if !isSuccess(resp.StatusCode) {
		body, _ := io.ReadAll(resp.Body)
		return &UpstreamError{StatusCode: resp.StatusCode, Detail: detailFrom(body)}
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func isSuccess(status int) bool {
	return status >= 200 && status < 300
}

func detailFrom(body []byte) string {
	var envelope struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil || len(envelope.Detail) == 0 {
		return ""
	}
	var detail string
	if err := json.Unmarshal(envelope.Detail, &detail); err != nil {
		return ""
	}
	return detail
}
