package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Placeholder customer identity sent with every order.
const (
	GuestCustomerName    = "Guest"
	GuestCustomerPhone   = "000-000-0000"
	GuestCustomerAddress = "Pickup"

	OrderStatusPending = "pending"
)

// OrderRequest is the body of POST /api/orders on the shop backend.
type OrderRequest struct {
	CustomerName    string          `json:"customer_name"`
	CustomerPhone   string          `json:"customer_phone"`
	CustomerAddress string          `json:"customer_address"`
	Items           []CartLine      `json:"items"`
	Subtotal        decimal.Decimal `json:"subtotal"`
	DeliveryFee     decimal.Decimal `json:"delivery_fee"`
	Total           decimal.Decimal `json:"total"`
	Status          string          `json:"status"`
}

// OrderResponse is the success body of POST /api/orders.
type OrderResponse struct {
	ID string `json:"id"`
}

// UnmarshalJSON accepts the id as a JSON string or number. A number keeps
// its literal text.
func (r *OrderResponse) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID json.RawMessage `json:"id"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	id := bytes.TrimSpace(raw.ID)
	switch {
	case len(id) == 0 || bytes.Equal(id, []byte("null")):
		r.ID = ""
	case id[0] == '"':
		return json.Unmarshal(id, &r.ID)
	default:
		var n json.Number
		if err := json.Unmarshal(id, &n); err != nil {
			return fmt.Errorf("order id: %w", err)
		}
		r.ID = n.String()
	}
	return nil
}

// OrderResult is what the storefront reports after a placement.
type OrderResult struct {
	OrderID string `json:"id"`
	Replay  bool   `json:"replay,omitempty"`
}

// OrderPlacedEvent is published to notification senders after the backend
// accepted an order.
type OrderPlacedEvent struct {
	Event       string          `json:"event"`
	OrderID     string          `json:"order_id"`
	Items       []CartLine      `json:"items"`
	Subtotal    decimal.Decimal `json:"subtotal"`
	DeliveryFee decimal.Decimal `json:"delivery_fee"`
	Total       decimal.Decimal `json:"total"`
	Timestamp   time.Time       `json:"timestamp"`
}

const EventOrderPlaced = "order.placed"
