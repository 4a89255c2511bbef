package models

import "github.com/shopspring/decimal"

// CartLine is one (pizza, size) selection. UnitPrice is captured when the
// line is first added and is never re-derived from the menu.
type CartLine struct {
	PizzaID   string          `json:"pizza_id"`
	Name      string          `json:"name"`
	Size      Size            `json:"size"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// LineTotal is unit price times quantity.
func (l CartLine) LineTotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// AddToCartRequest is the payload for POST /api/cart/items.
type AddToCartRequest struct {
	PizzaID string `json:"pizza_id" form:"pizza_id" binding:"required"`
	Size    string `json:"size" form:"size" binding:"required"`
}

// CartSummary is the cart plus every derived amount.
type CartSummary struct {
	Items       []CartLine      `json:"items"`
	ItemCount   int             `json:"item_count"`
	Subtotal    decimal.Decimal `json:"subtotal"`
	DeliveryFee decimal.Decimal `json:"delivery_fee"`
	Total       decimal.Decimal `json:"total"`
	Placing     bool            `json:"placing"`
}

// IsEmpty reports whether the cart has no lines.
func (s CartSummary) IsEmpty() bool {
	return len(s.Items) == 0
}
