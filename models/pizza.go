package models

import (
	"fmt"

	"github.com/shopspring/decimal"
)

func init() {
	// The shop backend expects prices as JSON numbers, not strings.
	decimal.MarshalJSONWithoutQuotes = true
}

// Size is the pizza size a guest picks when adding to the cart.
type Size string

const (
	SizeSmall  Size = "small"
	SizeMedium Size = "medium"
	SizeLarge  Size = "large"
)

// Sizes lists every size in menu display order.
var Sizes = []Size{SizeSmall, SizeMedium, SizeLarge}

// ParseSize validates a raw size value.
func ParseSize(raw string) (Size, error) {
	switch s := Size(raw); s {
	case SizeSmall, SizeMedium, SizeLarge:
		return s, nil
	default:
		return "", fmt.Errorf("invalid size %q", raw)
	}
}

// MenuItem is a pizza as served by GET /api/pizzas.
type MenuItem struct {
	ID          string          `json:"_id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Image       string          `json:"image,omitempty"`
	Vegetarian  bool            `json:"vegetarian,omitempty"`
	PriceSmall  decimal.Decimal `json:"price_small"`
	PriceMedium decimal.Decimal `json:"price_medium"`
	PriceLarge  decimal.Decimal `json:"price_large"`
}

// PriceFor resolves the unit price of the item for the given size.
func (m MenuItem) PriceFor(size Size) (decimal.Decimal, bool) {
	switch size {
	case SizeSmall:
		return m.PriceSmall, true
	case SizeMedium:
		return m.PriceMedium, true
	case SizeLarge:
		return m.PriceLarge, true
	}
	return decimal.Zero, false
}

// MenuResponse is returned by GET /api/menu.
type MenuResponse struct {
	Loading bool       `json:"loading"`
	Items   []MenuItem `json:"items"`
}
