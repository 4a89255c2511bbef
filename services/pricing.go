package services

import (
	"pizza-storefront/models"

	"github.com/shopspring/decimal"
)

// DeliveryFee is the flat surcharge applied to any non-empty cart.
var DeliveryFee = decimal.RequireFromString("3.50")

func Subtotal(lines []models.CartLine) decimal.Decimal {
	sum := decimal.Zero
	for _, l := range lines {
		sum = sum.Add(l.LineTotal())
	}
	return sum
}

// Delivery is DeliveryFee when subtotal > 0, else zero.
func Delivery(subtotal decimal.Decimal) decimal.Decimal {
	if subtotal.IsPositive() {
		return DeliveryFee
	}
	return decimal.Zero
}

func Total(subtotal decimal.Decimal) decimal.Decimal {
	return subtotal.Add(Delivery(subtotal))
}

func ItemCount(lines []models.CartLine) int {
	n := 0
	for _, l := range lines {
		n += l.Quantity
	}
	return n
}

// Summarize derives every amount from lines. Nothing is cached.
func Summarize(lines []models.CartLine, placing bool) models.CartSummary {
	subtotal := Subtotal(lines)
	items := make([]models.CartLine, len(lines))
	copy(items, lines)
	return models.CartSummary{
		Items:       items,
		ItemCount:   ItemCount(lines),
		Subtotal:    subtotal,
		DeliveryFee: Delivery(subtotal),
		Total:       Total(subtotal),
		Placing:     placing,
	}
}
