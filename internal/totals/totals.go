// Package totals computes the order summary shown next to the cart.
package totals

import (
	"github.com/shopspring/decimal"

	"github.com/novacart/checkout/checkout/models"
)

const (
	MinQuantity = 1
	MaxQuantity = 10
)

var (
	// FreeShippingThreshold is inclusive: a subtotal of exactly 1000 ships free.
	FreeShippingThreshold = decimal.NewFromInt(1000)

	standardRate = decimal.RequireFromString("0.05")
	expressRate  = decimal.RequireFromString("0.10")
)

// ClampQuantity keeps a quantity inside [MinQuantity, MaxQuantity]. Every
// code path that writes a quantity goes through it.
func ClampQuantity(q int) int {
	if q < MinQuantity {
		return MinQuantity
	}
	if q > MaxQuantity {
		return MaxQuantity
	}
	return q
}

// Subtotal sums price times quantity. Stored quantities are trusted, except
// that anything below one counts as one.
func Subtotal(items []models.LineItem) decimal.Decimal {
	sum := decimal.Zero
	for _, it := range items {
		qty := it.Qty
		if qty < 1 {
			qty = 1
		}
		sum = sum.Add(decimal.NewFromFloat(it.Price).Mul(decimal.NewFromInt(int64(qty))))
	}
	return sum
}

// Shipping is free up to the threshold, then 5% of the subtotal for standard
// delivery and 10% for express.
func Shipping(subtotal decimal.Decimal, method models.DeliveryMethod) decimal.Decimal {
	if subtotal.LessThanOrEqual(FreeShippingThreshold) {
		return decimal.Zero
	}
	if method == models.DeliveryExpress {
		return subtotal.Mul(expressRate)
	}
	return subtotal.Mul(standardRate)
}

func Compute(items []models.LineItem, method models.DeliveryMethod) models.Totals {
	sub := Subtotal(items)
	fee := Shipping(sub, method)
	return models.Totals{
		Subtotal:    sub,
		ShippingFee: fee,
		GrandTotal:  sub.Add(fee),
	}
}
