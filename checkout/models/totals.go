package models

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

type DeliveryMethod string

const (
	DeliveryStandard DeliveryMethod = "standard"
	DeliveryExpress  DeliveryMethod = "express"
)

// ParseDeliveryMethod maps anything that is not "express" to standard delivery.
func ParseDeliveryMethod(s string) DeliveryMethod {
	if DeliveryMethod(s) == DeliveryExpress {
		return DeliveryExpress
	}
	return DeliveryStandard
}

// Totals is always derived from the cart and never persisted.
type Totals struct {
	Subtotal    decimal.Decimal `json:"subtotal"`
	ShippingFee decimal.Decimal `json:"shippingFee"`
	GrandTotal  decimal.Decimal `json:"grandTotal"`
}

// MarshalJSON writes the amounts as plain JSON numbers. Reading accepts both
// numbers and quoted strings.
func (t Totals) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Subtotal    json.RawMessage `json:"subtotal"`
		ShippingFee json.RawMessage `json:"shippingFee"`
		GrandTotal  json.RawMessage `json:"grandTotal"`
	}{
		Subtotal:    json.RawMessage(t.Subtotal.String()),
		ShippingFee: json.RawMessage(t.ShippingFee.String()),
		GrandTotal:  json.RawMessage(t.GrandTotal.String()),
	})
}
