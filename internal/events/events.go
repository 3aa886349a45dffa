// Package events announces placed orders to the rest of the shop.
package events

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

const RoutingOrderPlaced = "order.placed"

// OrderPlaced never carries the card number or CVV; brand and last four
// digits are enough for receipts.
type OrderPlaced struct {
	OrderID        string          `json:"orderId"`
	Items          int             `json:"items"`
	DeliveryMethod string          `json:"deliveryMethod"`
	Subtotal       decimal.Decimal `json:"subtotal"`
	ShippingFee    decimal.Decimal `json:"shippingFee"`
	GrandTotal     decimal.Decimal `json:"grandTotal"`
	CardBrand      string          `json:"cardBrand"`
	CardLast4      string          `json:"cardLast4"`
	Email          string          `json:"email"`
	PlacedAt       time.Time       `json:"placedAt"`
}

type Publisher interface {
	PublishOrderPlaced(ctx context.Context, e OrderPlaced) error
}

// Nop drops every event. It is used when no broker is configured.
type Nop struct{}

func (Nop) PublishOrderPlaced(context.Context, OrderPlaced) error { return nil }
