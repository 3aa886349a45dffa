package totals

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/novacart/checkout/checkout/models"
)

func requireDecimal(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	require.Truef(t, decimal.RequireFromString(want).Equal(got), "want %s got %s", want, got)
}

func TestClampQuantity(t *testing.T) {
	cases := map[int]int{-3: 1, 0: 1, 1: 1, 5: 5, 10: 10, 11: 10, 99: 10}
	for in, want := range cases {
		require.Equal(t, want, ClampQuantity(in), in)
	}
}

func TestSubtotal(t *testing.T) {
	items := []models.LineItem{{Price: 10, Qty: 3}, {Price: 5, Qty: 1}}
	requireDecimal(t, "35", Subtotal(items))

	requireDecimal(t, "0", Subtotal(nil))
	requireDecimal(t, "19.99", Subtotal([]models.LineItem{{Price: 19.99, Qty: 0}}))
	requireDecimal(t, "0.3", Subtotal([]models.LineItem{{Price: 0.1, Qty: 1}, {Price: 0.2, Qty: 1}}))
}

func TestShipping(t *testing.T) {
	requireDecimal(t, "0", Shipping(decimal.NewFromInt(1000), models.DeliveryStandard))
	requireDecimal(t, "0", Shipping(decimal.NewFromInt(1000), models.DeliveryExpress))
	requireDecimal(t, "0", Shipping(decimal.Zero, models.DeliveryExpress))
	requireDecimal(t, "50.05", Shipping(decimal.NewFromInt(1001), models.DeliveryStandard))
	requireDecimal(t, "100.1", Shipping(decimal.NewFromInt(1001), models.DeliveryExpress))
	requireDecimal(t, "50.05", Shipping(decimal.NewFromInt(1001), models.ParseDeliveryMethod("drone")))
}

func TestCompute(t *testing.T) {
	items := []models.LineItem{
		{ID: "a", Name: "Sneakers", Price: 450, Qty: 2},
		{ID: "b", Name: "Socks", Price: 20.5, Qty: 4},
	}

	std := Compute(items, models.DeliveryStandard)
	requireDecimal(t, "982", std.Subtotal)
	requireDecimal(t, "0", std.ShippingFee)
	requireDecimal(t, "982", std.GrandTotal)

	items = append(items, models.LineItem{ID: "c", Name: "Cap", Price: 100, Qty: 1})
	exp := Compute(items, models.DeliveryExpress)
	requireDecimal(t, "1082", exp.Subtotal)
	requireDecimal(t, "108.2", exp.ShippingFee)
	requireDecimal(t, "1190.2", exp.GrandTotal)
}
