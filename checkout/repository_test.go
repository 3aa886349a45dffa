package checkout

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/novacart/checkout/checkout/models"
	"github.com/novacart/checkout/internal/kv"
)

func TestRepository_Lookup(t *testing.T) {
	ctx := context.Background()
	store := kv.NewMemory()
	repo := NewRepository(store)

	absent := repo.Cart(ctx)
	require.False(t, absent.Found)
	require.NoError(t, absent.Err)

	require.NoError(t, store.Set(ctx, KeyCart, []byte(`[{"id":"a","name":"Cap","price":25,"qty":2}`)))
	malformed := repo.Cart(ctx)
	require.False(t, malformed.Found)
	require.Error(t, malformed.Err)
	require.Nil(t, malformed.Value)
	require.Equal(t, []models.LineItem{}, malformed.OrDefault([]models.LineItem{}))

	require.NoError(t, repo.SaveCart(ctx, nil))
	raw, err := store.Get(ctx, KeyCart)
	require.NoError(t, err)
	require.Equal(t, "[]", string(raw))

	broken := NewRepository(brokenStore{}).CheckoutState(ctx)
	require.False(t, broken.Found)
	require.ErrorContains(t, broken.Err, "reading checkout_storage")
}

func TestRepository_CheckoutStateShape(t *testing.T) {
	ctx := context.Background()
	store := kv.NewMemory()
	repo := NewRepository(store)

	st := models.CheckoutState{
		Left: &models.Details{
			BillingInfo:    models.BillingInfo{FullName: "Ada Obi", Email: "ada@example.com", Phone: "0803"},
			ShippingInfo:   models.ShippingInfo{Address: "12 Marina Road", City: "Lagos", State: "Lagos", Country: "Nigeria"},
			DeliveryMethod: models.DeliveryExpress,
		},
	}
	require.NoError(t, repo.SaveCheckoutState(ctx, st))

	raw, err := store.Get(ctx, KeyCheckout)
	require.NoError(t, err)
	require.JSONEq(t, `{"left":{
		"billingInfo":{"fullName":"Ada Obi","email":"ada@example.com","phone":"0803"},
		"shippingInfo":{"address":"12 Marina Road","city":"Lagos","state":"Lagos","country":"Nigeria"},
		"deliveryMethod":"express"}}`, string(raw))

	got := repo.CheckoutState(ctx)
	require.True(t, got.Found)
	require.Equal(t, st, got.Value)

	require.NoError(t, repo.Clear(ctx))
	require.False(t, repo.CheckoutState(ctx).Found)
	require.Error(t, NewRepository(brokenStore{}).Clear(ctx))
}
