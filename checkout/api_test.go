package checkout_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/novacart/checkout/checkout"
	"github.com/novacart/checkout/checkout/models"
	"github.com/novacart/checkout/internal/countdown"
	"github.com/novacart/checkout/internal/kv"
	"github.com/novacart/checkout/internal/sl"
)

func newRouter() chi.Router {
	store := kv.NewMemory()
	svc := checkout.NewService(sl.Discard(), checkout.NewRepository(store))
	api := checkout.NewAPI(sl.Discard(), svc, countdown.New(store, sl.Discard()))

	router := chi.NewRouter()
	api.AppendRoutes(router)
	return router
}

func do(t *testing.T, router http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestAPI_Cart(t *testing.T) {
	router := newRouter()

	t.Run("empty cart is an empty list", func(t *testing.T) {
		w := do(t, router, http.MethodGet, "/cart", nil)
		require.Equal(t, http.StatusOK, w.Code)
		require.JSONEq(t, `[]`, w.Body.String())
	})

	var item models.LineItem
	t.Run("add item", func(t *testing.T) {
		w := do(t, router, http.MethodPost, "/cart/items", models.AddItem{Name: "Sneakers", Price: 600, Qty: 14})
		require.Equal(t, http.StatusCreated, w.Code)
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &item))
		require.NotEmpty(t, item.ID)
		require.Equal(t, 10, item.Qty)
	})

	t.Run("add item without a name", func(t *testing.T) {
		w := do(t, router, http.MethodPost, "/cart/items", models.AddItem{Price: 10})
		require.Equal(t, http.StatusUnprocessableEntity, w.Code)
		require.Contains(t, w.Body.String(), "field name is a required field")
	})

	t.Run("bad json", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/cart/items", bytes.NewBufferString("{"))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		require.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("update quantity", func(t *testing.T) {
		w := do(t, router, http.MethodPatch, "/cart/items/"+item.ID, models.UpdateQuantity{Qty: 2})
		require.Equal(t, http.StatusOK, w.Code)

		var updated models.LineItem
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &updated))
		require.Equal(t, 2, updated.Qty)
	})

	t.Run("totals", func(t *testing.T) {
		w := do(t, router, http.MethodGet, "/cart/totals?delivery=express", nil)
		require.Equal(t, http.StatusOK, w.Code)
		require.JSONEq(t, `{"subtotal":1200,"shippingFee":120,"grandTotal":1320}`, w.Body.String())
	})

	t.Run("sorted view", func(t *testing.T) {
		w := do(t, router, http.MethodPost, "/cart/items", models.AddItem{Name: "Socks", Price: 5, Qty: 1})
		require.Equal(t, http.StatusCreated, w.Code)

		w = do(t, router, http.MethodGet, "/cart?sort=price-low-high", nil)
		var items []models.LineItem
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &items))
		require.Len(t, items, 2)
		require.Equal(t, "Socks", items[0].Name)

		w = do(t, router, http.MethodGet, "/cart", nil)
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &items))
		require.Equal(t, "Sneakers", items[0].Name)
	})

	t.Run("remove item", func(t *testing.T) {
		w := do(t, router, http.MethodDelete, "/cart/items/"+item.ID, nil)
		require.Equal(t, http.StatusNoContent, w.Code)

		w = do(t, router, http.MethodDelete, "/cart/items/"+item.ID, nil)
		require.Equal(t, http.StatusNotFound, w.Code)
		require.Contains(t, w.Body.String(), `"status":"Error"`)
	})
}

func TestAPI_BillingValidate(t *testing.T) {
	router := newRouter()

	w := do(t, router, http.MethodPost, "/checkout/billing/validate", map[string]string{"phone": "08031234567"})
	require.Equal(t, http.StatusOK, w.Code)

	var res models.BillingCheck
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	require.Equal(t, "+234 803 123 4567", res.NormalizedPhone)
	require.Len(t, res.Problems, 6)
	require.Equal(t, "fullName", res.Problems[0].Field)
	require.Equal(t, "country", res.Problems[5].Field)
}

func TestAPI_CardInspect(t *testing.T) {
	router := newRouter()

	w := do(t, router, http.MethodPost, "/checkout/card/inspect", models.InspectCard{Number: "378282246310005"})
	require.Equal(t, http.StatusOK, w.Code)

	var res models.CardInspection
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	require.Equal(t, "amex", res.Brand)
	require.Equal(t, "3782-822463-10005", res.Formatted)
	require.Equal(t, 4, res.CVVLength)
	require.True(t, res.LuhnValid)
}

func TestAPI_SavedCard(t *testing.T) {
	router := newRouter()

	w := do(t, router, http.MethodGet, "/checkout/saved-card", nil)
	require.Equal(t, http.StatusNotFound, w.Code)

	w = do(t, router, http.MethodPut, "/checkout/saved-card", models.SaveCard{Number: "--", Expiry: "12/30"})
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = do(t, router, http.MethodPut, "/checkout/saved-card", models.SaveCard{Number: "4539578763621486", Expiry: "12/30"})
	require.Equal(t, http.StatusOK, w.Code)
	require.JSONEq(t, `{"maskedNumber":"****-****-****-1486","expiry":"12/30","brand":"visa"}`, w.Body.String())

	w = do(t, router, http.MethodGet, "/checkout/saved-card", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = do(t, router, http.MethodDelete, "/checkout/saved-card", nil)
	require.Equal(t, http.StatusNoContent, w.Code)

	w = do(t, router, http.MethodGet, "/checkout/saved-card", nil)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestAPI_Details(t *testing.T) {
	router := newRouter()

	w := do(t, router, http.MethodGet, "/checkout/details", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var d models.Details
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &d))
	require.Equal(t, models.DeliveryStandard, d.DeliveryMethod)

	in := models.Details{
		BillingInfo:    models.BillingInfo{FullName: "Ada Obi", Email: "ada@example.com", Phone: "08031234567"},
		ShippingInfo:   models.ShippingInfo{Address: "12 Marina Road", City: "Lagos", State: "Lagos", Country: "Nigeria"},
		DeliveryMethod: models.DeliveryExpress,
	}
	w = do(t, router, http.MethodPut, "/checkout/details", in)
	require.Equal(t, http.StatusOK, w.Code)

	w = do(t, router, http.MethodGet, "/checkout/details", nil)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &d))
	want := in
	want.BillingInfo.Phone = "+234 803 123 4567"
	require.Equal(t, want, d)
}

func TestAPI_PlaceOrder(t *testing.T) {
	router := newRouter()

	w := do(t, router, http.MethodPost, "/cart/items", models.AddItem{Name: "Watch", Price: 1001, Qty: 1})
	require.Equal(t, http.StatusCreated, w.Code)

	order := models.PlaceOrder{
		Details: models.Details{
			BillingInfo:    models.BillingInfo{FullName: "Ada Obi", Email: "ada@example.com", Phone: "08031234567"},
			ShippingInfo:   models.ShippingInfo{Address: "12 Marina Road", City: "Lagos", State: "Lagos", Country: "Nigeria"},
			DeliveryMethod: models.DeliveryStandard,
		},
		Card: models.CardInput{Number: "4539578763621486", Expiry: "12/99", CVV: "1234"},
	}

	t.Run("rejected", func(t *testing.T) {
		w := do(t, router, http.MethodPost, "/checkout/orders", order)
		require.Equal(t, http.StatusUnprocessableEntity, w.Code)

		var res models.OrderResult
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
		require.Equal(t, []models.Problem{{Field: "cvv", Message: "CVV must be 3 digits."}}, res.Problems)
		require.Equal(t, "1051.05", res.Totals.GrandTotal.String())
	})

	t.Run("placed", func(t *testing.T) {
		order.Card.CVV = "123"
		w := do(t, router, http.MethodPost, "/checkout/orders", order)
		require.Equal(t, http.StatusCreated, w.Code)

		var res models.OrderResult
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
		require.NotEmpty(t, res.OrderID)
		require.Empty(t, res.Problems)

		w = do(t, router, http.MethodGet, "/cart", nil)
		require.JSONEq(t, `[]`, w.Body.String())
	})
}

func TestAPI_Countdown(t *testing.T) {
	router := newRouter()

	w := do(t, router, http.MethodGet, "/countdown", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var res models.Countdown
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	require.InDelta(t, int64(countdown.InitialWindow.Seconds()), res.RemainingSeconds, 2)
	require.Len(t, res.Clock, 8)
}
