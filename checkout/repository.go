package checkout

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/novacart/checkout/checkout/models"
	"github.com/novacart/checkout/internal/kv"
)

// Storage keys shared with the shop front end.
const (
	KeyCheckout = "checkout_storage"
	KeyCart     = "cart_storage"
)

var (
	ErrNotFound  = errors.New("not found")
	ErrEmptyCard = errors.New("card number is empty")
)

// Lookup is the outcome of a read. A missing key is Found=false with no
// error; unreadable data or a failing backend sets Err. In both cases Value
// is the zero value and callers fall back to defaults.
type Lookup[T any] struct {
	Value T
	Found bool
	Err   error
}

// OrDefault returns Value when it was found and def otherwise.
func (l Lookup[T]) OrDefault(def T) T {
	if !l.Found || l.Err != nil {
		return def
	}
	return l.Value
}

// Repository stores checkout documents as JSON in a kv.Store.
type Repository struct {
	store kv.Store
}

func NewRepository(store kv.Store) *Repository {
	return &Repository{store: store}
}

func (r *Repository) Cart(ctx context.Context) Lookup[[]models.LineItem] {
	return load[[]models.LineItem](ctx, r.store, KeyCart)
}

func (r *Repository) SaveCart(ctx context.Context, items []models.LineItem) error {
	if items == nil {
		items = []models.LineItem{}
	}
	return save(ctx, r.store, KeyCart, items)
}

func (r *Repository) CheckoutState(ctx context.Context) Lookup[models.CheckoutState] {
	return load[models.CheckoutState](ctx, r.store, KeyCheckout)
}

func (r *Repository) SaveCheckoutState(ctx context.Context, st models.CheckoutState) error {
	return save(ctx, r.store, KeyCheckout, st)
}

// Clear removes both the cart and the checkout document.
func (r *Repository) Clear(ctx context.Context) error {
	cartErr := r.store.Remove(ctx, KeyCart)
	checkoutErr := r.store.Remove(ctx, KeyCheckout)
	if cartErr != nil {
		return fmt.Errorf("removing %s: %w", KeyCart, cartErr)
	}
	if checkoutErr != nil {
		return fmt.Errorf("removing %s: %w", KeyCheckout, checkoutErr)
	}
	return nil
}

// Ping reports backend readiness.
func (r *Repository) Ping(ctx context.Context) error {
	return kv.Ping(ctx, r.store)
}

func load[T any](ctx context.Context, store kv.Store, key string) Lookup[T] {
	var out Lookup[T]
	raw, err := store.Get(ctx, key)
	if errors.Is(err, kv.ErrNotFound) {
		return out
	}
	if err != nil {
		out.Err = fmt.Errorf("reading %s: %w", key, err)
		return out
	}
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		out.Err = fmt.Errorf("decoding %s: %w", key, err)
		return out
	}
	out.Value, out.Found = v, true
	return out
}

func save(ctx context.Context, store kv.Store, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", key, err)
	}
	if err := store.Set(ctx, key, raw); err != nil {
		return fmt.Errorf("writing %s: %w", key, err)
	}
	return nil
}
