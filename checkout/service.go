package checkout

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/exp/slog"

	"github.com/novacart/checkout/checkout/models"
	"github.com/novacart/checkout/internal/billing"
	"github.com/novacart/checkout/internal/cardrules"
	"github.com/novacart/checkout/internal/catalog"
	"github.com/novacart/checkout/internal/events"
	"github.com/novacart/checkout/internal/metrics"
	"github.com/novacart/checkout/internal/sl"
	"github.com/novacart/checkout/internal/totals"
)

var ErrInvalidItem = errors.New("invalid line item")

// Service is the checkout coordinator. It owns all reads and writes of
// checkout state; storage faults are logged, counted and otherwise ignored.
type Service struct {
	repo      *Repository
	publisher events.Publisher
	metrics   *metrics.Metrics
	logger    *slog.Logger
	loc       *time.Location
	now       func() time.Time

	// mu serialises read-modify-write cycles on stored documents.
	mu sync.Mutex
}

type ServiceOption func(*Service)

func WithPublisher(p events.Publisher) ServiceOption {
	return func(s *Service) { s.publisher = p }
}

func WithMetrics(m *metrics.Metrics) ServiceOption {
	return func(s *Service) { s.metrics = m }
}

// WithLocation sets the timezone card expiry is judged in.
func WithLocation(loc *time.Location) ServiceOption {
	return func(s *Service) { s.loc = loc }
}

func WithClock(now func() time.Time) ServiceOption {
	return func(s *Service) { s.now = now }
}

func NewService(logger *slog.Logger, repo *Repository, opts ...ServiceOption) *Service {
	s := &Service{
		repo:      repo,
		publisher: events.Nop{},
		logger:    logger,
		loc:       time.UTC,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.metrics == nil {
		s.metrics = metrics.New()
	}
	return s
}

// Cart returns the stored line items in insertion order.
func (s *Service) Cart(ctx context.Context) []models.LineItem {
	l := s.repo.Cart(ctx)
	s.readFailed(KeyCart, l.Err)
	items := l.OrDefault(nil)
	if items == nil {
		items = []models.LineItem{}
	}
	return items
}

// SortedCart is a display ordering of the cart; storage order is unchanged.
func (s *Service) SortedCart(ctx context.Context, mode catalog.Mode) []models.LineItem {
	return catalog.SortLineItems(s.Cart(ctx), mode)
}

func (s *Service) AddItem(ctx context.Context, req models.AddItem) (models.LineItem, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" || req.Price < 0 {
		return models.LineItem{}, fmt.Errorf("%w: name is required and price must not be negative", ErrInvalidItem)
	}
	item := models.LineItem{
		ID:    uuid.New().String(),
		Image: req.Image,
		Name:  name,
		Price: req.Price,
		Qty:   totals.ClampQuantity(req.Qty),
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	items := append(s.Cart(ctx), item)
	s.writeFailed(KeyCart, s.repo.SaveCart(ctx, items))
	s.metrics.CartMutations.WithLabelValues("add").Inc()
	return item, nil
}

// UpdateQuantity sets a row's quantity, clamped to the allowed range.
func (s *Service) UpdateQuantity(ctx context.Context, itemID string, qty int) (models.LineItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	items := s.Cart(ctx)
	for i := range items {
		if items[i].ID != itemID {
			continue
		}
		items[i].Qty = totals.ClampQuantity(qty)
		s.writeFailed(KeyCart, s.repo.SaveCart(ctx, items))
		s.metrics.CartMutations.WithLabelValues("update").Inc()
		return items[i], nil
	}
	return models.LineItem{}, fmt.Errorf("line item %s: %w", itemID, ErrNotFound)
}

func (s *Service) RemoveItem(ctx context.Context, itemID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	items := s.Cart(ctx)
	for i := range items {
		if items[i].ID != itemID {
			continue
		}
		items = append(items[:i], items[i+1:]...)
		s.writeFailed(KeyCart, s.repo.SaveCart(ctx, items))
		s.metrics.CartMutations.WithLabelValues("remove").Inc()
		return nil
	}
	return fmt.Errorf("line item %s: %w", itemID, ErrNotFound)
}

func (s *Service) Totals(ctx context.Context, method models.DeliveryMethod) models.Totals {
	return totals.Compute(s.Cart(ctx), method)
}

func (s *Service) state(ctx context.Context) models.CheckoutState {
	l := s.repo.CheckoutState(ctx)
	s.readFailed(KeyCheckout, l.Err)
	return l.OrDefault(models.CheckoutState{})
}

// Details returns the saved billing and shipping section and whether one
// has been saved.
func (s *Service) Details(ctx context.Context) (models.Details, bool) {
	st := s.state(ctx)
	if st.Left == nil {
		return models.Details{DeliveryMethod: models.DeliveryStandard}, false
	}
	return *st.Left, true
}

// SaveDetails replaces the billing and shipping section and keeps any saved
// card. The phone is stored in its normalised form.
func (s *Service) SaveDetails(ctx context.Context, d models.Details) models.Details {
	d.DeliveryMethod = models.ParseDeliveryMethod(string(d.DeliveryMethod))
	d.BillingInfo.Phone = billing.NormalizePhone(d.BillingInfo.Phone)

	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.state(ctx)
	st.Left = &d
	s.writeFailed(KeyCheckout, s.repo.SaveCheckoutState(ctx, st))
	return d
}

// SaveCard keeps a masked copy of the card for the next visit. Only the
// masked number, expiry and brand are stored.
func (s *Service) SaveCard(ctx context.Context, number, expiry string) (models.SavedCard, error) {
	digits := cardrules.OnlyDigits(number)
	if digits == "" {
		return models.SavedCard{}, ErrEmptyCard
	}
	card := models.SavedCard{
		MaskedNumber: cardrules.MaskForStorage(digits),
		Expiry:       expiry,
		Brand:        string(cardrules.DetectBrand(digits)),
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.state(ctx)
	st.SavedCard = &card
	s.writeFailed(KeyCheckout, s.repo.SaveCheckoutState(ctx, st))
	return card, nil
}

func (s *Service) SavedCard(ctx context.Context) (models.SavedCard, error) {
	st := s.state(ctx)
	if st.SavedCard == nil || st.SavedCard.MaskedNumber == "" {
		return models.SavedCard{}, fmt.Errorf("saved card: %w", ErrNotFound)
	}
	return *st.SavedCard, nil
}

func (s *Service) ClearSavedCard(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.state(ctx)
	if st.SavedCard == nil {
		return
	}
	st.SavedCard = nil
	s.writeFailed(KeyCheckout, s.repo.SaveCheckoutState(ctx, st))
}

// ValidateBilling runs the billing rules and returns the phone as it would be
// shown after normalisation.
func (s *Service) ValidateBilling(f billing.Fields) ([]models.Problem, string) {
	return billing.ValidateAll(f), billing.NormalizePhone(f.Phone)
}

// PlaceOrder validates the form, billing first and payment second. With
// problems nothing changes and the problems come back with the current
// totals. Otherwise the order is announced and the cart and checkout state
// are cleared.
func (s *Service) PlaceOrder(ctx context.Context, req models.PlaceOrder) (models.OrderResult, error) {
	if err := ctx.Err(); err != nil {
		return models.OrderResult{}, err
	}
	now := s.now().In(s.loc)

	var problems []models.Problem
	problems = append(problems, billing.ValidateAll(billing.FieldsFrom(req.Details))...)
	problems = append(problems, cardrules.ValidatePayment(req.Card, now)...)

	s.mu.Lock()
	defer s.mu.Unlock()

	items := s.Cart(ctx)
	method := models.ParseDeliveryMethod(string(req.DeliveryMethod))
	sum := totals.Compute(items, method)

	if len(problems) > 0 {
		s.metrics.OrdersRejected.WithLabelValues(problems[0].Field).Inc()
		return models.OrderResult{Problems: problems, Totals: sum}, nil
	}

	orderID := uuid.New().String()
	digits := cardrules.OnlyDigits(req.Card.Number)
	event := events.OrderPlaced{
		OrderID:        orderID,
		Items:          len(items),
		DeliveryMethod: string(method),
		Subtotal:       sum.Subtotal,
		ShippingFee:    sum.ShippingFee,
		GrandTotal:     sum.GrandTotal,
		CardBrand:      string(cardrules.DetectBrand(digits)),
		CardLast4:      cardrules.LastN(digits, 4),
		Email:          strings.TrimSpace(req.BillingInfo.Email),
		PlacedAt:       now,
	}
	if err := s.publisher.PublishOrderPlaced(ctx, event); err != nil {
		s.logger.Warn("publishing order event", slog.String("order_id", orderID), sl.Err(err))
	}

	if err := s.repo.Clear(ctx); err != nil {
		s.metrics.StorageFailures.WithLabelValues("remove", "all").Inc()
		s.logger.Warn("clearing checkout state", slog.String("order_id", orderID), sl.Err(err))
	}

	s.metrics.OrdersPlaced.Inc()
	s.logger.Info("order placed",
		slog.String("order_id", orderID),
		slog.Int("items", len(items)),
		slog.String("grand_total", sum.GrandTotal.String()),
	)
	return models.OrderResult{OrderID: orderID, Totals: sum}, nil
}

func (s *Service) readFailed(key string, err error) {
	if err == nil {
		return
	}
	s.metrics.StorageFailures.WithLabelValues("get", key).Inc()
	s.logger.Warn("storage read failed, using defaults", slog.String("key", key), sl.Err(err))
}

func (s *Service) writeFailed(key string, err error) {
	if err == nil {
		return
	}
	s.metrics.StorageFailures.WithLabelValues("set", key).Inc()
	s.logger.Warn("storage write failed", slog.String("key", key), sl.Err(err))
}

// Ping reports whether the storage backend is reachable.
func (s *Service) Ping(ctx context.Context) error {
	return s.repo.Ping(ctx)
}
