package checkout

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"
	"golang.org/x/exp/slog"

	"github.com/novacart/checkout/checkout/models"
	"github.com/novacart/checkout/internal/billing"
	"github.com/novacart/checkout/internal/cardrules"
	"github.com/novacart/checkout/internal/catalog"
	"github.com/novacart/checkout/internal/countdown"
	"github.com/novacart/checkout/internal/sl"
)

// API is a HTTP API for the checkout service
type API struct {
	checkout  *Service
	countdown *countdown.Timer
	logger    *slog.Logger
	validate  *validator.Validate
}

func NewAPI(logger *slog.Logger, checkout *Service, timer *countdown.Timer) *API {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})
	if err := billing.RegisterValidations(v); err != nil {
		panic(err)
	}
	return &API{
		checkout:  checkout,
		countdown: timer,
		logger:    logger,
		validate:  v,
	}
}

func (a *API) AppendRoutes(r chi.Router) {
	r.Route("/cart", func(r chi.Router) {
		r.Get("/", a.getCart)
		r.Get("/totals", a.getTotals)
		r.Post("/items", a.addItem)
		r.Patch("/items/{itemID}", a.updateQuantity)
		r.Delete("/items/{itemID}", a.removeItem)
	})
	r.Route("/checkout", func(r chi.Router) {
		r.Get("/details", a.getDetails)
		r.Put("/details", a.saveDetails)
		r.Post("/billing/validate", a.validateBilling)
		r.Post("/card/inspect", a.inspectCard)
		r.Get("/saved-card", a.getSavedCard)
		r.Put("/saved-card", a.saveCard)
		r.Delete("/saved-card", a.clearSavedCard)
		r.Post("/orders", a.placeOrder)
	})
	r.Get("/countdown", a.getCountdown)
}

// errorResponse is the body of every non-2xx answer.
type errorResponse struct {
	Status string `json:"status"`
	Error  string `json:"error"`
}

func (a *API) fail(w http.ResponseWriter, r *http.Request, status int, msg string) {
	render.Status(r, status)
	render.JSON(w, r, errorResponse{Status: "Error", Error: msg})
}

func (a *API) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := render.DecodeJSON(r.Body, v); err != nil {
		a.logger.Debug("decoding request", slog.String("request_id", chimw.GetReqID(r.Context())), sl.Err(err))
		a.fail(w, r, http.StatusBadRequest, "invalid request body")
		return false
	}
	if err := a.validate.Struct(v); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			a.fail(w, r, http.StatusUnprocessableEntity, validationMessage(verrs))
			return false
		}
		a.fail(w, r, http.StatusBadRequest, err.Error())
		return false
	}
	return true
}

func validationMessage(errs validator.ValidationErrors) string {
	msgs := make([]string, 0, len(errs))
	for _, err := range errs {
		switch err.ActualTag() {
		case "required":
			msgs = append(msgs, fmt.Sprintf("field %s is a required field", err.Field()))
		case "gte":
			msgs = append(msgs, fmt.Sprintf("field %s must be at least %s", err.Field(), err.Param()))
		default:
			msgs = append(msgs, fmt.Sprintf("field %s is not valid", err.Field()))
		}
	}
	return strings.Join(msgs, ", ")
}

func (a *API) getCart(w http.ResponseWriter, r *http.Request) {
	mode := catalog.ParseMode(r.URL.Query().Get("sort"))
	render.JSON(w, r, a.checkout.SortedCart(r.Context(), mode))
}

func (a *API) getTotals(w http.ResponseWriter, r *http.Request) {
	method := models.ParseDeliveryMethod(r.URL.Query().Get("delivery"))
	render.JSON(w, r, a.checkout.Totals(r.Context(), method))
}

func (a *API) addItem(w http.ResponseWriter, r *http.Request) {
	var req models.AddItem
	if !a.decode(w, r, &req) {
		return
	}

	item, err := a.checkout.AddItem(r.Context(), req)
	if err != nil {
		a.fail(w, r, http.StatusUnprocessableEntity, err.Error())
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, item)
}

func (a *API) updateQuantity(w http.ResponseWriter, r *http.Request) {
	itemID := chi.URLParam(r, "itemID")

	var req models.UpdateQuantity
	if !a.decode(w, r, &req) {
		return
	}

	item, err := a.checkout.UpdateQuantity(r.Context(), itemID, req.Qty)
	if err != nil {
		a.failService(w, r, err)
		return
	}
	render.JSON(w, r, item)
}

func (a *API) removeItem(w http.ResponseWriter, r *http.Request) {
	itemID := chi.URLParam(r, "itemID")

	if err := a.checkout.RemoveItem(r.Context(), itemID); err != nil {
		a.failService(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *API) getDetails(w http.ResponseWriter, r *http.Request) {
	details, _ := a.checkout.Details(r.Context())
	render.JSON(w, r, details)
}

func (a *API) saveDetails(w http.ResponseWriter, r *http.Request) {
	var req models.Details
	if !a.decode(w, r, &req) {
		return
	}
	render.JSON(w, r, a.checkout.SaveDetails(r.Context(), req))
}

func (a *API) validateBilling(w http.ResponseWriter, r *http.Request) {
	var req billing.Fields
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		a.fail(w, r, http.StatusBadRequest, "invalid request body")
		return
	}

	problems, phone := a.checkout.ValidateBilling(req)
	if problems == nil {
		problems = []models.Problem{}
	}
	render.JSON(w, r, models.BillingCheck{Problems: problems, NormalizedPhone: phone})
}

func (a *API) inspectCard(w http.ResponseWriter, r *http.Request) {
	var req models.InspectCard
	if !a.decode(w, r, &req) {
		return
	}
	render.JSON(w, r, cardrules.Inspect(req.Number))
}

func (a *API) getSavedCard(w http.ResponseWriter, r *http.Request) {
	card, err := a.checkout.SavedCard(r.Context())
	if err != nil {
		a.failService(w, r, err)
		return
	}
	render.JSON(w, r, card)
}

func (a *API) saveCard(w http.ResponseWriter, r *http.Request) {
	var req models.SaveCard
	if !a.decode(w, r, &req) {
		return
	}

	card, err := a.checkout.SaveCard(r.Context(), req.Number, req.Expiry)
	if err != nil {
		a.failService(w, r, err)
		return
	}
	render.JSON(w, r, card)
}

func (a *API) clearSavedCard(w http.ResponseWriter, r *http.Request) {
	a.checkout.ClearSavedCard(r.Context())
	w.WriteHeader(http.StatusNoContent)
}

func (a *API) placeOrder(w http.ResponseWriter, r *http.Request) {
	var req models.PlaceOrder
	if !a.decode(w, r, &req) {
		return
	}

	res, err := a.checkout.PlaceOrder(r.Context(), req)
	if err != nil {
		a.failService(w, r, err)
		return
	}

	if !res.Placed() {
		render.Status(r, http.StatusUnprocessableEntity)
	} else {
		render.Status(r, http.StatusCreated)
	}
	render.JSON(w, r, res)
}

func (a *API) getCountdown(w http.ResponseWriter, r *http.Request) {
	left := a.countdown.Remaining(r.Context())
	render.JSON(w, r, models.Countdown{
		RemainingSeconds: int64(left / time.Second),
		Clock:            countdown.Clock(left),
	})
}

func (a *API) failService(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		a.fail(w, r, http.StatusNotFound, err.Error())
	case errors.Is(err, ErrEmptyCard), errors.Is(err, ErrInvalidItem):
		a.fail(w, r, http.StatusUnprocessableEntity, err.Error())
	default:
		a.logger.Error("request failed", slog.String("path", r.URL.Path), sl.Err(err))
		a.fail(w, r, http.StatusInternalServerError, "internal error")
	}
}
