// Package checkoutclient talks to a running checkout service over HTTP.
package checkoutclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/novacart/checkout/checkout/models"
)

type Client struct {
	Base string
	HTTP *http.Client
}

func New(base string, hc *http.Client) *Client {
	if hc == nil {
		hc = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{Base: strings.TrimRight(base, "/"), HTTP: hc}
}

// StatusError is returned for unexpected response codes.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("status=%d body=%s", e.Code, e.Body)
}

func (c *Client) Cart(ctx context.Context, sort string) ([]models.LineItem, error) {
	target := c.Base + "/cart"
	if sort != "" {
		target += "?sort=" + url.QueryEscape(sort)
	}
	var items []models.LineItem
	_, err := c.do(ctx, http.MethodGet, target, nil, &items, http.StatusOK)
	return items, err
}

func (c *Client) AddItem(ctx context.Context, req models.AddItem) (models.LineItem, error) {
	var item models.LineItem
	_, err := c.do(ctx, http.MethodPost, c.Base+"/cart/items", req, &item, http.StatusCreated)
	return item, err
}

func (c *Client) Totals(ctx context.Context, method models.DeliveryMethod) (models.Totals, error) {
	var t models.Totals
	target := c.Base + "/cart/totals?delivery=" + url.QueryEscape(string(method))
	_, err := c.do(ctx, http.MethodGet, target, nil, &t, http.StatusOK)
	return t, err
}

func (c *Client) InspectCard(ctx context.Context, number string) (models.CardInspection, error) {
	var out models.CardInspection
	_, err := c.do(ctx, http.MethodPost, c.Base+"/checkout/card/inspect", models.InspectCard{Number: number}, &out, http.StatusOK)
	return out, err
}

// PlaceOrder returns the result for both placed and rejected orders; only
// transport failures and unexpected statuses are errors.
func (c *Client) PlaceOrder(ctx context.Context, req models.PlaceOrder) (models.OrderResult, error) {
	var res models.OrderResult
	_, err := c.do(ctx, http.MethodPost, c.Base+"/checkout/orders", req, &res,
		http.StatusCreated, http.StatusUnprocessableEntity)
	return res, err
}

func (c *Client) do(ctx context.Context, method, target string, body, out any, want ...int) (int, error) {
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return 0, fmt.Errorf("encode request: %w", err)
		}
		rd = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, target, rd)
	if err != nil {
		return 0, fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return 0, fmt.Errorf("%s %s: %w", method, target, err)
	}
	defer resp.Body.Close()

	ok := false
	for _, code := range want {
		if resp.StatusCode == code {
			ok = true
			break
		}
	}
	if !ok {
		b, _ := io.ReadAll(resp.Body)
		return resp.StatusCode, fmt.Errorf("%s %s: %w", method, target,
			&StatusError{Code: resp.StatusCode, Body: strings.TrimSpace(string(b))})
	}
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return resp.StatusCode, fmt.Errorf("decode response: %w", err)
		}
	}
	return resp.StatusCode, nil
}
