// Package catalog orders product listings and cart rows for display.
package catalog

import (
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/novacart/checkout/checkout/models"
)

type Mode string

const (
	ModeDefault      Mode = "default"
	ModePriceLowHigh Mode = "price-low-high"
	ModePriceHighLow Mode = "price-high-low"
	ModeNewArrivals  Mode = "new-arrivals"
)

// ParseMode maps unknown or empty input to ModeDefault.
func ParseMode(s string) Mode {
	switch m := Mode(strings.TrimSpace(s)); m {
	case ModePriceLowHigh, ModePriceHighLow, ModeNewArrivals:
		return m
	default:
		return ModeDefault
	}
}

// Product is a listing as it appears on the shop page: price as displayed
// text and an optional arrival date.
type Product struct {
	Name  string `json:"name"`
	Price string `json:"price"`
	Date  string `json:"date,omitempty"`
}

// ParsePrice reads a displayed price such as "$ 1,234.56". Everything but
// digits and dots is dropped and the longest leading number wins; garbage
// reads as zero.
func ParsePrice(s string) float64 {
	cleaned := strings.Map(func(r rune) rune {
		if (r >= '0' && r <= '9') || r == '.' {
			return r
		}
		return -1
	}, s)

	end, dot := 0, false
	for end < len(cleaned) {
		if cleaned[end] == '.' {
			if dot {
				break
			}
			dot = true
		}
		end++
	}
	f, err := strconv.ParseFloat(cleaned[:end], 64)
	if err != nil {
		return 0
	}
	return f
}

var dateLayouts = []string{time.RFC3339, "2006-01-02T15:04", "2006-01-02"}

// parseDate treats anything unreadable as the epoch, so undated products
// sort as the oldest.
func parseDate(s string) time.Time {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Unix(0, 0)
}

// Sort returns a sorted copy of products. The input order is taken as the
// default order. Sorting is stable, so equal prices keep their positions.
func Sort(products []Product, mode Mode) []Product {
	out := make([]Product, len(products))
	copy(out, products)
	switch mode {
	case ModePriceLowHigh:
		sort.SliceStable(out, func(i, j int) bool { return ParsePrice(out[i].Price) < ParsePrice(out[j].Price) })
	case ModePriceHighLow:
		sort.SliceStable(out, func(i, j int) bool { return ParsePrice(out[i].Price) > ParsePrice(out[j].Price) })
	case ModeNewArrivals:
		sort.SliceStable(out, func(i, j int) bool { return parseDate(out[i].Date).After(parseDate(out[j].Date)) })
	}
	return out
}

// SortLineItems orders cart rows for display without touching the stored
// order. Rows carry no arrival date, so new-arrivals shows the most recently
// added row first.
func SortLineItems(items []models.LineItem, mode Mode) []models.LineItem {
	out := make([]models.LineItem, len(items))
	copy(out, items)
	switch mode {
	case ModePriceLowHigh:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Price < out[j].Price })
	case ModePriceHighLow:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Price > out[j].Price })
	case ModeNewArrivals:
		for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
			out[i], out[j] = out[j], out[i]
		}
	}
	return out
}
