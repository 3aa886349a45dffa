package main

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/novacart/checkout/checkout/models"
	"github.com/novacart/checkout/internal/billing"
	"github.com/novacart/checkout/internal/cardrules"
	"github.com/novacart/checkout/internal/catalog"
	"github.com/novacart/checkout/internal/expiry"
	"github.com/novacart/checkout/internal/totals"
)

func newInspectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <number>",
		Short: "Detect brand, format and mask a card number",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return printJSON(cmd.OutOrStdout(), cardrules.Inspect(args[0]))
		},
	}
}

func newGenCmd() *cobra.Command {
	var (
		prefix string
		length int
		count  int
	)
	cmd := &cobra.Command{
		Use:   "gen",
		Short: "Generate Luhn valid test card numbers",
		RunE: func(cmd *cobra.Command, args []string) error {
			if count < 1 {
				return fmt.Errorf("--count must be positive")
			}
			for i := 0; i < count; i++ {
				n, err := cardrules.GenerateTestNumber(prefix, length)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s  %s\n", n, cardrules.DetectBrand(n))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&prefix, "prefix", "4", "leading digits of the number")
	cmd.Flags().IntVar(&length, "length", 16, "total number of digits (13..19)")
	cmd.Flags().IntVar(&count, "count", 1, "how many numbers to print")
	return cmd
}

func newPhoneCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "phone <raw>",
		Short: "Normalise a Nigerian phone number",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), billing.NormalizePhone(args[0]))
			return nil
		},
	}
}

func newExpiryCmd() *cobra.Command {
	var tz string
	cmd := &cobra.Command{
		Use:   "expiry <MM/YY>",
		Short: "Check whether a card expiry is still good",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			loc, err := time.LoadLocation(tz)
			if err != nil {
				return fmt.Errorf("loading timezone %q: %w", tz, err)
			}
			face := strings.TrimSpace(args[0])
			if !strings.Contains(face, "/") {
				face = expiry.FormatInput(face)
			}
			state := "expired"
			if expiry.ValidFace(face, time.Now().In(loc)) {
				state = "valid"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", face, state)
			return nil
		},
	}
	cmd.Flags().StringVar(&tz, "tz", "UTC", "IANA timezone the expiry is judged in")
	return cmd
}

func newTotalsCmd() *cobra.Command {
	var (
		delivery string
		rows     []string
	)
	cmd := &cobra.Command{
		Use:   "totals",
		Short: "Compute subtotal, shipping and grand total",
		RunE: func(cmd *cobra.Command, args []string) error {
			items := make([]models.LineItem, 0, len(rows))
			for _, row := range rows {
				item, err := parseItem(row)
				if err != nil {
					return err
				}
				items = append(items, item)
			}
			return printJSON(cmd.OutOrStdout(), totals.Compute(items, models.ParseDeliveryMethod(delivery)))
		},
	}
	cmd.Flags().StringVar(&delivery, "delivery", string(models.DeliveryStandard), "standard or express")
	cmd.Flags().StringArrayVar(&rows, "item", nil, "cart row as price:qty, repeatable")
	return cmd
}

// parseItem reads "price:qty"; a missing quantity means one.
func parseItem(s string) (models.LineItem, error) {
	price, qty, found := strings.Cut(s, ":")
	p, err := strconv.ParseFloat(strings.TrimSpace(price), 64)
	if err != nil {
		return models.LineItem{}, fmt.Errorf("item %q: bad price: %w", s, err)
	}
	q := 1
	if found {
		q, err = strconv.Atoi(strings.TrimSpace(qty))
		if err != nil {
			return models.LineItem{}, fmt.Errorf("item %q: bad quantity: %w", s, err)
		}
	}
	return models.LineItem{Price: p, Qty: totals.ClampQuantity(q)}, nil
}

func newSortCmd() *cobra.Command {
	var mode string
	cmd := &cobra.Command{
		Use:   "sort",
		Short: "Sort a JSON product listing read from stdin",
		RunE: func(cmd *cobra.Command, args []string) error {
			var products []catalog.Product
			if err := json.NewDecoder(cmd.InOrStdin()).Decode(&products); err != nil {
				return fmt.Errorf("decoding products: %w", err)
			}
			return printJSON(cmd.OutOrStdout(), catalog.Sort(products, catalog.ParseMode(mode)))
		},
	}
	cmd.Flags().StringVar(&mode, "mode", string(catalog.ModeDefault), "default, price-low-high, price-high-low or new-arrivals")
	return cmd
}
