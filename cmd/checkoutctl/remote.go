package main

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/novacart/checkout/checkout/models"
	"github.com/novacart/checkout/internal/checkoutclient"
)

func newRemoteCmd() *cobra.Command {
	var (
		addr    string
		timeout time.Duration
	)
	remote := &cobra.Command{
		Use:   "remote",
		Short: "Query a running checkout service",
	}
	remote.PersistentFlags().StringVar(&addr, "addr", "http://localhost:9090", "checkout service base URL")
	remote.PersistentFlags().DurationVar(&timeout, "timeout", 10*time.Second, "request timeout")

	client := func() *checkoutclient.Client { return checkoutclient.New(addr, nil) }

	var delivery string
	totalsCmd := &cobra.Command{
		Use:   "totals",
		Short: "Show the totals of the current cart",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()
			t, err := client().Totals(ctx, models.ParseDeliveryMethod(delivery))
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), t)
		},
	}
	totalsCmd.Flags().StringVar(&delivery, "delivery", string(models.DeliveryStandard), "standard or express")

	var sortMode string
	cartCmd := &cobra.Command{
		Use:   "cart",
		Short: "List the rows of the current cart",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()
			items, err := client().Cart(ctx, sortMode)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), items)
		},
	}
	cartCmd.Flags().StringVar(&sortMode, "sort", "", "display order of the rows")

	inspectCmd := &cobra.Command{
		Use:   "inspect <number>",
		Short: "Ask the service how it reads a card number",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()
			out, err := client().InspectCard(ctx, args[0])
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), out)
		},
	}

	remote.AddCommand(totalsCmd, cartCmd, inspectCmd)
	return remote
}
