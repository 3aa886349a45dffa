// Command checkoutctl runs the checkout rules from a terminal and talks to a
// running checkout service.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "checkoutctl",
		Short:         "Card, billing and totals rules of the checkout page",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newInspectCmd(),
		newGenCmd(),
		newPhoneCmd(),
		newExpiryCmd(),
		newTotalsCmd(),
		newSortCmd(),
		newRemoteCmd(),
	)
	return root
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
