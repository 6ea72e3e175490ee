package invoice

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/fakturering/adapter/cli"
	"github.com/felixgeelhaar/fakturering/internal/invoicing/application/queries"
	"github.com/felixgeelhaar/fakturering/internal/invoicing/domain/invoice"
)

var getCmd = &cobra.Command{
	Use:   "get [id]",
	Short: "Show an invoice",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil || app.GetInvoiceHandler == nil {
			return cli.ErrNotInitialized
		}

		dto, err := app.GetInvoiceHandler.Handle(cmd.Context(), queries.GetInvoiceQuery{
			InvoiceID: invoice.ID(args[0]),
		})
		if err != nil {
			return fmt.Errorf("failed to get invoice %s: %w", args[0], err)
		}

		return cli.PrintJSON(cmd.OutOrStdout(), dto)
	},
}
