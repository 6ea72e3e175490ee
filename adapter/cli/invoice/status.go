package invoice

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/fakturering/adapter/cli"
	"github.com/felixgeelhaar/fakturering/internal/invoicing/application/commands"
	"github.com/felixgeelhaar/fakturering/internal/invoicing/application/queries"
	"github.com/felixgeelhaar/fakturering/internal/invoicing/domain/invoice"
)

var statusCmd = &cobra.Command{
	Use:   "status [id] [status]",
	Short: "Change the status of an invoice",
	Long: `Change the status of an invoice to NOT_PAID, PAID or OVERDUE.

Examples:
  fakturering invoice status 12 PAID
  fakturering invoice status 12 OVERDUE`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil || app.UpdateInvoiceStatusHandler == nil {
			return cli.ErrNotInitialized
		}

		inv, err := app.UpdateInvoiceStatusHandler.Handle(cmd.Context(), commands.UpdateInvoiceStatusCommand{
			InvoiceID:     invoice.ID(args[0]),
			Status:        args[1],
			UserID:        app.CurrentUser,
			CorrelationID: cli.CorrelationID(cmd.Context()),
		})
		if err != nil {
			return fmt.Errorf("failed to update invoice %s: %w", args[0], err)
		}

		return cli.PrintJSON(cmd.OutOrStdout(), queries.NewInvoiceDTO(inv))
	},
}
