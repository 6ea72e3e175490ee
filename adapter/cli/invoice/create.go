package invoice

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/fakturering/adapter/cli"
	"github.com/felixgeelhaar/fakturering/internal/invoicing/application/commands"
	"github.com/felixgeelhaar/fakturering/internal/invoicing/application/queries"
)

var (
	subscriptionID string
	customerID     string
	amount         string
	dueDate        string
)

var createCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a new invoice",
	Long: `Create an unpaid invoice for a subscription.

Examples:
  fakturering invoice create --subscription-id 7 --customer-id 42 --amount 199.95 --due-date 2024-02-01`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil || app.CreateInvoiceHandler == nil {
			return cli.ErrNotInitialized
		}

		createCmd := commands.CreateInvoiceCommand{
			CreatedBy:     app.CreatedBy(),
			CorrelationID: cli.CorrelationID(cmd.Context()),
		}

		var err error
		if createCmd.SubscriptionID, err = parseOptionalInt("subscription-id", subscriptionID); err != nil {
			return err
		}
		if createCmd.CustomerID, err = parseOptionalInt("customer-id", customerID); err != nil {
			return err
		}
		if amount != "" {
			parsed, err := strconv.ParseFloat(amount, 64)
			if err != nil {
				return fmt.Errorf("invalid amount %q: %w", amount, err)
			}
			createCmd.Amount = &parsed
		}
		if dueDate != "" {
			due := dueDate
			createCmd.DueDate = &due
		}

		inv, err := app.CreateInvoiceHandler.Handle(cmd.Context(), createCmd)
		if err != nil {
			return fmt.Errorf("failed to create invoice: %w", err)
		}

		return cli.PrintJSON(cmd.OutOrStdout(), queries.NewInvoiceDTO(inv))
	},
}

func parseOptionalInt(flag, value string) (*int64, error) {
	if value == "" {
		return nil, nil
	}
	n, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid %s %q: %w", flag, value, err)
	}
	return &n, nil
}

func init() {
	createCmd.Flags().StringVar(&subscriptionID, "subscription-id", "", "subscription the invoice bills (abonnements_id)")
	createCmd.Flags().StringVar(&customerID, "customer-id", "", "customer who owes the amount (kunde_id)")
	createCmd.Flags().StringVar(&amount, "amount", "", "amount owed (beloeb)")
	createCmd.Flags().StringVar(&dueDate, "due-date", "", "payment due date (betalingsdato)")
}
