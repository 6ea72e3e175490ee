package invoice

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/fakturering/adapter/cli"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Summarize paid and outstanding invoices",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil || app.GetReportHandler == nil {
			return cli.ErrNotInitialized
		}

		report, err := app.GetReportHandler.Handle(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to build report: %w", err)
		}

		return cli.PrintJSON(cmd.OutOrStdout(), report)
	},
}
