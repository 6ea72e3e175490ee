package invoice

import (
	"github.com/spf13/cobra"
)

// Cmd is the invoice command group
var Cmd = &cobra.Command{
	Use:     "invoice",
	Aliases: []string{"faktura"},
	Short:   "Manage invoices",
	Long: `Create invoices, look them up, change their status and report totals.

With the in-process memory store every command starts from an empty set of
invoices. Set REDIS_URL or use the persistent variant to keep them.`,
}

func init() {
	Cmd.AddCommand(createCmd)
	Cmd.AddCommand(getCmd)
	Cmd.AddCommand(statusCmd)
	Cmd.AddCommand(reportCmd)
}
