package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check the invoice store and broker",
	RunE: func(cmd *cobra.Command, args []string) error {
		app := GetApp()
		if app == nil || app.Container == nil {
			return ErrNotInitialized
		}

		health := app.Container.Health.Check(cmd.Context())
		if err := PrintJSON(cmd.OutOrStdout(), health); err != nil {
			return err
		}
		if !health.Healthy() {
			return fmt.Errorf("service is %s", health.Status)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(healthCmd)
}
