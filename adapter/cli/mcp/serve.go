package mcp

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/fakturering/adapter/cli"
	mcpinternal "github.com/felixgeelhaar/fakturering/internal/mcp"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server",
	Long: `Start an MCP server on MCP_ADDR exposing the invoice operations as tools.
Set MCP_AUTH_TOKEN to require a bearer token.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil || app.Container == nil {
			return cli.ErrNotInitialized
		}

		err := mcpinternal.Serve(cmd.Context(), app.Container.Config, app, app.Container.Logger)
		if err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	},
}
